package code2pdf

import (
	"context"
	"fmt"
	"sync"
)

// Compile-time interface implementation checks.
var (
	_ sourceHighlighter = (*Highlighter)(nil)
	_ pdfConverter      = (*rodConverter)(nil)
	_ pdfRenderer       = (*rodRenderer)(nil)
)

// sourceHighlighter abstracts source-to-markup conversion.
type sourceHighlighter interface {
	Highlight(ctx context.Context, content, filename string, lineNumbers bool, style string) (*Highlighted, error)
}

// Converter runs the highlight-and-print pipeline.
//
// A Converter owns one headless browser, launched on the first PDF render and
// released by Close. Create it once per process and reuse it for every file:
// conversions are serialized, so at most one render is in flight.
type Converter struct {
	cfg          converterConfig
	highlighter  sourceHighlighter
	pdfConverter pdfConverter
	mu           sync.Mutex
}

// NewConverter creates a Converter. The browser is not started until the
// first call to Convert that needs a PDF.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg:         converterConfig{timeout: defaultTimeout},
		highlighter: NewHighlighter(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c
}

// Convert highlights input.Source and renders it to PDF.
// The context is used for cancellation and timeout.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	pageToken := input.PageSize
	if pageToken == "" {
		pageToken = DefaultPageSize
	}
	page, _ := ResolvePageSize(pageToken)

	hl, err := c.highlighter.Highlight(ctx, input.Source, input.Filename, input.LineNumbers, input.Style)
	if err != nil {
		return nil, err
	}

	htmlContent := StripCredits(hl.HTML)
	htmlContent = ensureCharset(htmlContent)
	htmlContent = InjectCSS(htmlContent, printCSS)

	res := &ConvertResult{
		HTML:  []byte(htmlContent),
		Lexer: hl.Lexer,
		Page:  page,
	}

	if c.cfg.htmlOnly {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{
		Page:     page,
		MarginMM: MarginMM,
	})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	res.PDF = pdfBytes
	return res, nil
}

// Close releases the browser. The Converter must not be used afterwards.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}
