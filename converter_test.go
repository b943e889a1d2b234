package code2pdf

// Notes:
// - Tests Converter.Convert with mocked components to isolate unit logic
// - mockPDFConverter records the HTML and print options it receives so page
//   size mapping and margins can be checked without a browser
// - Real highlighting is used; chroma needs no external process

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockPDFConverter struct {
	called    bool
	inputHTML string
	inputOpts *pdfOptions
	output    []byte
	err       error
	closed    bool
}

func (m *mockPDFConverter) ToPDF(_ context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	m.called = true
	m.inputHTML = htmlContent
	m.inputOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}

type panicHighlighter struct{}

func (panicHighlighter) Highlight(context.Context, string, string, bool, string) (*Highlighted, error) {
	panic("boom")
}

func newTestConverter(pdf *mockPDFConverter, opts ...Option) *Converter {
	c := &Converter{
		cfg:          converterConfig{timeout: defaultTimeout},
		highlighter:  NewHighlighter(),
		pdfConverter: pdf,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const pySource = "def greet(name):\n\treturn f\"hello {name}\"\n"

// ---------------------------------------------------------------------------
// TestConvert_PageSize - Page size resolution reaches the renderer
// ---------------------------------------------------------------------------

func TestConvert_PageSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		token      string
		wantName   string
		wantWidth  float64
		wantHeight float64
	}{
		{"empty defaults to a3", "", PageSizeA3, 297, 420},
		{"a2", "a2", PageSizeA2, 420, 594},
		{"uppercase", "A4", PageSizeA4, 210, 297},
		{"letter", "letter", PageSizeLetter, 215.9, 279.4},
		{"unknown falls back to a4", "foolscap", PageSizeA4, 210, 297},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pdf := &mockPDFConverter{}
			c := newTestConverter(pdf)

			res, err := c.Convert(context.Background(), Input{
				Source:   pySource,
				Filename: "greet.py",
				PageSize: tt.token,
			})
			if err != nil {
				t.Fatalf("Convert() unexpected error: %v", err)
			}

			if res.Page.Name != tt.wantName {
				t.Errorf("result page = %q, want %q", res.Page.Name, tt.wantName)
			}
			got := pdf.inputOpts.Page
			if got.WidthMM != tt.wantWidth || got.HeightMM != tt.wantHeight {
				t.Errorf("renderer page = %vx%v, want %vx%v", got.WidthMM, got.HeightMM, tt.wantWidth, tt.wantHeight)
			}
			if pdf.inputOpts.MarginMM != MarginMM {
				t.Errorf("margin = %v, want %v", pdf.inputOpts.MarginMM, MarginMM)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Markup - What reaches the renderer
// ---------------------------------------------------------------------------

func TestConvert_Markup(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{output: []byte("%PDF-1.7 custom")}
	c := newTestConverter(pdf)

	res, err := c.Convert(context.Background(), Input{
		Source:      pySource,
		Filename:    "greet.py",
		LineNumbers: true,
	})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if string(res.PDF) != "%PDF-1.7 custom" {
		t.Errorf("PDF = %q, want renderer output", res.PDF)
	}
	if !strings.HasPrefix(res.Lexer, "Python") {
		t.Errorf("Lexer = %q, want Python", res.Lexer)
	}
	if pdf.inputHTML != string(res.HTML) {
		t.Error("renderer should receive the same HTML as the result")
	}
	if !strings.Contains(pdf.inputHTML, "<style>"+printCSS+"</style>") {
		t.Error("print stylesheet not injected")
	}
	if !strings.Contains(pdf.inputHTML, `<meta charset="utf-8">`) {
		t.Error("charset declaration missing")
	}
	if strings.Contains(strings.ToLower(pdf.inputHTML), "generated by") {
		t.Error("generator credit not stripped")
	}
	if !strings.Contains(pdf.inputHTML, "greet") {
		t.Error("source text missing from markup")
	}
}

func TestConvert_Deterministic(t *testing.T) {
	t.Parallel()

	c := newTestConverter(&mockPDFConverter{}, WithHTMLOnly())
	in := Input{Source: pySource, Filename: "greet.py", LineNumbers: true, Style: "monokai"}

	first, err := c.Convert(context.Background(), in)
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}
	second, err := c.Convert(context.Background(), in)
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if string(first.HTML) != string(second.HTML) {
		t.Error("same input produced different markup")
	}
}

// ---------------------------------------------------------------------------
// TestConvert_HTMLOnly - No renderer call
// ---------------------------------------------------------------------------

func TestConvert_HTMLOnly(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{}
	c := newTestConverter(pdf, WithHTMLOnly())

	res, err := c.Convert(context.Background(), Input{Source: "x = 1\n", Filename: "x.py"})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if pdf.called {
		t.Error("renderer should not be called in HTML-only mode")
	}
	if res.PDF != nil {
		t.Errorf("PDF = %q, want nil", res.PDF)
	}
	if len(res.HTML) == 0 {
		t.Error("HTML should not be empty")
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Errors - Error propagation
// ---------------------------------------------------------------------------

func TestConvert_InvalidStyle(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{}
	c := newTestConverter(pdf)

	_, err := c.Convert(context.Background(), Input{Source: "x = 1\n", Filename: "x.py", Style: "no-such-style"})
	if !errors.Is(err, ErrStyleNotFound) {
		t.Fatalf("Convert() = %v, want ErrStyleNotFound", err)
	}

	var styleErr *StyleError
	if !errors.As(err, &styleErr) {
		t.Fatalf("error %T is not *StyleError", err)
	}
	if styleErr.Name != "no-such-style" {
		t.Errorf("StyleError.Name = %q", styleErr.Name)
	}
	if pdf.called {
		t.Error("renderer should not be called after a style error")
	}
}

func TestConvert_PDFError(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{err: ErrBrowserConnect}
	c := newTestConverter(pdf)

	_, err := c.Convert(context.Background(), Input{Source: "x = 1\n", Filename: "x.py"})
	if !errors.Is(err, ErrBrowserConnect) {
		t.Fatalf("Convert() = %v, want ErrBrowserConnect", err)
	}
	if !strings.Contains(err.Error(), "converting to PDF") {
		t.Errorf("error %q should mention the failing stage", err)
	}
}

func TestConvert_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pdf := &mockPDFConverter{}
	c := newTestConverter(pdf)

	_, err := c.Convert(ctx, Input{Source: "x = 1\n", Filename: "x.py"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Convert() = %v, want context.Canceled", err)
	}
	if pdf.called {
		t.Error("renderer should not be called with a canceled context")
	}
}

func TestConvert_RecoversPanic(t *testing.T) {
	t.Parallel()

	c := &Converter{
		cfg:          converterConfig{timeout: defaultTimeout},
		highlighter:  panicHighlighter{},
		pdfConverter: &mockPDFConverter{},
	}

	_, err := c.Convert(context.Background(), Input{Source: "x", Filename: "x.py"})
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Fatalf("Convert() = %v, want internal error", err)
	}

	// The mutex must have been released by the deferred unlock.
	if _, err := c.Convert(context.Background(), Input{Source: "x", Filename: "x.py"}); err == nil {
		t.Error("second Convert() should also report the panic, not deadlock")
	}
}

// ---------------------------------------------------------------------------
// TestConverter_Lifecycle - Construction and Close
// ---------------------------------------------------------------------------

func TestNewConverter_Defaults(t *testing.T) {
	t.Parallel()

	c := NewConverter()
	defer c.Close()

	if c.cfg.timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", c.cfg.timeout, defaultTimeout)
	}
	if _, ok := c.pdfConverter.(*rodConverter); !ok {
		t.Errorf("pdfConverter = %T, want *rodConverter", c.pdfConverter)
	}
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{}
	c := newTestConverter(pdf)

	if err := c.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if !pdf.closed {
		t.Error("Close() should close the PDF converter")
	}
}
