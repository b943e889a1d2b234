package code2pdf

import (
	"sort"
	"strings"
	"time"
)

// Page size names accepted by ResolvePageSize (case-insensitive).
const (
	PageSizeA0        = "a0"
	PageSizeA1        = "a1"
	PageSizeA2        = "a2"
	PageSizeA3        = "a3"
	PageSizeA4        = "a4"
	PageSizeA5        = "a5"
	PageSizeA6        = "a6"
	PageSizeB4        = "b4"
	PageSizeB5        = "b5"
	PageSizeLetter    = "letter"
	PageSizeLegal     = "legal"
	PageSizeTabloid   = "tabloid"
	PageSizeLedger    = "ledger"
	PageSizeExecutive = "executive"
)

const (
	// DefaultPageSize is the size used when the caller leaves Input.PageSize empty.
	DefaultPageSize = PageSizeA3

	// FallbackPageSize replaces any page size token that is not recognized.
	FallbackPageSize = PageSizeA4

	// MarginMM is applied to all four sides of every page.
	MarginMM = 15.0

	// DefaultStyle is the highlighting theme used when Input.Style is empty.
	DefaultStyle = "xcode"
)

// PageSize is a physical page dimension in portrait orientation.
type PageSize struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

var pageSizes = map[string]PageSize{
	PageSizeA0:        {PageSizeA0, 841, 1189},
	PageSizeA1:        {PageSizeA1, 594, 841},
	PageSizeA2:        {PageSizeA2, 420, 594},
	PageSizeA3:        {PageSizeA3, 297, 420},
	PageSizeA4:        {PageSizeA4, 210, 297},
	PageSizeA5:        {PageSizeA5, 148, 210},
	PageSizeA6:        {PageSizeA6, 105, 148},
	PageSizeB4:        {PageSizeB4, 250, 353},
	PageSizeB5:        {PageSizeB5, 176, 250},
	PageSizeLetter:    {PageSizeLetter, 215.9, 279.4},
	PageSizeLegal:     {PageSizeLegal, 215.9, 355.6},
	PageSizeTabloid:   {PageSizeTabloid, 279.4, 431.8},
	PageSizeLedger:    {PageSizeLedger, 431.8, 279.4},
	PageSizeExecutive: {PageSizeExecutive, 184.15, 266.7},
}

// ResolvePageSize maps a page size token to its physical dimension.
// Lookup is case-insensitive and ignores surrounding whitespace. Unknown
// tokens resolve to FallbackPageSize with ok set to false, so callers can
// decide whether the fallback deserves a warning or an error.
func ResolvePageSize(token string) (size PageSize, ok bool) {
	if ps, found := pageSizes[strings.ToLower(strings.TrimSpace(token))]; found {
		return ps, true
	}
	return pageSizes[FallbackPageSize], false
}

// PageSizeNames returns the recognized page size tokens, sorted.
func PageSizeNames() []string {
	names := make([]string, 0, len(pageSizes))
	for name := range pageSizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Input contains conversion parameters for a single source file.
type Input struct {
	Source      string // File content (may be empty)
	Filename    string // Used for lexer selection by name; may be a full path
	LineNumbers bool   // Render a line-number gutter
	Style       string // Chroma style name ("" = DefaultStyle)
	PageSize    string // Page size token ("" = DefaultPageSize)
}

// ConvertResult holds the outputs of a conversion.
type ConvertResult struct {
	HTML  []byte   // Markup handed to the renderer
	PDF   []byte   // Rendered document
	Lexer string   // Name of the lexer that tokenized the source
	Page  PageSize // Page size actually used
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout  time.Duration
	htmlOnly bool
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("code2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithHTMLOnly skips PDF rendering; ConvertResult.PDF stays nil.
// No browser is launched by a converter configured this way.
func WithHTMLOnly() Option {
	return func(c *Converter) {
		c.cfg.htmlOnly = true
	}
}
