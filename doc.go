// Package code2pdf converts source code to syntax-highlighted PDF using
// chroma and headless Chrome.
//
// # Quick Start
//
// Create a converter once, convert any number of files, and close it when done:
//
//	conv := code2pdf.NewConverter()
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, code2pdf.Input{
//	    Source:      string(content),
//	    Filename:    "main.go",
//	    LineNumbers: true,
//	    Style:       "xcode",
//	    PageSize:    "a3",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("main.pdf", result.PDF, 0644)
//
// # Conversion Pipeline
//
//  1. Lexer selection: filename pattern, then content analysis, then plain text
//  2. Highlighting to a standalone HTML document with inline styles
//  3. Markup cleanup (credit comments) and print stylesheet injection
//  4. PDF printing via headless Chrome (go-rod) with a 15mm margin
//
// An unknown style name fails with a *StyleError listing the valid names.
// An unknown page size falls back to A4; use ResolvePageSize to detect it.
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library downloads a
// managed Chromium on first run (~/.cache/rod/browser/) when none is found.
// Set ROD_BROWSER_BIN to use a specific binary and ROD_NO_SANDBOX=1 in
// containers.
package code2pdf
