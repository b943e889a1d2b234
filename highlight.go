package code2pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	// tabWidth is the number of columns a tab expands to in rendered code.
	tabWidth = 4

	// plainTextLexer is used when neither filename nor content identify a language.
	plainTextLexer = "plaintext"
)

// Highlighted is the markup produced for one source file.
type Highlighted struct {
	HTML  string // Standalone HTML document with inline styles
	Lexer string // Name of the lexer that tokenized the source
}

// Highlighter turns source text into a standalone, inline-styled HTML document
// using chroma. The zero value is ready to use and safe for concurrent use.
type Highlighter struct{}

// NewHighlighter creates a Highlighter.
func NewHighlighter() *Highlighter {
	return &Highlighter{}
}

// Highlight tokenizes content and formats it as HTML.
// The lexer is chosen by filename, then by content analysis, then falls back
// to plain text, so an unknown language never causes an error. An unknown
// style returns a *StyleError.
func (h *Highlighter) Highlight(ctx context.Context, content, filename string, lineNumbers bool, style string) (*Highlighted, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := LookupStyle(style)
	if err != nil {
		return nil, err
	}

	lexer := SelectLexer(filename, content)

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return nil, fmt.Errorf("%w: tokenizing %s: %v", ErrHighlight, filename, err)
	}

	formatter := chromahtml.New(
		chromahtml.Standalone(true),
		chromahtml.WithLineNumbers(lineNumbers),
		chromahtml.TabWidth(tabWidth),
	)

	var sb strings.Builder
	if err := formatter.Format(&sb, s, iterator); err != nil {
		return nil, fmt.Errorf("%w: formatting %s: %v", ErrHighlight, filename, err)
	}

	return &Highlighted{
		HTML:  sb.String(),
		Lexer: lexer.Config().Name,
	}, nil
}

// SelectLexer picks a lexer for a source file.
// Priority: filename pattern, shebang or markup prolog, content analysis,
// plain text.
func SelectLexer(filename, content string) chroma.Lexer {
	var lexer chroma.Lexer
	if filename != "" {
		lexer = lexers.Match(filepath.Base(filename))
	}
	if lexer == nil {
		lexer = sniffLexer(content)
	}
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Get(plainTextLexer)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// LookupStyle returns the chroma style registered under name.
// An empty name selects DefaultStyle. Matching is case-insensitive.
func LookupStyle(name string) (*chroma.Style, error) {
	if name == "" {
		name = DefaultStyle
	}
	if s, ok := styles.Registry[name]; ok {
		return s, nil
	}
	for key, s := range styles.Registry {
		if strings.EqualFold(key, name) {
			return s, nil
		}
	}
	return nil, &StyleError{Name: name, Valid: StyleNames()}
}

// ValidateStyle reports whether name is a known style without highlighting
// anything. Callers use it to reject a bad style before any output exists.
func ValidateStyle(name string) error {
	_, err := LookupStyle(name)
	return err
}

// StyleNames returns all registered style names, sorted.
func StyleNames() []string {
	names := make([]string, 0, len(styles.Registry))
	for name := range styles.Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// markupPrologs map a leading document marker to a lexer name.
var markupPrologs = []struct {
	prefix string
	lexer  string
}{
	{"<?php", "php"},
	{"<?xml", "xml"},
	{"<!doctype html", "html"},
	{"<html", "html"},
}

// sniffLexer recognizes a language from the first line of content:
// an interpreter shebang or a markup prolog. Returns nil otherwise.
func sniffLexer(content string) chroma.Lexer {
	first, _, _ := strings.Cut(strings.TrimLeft(content, "\ufeff"), "\n")
	first = strings.TrimSpace(first)

	if interp := shebangInterpreter(first); interp != "" {
		return lexers.Get(interp)
	}

	lower := strings.ToLower(first)
	for _, p := range markupPrologs {
		if strings.HasPrefix(lower, p.prefix) {
			return lexers.Get(p.lexer)
		}
	}
	return nil
}

// shebangInterpreter returns the interpreter named by a "#!" line, without
// directory or version suffix: "#!/usr/bin/env -S python3.11 -u" gives
// "python". Returns "" when line is not a shebang.
func shebangInterpreter(line string) string {
	rest, ok := strings.CutPrefix(line, "#!")
	if !ok {
		return ""
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}

	name := filepath.Base(fields[0])
	if name == "env" {
		name = ""
		for _, f := range fields[1:] {
			// env options and VAR=value assignments precede the command
			if strings.HasPrefix(f, "-") || strings.Contains(f, "=") {
				continue
			}
			name = filepath.Base(f)
			break
		}
	}

	return strings.TrimRight(name, "0123456789.")
}
