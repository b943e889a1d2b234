package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-code2pdf"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: code2pdf <path> [output_path] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert source code to syntax-highlighted PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  path           Source file, or directory to convert recursively")
	fmt.Fprintln(w, "  output_path    Output PDF (single file only; default <name>.pdf in the")
	fmt.Fprintln(w, "                 current directory)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -l, --no-linenos          Exclude line numbers")
	fmt.Fprintln(w, "  -s, --size <s>            Page size (default a3)")
	fmt.Fprintln(w, "      --strict-size         Unknown page size is an error, not A4")
	fmt.Fprintln(w, "  -S, --style <name>        Highlighting style (default xcode)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-file render timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Directory mode:")
	fmt.Fprintln(w, "      --ext <list>          Extensions to convert (default .py)")
	fmt.Fprintln(w, "      --no-crop             Skip margin cropping (pdfcrop, pdf-crop-margins)")
	fmt.Fprintln(w, "      --fail-fast           Stop at the first failed file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "      --verbose             Show lexer, page count and timing")
	fmt.Fprintln(w, "      --list-styles         Print valid style names")
	fmt.Fprintln(w, "      --doctor              Check Chrome and crop tools")
	fmt.Fprintln(w, "  -V, --version             Show version")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Page sizes: %s\n", strings.Join(code2pdf.PageSizeNames(), ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN     Chrome binary to use")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1    Disable the Chrome sandbox (containers)")
	fmt.Fprintln(w, "  CODE2PDF_TIMEOUT    Default render timeout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ok, 1 error, 2 I/O, 3 usage/config, 4 browser")
}
