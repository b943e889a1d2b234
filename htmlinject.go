package code2pdf

import (
	"regexp"
	"strings"
)

// creditPatterns match credit text that highlighters embed in their output.
// They are removed before layout so nothing but the code reaches the page.
var creditPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<!--\s*generated by [^>]*-->`),
	regexp.MustCompile(`<http://pygments\.org>`),
}

// printCSS lays the highlighted document out for paper. Page size and margins
// come from the print options, not from CSS, so the same markup fits any size.
const printCSS = `
html, body { margin: 0; padding: 0; }
body { -webkit-print-color-adjust: exact; print-color-adjust: exact; }
pre, code, table, td {
  font-family: "DejaVu Sans Mono", "Liberation Mono", Menlo, Consolas, monospace;
  font-size: 9pt;
  line-height: 1.35;
}
pre { white-space: pre-wrap; overflow-wrap: anywhere; margin: 0; }
table { border-spacing: 0; width: 100%; }
td { vertical-align: top; padding: 0; }
`

// StripCredits removes highlighter credit artifacts from markup.
func StripCredits(htmlContent string) string {
	for _, re := range creditPatterns {
		htmlContent = re.ReplaceAllString(htmlContent, "")
	}
	return htmlContent
}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
func InjectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could close the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// ensureCharset declares UTF-8 so the browser does not guess the encoding of
// the temporary file it loads.
func ensureCharset(htmlContent string) string {
	lowerHTML := strings.ToLower(htmlContent)
	if strings.Contains(lowerHTML, "<meta charset") {
		return htmlContent
	}
	const meta = `<meta charset="utf-8">`
	if idx := strings.Index(lowerHTML, "<html"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + meta + htmlContent[insertPos:]
		}
	}
	return meta + htmlContent
}
