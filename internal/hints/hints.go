// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-code2pdf/internal/fileutil"
)

// cropToolPackages names where each external crop tool comes from.
var cropToolPackages = map[string]string{
	"pdfcrop":          "install TeX Live (texlive-extra-utils) for pdfcrop",
	"pdf-crop-margins": "pip install pdfCropMargins",
}

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow renders.
func ForTimeout() string {
	return format("for long source files, use --timeout flag")
}

// ForCropTool returns a hint for a missing or failing crop tool.
// Unknown tools get the generic --no-crop suggestion only.
func ForCropTool(tool string) string {
	hints := []string{}
	if pkg, ok := cropToolPackages[tool]; ok {
		hints = append(hints, pkg)
	}
	hints = append(hints, "use --no-crop to skip margin cropping")
	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "/code2pdf/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForStyle returns a hint pointing at the style listing.
func ForStyle() string {
	return format("run with --list-styles to print valid names")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
