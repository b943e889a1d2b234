package main

import (
	"errors"
	"os"

	"github.com/alnah/go-code2pdf"
	"github.com/alnah/go-code2pdf/internal/config"
)

// Exit codes for code2pdf CLI.
// 2 keeps the historical status for an unreadable source file.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitIO      = 2 // Unreadable source, missing input, write failure
	ExitUsage   = 3 // Invalid flags, style, page size or config
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, code2pdf.ErrBrowserConnect) ||
		errors.Is(err, code2pdf.ErrPageCreate) ||
		errors.Is(err, code2pdf.ErrPageLoad) ||
		errors.Is(err, code2pdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 3)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, code2pdf.ErrStyleNotFound) ||
		errors.Is(err, code2pdf.ErrInvalidPageSize) {
		return ExitUsage
	}

	// I/O errors (exit 2)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, code2pdf.ErrReadSource) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrInputNotFound) ||
		errors.Is(err, ErrNoSourceFiles) {
		return ExitIO
	}

	return ExitGeneral
}
