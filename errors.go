package code2pdf

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for library operations.
var (
	ErrReadSource     = errors.New("unable to read source file")
	ErrHighlight      = errors.New("highlighting failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Configuration errors.
	ErrStyleNotFound   = errors.New("invalid style name")
	ErrInvalidPageSize = errors.New("invalid page size")
)

// StyleError reports an unknown highlighting style together with the names
// that would have been accepted. It matches ErrStyleNotFound with errors.Is.
type StyleError struct {
	Name  string
	Valid []string
}

func (e *StyleError) Error() string {
	return fmt.Sprintf("%v: %s\nExpecting one of:\n    %s",
		ErrStyleNotFound, e.Name, strings.Join(e.Valid, "\n    "))
}

func (e *StyleError) Unwrap() error {
	return ErrStyleNotFound
}
