package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/go-code2pdf"
	"github.com/alnah/go-code2pdf/internal/postprocess"
)

// Converter is the part of code2pdf.Converter the CLI drives.
type Converter interface {
	Convert(ctx context.Context, input code2pdf.Input) (*code2pdf.ConvertResult, error)
	Close() error
}

// Cropper is the part of postprocess.Cropper the CLI drives.
type Cropper interface {
	Check() error
	Crop(ctx context.Context, path string) error
}

// Compile-time interface implementation checks.
var (
	_ Converter = (*code2pdf.Converter)(nil)
	_ Cropper   = (*postprocess.Cropper)(nil)
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	Getwd        func() (string, error)
	Getenv       func(string) string
	NewConverter func(timeout time.Duration) Converter
	NewCropper   func(opts postprocess.Options) Cropper
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getwd:  os.Getwd,
		Getenv: os.Getenv,
		NewConverter: func(timeout time.Duration) Converter {
			return code2pdf.NewConverter(code2pdf.WithTimeout(timeout))
		},
		NewCropper: func(opts postprocess.Options) Cropper {
			return postprocess.NewCropper(opts)
		},
	}
}
