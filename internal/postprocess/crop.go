// Package postprocess crops and normalizes the margins of rendered PDFs
// with external command-line tools.
package postprocess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/alnah/go-code2pdf/internal/process"
)

// Sentinel errors for post-processing.
var (
	ErrCropFailed  = errors.New("margin cropping failed")
	ErrToolMissing = errors.New("crop tool not found")
)

// maxOutputTail bounds how much tool output is kept in an error message.
const maxOutputTail = 512

// Step names, reported in errors.
const (
	StepCrop      = "crop"
	StepNormalize = "normalize"
	StepRemove    = "remove"
	StepRename    = "rename"
)

// Runner executes an external command and returns its combined output.
// A non-zero exit status must be reported as an error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec. Each command gets its own process
// group, killed as a whole when ctx is canceled.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- tool names come from config
	process.Configure(cmd)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Options configures the tools a Cropper invokes.
type Options struct {
	PdfcropCommand string   // e.g. "pdfcrop"
	PdfcropMargins string   // "left top right bottom" in bp
	NormalizeCmd   string   // e.g. "pdf-crop-margins"
	NormalizeArgs  []string // arguments placed before -o
	TempSuffix     string   // appended to the PDF path for the normalized copy
}

// Cropper runs the crop pipeline on one PDF at a time.
type Cropper struct {
	opts     Options
	runner   Runner
	lookPath func(string) (string, error)
}

// NewCropper creates a Cropper that runs real processes.
func NewCropper(opts Options) *Cropper {
	return NewCropperWith(opts, ExecRunner{})
}

// NewCropperWith creates a Cropper with a custom Runner.
func NewCropperWith(opts Options, runner Runner) *Cropper {
	if opts.TempSuffix == "" {
		opts.TempSuffix = "_"
	}
	return &Cropper{opts: opts, runner: runner, lookPath: exec.LookPath}
}

// Tools returns the commands this Cropper depends on.
func (c *Cropper) Tools() []string {
	return []string{c.opts.PdfcropCommand, c.opts.NormalizeCmd}
}

// Check verifies that every tool can be found on PATH.
// The error wraps ErrToolMissing and names the first missing tool.
func (c *Cropper) Check() error {
	for _, tool := range c.Tools() {
		if _, err := c.lookPath(tool); err != nil {
			return &StepError{Step: "check", Tool: tool, Err: fmt.Errorf("%w: %v", ErrToolMissing, err)}
		}
	}
	return nil
}

// Crop trims the margins of the PDF at path and normalizes all its pages
// to a common size, replacing the file in place:
//
//  1. pdfcrop writes the cropped PDF back to path
//  2. pdf-crop-margins writes the normalized PDF to path+TempSuffix
//  3. path is removed
//  4. path+TempSuffix is renamed to path
//
// Any failing step stops the sequence. The temporary file never survives
// a failure; path is left as the last successful step produced it.
func (c *Cropper) Crop(ctx context.Context, path string) error {
	tmpPath := path + c.opts.TempSuffix

	cropArgs := []string{"--noverbose", "--margins", c.opts.PdfcropMargins, path, path}
	if out, err := c.runner.Run(ctx, c.opts.PdfcropCommand, cropArgs...); err != nil {
		return newStepError(StepCrop, c.opts.PdfcropCommand, err, out)
	}

	normArgs := append(append([]string{}, c.opts.NormalizeArgs...), "-o", tmpPath, path)
	if out, err := c.runner.Run(ctx, c.opts.NormalizeCmd, normArgs...); err != nil {
		_ = os.Remove(tmpPath)
		return newStepError(StepNormalize, c.opts.NormalizeCmd, err, out)
	}

	if _, err := os.Stat(tmpPath); err != nil {
		return newStepError(StepNormalize, c.opts.NormalizeCmd, fmt.Errorf("no output at %s: %w", tmpPath, err), nil)
	}

	if err := os.Remove(path); err != nil {
		_ = os.Remove(tmpPath)
		return newStepError(StepRemove, "", err, nil)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return newStepError(StepRename, "", err, nil)
	}

	return nil
}

// StepError describes which crop step failed.
// It matches ErrCropFailed with errors.Is, as well as the underlying cause.
type StepError struct {
	Step   string
	Tool   string
	Output string
	Err    error
}

func newStepError(step, tool string, err error, out []byte) *StepError {
	return &StepError{Step: step, Tool: tool, Err: err, Output: tail(out)}
}

func (e *StepError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v: %s step", ErrCropFailed, e.Step)
	if e.Tool != "" {
		fmt.Fprintf(&sb, " (%s)", e.Tool)
	}
	fmt.Fprintf(&sb, ": %v", e.Err)
	if e.Output != "" {
		fmt.Fprintf(&sb, ": %s", e.Output)
	}
	return sb.String()
}

func (e *StepError) Unwrap() []error {
	return []error{ErrCropFailed, e.Err}
}

// tail keeps the last maxOutputTail bytes of tool output on one line.
func tail(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > maxOutputTail {
		s = "..." + s[len(s)-maxOutputTail:]
	}
	return strings.Join(strings.Fields(s), " ")
}
