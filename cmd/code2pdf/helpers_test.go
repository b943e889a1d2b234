package main

// Notes:
// - Test infrastructure shared by the CLI tests: a recording converter,
//   a recording cropper and an Environment wired to buffers.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-code2pdf"
	"github.com/alnah/go-code2pdf/internal/postprocess"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// mockConverter records inputs and returns a fixed PDF.
// failOn maps a filename suffix to the error returned for it.
type mockConverter struct {
	mu      sync.Mutex
	inputs  []code2pdf.Input
	failOn  map[string]error
	closed  bool
	timeout time.Duration
}

func (m *mockConverter) Convert(_ context.Context, in code2pdf.Input) (*code2pdf.ConvertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inputs = append(m.inputs, in)
	for suffix, err := range m.failOn {
		if strings.HasSuffix(in.Filename, suffix) {
			return nil, err
		}
	}
	page, _ := code2pdf.ResolvePageSize(in.PageSize)
	return &code2pdf.ConvertResult{PDF: []byte("%PDF-1.4 mock"), Lexer: "Python", Page: page}, nil
}

func (m *mockConverter) Close() error {
	m.closed = true
	return nil
}

// mockCropper records cropped paths.
type mockCropper struct {
	opts     postprocess.Options
	checkErr error
	cropErr  error
	cropped  []string
}

func (m *mockCropper) Check() error { return m.checkErr }

func (m *mockCropper) Crop(_ context.Context, path string) error {
	m.cropped = append(m.cropped, path)
	return m.cropErr
}

// testEnv bundles an Environment with its captured output and mocks.
type testEnv struct {
	*Environment
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	conv    *mockConverter
	cropper *mockCropper
	cwd     string
	vars    map[string]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		conv:    &mockConverter{},
		cropper: &mockCropper{},
		cwd:     t.TempDir(),
		vars:    map[string]string{},
	}
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	te.Environment = &Environment{
		Now:    func() time.Time { return fixed },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getwd:  func() (string, error) { return te.cwd, nil },
		Getenv: func(k string) string { return te.vars[k] },
		NewConverter: func(timeout time.Duration) Converter {
			te.conv.timeout = timeout
			return te.conv
		},
		NewCropper: func(opts postprocess.Options) Cropper {
			te.cropper.opts = opts
			return te.cropper
		},
	}
	return te
}

// writeFile creates path (and its parents) with content.
func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// mustParse parses args (without program name) or fails the test.
func mustParse(t *testing.T, args ...string) (*cliFlags, []string) {
	t.Helper()
	f, pos, err := parseFlags(args)
	if err != nil {
		t.Fatalf("parseFlags(%v) unexpected error: %v", args, err)
	}
	return f, pos
}
