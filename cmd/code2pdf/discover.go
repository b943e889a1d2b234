package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-code2pdf/internal/fileutil"
)

// Sentinel errors for input resolution.
var (
	ErrInputNotFound = errors.New("input is neither a file nor a directory")
	ErrNoSourceFiles = errors.New("no source files found")
)

// pdfExt is the extension given to every output file.
const pdfExt = ".pdf"

// Job is one source file to convert.
type Job struct {
	InputPath  string
	OutputPath string
	Batch      bool // Discovered by directory walk; cropping applies
}

// discoverOptions controls directory-mode discovery.
type discoverOptions struct {
	Extensions   []string // Lower-case, with leading dot
	OutputPrefix string   // Prepended to the mirrored directory
}

// resolveJobs classifies path and lists the jobs to run.
// A file yields one job whose output is explicitOutput, or <cwd>/<base>.pdf.
// A directory yields one job per matching file; explicitOutput is ignored.
func resolveJobs(path, explicitOutput, cwd string, opts discoverOptions) ([]Job, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("inspecting %s: %w", path, err)
	}

	switch {
	case info.Mode().IsRegular():
		out := explicitOutput
		if out == "" {
			out = filepath.Join(cwd, fileutil.ReplaceExt(path, pdfExt))
		}
		return []Job{{InputPath: path, OutputPath: out}}, nil

	case info.IsDir():
		return discoverDir(path, cwd, opts)

	default:
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
}

// discoverDir walks root in lexical order and keeps files whose extension
// is selected, skipping version-control directories. A root that itself
// lies inside one yields no files.
func discoverDir(root, cwd string, opts discoverOptions) ([]Job, error) {
	var jobs []Job
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && fileutil.IsVCSDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || fileutil.InVCSDir(p) || !hasExtension(p, opts.Extensions) {
			return nil
		}
		jobs = append(jobs, Job{
			InputPath:  p,
			OutputPath: batchOutputPath(p, cwd, opts.OutputPrefix),
			Batch:      true,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w in %s (extensions: %s)", ErrNoSourceFiles, root, strings.Join(opts.Extensions, ", "))
	}
	return jobs, nil
}

// batchOutputPath mirrors the directory of p under cwd, with prefix glued
// to the front of that directory string: "/a/b/x.py" becomes
// "<cwd>/pdf_/a/b/x.pdf" and "src/x.py" becomes "<cwd>/pdf_src/x.pdf".
func batchOutputPath(p, cwd, prefix string) string {
	dir := prefix + filepath.Dir(p)
	return filepath.Join(cwd, dir, fileutil.ReplaceExt(p, pdfExt))
}

// hasExtension reports whether p ends with one of exts (case-insensitive).
func hasExtension(p string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
