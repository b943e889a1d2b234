package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-code2pdf"
	"github.com/alnah/go-code2pdf/internal/config"
	"github.com/alnah/go-code2pdf/internal/pdfinfo"
	"github.com/alnah/go-code2pdf/internal/postprocess"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrWritePDF       = errors.New("failed to write PDF file")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// timeoutEnvVar overrides the default render timeout.
const timeoutEnvVar = "CODE2PDF_TIMEOUT"

// pageSizeTolerance is the slack, in mm, when comparing rendered pages.
const pageSizeTolerance = 1.0

// defaultTimeout matches the library default.
const defaultTimeout = 30 * time.Second

// conversionParams groups parameters shared by every job of a run.
type conversionParams struct {
	PageSize    string
	LineNumbers bool
	Style       string
}

// runSettings is the merged result of defaults, config file, env and flags.
type runSettings struct {
	params   conversionParams
	page     code2pdf.PageSize
	timeout  time.Duration
	crop     bool
	failFast bool
	cfg      *config.Config
}

// JobResult holds the outcome of a single job.
type JobResult struct {
	Job      Job
	Lexer    string
	Pages    int
	Err      error
	Duration time.Duration
}

// runConvert orchestrates the conversion of a file or a directory.
func runConvert(ctx context.Context, args []string, flags *cliFlags, env *Environment) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing <path> argument", ErrUsage)
	}
	if len(args) > 2 {
		return fmt.Errorf("%w: too many arguments (%d)", ErrUsage, len(args))
	}

	settings, err := resolveSettings(flags, env)
	if err != nil {
		return err
	}

	// Fail on a bad style before any file is read or written.
	if err := code2pdf.ValidateStyle(settings.params.Style); err != nil {
		return err
	}

	cwd, err := env.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	explicitOutput := ""
	if len(args) == 2 {
		explicitOutput = args[1]
	}

	jobs, err := resolveJobs(args[0], explicitOutput, cwd, discoverOptions{
		Extensions:   settings.cfg.NormalizedExtensions(),
		OutputPrefix: settings.cfg.Batch.OutputPrefix,
	})
	if err != nil {
		return err
	}

	batch := len(jobs) > 0 && jobs[0].Batch
	if batch && explicitOutput != "" && !flags.quiet {
		fmt.Fprintf(env.Stderr, "warning: output path %q ignored in directory mode\n", explicitOutput)
	}

	var cropper Cropper
	if batch && settings.crop {
		cropper = env.NewCropper(cropOptions(settings.cfg))
		if err := cropper.Check(); err != nil {
			return err
		}
	}

	conv := env.NewConverter(settings.timeout)
	defer conv.Close()

	results := convertJobs(ctx, conv, cropper, jobs, settings, flags, env)
	return summarize(results, batch, flags, env)
}

// resolveSettings merges, in increasing priority: defaults, config file,
// CODE2PDF_TIMEOUT, then flags set explicitly on the command line.
func resolveSettings(flags *cliFlags, env *Environment) (*runSettings, error) {
	cfg := config.DefaultConfig()
	if flags.config != "" {
		var err error
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout, err := resolveTimeout(flags.timeout, cfg.Render.Timeout, env.Getenv(timeoutEnvVar))
	if err != nil {
		return nil, err
	}

	page, ok := code2pdf.ResolvePageSize(cfg.Page.Size)
	if !ok {
		if cfg.Page.Strict {
			return nil, fmt.Errorf("%w: %q (valid: %s)", code2pdf.ErrInvalidPageSize,
				cfg.Page.Size, strings.Join(code2pdf.PageSizeNames(), ", "))
		}
		if !flags.quiet {
			fmt.Fprintf(env.Stderr, "warning: unknown page size %q, using %s\n", cfg.Page.Size, page.Name)
		}
	}

	return &runSettings{
		params: conversionParams{
			PageSize:    page.Name,
			LineNumbers: cfg.Highlight.LineNumbers,
			Style:       cfg.Highlight.Style,
		},
		page:     page,
		timeout:  timeout,
		crop:     cfg.Crop.Enabled,
		failFast: cfg.Batch.FailFast,
		cfg:      cfg,
	}, nil
}

// mergeFlags merges CLI flags into config. Explicit CLI values override
// config values; untouched flags leave the config as loaded.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.changed["size"] {
		cfg.Page.Size = flags.size
	}
	if flags.strictSize {
		cfg.Page.Strict = true
	}
	if flags.changed["style"] {
		cfg.Highlight.Style = flags.style
	}
	if flags.noLinenos {
		cfg.Highlight.LineNumbers = false
	}
	if flags.changed["ext"] {
		cfg.Batch.Extensions = flags.ext
	}
	if flags.failFast {
		cfg.Batch.FailFast = true
	}
	if flags.noCrop {
		cfg.Crop.Enabled = false
	}
}

// resolveTimeout picks the render timeout.
// Priority: flag > CODE2PDF_TIMEOUT > config file > default.
func resolveTimeout(flagValue, configValue, envValue string) (time.Duration, error) {
	for _, src := range []struct{ name, value string }{
		{"--timeout", flagValue},
		{timeoutEnvVar, envValue},
		{"render.timeout", configValue},
	} {
		if src.value == "" {
			continue
		}
		d, err := time.ParseDuration(src.value)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidTimeout, src.name, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidTimeout, src.name, src.value)
		}
		return d, nil
	}
	return defaultTimeout, nil
}

// cropOptions maps the crop config section onto the post-processor.
func cropOptions(cfg *config.Config) postprocess.Options {
	return postprocess.Options{
		PdfcropCommand: cfg.Crop.PdfcropCommand,
		PdfcropMargins: cfg.Crop.PdfcropMargins,
		NormalizeCmd:   cfg.Crop.NormalizeCmd,
		NormalizeArgs:  cfg.Crop.NormalizeArgs,
		TempSuffix:     cfg.Crop.TempSuffix,
	}
}

// convertJobs runs jobs in order on one converter.
// Failures are collected; with fail-fast the first one stops the run.
func convertJobs(ctx context.Context, conv Converter, cropper Cropper, jobs []Job, s *runSettings, flags *cliFlags, env *Environment) []JobResult {
	results := make([]JobResult, 0, len(jobs))
	total := len(jobs)

	for i, job := range jobs {
		if ctx.Err() != nil {
			results = append(results, JobResult{Job: job, Err: ctx.Err()})
			break
		}

		if job.Batch && !flags.quiet {
			fmt.Fprintf(env.Stderr, "[%d/%d] %s\n", i+1, total, job.InputPath)
		}

		r := convertJob(ctx, conv, cropper, job, s, flags.verbose, env)
		results = append(results, r)

		if r.Err != nil {
			if !job.Batch {
				break
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", job.InputPath, r.Err)
			if s.failFast {
				break
			}
		}
	}

	return results
}

// convertJob reads, renders, writes and optionally crops one file.
func convertJob(ctx context.Context, conv Converter, cropper Cropper, job Job, s *runSettings, verbose bool, env *Environment) JobResult {
	start := env.Now()
	result := JobResult{Job: job}
	finish := func(err error) JobResult {
		result.Err = err
		result.Duration = env.Now().Sub(start)
		return result
	}

	content, err := os.ReadFile(job.InputPath) // #nosec G304 -- user-provided or discovered path
	if err != nil {
		return finish(fmt.Errorf("%w: %s: %v", code2pdf.ErrReadSource, job.InputPath, err))
	}

	res, err := conv.Convert(ctx, code2pdf.Input{
		Source:      string(content),
		Filename:    job.InputPath,
		LineNumbers: s.params.LineNumbers,
		Style:       s.params.Style,
		PageSize:    s.params.PageSize,
	})
	if err != nil {
		return finish(err)
	}
	result.Lexer = res.Lexer

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), dirPermissions); err != nil {
		return finish(fmt.Errorf("%w: creating output directory: %v", ErrWritePDF, err))
	}

	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(job.OutputPath, res.PDF, filePermissions); err != nil {
		return finish(fmt.Errorf("%w: %s: %v", ErrWritePDF, job.OutputPath, err))
	}

	if job.Batch && cropper != nil {
		if err := cropper.Crop(ctx, job.OutputPath); err != nil {
			return finish(err)
		}
	}

	if verbose {
		if info, err := pdfinfo.Inspect(job.OutputPath); err == nil {
			result.Pages = info.PageCount()
			if !job.Batch && info.PageCount() > 0 && !info.Pages[0].Matches(s.page.WidthMM, s.page.HeightMM, pageSizeTolerance) {
				fmt.Fprintf(env.Stderr, "warning: %s: page is %s, expected %s\n", job.OutputPath, info.Pages[0], s.page.Name)
			}
		} else {
			fmt.Fprintf(env.Stderr, "warning: %v\n", err)
		}
	}

	return finish(nil)
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	FirstErr  error
}

// countResults tallies succeeded and failed conversions.
func countResults(results []JobResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			if summary.FirstErr == nil {
				summary.FirstErr = r.Err
			}
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// summarize prints created files and the batch summary, and returns the
// error the process should exit with.
func summarize(results []JobResult, batch bool, flags *cliFlags, env *Environment) error {
	summary := countResults(results)

	if !flags.quiet {
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			if flags.verbose {
				fmt.Fprintf(env.Stdout, "%s -> %s (%s, %d page(s), %v)\n",
					r.Job.InputPath, r.Job.OutputPath, r.Lexer, r.Pages, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "Created %s\n", r.Job.OutputPath)
			}
		}
		if batch {
			fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
		}
	}

	if summary.Failed == 0 {
		return nil
	}
	if !batch {
		return summary.FirstErr
	}
	return fmt.Errorf("%d of %d file(s) failed, first: %w", summary.Failed, len(results), summary.FirstErr)
}
