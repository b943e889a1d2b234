package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-code2pdf"
	"github.com/alnah/go-code2pdf/internal/config"
	"github.com/alnah/go-code2pdf/internal/hints"
	"github.com/alnah/go-code2pdf/internal/postprocess"
)

// runMain dispatches the command line and returns the process exit code.
// args includes the program name, as os.Args does.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) > 0 {
		args = args[1:]
	}

	flags, positional, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		fmt.Fprintln(env.Stderr, "Run 'code2pdf --help' for usage.")
		return ExitUsage
	}

	switch {
	case flags.help:
		printUsage(env.Stdout)
		return ExitSuccess
	case flags.version:
		fmt.Fprintf(env.Stdout, "code2pdf %s\n", Version)
		return ExitSuccess
	case flags.listStyles:
		for _, name := range code2pdf.StyleNames() {
			fmt.Fprintln(env.Stdout, name)
		}
		return ExitSuccess
	case flags.doctor:
		return runDoctorCmd(flags, env)
	}

	err = runConvert(ctx, positional, flags, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, flags))
		if errors.Is(err, ErrUsage) {
			fmt.Fprintln(env.Stderr, "Run 'code2pdf --help' for usage.")
		}
	}
	return exitCodeFor(err)
}

// hintFor returns an actionable hint for well-known failures, or "".
func hintFor(err error, flags *cliFlags) string {
	var stepErr *postprocess.StepError
	switch {
	case errors.Is(err, code2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, code2pdf.ErrStyleNotFound):
		return hints.ForStyle()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(flags.config))
	case errors.As(err, &stepErr) && stepErr.Tool != "":
		return hints.ForCropTool(stepErr.Tool)
	}
	return ""
}
