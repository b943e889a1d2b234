package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// cliFlags holds every command-line flag.
type cliFlags struct {
	noLinenos  bool
	size       string
	style      string
	ext        []string
	noCrop     bool
	strictSize bool
	failFast   bool
	timeout    string
	config     string
	quiet      bool
	verbose    bool
	listStyles bool
	doctor     bool
	version    bool
	help       bool

	// changed records flags set explicitly on the command line, so that
	// defaults never override config file values.
	changed map[string]bool
}

// newFlagSet declares the flags on a fresh FlagSet bound to f.
func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("code2pdf", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.BoolVarP(&f.noLinenos, "no-linenos", "l", false, "exclude line numbers")
	fs.StringVarP(&f.size, "size", "s", "a3", "page size")
	fs.StringVarP(&f.style, "style", "S", "xcode", "highlighting style")
	fs.StringSliceVar(&f.ext, "ext", []string{".py"}, "extensions for directory mode")
	fs.BoolVar(&f.noCrop, "no-crop", false, "skip margin cropping in directory mode")
	fs.BoolVar(&f.strictSize, "strict-size", false, "unknown page size is an error")
	fs.BoolVar(&f.failFast, "fail-fast", false, "abort directory mode on first failure")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file render timeout (e.g. 30s, 2m)")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVar(&f.verbose, "verbose", false, "show lexer, pages and timing")
	fs.BoolVar(&f.listStyles, "list-styles", false, "print valid style names")
	fs.BoolVar(&f.doctor, "doctor", false, "check Chrome and crop tools")
	fs.BoolVarP(&f.version, "version", "V", false, "show version")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")

	return fs
}

// parseFlags parses args (without the program name) and returns the
// positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{changed: map[string]bool{}}
	fs := newFlagSet(f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		f.changed[fl.Name] = true
	})

	return f, fs.Args(), nil
}
