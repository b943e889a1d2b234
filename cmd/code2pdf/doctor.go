package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-code2pdf/internal/config"
	"github.com/alnah/go-code2pdf/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string
	Chrome   chromeInfo
	Tools    []toolInfo
	Env      envInfo
	System   systemInfo
	Warnings []string
	Errors   []string
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool
	Path    string
	Version string
	Sandbox bool
}

// toolInfo holds the lookup result of one crop tool.
type toolInfo struct {
	Name string
	Path string
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string
	Arch          string
	Container     bool
	ContainerHint string
	CI            bool
	NoSandbox     string
	BrowserBin    string
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool
}

// lookPath finds external tools; replaced in tests.
var lookPath = exec.LookPath

// runDoctorCmd executes the doctor check and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(flags *cliFlags, env *Environment) int {
	cfg := config.DefaultConfig()
	if flags.config != "" {
		loaded, err := config.LoadConfig(flags.config)
		if err != nil {
			fmt.Fprintf(env.Stderr, "error: loading config: %v%s\n", err, hintFor(err, flags))
			return exitCodeFor(err)
		}
		cfg = loaded
	}

	result := runDoctor(cfg, env)
	printDoctorResult(env.Stdout, result)

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkCropTools(result, cfg)
	checkEnvironment(result, env)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- located browser binary
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkCropTools looks up the directory-mode crop tools.
// Missing tools are warnings: single-file conversion does not need them.
func checkCropTools(result *doctorResult, cfg *config.Config) {
	if !cfg.Crop.Enabled {
		return
	}
	for _, tool := range []string{cfg.Crop.PdfcropCommand, cfg.Crop.NormalizeCmd} {
		path, err := lookPath(tool)
		if err != nil {
			hint := strings.TrimPrefix(hints.ForCropTool(tool), "\n  hint: ")
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s not found, directory mode will fail (%s)", tool, hint))
			continue
		}
		result.Tools = append(result.Tools, toolInfo{Name: tool, Path: path})
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(env *Environment) (bool, string) {
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := env.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if env.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for rendering is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "code2pdf-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult writes one aligned row per check, then the collected
// problems and a one-line verdict.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "code2pdf environment check")
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(check string, ok bool, detail string) {
		mark := "ok"
		if !ok {
			mark = "FAIL"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", check, mark, detail)
	}

	if r.Chrome.Found {
		var notes []string
		if r.Chrome.Version != "" {
			notes = append(notes, r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			notes = append(notes, "sandbox on")
		} else {
			notes = append(notes, "sandbox off via ROD_NO_SANDBOX=1")
		}
		row("browser", true, fmt.Sprintf("%s (%s)", r.Chrome.Path, strings.Join(notes, ", ")))
	} else {
		row("browser", false, "no Chrome or Chromium binary")
	}

	for _, t := range r.Tools {
		row(t.Name, true, t.Path)
	}

	platform := r.Env.OS + "/" + r.Env.Arch
	if r.Env.Container {
		platform += ", container via " + r.Env.ContainerHint
	}
	if r.Env.CI {
		platform += ", CI"
	}
	row("platform", true, platform)

	if r.System.TempWritable {
		row("temp dir", true, "writable")
	} else {
		row("temp dir", false, "not writable")
	}
	_ = tw.Flush()

	if len(r.Warnings)+len(r.Errors) > 0 {
		fmt.Fprintln(w)
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	for _, err := range r.Errors {
		fmt.Fprintf(w, "error: %s\n", err)
	}
	fmt.Fprintln(w)

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "all checks passed")
	case statusWarnings:
		fmt.Fprintf(w, "usable, %d warning(s)\n", len(r.Warnings))
	case statusErrors:
		fmt.Fprintf(w, "cannot convert, %d error(s)\n", len(r.Errors))
	}
}
