// Package config loads code2pdf settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-code2pdf/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// MaxFileSize limits config input to prevent memory exhaustion.
const MaxFileSize = 1 << 20

// Field length limits.
const (
	MaxPageSizeLength = 10
	MaxStyleLength    = 64
	MaxPrefixLength   = 64
	MaxCommandLength  = 4096
)

// Config holds all settings a conversion run can take from a file.
// Flags override any value set here.
type Config struct {
	Page      PageConfig      `yaml:"page"`
	Highlight HighlightConfig `yaml:"highlight"`
	Batch     BatchConfig     `yaml:"batch"`
	Crop      CropConfig      `yaml:"crop"`
	Render    RenderConfig    `yaml:"render"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size   string `yaml:"size"`   // "a3" by default; unknown sizes fall back to A4
	Strict bool   `yaml:"strict"` // Unknown size is an error instead of a fallback
}

// HighlightConfig defines highlighting options.
type HighlightConfig struct {
	Style       string `yaml:"style"` // Chroma style name
	LineNumbers bool   `yaml:"lineNumbers"`
}

// BatchConfig defines directory-mode options.
type BatchConfig struct {
	Extensions   []string `yaml:"extensions"`   // e.g. [".py", ".go"]
	OutputPrefix string   `yaml:"outputPrefix"` // Prepended to each mirrored directory
	FailFast     bool     `yaml:"failFast"`     // Abort on first failed file
}

// CropConfig defines the margin-cropping post-processing step.
type CropConfig struct {
	Enabled        bool     `yaml:"enabled"`
	PdfcropCommand string   `yaml:"pdfcropCommand"`
	PdfcropMargins string   `yaml:"pdfcropMargins"`
	NormalizeCmd   string   `yaml:"normalizeCommand"`
	NormalizeArgs  []string `yaml:"normalizeArgs"`
	TempSuffix     string   `yaml:"tempSuffix"`
}

// RenderConfig defines browser rendering options.
type RenderConfig struct {
	Timeout string `yaml:"timeout"` // Go duration, e.g. "45s"
}

// DefaultConfig returns the settings of a run without a config file.
func DefaultConfig() *Config {
	return &Config{
		Page: PageConfig{Size: "a3"},
		Highlight: HighlightConfig{
			Style:       "xcode",
			LineNumbers: true,
		},
		Batch: BatchConfig{
			Extensions:   []string{".py"},
			OutputPrefix: "pdf_",
		},
		Crop: CropConfig{
			Enabled:        true,
			PdfcropCommand: "pdfcrop",
			PdfcropMargins: "0 0 180 -10",
			NormalizeCmd:   "pdf-crop-margins",
			NormalizeArgs:  []string{"-v", "-s", "-u", "-a4", "0", "0", "-200", "0"},
			TempSuffix:     "_",
		},
	}
}

// Validate checks field values and lengths.
// Called automatically by LoadConfig, but available for callers that
// build a Config by hand.
func (c *Config) Validate() error {
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("highlight.style", c.Highlight.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("batch.outputPrefix", c.Batch.OutputPrefix, MaxPrefixLength); err != nil {
		return err
	}

	if len(c.Batch.Extensions) == 0 {
		return fmt.Errorf("%w: batch.extensions: at least one extension required", ErrInvalidConfig)
	}
	for i, ext := range c.Batch.Extensions {
		if strings.TrimSpace(ext) == "" || strings.ContainsAny(ext, "/\\") {
			return fmt.Errorf("%w: batch.extensions[%d]: invalid extension %q", ErrInvalidConfig, i, ext)
		}
	}
	if c.Batch.OutputPrefix == "" {
		return fmt.Errorf("%w: batch.outputPrefix: must not be empty", ErrInvalidConfig)
	}

	if c.Crop.Enabled {
		if c.Crop.PdfcropCommand == "" || c.Crop.NormalizeCmd == "" {
			return fmt.Errorf("%w: crop: commands required when crop is enabled", ErrInvalidConfig)
		}
		if c.Crop.TempSuffix == "" {
			return fmt.Errorf("%w: crop.tempSuffix: must not be empty", ErrInvalidConfig)
		}
		if err := validateFieldLength("crop.pdfcropCommand", c.Crop.PdfcropCommand, MaxCommandLength); err != nil {
			return err
		}
		if err := validateFieldLength("crop.normalizeCommand", c.Crop.NormalizeCmd, MaxCommandLength); err != nil {
			return err
		}
	}

	if c.Render.Timeout != "" {
		d, err := time.ParseDuration(c.Render.Timeout)
		if err != nil {
			return fmt.Errorf("%w: render.timeout: %v", ErrInvalidConfig, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: render.timeout: must be positive, got %s", ErrInvalidConfig, c.Render.Timeout)
		}
	}

	return nil
}

// NormalizedExtensions returns the batch extensions lower-cased and with a
// leading dot, so "PY" and ".py" select the same files.
func (c *Config) NormalizedExtensions() []string {
	out := make([]string, 0, len(c.Batch.Extensions))
	for _, ext := range c.Batch.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of DefaultConfig and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigParse, len(data), MaxFileSize)
	}

	cfg := DefaultConfig()
	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order:
// current directory, then the user config directory (.yaml before .yml).
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "code2pdf", name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
