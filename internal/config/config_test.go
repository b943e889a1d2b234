package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Page.Size != "a3" {
		t.Errorf("Page.Size = %q, want %q", cfg.Page.Size, "a3")
	}
	if cfg.Page.Strict {
		t.Error("Page.Strict = true, want false")
	}
	if cfg.Highlight.Style != "xcode" {
		t.Errorf("Highlight.Style = %q, want %q", cfg.Highlight.Style, "xcode")
	}
	if !cfg.Highlight.LineNumbers {
		t.Error("Highlight.LineNumbers = false, want true")
	}
	if !reflect.DeepEqual(cfg.Batch.Extensions, []string{".py"}) {
		t.Errorf("Batch.Extensions = %v, want [.py]", cfg.Batch.Extensions)
	}
	if cfg.Batch.OutputPrefix != "pdf_" {
		t.Errorf("Batch.OutputPrefix = %q, want %q", cfg.Batch.OutputPrefix, "pdf_")
	}
	if !cfg.Crop.Enabled {
		t.Error("Crop.Enabled = false, want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit returns error", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "page size too long",
			mutate:  func(c *Config) { c.Page.Size = strings.Repeat("a", MaxPageSizeLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "no extensions",
			mutate:  func(c *Config) { c.Batch.Extensions = nil },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "extension with separator",
			mutate:  func(c *Config) { c.Batch.Extensions = []string{"a/.py"} },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "empty output prefix",
			mutate:  func(c *Config) { c.Batch.OutputPrefix = "" },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "crop enabled without command",
			mutate:  func(c *Config) { c.Crop.PdfcropCommand = "" },
			wantErr: ErrInvalidConfig,
		},
		{
			name: "crop disabled without command is valid",
			mutate: func(c *Config) {
				c.Crop.Enabled = false
				c.Crop.PdfcropCommand = ""
			},
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Render.Timeout = "soon" },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Render.Timeout = "-5s" },
			wantErr: ErrInvalidConfig,
		},
		{
			name:   "valid timeout",
			mutate: func(c *Config) { c.Render.Timeout = "45s" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_NormalizedExtensions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Batch.Extensions = []string{"PY", ".Go", " .rs "}

	got := cfg.NormalizedExtensions()
	want := []string{".py", ".go", ".rs"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizedExtensions() = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := Parse([]byte("page:\n  size: letter\n"))
		if err != nil {
			t.Fatalf("Parse() unexpected error: %v", err)
		}
		if cfg.Page.Size != "letter" {
			t.Errorf("Page.Size = %q, want letter", cfg.Page.Size)
		}
		if cfg.Highlight.Style != "xcode" {
			t.Errorf("Highlight.Style = %q, want default xcode", cfg.Highlight.Style)
		}
		if !cfg.Crop.Enabled {
			t.Error("Crop.Enabled should keep default true")
		}
	})

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		data := []byte(`page:
  size: a4
  strict: true
highlight:
  style: monokai
  lineNumbers: false
batch:
  extensions: [".go", ".rs"]
  outputPrefix: "out_"
  failFast: true
crop:
  enabled: false
render:
  timeout: 1m
`)
		cfg, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse() unexpected error: %v", err)
		}
		if !cfg.Page.Strict || cfg.Page.Size != "a4" {
			t.Errorf("Page = %+v", cfg.Page)
		}
		if cfg.Highlight.Style != "monokai" || cfg.Highlight.LineNumbers {
			t.Errorf("Highlight = %+v", cfg.Highlight)
		}
		if !reflect.DeepEqual(cfg.Batch.Extensions, []string{".go", ".rs"}) {
			t.Errorf("Batch.Extensions = %v", cfg.Batch.Extensions)
		}
		if cfg.Batch.OutputPrefix != "out_" || !cfg.Batch.FailFast {
			t.Errorf("Batch = %+v", cfg.Batch)
		}
		if cfg.Crop.Enabled {
			t.Error("Crop.Enabled = true, want false")
		}
		if cfg.Render.Timeout != "1m" {
			t.Errorf("Render.Timeout = %q, want 1m", cfg.Render.Timeout)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		_, err := Parse([]byte("page:\n  colour: red\n"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("Parse() = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		t.Parallel()

		_, err := Parse([]byte("batch:\n  outputPrefix: \"\"\n"))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Parse() = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("empty input yields defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := Parse(nil)
		if err != nil {
			t.Fatalf("Parse(nil) unexpected error: %v", err)
		}
		if !reflect.DeepEqual(cfg, DefaultConfig()) {
			t.Errorf("Parse(nil) = %+v, want defaults", cfg)
		}
	})

	t.Run("oversized input rejected", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(make([]byte, MaxFileSize+1))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("Parse() = %v, want ErrConfigParse", err)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("LoadConfig(\"\") = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("explicit path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "c.yaml")
		if err := os.WriteFile(path, []byte("highlight:\n  style: github\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() unexpected error: %v", err)
		}
		if cfg.Highlight.Style != "github" {
			t.Errorf("Highlight.Style = %q, want github", cfg.Highlight.Style)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("code2pdf-test-config-that-does-not-exist")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("parse error carries path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("page: [1, 2"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Fatalf("LoadConfig() = %v, want ErrConfigParse", err)
		}
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error %q should contain path %q", err, path)
		}
	})
}

// Notes:
// - Not parallel: t.Chdir changes the process working directory.
func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	// A directory matching the first candidate is not a config file.
	if err := os.Mkdir(filepath.Join(dir, "team.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "team.yml"), []byte("page:\n  size: letter\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("team")
	if err != nil {
		t.Fatalf("LoadConfig(team) unexpected error: %v", err)
	}
	if cfg.Page.Size != "letter" {
		t.Errorf("Page.Size = %q, want letter (from team.yml)", cfg.Page.Size)
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("work")

	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least local paths", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("local paths = %v, want work.yaml then work.yml", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(filepath.ToSlash(p), "/code2pdf/") {
			t.Errorf("user path %q should be under code2pdf/", p)
		}
	}
}
