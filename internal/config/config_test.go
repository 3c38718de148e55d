package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HartBrook/sharpen/internal/instruction"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Version != DefaultVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, DefaultVersion)
	}
	if cfg.Target() != instruction.Gemini {
		t.Errorf("Target() = %q, want gemini", cfg.Target())
	}
	if cfg.Gemini.Model != DefaultGeminiModel {
		t.Errorf("Gemini.Model = %q, want %q", cfg.Gemini.Model, DefaultGeminiModel)
	}
	if cfg.Storage.Driver != DriverFile {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, DriverFile)
	}
	if cfg.HTTP.TimeoutDuration() != 120*time.Second {
		t.Errorf("TimeoutDuration() = %v, want 120s", cfg.HTTP.TimeoutDuration())
	}
}

func TestLoadFrom_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: 1
default_target: anthropic
gemini:
  model: gemini-2.5-flash
storage:
  driver: sqlite
http:
  timeout: 30s
templates:
  - category: Support
    name: Reply
    prompt: "Reply politely to {{customer}}"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Target() != instruction.Anthropic {
		t.Errorf("Target() = %q, want anthropic", cfg.Target())
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("Storage.Driver = %q", cfg.Storage.Driver)
	}
	if cfg.HTTP.TimeoutDuration() != 30*time.Second {
		t.Errorf("TimeoutDuration() = %v", cfg.HTTP.TimeoutDuration())
	}
	if len(cfg.Templates) != 1 || cfg.Templates[0].Name != "Reply" {
		t.Errorf("Templates = %+v", cfg.Templates)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "default_target: [unclosed"},
		{"unknown target", "default_target: bard"},
		{"unknown driver", "storage:\n  driver: postgres"},
		{"bad timeout", "http:\n  timeout: soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			if _, err := LoadFrom(path); err == nil {
				t.Error("LoadFrom() expected error")
			}
		})
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := &Config{DefaultTarget: "llama"}
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Target() != instruction.Llama {
		t.Errorf("Target() = %q, want llama", loaded.Target())
	}
	if loaded.HTTP.Timeout != DefaultTimeout {
		t.Errorf("HTTP.Timeout = %q, want default", loaded.HTTP.Timeout)
	}
}

func TestTimeoutDuration_FallsBack(t *testing.T) {
	h := HTTPConfig{Timeout: "garbage"}
	if h.TimeoutDuration() != 120*time.Second {
		t.Errorf("TimeoutDuration() = %v, want 120s", h.TimeoutDuration())
	}
}
