package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"

	"tocgen/common"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
document:
  title: "Moby Dick"
  language: fr-CA
  format: nav
  list_style: ordered
  skip_empty: true
  headings:
    min: 2
    max: 4
    first_level: 0
    assign_ids: true
logging:
  console:
    level: debug
  file:
    level: normal
    destination: ` + filepath.Join(tmpDir, "test.log") + `
    mode: overwrite
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Document.Title != "Moby Dick" {
		t.Errorf("Title = %q, want Moby Dick", cfg.Document.Title)
	}
	if cfg.Document.Format != common.OutputFmtNav {
		t.Errorf("Format = %s, want nav", cfg.Document.Format)
	}
	if !cfg.Document.ListStyle.Numbered() {
		t.Errorf("ListStyle = %s, want ordered", cfg.Document.ListStyle)
	}
	if !cfg.Document.SkipEmpty {
		t.Error("Expected SkipEmpty to be true")
	}
	h := cfg.Document.Headings
	if h.Min != 2 || h.Max != 4 || h.FirstLevel != 0 || !h.AssignIDs {
		t.Errorf("Headings = %+v", h)
	}
	// not mentioned in the file - must come from defaults
	if !h.TitleFallback {
		t.Error("Expected TitleFallback default to be kept")
	}
	if cfg.Document.Heading != "Table of Contents" {
		t.Errorf("Heading = %q, default expected", cfg.Document.Heading)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("Console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `version: 1
document:
  title: x
  invalid indent
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "unknown.yaml")

	configWithUnknown := `version: 1
document:
  fix_zip: true
`

	if err := os.WriteFile(configPath, []byte(configWithUnknown), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "version", content: "version: 2\n"},
		{name: "heading range", content: "version: 1\ndocument:\n  headings:\n    min: 4\n    max: 2\n"},
		{name: "heading rank", content: "version: 1\ndocument:\n  headings:\n    max: 7\n"},
		{name: "language", content: "version: 1\ndocument:\n  language: \"not a language tag\"\n"},
		{name: "format", content: "version: 1\ndocument:\n  format: pdf\n"},
		{name: "log level", content: "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid_values.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}

	cfg, err := unmarshalConfig(data, &Config{}, true)
	if err != nil {
		t.Fatalf("Prepared config is not valid: %v", err)
	}
	if cfg.Document.OutputNameTemplate != "" {
		t.Errorf("OutputNameTemplate = %q, want empty", cfg.Document.OutputNameTemplate)
	}
}

func TestDump(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Document: DocumentConfig{
			Title:     "Book",
			Format:    common.OutputFmtPage,
			ListStyle: common.ListStyleOrdered,
			Headings:  HeadingsConfig{Min: 1, Max: 2, FirstLevel: 1},
		},
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "format: page") || !strings.Contains(string(data), "list_style: ordered") {
		t.Errorf("enums must be dumped by name:\n%s", data)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Document != cfg.Document {
		t.Errorf("Document mismatch after dump/load: got %+v, want %+v", cfg2.Document, cfg.Document)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	d := cfg.Document
	if d.Format != common.OutputFmtNcx {
		t.Errorf("Format = %s, want ncx", d.Format)
	}
	if d.ListStyle.Numbered() {
		t.Error("default list style must be unordered")
	}
	if d.Headings.Min != 1 || d.Headings.Max != 3 || d.Headings.FirstLevel != 1 {
		t.Errorf("Headings = %+v", d.Headings)
	}
	if d.Language != "en" {
		t.Errorf("Language = %q, want en", d.Language)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	data := []byte("version: 99\n")

	_, err := unmarshalConfig(data, &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}

func TestOutputFmt(t *testing.T) {
	tests := []struct {
		name string
		ext  string
	}{
		{"ncx", ".ncx"},
		{"nav", ".xhtml"},
		{"page", ".xhtml"},
		{"fragment", ".html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := common.ParseOutputFmt(tt.name)
			if err != nil {
				t.Fatalf("ParseOutputFmt(%q) error = %v", tt.name, err)
			}
			if f.String() != tt.name {
				t.Errorf("String() = %q, want %q", f.String(), tt.name)
			}
			if f.Ext() != tt.ext {
				t.Errorf("Ext() = %q, want %q", f.Ext(), tt.ext)
			}
		})
	}

	if _, err := common.ParseOutputFmt("epub"); !errors.Is(err, common.ErrInvalidOutputFmt) {
		t.Errorf("ParseOutputFmt(epub) error = %v, want ErrInvalidOutputFmt", err)
	}
}

func TestOutputFmt_Ext_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Ext() should panic for invalid format")
		}
	}()
	invalidFmt := common.OutputFmt(99)
	invalidFmt.Ext()
}

func TestCleanFileName(t *testing.T) {
	if got := CleanFileName(""); got != "_bad_file_name_" {
		t.Errorf("CleanFileName(\"\") = %q", got)
	}
	got := CleanFileName("a" + string(os.PathSeparator) + "b")
	if strings.ContainsRune(got, os.PathSeparator) {
		t.Errorf("CleanFileName() kept path separator: %q", got)
	}
}
