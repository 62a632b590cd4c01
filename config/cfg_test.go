package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"
	"golang.org/x/text/language"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

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

func TestConfig_DefaultValues(t *testing.T) {
	t.Setenv("CSSOM_LOCALE", "")

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Parser.Locale != "en" {
		t.Errorf("Locale = %q, want en", cfg.Parser.Locale)
	}
	if !cfg.Parser.LegacyPseudoElements {
		t.Error("LegacyPseudoElements should be enabled by default")
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Console level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
	if cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("File level = %q, want none", cfg.Logging.FileLogger.Level)
	}
	if cfg.Reporting.Destination == "" {
		t.Error("Reporting destination should have default")
	}
}

func TestConfig_LocaleFromEnvironment(t *testing.T) {
	t.Setenv("CSSOM_LOCALE", "de")

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Parser.Locale != "de" {
		t.Errorf("Locale = %q, want de", cfg.Parser.Locale)
	}
	if cfg.Parser.Language() != language.German {
		t.Errorf("Language() = %v, want German", cfg.Parser.Language())
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `version: 1
parser:
  locale: de
  legacy_pseudo_elements: false
logging:
  console:
    level: debug
  file:
    level: debug
    destination: `+filepath.Join(dir, "logs", "test.log")+`
    mode: append
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Parser.Locale != "de" {
		t.Errorf("Locale = %q, want de", cfg.Parser.Locale)
	}
	if cfg.Parser.LegacyPseudoElements {
		t.Error("Expected LegacyPseudoElements to be false")
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("File mode = %q, want append", cfg.Logging.FileLogger.Mode)
	}
	// sanitizer makes sure log directory exists
	if _, err := os.Stat(filepath.Join(dir, "logs")); err != nil {
		t.Errorf("Expected log directory to be created: %v", err)
	}
	// not mentioned in file - comes from template
	if cfg.Reporting.Destination == "" {
		t.Error("Reporting destination should keep default value")
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_InvalidYAML(t *testing.T) {
	path := writeConfig(t, `version: 1
parser:
  locale: en
  invalid indent
`)
	if _, err := LoadConfiguration(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	path := writeConfig(t, `version: 1
document:
  fix_zip: true
`)
	if _, err := LoadConfiguration(path); err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"version", "version: 2\n"},
		{"locale", "version: 1\nparser:\n  locale: \"not a tag!\"\n"},
		{"log level", "version: 1\nlogging:\n  console:\n    level: verbose\n"},
		{"log mode", "version: 1\nlogging:\n  file:\n    level: normal\n    mode: rotate\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
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
	if strings.Contains(string(data), "{{") {
		t.Error("Prepare() returned unexpanded template")
	}

	// Verify it's valid YAML by trying to unmarshal
	if _, err := unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Parser:  ParserConfig{Locale: "de", LegacyPseudoElements: true},
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
			FileLogger:    LoggerConfig{Level: "none"},
		},
		Reporting: ReporterConfig{Destination: "report.zip"},
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	for _, want := range []string{"version: 1", "locale: de", "legacy_pseudo_elements: true", "destination: report.zip"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Dump() output missing %q:\n%s", want, data)
		}
	}

	// dumped configuration must load back
	loaded, err := unmarshalConfig(data, &Config{}, true)
	if err != nil {
		t.Fatalf("Dumped config is not valid: %v", err)
	}
	if loaded.Parser != cfg.Parser {
		t.Errorf("Parser = %+v, want %+v", loaded.Parser, cfg.Parser)
	}
}

func TestParserConfig_Language(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"en", language.English},
		{"de", language.German},
		{"", language.English},
		{"!!", language.English},
	}
	for _, tt := range tests {
		conf := ParserConfig{Locale: tt.locale}
		if got := conf.Language(); got != tt.want {
			t.Errorf("Language() for %q = %v, want %v", tt.locale, got, tt.want)
		}
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	// version: 99 will fail validation (validate:"eq=1").
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error (errors.Unwrap non-nil), got bare error: %v", err)
	}
}
