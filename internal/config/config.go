// Package config provides configuration types and defaults for policywizard.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/policywizard/internal/flags"
	"github.com/zjrosen/policywizard/internal/i18n"
	"github.com/zjrosen/policywizard/internal/log"
	"github.com/zjrosen/policywizard/internal/tracing"
)

// Config holds all configuration options for policywizard.
type Config struct {
	Policy       string          `mapstructure:"policy"`        // policy document to edit
	Locale       string          `mapstructure:"locale"`        // message catalog, e.g. "en-US"
	LanguagesDir string          `mapstructure:"languages_dir"` // directory of <locale>.yaml overrides
	UI           UIConfig        `mapstructure:"ui"`
	Tracing      tracing.Config  `mapstructure:"tracing"`
	Flags        map[string]bool `mapstructure:"flags"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowSQLHelp   bool   `mapstructure:"show_sql_help"`
	OutputsWidth  string `mapstructure:"outputs_width"`  // "s", "m" (default) or "l"
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// OutputsColumns maps the outputs width setting to a column count.
func (u UIConfig) OutputsColumns() int {
	switch u.OutputsWidth {
	case "s":
		return 16
	case "l":
		return 48
	default:
		return 32
	}
}

// DefaultTracesFilePath returns the default trace file location.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "policywizard", "traces", "traces.jsonl")
}

// Defaults returns the configuration used when no file sets a value.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()

	return Config{
		Locale: i18n.DefaultLocale,
		UI: UIConfig{
			ShowSQLHelp:   true,
			OutputsWidth:  "m",
			MarkdownStyle: "dark",
		},
		Tracing: tr,
		Flags:   flags.Defaults(),
	}
}

// Validate checks values viper cannot type-check.
func Validate(cfg Config) error {
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateUI checks the ui section.
func ValidateUI(ui UIConfig) error {
	switch ui.OutputsWidth {
	case "", "s", "m", "l":
	default:
		return fmt.Errorf("ui.outputs_width must be \"s\", \"m\", or \"l\", got %q", ui.OutputsWidth)
	}
	switch ui.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
	return nil
}

// ValidateTracing checks the tracing section.
func ValidateTracing(tr tracing.Config) error {
	if tr.SampleRate < 0.0 || tr.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tr.SampleRate)
	}

	switch tr.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tr.Exporter)
	}

	if tr.Enabled {
		if tr.Exporter == "file" && tr.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tr.Exporter == "otlp" && tr.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# policywizard configuration

# Policy document opened at startup (can be overridden with --policy)
# policy: ./policy.yaml

# Message catalog locale: en-US (default) or es-ES
locale: en-US

# Directory with <locale>.yaml files overriding the built-in catalogs
# languages_dir: ~/.config/policywizard/languages

# UI settings
ui:
  show_sql_help: true    # Show available SQL fields next to the trigger form
  outputs_width: m       # Width of the outputs column: s, m (default) or l
  markdown_style: dark   # SQL help rendering style: "dark" (default) or "light"

# Feature flags
flags:
  mouse-zones: true        # Click accordion rows to open them
  sql-help-markdown: false # Render SQL help as a markdown table

# Tracing of trigger edits
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/policywizard/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
