package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/policywizard/internal/flags"
	"github.com/zjrosen/policywizard/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, "en-US", cfg.Locale)
	require.True(t, cfg.UI.ShowSQLHelp)
	require.Equal(t, "m", cfg.UI.OutputsWidth)
	require.Equal(t, "dark", cfg.UI.MarkdownStyle)
	require.False(t, cfg.Tracing.Enabled)
	require.True(t, cfg.Flags[flags.FlagMouseZones])
	require.NoError(t, Validate(cfg))
}

func TestUIConfig_OutputsColumns(t *testing.T) {
	require.Equal(t, 16, UIConfig{OutputsWidth: "s"}.OutputsColumns())
	require.Equal(t, 32, UIConfig{OutputsWidth: "m"}.OutputsColumns())
	require.Equal(t, 32, UIConfig{}.OutputsColumns())
	require.Equal(t, 48, UIConfig{OutputsWidth: "l"}.OutputsColumns())
}

func TestValidateUI(t *testing.T) {
	require.NoError(t, ValidateUI(UIConfig{}))

	err := ValidateUI(UIConfig{OutputsWidth: "xl"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "ui.outputs_width")

	err = ValidateUI(UIConfig{MarkdownStyle: "neon"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "ui.markdown_style")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     tracing.Config
		wantErr string
	}{
		{name: "defaults", cfg: tracing.DefaultConfig()},
		{name: "sample rate too high", cfg: tracing.Config{SampleRate: 1.5}, wantErr: "sample_rate"},
		{name: "negative sample rate", cfg: tracing.Config{SampleRate: -0.1}, wantErr: "sample_rate"},
		{name: "unknown exporter", cfg: tracing.Config{Exporter: "zipkin"}, wantErr: "tracing.exporter"},
		{name: "file without path", cfg: tracing.Config{Enabled: true, Exporter: "file"}, wantErr: "file_path"},
		{name: "otlp without endpoint", cfg: tracing.Config{Enabled: true, Exporter: "otlp"}, wantErr: "otlp_endpoint"},
		{name: "disabled file without path", cfg: tracing.Config{Exporter: "file"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultConfigTemplate_ParsesAndValidates(t *testing.T) {
	var parsed struct {
		Locale string `yaml:"locale"`
		UI     struct {
			ShowSQLHelp   bool   `yaml:"show_sql_help"`
			OutputsWidth  string `yaml:"outputs_width"`
			MarkdownStyle string `yaml:"markdown_style"`
		} `yaml:"ui"`
		Flags map[string]bool `yaml:"flags"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &parsed))

	require.Equal(t, "en-US", parsed.Locale)
	require.True(t, parsed.UI.ShowSQLHelp)
	require.Equal(t, flags.Defaults(), parsed.Flags)
	require.NoError(t, ValidateUI(UIConfig{OutputsWidth: parsed.UI.OutputsWidth, MarkdownStyle: parsed.UI.MarkdownStyle}))
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
