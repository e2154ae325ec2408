package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/policywizard/internal/app"
	"github.com/zjrosen/policywizard/internal/config"
	"github.com/zjrosen/policywizard/internal/flags"
	"github.com/zjrosen/policywizard/internal/i18n"
	"github.com/zjrosen/policywizard/internal/log"
	"github.com/zjrosen/policywizard/internal/policy"
	"github.com/zjrosen/policywizard/internal/tracing"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin so the
	// OSC 11 reply cannot leak into the input fields.
	_ = lipgloss.HasDarkBackground()
}

const (
	localConfigPath = ".policywizard/config.yaml"
	debugEnvVar     = "POLICYWIZARD_DEBUG"
	debugLogPath    = "debug.log"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "policywizard",
	Short:   "A terminal wizard for authoring streaming policies",
	Long:    `A terminal user interface for editing the models and triggers of a streaming analytics policy.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/policywizard/config.yaml)")
	rootCmd.PersistentFlags().StringP("policy", "p", "",
		"policy document to edit")
	rootCmd.PersistentFlags().String("locale", "",
		"message catalog locale, e.g. en-US")
	rootCmd.Flags().BoolP("debug", "d", false,
		"write a debug log to "+debugLogPath+" (also enabled by "+debugEnvVar+")")

	_ = viper.BindPFlag("policy", rootCmd.PersistentFlags().Lookup("policy"))
	_ = viper.BindPFlag("locale", rootCmd.PersistentFlags().Lookup("locale"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("locale", defaults.Locale)
	viper.SetDefault("ui.show_sql_help", defaults.UI.ShowSQLHelp)
	viper.SetDefault("ui.outputs_width", defaults.UI.OutputsWidth)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	viper.SetDefault("flags", defaults.Flags)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .policywizard/config.yaml (current directory)
		// 2. ~/.config/policywizard/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "policywizard"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere: create the default next to the
		// working directory and carry on with defaults if that fails.
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				viper.SetConfigFile(localConfigPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configPath returns the config file in use, or the local default.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return localConfigPath
}

// debugEnabled reports whether debug logging was requested by flag or
// environment.
func debugEnabled(flag bool) bool {
	if flag {
		return true
	}
	switch strings.ToLower(os.Getenv(debugEnvVar)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// loadPolicy reads the configured policy document.
func loadPolicy(path string) (policy.Document, error) {
	if path == "" {
		return policy.Document{}, fmt.Errorf("%w: pass --policy or set policy in %s", policy.ErrNoPolicy, configPath())
	}
	return policy.Load(expandHome(path))
}

func runApp(cmd *cobra.Command, _ []string) error {
	debugFlag, _ := cmd.Flags().GetBool("debug")
	if debugEnabled(debugFlag) {
		cleanup, err := log.InitWithTeaLog(debugLogPath, "policywizard")
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		defer cleanup()
		log.Info(log.CatConfig, "debug logging enabled", "config", configPath())
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	doc, err := loadPolicy(cfg.Policy)
	if err != nil {
		return err
	}

	catalog, err := i18n.New(i18n.Options{Locale: cfg.Locale, Dir: expandHome(cfg.LanguagesDir)})
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}

	tracingCfg := cfg.Tracing
	tracingCfg.FilePath = expandHome(tracingCfg.FilePath)
	provider, err := tracing.NewProvider(tracingCfg)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatConfig, "tracing shutdown failed", err)
		}
	}()

	registry := flags.New(cfg.Flags)
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if registry.Enabled(flags.FlagMouseZones) {
		zone.NewGlobal()
		opts = append(opts, tea.WithMouseCellMotion())
	}

	model := app.New(app.Config{
		Policy:     &doc.Policy,
		Template:   doc.Template,
		UI:         cfg.UI,
		Flags:      registry,
		Translator: catalog,
		Tracer:     provider.Tracer(),
		DebugMode:  debugEnabled(debugFlag),
	})
	p := tea.NewProgram(model, opts...)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
