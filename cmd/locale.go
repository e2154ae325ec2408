package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/policywizard/internal/config"
	"github.com/zjrosen/policywizard/internal/i18n"
)

var localeCmd = &cobra.Command{
	Use:   "locale <code>",
	Short: "Set the message catalog locale in the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := setLocale(path, args[0], expandHome(cfg.LanguagesDir)); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "locale set to %s in %s\n", args[0], path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(localeCmd)
}

// setLocale checks that a catalog exists for locale before writing it to
// the config file.
func setLocale(configPath, locale, languagesDir string) error {
	if _, err := i18n.New(i18n.Options{Locale: locale, Dir: languagesDir}); err != nil {
		return err
	}
	if err := config.SaveLocale(configPath, locale); err != nil {
		return fmt.Errorf("saving locale: %w", err)
	}
	return nil
}
