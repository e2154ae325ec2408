package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/policywizard/internal/i18n"
	"github.com/zjrosen/policywizard/internal/ui/markdown"
	"github.com/zjrosen/policywizard/internal/wizard"
)

const helpTitleKey = "_TRIGGER_HELP_TITLE_"

var sqlHelpCmd = &cobra.Command{
	Use:   "sql-help",
	Short: "Print the fields available to trigger SQL",
	Long: `Print the fields a trigger can reference: the transformation outputs for
stream triggers, or the cube's dimensions and operators plus the outputs of
its triggers when --cube is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cube, _ := cmd.Flags().GetString("cube")
		render, _ := cmd.Flags().GetBool("render")

		catalog, err := i18n.New(i18n.Options{Locale: cfg.Locale, Dir: expandHome(cfg.LanguagesDir)})
		if err != nil {
			return fmt.Errorf("loading messages: %w", err)
		}

		style := ""
		if render {
			style = cfg.UI.MarkdownStyle
		}
		return printSQLHelp(cmd.OutOrStdout(), cfg.Policy, cube, catalog.Translate(helpTitleKey), style)
	},
}

func init() {
	sqlHelpCmd.Flags().String("cube", "", "cube whose triggers are being edited")
	sqlHelpCmd.Flags().Bool("render", false, "render the listing with the configured markdown style")
	rootCmd.AddCommand(sqlHelpCmd)
}

// printSQLHelp writes the help items for the stream, or for the named cube,
// as markdown. A non-empty style renders it through glamour first.
func printSQLHelp(w io.Writer, policyPath, cube, title, style string) error {
	doc, err := loadPolicy(policyPath)
	if err != nil {
		return err
	}

	session := wizard.New(wizard.Deps{Policy: &doc.Policy, Template: doc.Template})
	defer session.Close()
	session.Init()

	if cube != "" {
		index := -1
		for i, c := range doc.Policy.Cubes {
			if c.Name == cube {
				index = i
				break
			}
		}
		if index < 0 {
			return fmt.Errorf("cube %q not found in policy %q", cube, doc.Policy.Name)
		}
		if err := session.SelectTarget(wizard.TargetCube(index)); err != nil {
			return err
		}
	}

	out := markdown.HelpDocument(title, session.SQLHelp())
	if style != "" {
		r, err := markdown.New(style, 80)
		if err != nil {
			return err
		}
		if out, err = r.Render(out); err != nil {
			return fmt.Errorf("rendering help: %w", err)
		}
	}
	_, err = io.WriteString(w, out)
	return err
}
