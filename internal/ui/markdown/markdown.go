// Package markdown renders the SQL help listing as a styled markdown table.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/policywizard/internal/sqlhelp"
)

// noMarginStyle removes document margins on top of the standard style.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with the wizard's configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer. style is a glamour standard style name
// such as "dark" or "light".
func New(style string, width int) (*Renderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// RenderHelp renders help items under title.
func (r *Renderer) RenderHelp(title string, items []sqlhelp.Item) (string, error) {
	return r.Render(HelpDocument(title, items))
}

// HelpDocument builds the markdown source for help items: one heading per
// source followed by a field table.
func HelpDocument(title string, items []sqlhelp.Item) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "## %s\n\n", title)
	}
	for _, item := range items {
		fmt.Fprintf(&b, "### %s\n\n", escape(item.Name))
		if len(item.Fields) == 0 {
			b.WriteString("_no fields_\n\n")
			continue
		}
		b.WriteString("| field | type |\n| --- | --- |\n")
		for _, f := range item.Fields {
			typ := f.Type
			if typ == "" {
				typ = "-"
			}
			fmt.Fprintf(&b, "| `%s` | %s |\n", f.Name, escape(typ))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
