package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/policywizard/internal/flags"
	"github.com/zjrosen/policywizard/internal/log"
	"github.com/zjrosen/policywizard/internal/policy"
	"github.com/zjrosen/policywizard/internal/sqlhelp"
	"github.com/zjrosen/policywizard/internal/ui/markdown"
	"github.com/zjrosen/policywizard/internal/ui/styles"
)

const (
	msgModelsTitle   = "_MODELS_TITLE_"
	msgTriggersTitle = "_TRIGGERS_TITLE_"
	msgHelpTitle     = "_TRIGGER_HELP_TITLE_"
	msgNewModel      = "_NEW_MODEL_"
	msgStream        = "_STREAM_"
	msgCube          = "_CUBE_"
	msgNextStep      = "_NEXT_STEP_ENABLED_"
	msgNoTriggers    = "_NO_TRIGGERS_"
)

const ellipsis = "…"

// View implements tea.Model.
func (m Model) View() string {
	header := m.renderHeader()
	status := m.renderStatus()

	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(status), 6)
	helpItems := m.session.SQLHelp()

	panelsHeight := bodyHeight
	var helpPanel string
	if helpItems != nil {
		panelsHeight = max(bodyHeight*3/5, 4)
		helpPanel = styles.RenderWithTitleBorder(m.renderSQLHelp(helpItems), m.translate(msgHelpTitle),
			m.width, bodyHeight-panelsHeight, false)
	}

	modelsWidth := m.width / 3
	models := styles.RenderWithTitleBorder(m.renderModels(modelsWidth-2), m.translate(msgModelsTitle),
		modelsWidth, panelsHeight, m.focus == paneModels)
	triggers := styles.RenderWithTitleBorder(m.renderTriggers(m.width-modelsWidth-2), m.triggersTitle(),
		m.width-modelsWidth, panelsHeight, m.focus == paneTriggers)

	parts := []string{header, lipgloss.JoinHorizontal(lipgloss.Top, models, triggers)}
	if helpPanel != "" {
		parts = append(parts, helpPanel)
	}
	parts = append(parts, status)
	view := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	if m.modal != nil {
		view = m.modal.Overlay(view)
	}

	if m.flags.Enabled(flags.FlagMouseZones) {
		return zone.Scan(view)
	}
	return view
}

// mark wraps v in a mouse zone when zones are enabled.
func (m Model) mark(id, v string) string {
	if !m.flags.Enabled(flags.FlagMouseZones) {
		return v
	}
	return zone.Mark(id, v)
}

func (m Model) renderHeader() string {
	p := m.session.Policies().CurrentPolicy()
	title := styles.TitleStyle.Render("policywizard")
	if p.Name != "" {
		title += styles.HintStyle.Render(" · " + p.Name)
	}

	tabs := make([]string, 0, len(p.Cubes)+1)
	for i, target := range m.targets() {
		label := m.translate(msgStream)
		if !target.IsStream() {
			label = m.translate(msgCube) + ": " + p.Cubes[target.CubeIndex()].Name
		}
		style := styles.TabStyle
		if target == m.session.Target() {
			style = styles.TabActiveStyle
		}
		tabs = append(tabs, m.mark(tabZoneID(i), style.Render(label)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) triggersTitle() string {
	title := m.translate(msgTriggersTitle)
	if name := m.targetName(); name != "" {
		title += " · " + name
	}
	return title
}

func (m Model) targetName() string {
	target := m.session.Target()
	if target.IsStream() {
		return m.translate(msgStream)
	}
	cubes := m.session.Policies().CurrentPolicy().Cubes
	if target.CubeIndex() < len(cubes) {
		return cubes[target.CubeIndex()].Name
	}
	return ""
}

// row renders one accordion heading with the selection indicator.
func row(text string, selected bool, width int) string {
	indicator := "  "
	style := styles.RowStyle
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render("▸ ")
		style = styles.RowSelectedStyle
	}
	return indicator + style.Render(truncate.StringWithTail(text, uint(max(width-2, 1)), ellipsis)) //nolint:gosec // width-2 >= 1
}

func (m Model) renderModels(width int) string {
	p := m.session.Policies().CurrentPolicy()
	acc := m.session.Panels().Models()
	focused := m.focus == paneModels

	var lines []string
	for i, t := range p.Transformations {
		heading := fmt.Sprintf("%d. %s (%s)", t.Order, t.Name, t.Type)
		lines = append(lines, m.mark(rowZoneID(paneModels, i), row(heading, focused && m.modelCursor == i, width)))
		if acc.IsOpen(i) {
			lines = append(lines, modelDetails(t, width)...)
		}
	}

	if m.session.Panels().ModelCreationVisible() {
		n := len(p.Transformations)
		style := styles.RowCreateStyle
		if !m.session.Panels().IsActiveModelCreation() {
			style = styles.HintStyle
		}
		heading := style.Render("+ " + m.translate(msgNewModel))
		selected := focused && m.modelCursor == n
		if selected {
			heading = styles.SelectionIndicatorStyle.Render("▸ ") + heading
		} else {
			heading = "  " + heading
		}
		lines = append(lines, m.mark(rowZoneID(paneModels, n), heading))
		if acc.IsOpen(n) && m.session.Panels().IsActiveModelCreation() {
			draft := m.session.Models().Model()
			lines = append(lines,
				styles.RowDetailStyle.Render(fmt.Sprintf("order %d · type %s", draft.Order, draft.Type)),
				styles.RowDetailStyle.Render("inputs: "+strings.Join(m.session.Models().Inputs(), ", ")))
		}
	}
	return strings.Join(lines, "\n")
}

func modelDetails(t policy.Transformation, width int) []string {
	lines := []string{}
	if t.InputField != "" {
		lines = append(lines, styles.RowDetailStyle.Render("input: "+t.InputField))
	}
	for _, f := range t.OutputFields {
		text := truncate.StringWithTail(f.Name+" "+f.Type, uint(max(width-6, 1)), ellipsis) //nolint:gosec // width-6 >= 1
		lines = append(lines, styles.RowDetailStyle.Render("→ "+text))
	}
	return lines
}

func (m Model) renderTriggers(width int) string {
	store := m.session.Store()
	triggers := store.Triggers()
	acc := m.session.Panels().Triggers()
	focused := m.focus == paneTriggers
	pending := store.RemovalPending()

	var lines []string
	if len(triggers) == 0 {
		lines = append(lines, styles.HintStyle.Render("  "+m.translate(msgNoTriggers)))
	}
	for i, t := range triggers {
		heading := t.Name
		if preview := strings.Join(strings.Fields(t.SQL), " "); preview != "" {
			heading += "  " + styles.HintStyle.Render(preview)
		}
		line := row(heading, focused && m.triggerCursor == i, width)
		if pending && focused && m.triggerCursor == i {
			line = styles.RowDisabledStyle.Render(ansi.Strip(line))
		}
		lines = append(lines, m.mark(rowZoneID(paneTriggers, i), line))
		if acc.IsOpen(i) {
			lines = append(lines, m.triggerDetails(t, width)...)
		}
	}

	n := len(triggers)
	style := styles.HintStyle
	if m.session.Panels().IsActiveTriggerCreation() {
		style = styles.RowCreateStyle
	}
	heading := style.Render("+ " + m.translate(msgNewTrigger))
	if focused && m.triggerCursor == n {
		heading = styles.SelectionIndicatorStyle.Render("▸ ") + heading
	} else {
		heading = "  " + heading
	}
	lines = append(lines, m.mark(rowZoneID(paneTriggers, n), heading))
	return strings.Join(lines, "\n")
}

func (m Model) triggerDetails(t policy.Trigger, width int) []string {
	wrap := max(width-6, 10)
	lines := strings.Split(wordwrap.String(t.SQL, wrap), "\n")
	for i, l := range lines {
		lines[i] = styles.RowDetailStyle.Render(l)
	}
	if len(t.Outputs) > 0 {
		outputs := truncate.StringWithTail(strings.Join(t.Outputs, ", "), uint(m.ui.OutputsColumns()), ellipsis) //nolint:gosec // columns > 0
		lines = append(lines, styles.RowDetailStyle.Render(m.translate(msgTriggerOutputs)+": "+outputs))
	}
	if t.OverLast != "" {
		lines = append(lines, styles.RowDetailStyle.Render(m.translate(msgTriggerOver)+": "+t.OverLast))
	}
	return lines
}

// renderSQLHelp renders help items through glamour when the markdown flag
// is on and as a plain list otherwise.
func (m Model) renderSQLHelp(items []sqlhelp.Item) string {
	if m.flags.Enabled(flags.FlagSQLHelpMarkdown) {
		out, err := m.renderHelpMarkdown(items)
		if err == nil {
			return strings.TrimRight(out, "\n")
		}
		log.ErrorErr(log.CatUI, "markdown help render failed", err)
	}

	nameStyle := lipgloss.NewStyle().Foreground(styles.FieldNameColor)
	typeStyle := lipgloss.NewStyle().Foreground(styles.FieldTypeColor)

	var lines []string
	for _, item := range items {
		lines = append(lines, styles.TitleStyle.Render(item.Name))
		fields := make([]string, 0, len(item.Fields))
		for _, f := range item.Fields {
			field := nameStyle.Render(f.Name)
			if f.Type != "" {
				field += " " + typeStyle.Render(f.Type)
			}
			fields = append(fields, field)
		}
		if len(fields) > 0 {
			lines = append(lines, "  "+strings.Join(fields, ", "))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHelpMarkdown(items []sqlhelp.Item) (string, error) {
	r := m.markdown
	if r == nil {
		var err error
		r, err = markdown.New(m.ui.MarkdownStyle, max(m.width-4, 20))
		if err != nil {
			return "", err
		}
	}
	return r.RenderHelp("", items)
}

func (m Model) renderStatus() string {
	var parts []string
	if m.session.Policies().NextStepEnabled() {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.StatusSuccessColor).Render("✓ "+m.translate(msgNextStep)))
	}
	if link := m.session.HelpLink(); link != "" {
		parts = append(parts, styles.HintStyle.Render(link))
	}
	parts = append(parts, m.help.View(m.keys))

	status := styles.StatusBarStyle.Render(strings.Join(parts, "  "))
	if m.debugMode && m.lastLog != "" {
		status += "\n" + styles.HintStyle.Render(truncate.StringWithTail(m.lastLog, uint(max(m.width-2, 1)), ellipsis)) //nolint:gosec // width-2 >= 1
	}
	return status
}
