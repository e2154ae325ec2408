// Package modal provides the wizard's dialog component: a confirmation
// prompt when no inputs are configured, a small form otherwise.
package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/policywizard/internal/ui/overlay"
	"github.com/zjrosen/policywizard/internal/ui/styles"
)

// ButtonVariant controls the styling of the confirm/save button.
type ButtonVariant int

const (
	ButtonPrimary ButtonVariant = iota
	ButtonDanger
)

// InputConfig defines a single input field.
type InputConfig struct {
	Key         string // key in SubmitMsg.Values
	Label       string
	Placeholder string
	Value       string
	MaxLength   int // 0 = unlimited
}

// Config controls modal appearance and behavior.
type Config struct {
	// ID is echoed in SubmitMsg and CancelMsg so a host running several
	// kinds of modal can tell them apart.
	ID             string
	Title          string
	Message        string
	Inputs         []InputConfig
	ConfirmVariant ButtonVariant
	MinWidth       int // 0 = 40
	ConfirmLabel   string
	CancelLabel    string
}

// SubmitMsg is sent when the user confirms the modal.
type SubmitMsg struct {
	ID     string
	Values map[string]string
}

// CancelMsg is sent when the user dismisses the modal.
type CancelMsg struct {
	ID string
}

// Field identifies which button is focused.
type Field int

const (
	FieldSave Field = iota
	FieldCancel
)

const defaultMinWidth = 40

// Model is the modal component state.
type Model struct {
	config       Config
	inputs       []textinput.Model
	focusedInput int // -1 when a button has focus
	focusedField Field
	errText      string
	width        int
	height       int
}

// New creates a modal. Inputs switch it from confirmation to form mode.
func New(cfg Config) Model {
	m := Model{config: cfg, focusedInput: -1, focusedField: FieldSave}

	width := max(cfg.MinWidth, defaultMinWidth)
	for i, in := range cfg.Inputs {
		ti := textinput.New()
		ti.Placeholder = in.Placeholder
		ti.Prompt = ""
		ti.Width = width - 4
		if in.MaxLength > 0 {
			ti.CharLimit = in.MaxLength
		}
		ti.SetValue(in.Value)
		if i == 0 {
			ti.Focus()
			m.focusedInput = 0
		}
		m.inputs = append(m.inputs, ti)
	}
	return m
}

// Init starts the cursor blink in form mode.
func (m Model) Init() tea.Cmd {
	if len(m.inputs) > 0 {
		return textinput.Blink
	}
	return nil
}

// Update handles messages for the modal.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down", "ctrl+n":
			return m.moveFocus(1), nil

		case "shift+tab", "up", "ctrl+p":
			return m.moveFocus(-1), nil

		case "left", "right":
			if m.focusedInput == -1 {
				m.focusedField = 1 - m.focusedField
				return m, nil
			}

		case "enter":
			if m.focusedInput >= 0 {
				return m.moveFocus(1), nil
			}
			if m.focusedField == FieldCancel {
				return m, m.cancel()
			}
			return m, m.submit()

		case "esc":
			return m, m.cancel()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.focusedInput >= 0 {
		var cmd tea.Cmd
		m.inputs[m.focusedInput], cmd = m.inputs[m.focusedInput].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) submit() tea.Cmd {
	values := make(map[string]string, len(m.inputs))
	for i, in := range m.inputs {
		values[m.config.Inputs[i].Key] = in.Value()
	}
	id := m.config.ID
	return func() tea.Msg { return SubmitMsg{ID: id, Values: values} }
}

func (m Model) cancel() tea.Cmd {
	id := m.config.ID
	return func() tea.Msg { return CancelMsg{ID: id} }
}

// moveFocus walks inputs then Save then Cancel, wrapping in both directions.
func (m Model) moveFocus(delta int) Model {
	// Stops: 0..n-1 are inputs, n is Save, n+1 is Cancel.
	n := len(m.inputs)
	stop := n + int(m.focusedField)
	if m.focusedInput >= 0 {
		stop = m.focusedInput
		m.inputs[m.focusedInput].Blur()
	}

	stop = (stop + delta + n + 2) % (n + 2)
	if stop < n {
		m.focusedInput = stop
		m.inputs[stop].Focus()
		return m
	}
	m.focusedInput = -1
	m.focusedField = Field(stop - n)
	return m
}

// SetError shows text above the buttons until the next SetError.
func (m *Model) SetError(text string) {
	m.errText = text
}

// Error returns the displayed error text.
func (m Model) Error() string {
	return m.errText
}

// View renders the modal box.
func (m Model) View() string {
	contentWidth := max(m.config.MinWidth, defaultMinWidth, lipgloss.Width(m.config.Title))
	boxWidth := contentWidth + 2

	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).
		Render(m.config.Title)
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).
		Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	if m.config.Message != "" {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Width(contentWidth).
			Render(m.config.Message))
		content.WriteString("\n\n")
	}
	for i, in := range m.config.Inputs {
		label := in.Label
		if label == "" {
			label = in.Key
		}
		content.WriteString(styles.RenderFormSection([]string{m.inputs[i].View()}, label, "", contentWidth,
			m.focusedInput == i, styles.BorderHighlightFocusColor))
		content.WriteString("\n\n")
	}
	if m.errText != "" {
		content.WriteString(styles.ErrorTextStyle.Width(contentWidth).Render(m.errText))
		content.WriteString("\n\n")
	}
	content.WriteString(m.renderButtons())

	body := title + "\n" + divider + "\n" + lipgloss.NewStyle().Padding(1, 1).Render(content.String())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth).
		Render(body)
}

func (m Model) renderButtons() string {
	onButtons := m.focusedInput == -1
	saveFocused := onButtons && m.focusedField == FieldSave
	cancelFocused := onButtons && m.focusedField == FieldCancel

	saveStyle := styles.PrimaryButtonStyle
	switch {
	case m.config.ConfirmVariant == ButtonDanger && saveFocused:
		saveStyle = styles.DangerButtonFocusedStyle
	case m.config.ConfirmVariant == ButtonDanger:
		saveStyle = styles.DangerButtonStyle
	case saveFocused:
		saveStyle = styles.PrimaryButtonFocusedStyle
	}

	cancelStyle := styles.SecondaryButtonStyle
	if cancelFocused {
		cancelStyle = styles.SecondaryButtonFocusedStyle
	}

	return saveStyle.Render(m.confirmLabel()) + "  " + cancelStyle.Render(m.cancelLabel())
}

func (m Model) confirmLabel() string {
	switch {
	case m.config.ConfirmLabel != "":
		return m.config.ConfirmLabel
	case len(m.inputs) > 0:
		return "Save"
	default:
		return "Confirm"
	}
}

func (m Model) cancelLabel() string {
	if m.config.CancelLabel != "" {
		return m.config.CancelLabel
	}
	return "Cancel"
}

// Overlay renders the modal centered on bg.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// SetSize updates the viewport size used for centering.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ID returns the configured modal id.
func (m Model) ID() string {
	return m.config.ID
}

// FocusedInput returns the focused input index, or -1 on the buttons.
func (m Model) FocusedInput() int {
	return m.focusedInput
}

// FocusedField returns the focused button.
func (m Model) FocusedField() Field {
	return m.focusedField
}
