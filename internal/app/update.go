package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/policywizard/internal/confirm"
	"github.com/zjrosen/policywizard/internal/flags"
	"github.com/zjrosen/policywizard/internal/log"
	"github.com/zjrosen/policywizard/internal/policy"
	"github.com/zjrosen/policywizard/internal/pubsub"
	"github.com/zjrosen/policywizard/internal/trigger"
	"github.com/zjrosen/policywizard/internal/ui/markdown"
	"github.com/zjrosen/policywizard/internal/ui/modal"
	"github.com/zjrosen/policywizard/internal/ui/toaster"
	"github.com/zjrosen/policywizard/internal/wizard"
)

// Trigger form modal id and field keys.
const (
	formModalID    = "trigger-form"
	fieldName      = "name"
	fieldSQL       = "sql"
	fieldOutputs   = "outputs"
	fieldOverLast  = "overLast"
	formModalWidth = 56
)

// Message keys used by the TUI.
const (
	msgNewTrigger     = "_NEW_TRIGGER_"
	msgTriggerName    = "_TRIGGER_NAME_"
	msgTriggerSQL     = "_TRIGGER_SQL_"
	msgTriggerOutputs = "_TRIGGER_OUTPUTS_"
	msgTriggerOver    = "_TRIGGER_OVERLAST_"
	msgTriggerRemoved = "_TRIGGER_REMOVED_"
	msgTriggerSaved   = "_TRIGGER_SAVED_"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.markdown = nil
		if m.flags.Enabled(flags.FlagSQLHelpMarkdown) {
			r, err := markdown.New(m.ui.MarkdownStyle, max(msg.Width-4, 20))
			if err != nil {
				log.ErrorErr(log.CatUI, "creating markdown renderer", err)
			}
			m.markdown = r
		}
		if m.modal != nil {
			md := *m.modal
			md.SetSize(msg.Width, msg.Height)
			m.modal = &md
		}
		return m, nil

	case pubsub.Event[trigger.Change]:
		return m.handleChange(msg)

	case log.LogEvent:
		m.lastLog = strings.TrimSpace(msg.Payload)
		return m, m.logs.Listen()

	case removalSettledMsg:
		log.Debug(log.CatUI, "removal settled", "outcome", msg.outcome)
		if msg.outcome == confirm.Cancelled && m.modal != nil && m.modal.ID() == confirm.ConfirmModalCtrl {
			m.modal = nil
		}
		return m, nil

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case modal.SubmitMsg:
		return m.handleSubmit(msg)

	case modal.CancelMsg:
		return m.handleCancel(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.modal != nil {
			return m.updateModal(msg)
		}
		return m.handleKey(msg)
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}
	return m, nil
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	md, cmd := m.modal.Update(msg)
	m.modal = &md
	return m, cmd
}

// handleChange refreshes the accordions after the store published a change.
func (m Model) handleChange(event pubsub.Event[trigger.Change]) (tea.Model, tea.Cmd) {
	m.session.SyncPanels()
	m.clampCursors()

	text := m.translate(msgTriggerSaved)
	if event.Type == pubsub.DeletedEvent {
		text = m.translate(msgTriggerRemoved)
	}
	log.Debug(log.CatUI, "trigger change received", "type", event.Type, "position", event.Payload.Position)

	var toastCmd tea.Cmd
	m.toaster, toastCmd = m.toaster.Show(text, toaster.StyleSuccess)
	return m, tea.Batch(toastCmd, m.changes.Listen())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Models):
		m.focus = paneModels

	case key.Matches(msg, m.keys.Triggers):
		m.focus = paneTriggers

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.NextTarget):
		return m.cycleTarget(1)

	case key.Matches(msg, m.keys.PrevTarget):
		return m.cycleTarget(-1)

	case key.Matches(msg, m.keys.Enter):
		return m.activateRow(m.focus, m.cursor())

	case key.Matches(msg, m.keys.Add):
		return m.add()

	case key.Matches(msg, m.keys.Edit):
		if m.focus == paneTriggers && !m.session.Store().IsNew(m.triggerCursor) {
			return m.openTriggerForm(m.triggerCursor)
		}

	case key.Matches(msg, m.keys.Delete):
		return m.remove()

	case key.Matches(msg, m.keys.SQLHelp):
		store := m.session.Store()
		store.ChangeVisibilityOfHelpForSQL(!store.SQLHelpVisible())

	case key.Matches(msg, m.keys.Escape):
		m.collapse()
	}
	return m, nil
}

// handleMouse opens the accordion row or target tab under a left click.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.flags.Enabled(flags.FlagMouseZones) || m.modal != nil {
		return m, nil
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	for i := range m.modelRows() {
		if zone.Get(rowZoneID(paneModels, i)).InBounds(msg) {
			m.focus = paneModels
			m.modelCursor = i
			return m.activateRow(paneModels, i)
		}
	}
	for i := range m.triggerRows() {
		if zone.Get(rowZoneID(paneTriggers, i)).InBounds(msg) {
			m.focus = paneTriggers
			m.triggerCursor = i
			return m.activateRow(paneTriggers, i)
		}
	}
	for i, target := range m.targets() {
		if zone.Get(tabZoneID(i)).InBounds(msg) {
			return m.selectTarget(target)
		}
	}
	return m, nil
}

// modelRows counts the model accordion rows, including the creation slot
// when it is shown.
func (m Model) modelRows() int {
	n := len(m.session.Policies().CurrentPolicy().Transformations)
	if m.session.Panels().ModelCreationVisible() {
		n++
	}
	return n
}

// triggerRows counts the trigger accordion rows, including the creation slot.
func (m Model) triggerRows() int {
	return m.session.Store().Len() + 1
}

func (m Model) cursor() int {
	if m.focus == paneModels {
		return m.modelCursor
	}
	return m.triggerCursor
}

func (m *Model) moveCursor(delta int) {
	if m.focus == paneModels {
		m.modelCursor = clamp(m.modelCursor+delta, m.modelRows())
		return
	}
	m.triggerCursor = clamp(m.triggerCursor+delta, m.triggerRows())
}

func (m *Model) clampCursors() {
	m.modelCursor = clamp(m.modelCursor, m.modelRows())
	m.triggerCursor = clamp(m.triggerCursor, m.triggerRows())
}

// clamp limits i to [0, rows).
func clamp(i, rows int) int {
	return max(min(i, rows-1), 0)
}

// collapse closes the open row of the focused accordion.
func (m *Model) collapse() {
	acc := m.session.Panels().Triggers()
	if m.focus == paneModels {
		acc = m.session.Panels().Models()
	}
	if open := acc.OpenIndex(); open >= 0 {
		acc.Toggle(open)
	}
	if m.focus == paneModels {
		m.session.Panels().DisableModelCreation()
	} else {
		m.session.Panels().DisableTriggerCreation()
	}
}

// activateRow toggles row i of p. The creation slot activates its panel;
// for triggers it also opens the form.
func (m Model) activateRow(p pane, i int) (tea.Model, tea.Cmd) {
	if p == paneModels {
		n := len(m.session.Policies().CurrentPolicy().Transformations)
		if i >= n {
			m.session.ActivateModelCreationPanel()
			m.session.ChangeOpenedModel(n)
			return m, nil
		}
		acc := m.session.Panels().Models()
		acc.Toggle(i)
		if acc.IsOpen(i) {
			m.session.ChangeOpenedModel(i)
		}
		m.session.Panels().DisableModelCreation()
		return m, nil
	}

	if m.session.Store().IsNew(i) {
		return m.openTriggerForm(m.session.Store().Len())
	}
	acc := m.session.Panels().Triggers()
	acc.Toggle(i)
	if acc.IsOpen(i) {
		m.session.ChangeOpenedTrigger(i)
	}
	m.session.Panels().DisableTriggerCreation()
	return m, nil
}

func (m Model) add() (tea.Model, tea.Cmd) {
	if m.focus == paneModels {
		m.session.Panels().SetModelCreationVisibility(true)
		m.session.SyncPanels()
		m.modelCursor = m.modelRows() - 1
		return m.activateRow(paneModels, m.modelCursor)
	}
	m.triggerCursor = m.session.Store().Len()
	return m.openTriggerForm(m.triggerCursor)
}

// openTriggerForm loads the trigger at position into the factory and shows
// the form. A position past the end opens a fresh trigger.
func (m Model) openTriggerForm(position int) (tea.Model, tea.Cmd) {
	isNew := m.session.Store().IsNew(position)
	if isNew {
		m.session.ActivateTriggerCreationPanel()
	}
	m.session.ChangeOpenedTrigger(position)
	t := m.session.Triggers().GetTrigger()

	title := t.Name
	if isNew {
		title = m.translate(msgNewTrigger)
	}

	md := modal.New(modal.Config{
		ID:    formModalID,
		Title: title,
		Inputs: []modal.InputConfig{
			{Key: fieldName, Label: m.translate(msgTriggerName), Value: t.Name},
			{Key: fieldSQL, Label: m.translate(msgTriggerSQL), Value: t.SQL},
			{Key: fieldOutputs, Label: m.translate(msgTriggerOutputs), Value: strings.Join(t.Outputs, ", ")},
			{Key: fieldOverLast, Label: m.translate(msgTriggerOver), Value: t.OverLast},
		},
		MinWidth: formModalWidth,
	})
	md.SetSize(m.width, m.height)
	m.modal = &md
	return m, md.Init()
}

// remove asks for confirmation before removing the trigger under the cursor.
func (m Model) remove() (tea.Model, tea.Cmd) {
	store := m.session.Store()
	if m.focus != paneTriggers || store.IsNew(m.triggerCursor) || store.RemovalPending() {
		return m, nil
	}

	res := m.session.RemoveTrigger(m.ctx, m.triggerCursor)
	if req, ok := m.host.take(); ok {
		md := modal.New(modal.Config{
			ID:             req.controller,
			Title:          req.title,
			Message:        req.message,
			ConfirmVariant: modal.ButtonDanger,
		})
		md.SetSize(m.width, m.height)
		m.modal = &md
	}
	return m, waitRemoval(res)
}

func (m Model) handleSubmit(msg modal.SubmitMsg) (tea.Model, tea.Cmd) {
	if m.modal == nil || msg.ID != m.modal.ID() {
		return m, nil
	}
	if msg.ID == formModalID {
		return m.saveTrigger(msg.Values)
	}
	m.host.answer(true)
	m.modal = nil
	return m, nil
}

func (m Model) handleCancel(msg modal.CancelMsg) (tea.Model, tea.Cmd) {
	if m.modal == nil || msg.ID != m.modal.ID() {
		return m, nil
	}
	if msg.ID == formModalID {
		m.session.Panels().DisableTriggerCreation()
	} else {
		m.host.answer(false)
	}
	m.modal = nil
	return m, nil
}

// saveTrigger copies the form values into the factory and saves. A refused
// save keeps the form open with the translated error.
func (m Model) saveTrigger(values map[string]string) (tea.Model, tea.Cmd) {
	m.session.Triggers().Edit(func(t *policy.Trigger) {
		t.Name = strings.TrimSpace(values[fieldName])
		t.SQL = strings.TrimSpace(values[fieldSQL])
		t.Outputs = splitOutputs(values[fieldOutputs])
		t.OverLast = strings.TrimSpace(values[fieldOverLast])
	})

	store := m.session.Store()
	form := &trigger.Form{}
	if !store.SaveContext(m.ctx, form) {
		md := *m.modal
		md.SetError(m.translate(form.ErrorKey))
		m.modal = &md
		return m, nil
	}

	m.modal = nil
	m.session.Panels().DisableTriggerCreation()
	m.session.SyncPanels()
	m.triggerCursor = clamp(m.session.Triggers().GetContext().Position, m.triggerRows())
	return m, nil
}

// splitOutputs parses a comma separated output list.
func splitOutputs(s string) []string {
	outputs := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			outputs = append(outputs, part)
		}
	}
	return outputs
}

// targets lists the stream followed by every cube.
func (m Model) targets() []wizard.Target {
	cubes := m.session.Policies().CurrentPolicy().Cubes
	targets := make([]wizard.Target, 0, len(cubes)+1)
	targets = append(targets, wizard.TargetStream)
	for i := range cubes {
		targets = append(targets, wizard.TargetCube(i))
	}
	return targets
}

func (m Model) cycleTarget(delta int) (tea.Model, tea.Cmd) {
	targets := m.targets()
	current := 0
	for i, t := range targets {
		if t == m.session.Target() {
			current = i
		}
	}
	next := (current + delta + len(targets)) % len(targets)
	return m.selectTarget(targets[next])
}

func (m Model) selectTarget(target wizard.Target) (tea.Model, tea.Cmd) {
	if err := m.session.SelectTarget(target); err != nil {
		log.ErrorErr(log.CatUI, "select target failed", err)
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(err.Error(), toaster.StyleError)
		return m, cmd
	}
	m.triggerCursor = 0
	m.focus = paneTriggers
	return m, nil
}

func rowZoneID(p pane, i int) string {
	if p == paneModels {
		return fmt.Sprintf("model-%d", i)
	}
	return fmt.Sprintf("trigger-%d", i)
}

func tabZoneID(i int) string {
	return fmt.Sprintf("target-%d", i)
}
