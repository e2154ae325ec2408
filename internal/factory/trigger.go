// Package factory holds the editing state behind the wizard's forms: the
// trigger and model being edited and the policy under construction.
package factory

import (
	"strings"
	"sync"

	"github.com/zjrosen/policywizard/internal/log"
	"github.com/zjrosen/policywizard/internal/policy"
	"github.com/zjrosen/policywizard/internal/trigger"
)

// TriggerFactory owns the trigger open in the editor.
type TriggerFactory struct {
	mu       sync.RWMutex
	template policy.Trigger
	current  policy.Trigger
	position int
	errorKey string
}

// NewTriggerFactory creates a factory whose fresh triggers start from template.
func NewTriggerFactory(template policy.Trigger) *TriggerFactory {
	return &TriggerFactory{
		template: template.Clone(),
		current:  template.Clone(),
	}
}

// GetTrigger returns a copy of the trigger being edited.
func (f *TriggerFactory) GetTrigger() policy.Trigger {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current.Clone()
}

// IsValidTrigger reports whether t has a name and a query.
func (f *TriggerFactory) IsValidTrigger(t policy.Trigger) bool {
	return strings.TrimSpace(t.Name) != "" && strings.TrimSpace(t.SQL) != ""
}

// ResetTrigger opens a fresh trigger from the template at position.
func (f *TriggerFactory) ResetTrigger(position int) {
	f.mu.Lock()
	f.current = f.template.Clone()
	f.position = position
	f.errorKey = ""
	f.mu.Unlock()
	log.Debug(log.CatTrigger, "trigger form reset", "position", position)
}

// SetTrigger opens a copy of t for editing at position.
func (f *TriggerFactory) SetTrigger(t policy.Trigger, position int) {
	f.mu.Lock()
	f.current = t.Clone()
	f.position = position
	f.errorKey = ""
	f.mu.Unlock()
	log.Debug(log.CatTrigger, "trigger form opened", "position", position, "name", t.Name)
}

// GetContext returns where the edited trigger will be written.
func (f *TriggerFactory) GetContext() trigger.EditingContext {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return trigger.EditingContext{Position: f.position}
}

// SetError marks form as submitted with the generic error key.
func (f *TriggerFactory) SetError(form *trigger.Form) {
	f.mu.Lock()
	f.errorKey = trigger.GenericFormErrorKey
	f.mu.Unlock()
	if form != nil {
		form.Submitted = true
		form.ErrorKey = trigger.GenericFormErrorKey
	}
}

// Error returns the last error key set on the form, or "".
func (f *TriggerFactory) Error() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.errorKey
}

// Edit applies fn to the trigger being edited.
func (f *TriggerFactory) Edit(fn func(t *policy.Trigger)) {
	f.mu.Lock()
	fn(&f.current)
	f.mu.Unlock()
}
