package panel

import "github.com/zjrosen/policywizard/internal/log"

// Activation holds the two creation-panel flags of one accordion scope.
// Activating one side disables the other, so both are never true at once;
// both may be false.
type Activation struct {
	modelActive   bool
	triggerActive bool
	modelVisible  bool

	models   *Accordion
	triggers *Accordion
}

// NewActivation creates an idle activation state over the given accordions.
// Nil accordions are replaced with empty ones.
func NewActivation(models, triggers *Accordion) *Activation {
	if models == nil {
		models = NewAccordion(0)
	}
	if triggers == nil {
		triggers = NewAccordion(0)
	}
	return &Activation{models: models, triggers: triggers}
}

// ActivateModelCreation opens the model creation panel and closes the
// trigger one.
func (a *Activation) ActivateModelCreation() {
	a.models.ExpandLast()
	a.modelActive = true
	a.triggerActive = false
	log.Debug(log.CatPanel, "model creation panel activated")
}

// ActivateTriggerCreation opens the trigger creation panel and closes the
// model one.
func (a *Activation) ActivateTriggerCreation() {
	a.triggers.ExpandLast()
	a.triggerActive = true
	a.modelActive = false
	log.Debug(log.CatPanel, "trigger creation panel activated")
}

// DisableModelCreation closes the model creation panel only.
func (a *Activation) DisableModelCreation() {
	a.modelActive = false
}

// DisableTriggerCreation closes the trigger creation panel only.
func (a *Activation) DisableTriggerCreation() {
	a.triggerActive = false
}

// IsActiveModelCreation reports whether the model creation panel is active.
func (a *Activation) IsActiveModelCreation() bool {
	return a.modelActive
}

// IsActiveTriggerCreation reports whether the trigger creation panel is active.
func (a *Activation) IsActiveTriggerCreation() bool {
	return a.triggerActive
}

// SetModelCreationVisibility shows or hides the model creation panel.
func (a *Activation) SetModelCreationVisibility(visible bool) {
	a.modelVisible = visible
}

// ModelCreationVisible reports whether the model creation panel is shown.
func (a *Activation) ModelCreationVisible() bool {
	return a.modelVisible
}

// Models returns the model accordion.
func (a *Activation) Models() *Accordion {
	return a.models
}

// Triggers returns the trigger accordion.
func (a *Activation) Triggers() *Accordion {
	return a.triggers
}
