package trigger

import (
	"github.com/zjrosen/policywizard/internal/confirm"
	"github.com/zjrosen/policywizard/internal/policy"
	"github.com/zjrosen/policywizard/internal/sqlhelp"
)

// GenericFormErrorKey is the message key shown when a trigger form is rejected.
const GenericFormErrorKey = "_GENERIC_FORM_ERROR_"

// EditingContext identifies the container slot a pending edit targets.
// A position equal to the container length means "append".
type EditingContext struct {
	Position int
}

// Form is the trigger form as seen by the store: the factory marks it
// submitted and records an error key when a save is refused.
type Form struct {
	Submitted bool
	ErrorKey  string
}

// Factory owns the trigger being edited and decides whether it is valid.
type Factory interface {
	GetTrigger() policy.Trigger
	IsValidTrigger(t policy.Trigger) bool
	ResetTrigger(position int)
	SetTrigger(t policy.Trigger, position int)
	GetContext() EditingContext
	SetError(form *Form)
}

// Confirmer asks the user before a destructive action.
type Confirmer interface {
	ConfirmRemoval() *confirm.Result
}

// HelpDeriver computes SQL help items.
type HelpDeriver interface {
	Items(mode sqlhelp.Mode, triggers []policy.Trigger) []sqlhelp.Item
}
