package confirm

import (
	"github.com/zjrosen/policywizard/internal/log"
)

// Message keys and template used for trigger removal.
const (
	RemoveTriggerTitleKey = "_REMOVE_TRIGGER_CONFIRM_TITLE_"
	ConfirmModalTemplate  = "templates/modal/confirm-modal.tpl.html"
	ConfirmModalCtrl      = "ConfirmModalCtrl"
)

// Resolve supplies the strings a modal displays.
type Resolve struct {
	Title   func() string
	Message func() string
}

// Instance is an opened modal.
type Instance struct {
	Result *Result
}

// ModalOpener opens a modal and hands back its pending result.
type ModalOpener interface {
	OpenModal(controller, templateURL string, resolve Resolve) Instance
}

// Translator resolves message keys to display strings.
type Translator interface {
	Translate(key string) string
}

// Gate opens removal confirmations. It keeps no state of its own; callers
// are expected to avoid opening a second prompt before the first settles.
type Gate struct {
	opener     ModalOpener
	translator Translator
}

// NewGate creates a gate. A nil translator passes keys through unchanged.
func NewGate(opener ModalOpener, translator Translator) *Gate {
	return &Gate{opener: opener, translator: translator}
}

// ConfirmRemoval asks the user to confirm removing a trigger.
func (g *Gate) ConfirmRemoval() *Result {
	resolve := Resolve{
		Title: func() string {
			return g.translate(RemoveTriggerTitleKey)
		},
		Message: func() string {
			return ""
		},
	}

	log.Debug(log.CatConfirm, "opening removal confirmation", "template", ConfirmModalTemplate)
	inst := g.opener.OpenModal(ConfirmModalCtrl, ConfirmModalTemplate, resolve)
	if inst.Result == nil {
		// An opener that cannot show a prompt counts as a refusal.
		log.Warn(log.CatConfirm, "modal opener returned no result")
		return Rejected()
	}
	return inst.Result
}

func (g *Gate) translate(key string) string {
	if g.translator == nil {
		return key
	}
	return g.translator.Translate(key)
}
