package factory

import (
	"sync"

	"github.com/zjrosen/policywizard/internal/log"
	"github.com/zjrosen/policywizard/internal/policy"
)

// PolicyFactory holds the policy under construction and the wizard's
// next-step gate.
type PolicyFactory struct {
	mu       sync.RWMutex
	policy   *policy.Policy
	template policy.Template
	nextStep bool
}

// NewPolicyFactory wraps p. A nil p starts an empty policy.
func NewPolicyFactory(p *policy.Policy, template policy.Template) *PolicyFactory {
	if p == nil {
		p = &policy.Policy{}
	}
	return &PolicyFactory{policy: p, template: template}
}

// CurrentPolicy returns the policy being built. Callers mutate it in place.
func (f *PolicyFactory) CurrentPolicy() *policy.Policy {
	return f.policy
}

// Template returns the defaults for fresh models and triggers.
func (f *PolicyFactory) Template() policy.Template {
	return f.template
}

// EnableNextStep lets the wizard move on.
func (f *PolicyFactory) EnableNextStep() {
	f.mu.Lock()
	f.nextStep = true
	f.mu.Unlock()
	log.Debug(log.CatWizard, "next step enabled")
}

// DisableNextStep blocks the wizard from moving on.
func (f *PolicyFactory) DisableNextStep() {
	f.mu.Lock()
	f.nextStep = false
	f.mu.Unlock()
}

// NextStepEnabled reports whether the wizard may move on.
func (f *PolicyFactory) NextStepEnabled() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.nextStep
}
