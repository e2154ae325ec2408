// Package wizard wires one policy editing session: the policy, model and
// trigger factories, the trigger store, the removal confirmation gate and
// the creation panels of the models step.
package wizard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/policywizard/internal/confirm"
	"github.com/zjrosen/policywizard/internal/factory"
	"github.com/zjrosen/policywizard/internal/log"
	"github.com/zjrosen/policywizard/internal/panel"
	"github.com/zjrosen/policywizard/internal/policy"
	"github.com/zjrosen/policywizard/internal/sqlhelp"
	"github.com/zjrosen/policywizard/internal/tracing"
	"github.com/zjrosen/policywizard/internal/trigger"
)

// HelpSection is the template help link shown on the models step.
const HelpSection = "models"

// Target selects the trigger container the store is bound to.
type Target int

// TargetStream binds the policy's stream triggers.
const TargetStream Target = -1

// TargetCube binds the triggers of cube i.
func TargetCube(i int) Target { return Target(i) }

// IsStream reports whether t is the stream target.
func (t Target) IsStream() bool { return t < 0 }

// CubeIndex returns the cube index of a cube target.
func (t Target) CubeIndex() int { return int(t) }

// Deps are the collaborators a session needs from its host.
type Deps struct {
	Policy   *policy.Policy
	Template policy.Template
	// Opener shows the confirmation modal.
	Opener confirm.ModalOpener
	// Translator resolves message keys. Nil passes keys through.
	Translator confirm.Translator
	// Tracer records trigger store spans. Nil disables tracing.
	Tracer trace.Tracer
}

// Session is one run of the models step of the policy wizard.
type Session struct {
	id string

	policies *factory.PolicyFactory
	models   *factory.ModelFactory
	triggers *factory.TriggerFactory
	store    *trigger.Service
	panels   *panel.Activation
	target   Target
}

// New builds a session. Call Init before use.
func New(deps Deps) *Session {
	s := &Session{
		id:       uuid.NewString(),
		policies: factory.NewPolicyFactory(deps.Policy, deps.Template),
		models:   factory.NewModelFactory(),
		triggers: factory.NewTriggerFactory(deps.Template.Trigger),
		panels:   panel.NewActivation(panel.NewAccordion(0), panel.NewAccordion(0)),
		target:   TargetStream,
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = tracing.NoopTracer()
	}

	s.store = trigger.NewService(trigger.Config{
		Factory: s.triggers,
		Gate:    confirm.NewGate(deps.Opener, deps.Translator),
		Help:    sqlhelp.NewDeriver(transformationSource{s}, cubeSource{s}),
		Tracer:  sessionTracer{Tracer: tracer, id: s.id},
	})
	return s
}

// Init binds the store to the stream triggers in transformation mode,
// turns on SQL help and either enables the next step (the policy already
// has models) or shows the model creation panel.
func (s *Session) Init() {
	p := s.policies.CurrentPolicy()

	s.bindStream()
	s.store.ChangeVisibilityOfHelpForSQL(true)

	if len(p.Transformations) > 0 {
		s.policies.EnableNextStep()
	} else {
		s.panels.SetModelCreationVisibility(true)
	}
	s.SyncPanels()

	log.Info(log.CatWizard, "session initialized",
		"session", s.id, "policy", p.Name,
		"models", len(p.Transformations), "triggers", s.store.Len())
}

// ActivateModelCreationPanel opens the model creation panel and closes the
// trigger one.
func (s *Session) ActivateModelCreationPanel() {
	s.panels.ActivateModelCreation()
}

// ActivateTriggerCreationPanel opens the trigger creation panel and closes
// the model one.
func (s *Session) ActivateTriggerCreationPanel() {
	s.panels.ActivateTriggerCreation()
}

// ChangeOpenedModel loads the model at position into the model editor, or
// a fresh model from the template ordered after the last one.
func (s *Session) ChangeOpenedModel(position int) {
	p := s.policies.CurrentPolicy()
	n := len(p.Transformations)

	if position >= 0 && position < n {
		s.models.SetModel(p.Transformations[position], position)
	} else {
		order := 0
		if n > 0 {
			order = p.Transformations[n-1].Order + 1
		}
		s.models.ResetModel(s.policies.Template().Model, order, n)
	}
	s.models.UpdateModelInputs(p.Transformations)
}

// ChangeOpenedTrigger loads the trigger at position into the trigger
// editor, or a fresh trigger at the end of the bound container.
func (s *Session) ChangeOpenedTrigger(position int) {
	s.store.ChangeOpenedTrigger(position)
}

// SelectTarget rebinds the trigger store to the stream or to one cube.
func (s *Session) SelectTarget(target Target) error {
	if target.IsStream() {
		s.target = TargetStream
		s.bindStream()
		s.SyncPanels()
		return nil
	}

	p := s.policies.CurrentPolicy()
	i := target.CubeIndex()
	if i >= len(p.Cubes) {
		return fmt.Errorf("cube %d: policy has %d cubes", i, len(p.Cubes))
	}

	s.target = target
	s.store.SetContainer(&p.Cubes[i].Triggers, trigger.ModeDefault)
	s.SyncPanels()
	log.Debug(log.CatWizard, "cube target selected", "cube", p.Cubes[i].Name)
	return nil
}

func (s *Session) bindStream() {
	s.store.SetContainer(&s.policies.CurrentPolicy().StreamTriggers, trigger.ModeTransformation)
}

// SyncPanels sizes each accordion to its list plus the creation slot.
func (s *Session) SyncPanels() {
	s.panels.Models().Resize(len(s.policies.CurrentPolicy().Transformations) + 1)
	s.panels.Triggers().Resize(s.store.Len() + 1)
}

// RemoveTrigger asks for confirmation and removes the trigger at index.
func (s *Session) RemoveTrigger(ctx context.Context, index int) *confirm.Result {
	return s.store.RemoveAt(ctx, index)
}

// SQLHelp returns the help items for the bound container, or nil when the
// help panel is hidden.
func (s *Session) SQLHelp() []sqlhelp.Item {
	if !s.store.SQLHelpVisible() {
		return nil
	}
	return s.store.SQLHelpItems()
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Target returns the bound trigger container.
func (s *Session) Target() Target { return s.target }

// Store returns the trigger store.
func (s *Session) Store() *trigger.Service { return s.store }

// Panels returns the creation panel state.
func (s *Session) Panels() *panel.Activation { return s.panels }

// Policies returns the policy factory.
func (s *Session) Policies() *factory.PolicyFactory { return s.policies }

// Models returns the model factory.
func (s *Session) Models() *factory.ModelFactory { return s.models }

// Triggers returns the trigger factory.
func (s *Session) Triggers() *factory.TriggerFactory { return s.triggers }

// HelpLink returns the template help link for the models step.
func (s *Session) HelpLink() string {
	return s.policies.Template().HelpLink(HelpSection)
}

// Close releases the store's subscribers.
func (s *Session) Close() {
	s.store.Close()
}

type transformationSource struct{ s *Session }

func (t transformationSource) Transformations() []policy.Transformation {
	return t.s.policies.CurrentPolicy().Transformations
}

type cubeSource struct{ s *Session }

func (c cubeSource) Cube() (policy.Cube, bool) {
	if c.s.target.IsStream() {
		return policy.Cube{}, false
	}
	cubes := c.s.policies.CurrentPolicy().Cubes
	i := c.s.target.CubeIndex()
	if i >= len(cubes) {
		return policy.Cube{}, false
	}
	// Triggers is the store's container and may be written by a removal
	// settling off the update loop; only the store reads it, under its lock.
	cube := &cubes[i]
	return policy.Cube{Name: cube.Name, Dimensions: cube.Dimensions, Operators: cube.Operators}, true
}

// sessionTracer stamps every span with the session id.
type sessionTracer struct {
	trace.Tracer
	id string
}

func (t sessionTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	opts = append(opts, trace.WithAttributes(attribute.String(tracing.AttrSessionID, t.id)))
	return t.Tracer.Start(ctx, name, opts...)
}
