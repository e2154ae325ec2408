// Package trigger manages the ordered trigger list of a stream or cube:
// adding, saving, confirmed removal and SQL help for the trigger editor.
package trigger

import (
	"context"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/policywizard/internal/confirm"
	"github.com/zjrosen/policywizard/internal/log"
	"github.com/zjrosen/policywizard/internal/policy"
	"github.com/zjrosen/policywizard/internal/pubsub"
	"github.com/zjrosen/policywizard/internal/sqlhelp"
	"github.com/zjrosen/policywizard/internal/tracing"
)

// Mode is the container binding mode. It also selects the help source.
type Mode = sqlhelp.Mode

const (
	ModeDefault        = sqlhelp.ModeDefault
	ModeTransformation = sqlhelp.ModeTransformation
)

// Change is the payload published after a mutation.
type Change struct {
	Position int
	Trigger  policy.Trigger
}

// Config holds the collaborators of a Service.
type Config struct {
	Factory Factory
	Gate    Confirmer
	Help    HelpDeriver
	// Tracer records one span per mutation. Nil disables tracing.
	Tracer trace.Tracer
}

// Service mutates a caller-owned trigger container in place.
//
// The container is guarded by mu because a confirmed removal completes on
// the goroutine that waited for the answer. Renderers should read through
// Triggers rather than the container itself.
type Service struct {
	mu          sync.Mutex
	container   *[]policy.Trigger
	mode        Mode
	pending     bool
	helpVisible bool

	factory Factory
	gate    Confirmer
	help    HelpDeriver
	tracer  trace.Tracer
	broker  *pubsub.Broker[Change]
}

// NewService creates a service bound to a fresh, empty container.
func NewService(cfg Config) *Service {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = tracing.NoopTracer()
	}
	return &Service{
		container: &[]policy.Trigger{},
		factory:   cfg.Factory,
		gate:      cfg.Gate,
		help:      cfg.Help,
		tracer:    tracer,
		broker:    pubsub.NewBroker[Change](),
	}
}

// SetContainer rebinds the service to container in the given mode.
// A nil container is replaced by a fresh empty one.
func (s *Service) SetContainer(container *[]policy.Trigger, mode Mode) {
	if container == nil {
		container = &[]policy.Trigger{}
	}

	s.mu.Lock()
	s.container = container
	s.mode = mode
	n := len(*container)
	s.mu.Unlock()

	log.Debug(log.CatTrigger, "container bound", "mode", mode, "len", n)
}

// Mode returns the current binding mode.
func (s *Service) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Len returns the current container length.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(*s.container)
}

// Triggers returns a deep copy of the container.
func (s *Service) Triggers() []policy.Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]policy.Trigger, len(*s.container))
	for i, t := range *s.container {
		out[i] = t.Clone()
	}
	return out
}

// Add appends the factory's trigger when it is valid. An invalid trigger
// leaves the container untouched and surfaces nothing; the factory owns
// error display. Reports whether the trigger was appended.
func (s *Service) Add() bool {
	return s.AddContext(context.Background())
}

// AddContext is Add with its span started under ctx.
func (s *Service) AddContext(ctx context.Context) bool {
	_, span := s.tracer.Start(ctx, tracing.SpanTriggerAdd)
	defer span.End()

	candidate := s.factory.GetTrigger()
	valid := s.factory.IsValidTrigger(candidate)
	span.SetAttributes(
		attribute.String(tracing.AttrTriggerName, candidate.Name),
		attribute.Bool(tracing.AttrTriggerValid, valid),
	)
	if !valid {
		log.Debug(log.CatTrigger, "add refused, trigger invalid", "name", candidate.Name)
		return false
	}

	s.mu.Lock()
	*s.container = append(*s.container, candidate.Clone())
	pos := len(*s.container) - 1
	s.mu.Unlock()

	span.SetAttributes(attribute.Int(tracing.AttrTriggerPosition, pos))
	log.Info(log.CatTrigger, "trigger added", "position", pos, "name", candidate.Name)
	s.broker.Publish(pubsub.CreatedEvent, Change{Position: pos, Trigger: candidate.Clone()})
	return true
}

// Save writes the factory's trigger at the editing position: appended when
// the position is at (or past) the end, replaced in place otherwise. An
// invalid trigger is reported through Factory.SetError and not written.
// Names are not checked for uniqueness.
func (s *Service) Save(form *Form) bool {
	return s.SaveContext(context.Background(), form)
}

// SaveContext is Save with its span started under ctx.
func (s *Service) SaveContext(ctx context.Context, form *Form) bool {
	_, span := s.tracer.Start(ctx, tracing.SpanTriggerSave)
	defer span.End()

	candidate := s.factory.GetTrigger()
	valid := s.factory.IsValidTrigger(candidate)
	span.SetAttributes(
		attribute.String(tracing.AttrTriggerName, candidate.Name),
		attribute.Bool(tracing.AttrTriggerValid, valid),
	)
	if !valid {
		s.factory.SetError(form)
		log.Debug(log.CatTrigger, "save refused, trigger invalid", "name", candidate.Name)
		return false
	}

	position := s.factory.GetContext().Position

	s.mu.Lock()
	event := pubsub.UpdatedEvent
	if position >= 0 && position < len(*s.container) {
		(*s.container)[position] = candidate.Clone()
	} else {
		if position > len(*s.container) || position < 0 {
			log.Warn(log.CatTrigger, "editing position outside container, appending",
				"position", position, "len", len(*s.container))
		}
		*s.container = append(*s.container, candidate.Clone())
		position = len(*s.container) - 1
		event = pubsub.CreatedEvent
	}
	s.mu.Unlock()

	span.SetAttributes(attribute.Int(tracing.AttrTriggerPosition, position))
	log.Info(log.CatTrigger, "trigger saved", "position", position, "name", candidate.Name)
	s.broker.Publish(event, Change{Position: position, Trigger: candidate.Clone()})
	return true
}

// RemoveAt asks for confirmation and then removes the trigger at index,
// shifting later triggers down by one. The returned result resolves once
// the trigger is gone and rejects when the user declines or ctx ends
// before an answer arrives; either way nothing is removed before the
// answer.
//
// An index outside the container, or a call made while another removal is
// awaiting its answer, returns an already rejected result without
// prompting.
func (s *Service) RemoveAt(ctx context.Context, index int) *confirm.Result {
	ctx, span := s.tracer.Start(ctx, tracing.SpanTriggerRemove,
		trace.WithAttributes(attribute.Int(tracing.AttrTriggerPosition, index)))

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		log.Warn(log.CatTrigger, "removal already pending", "index", index)
		span.End()
		return confirm.Rejected()
	}
	if index < 0 || index >= len(*s.container) {
		n := len(*s.container)
		s.mu.Unlock()
		log.Warn(log.CatTrigger, "remove index out of range", "index", index, "len", n)
		span.End()
		return confirm.Rejected()
	}
	s.pending = true
	container := s.container
	s.mu.Unlock()

	span.AddEvent(tracing.EventConfirmRequested)
	answer := s.gate.ConfirmRemoval()

	done := confirm.NewResult()
	go func() {
		defer span.End()

		outcome, err := answer.Wait(ctx)
		if err != nil {
			outcome = confirm.Cancelled
		}
		span.AddEvent(tracing.EventConfirmSettled,
			trace.WithAttributes(attribute.String(tracing.AttrOutcome, outcome.String())))

		var (
			removed policy.Trigger
			ok      bool
		)
		s.mu.Lock()
		if outcome == confirm.Confirmed {
			removed, ok = removeFrom(container, index)
		}
		s.pending = false
		s.mu.Unlock()

		if !ok {
			log.Debug(log.CatTrigger, "removal not applied", "index", index, "outcome", outcome)
			done.Reject()
			return
		}

		log.Info(log.CatTrigger, "trigger removed", "position", index, "name", removed.Name)
		s.broker.Publish(pubsub.DeletedEvent, Change{Position: index, Trigger: removed})
		done.Resolve()
	}()

	return done
}

// removeFrom deletes index from container. The container may have shrunk
// while the prompt was open, so the bound is checked again.
func removeFrom(container *[]policy.Trigger, index int) (policy.Trigger, bool) {
	if index < 0 || index >= len(*container) {
		return policy.Trigger{}, false
	}
	removed := (*container)[index]
	*container = slices.Delete(*container, index, index+1)
	return removed, true
}

// RemovalPending reports whether a removal is waiting for its answer.
// The delete control should stay disabled while it is true.
func (s *Service) RemovalPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// IsNew reports whether position addresses a slot past the current end of
// the container, i.e. a trigger that does not exist yet.
func (s *Service) IsNew(position int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return position >= len(*s.container)
}

// ChangeOpenedTrigger loads the trigger at position into the factory, or
// resets the factory to a fresh trigger at the end of the container.
func (s *Service) ChangeOpenedTrigger(position int) {
	s.mu.Lock()
	n := len(*s.container)
	var existing policy.Trigger
	found := position >= 0 && position < n
	if found {
		existing = (*s.container)[position].Clone()
	}
	s.mu.Unlock()

	if found {
		s.factory.SetTrigger(existing, position)
		return
	}
	s.factory.ResetTrigger(n)
}

// ChangeVisibilityOfHelpForSQL shows or hides the SQL help panel.
func (s *Service) ChangeVisibilityOfHelpForSQL(visible bool) {
	s.mu.Lock()
	s.helpVisible = visible
	s.mu.Unlock()
}

// SQLHelpVisible reports whether the SQL help panel is shown.
func (s *Service) SQLHelpVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.helpVisible
}

// SQLHelpItems derives help items for the bound container.
func (s *Service) SQLHelpItems() []sqlhelp.Item {
	if s.help == nil {
		return nil
	}
	return s.help.Items(s.Mode(), s.Triggers())
}

// Broker returns the broker on which mutations are published.
func (s *Service) Broker() *pubsub.Broker[Change] {
	return s.broker
}

// Close releases the broker's subscriptions.
func (s *Service) Close() {
	s.broker.Close()
}
