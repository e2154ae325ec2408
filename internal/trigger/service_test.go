package trigger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
	"pgregory.net/rapid"

	"github.com/zjrosen/policywizard/internal/confirm"
	"github.com/zjrosen/policywizard/internal/policy"
	"github.com/zjrosen/policywizard/internal/pubsub"
	"github.com/zjrosen/policywizard/internal/sqlhelp"
	"github.com/zjrosen/policywizard/internal/tracing"
)

// mockFactory is a testify mock of Factory.
type mockFactory struct {
	mock.Mock
}

func (m *mockFactory) GetTrigger() policy.Trigger {
	args := m.Called()
	return args.Get(0).(policy.Trigger)
}

func (m *mockFactory) IsValidTrigger(t policy.Trigger) bool {
	args := m.Called(t)
	return args.Bool(0)
}

func (m *mockFactory) ResetTrigger(position int) {
	m.Called(position)
}

func (m *mockFactory) SetTrigger(t policy.Trigger, position int) {
	m.Called(t, position)
}

func (m *mockFactory) GetContext() EditingContext {
	args := m.Called()
	return args.Get(0).(EditingContext)
}

func (m *mockFactory) SetError(form *Form) {
	m.Called(form)
}

// stubFactory is a plain Factory for property tests.
type stubFactory struct {
	current  policy.Trigger
	valid    bool
	position int
}

func (f *stubFactory) GetTrigger() policy.Trigger           { return f.current }
func (f *stubFactory) IsValidTrigger(policy.Trigger) bool   { return f.valid }
func (f *stubFactory) ResetTrigger(position int)            { f.position = position }
func (f *stubFactory) SetTrigger(t policy.Trigger, pos int) { f.current, f.position = t, pos }
func (f *stubFactory) GetContext() EditingContext           { return EditingContext{Position: f.position} }
func (f *stubFactory) SetError(form *Form)                  { form.Submitted, form.ErrorKey = true, GenericFormErrorKey }

// fakeGate hands out results the test settles.
type fakeGate struct {
	calls   int
	results []*confirm.Result
}

func (g *fakeGate) ConfirmRemoval() *confirm.Result {
	g.calls++
	r := confirm.NewResult()
	g.results = append(g.results, r)
	return r
}

func (g *fakeGate) last() *confirm.Result {
	return g.results[len(g.results)-1]
}

// autoGate settles every prompt immediately.
type autoGate struct {
	confirm bool
}

func (g autoGate) ConfirmRemoval() *confirm.Result {
	if g.confirm {
		return confirm.Resolved()
	}
	return confirm.Rejected()
}

func named(names ...string) []policy.Trigger {
	out := make([]policy.Trigger, len(names))
	for i, n := range names {
		out[i] = policy.Trigger{Name: n, SQL: "select * from stream"}
	}
	return out
}

func names(ts []policy.Trigger) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func wait(t *testing.T, r *confirm.Result) confirm.Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	outcome, err := r.Wait(ctx)
	require.NoError(t, err)
	return outcome
}

func TestService_AddValidAppendsCopy(t *testing.T) {
	f := &mockFactory{}
	candidate := policy.Trigger{Name: "t", SQL: "select 1", Outputs: []string{"a"}}
	f.On("GetTrigger").Return(candidate)
	f.On("IsValidTrigger", candidate).Return(true)

	s := NewService(Config{Factory: f})
	container := named("A")
	s.SetContainer(&container, ModeTransformation)

	require.True(t, s.Add())
	require.Equal(t, []string{"A", "t"}, names(container))

	// The stored trigger does not alias the factory's.
	candidate.Outputs[0] = "changed"
	require.Equal(t, "a", container[1].Outputs[0])
	f.AssertExpectations(t)
}

func TestService_AddInvalidLeavesContainer(t *testing.T) {
	f := &mockFactory{}
	candidate := policy.Trigger{Name: ""}
	f.On("GetTrigger").Return(candidate)
	f.On("IsValidTrigger", candidate).Return(false)

	s := NewService(Config{Factory: f})
	container := named("A", "B")
	s.SetContainer(&container, ModeDefault)

	require.False(t, s.Add())
	require.Equal(t, []string{"A", "B"}, names(container))
	f.AssertNotCalled(t, "SetError", mock.Anything)
}

func TestService_SaveReplacesInRange(t *testing.T) {
	f := &mockFactory{}
	candidate := policy.Trigger{Name: "B2", SQL: "select 2"}
	f.On("GetTrigger").Return(candidate)
	f.On("IsValidTrigger", candidate).Return(true)
	f.On("GetContext").Return(EditingContext{Position: 1})

	s := NewService(Config{Factory: f})
	container := named("A", "B", "C")
	s.SetContainer(&container, ModeDefault)

	require.True(t, s.Save(&Form{}))
	require.Equal(t, []string{"A", "B2", "C"}, names(container))
}

func TestService_SaveAppendsAtEnd(t *testing.T) {
	f := &mockFactory{}
	candidate := policy.Trigger{Name: "D", SQL: "select 4"}
	f.On("GetTrigger").Return(candidate)
	f.On("IsValidTrigger", candidate).Return(true)
	f.On("GetContext").Return(EditingContext{Position: 3})

	s := NewService(Config{Factory: f})
	container := named("A", "B", "C")
	s.SetContainer(&container, ModeDefault)

	require.True(t, s.Save(&Form{}))
	require.Equal(t, []string{"A", "B", "C", "D"}, names(container))
}

func TestService_SaveStalePositionAppends(t *testing.T) {
	f := &stubFactory{current: policy.Trigger{Name: "X"}, valid: true, position: 9}
	s := NewService(Config{Factory: f})
	container := named("A")
	s.SetContainer(&container, ModeDefault)

	require.True(t, s.Save(&Form{}))
	require.Equal(t, []string{"A", "X"}, names(container))
}

func TestService_SaveInvalidSetsFormError(t *testing.T) {
	f := &mockFactory{}
	candidate := policy.Trigger{Name: "bad"}
	form := &Form{}
	f.On("GetTrigger").Return(candidate)
	f.On("IsValidTrigger", candidate).Return(false)
	f.On("SetError", form).Run(func(args mock.Arguments) {
		fm := args.Get(0).(*Form)
		fm.Submitted = true
		fm.ErrorKey = GenericFormErrorKey
	}).Return()

	s := NewService(Config{Factory: f})
	container := named("A")
	s.SetContainer(&container, ModeDefault)

	require.False(t, s.Save(form))
	require.True(t, form.Submitted)
	require.Equal(t, GenericFormErrorKey, form.ErrorKey)
	require.Equal(t, []string{"A"}, names(container))
	f.AssertNotCalled(t, "GetContext")
}

func TestService_SaveDoesNotEnforceUniqueNames(t *testing.T) {
	f := &stubFactory{current: policy.Trigger{Name: "A"}, valid: true, position: 1}
	s := NewService(Config{Factory: f})
	container := named("A")
	s.SetContainer(&container, ModeDefault)

	require.True(t, s.Save(&Form{}))
	require.Equal(t, []string{"A", "A"}, names(container))
}

func TestService_RemoveConfirmedScenario(t *testing.T) {
	gate := &fakeGate{}
	s := NewService(Config{Factory: &stubFactory{}, Gate: gate})
	container := named("A", "B", "C")
	s.SetContainer(&container, ModeTransformation)

	result := s.RemoveAt(context.Background(), 0)
	require.Equal(t, 1, gate.calls)
	require.True(t, s.RemovalPending())
	require.Equal(t, []string{"A", "B", "C"}, names(s.Triggers()), "nothing removed before the answer")

	gate.last().Resolve()
	require.Equal(t, confirm.Confirmed, wait(t, result))
	require.Equal(t, []string{"B", "C"}, names(s.Triggers()))
	require.Equal(t, []string{"B", "C"}, names(container))
	require.False(t, s.RemovalPending())
}

func TestService_RemoveCancelledKeepsContainer(t *testing.T) {
	gate := &fakeGate{}
	s := NewService(Config{Factory: &stubFactory{}, Gate: gate})
	container := named("A", "B", "C")
	s.SetContainer(&container, ModeTransformation)

	result := s.RemoveAt(context.Background(), 1)
	gate.last().Reject()

	require.Equal(t, confirm.Cancelled, wait(t, result))
	require.Equal(t, []string{"A", "B", "C"}, names(s.Triggers()))
	require.False(t, s.RemovalPending())
}

func TestService_RemoveOutOfRangeNeverPrompts(t *testing.T) {
	gate := &fakeGate{}
	s := NewService(Config{Factory: &stubFactory{}, Gate: gate})
	container := named("A")
	s.SetContainer(&container, ModeDefault)

	for _, idx := range []int{-1, 1, 5} {
		result := s.RemoveAt(context.Background(), idx)
		require.Equal(t, confirm.Cancelled, result.Outcome())
	}
	require.Zero(t, gate.calls)
	require.Equal(t, []string{"A"}, names(container))
}

func TestService_RemoveWhilePendingRejected(t *testing.T) {
	gate := &fakeGate{}
	s := NewService(Config{Factory: &stubFactory{}, Gate: gate})
	container := named("A", "B")
	s.SetContainer(&container, ModeDefault)

	first := s.RemoveAt(context.Background(), 0)
	second := s.RemoveAt(context.Background(), 1)
	require.Equal(t, confirm.Cancelled, second.Outcome())
	require.Equal(t, 1, gate.calls)

	gate.last().Resolve()
	require.Equal(t, confirm.Confirmed, wait(t, first))
	require.Equal(t, []string{"B"}, names(container))
}

func TestService_RemoveContextCancelled(t *testing.T) {
	gate := &fakeGate{}
	s := NewService(Config{Factory: &stubFactory{}, Gate: gate})
	container := named("A", "B")
	s.SetContainer(&container, ModeDefault)

	ctx, cancel := context.WithCancel(context.Background())
	result := s.RemoveAt(ctx, 0)
	cancel()

	require.Equal(t, confirm.Cancelled, wait(t, result))
	require.Equal(t, []string{"A", "B"}, names(s.Triggers()))

	// A late confirmation has no effect.
	gate.last().Resolve()
	require.Equal(t, []string{"A", "B"}, names(s.Triggers()))
}

func TestService_RemoveSettlesWithoutLeakingGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	gate := &fakeGate{}
	s := NewService(Config{Factory: &stubFactory{}, Gate: gate})
	container := named("A", "B")
	s.SetContainer(&container, ModeDefault)

	confirmed := s.RemoveAt(context.Background(), 0)
	gate.last().Resolve()
	require.Equal(t, confirm.Confirmed, wait(t, confirmed))

	cancelled := s.RemoveAt(context.Background(), 0)
	gate.last().Reject()
	require.Equal(t, confirm.Cancelled, wait(t, cancelled))
	require.Equal(t, []string{"B"}, names(container))
}

func TestService_RemovePublishesDeleted(t *testing.T) {
	s := NewService(Config{Factory: &stubFactory{}, Gate: autoGate{confirm: true}})
	defer s.Close()
	container := named("A", "B")
	s.SetContainer(&container, ModeDefault)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := s.Broker().Subscribe(ctx)

	require.Equal(t, confirm.Confirmed, wait(t, s.RemoveAt(ctx, 1)))

	select {
	case ev := <-events:
		require.Equal(t, pubsub.DeletedEvent, ev.Type)
		require.Equal(t, 1, ev.Payload.Position)
		require.Equal(t, "B", ev.Payload.Trigger.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for deleted event")
	}
}

func TestService_AddPublishesCreated(t *testing.T) {
	f := &stubFactory{current: policy.Trigger{Name: "N"}, valid: true}
	s := NewService(Config{Factory: f})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := s.Broker().Subscribe(ctx)

	require.True(t, s.Add())
	ev := <-events
	require.Equal(t, pubsub.CreatedEvent, ev.Type)
	require.Equal(t, 0, ev.Payload.Position)
}

func TestService_AddAndSaveSpansNestUnderCaller(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	factory := &stubFactory{current: policy.Trigger{Name: "A"}, valid: true}
	s := NewService(Config{Factory: factory, Gate: autoGate{}, Tracer: tracer})
	container := []policy.Trigger{}
	s.SetContainer(&container, ModeTransformation)

	ctx, parent := tracer.Start(context.Background(), "form.submit")
	require.True(t, s.AddContext(ctx))
	require.True(t, s.SaveContext(ctx, &Form{}))
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	require.Equal(t, tracing.SpanTriggerAdd, spans[0].Name())
	require.Equal(t, tracing.SpanTriggerSave, spans[1].Name())
	for _, span := range spans[:2] {
		require.Equal(t, parent.SpanContext().SpanID(), span.Parent().SpanID())
		require.Equal(t, parent.SpanContext().TraceID(), span.SpanContext().TraceID())
	}

	require.True(t, s.Add())
	root := recorder.Ended()[3]
	require.False(t, root.Parent().IsValid())
}

func TestService_IsNew(t *testing.T) {
	s := NewService(Config{Factory: &stubFactory{}})
	container := named("A", "B")
	s.SetContainer(&container, ModeDefault)

	require.True(t, s.IsNew(2))
	require.True(t, s.IsNew(7))
	require.False(t, s.IsNew(1))
	require.False(t, s.IsNew(0))
}

func TestService_SetContainerNil(t *testing.T) {
	s := NewService(Config{Factory: &stubFactory{}})
	s.SetContainer(nil, ModeTransformation)

	require.Zero(t, s.Len())
	require.Equal(t, ModeTransformation, s.Mode())
	require.True(t, s.IsNew(0))
}

func TestService_ChangeOpenedTrigger(t *testing.T) {
	f := &mockFactory{}
	s := NewService(Config{Factory: f})
	container := named("A", "B")
	s.SetContainer(&container, ModeDefault)

	f.On("SetTrigger", container[1], 1).Return().Once()
	s.ChangeOpenedTrigger(1)

	f.On("ResetTrigger", 2).Return().Once()
	s.ChangeOpenedTrigger(5)

	f.AssertExpectations(t)
}

func TestService_SQLHelp(t *testing.T) {
	ts := []policy.Transformation{
		{Name: "m1", OutputFields: []policy.OutputField{{Name: "a", Type: "string"}, {Name: "b", Type: "int"}}},
		{Name: "m2", OutputFields: []policy.OutputField{{Name: "c", Type: "long"}, {Name: "d", Type: "double"}}},
	}
	deriver := sqlhelp.NewDeriver(staticTransformations(ts), nil)
	s := NewService(Config{Factory: &stubFactory{}, Help: deriver})
	container := named("A")
	s.SetContainer(&container, ModeTransformation)

	require.False(t, s.SQLHelpVisible())
	s.ChangeVisibilityOfHelpForSQL(true)
	require.True(t, s.SQLHelpVisible())

	items := s.SQLHelpItems()
	require.Len(t, items, 1)
	require.Equal(t, sqlhelp.StreamSourceName, items[0].Name)
	require.Len(t, items[0].Fields, 4)
	require.Equal(t, "a", items[0].Fields[0].Name)
	require.Equal(t, "d", items[0].Fields[3].Name)
}

type staticTransformations []policy.Transformation

func (s staticTransformations) Transformations() []policy.Transformation { return s }

func genContainer(t *rapid.T) []policy.Trigger {
	n := rapid.IntRange(0, 8).Draw(t, "len")
	out := make([]policy.Trigger, n)
	for i := range out {
		out[i] = policy.Trigger{Name: rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "name")}
	}
	return out
}

// Property: a valid add appends exactly the candidate; an invalid one is a no-op.
func TestService_AddProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		container := genContainer(t)
		before := names(container)
		valid := rapid.Bool().Draw(t, "valid")
		candidate := policy.Trigger{Name: rapid.StringMatching(`[A-Z]{1,4}`).Draw(t, "candidate")}

		s := NewService(Config{Factory: &stubFactory{current: candidate, valid: valid}})
		s.SetContainer(&container, ModeDefault)

		added := s.Add()
		require.Equal(t, valid, added)
		if valid {
			require.Equal(t, append(before, candidate.Name), names(container))
		} else {
			require.Equal(t, before, names(container))
		}
	})
}

// Property: a confirmed removal drops exactly one element and keeps order;
// a cancelled one leaves the container identical.
func TestService_RemoveProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		container := genContainer(rt)
		if len(container) == 0 {
			container = named("only")
		}
		before := names(container)
		idx := rapid.IntRange(0, len(container)-1).Draw(rt, "index")
		confirmed := rapid.Bool().Draw(rt, "confirmed")

		s := NewService(Config{Factory: &stubFactory{}, Gate: autoGate{confirm: confirmed}})
		s.SetContainer(&container, ModeDefault)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		outcome, err := s.RemoveAt(ctx, idx).Wait(ctx)
		require.NoError(rt, err)

		if confirmed {
			require.Equal(rt, confirm.Confirmed, outcome)
			want := append(append([]string{}, before[:idx]...), before[idx+1:]...)
			require.Equal(rt, want, names(container))
		} else {
			require.Equal(rt, confirm.Cancelled, outcome)
			require.Equal(rt, before, names(container))
		}
		require.False(rt, s.RemovalPending())
	})
}

// Property: IsNew is exactly position >= len.
func TestService_IsNewProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		container := genContainer(t)
		pos := rapid.IntRange(0, 12).Draw(t, "position")

		s := NewService(Config{Factory: &stubFactory{}})
		s.SetContainer(&container, ModeDefault)

		require.Equal(t, pos >= len(container), s.IsNew(pos))
	})
}
