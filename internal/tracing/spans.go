package tracing

// Span names for trigger store operations.
const (
	SpanTriggerAdd    = "trigger.add"
	SpanTriggerSave   = "trigger.save"
	SpanTriggerRemove = "trigger.remove"
)

// Span attribute keys.
const (
	AttrSessionID       = "wizard.session.id"
	AttrTriggerName     = "trigger.name"
	AttrTriggerPosition = "trigger.position"
	AttrTriggerValid    = "trigger.valid"
	AttrContainerLen    = "trigger.container.len"
	AttrContainerMode   = "trigger.container.mode"
	AttrOutcome         = "confirm.outcome"
)

// Span events.
const (
	EventConfirmRequested = "confirm.requested"
	EventConfirmSettled   = "confirm.settled"
)
