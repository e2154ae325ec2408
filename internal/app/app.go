// Package app contains the root application model.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/policywizard/internal/config"
	"github.com/zjrosen/policywizard/internal/confirm"
	"github.com/zjrosen/policywizard/internal/flags"
	"github.com/zjrosen/policywizard/internal/keys"
	"github.com/zjrosen/policywizard/internal/log"
	"github.com/zjrosen/policywizard/internal/policy"
	"github.com/zjrosen/policywizard/internal/pubsub"
	"github.com/zjrosen/policywizard/internal/trigger"
	"github.com/zjrosen/policywizard/internal/ui/markdown"
	"github.com/zjrosen/policywizard/internal/ui/modal"
	"github.com/zjrosen/policywizard/internal/ui/toaster"
	"github.com/zjrosen/policywizard/internal/wizard"
)

// pane is the accordion that has keyboard focus.
type pane int

const (
	paneModels pane = iota
	paneTriggers
)

// Size used for layout until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// Config holds what the root model needs from the CLI.
type Config struct {
	Policy   *policy.Policy
	Template policy.Template
	UI       config.UIConfig
	Flags    *flags.Registry
	// Translator resolves message keys. Nil shows keys as-is.
	Translator confirm.Translator
	// Tracer records trigger store spans. Nil disables tracing.
	Tracer trace.Tracer
	// DebugMode shows the latest log line in the status bar.
	DebugMode bool
}

// Model is the root application state.
type Model struct {
	session    *wizard.Session
	host       *modalHost
	translator confirm.Translator
	flags      *flags.Registry
	ui         config.UIConfig

	keys     keys.KeyMap
	help     help.Model
	markdown *markdown.Renderer

	focus         pane
	modelCursor   int
	triggerCursor int

	// modal is the open dialog, nil when none.
	modal   *modal.Model
	toaster toaster.Model

	width  int
	height int

	debugMode bool
	lastLog   string

	ctx     context.Context
	cancel  context.CancelFunc
	changes *pubsub.ContinuousListener[trigger.Change]
	logs    *log.LogListener
}

// New creates the root model and initializes the wizard session.
func New(cfg Config) Model {
	host := newModalHost()

	session := wizard.New(wizard.Deps{
		Policy:     cfg.Policy,
		Template:   cfg.Template,
		Opener:     host,
		Translator: cfg.Translator,
		Tracer:     cfg.Tracer,
	})
	session.Init()
	session.Store().ChangeVisibilityOfHelpForSQL(cfg.UI.ShowSQLHelp)

	registry := cfg.Flags
	if registry == nil {
		registry = flags.New(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var logs *log.LogListener
	if cfg.DebugMode {
		logs = log.NewListener(ctx)
	}

	focus := paneTriggers
	if session.Panels().ModelCreationVisible() {
		focus = paneModels
	}

	return Model{
		session:    session,
		host:       host,
		translator: cfg.Translator,
		flags:      registry,
		ui:         cfg.UI,
		keys:       keys.DefaultKeyMap(),
		help:       help.New(),
		focus:      focus,
		toaster:    toaster.New(),
		width:      defaultWidth,
		height:     defaultHeight,
		debugMode:  cfg.DebugMode,
		ctx:        ctx,
		cancel:     cancel,
		changes:    pubsub.NewContinuousListener(ctx, session.Store().Broker()),
		logs:       logs,
	}
}

// Init implements tea.Model. It starts listening for trigger store changes
// and, in debug mode, for log entries.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.changes.Listen(), m.logs.Listen())
}

// Session returns the wizard session driven by the model.
func (m Model) Session() *wizard.Session {
	return m.session
}

// Close rejects any open confirmation and stops the listeners.
func (m *Model) Close() error {
	m.host.close()
	m.cancel()
	m.session.Close()
	log.Debug(log.CatUI, "app closed", "session", m.session.ID())
	return nil
}

func (m Model) translate(key string) string {
	if m.translator == nil {
		return key
	}
	return m.translator.Translate(key)
}

// removalSettledMsg reports how a removal confirmation ended.
type removalSettledMsg struct {
	outcome confirm.Outcome
}

// waitRemoval blocks a command goroutine until res settles.
func waitRemoval(res *confirm.Result) tea.Cmd {
	return func() tea.Msg {
		<-res.Done()
		return removalSettledMsg{outcome: res.Outcome()}
	}
}
