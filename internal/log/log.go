// Package log provides structured logging for policywizard.
// Entries carry a level, a category and key=value fields. Logging is off
// unless --debug or POLICYWIZARD_DEBUG turns it on, since the TUI owns stdout.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/policywizard/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Category groups related log messages.
type Category string

const (
	CatConfig  Category = "config"  // Configuration loading/saving
	CatUI      Category = "ui"      // UI component updates
	CatTrigger Category = "trigger" // Trigger store mutations
	CatConfirm Category = "confirm" // Confirmation prompts
	CatHelp    Category = "help"    // SQL help derivation
	CatPanel   Category = "panel"   // Creation panel activation
	CatWizard  Category = "wizard"  // Session wiring and accordion controller
	CatI18n    Category = "i18n"    // Message catalogs
	CatCache   Category = "cache"
)

const timeLayout = "2006-01-02T15:04:05"

// Logger writes formatted entries and republishes them on a broker.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	closer   io.Closer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

func newLogger(out io.Writer, closer io.Closer, minLevel Level) *Logger {
	return &Logger{
		out:      out,
		closer:   closer,
		enabled:  true,
		minLevel: minLevel,
		broker:   pubsub.NewBroker[string](),
	}
}

var (
	mu            sync.RWMutex
	defaultLogger *Logger
)

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// install replaces the global logger, closing the previous one.
func install(l *Logger) {
	mu.Lock()
	prev := defaultLogger
	defaultLogger = l
	mu.Unlock()
	if prev != nil {
		prev.close()
	}
}

// InitWithTeaLog opens path through tea.LogToFile and makes it the global
// log destination. The returned cleanup closes the file.
func InitWithTeaLog(path string, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, fmt.Errorf("opening debug log %s: %w", path, err)
	}
	l := newLogger(f, f, LevelDebug)
	install(l)
	return l.close, nil
}

// InitWriter points the global logger at w. Tests use it to capture output.
func InitWriter(w io.Writer, minLevel Level) {
	install(newLogger(w, nil, minLevel))
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	current().write(LevelDebug, cat, msg, fields)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	current().write(LevelInfo, cat, msg, fields)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	current().write(LevelWarn, cat, msg, fields)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	current().write(LevelError, cat, msg, fields)
}

// ErrorErr logs at error level with err appended as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	value := "<nil>"
	if err != nil {
		value = err.Error()
	}
	current().write(LevelError, cat, msg, append(fields, "error", value))
}

func (l *Logger) write(level Level, cat Category, msg string, fields []any) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || level < l.minLevel {
		return
	}

	line := formatEntry(time.Now(), level, cat, msg, fields)
	if l.out != nil {
		_, _ = io.WriteString(l.out, line)
	}
	l.broker.Publish(pubsub.CreatedEvent, line)
}

func (l *Logger) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer != nil {
		_ = l.closer.Close()
		l.closer = nil
	}
	l.out = nil
}

// formatEntry renders one line:
//
//	2026-10-19T10:45:00 [INFO] [trigger] trigger added position=2 name=alerts
//
// A trailing key without a value is written as key=<missing>.
func formatEntry(at time.Time, level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", at.Format(timeLayout), level, cat, msg)
	for i := 0; i < len(fields); i += 2 {
		if i+1 == len(fields) {
			fmt.Fprintf(&b, " %v=<missing>", fields[i])
			break
		}
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	b.WriteByte('\n')
	return b.String()
}

// LogEvent is a pubsub event containing a log entry.
type LogEvent = pubsub.Event[string]

// LogListener wraps a continuous listener for log events.
type LogListener = pubsub.ContinuousListener[string]

// NewListener creates a log event listener, or nil when logging is not initialized.
func NewListener(ctx context.Context) *LogListener {
	l := current()
	if l == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, l.broker)
}
