// Package logger provides a simple logging interface for zbxboard components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation. The default
// implementation writes structured zerolog records.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DebugEnv enables debug output for loggers created with NewEnvLogger.
const DebugEnv = "ZBXBOARD_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Options configures a zerolog-backed logger.
type Options struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error").
	// Empty means info.
	Level string

	// Output receives JSON lines. Nil means stderr.
	Output io.Writer

	// Component is attached to every record as the "component" field.
	Component string

	// RunID is attached as the "run" field. Empty generates a fresh UUID.
	RunID string
}

// zeroLogger implements Logger on top of zerolog.
type zeroLogger struct {
	zl zerolog.Logger
}

// New creates a structured logger from opts.
func New(opts Options) (Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("unknown log level %q", opts.Level)
		}
		level = parsed
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp().Str("run", runID)
	if opts.Component != "" {
		ctx = ctx.Str("component", opts.Component)
	}
	return &zeroLogger{zl: ctx.Logger()}, nil
}

func (l *zeroLogger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *zeroLogger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

func (l *zeroLogger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *zeroLogger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// Component returns a child of l tagged with the given component name.
// Loggers that don't carry fields are returned unchanged.
func Component(l Logger, name string) Logger {
	if z, ok := l.(*zeroLogger); ok {
		return &zeroLogger{zl: z.zl.With().Str("component", name).Logger()}
	}
	return l
}

// envOutput is where NewEnvLogger writes. Swapped in tests.
var envOutput io.Writer = os.Stderr

// NewEnvLogger creates a logger that respects the ZBXBOARD_DEBUG environment variable.
// The component is attached to all records (e.g., "board" or "zabbix").
func NewEnvLogger(component string) Logger {
	level := zerolog.InfoLevel
	if os.Getenv(DebugEnv) != "" {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(envOutput).Level(level).With().Timestamp()
	if component != "" {
		zl = zl.Str("component", component)
	}
	return &zeroLogger{zl: zl.Logger()}
}

// noopLogger implements Logger but discards all messages.
// Useful for testing or when logging is not desired.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
	Time    time.Time
}

// BufferLogger captures log messages for testing.
// Safe for use from the adapter goroutines as well as the test goroutine.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...), Time: time.Now()})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.add("debug", format, args...)
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.add("info", format, args...)
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.add("warn", format, args...)
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.add("error", format, args...)
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Contains returns true if any message at level contains substr.
func (l *BufferLogger) Contains(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level && strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the captured messages.
func (l *BufferLogger) Snapshot() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.Messages))
	copy(out, l.Messages)
	return out
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

// defaultLogger is the package-level default logger.
var defaultLogger = NewEnvLogger("")

// Default returns the default logger for the package.
func Default() Logger {
	return defaultLogger
}

// SetDefault sets the default logger for the package.
func SetDefault(l Logger) {
	defaultLogger = l
}
