// Package middleware wraps the deferred actions built by cmdparse with
// logging, panic recovery and validation.
package middleware

import (
	"fmt"

	cliio "github.com/RomanAgeev/CommandParser/io"
)

// Context is the view of a matched invocation that middleware sees.
// cmdparse implements it; this package never imports cmdparse.
type Context interface {
	// Command returns the name of the matched command.
	Command() string

	// Args returns the matched tokens. Callers must not modify the slice.
	Args() []string

	// Sections returns the names of the matched sections in match order.
	Sections() []string

	// Has reports whether the named section matched.
	Has(section string) bool

	// Present reports whether a parameter of a matched section holds a
	// value. Parameters whose token failed conversion are not present.
	Present(section, param string) bool

	// Set and Get carry per-invocation metadata between middleware. Keys
	// should be namespaced, e.g. "logger.request_id"; Get returns nil for
	// unknown keys.
	Set(key string, value any)
	Get(key string) any
}

// ActionFunc is a deferred action seen through its Context
type ActionFunc func(ctx Context) error

// Middleware wraps an ActionFunc
type Middleware func(next ActionFunc) ActionFunc

// MiddlewareChain is an ordered list of middleware; the first entry is the
// outermost wrapper.
type MiddlewareChain []Middleware

// Chain creates a chain from middleware in the given order
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// Apply wraps action with every middleware of the chain
func (chain MiddlewareChain) Apply(action ActionFunc) ActionFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		action = chain[i](action)
	}
	return action
}

// Use returns a new chain with middleware appended. The receiver is never
// modified, so one base chain can be extended in several directions.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	out := make(MiddlewareChain, 0, len(chain)+len(middleware))
	out = append(out, chain...)
	return append(out, middleware...)
}

// ValidationError is returned when a validator rejects an invocation.
// Section and Param name the offending input when known.
type ValidationError struct {
	Section string
	Param   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// RecoveryError reports a panic raised by a deferred action
type RecoveryError struct {
	Panic    any
	Command  string
	Sections []string // matched sections of the panicking invocation
	Stack    []byte
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("command '%s' panicked: %s", e.Command, toString(e.Panic))
}

type (
	// LogLevel filters logger middleware entries
	LogLevel int
	// LogOutput picks the stream of Logger when no writer is given
	LogOutput int
	// LogFormat selects text or JSON entries
	LogFormat int
)

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

const (
	LogOutputStderr LogOutput = iota
	LogOutputStdout
	LogOutputNone
)

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// MiddlewareConfig is shared by every middleware constructor in this package.
// Each constructor reads only the fields it needs.
type MiddlewareConfig struct {
	LogLevel    LogLevel
	LogOutput   LogOutput
	LogFormat   LogFormat
	Sink        *cliio.Logger // text entries and panic reports go here when set
	IncludeArgs bool
	PrintStack  bool
	StackSize   int

	CustomValidators map[string]ValidatorFunc
}

// MiddlewareOption configures a MiddlewareConfig
type MiddlewareOption func(config *MiddlewareConfig)

// DefaultConfig logs info entries as text to stderr, including the matched
// tokens, and captures up to 4 KiB of stack on panic.
func DefaultConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LogLevel:         LogLevelInfo,
		LogOutput:        LogOutputStderr,
		LogFormat:        LogFormatText,
		IncludeArgs:      true,
		PrintStack:       true,
		StackSize:        4 << 10,
		CustomValidators: make(map[string]ValidatorFunc),
	}
}

func configure(options []MiddlewareOption) *MiddlewareConfig {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return config
}

func WithLogLevel(level LogLevel) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.LogLevel = level }
}

func WithLogFormat(format LogFormat) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.LogFormat = format }
}

// WithLogOutput selects the stream used by Logger
func WithLogOutput(output LogOutput) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.LogOutput = output }
}

// WithArgs controls whether log entries include the matched tokens
func WithArgs(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.IncludeArgs = enabled }
}

// WithSink routes text log entries and panic reports through a cliio.Logger
// so they share its prefixes and colours.
func WithSink(logger *cliio.Logger) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.Sink = logger }
}

func WithStackTrace(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.PrintStack = enabled }
}

// WithStackSize bounds the captured stack, in bytes
func WithStackSize(size int) MiddlewareOption {
	return func(config *MiddlewareConfig) { config.StackSize = size }
}

func toString(v any) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}

func getCommandName(ctx Context) string {
	if ctx == nil || ctx.Command() == "" {
		return "unknown"
	}
	return ctx.Command()
}
