package middleware

import (
	"fmt"
	"os"
	"runtime"
)

// PanicHandler turns a recovered panic into the error returned by the action.
// stack is nil when stack traces are disabled.
type PanicHandler func(panicVal any, command string, stack []byte) error

// Recovery creates a middleware that turns a panic in a deferred action into
// a *RecoveryError. With stack traces enabled (the default) the panic is also
// reported through the sink, or to stderr when none is set.
func Recovery(options ...MiddlewareOption) Middleware {
	config := configure(options)
	return recoverWith(config, func(ctx Context, panicVal any, stack []byte) error {
		rerr := &RecoveryError{Panic: panicVal, Command: getCommandName(ctx), Stack: stack}
		if ctx != nil {
			rerr.Sections = ctx.Sections()
		}
		if len(stack) > 0 {
			reportPanic(config, rerr)
		}
		return rerr
	})
}

// RecoveryWithHandler creates a recovery middleware that delegates to handler
func RecoveryWithHandler(handler PanicHandler, options ...MiddlewareOption) Middleware {
	return recoverWith(configure(options), func(ctx Context, panicVal any, stack []byte) error {
		return handler(panicVal, getCommandName(ctx), stack)
	})
}

// RecoveryToError converts panics to errors without reporting them
func RecoveryToError() Middleware {
	return Recovery(WithStackTrace(false))
}

// NoopRecovery lets panics propagate
func NoopRecovery() Middleware {
	return func(next ActionFunc) ActionFunc {
		return next
	}
}

func recoverWith(config *MiddlewareConfig, convert func(ctx Context, panicVal any, stack []byte) error) Middleware {
	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = convert(ctx, r, captureStack(config))
				}
			}()
			return next(ctx)
		}
	}
}

func captureStack(config *MiddlewareConfig) []byte {
	if !config.PrintStack || config.StackSize <= 0 {
		return nil
	}
	buf := make([]byte, config.StackSize)
	return buf[:runtime.Stack(buf, false)]
}

func reportPanic(config *MiddlewareConfig, e *RecoveryError) {
	if config.Sink != nil {
		config.Sink.Error("%s (sections %v)\n%s", e.Error(), e.Sections, e.Stack)
		return
	}
	fmt.Fprintf(os.Stderr, "%s (sections %v)\nstack trace:\n%s\n", e.Error(), e.Sections, e.Stack)
}
