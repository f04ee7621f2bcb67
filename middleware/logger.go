package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// RequestInfo contains information about one action invocation
type RequestInfo struct {
	Command   string
	Args      []string
	Sections  []string
	StartTime time.Time
	Duration  time.Duration
	Error     error
}

// entry kinds written by the logger middleware
const (
	entryStart   = "START"
	entrySuccess = "SUCCESS"
	entryError   = "ERROR"
)

// Logger creates a middleware that logs action invocations to the configured
// output.
func Logger(options ...MiddlewareOption) Middleware {
	config := configure(options)
	return loggerMiddleware(outputWriter(config.LogOutput), config)
}

// LoggerWithWriter creates a logger middleware that writes to a specific writer
func LoggerWithWriter(writer io.Writer, options ...MiddlewareOption) Middleware {
	return loggerMiddleware(writer, configure(options))
}

func loggerMiddleware(writer io.Writer, config *MiddlewareConfig) Middleware {
	emit := func(info *RequestInfo, kind string) {
		if !config.LogLevel.allows(kind) {
			return
		}
		switch {
		case config.LogFormat == LogFormatJSON:
			if writer != nil {
				writeJSONEntry(writer, info, kind, config.IncludeArgs)
			}
		case config.Sink != nil:
			sinkEntry(config, info, kind)
		case writer != nil:
			fmt.Fprintf(writer, "[%s] %s %s\n",
				info.StartTime.Format("2006-01-02 15:04:05"), kind, textFields(info, config.IncludeArgs))
		}
	}

	return func(next ActionFunc) ActionFunc {
		if config.LogLevel == LogLevelNone {
			return next
		}
		return func(ctx Context) error {
			info := &RequestInfo{
				Command:   getCommandName(ctx),
				Args:      ctx.Args(),
				Sections:  ctx.Sections(),
				StartTime: time.Now(),
			}
			emit(info, entryStart)

			err := next(ctx)
			info.Duration = time.Since(info.StartTime)
			info.Error = err

			if err != nil {
				emit(info, entryError)
			} else {
				emit(info, entrySuccess)
			}
			return err
		}
	}
}

// allows reports whether an entry of kind is written at level l
func (l LogLevel) allows(kind string) bool {
	switch kind {
	case entryError:
		return l >= LogLevelError
	case entryStart:
		return l >= LogLevelDebug
	default:
		return l >= LogLevelInfo
	}
}

func outputWriter(output LogOutput) io.Writer {
	switch output {
	case LogOutputStdout:
		return os.Stdout
	case LogOutputNone:
		return nil
	default:
		return os.Stderr
	}
}

// textFields renders the key=value part shared by text and sink output
func textFields(info *RequestInfo, includeArgs bool) string {
	fields := []string{"command=" + info.Command}
	if len(info.Sections) > 0 {
		fields = append(fields, "sections="+strings.Join(info.Sections, ","))
	}
	if info.Duration > 0 {
		fields = append(fields, "duration="+info.Duration.String())
	}
	if includeArgs && len(info.Args) > 0 {
		fields = append(fields, "args="+strings.Join(info.Args, " "))
	}
	if info.Error != nil {
		fields = append(fields, fmt.Sprintf("error=%q", info.Error.Error()))
	}
	return strings.Join(fields, " ")
}

func sinkEntry(config *MiddlewareConfig, info *RequestInfo, kind string) {
	fields := textFields(info, config.IncludeArgs)
	switch kind {
	case entryStart:
		config.Sink.Debug("%s", fields)
	case entryError:
		config.Sink.Error("%s", fields)
	default:
		config.Sink.Success("%s", fields)
	}
}

type jsonEntry struct {
	Timestamp  string   `json:"timestamp"`
	Level      string   `json:"level"`
	Command    string   `json:"command"`
	Sections   []string `json:"sections,omitempty"`
	DurationMS *int64   `json:"duration_ms,omitempty"`
	Args       []string `json:"args,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func writeJSONEntry(writer io.Writer, info *RequestInfo, kind string, includeArgs bool) {
	entry := jsonEntry{
		Timestamp: info.StartTime.Format(time.RFC3339),
		Level:     kind,
		Command:   info.Command,
		Sections:  info.Sections,
	}
	if info.Duration > 0 {
		ms := info.Duration.Milliseconds()
		entry.DurationMS = &ms
	}
	if includeArgs {
		entry.Args = info.Args
	}
	if info.Error != nil {
		entry.Error = info.Error.Error()
	}

	//nolint:errcheck,errchkjson // Logging is best-effort; ignore write errors.
	json.NewEncoder(writer).Encode(entry)
}

// DebugLogger creates a logger with debug level (logs everything)
func DebugLogger() Middleware {
	return Logger(WithLogLevel(LogLevelDebug))
}

// ErrorLogger creates a logger that only logs failed actions
func ErrorLogger() Middleware {
	return Logger(WithLogLevel(LogLevelError))
}

func JSONLogger() Middleware {
	return Logger(WithLogFormat(LogFormatJSON))
}

// SilentLogger creates a logger that writes nothing
func SilentLogger() Middleware {
	return Logger(WithLogOutput(LogOutputNone))
}
