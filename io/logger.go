package cliio

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

var levelNames = [...]string{
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelSuccess: "SUCCESS",
	LevelWarning: "WARN",
	LevelError:   "ERROR",
}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// LogFormat selects the prefix written before each message
type LogFormat int

const (
	LogFormatCircles LogFormat = iota // 🟣 🔵 🟢 🟡 🔴
	LogFormatSymbols                  // ● ◆ ✓ ▲ ✗
	LogFormatTagged                   // [DEBUG] [INFO] [SUCCESS] [WARN] [ERROR]
	LogFormatPlain                    // no prefix
)

var formatNames = map[string]LogFormat{
	"":        LogFormatCircles,
	"circles": LogFormatCircles,
	"symbols": LogFormatSymbols,
	"tagged":  LogFormatTagged,
	"plain":   LogFormatPlain,
}

// ParseLogFormat maps a format name (circles, symbols, tagged, plain) to a
// LogFormat. The empty name selects circles.
func ParseLogFormat(name string) (LogFormat, bool) {
	f, ok := formatNames[strings.ToLower(name)]
	return f, ok
}

func prefixesFor(format LogFormat) map[LogLevel]string {
	switch format {
	case LogFormatCircles:
		return map[LogLevel]string{
			LevelDebug: "🟣", LevelInfo: "🔵", LevelSuccess: "🟢", LevelWarning: "🟡", LevelError: "🔴",
		}
	case LogFormatSymbols:
		return map[LogLevel]string{
			LevelDebug: "●", LevelInfo: "◆", LevelSuccess: "✓", LevelWarning: "▲", LevelError: "✗",
		}
	case LogFormatTagged:
		p := make(map[LogLevel]string, len(levelNames))
		for level, name := range levelNames {
			p[LogLevel(level)] = "[" + name + "]"
		}
		return p
	default:
		return map[LogLevel]string{}
	}
}

// Theme maps each level to the colour attributes applied to its lines
type Theme map[LogLevel][]color.Attribute

// DefaultTheme colours debug magenta, info blue, success green, warnings
// yellow and errors bold red.
func DefaultTheme() Theme {
	return Theme{
		LevelDebug:   {color.FgMagenta},
		LevelInfo:    {color.FgBlue},
		LevelSuccess: {color.FgGreen},
		LevelWarning: {color.FgYellow},
		LevelError:   {color.FgRed, color.Bold},
	}
}

// Logger writes leveled, prefixed and coloured lines through an IOManager.
// It is safe for concurrent use once configured.
type Logger struct {
	io           *IOManager
	format       LogFormat
	prefixes     map[LogLevel]string
	theme        Theme
	minLevel     LogLevel
	withTime     bool
	timeFormat   string
	errorsStderr bool

	mu sync.Mutex
}

// NewLogger creates a logger using circle prefixes that writes info and
// above, sending warnings and errors to the error stream.
func NewLogger(io *IOManager) *Logger {
	return &Logger{
		io:           io,
		format:       LogFormatCircles,
		prefixes:     prefixesFor(LogFormatCircles),
		theme:        DefaultTheme(),
		minLevel:     LevelInfo,
		timeFormat:   "15:04:05",
		errorsStderr: true,
	}
}

// WithFormat switches the prefix style, discarding custom prefixes
func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	l.prefixes = prefixesFor(format)
	return l
}

// SetPrefix overrides the prefix of one level
func (l *Logger) SetPrefix(level LogLevel, prefix string) *Logger {
	l.prefixes[level] = prefix
	return l
}

func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.withTime = enabled
	return l
}

// WithTimeFormat sets the time layout used by WithTimestamp
func (l *Logger) WithTimeFormat(layout string) *Logger {
	l.timeFormat = layout
	return l
}

// ErrorsToStderr controls whether errors and warnings go to the error stream
func (l *Logger) ErrorsToStderr(enabled bool) *Logger {
	l.errorsStderr = enabled
	return l
}

func (l *Logger) WithTheme(theme Theme) *Logger {
	l.theme = theme
	return l
}

// WithLevel sets the minimum level that is written
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.minLevel = level
	return l
}

// Enabled reports whether messages at level are written
func (l *Logger) Enabled(level LogLevel) bool {
	return level >= l.minLevel
}

// Log writes one line at level. Blank messages are written unchanged.
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	line := l.render(level, fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.writerFor(level), line)
}

func (l *Logger) render(level LogLevel, msg string) string {
	if strings.TrimSpace(msg) == "" {
		return msg
	}

	parts := make([]string, 0, 3)
	if p := l.prefixes[level]; p != "" {
		parts = append(parts, p)
	}
	if l.withTime {
		ts := time.Now().Format(l.timeFormat)
		if len(parts) > 0 {
			ts = "[" + ts + "]"
		}
		parts = append(parts, ts)
	}
	parts = append(parts, msg)
	line := strings.Join(parts, " ")

	if attrs := l.theme[level]; len(attrs) > 0 {
		return l.io.Paint(line, attrs...)
	}
	return line
}

func (l *Logger) writerFor(level LogLevel) io.Writer {
	if l.errorsStderr && level >= LevelWarning {
		return l.io.Err()
	}
	return l.io.Out()
}

func (l *Logger) Debug(format string, args ...any) { l.Log(LevelDebug, format, args...) }

func (l *Logger) Info(format string, args ...any) { l.Log(LevelInfo, format, args...) }

func (l *Logger) Success(format string, args ...any) { l.Log(LevelSuccess, format, args...) }

func (l *Logger) Warning(format string, args ...any) { l.Log(LevelWarning, format, args...) }

func (l *Logger) Error(format string, args ...any) { l.Log(LevelError, format, args...) }
