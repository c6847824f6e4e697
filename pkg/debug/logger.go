// Package debug provides leveled logging for engine diagnostics. Loggers
// are only ever used on control threads; the render path stays silent.
package debug

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed diagnostics such as topology edits.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
	// LogLevelOff disables all logging.
	LogLevelOff
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled, timestamped messages to a single writer. All
// methods are safe on a nil receiver, which discards everything; components
// can hold an optional logger without nil checks at every call site.
type Logger struct {
	mu          sync.Mutex
	output      io.Writer
	level       LogLevel
	prefix      string
	includeTime bool
}

// New creates a logger writing to w at the given minimum level.
func New(w io.Writer, level LogLevel) *Logger {
	return &Logger{output: w, level: level, includeTime: true}
}

// SetLevel changes the minimum level that gets written.
func (l *Logger) SetLevel(level LogLevel) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// SetPrefix sets a string prepended to every message.
func (l *Logger) SetPrefix(prefix string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.prefix = prefix
	l.mu.Unlock()
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level || l.output == nil {
		return
	}
	var ts string
	if l.includeTime {
		ts = time.Now().Format("15:04:05.000") + " "
	}
	fmt.Fprintf(l.output, "%s[%s] %s%s\n", ts, level, l.prefix, fmt.Sprintf(format, args...))
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LogLevelDebug, format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LogLevelInfo, format, args...)
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LogLevelWarn, format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LogLevelError, format, args...)
}
