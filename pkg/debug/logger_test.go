package debug

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	t.Run("BasicLogging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, LogLevelDebug)
		logger.SetPrefix("graph: ")

		logger.Infof("hello %s", "world")

		output := buf.String()
		if !strings.Contains(output, "[INFO]") {
			t.Error("missing log level")
		}
		if !strings.Contains(output, "graph: ") {
			t.Error("missing prefix")
		}
		if !strings.Contains(output, "hello world") {
			t.Error("missing message")
		}
	})

	t.Run("LevelFiltering", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, LogLevelDebug)
		logger.SetLevel(LogLevelWarn)

		logger.Debugf("debug message")
		logger.Infof("info message")
		logger.Warnf("warn message")
		logger.Errorf("error message")

		output := buf.String()
		if strings.Contains(output, "debug message") {
			t.Error("debug message should be filtered")
		}
		if strings.Contains(output, "info message") {
			t.Error("info message should be filtered")
		}
		if !strings.Contains(output, "warn message") {
			t.Error("warn message should be logged")
		}
		if !strings.Contains(output, "error message") {
			t.Error("error message should be logged")
		}
	})

	t.Run("Off", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, LogLevelOff)

		logger.Errorf("should not appear")

		if buf.Len() > 0 {
			t.Errorf("disabled logger wrote %q", buf.String())
		}
	})

	t.Run("NilReceiver", func(t *testing.T) {
		var logger *Logger
		logger.SetLevel(LogLevelDebug)
		logger.SetPrefix("x")
		logger.Debugf("no panic expected")
		logger.Errorf("still fine")
	})
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}
	for _, test := range tests {
		if got := test.level.String(); got != test.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", test.level, got, test.want)
		}
	}
}
