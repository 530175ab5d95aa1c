package log

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Options is a function type that can be used to configure the logger
type Options func(*Logger)

// WithLevel configures the log level. If level is not specified, default to InfoLevel
// If level is debug or trace, report caller is enabled
func WithLevel(level string) Options {
	return func(l *Logger) {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		l.SetLevel(lvl)
		formatter := &logrus.TextFormatter{
			FullTimestamp:          false,
			DisableLevelTruncation: true,
			ForceColors:            true,
			PadLevelText:           false,
			DisableColors:          false,
		}

		if lvl == logrus.DebugLevel || lvl == logrus.TraceLevel {
			formatter = &logrus.TextFormatter{
				TimestampFormat: time.RFC3339,
				FullTimestamp:   true,
				CallerPrettyfier: func(f *runtime.Frame) (string, string) {
					return fmt.Sprintf("func: %s : ", formatFilePath(f.Function, 1)), fmt.Sprintf(" src: %s:%d -", formatFilePath(f.File, 2), f.Line)
				},
			}
			l.SetReportCaller(true)
		}
		l.SetFormatter(formatter)
	}
}

// WithOutput configures the output destination
func WithOutput(output io.Writer) Options {
	return func(l *Logger) {
		l.SetOutput(output)
	}
}

// WithFormatter configures the log formatter
func WithFormatter(formatter logrus.Formatter) Options {
	return func(l *Logger) {
		l.SetFormatter(formatter)
	}
}

// WithReportCaller configures the log to report caller
func WithReportCaller(reportCaller bool) Options {
	return func(l *Logger) {
		l.SetReportCaller(reportCaller)
	}
}

// WithNullLogger sets the logger to discard all output
func WithNullLogger() Options {
	return func(l *Logger) {
		l.SetOutput(io.Discard)
	}
}

// NewNullLogger returns a logger that discards everything. Tests use it.
func NewNullLogger() *Logger {
	return New(WithNullLogger())
}

// formatFilePath receives a string representing a path and returns the last part of it
// The 2nd argument indicates the number of parts to return
func formatFilePath(path string, parts int) string {
	arr := strings.Split(path, "/")
	if parts > len(arr) {
		parts = len(arr)
	}
	return strings.Join(arr[len(arr)-parts:], "/")
}
