// Package logger wraps a process-wide charmbracelet/log logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the shared logger instance.
var Logger = newLogger(os.Stderr, log.InfoLevel, log.TextFormatter)

func newLogger(w io.Writer, level log.Level, formatter log.Formatter) *log.Logger {
	l := log.New(w)
	l.SetReportTimestamp(true)
	l.SetLevel(level)
	l.SetFormatter(formatter)
	return l
}

// Configure replaces the shared logger. Unknown levels fall back to info and
// unknown formats to text.
func Configure(w io.Writer, level, format string) {
	if w == nil {
		w = os.Stderr
	}
	Logger = newLogger(w, parseLevel(level), parseFormat(format))
}

func parseLevel(level string) log.Level {
	l, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return l
}

func parseFormat(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// With returns a child logger carrying the given key-value pairs.
func With(keyvals ...interface{}) *log.Logger {
	return Logger.With(keyvals...)
}

func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// Fatal logs and exits the process with status 1.
func Fatal(msg interface{}, keyvals ...interface{}) {
	Logger.Fatal(msg, keyvals...)
}
