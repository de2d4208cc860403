// Package logging builds the component loggers shared by the CLI, server and
// viewer.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
)

// New creates a logger for the named component writing to stderr.
func New(component string, level logrus.Level) *logrus.Entry {
	return NewTo(os.Stderr, component, level)
}

// NewTo is New with an explicit writer.
func NewTo(w io.Writer, component string, level logrus.Level) *logrus.Entry {
	l := &logrus.Logger{
		Out: w,
		Formatter: &CallerFormatter{
			TextFormatter: logrus.TextFormatter{
				FullTimestamp:    true,
				CallerPrettyfier: func(*runtime.Frame) (string, string) { return "", "" },
			},
		},
		Hooks:        make(logrus.LevelHooks),
		Level:        level,
		ReportCaller: level >= logrus.DebugLevel,
		ExitFunc:     os.Exit,
	}
	return l.WithField("component", component)
}

// ParseLevel wraps logrus.ParseLevel with a friendlier error.
func ParseLevel(s string) (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

// Discard returns a logger that drops everything.
func Discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return Discard()
	}
	return l
}

// CallerFormatter prefixes messages with the calling file and line when the
// entry carries caller information.
type CallerFormatter struct {
	logrus.TextFormatter
}

// Format renders a single log entry.
func (f *CallerFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry.HasCaller() {
		entry.Message = fmt.Sprintf("[%-15s:%03d] %s", path.Base(entry.Caller.File), entry.Caller.Line, entry.Message)
	}
	return f.TextFormatter.Format(entry)
}
