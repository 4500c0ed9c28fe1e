// Package logging holds the process-wide logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// SetLevel sets the level of Log. Trace and panic are not offered.
func SetLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		Log.SetLevel(logrus.DebugLevel)
	case "info":
		Log.SetLevel(logrus.InfoLevel)
	case "warning", "warn", "":
		Log.SetLevel(logrus.WarnLevel)
	case "error":
		Log.SetLevel(logrus.ErrorLevel)
	default:
		return fmt.Errorf("bad log level %q: want debug, info, warn or error", level)
	}
	return nil
}

// SetOutput redirects Log, normally to the command's stderr.
func SetOutput(w io.Writer) {
	Log.SetOutput(w)
}

// Discard returns a logger that drops everything, for library callers that
// pass no logger of their own.
func Discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
