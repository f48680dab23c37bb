// Package logger provides structured logging with Sentry breadcrumbs.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/getsentry/sentry-go"
)

// Fields represents structured log fields.
type Fields map[string]interface{}

// Logger writes leveled log lines and mirrors them to Sentry when a client is bound.
type Logger struct {
	out   *log.Logger
	hub   *sentry.Hub
	debug bool
}

// Options configures a Logger.
type Options struct {
	Output io.Writer
	Hub    *sentry.Hub // nil uses sentry.CurrentHub()
	Debug  bool
}

// New creates a Logger.
func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	hub := opts.Hub
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &Logger{
		out:   log.New(out, "", log.LstdFlags),
		hub:   hub,
		debug: opts.Debug,
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{out: log.New(io.Discard, "", 0)}
}

// Info logs an informational message with structured fields.
func (l *Logger) Info(msg string, fields Fields) {
	l.out.Printf("[INFO] %s%s", msg, formatFields(fields))
	l.breadcrumb("info", sentry.LevelInfo, msg, fields)
}

// Warn logs a warning message with structured fields.
func (l *Logger) Warn(msg string, fields Fields) {
	l.out.Printf("[WARN] %s%s", msg, formatFields(fields))
	l.breadcrumb("warning", sentry.LevelWarning, msg, fields)
}

// Debug logs a debug message. Output is suppressed unless debug is enabled.
func (l *Logger) Debug(msg string, fields Fields) {
	if !l.debug {
		return
	}
	l.out.Printf("[DEBUG] %s%s", msg, formatFields(fields))
	l.breadcrumb("debug", sentry.LevelDebug, msg, fields)
}

// Error logs an error message with structured fields and sends it to Sentry.
func (l *Logger) Error(msg string, err error, fields Fields) {
	l.out.Printf("[ERROR] %s: %v%s", msg, err, formatFields(fields))

	if !l.sentryEnabled() || err == nil {
		return
	}
	l.hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range fields {
			scope.SetContext(key, map[string]interface{}{"value": value})
		}
		if op, ok := fields["operation"].(string); ok {
			scope.SetTag("operation", op)
		}
		if model, ok := fields["model"].(string); ok {
			scope.SetTag("model", model)
		}
		l.hub.CaptureException(err)
	})
}

func (l *Logger) sentryEnabled() bool {
	return l.hub != nil && l.hub.Client() != nil
}

func (l *Logger) breadcrumb(kind string, level sentry.Level, msg string, fields Fields) {
	if !l.sentryEnabled() {
		return
	}
	l.hub.AddBreadcrumb(&sentry.Breadcrumb{
		Type:     kind,
		Category: "log",
		Message:  msg,
		Data:     map[string]interface{}(fields),
		Level:    level,
	}, nil)
}

// formatFields renders fields as " key=value" pairs in key order.
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}
