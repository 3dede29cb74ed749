package logger

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// Package logger is a thin wrapper around logrus' standard logger.
//
// It is meant to be imported as `log`, so the CLI, the worker and the bootstrap
// code share one backend configured once via pkg/bootstrap.

type Fields = log.Fields
type Entry = log.Entry
type Logger = log.Logger
type Level = log.Level
type Hook = log.Hook

const (
	ErrorLevel = log.ErrorLevel
	WarnLevel  = log.WarnLevel
	InfoLevel  = log.InfoLevel
	DebugLevel = log.DebugLevel
)

// Field names shared by every component that logs a recoded error.
const (
	FieldEventID  = "event_id"
	FieldCode     = "error_code"
	FieldShape    = "error_shape"
	FieldSeverity = "severity"
	FieldTopic    = "topic"
	FieldTraceID  = "trace_id"
)

func StandardLogger() *Logger { return log.StandardLogger() }

func SetLevel(level Level)                   { log.SetLevel(level) }
func ParseLevel(level string) (Level, error) { return log.ParseLevel(level) }
func SetOutput(out io.Writer)                { log.SetOutput(out) }

func WithField(key string, value any) *Entry { return log.WithField(key, value) }
func WithFields(fields Fields) *Entry        { return log.WithFields(fields) }
func WithError(err error) *Entry             { return log.WithError(err) }

// WithTrace binds ctx and adds "trace_id" when an OpenTelemetry span context is present.
func WithTrace(ctx context.Context) *Entry {
	e := log.WithContext(ctx)
	if ctx == nil {
		return e
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		e = e.WithField(FieldTraceID, sc.TraceID().String())
	}
	return e
}

// WithEvent is WithTrace plus the event id.
func WithEvent(ctx context.Context, eventID string) *Entry {
	return WithTrace(ctx).WithField(FieldEventID, eventID)
}

func Debug(args ...any) { log.Debug(args...) }
func Info(args ...any)  { log.Info(args...) }
func Warn(args ...any)  { log.Warn(args...) }
func Error(args ...any) { log.Error(args...) }

func Debugf(format string, args ...any) { log.Debugf(format, args...) }
func Infof(format string, args ...any)  { log.Infof(format, args...) }
func Warnf(format string, args ...any)  { log.Warnf(format, args...) }
func Errorf(format string, args ...any) { log.Errorf(format, args...) }
