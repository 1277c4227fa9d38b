package logger

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
)

type watermillAdapter struct {
	l *slog.Logger
}

// Watermill exposes the logger as a watermill.LoggerAdapter
func (l *Logger) Watermill() watermill.LoggerAdapter {
	return &watermillAdapter{l: l.Logger.With(slog.String("component", "watermill"))}
}

func (a *watermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	args := toAttrs(fields)
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	a.l.Error(msg, args...)
}

func (a *watermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.l.Info(msg, toAttrs(fields)...)
}

func (a *watermillAdapter) Debug(msg string, fields watermill.LogFields) {
	a.l.Debug(msg, toAttrs(fields)...)
}

func (a *watermillAdapter) Trace(msg string, fields watermill.LogFields) {
	a.l.Debug(msg, toAttrs(fields)...)
}

func (a *watermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillAdapter{l: a.l.With(toAttrs(fields)...)}
}

func toAttrs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return args
}
