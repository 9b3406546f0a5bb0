// Package logging provides structured logging hooks.
package logging

import (
	"encoding/json"
	"io"
	"log"
)

// Logger provides leveled, categorized logging hooks.
type Logger interface {
	Info(category, msg string, fields map[string]any)
	Warn(category, msg string, fields map[string]any)
	Error(category, msg string, fields map[string]any)
	Security(category, msg string, fields map[string]any)
}

// StdLogger logs JSON lines to an io.Writer.
type StdLogger struct {
	l *log.Logger
}

// NewStdLogger constructs a StdLogger.
func NewStdLogger(w io.Writer) *StdLogger {
	return &StdLogger{l: log.New(w, "", log.LstdFlags)}
}

// Info logs an info message.
func (s *StdLogger) Info(category, msg string, fields map[string]any) {
	s.log("info", category, msg, fields)
}

// Warn logs a warning message.
func (s *StdLogger) Warn(category, msg string, fields map[string]any) {
	s.log("warn", category, msg, fields)
}

// Error logs an error message.
func (s *StdLogger) Error(category, msg string, fields map[string]any) {
	s.log("error", category, msg, fields)
}

// Security logs a security event. Security events share the error
// severity but keep their own level label for anomaly review.
func (s *StdLogger) Security(category, msg string, fields map[string]any) {
	s.log("security", category, msg, fields)
}

func (s *StdLogger) log(level, category, msg string, fields map[string]any) {
	if s == nil || s.l == nil {
		return
	}
	payload := map[string]any{
		"level":    level,
		"category": category,
		"msg":      msg,
	}
	for key, value := range fields {
		payload[key] = value
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.l.Println(msg)
		return
	}
	s.l.Println(string(data))
}

// NopLogger discards all log output.
type NopLogger struct{}

// Info discards the message.
func (NopLogger) Info(category, msg string, fields map[string]any) {}

// Warn discards the message.
func (NopLogger) Warn(category, msg string, fields map[string]any) {}

// Error discards the message.
func (NopLogger) Error(category, msg string, fields map[string]any) {}

// Security discards the message.
func (NopLogger) Security(category, msg string, fields map[string]any) {}
