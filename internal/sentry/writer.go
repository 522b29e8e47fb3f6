package sentry

import (
	"io"
	"strings"

	gosentry "github.com/getsentry/sentry-go"
)

// Level represents the severity level for the sentry writer.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) sentryLevel() gosentry.Level {
	switch l {
	case LevelError:
		return gosentry.LevelError
	case LevelWarning:
		return gosentry.LevelWarning
	default:
		return gosentry.LevelInfo
	}
}

// Writer wraps an io.Writer and forwards log lines to Sentry.
// Errors become Sentry events; warnings and info become breadcrumbs.
type Writer struct {
	inner io.Writer
	level Level
}

// NewWriter creates a Writer that tees to inner and forwards to Sentry.
func NewWriter(inner io.Writer, level Level) *Writer {
	return &Writer{inner: inner, level: level}
}

func (w *Writer) Write(p []byte) (int, error) {
	// The local log always gets the line, even if forwarding is off.
	n, err := w.inner.Write(p)

	if !enabled {
		return n, err
	}

	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return n, err
	}

	if w.level == LevelError {
		gosentry.CaptureMessage(msg)
		return n, err
	}
	gosentry.AddBreadcrumb(&gosentry.Breadcrumb{
		Level:    w.level.sentryLevel(),
		Category: "gate",
		Message:  msg,
	})
	return n, err
}
