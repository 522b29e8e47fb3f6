package sentry

import (
	"fmt"
	"runtime"
	"time"

	gosentry "github.com/getsentry/sentry-go"
)

// flushTimeout bounds how long a hook invocation may wait on delivery. The
// host runtime is waiting on the verdict.
const flushTimeout = 2 * time.Second

// enabled tracks whether sentry was successfully initialized.
var enabled bool

// Init initializes the Sentry SDK. When telemetryEnabled is false or dsn is
// empty, it no-ops silently and every other function in this package becomes
// a safe no-op.
func Init(version string, telemetryEnabled bool, dsn string) error {
	if !telemetryEnabled || dsn == "" {
		enabled = false
		return nil
	}

	err := gosentry.Init(gosentry.ClientOptions{
		Dsn:              dsn,
		Release:          "reviewgate@" + version,
		AttachStacktrace: true,
		SampleRate:       1.0,
	})
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}

	gosentry.ConfigureScope(func(scope *gosentry.Scope) {
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
		scope.SetTag("go_version", runtime.Version())
		scope.SetTag("version", version)
	})

	enabled = true
	return nil
}

// IsEnabled returns whether sentry is active.
func IsEnabled() bool {
	return enabled
}

// Flush waits up to flushTimeout for buffered events to be sent.
func Flush() {
	if !enabled {
		return
	}
	gosentry.Flush(flushTimeout)
}

// CaptureRecovered reports a value obtained from recover(). Unlike a crash
// reporter it does not re-panic: the gate resolves internal failures as allow.
func CaptureRecovered(r any) {
	if !enabled || r == nil {
		return
	}
	gosentry.CurrentHub().Recover(r)
	gosentry.Flush(flushTimeout)
}

// CaptureError reports a non-fatal error.
func CaptureError(err error) {
	if !enabled || err == nil {
		return
	}
	gosentry.CaptureException(err)
}

// SetContext tags the current scope with the hook invocation.
func SetContext(sessionID, hookEvent, project string) {
	if !enabled {
		return
	}
	gosentry.ConfigureScope(func(scope *gosentry.Scope) {
		scope.SetTag("hook_event", hookEvent)
		scope.SetContext("hook", map[string]interface{}{
			"session_id": sessionID,
			"hook_event": hookEvent,
			"project":    project,
		})
	})
}
