package hook

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kastheco/reviewgate/config/auditlog"
	"github.com/kastheco/reviewgate/internal/gate"
	sentrypkg "github.com/kastheco/reviewgate/internal/sentry"
	"github.com/kastheco/reviewgate/log"
)

// Options wires the hook to its environment.
type Options struct {
	Stdin  io.Reader
	Stderr io.Writer
	// Audit receives one event per invocation. Nil means no auditing.
	Audit auditlog.Logger
	// ReadFile loads the transcript; defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
}

// Result is the outcome of one hook invocation.
type Result struct {
	Input   Input
	Verdict gate.Verdict
}

// Run executes one Stop hook invocation and returns the process exit code.
// Every failure resolves to an allow.
func Run(ctx context.Context, opts Options) (code int) {
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.Audit == nil {
		opts.Audit = auditlog.NopLogger()
	}
	if opts.ReadFile == nil {
		opts.ReadFile = os.ReadFile
	}

	defer func() {
		if r := recover(); r != nil {
			log.ErrorLog.Printf("recovered panic in review gate: %v", r)
			sentrypkg.CaptureRecovered(r)
			code = gate.ExitAllow
		}
	}()

	res := Evaluate(ctx, opts)
	record(opts.Audit, res)

	v := res.Verdict
	if v.Message != "" {
		fmt.Fprintln(opts.Stderr, v.Message)
	}
	return v.ExitCode()
}

// Evaluate reads the input and transcript and computes the verdict without
// touching stderr or the audit log.
func Evaluate(ctx context.Context, opts Options) Result {
	if opts.ReadFile == nil {
		opts.ReadFile = os.ReadFile
	}

	in, err := ReadInput(opts.Stdin)
	if err != nil {
		log.WarningLog.Printf("allowing stop: %v", err)
		return Result{Input: in, Verdict: gate.Allow(gate.ReasonInvalidInput)}
	}
	sentrypkg.SetContext(in.SessionID, in.HookEventName, filepath.Base(in.Cwd))
	log.InfoLog.Printf("session=%s event=%s stop_hook_active=%t transcript=%s",
		in.SessionID, in.HookEventName, in.StopHookActive, in.TranscriptPath)

	if err := ctx.Err(); err != nil {
		return Result{Input: in, Verdict: gate.Allow(gate.ReasonInternalError)}
	}

	data, err := opts.ReadFile(in.TranscriptPath)
	if err != nil {
		log.WarningLog.Printf("allowing stop, transcript unreadable: %v", err)
		return Result{Input: in, Verdict: gate.Allow(gate.ReasonTranscriptUnreadable)}
	}

	tl, v := gate.Check(data, in.Cwd)
	log.InfoLog.Printf("session=%s events=%d resets=%d skipped=%d verdict=%s unreviewed=%d reviews_since_user=%d",
		in.SessionID, len(tl.Events), tl.Resets, tl.Skipped, v, v.Unreviewed, v.ReviewsSinceUser)
	return Result{Input: in, Verdict: v}
}

// record writes the audit event. Failures are logged and never affect the
// verdict.
func record(audit auditlog.Logger, res Result) {
	v := res.Verdict
	kind := auditlog.EventVerdictAllow
	level := "info"
	switch v.Decision {
	case gate.DecisionSoftAllow:
		kind, level = auditlog.EventVerdictSoftAllow, "warn"
	case gate.DecisionBlock:
		kind = auditlog.EventVerdictBlock
	}
	switch v.Reason {
	case gate.ReasonInvalidInput, gate.ReasonTranscriptUnreadable, gate.ReasonInternalError:
		level = "error"
	}

	e := auditlog.NewEvent(kind, string(v.Reason), v.Message,
		auditlog.WithSession(res.Input.SessionID),
		auditlog.WithProject(res.Input.Cwd),
		auditlog.WithTranscript(res.Input.TranscriptPath),
		auditlog.WithCounts(v.Unreviewed, v.ReviewsSinceUser),
		auditlog.WithLevel(level),
	)
	if err := audit.Emit(e); err != nil {
		log.WarningLog.Printf("failed to record verdict: %v", err)
	}
}
