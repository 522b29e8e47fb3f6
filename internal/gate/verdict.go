package gate

import "fmt"

// Decision is the outcome of a gate evaluation.
type Decision int

const (
	DecisionAllow     Decision = iota // terminate silently
	DecisionSoftAllow                 // terminate, but surface an advisory
	DecisionBlock                     // keep the session running
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionSoftAllow:
		return "soft_allow"
	case DecisionBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Reason explains why a decision was reached.
type Reason string

const (
	ReasonNoUnreviewedChanges  Reason = "no_unreviewed_changes"
	ReasonRateLimited          Reason = "rate_limited"
	ReasonCeilingReached       Reason = "ceiling_reached"
	ReasonUnreviewedChanges    Reason = "unreviewed_changes"
	ReasonInvalidInput         Reason = "invalid_input"
	ReasonTranscriptUnreadable Reason = "transcript_unreadable"
	ReasonInternalError        Reason = "internal_error"
)

// Exit codes understood by the host runtime.
const (
	ExitAllow = 0
	ExitBlock = 2
)

// MaxReviewAttempts is the number of reviews since the last user message after
// which the gate stops insisting.
const MaxReviewAttempts = 3

// BlockMessage is the directive returned when unreviewed changes remain.
const BlockMessage = "Run the code-review agent to approve the most recent changes."

// CeilingMessage is the advisory surfaced when review has not converged.
var CeilingMessage = fmt.Sprintf(
	"Code review has not converged after %d attempts since the last user message. "+
		"Stopping to avoid an infinite loop - please review the changes manually.",
	MaxReviewAttempts,
)

// Verdict is the result of evaluating a transcript.
type Verdict struct {
	Decision Decision
	Reason   Reason
	// Message is written to stderr for soft-allow and block decisions.
	Message string

	// Unreviewed counts code changes after the last review.
	Unreviewed int
	// ReviewsSinceUser counts reviews after the last user message.
	ReviewsSinceUser int
}

// Allow returns a silent allow verdict with the given reason.
func Allow(reason Reason) Verdict {
	return Verdict{Decision: DecisionAllow, Reason: reason}
}

// ExitCode maps the verdict onto the hook exit code.
func (v Verdict) ExitCode() int {
	if v.Decision == DecisionBlock {
		return ExitBlock
	}
	return ExitAllow
}

// Blocks reports whether the verdict keeps the session running.
func (v Verdict) Blocks() bool {
	return v.Decision == DecisionBlock
}

func (v Verdict) String() string {
	return fmt.Sprintf("%s (%s)", v.Decision, v.Reason)
}
