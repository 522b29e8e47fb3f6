package auditlog

import "time"

// EventKind identifies the type of audit event.
type EventKind string

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// Verdict events, one per hook invocation.
const (
	EventVerdictAllow     EventKind = "verdict_allow"
	EventVerdictSoftAllow EventKind = "verdict_soft_allow"
	EventVerdictBlock     EventKind = "verdict_block"
)

// Event is a single audit log entry.
type Event struct {
	ID               int64
	Kind             EventKind
	Timestamp        time.Time
	InvocationID     string
	SessionID        string
	Project          string // working directory reported by the host
	TranscriptPath   string
	Reason           string
	Message          string
	Unreviewed       int
	ReviewsSinceUser int
	Level            string // info, warn, error
}
