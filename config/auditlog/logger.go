package auditlog

import "time"

// QueryFilter specifies criteria for querying audit events.
type QueryFilter struct {
	SessionID string
	Project   string
	Kinds     []EventKind
	Limit     int
	Before    time.Time
	After     time.Time
}

// Logger is the interface for emitting and querying audit events.
type Logger interface {
	Emit(event Event) error
	Query(filter QueryFilter) ([]Event, error)
	Close() error
}

// EventOption is a functional option for configuring optional Event fields.
type EventOption func(*Event)

// WithSession sets the SessionID field on the event.
func WithSession(sessionID string) EventOption {
	return func(e *Event) { e.SessionID = sessionID }
}

// WithProject sets the Project field on the event.
func WithProject(project string) EventOption {
	return func(e *Event) { e.Project = project }
}

// WithTranscript sets the TranscriptPath field on the event.
func WithTranscript(path string) EventOption {
	return func(e *Event) { e.TranscriptPath = path }
}

// WithCounts sets the review counters on the event.
func WithCounts(unreviewed, reviewsSinceUser int) EventOption {
	return func(e *Event) {
		e.Unreviewed = unreviewed
		e.ReviewsSinceUser = reviewsSinceUser
	}
}

// WithLevel sets the Level field on the event (info, warn, error).
func WithLevel(level string) EventOption {
	return func(e *Event) { e.Level = level }
}

// NewEvent builds an event of the given kind and reason.
func NewEvent(kind EventKind, reason, message string, opts ...EventOption) Event {
	e := Event{Kind: kind, Reason: reason, Message: message}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// nopLogger is a no-op Logger used when auditing is disabled.
type nopLogger struct{}

// NopLogger returns a Logger that discards all events.
func NopLogger() Logger {
	return &nopLogger{}
}

func (n *nopLogger) Emit(_ Event) error {
	return nil
}

func (n *nopLogger) Query(_ QueryFilter) ([]Event, error) {
	return nil, nil
}

func (n *nopLogger) Close() error {
	return nil
}
