package auditlog_test

import (
	"testing"

	"github.com/kastheco/reviewgate/config/auditlog"
	"github.com/stretchr/testify/assert"
)

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "verdict_block", auditlog.EventVerdictBlock.String())
	assert.Equal(t, "verdict_soft_allow", auditlog.EventVerdictSoftAllow.String())
}

func TestNopLogger_DoesNotPanic(t *testing.T) {
	l := auditlog.NopLogger()
	assert.NotPanics(t, func() {
		assert.NoError(t, l.Emit(auditlog.Event{Kind: auditlog.EventVerdictAllow}))
	})
	events, err := l.Query(auditlog.QueryFilter{})
	assert.NoError(t, err)
	assert.Nil(t, events)
	assert.NoError(t, l.Close())
}

func TestNewEvent_AppliesOptions(t *testing.T) {
	e := auditlog.NewEvent(auditlog.EventVerdictBlock, "unreviewed_changes", "run review",
		auditlog.WithSession("s1"),
		auditlog.WithProject("/repo"),
		auditlog.WithTranscript("/tmp/t.jsonl"),
		auditlog.WithCounts(2, 1),
		auditlog.WithLevel("warn"),
	)

	assert.Equal(t, auditlog.EventVerdictBlock, e.Kind)
	assert.Equal(t, "unreviewed_changes", e.Reason)
	assert.Equal(t, "run review", e.Message)
	assert.Equal(t, "s1", e.SessionID)
	assert.Equal(t, "/repo", e.Project)
	assert.Equal(t, "/tmp/t.jsonl", e.TranscriptPath)
	assert.Equal(t, 2, e.Unreviewed)
	assert.Equal(t, 1, e.ReviewsSinceUser)
	assert.Equal(t, "warn", e.Level)
}
