package auditlog_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kastheco/reviewgate/config/auditlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteLogger_EmitAndQuery(t *testing.T) {
	logger, err := auditlog.NewSQLiteLogger(":memory:")
	require.NoError(t, err)
	defer logger.Close()

	require.NoError(t, logger.Emit(auditlog.Event{
		Kind:             auditlog.EventVerdictBlock,
		SessionID:        "sess-1",
		Project:          "/repo",
		TranscriptPath:   "/tmp/sess-1.jsonl",
		Reason:           "unreviewed_changes",
		Message:          "Run the code-review agent to approve the most recent changes.",
		Unreviewed:       2,
		ReviewsSinceUser: 1,
	}))

	events, err := logger.Query(auditlog.QueryFilter{SessionID: "sess-1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, auditlog.EventVerdictBlock, e.Kind)
	assert.Equal(t, "/tmp/sess-1.jsonl", e.TranscriptPath)
	assert.Equal(t, 2, e.Unreviewed)
	assert.Equal(t, 1, e.ReviewsSinceUser)
	assert.Equal(t, "info", e.Level)
	assert.NotEmpty(t, e.InvocationID)
	assert.False(t, e.Timestamp.IsZero())
}

func TestSQLiteLogger_QueryFilterBySession(t *testing.T) {
	logger, err := auditlog.NewSQLiteLogger(":memory:")
	require.NoError(t, err)
	defer logger.Close()

	require.NoError(t, logger.Emit(auditlog.Event{Kind: auditlog.EventVerdictAllow, SessionID: "a"}))
	require.NoError(t, logger.Emit(auditlog.Event{Kind: auditlog.EventVerdictAllow, SessionID: "b"}))

	events, err := logger.Query(auditlog.QueryFilter{SessionID: "a", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSQLiteLogger_QueryFilterByKind(t *testing.T) {
	logger, err := auditlog.NewSQLiteLogger(":memory:")
	require.NoError(t, err)
	defer logger.Close()

	require.NoError(t, logger.Emit(auditlog.Event{Kind: auditlog.EventVerdictAllow, Project: "p"}))
	require.NoError(t, logger.Emit(auditlog.Event{Kind: auditlog.EventVerdictBlock, Project: "p"}))

	events, err := logger.Query(auditlog.QueryFilter{
		Project: "p",
		Kinds:   []auditlog.EventKind{auditlog.EventVerdictBlock},
		Limit:   10,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, auditlog.EventVerdictBlock, events[0].Kind)
}

func TestSQLiteLogger_QueryOrderDesc(t *testing.T) {
	logger, err := auditlog.NewSQLiteLogger(":memory:")
	require.NoError(t, err)
	defer logger.Close()

	require.NoError(t, logger.Emit(auditlog.Event{Kind: auditlog.EventVerdictBlock, Project: "p", Message: "first"}))
	time.Sleep(time.Millisecond)
	require.NoError(t, logger.Emit(auditlog.Event{Kind: auditlog.EventVerdictAllow, Project: "p", Message: "second"}))

	events, err := logger.Query(auditlog.QueryFilter{Project: "p", Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "second", events[0].Message) // newest first
}

func TestSQLiteLogger_QueryTimeWindow(t *testing.T) {
	logger, err := auditlog.NewSQLiteLogger(":memory:")
	require.NoError(t, err)
	defer logger.Close()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, logger.Emit(auditlog.Event{Kind: auditlog.EventVerdictAllow, Timestamp: base, Message: "old"}))
	require.NoError(t, logger.Emit(auditlog.Event{Kind: auditlog.EventVerdictAllow, Timestamp: base.Add(time.Hour), Message: "new"}))

	events, err := logger.Query(auditlog.QueryFilter{After: base.Add(time.Minute)})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].Message)

	events, err = logger.Query(auditlog.QueryFilter{Before: base.Add(time.Minute)})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "old", events[0].Message)
}

func TestSQLiteLogger_PersistsToFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "audit.db")

	logger, err := auditlog.NewSQLiteLogger(dbPath)
	require.NoError(t, err)
	require.NoError(t, logger.Emit(auditlog.Event{Kind: auditlog.EventVerdictSoftAllow, InvocationID: "fixed-id"}))
	require.NoError(t, logger.Close())

	reopened, err := auditlog.NewSQLiteLogger(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	events, err := reopened.Query(auditlog.QueryFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "fixed-id", events[0].InvocationID)
}
