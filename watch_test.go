package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/kastheco/reviewgate/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerdictWatcher_PrintsOnlyTransitions(t *testing.T) {
	isolate(t)
	path := writeTranscript(t, userRecord, editRecord)
	var out bytes.Buffer
	w := &verdictWatcher{path: path, cwd: "/repo", out: &out, report: ui.Report{}}

	w.evaluate()
	w.evaluate()
	assert.Equal(t, 1, strings.Count(out.String(), "BLOCK"))

	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{userRecord, editRecord, reviewRecord}, "\n")), 0o644))
	w.evaluate()
	assert.Contains(t, out.String(), "ALLOW no_unreviewed_changes")
}

func TestVerdictWatcher_MissingFileIsQuiet(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	w := &verdictWatcher{path: "/nonexistent/session.jsonl", out: &out}
	w.evaluate()
	assert.Empty(t, out.String())
}

func TestWatchCommand_StopsOnCancel(t *testing.T) {
	isolate(t)
	path := writeTranscript(t, userRecord, editRecord)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	cmd := newWatchCmd()
	cmd.SetContext(ctx)
	cmd.SetOut(&out)

	require.NoError(t, runWatch(cmd, []string{path}))
	assert.Contains(t, out.String(), "BLOCK unreviewed_changes")
}
