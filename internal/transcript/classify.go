package transcript

import (
	"encoding/json"
	"strings"
)

// EventKind identifies a classified transcript event.
type EventKind string

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

const (
	EventUserMessage     EventKind = "user_message"
	EventCodeChange      EventKind = "code_change"
	EventReviewPerformed EventKind = "review_performed"
)

const (
	// ResetMarker is the literal a context-clearing command leaves in the
	// user record that issued it.
	ResetMarker = "<command-name>/clear</command-name>"

	// DispatcherTool is the tool that launches sub-agents.
	DispatcherTool = "Task"
	// subagentField is the dispatcher input naming the sub-agent.
	subagentField = "subagent_type"
)

// reviewerAgents are the sub-agent designations that count as a review.
var reviewerAgents = map[string]bool{
	"code-review":             true,
	"best-practices-reviewer": true,
}

// IsReviewer reports whether a sub-agent designation counts as a review.
func IsReviewer(agent string) bool {
	return reviewerAgents[agent]
}

// Event is one classified entry of the timeline.
type Event struct {
	Kind  EventKind
	Line  int    // index of the transcript line that produced the event
	Tool  string // edit tool name, code_change only
	Path  string // normalized target path, code_change only
	Agent string // reviewer designation, review_performed only
}

// Timeline is the classified view of a transcript.
type Timeline struct {
	Events []Event
	// LastUserLine is the line index of the most recent user message, or -1.
	LastUserLine int
	// Resets counts context-clearing commands seen.
	Resets int
	// Skipped counts lines that failed to parse.
	Skipped int
}

// SplitLines splits raw transcript bytes into lines. Line indices returned by
// Classify refer to positions in this slice.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ClassifyBytes is Classify over raw transcript contents.
func ClassifyBytes(data []byte, cwd string) (Timeline, []string) {
	lines := SplitLines(data)
	return Classify(lines, cwd), lines
}

// Classify walks the transcript in order and builds the event timeline.
// Malformed lines are skipped; a reset command discards everything before it.
func Classify(lines []string, cwd string) Timeline {
	tl := Timeline{LastUserLine: -1}

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			tl.Skipped++
			continue
		}

		if rec.IsHumanCandidate() {
			if strings.Contains(rec.Message.Text(), ResetMarker) {
				tl.Events = nil
				tl.LastUserLine = -1
				tl.Resets++
				continue
			}
			if rec.IsMeta {
				continue
			}
			tl.Events = append(tl.Events, Event{Kind: EventUserMessage, Line: i})
			tl.LastUserLine = i
			continue
		}

		if rec.Type != KindAssistant {
			continue
		}
		items, ok := rec.Message.Items()
		if !ok {
			continue
		}
		for _, raw := range items {
			if ev, ok := classifyItem(raw, i, cwd); ok {
				tl.Events = append(tl.Events, ev)
			}
		}
	}

	return tl
}

func classifyItem(raw json.RawMessage, line int, cwd string) (Event, bool) {
	var item ContentItem
	if err := json.Unmarshal(raw, &item); err != nil || item.Type != itemToolUse {
		return Event{}, false
	}

	if field, ok := PathField(item.Name); ok {
		path := NormalizePath(inputString(item.Input, field), cwd)
		if IsExempt(path) {
			return Event{}, false
		}
		return Event{Kind: EventCodeChange, Line: line, Tool: item.Name, Path: path}, true
	}

	if item.Name == DispatcherTool {
		agent := inputString(item.Input, subagentField)
		if IsReviewer(agent) {
			return Event{Kind: EventReviewPerformed, Line: line, Agent: agent}, true
		}
	}

	return Event{}, false
}

// Count returns the number of events of the given kind.
func (t Timeline) Count(kind EventKind) int {
	n := 0
	for _, ev := range t.Events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// LastIndex returns the position in Events of the last event of the given
// kind, or -1.
func (t Timeline) LastIndex(kind EventKind) int {
	for i := len(t.Events) - 1; i >= 0; i-- {
		if t.Events[i].Kind == kind {
			return i
		}
	}
	return -1
}
