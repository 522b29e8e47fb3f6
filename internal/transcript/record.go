package transcript

import (
	"encoding/json"
	"strings"
)

// Record kinds and actor subtypes as written by the host runtime.
const (
	KindUser      = "user"
	KindAssistant = "assistant"

	UserTypeExternal = "external"
)

// Content item discriminators.
const (
	itemText       = "text"
	itemToolUse    = "tool_use"
	itemToolResult = "tool_result"
)

// Record is one line of the transcript. Only the fields the classifier reads
// are decoded; everything else is ignored.
type Record struct {
	Type     string  `json:"type"`
	UserType string  `json:"userType"`
	IsMeta   bool    `json:"isMeta"`
	Message  Message `json:"message"`
}

// Message carries the content of a record. Content is either a JSON string or
// a list of content items, so it is decoded lazily.
type Message struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// ContentItem is one entry of a list-shaped message content.
type ContentItem struct {
	Type  string          `json:"type"`
	Text  string          `json:"text"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ParseRecord decodes a single transcript line.
func ParseRecord(line string) (Record, error) {
	var r Record
	if err := json.Unmarshal([]byte(line), &r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Items returns the content list and true when the content is a list. String
// content, missing content and malformed lists all return false.
func (m Message) Items() ([]json.RawMessage, bool) {
	raw := strings.TrimSpace(string(m.Content))
	if !strings.HasPrefix(raw, "[") {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(m.Content, &items); err != nil {
		return nil, false
	}
	return items, true
}

// Text flattens the message content to plain text: string content as-is, list
// content as the concatenation of its text items.
func (m Message) Text() string {
	var s string
	if err := json.Unmarshal(m.Content, &s); err == nil {
		return s
	}
	items, ok := m.Items()
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, raw := range items {
		var item ContentItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.Type == itemText {
			b.WriteString(item.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// hasToolResult reports whether the content list carries a tool result. The
// host tags tool results as user records, so these must not count as human
// messages.
func (m Message) hasToolResult() bool {
	items, ok := m.Items()
	if !ok {
		return false
	}
	for _, raw := range items {
		var item ContentItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.Type == itemToolResult {
			return true
		}
	}
	return false
}

// IsHumanCandidate reports whether the record may be a genuine user message.
func (r Record) IsHumanCandidate() bool {
	return r.Type == KindUser && r.UserType == UserTypeExternal && !r.Message.hasToolResult()
}

// inputString reads a string field from a tool_use input object. Missing
// fields and non-string values return "".
func inputString(input json.RawMessage, field string) string {
	if len(input) == 0 {
		return ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(input, &fields); err != nil {
		return ""
	}
	raw, ok := fields[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
