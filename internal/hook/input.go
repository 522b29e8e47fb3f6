package hook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNoTranscript is returned when the payload names no transcript.
var ErrNoTranscript = errors.New("hook input has no transcript_path")

// Input is the payload the host runtime writes to stdin.
type Input struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	Cwd            string `json:"cwd"`
	HookEventName  string `json:"hook_event_name"`
	// StopHookActive is set when the session is already continuing because
	// of a stop hook. It is recorded but not used as a loop guard: the review
	// ceiling bounds loops, and fixes made by a review still get reviewed.
	StopHookActive bool `json:"stop_hook_active"`
}

// ReadInput decodes the stdin payload.
func ReadInput(r io.Reader) (Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Input{}, fmt.Errorf("read hook input: %w", err)
	}
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("parse hook input: %w", err)
	}
	if in.TranscriptPath == "" {
		return in, ErrNoTranscript
	}
	return in, nil
}
