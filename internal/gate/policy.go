package gate

import (
	"strings"

	"github.com/kastheco/reviewgate/internal/transcript"
)

// rateLimitMarkers are matched case-insensitively against raw transcript lines.
var rateLimitMarkers = []string{
	"rate limit",
	"rate_limit",
	"usage limit",
	"too many requests",
}

// Evaluate applies the review policy to a classified timeline. lines are the
// raw transcript lines the timeline was built from; they are only consulted
// for the rate-limit scan.
//
// Unreviewed changes are counted from the last review anywhere in the
// timeline; review attempts are counted from the last user message.
func Evaluate(tl transcript.Timeline, lines []string) Verdict {
	lastReview := tl.LastIndex(transcript.EventReviewPerformed)

	unreviewed := 0
	for _, ev := range tl.Events[lastReview+1:] {
		if ev.Kind == transcript.EventCodeChange {
			unreviewed++
		}
	}
	if unreviewed == 0 {
		return Allow(ReasonNoUnreviewedChanges)
	}

	// A rate-limited agent cannot run the review.
	if RateLimitedSince(lines, tl.LastUserLine) {
		v := Allow(ReasonRateLimited)
		v.Unreviewed = unreviewed
		return v
	}

	lastUser := tl.LastIndex(transcript.EventUserMessage)
	reviews := 0
	for _, ev := range tl.Events[lastUser+1:] {
		if ev.Kind == transcript.EventReviewPerformed {
			reviews++
		}
	}

	if reviews >= MaxReviewAttempts {
		return Verdict{
			Decision:         DecisionSoftAllow,
			Reason:           ReasonCeilingReached,
			Message:          CeilingMessage,
			Unreviewed:       unreviewed,
			ReviewsSinceUser: reviews,
		}
	}

	return Verdict{
		Decision:         DecisionBlock,
		Reason:           ReasonUnreviewedChanges,
		Message:          BlockMessage,
		Unreviewed:       unreviewed,
		ReviewsSinceUser: reviews,
	}
}

// RateLimitedSince reports whether any line strictly after index after
// mentions a rate limit.
func RateLimitedSince(lines []string, after int) bool {
	start := after + 1
	if start < 0 {
		start = 0
	}
	for i := start; i < len(lines); i++ {
		lower := strings.ToLower(lines[i])
		for _, marker := range rateLimitMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

// Check is the whole gate as a pure function of the transcript contents and
// the working directory.
func Check(data []byte, cwd string) (transcript.Timeline, Verdict) {
	tl, lines := transcript.ClassifyBytes(data, cwd)
	return tl, Evaluate(tl, lines)
}
