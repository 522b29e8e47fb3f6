package ui

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/kastheco/reviewgate/internal/gate"
	"github.com/kastheco/reviewgate/internal/transcript"
)

// Report renders timelines and verdicts for humans. With Color unset it
// produces plain text, which is what pipes and tests get.
type Report struct {
	Color bool
}

func (r Report) style(c color.Color, bold bool, s string) string {
	if !r.Color {
		return s
	}
	return lipgloss.NewStyle().Foreground(c).Bold(bold).Render(s)
}

// Timeline writes one line per classified event.
func (r Report) Timeline(w io.Writer, tl transcript.Timeline) {
	if len(tl.Events) == 0 {
		fmt.Fprintln(w, r.style(ColorMuted, false, "  (no events)"))
		return
	}
	for i, ev := range tl.Events {
		idx := r.style(ColorSubtle, false, fmt.Sprintf("%3d  line %-5d", i, ev.Line+1))
		fmt.Fprintf(w, "  %s %s\n", idx, r.event(ev))
	}
}

func (r Report) event(ev transcript.Event) string {
	switch ev.Kind {
	case transcript.EventUserMessage:
		return r.style(ColorIris, false, "user message")
	case transcript.EventCodeChange:
		return r.style(ColorGold, false, fmt.Sprintf("code change  %s %s", ev.Tool, ev.Path))
	case transcript.EventReviewPerformed:
		return r.style(ColorFoam, false, fmt.Sprintf("review       %s", ev.Agent))
	default:
		return ev.Kind.String()
	}
}

// Summary writes the classification counters.
func (r Report) Summary(w io.Writer, tl transcript.Timeline) {
	parts := []string{
		fmt.Sprintf("%d user", tl.Count(transcript.EventUserMessage)),
		fmt.Sprintf("%d changes", tl.Count(transcript.EventCodeChange)),
		fmt.Sprintf("%d reviews", tl.Count(transcript.EventReviewPerformed)),
	}
	if tl.Resets > 0 {
		parts = append(parts, fmt.Sprintf("%d resets", tl.Resets))
	}
	if tl.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d malformed lines", tl.Skipped))
	}
	fmt.Fprintln(w, r.style(ColorSubtle, false, "  "+strings.Join(parts, ", ")))
}

// Verdict writes the decision, its reason and the message the hook would
// print.
func (r Report) Verdict(w io.Writer, v gate.Verdict) {
	var label string
	switch v.Decision {
	case gate.DecisionBlock:
		label = r.style(ColorLove, true, "BLOCK")
	case gate.DecisionSoftAllow:
		label = r.style(ColorGold, true, "SOFT ALLOW")
	default:
		label = r.style(ColorFoam, true, "ALLOW")
	}
	fmt.Fprintf(w, "%s %s  (exit %d, %d unreviewed, %d reviews since last user message)\n",
		label, r.style(ColorText, false, string(v.Reason)), v.ExitCode(), v.Unreviewed, v.ReviewsSinceUser)
	if v.Message != "" {
		fmt.Fprintf(w, "  %s\n", v.Message)
	}
}
