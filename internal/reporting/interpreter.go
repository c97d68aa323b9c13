package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/spboyer/callqa/internal/models"
)

// InterpretRating explains what an overall rating means for the agent.
func InterpretRating(rating string) string {
	switch rating {
	case "Excellent":
		return "The call followed the script closely."
	case "Very Good", "Good":
		return "Most script sections were covered; review the flagged criteria."
	case "Satisfactory":
		return "Several script sections were missed."
	case "Needs Improvement":
		return "Key script sections were missed; coaching is recommended."
	default:
		return "The call did not follow the script; coaching is required."
	}
}

// FormatSummaryReport produces a plain-language report from an AnalysisOutcome.
func FormatSummaryReport(outcome *models.AnalysisOutcome) string {
	var b strings.Builder

	card := &outcome.Scorecard
	duration := time.Duration(outcome.DurationMs) * time.Millisecond

	b.WriteString("=== Interpretation ===\n\n")

	if overall, ok := card.Overall(); ok {
		fmt.Fprintf(&b, "Overall Score: %s (%s)\n", overall.Score, overall.Comments)
	}
	fmt.Fprintf(&b, "Assessment:    %s\n", InterpretRating(card.Rating))
	fmt.Fprintf(&b, "Duration:      %v\n", duration)

	var passed, flagged int
	for _, e := range card.Criteria() {
		if e.Informational {
			continue
		}
		if e.Earned == float64(e.Weight) {
			passed++
		} else {
			flagged++
		}
	}
	fmt.Fprintf(&b, "Criteria:      %d at full credit, %d below\n", passed, flagged)

	if len(outcome.Suggestions) > 0 {
		b.WriteString("\nImprovement Plan:\n")
		for i, s := range outcome.Suggestions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
		}
	}

	return b.String()
}
