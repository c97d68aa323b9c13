// Package suggest turns a scorecard into a short list of coaching points for
// the agent.
package suggest

import (
	"strings"

	"github.com/spboyer/callqa/internal/graders"
	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/rubric"
)

const (
	// MinSuggestions is the number of suggestions fillers pad up to.
	MinSuggestions = 3
	// MaxSuggestions caps the returned list.
	MaxSuggestions = 5
)

// Generate returns between MinSuggestions and MaxSuggestions coaching points
// for card. Every scored criterion whose comment flags it as needing
// improvement contributes its remediation text from r, in scorecard order;
// the rubric's filler suggestions then pad the list. A nil rubric means the
// reference rubric.
func Generate(card *models.Scorecard, r *rubric.Rubric) []string {
	if r == nil {
		r = rubric.Default()
	}

	var out []string
	if card != nil {
		for _, e := range card.Criteria() {
			if e.Informational {
				continue
			}
			if !strings.Contains(e.Comments, graders.CommentNeedsImprovement) {
				continue
			}
			if s, ok := r.Suggestion(e.Criterion); ok {
				out = append(out, s)
			}
		}
	}

	for _, filler := range r.Fillers() {
		if len(out) >= MinSuggestions {
			break
		}
		out = append(out, filler)
	}

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}
