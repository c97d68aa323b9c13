package models

// OverallCriterion is the name of the synthetic entry that closes every scorecard.
const OverallCriterion = "OVERALL SCORE"

// InfoScore is the score representation of informational entries.
const InfoScore = "Info"

// ScoreEntry is one line of a scorecard.
type ScoreEntry struct {
	Criterion string `json:"criterion"`
	// Score is the display form: "earned/weight (pct%)", "Info", or "total/100".
	Score    string `json:"score"`
	Comments string `json:"comments"`

	Earned        float64 `json:"earned"`
	Weight        int     `json:"weight"`
	Percentage    float64 `json:"percentage"`
	Informational bool    `json:"informational,omitempty"`
}

// IsOverall reports whether e is the terminal OVERALL SCORE entry.
func (e ScoreEntry) IsOverall() bool {
	return e.Criterion == OverallCriterion
}

// Scorecard is the ordered set of criterion entries for one call. The last
// entry is always the OVERALL SCORE entry.
type Scorecard struct {
	Entries    []ScoreEntry `json:"entries"`
	TotalScore float64      `json:"total_score"`
	MaxScore   int          `json:"max_score"`
	Percentage float64      `json:"percentage"`
	Rating     string       `json:"rating"`
}

// Criteria returns every entry except OVERALL SCORE.
func (s *Scorecard) Criteria() []ScoreEntry {
	out := make([]ScoreEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		if !e.IsOverall() {
			out = append(out, e)
		}
	}
	return out
}

// Overall returns the terminal OVERALL SCORE entry. ok is false for a
// scorecard that was never aggregated.
func (s *Scorecard) Overall() (ScoreEntry, bool) {
	if len(s.Entries) == 0 {
		return ScoreEntry{}, false
	}
	last := s.Entries[len(s.Entries)-1]
	return last, last.IsOverall()
}

// Lookup finds the entry for the named criterion.
func (s *Scorecard) Lookup(criterion string) (ScoreEntry, bool) {
	for _, e := range s.Entries {
		if e.Criterion == criterion {
			return e, true
		}
	}
	return ScoreEntry{}, false
}
