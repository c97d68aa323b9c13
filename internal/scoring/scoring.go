package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spboyer/callqa/internal/graders"
	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/rubric"
)

// Rating is the qualitative label for an overall call score.
type Rating string

const (
	RatingUnsatisfactory   Rating = "Unsatisfactory"
	RatingNeedsImprovement Rating = "Needs Improvement"
	RatingSatisfactory     Rating = "Satisfactory"
	RatingGood             Rating = "Good"
	RatingVeryGood         Rating = "Very Good"
	RatingExcellent        Rating = "Excellent"
)

var ratingRank = map[Rating]int{
	RatingUnsatisfactory:   0,
	RatingNeedsImprovement: 1,
	RatingSatisfactory:     2,
	RatingGood:             3,
	RatingVeryGood:         4,
	RatingExcellent:        5,
}

func (r Rating) String() string {
	return string(r)
}

// AtLeast returns true if r is at or above the target rating.
func (r Rating) AtLeast(target Rating) bool {
	return ratingRank[r] >= ratingRank[target]
}

// ParseRating converts a flag value such as "very-good" to a Rating.
func ParseRating(s string) (Rating, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", " ")
	for r := range ratingRank {
		if strings.ToLower(string(r)) == normalized {
			return r, nil
		}
	}
	return RatingUnsatisfactory, fmt.Errorf("invalid rating %q: must be excellent, very-good, good, satisfactory, needs-improvement, or unsatisfactory", s)
}

// RatingFor maps an overall percentage onto its rating band.
func RatingFor(pct float64) Rating {
	switch {
	case pct >= 90:
		return RatingExcellent
	case pct >= 80:
		return RatingVeryGood
	case pct >= 70:
		return RatingGood
	case pct >= 60:
		return RatingSatisfactory
	case pct >= 50:
		return RatingNeedsImprovement
	default:
		return RatingUnsatisfactory
	}
}

// FormatPoints renders a score in its shortest decimal form: 10, 2.5, 52.5.
// Whole scores have no ".0" suffix, so half credit reads "10/20 (50%)".
func FormatPoints(points float64) string {
	return strconv.FormatFloat(points, 'f', -1, 64)
}

// Scorer evaluates a transcript and returns its scorecard.
type Scorer interface {
	Score(ctx context.Context, transcript string) (*models.Scorecard, error)
}

// RubricScorer grades every criterion of a rubric in rubric order.
type RubricScorer struct {
	Rubric *rubric.Rubric
	Logger *slog.Logger
}

var _ Scorer = (*RubricScorer)(nil)

// NewRubricScorer returns a scorer for r, falling back to the reference rubric.
func NewRubricScorer(r *rubric.Rubric) *RubricScorer {
	if r == nil {
		r = rubric.Default()
	}
	return &RubricScorer{Rubric: r}
}

func (s *RubricScorer) Score(ctx context.Context, transcript string) (*models.Scorecard, error) {
	r := s.Rubric
	if r == nil {
		r = rubric.Default()
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gradingContext := &graders.Context{Transcript: transcript}
	criteria := r.Criteria()
	entries := make([]models.ScoreEntry, 0, len(criteria)+1)

	for _, c := range criteria {
		g, err := graders.ForCriterion(c)
		if err != nil {
			return nil, fmt.Errorf("creating grader for %q: %w", c.Name, err)
		}
		res, err := g.Grade(ctx, gradingContext)
		if err != nil {
			return nil, fmt.Errorf("grading %q: %w", c.Name, err)
		}

		entry := Entry(c, res)
		logger.Debug("Criterion graded", "criterion", c.Name, "score", entry.Score, "durationMs", res.DurationMs)
		entries = append(entries, entry)
	}

	return Aggregate(entries), nil
}

// Entry converts a grader result for c into a scorecard line.
func Entry(c rubric.Criterion, res *models.GraderResults) models.ScoreEntry {
	if c.Informational() {
		return models.ScoreEntry{
			Criterion:     c.Name,
			Score:         models.InfoScore,
			Comments:      res.Feedback,
			Informational: true,
		}
	}

	pct := graders.Percentage(res.Score, c.Weight)
	return models.ScoreEntry{
		Criterion:  c.Name,
		Score:      fmt.Sprintf("%s/%d (%d%%)", FormatPoints(res.Score), c.Weight, int(pct)),
		Comments:   res.Feedback,
		Earned:     res.Score,
		Weight:     c.Weight,
		Percentage: pct,
	}
}

// Aggregate sums the earned points of the scored entries and closes the
// scorecard with the OVERALL SCORE entry. Any OVERALL SCORE entry already in
// entries is dropped so the result holds exactly one, last.
func Aggregate(entries []models.ScoreEntry) *models.Scorecard {
	card := &models.Scorecard{
		Entries:  make([]models.ScoreEntry, 0, len(entries)+1),
		MaxScore: rubric.MaxScore,
	}

	for _, e := range entries {
		if e.IsOverall() {
			continue
		}
		if !e.Informational {
			card.TotalScore += e.Earned
		}
		card.Entries = append(card.Entries, e)
	}

	// Multiplying first keeps whole and half points exact.
	card.Percentage = card.TotalScore * 100 / float64(rubric.MaxScore)
	rating := RatingFor(card.Percentage)
	card.Rating = rating.String()

	card.Entries = append(card.Entries, models.ScoreEntry{
		Criterion:  models.OverallCriterion,
		Score:      fmt.Sprintf("%s/%d", FormatPoints(card.TotalScore), rubric.MaxScore),
		Comments:   fmt.Sprintf("%d%% - %s", int(card.Percentage), rating),
		Earned:     card.TotalScore,
		Weight:     rubric.MaxScore,
		Percentage: card.Percentage,
	})
	return card
}
