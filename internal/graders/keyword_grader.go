package graders

import (
	"context"
	"fmt"
	"strings"

	"github.com/spboyer/callqa/internal/models"
)

// Comment bands, by percentage of the criterion weight earned.
const (
	CommentExcellent        = "Excellent"
	CommentGood             = "Good"
	CommentAverage          = "Average"
	CommentNeedsImprovement = "Needs improvement"
)

// KeywordGraderArgs holds the arguments for creating a keyword grader.
type KeywordGraderArgs struct {
	// Name is the criterion name, used in results and error messages.
	Name string
	// Keywords are matched case-insensitively as substrings of the transcript.
	Keywords []string `mapstructure:"keywords"`
	// Weight is the number of points available.
	Weight int `mapstructure:"weight"`
}

// keywordGrader scores a criterion in three tiers from the number of distinct
// keywords found in the transcript.
type keywordGrader struct {
	name     string
	keywords []string
	weight   int
}

// NewKeywordGrader creates a [keywordGrader].
func NewKeywordGrader(args KeywordGraderArgs) (*keywordGrader, error) {
	if args.Weight < 0 {
		return nil, fmt.Errorf("keyword grader %q: weight must not be negative, got %d", args.Name, args.Weight)
	}
	return &keywordGrader{
		name:     args.Name,
		keywords: args.Keywords,
		weight:   args.Weight,
	}, nil
}

func (kg *keywordGrader) Name() string            { return kg.name }
func (kg *keywordGrader) Kind() models.GraderKind { return models.GraderKindKeyword }

func (kg *keywordGrader) Grade(ctx context.Context, gradingContext *Context) (*models.GraderResults, error) {
	return measureTime(func() (*models.GraderResults, error) {
		matched := MatchedKeywords(gradingContext.Transcript, kg.keywords)
		score := TieredScore(len(matched), kg.weight)
		pct := Percentage(score, kg.weight)

		return &models.GraderResults{
			Name:     kg.name,
			Type:     models.GraderKindKeyword,
			Score:    score,
			Weight:   float64(kg.weight),
			Passed:   kg.weight > 0 && score == float64(kg.weight),
			Feedback: Comment(pct, kg.keywords),
			Details: map[string]any{
				"keywords":   kg.keywords,
				"matched":    matched,
				"matches":    len(matched),
				"percentage": pct,
			},
		}, nil
	})
}

// MatchedKeywords returns the distinct keywords that occur in text, in keyword
// order. Matching is a case-insensitive substring test.
func MatchedKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]bool, len(keywords))
	var matched []string

	for _, kw := range keywords {
		k := strings.ToLower(kw)
		if seen[k] {
			continue
		}
		seen[k] = true
		if strings.Contains(lower, k) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// Score returns the points text earns for a criterion with the given keywords
// and weight.
func Score(text string, keywords []string, weight int) float64 {
	if weight == 0 {
		return 0
	}
	return TieredScore(len(MatchedKeywords(text, keywords)), weight)
}

// TieredScore maps a keyword match count onto points: nothing for no match,
// half the weight for exactly one match, the full weight for two or more.
func TieredScore(matches, weight int) float64 {
	switch {
	case weight == 0 || matches == 0:
		return 0
	case matches == 1:
		return float64(weight) * 0.5
	default:
		return float64(weight)
	}
}

// Percentage is score as a percentage of weight, or 0 for zero-weight criteria.
func Percentage(score float64, weight int) float64 {
	if weight <= 0 {
		return 0
	}
	return score / float64(weight) * 100
}

// Comment returns the band label for pct. The needs-improvement comment lists
// every keyword of the criterion, not only the ones that were missed.
func Comment(pct float64, keywords []string) string {
	switch {
	case pct >= 80:
		return CommentExcellent
	case pct >= 60:
		return CommentGood
	case pct >= 40:
		return CommentAverage
	default:
		return CommentNeedsImprovement + " - Missing keywords: " + strings.Join(keywords, ", ")
	}
}
