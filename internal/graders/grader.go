package graders

import (
	"context"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/rubric"
)

// Grader scores one rubric criterion against a transcript.
type Grader interface {
	// Name returns the criterion name this grader scores.
	Name() string

	// Kind returns the grader type.
	Kind() models.GraderKind

	// Grade evaluates the transcript and returns a result.
	Grade(ctx context.Context, gradingContext *Context) (*models.GraderResults, error)
}

// Context carries the input for grading.
type Context struct {
	// Transcript is the full recognized text of the call. It may be empty or
	// hold a recognition-failure sentinel; both are graded like any other text.
	Transcript string
	Metadata   map[string]any
}

// Create builds a grader of the given kind from loosely-typed parameters.
func Create(kind models.GraderKind, identifier string, params map[string]any) (Grader, error) {
	switch kind {
	case models.GraderKindKeyword:
		var v struct {
			Keywords []string `mapstructure:"keywords"`
			Weight   int      `mapstructure:"weight"`
		}

		if err := mapstructure.Decode(params, &v); err != nil {
			return nil, err
		}

		return NewKeywordGrader(KeywordGraderArgs{
			Name:     identifier,
			Keywords: v.Keywords,
			Weight:   v.Weight,
		})
	case models.GraderKindInfo:
		var v struct {
			Fact string `mapstructure:"fact"`
		}

		if err := mapstructure.Decode(params, &v); err != nil {
			return nil, err
		}

		return NewInfoGrader(identifier, rubric.Fact(v.Fact))
	default:
		return nil, fmt.Errorf("'%s' is not a valid grader type", kind)
	}
}

// ForCriterion returns the grader that scores c: informational criteria get an
// info grader, everything else a keyword grader.
func ForCriterion(c rubric.Criterion) (Grader, error) {
	if c.Informational() {
		return Create(models.GraderKindInfo, c.Name, map[string]any{
			"fact": string(c.Fact),
		})
	}
	return Create(models.GraderKindKeyword, c.Name, map[string]any{
		"keywords": c.Keywords,
		"weight":   c.Weight,
	})
}

// measureTime is a helper to measure grading duration
func measureTime(fn func() (*models.GraderResults, error)) (*models.GraderResults, error) {
	start := time.Now()
	result, err := fn()

	if result != nil {
		result.DurationMs = time.Since(start).Milliseconds()
	}

	return result, err
}
