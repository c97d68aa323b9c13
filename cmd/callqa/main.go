package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/scoring"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Call analyzed and met the threshold
	ExitBelowTarget = 1 // Call analyzed but scored below --min-score or --min-rating
	ExitError       = 2 // Configuration, input or runtime error
)

// ThresholdError indicates that the analysis completed but the call scored
// below the requested minimum score or rating.
type ThresholdError struct {
	Score     float64
	Min       float64
	Rating    scoring.Rating
	MinRating scoring.Rating
}

func (e *ThresholdError) Error() string {
	if e.MinRating != "" {
		return fmt.Sprintf("call rated %s (%g/100), below the minimum rating of %s", e.Rating, e.Score, e.MinRating)
	}
	return fmt.Sprintf("call scored %g/100, below the minimum of %g", e.Score, e.Min)
}

// parseMinRating parses a --min-rating value. An empty value disables the
// rating check.
func parseMinRating(s string) (scoring.Rating, error) {
	if s == "" {
		return "", nil
	}
	return scoring.ParseRating(s)
}

// checkThresholds returns a ThresholdError when card falls below minScore
// (ignored when zero) or minRating (ignored when empty).
func checkThresholds(card *models.Scorecard, minScore float64, minRating scoring.Rating) error {
	if minScore > 0 && card.TotalScore < minScore {
		return &ThresholdError{Score: card.TotalScore, Min: minScore}
	}
	rating := scoring.Rating(card.Rating)
	if minRating != "" && !rating.AtLeast(minRating) {
		return &ThresholdError{Score: card.TotalScore, Rating: rating, MinRating: minRating}
	}
	return nil
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var thresholdErr *ThresholdError
		if errors.As(err, &thresholdErr) {
			os.Exit(ExitBelowTarget)
		}

		os.Exit(ExitError)
	}
}
