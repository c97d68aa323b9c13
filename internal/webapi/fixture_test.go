package webapi

import (
	"context"
	"testing"
	"time"

	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/scoring"
	"github.com/stretchr/testify/require"
)

func makeOutcome(t *testing.T, id, transcript string, ts time.Time, durationMs int64) *models.AnalysisOutcome {
	t.Helper()

	card, err := scoring.NewRubricScorer(nil).Score(context.Background(), transcript)
	require.NoError(t, err)

	return &models.AnalysisOutcome{
		RunID:      id,
		Timestamp:  ts,
		Metadata:   models.CallMetadata{Filename: id + ".wav", Duration: "Unknown"},
		Transcript: transcript,
		Scorecard:  *card,
		DurationMs: durationMs,
	}
}
