package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/scoring"
	"github.com/spboyer/callqa/internal/suggest"
	"github.com/stretchr/testify/require"
)

const sampleTranscript = "my name is John. this is a outbound call regarding your account 9001. We need to verify your details and date of birth."

func sampleOutcome(t *testing.T) *models.AnalysisOutcome {
	t.Helper()

	card, err := scoring.NewRubricScorer(nil).Score(context.Background(), sampleTranscript)
	require.NoError(t, err)

	return &models.AnalysisOutcome{
		RunID:     "run-1",
		Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Metadata: models.CallMetadata{
			Filename:     "call.wav",
			AnalysisDate: "2024-03-01 10:00:00",
			FileSize:     "12.50 KB",
			Duration:     "Unknown",
		},
		Transcript: sampleTranscript,
		Sentences: []models.Sentence{
			{Text: "my name is John", Language: "en", Translation: "my name is John"},
			{Text: "Sawubona", Language: "zu", Translation: "Hello"},
		},
		Scorecard:   *card,
		Suggestions: suggest.Generate(card, nil),
		DurationMs:  1500,
	}
}
