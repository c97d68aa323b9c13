package pipeline

//go:generate go tool mockgen -source=deps.go -destination=mocks_test.go -package=pipeline

import (
	"context"

	"github.com/spboyer/callqa/internal/models"
)

// Transcoder converts an upload into a WAV file.
type Transcoder interface {
	Transcode(ctx context.Context, path string) (string, error)
}

// Transcriber recognizes the speech in a WAV file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Detector identifies the language of a sentence.
type Detector interface {
	Detect(ctx context.Context, sentence string) (string, error)
}

// Translator renders a sentence in another language.
type Translator interface {
	Translate(ctx context.Context, sentence, source, target string) (string, error)
}

// Scorer grades a transcript against the rubric.
type Scorer interface {
	Score(ctx context.Context, transcript string) (*models.Scorecard, error)
}

// Archiver persists a completed analysis.
type Archiver interface {
	Save(ctx context.Context, outcome *models.AnalysisOutcome) error
}

// Publisher copies a finished report somewhere shareable and returns its
// location.
type Publisher interface {
	Publish(ctx context.Context, reportPath string) (string, error)
}
