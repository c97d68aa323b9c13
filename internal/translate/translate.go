// Package translate detects the language of each transcript sentence and
// renders non-English sentences in English.
package translate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spboyer/callqa/internal/models"
)

const (
	// SourceAuto asks the translator to detect the source language itself.
	SourceAuto = "auto"
	// TargetEnglish is the language every sentence is rendered in.
	TargetEnglish = "en"
)

// Detector identifies the language of a sentence.
type Detector interface {
	Detect(ctx context.Context, sentence string) (string, error)
}

// Translator renders a sentence from source into target.
type Translator interface {
	Translate(ctx context.Context, sentence, source, target string) (string, error)
}

// SplitSentences splits text on ".", trimming whitespace and dropping empty
// pieces.
func SplitSentences(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ".") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ProcessText detects and translates every sentence of text. It never fails:
// a sentence whose language cannot be detected is tagged
// models.UnknownLanguage, and a failed translation keeps the original text.
// A nil det or tr disables that step.
func ProcessText(ctx context.Context, text string, det Detector, tr Translator, logger *slog.Logger) []models.Sentence {
	if logger == nil {
		logger = slog.Default()
	}

	sentences := SplitSentences(text)
	out := make([]models.Sentence, 0, len(sentences))

	for _, s := range sentences {
		lang := models.UnknownLanguage
		if det != nil {
			if code, err := det.Detect(ctx, s); err != nil {
				logger.Debug("Language detection failed", "sentence", s, "error", err)
			} else if code != "" {
				lang = code
			}
		}

		translation := s
		if lang != TargetEnglish && tr != nil {
			if t, err := tr.Translate(ctx, s, SourceAuto, TargetEnglish); err != nil {
				logger.Warn("Translation failed, keeping original", "sentence", s, "error", err)
			} else if t != "" {
				translation = t
			}
		}

		out = append(out, models.Sentence{Text: s, Language: lang, Translation: translation})
	}
	return out
}
