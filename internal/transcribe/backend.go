// Package transcribe turns a WAV recording into transcript text through a
// pluggable speech-to-text backend.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Transcripts substituted for a failed recognition. Downstream stages score
// them like any other text.
const (
	UnintelligibleText = "Could not understand the audio"
	ServiceErrorText   = "Error connecting to the speech recognition service"
)

// ErrUnintelligible is returned by a backend that reached the service but got
// no usable speech back.
var ErrUnintelligible = errors.New("speech was not recognized")

// Backend is a pluggable transcription backend.
type Backend interface {
	// Transcribe returns the recognized text of the WAV file at audioPath.
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Backend names accepted by New.
const (
	BackendGoogle = "google"
	BackendOpenAI = "openai"
	BackendStatic = "static"
)

// Options configures backend construction.
type Options struct {
	// Backend is one of BackendGoogle, BackendOpenAI or BackendStatic.
	Backend string
	// Language is the BCP-47 code passed to backends that take one.
	Language string
	// Model selects a backend-specific recognition model.
	Model string
	// CredentialsFile is a Google service account key; empty uses
	// application default credentials.
	CredentialsFile string
	// APIKey authenticates the OpenAI backend.
	APIKey string
	// Endpoint overrides the backend's service URL.
	Endpoint string
	// Text is returned by the static backend.
	Text string
}

// New selects a backend by name.
func New(opts Options) (Backend, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendGoogle, "":
		return NewGoogleBackend(GoogleOptions{
			Language:        opts.Language,
			Model:           opts.Model,
			CredentialsFile: opts.CredentialsFile,
			Endpoint:        opts.Endpoint,
		}), nil
	case BackendOpenAI:
		if opts.APIKey == "" {
			return nil, errors.New("openai transcriber requires an API key")
		}
		return NewOpenAIBackend(opts.APIKey, opts.Model, opts.Endpoint), nil
	case BackendStatic:
		return &Static{Text: opts.Text}, nil
	default:
		return nil, fmt.Errorf("unknown transcriber backend %q: must be %s, %s, or %s", opts.Backend, BackendGoogle, BackendOpenAI, BackendStatic)
	}
}

// Recognize runs b and never fails: an unintelligible recording becomes
// UnintelligibleText and every other error ServiceErrorText.
func Recognize(ctx context.Context, b Backend, audioPath string, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}

	text, err := b.Transcribe(ctx, audioPath)
	switch {
	case errors.Is(err, ErrUnintelligible):
		logger.Warn("Speech not recognized", "file", audioPath)
		return UnintelligibleText
	case err != nil:
		logger.Warn("Speech recognition failed", "file", audioPath, "error", err)
		return ServiceErrorText
	case strings.TrimSpace(text) == "":
		logger.Warn("Speech recognition returned no text", "file", audioPath)
		return UnintelligibleText
	}
	return text
}
