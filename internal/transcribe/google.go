package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
)

// DefaultLanguage is the recognition language when none is configured.
const DefaultLanguage = "en-US"

const (
	// defaultSampleRate matches the transcoder's output and applies to audio
	// without a readable WAV header.
	defaultSampleRate = 16000
	// maxSyncDuration is the longest audio the synchronous Recognize call
	// accepts; longer recordings use LongRunningRecognize.
	maxSyncDuration = time.Minute
	// maxInlineBytes is the service limit for audio sent in the request body.
	maxInlineBytes = 10 << 20
)

// GoogleOptions configures the Cloud Speech-to-Text backend.
type GoogleOptions struct {
	Language        string
	Model           string
	CredentialsFile string
	Endpoint        string
}

// recognizer is the subset of the Cloud Speech client used here.
type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)
	LongRunningRecognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error)
	Close() error
}

type speechClient struct {
	c *speech.Client
}

func (s speechClient) Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	return s.c.Recognize(ctx, req)
}

// LongRunningRecognize starts the operation and waits for it to finish.
func (s speechClient) LongRunningRecognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error) {
	op, err := s.c.LongRunningRecognize(ctx, req)
	if err != nil {
		return nil, err
	}
	return op.Wait(ctx)
}

func (s speechClient) Close() error { return s.c.Close() }

// googleBackend transcribes with Google Cloud Speech-to-Text.
type googleBackend struct {
	opts      GoogleOptions
	newClient func(ctx context.Context) (recognizer, error)
}

// NewGoogleBackend returns a Cloud Speech-to-Text backend. A client is opened
// per recording.
func NewGoogleBackend(opts GoogleOptions) Backend {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	g := &googleBackend{opts: opts}
	g.newClient = g.dial
	return g
}

func (g *googleBackend) dial(ctx context.Context) (recognizer, error) {
	var clientOpts []option.ClientOption
	if g.opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(g.opts.CredentialsFile))
	}
	if g.opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(g.opts.Endpoint))
	}
	c, err := speech.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}
	return speechClient{c: c}, nil
}

func (g *googleBackend) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", err
	}
	if len(audio) > maxInlineBytes {
		return "", fmt.Errorf("%s is %d bytes, over the %d byte inline audio limit", audioPath, len(audio), maxInlineBytes)
	}

	client, err := g.newClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating speech client: %w", err)
	}
	defer client.Close()

	config, duration := g.config(audio)
	content := &speechpb.RecognitionAudio{
		AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
	}

	var results []*speechpb.SpeechRecognitionResult
	if duration > maxSyncDuration {
		resp, err := client.LongRunningRecognize(ctx, &speechpb.LongRunningRecognizeRequest{Config: config, Audio: content})
		if err != nil {
			return "", fmt.Errorf("speech recognition: %w", err)
		}
		results = resp.GetResults()
	} else {
		resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{Config: config, Audio: content})
		if err != nil {
			return "", fmt.Errorf("speech recognition: %w", err)
		}
		results = resp.GetResults()
	}

	text := joinResults(results)
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}

// config builds the recognition config for audio and reports its duration
// (zero when unknown). For WAV input the encoding is left unset so the service
// reads it from the header; the rate and channel count are copied from the
// header because the service rejects values that disagree with it.
func (g *googleBackend) config(audio []byte) (*speechpb.RecognitionConfig, time.Duration) {
	cfg := &speechpb.RecognitionConfig{
		LanguageCode:               g.opts.Language,
		Model:                      g.opts.Model,
		EnableAutomaticPunctuation: true,
	}

	format, err := parseWAV(audio)
	if err != nil {
		cfg.Encoding = speechpb.RecognitionConfig_LINEAR16
		cfg.SampleRateHertz = defaultSampleRate
		return cfg, 0
	}
	cfg.SampleRateHertz = int32(format.SampleRate)
	cfg.AudioChannelCount = int32(format.Channels)
	return cfg, format.Duration()
}

// joinResults concatenates the top alternative of every result.
func joinResults(results []*speechpb.SpeechRecognitionResult) string {
	var b strings.Builder
	for _, result := range results {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		b.WriteString(alts[0].GetTranscript())
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}
