package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultOpenAIEndpoint = "https://api.openai.com/v1/audio/transcriptions"
	defaultOpenAIModel    = "whisper-1"
)

// openAIBackend is speech-to-text via audio.transcriptions.
type openAIBackend struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewOpenAIBackend returns an OpenAI transcription backend. Empty model and
// endpoint fall back to whisper-1 and the public API.
func NewOpenAIBackend(apiKey, model, endpoint string) Backend {
	if model == "" {
		model = defaultOpenAIModel
	}
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}
	return &openAIBackend{
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Minute},
	}
}

type openAIResp struct {
	Text string `json:"text"`
}

func (o *openAIBackend) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", o.model); err != nil {
		return "", err
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("openai http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var or openAIResp
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return "", fmt.Errorf("decoding openai response: %w", err)
	}
	text := strings.TrimSpace(or.Text)
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}
