package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is the public Google Translate web endpoint.
const DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// ErrEmptyResponse is returned when the service answers without a usable
// payload.
var ErrEmptyResponse = errors.New("translate: empty response")

// GoogleClient talks to the Google Translate web endpoint. One request yields
// both the translation and the detected source language, so the client
// serves as Detector and Translator.
type GoogleClient struct {
	Endpoint   string
	HTTPClient *http.Client
}

var (
	_ Detector   = (*GoogleClient)(nil)
	_ Translator = (*GoogleClient)(nil)
)

// NewGoogleClient returns a client for endpoint, or DefaultEndpoint if empty.
func NewGoogleClient(endpoint string) *GoogleClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &GoogleClient{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// result is the decoded part of a translate_a/single response.
type result struct {
	Text     string
	Language string
}

func (c *GoogleClient) Detect(ctx context.Context, sentence string) (string, error) {
	r, err := c.call(ctx, sentence, SourceAuto, TargetEnglish)
	if err != nil {
		return "", err
	}
	if r.Language == "" {
		return "", ErrEmptyResponse
	}
	return r.Language, nil
}

func (c *GoogleClient) Translate(ctx context.Context, sentence, source, target string) (string, error) {
	r, err := c.call(ctx, sentence, source, target)
	if err != nil {
		return "", err
	}
	if r.Text == "" {
		return "", ErrEmptyResponse
	}
	return r.Text, nil
}

func (c *GoogleClient) call(ctx context.Context, sentence, source, target string) (*result, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", sentence)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("translate http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding translate response: %w", err)
	}
	return parseResult(raw)
}

// parseResult reads a response of the form
// [[["translated","original",...],...],null,"detected",...].
func parseResult(raw []json.RawMessage) (*result, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyResponse
	}

	var r result

	var segments [][]any
	if err := json.Unmarshal(raw[0], &segments); err == nil {
		var b strings.Builder
		for _, seg := range segments {
			if len(seg) == 0 {
				continue
			}
			if s, ok := seg[0].(string); ok {
				b.WriteString(s)
			}
		}
		r.Text = strings.TrimSpace(b.String())
	}

	if len(raw) > 2 {
		_ = json.Unmarshal(raw[2], &r.Language)
	}

	if r.Text == "" && r.Language == "" {
		return nil, ErrEmptyResponse
	}
	return &r, nil
}
