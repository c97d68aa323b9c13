package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	resp     *speechpb.RecognizeResponse
	longResp *speechpb.LongRunningRecognizeResponse
	err      error
	req      *speechpb.RecognizeRequest
	longReq  *speechpb.LongRunningRecognizeRequest
	closed   bool
}

func (f *fakeRecognizer) Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	f.req = req
	return f.resp, f.err
}

func (f *fakeRecognizer) LongRunningRecognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error) {
	f.longReq = req
	return f.longResp, f.err
}

func (f *fakeRecognizer) Close() error {
	f.closed = true
	return nil
}

func newTestGoogleBackend(fake *fakeRecognizer) *googleBackend {
	g := NewGoogleBackend(GoogleOptions{Language: "en-ZA", Model: "phone_call"}).(*googleBackend)
	g.newClient = func(ctx context.Context) (recognizer, error) { return fake, nil }
	return g
}

func alternative(text string) *speechpb.SpeechRecognitionResult {
	return &speechpb.SpeechRecognitionResult{
		Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: text}},
	}
}

func TestGoogleBackend_JoinsResults(t *testing.T) {
	fake := &fakeRecognizer{resp: &speechpb.RecognizeResponse{Results: []*speechpb.SpeechRecognitionResult{
		alternative("my name is John."),
		{},
		alternative("this is an outbound call."),
	}}}

	text, err := newTestGoogleBackend(fake).Transcribe(context.Background(), writeWAV(t))
	require.NoError(t, err)
	require.Equal(t, "my name is John. this is an outbound call.", text)
	require.True(t, fake.closed)

	cfg := fake.req.GetConfig()
	require.Equal(t, "en-ZA", cfg.GetLanguageCode())
	require.Equal(t, "phone_call", cfg.GetModel())
	require.Equal(t, int32(16000), cfg.GetSampleRateHertz())
	require.Equal(t, speechpb.RecognitionConfig_LINEAR16, cfg.GetEncoding())
	require.Equal(t, []byte("RIFF....WAVE"), fake.req.GetAudio().GetContent())
}

func TestGoogleBackend_NoResults(t *testing.T) {
	fake := &fakeRecognizer{resp: &speechpb.RecognizeResponse{}}
	_, err := newTestGoogleBackend(fake).Transcribe(context.Background(), writeWAV(t))
	require.ErrorIs(t, err, ErrUnintelligible)
}

func TestGoogleBackend_ServiceError(t *testing.T) {
	fake := &fakeRecognizer{err: errors.New("PermissionDenied")}
	_, err := newTestGoogleBackend(fake).Transcribe(context.Background(), writeWAV(t))
	require.ErrorContains(t, err, "speech recognition: PermissionDenied")
	require.NotErrorIs(t, err, ErrUnintelligible)
}

func TestGoogleBackend_ClientError(t *testing.T) {
	g := NewGoogleBackend(GoogleOptions{}).(*googleBackend)
	g.newClient = func(ctx context.Context) (recognizer, error) { return nil, errors.New("no credentials") }

	_, err := g.Transcribe(context.Background(), writeWAV(t))
	require.ErrorContains(t, err, "creating speech client: no credentials")
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestGoogleBackend_UsesWAVHeaderFormat(t *testing.T) {
	fake := &fakeRecognizer{resp: &speechpb.RecognizeResponse{Results: []*speechpb.SpeechRecognitionResult{
		alternative("hello"),
	}}}
	path := writeFile(t, "call.wav", pcmWAV(44100, 2, 2*time.Second))

	text, err := newTestGoogleBackend(fake).Transcribe(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "hello", text)
	require.Nil(t, fake.longReq)

	cfg := fake.req.GetConfig()
	require.Equal(t, int32(44100), cfg.GetSampleRateHertz())
	require.Equal(t, int32(2), cfg.GetAudioChannelCount())
	require.Equal(t, speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, cfg.GetEncoding())
}

func TestGoogleBackend_LongRecordingUsesLongRunningRecognize(t *testing.T) {
	fake := &fakeRecognizer{longResp: &speechpb.LongRunningRecognizeResponse{Results: []*speechpb.SpeechRecognitionResult{
		alternative("my name is John."),
		alternative("thank you."),
	}}}
	path := writeFile(t, "call.wav", pcmWAV(16000, 1, 90*time.Second))

	text, err := newTestGoogleBackend(fake).Transcribe(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "my name is John. thank you.", text)
	require.Nil(t, fake.req)
	require.Equal(t, int32(16000), fake.longReq.GetConfig().GetSampleRateHertz())
	require.Equal(t, "en-ZA", fake.longReq.GetConfig().GetLanguageCode())
}

func TestGoogleBackend_LongRecordingError(t *testing.T) {
	fake := &fakeRecognizer{err: errors.New("DeadlineExceeded")}
	path := writeFile(t, "call.wav", pcmWAV(16000, 1, 2*time.Minute))

	_, err := newTestGoogleBackend(fake).Transcribe(context.Background(), path)
	require.ErrorContains(t, err, "speech recognition: DeadlineExceeded")
}

func TestGoogleBackend_RejectsOversizedAudio(t *testing.T) {
	fake := &fakeRecognizer{}
	path := writeFile(t, "call.wav", make([]byte, maxInlineBytes+1))

	_, err := newTestGoogleBackend(fake).Transcribe(context.Background(), path)
	require.ErrorContains(t, err, "inline audio limit")
	require.Nil(t, fake.req)
	require.Nil(t, fake.longReq)
}
