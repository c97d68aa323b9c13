package transcribe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "call.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVE"), 0o644))
	return path
}

func TestOpenAIBackend_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "whisper-1", r.FormValue("model"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, "call.wav", hdr.Filename)
		data, _ := io.ReadAll(f)
		require.Equal(t, "RIFF....WAVE", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":" my name is John. "}`))
	}))
	defer srv.Close()

	b := NewOpenAIBackend("secret", "", srv.URL)
	text, err := b.Transcribe(context.Background(), writeWAV(t))
	require.NoError(t, err)
	require.Equal(t, "my name is John.", text)
}

func TestOpenAIBackend_EmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text":""}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIBackend("k", "", srv.URL).Transcribe(context.Background(), writeWAV(t))
	require.True(t, errors.Is(err, ErrUnintelligible))
}

func TestOpenAIBackend_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	b := NewOpenAIBackend("bad", "", srv.URL)
	_, err := b.Transcribe(context.Background(), writeWAV(t))
	require.ErrorContains(t, err, "openai http 401: invalid api key")
	require.False(t, errors.Is(err, ErrUnintelligible))

	require.Equal(t, ServiceErrorText, Recognize(context.Background(), b, writeWAV(t), nil))
}

func TestOpenAIBackend_MissingFile(t *testing.T) {
	_, err := NewOpenAIBackend("k", "", "http://127.0.0.1:0").Transcribe(context.Background(), filepath.Join(t.TempDir(), "nope.wav"))
	require.Error(t, err)
}
