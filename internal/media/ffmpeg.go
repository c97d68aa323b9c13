// Package media converts uploaded recordings into the WAV format the speech
// backends expect.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Transcoder converts an audio file to mono 16 kHz WAV.
type Transcoder interface {
	// Transcode returns the path of the WAV rendition of path.
	Transcode(ctx context.Context, path string) (string, error)
}

// FFmpeg shells out to the ffmpeg binary.
type FFmpeg struct {
	// Binary is the ffmpeg executable; defaults to "ffmpeg" on PATH.
	Binary string
}

var _ Transcoder = (*FFmpeg)(nil)

// IsWAV reports whether path already has a .wav extension.
func IsWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// WAVPath returns the sibling <base>.wav path for path.
func WAVPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"
}

// Transcode writes <base>.wav next to path. WAV input is returned untouched.
func (f *FFmpeg) Transcode(ctx context.Context, path string) (string, error) {
	if IsWAV(path) {
		return path, nil
	}

	binary := f.Binary
	if binary == "" {
		binary = "ffmpeg"
	}

	out := WAVPath(path)

	// ffmpeg -y -i input -ac 1 -ar 16000 -f wav output
	cmd := exec.CommandContext(ctx, binary,
		"-y", "-i", path,
		"-ac", "1", "-ar", "16000",
		"-f", "wav",
		out,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg %s: %w: %s", filepath.Base(path), err, lastLine(stderr.String()))
	}
	return out, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
