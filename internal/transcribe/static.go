package transcribe

import "context"

// Static returns fixed text for every recording. An empty Text behaves like a
// recording with no recognizable speech.
type Static struct {
	Text string
	// Err, when set, is returned instead of Text.
	Err error
}

func (s *Static) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	if s.Text == "" {
		return "", ErrUnintelligible
	}
	return s.Text, nil
}
