package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Local copies reports into a directory, typically a mounted share.
type Local struct {
	Dir string
	now func() time.Time
}

// NewLocal creates a Local publisher writing into dir.
func NewLocal(dir string) *Local {
	return &Local{Dir: dir, now: time.Now}
}

// Publish copies reportPath into the directory and returns the copy's path.
func (l *Local) Publish(ctx context.Context, reportPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := os.Open(reportPath)
	if err != nil {
		return "", fmt.Errorf("opening report: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating publish directory: %w", err)
	}

	dest := filepath.Join(l.Dir, objectName(reportPath, l.now()))
	dst, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("copying report: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return dest, nil
	}
	return abs, nil
}
