// Package publish copies finished reports to a shared location.
package publish

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spboyer/callqa/internal/projectconfig"
)

// Publisher makes a report available outside the server and returns where it
// ended up.
type Publisher interface {
	Publish(ctx context.Context, reportPath string) (string, error)
}

// New builds the publisher selected by cfg. It returns nil for the "none"
// target.
func New(cfg projectconfig.PublishConfig) (Publisher, error) {
	switch cfg.Target {
	case "", projectconfig.PublishNone:
		return nil, nil
	case projectconfig.PublishLocal:
		return NewLocal(cfg.Dir), nil
	case projectconfig.PublishAzure:
		return NewAzureBlob(cfg.AccountURL, cfg.Container)
	default:
		return nil, fmt.Errorf("unknown publish target %q", cfg.Target)
	}
}

// objectName stamps the report's base name so successive reports do not
// overwrite each other.
func objectName(reportPath string, now time.Time) string {
	return now.UTC().Format("20060102-150405") + "-" + filepath.Base(reportPath)
}
