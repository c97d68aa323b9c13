package webserver

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spboyer/callqa/internal/webapi"
)

// registerRoutes sets up the page, API and metrics routes on the given mux.
func registerRoutes(mux *http.ServeMux, cfg Config) error {
	webapi.RegisterRoutes(mux, cfg.API)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Metrics, promhttp.HandlerOpts{}))
	}

	p, err := newPage(cfg.API, cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize upload page: %w", err)
	}
	mux.HandleFunc("GET /{$}", p.handleIndex)
	mux.HandleFunc("POST /{$}", p.handleUpload)
	return nil
}
