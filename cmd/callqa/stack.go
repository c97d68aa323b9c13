package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spboyer/callqa/internal/media"
	"github.com/spboyer/callqa/internal/metrics"
	"github.com/spboyer/callqa/internal/pipeline"
	"github.com/spboyer/callqa/internal/projectconfig"
	"github.com/spboyer/callqa/internal/publish"
	"github.com/spboyer/callqa/internal/reporting"
	"github.com/spboyer/callqa/internal/rubric"
	"github.com/spboyer/callqa/internal/scoring"
	"github.com/spboyer/callqa/internal/transcribe"
	"github.com/spboyer/callqa/internal/translate"
	"github.com/spboyer/callqa/internal/utils"
	"github.com/spboyer/callqa/internal/webapi"
)

// stackFlags are the command-line overrides shared by analyze and serve.
type stackFlags struct {
	backend     string
	text        string
	rubricPath  string
	resultsDir  string
	uploadsDir  string
	reportPath  string
	noTranslate bool
	noArchive   bool
}

// stack is the wired analysis pipeline and its supporting services.
type stack struct {
	analyzer   *pipeline.Analyzer
	rubric     *rubric.Rubric
	store      *webapi.FileStore
	registry   *prometheus.Registry
	uploadsDir string
	reportPath string
}

func loadRubric(cfg *projectconfig.ProjectConfig, override string) (*rubric.Rubric, error) {
	path := override
	if path == "" {
		path = utils.ResolvePath(cfg.Rubric.Path, cfg.Dir)
	}
	return rubric.LoadOrDefault(path)
}

func buildStack(cfg *projectconfig.ProjectConfig, f stackFlags, logger *slog.Logger) (*stack, error) {
	r, err := loadRubric(cfg, f.rubricPath)
	if err != nil {
		return nil, err
	}

	backendName := cfg.Transcriber.Backend
	if f.backend != "" {
		backendName = f.backend
	}
	backend, err := transcribe.New(transcribe.Options{
		Backend:         backendName,
		Language:        cfg.Transcriber.Language,
		Model:           cfg.Transcriber.Model,
		CredentialsFile: utils.ResolvePath(cfg.Transcriber.CredentialsFile, cfg.Dir),
		APIKey:          cfg.Transcriber.APIKey(),
		Endpoint:        cfg.Transcriber.Endpoint,
		Text:            f.text,
	})
	if err != nil {
		return nil, err
	}

	pubCfg := cfg.Publish
	pubCfg.Dir = utils.ResolvePath(pubCfg.Dir, cfg.Dir)
	publisher, err := publish.New(pubCfg)
	if err != nil {
		return nil, fmt.Errorf("configuring publisher: %w", err)
	}

	s := &stack{
		rubric:     r,
		registry:   prometheus.NewRegistry(),
		uploadsDir: firstNonEmpty(f.uploadsDir, utils.ResolvePath(cfg.Paths.Uploads, cfg.Dir)),
	}
	s.store = webapi.NewFileStore(firstNonEmpty(f.resultsDir, utils.ResolvePath(cfg.Paths.Results, cfg.Dir)))
	s.reportPath = firstNonEmpty(f.reportPath, filepath.Join(s.uploadsDir, reporting.ReportFilename))

	opts := []pipeline.Option{
		pipeline.WithRubric(r),
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(metrics.New(s.registry)),
		pipeline.WithReportPath(s.reportPath),
	}
	if cfg.Translator.IsEnabled() && !f.noTranslate {
		client := translate.NewGoogleClient(cfg.Translator.Endpoint)
		opts = append(opts, pipeline.WithTranslation(client, client))
	}
	if !f.noArchive {
		opts = append(opts, pipeline.WithArchive(s.store))
	}
	if publisher != nil {
		opts = append(opts, pipeline.WithPublisher(publisher))
	}

	s.analyzer = pipeline.NewAnalyzer(
		&media.FFmpeg{Binary: cfg.Media.FFmpeg},
		backend,
		scoring.NewRubricScorer(r),
		opts...,
	)
	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
