// Package pipeline runs one recorded call through transcoding, recognition,
// translation, scoring and reporting.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spboyer/callqa/internal/metrics"
	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/reporting"
	"github.com/spboyer/callqa/internal/rubric"
	"github.com/spboyer/callqa/internal/suggest"
	"github.com/spboyer/callqa/internal/transcribe"
	"github.com/spboyer/callqa/internal/translate"
)

// Unknown is reported for metadata that could not be measured. The call
// duration is never measured.
const Unknown = "Unknown"

// Stage names a step of the analysis.
type Stage string

const (
	StageTranscode  Stage = "transcode"
	StageTranscribe Stage = "transcribe"
	StageTranslate  Stage = "translate"
	StageScore      Stage = "score"
	StageReport     Stage = "report"
	StagePublish    Stage = "publish"
)

// ProgressEvent reports that a stage has started or finished.
type ProgressEvent struct {
	Stage      Stage
	Done       bool
	DurationMs int64
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// Input identifies the recording to analyze.
type Input struct {
	// AudioPath is the stored upload.
	AudioPath string
	// Filename is the name reported in the call metadata; defaults to the
	// base name of AudioPath.
	Filename string
}

// Analyzer runs the analysis pipeline for one call at a time.
type Analyzer struct {
	transcoder  Transcoder
	transcriber Transcriber
	scorer      Scorer

	detector   Detector
	translator Translator
	rubric     *rubric.Rubric
	archive    Archiver
	publisher  Publisher
	metrics    *metrics.Collector
	logger     *slog.Logger
	reportPath string
	now        func() time.Time
	newID      func() string

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTranslation enables per-sentence language detection and translation.
func WithTranslation(d Detector, t Translator) Option {
	return func(a *Analyzer) {
		a.detector = d
		a.translator = t
	}
}

// WithRubric sets the rubric used for improvement suggestions. It should be
// the rubric the scorer grades with.
func WithRubric(r *rubric.Rubric) Option {
	return func(a *Analyzer) { a.rubric = r }
}

// WithArchive stores every completed analysis.
func WithArchive(store Archiver) Option {
	return func(a *Analyzer) { a.archive = store }
}

// WithPublisher publishes the report after it is written.
func WithPublisher(p Publisher) Option {
	return func(a *Analyzer) { a.publisher = p }
}

// WithMetrics records pipeline activity.
func WithMetrics(c *metrics.Collector) Option {
	return func(a *Analyzer) { a.metrics = c }
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithReportPath writes the XLSX report to path after every analysis.
func WithReportPath(path string) Option {
	return func(a *Analyzer) { a.reportPath = path }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithIDGenerator overrides the run ID source.
func WithIDGenerator(newID func() string) Option {
	return func(a *Analyzer) { a.newID = newID }
}

// NewAnalyzer creates an Analyzer from its three required stages.
func NewAnalyzer(transcoder Transcoder, transcriber Transcriber, scorer Scorer, opts ...Option) *Analyzer {
	a := &Analyzer{
		transcoder:  transcoder,
		transcriber: transcriber,
		scorer:      scorer,
		rubric:      rubric.Default(),
		logger:      slog.Default(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// OnProgress registers a progress listener
func (a *Analyzer) OnProgress(listener ProgressListener) {
	a.progressMu.Lock()
	defer a.progressMu.Unlock()
	a.listeners = append(a.listeners, listener)
}

func (a *Analyzer) notifyProgress(event ProgressEvent) {
	a.progressMu.Lock()
	listeners := make([]ProgressListener, len(a.listeners))
	copy(listeners, a.listeners)
	a.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// stage runs fn bracketed by progress events.
func (a *Analyzer) stage(s Stage, fn func() error) error {
	a.notifyProgress(ProgressEvent{Stage: s})
	start := a.now()
	err := fn()
	a.notifyProgress(ProgressEvent{Stage: s, Done: true, DurationMs: a.now().Sub(start).Milliseconds()})
	return err
}

// Analyze runs the full pipeline. Recognition and translation failures
// degrade to fallback values; transcoding, scoring and report failures are
// returned.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*models.AnalysisOutcome, error) {
	if in.AudioPath == "" {
		return nil, errors.New("audio path is required")
	}
	filename := in.Filename
	if filename == "" {
		filename = filepath.Base(in.AudioPath)
	}

	start := a.now()
	outcome := &models.AnalysisOutcome{
		RunID:     a.newID(),
		Timestamp: start,
		AudioFile: filepath.Base(in.AudioPath),
	}
	logger := a.logger.With("run", outcome.RunID, "file", filename)

	var wavPath string
	err := a.stage(StageTranscode, func() error {
		var err error
		wavPath, err = a.transcoder.Transcode(ctx, in.AudioPath)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("converting %s to wav: %w", filename, err)
	}

	outcome.Metadata = models.CallMetadata{
		Filename:     filename,
		AnalysisDate: start.Format(time.DateTime),
		FileSize:     fileSize(wavPath),
		Duration:     Unknown,
	}

	_ = a.stage(StageTranscribe, func() error {
		outcome.Transcript = transcribe.Recognize(ctx, a.transcriber, wavPath, logger)
		switch outcome.Transcript {
		case transcribe.UnintelligibleText:
			a.metrics.ObserveFallback(string(StageTranscribe), "unintelligible")
		case transcribe.ServiceErrorText:
			a.metrics.ObserveFallback(string(StageTranscribe), "service_error")
		}
		return nil
	})

	_ = a.stage(StageTranslate, func() error {
		outcome.Sentences = translate.ProcessText(ctx, outcome.Transcript, a.detector, a.translator, logger)
		for _, s := range outcome.Sentences {
			if s.Language == models.UnknownLanguage {
				a.metrics.ObserveFallback(string(StageTranslate), "unknown_language")
			}
		}
		return nil
	})

	err = a.stage(StageScore, func() error {
		card, err := a.scorer.Score(ctx, outcome.Transcript)
		if err != nil {
			return err
		}
		outcome.Scorecard = *card
		outcome.Suggestions = suggest.Generate(card, a.rubric)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scoring %s: %w", filename, err)
	}

	if a.reportPath != "" {
		outcome.ReportPath = a.reportPath
		outcome.DurationMs = a.now().Sub(start).Milliseconds()
		err = a.stage(StageReport, func() error {
			return reporting.SaveWorkbook(a.reportPath, outcome)
		})
		if err != nil {
			return nil, fmt.Errorf("writing report: %w", err)
		}

		if a.publisher != nil {
			_ = a.stage(StagePublish, func() error {
				url, err := a.publisher.Publish(ctx, a.reportPath)
				if err != nil {
					logger.Warn("Report publish failed", "error", err)
					return err
				}
				outcome.ReportURL = url
				return nil
			})
		}
	}

	outcome.DurationMs = a.now().Sub(start).Milliseconds()

	if a.archive != nil {
		if err := a.archive.Save(ctx, outcome); err != nil {
			logger.Warn("Failed to archive analysis", "error", err)
		}
	}
	a.metrics.ObserveAnalysis(outcome)

	overall, _ := outcome.Scorecard.Overall()
	logger.Info("Call analyzed", "score", overall.Score, "rating", outcome.Scorecard.Rating, "durationMs", outcome.DurationMs)
	return outcome, nil
}

// fileSize formats the size of path in kilobytes.
func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return Unknown
	}
	return fmt.Sprintf("%.2f KB", float64(info.Size())/1024)
}
