package metrics

import (
	"context"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spboyer/callqa/internal/graders"
	"github.com/spboyer/callqa/internal/models"
)

const namespace = "callqa"

// Collector records pipeline activity. A nil *Collector discards everything.
type Collector struct {
	analyses  *prometheus.CounterVec
	duration  prometheus.Histogram
	scores    prometheus.Histogram
	misses    *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
}

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed call analyses by overall rating.",
		}, []string{"rating"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one call analysis, upload to report.",
			Buckets:   []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overall_score",
			Help:      "Overall call score out of 100.",
			Buckets:   []float64{50, 60, 70, 80, 90, 100},
		}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "criterion_needs_improvement_total",
			Help:      "Scored criteria flagged as needing improvement.",
		}, []string{"criterion"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Degraded pipeline steps by stage and reason.",
		}, []string{"stage", "reason"}),
	}
	reg.MustRegister(c.analyses, c.duration, c.scores, c.misses, c.fallbacks)
	return c
}

// ObserveAnalysis records a completed analysis.
func (c *Collector) ObserveAnalysis(outcome *models.AnalysisOutcome) {
	if c == nil || outcome == nil {
		return
	}
	c.analyses.WithLabelValues(outcome.Scorecard.Rating).Inc()
	c.duration.Observe(float64(outcome.DurationMs) / 1000)
	c.scores.Observe(outcome.Scorecard.TotalScore)

	for _, e := range outcome.Scorecard.Criteria() {
		if !e.Informational && strings.Contains(e.Comments, graders.CommentNeedsImprovement) {
			c.misses.WithLabelValues(e.Criterion).Inc()
		}
	}
}

// ObserveFallback records a pipeline stage that substituted a fallback value.
func (c *Collector) ObserveFallback(stage, reason string) {
	if c == nil {
		return
	}
	c.fallbacks.WithLabelValues(stage, reason).Inc()
}

// RunSource lists the overall scores of archived runs.
type RunSource interface {
	Scores(ctx context.Context) ([]float64, error)
}

var (
	archivedRunsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "archive", "runs"),
		"Number of archived analyses.",
		nil, nil,
	)
	archivedMeanDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "archive", "score_mean"),
		"Mean overall score across archived analyses.",
		nil, nil,
	)
)

// ArchiveCollector is a custom Prometheus collector that reads the run
// archive on each scrape.
type ArchiveCollector struct {
	source RunSource
}

// NewArchiveCollector returns a collector over source.
func NewArchiveCollector(source RunSource) *ArchiveCollector {
	return &ArchiveCollector{source: source}
}

// Describe sends the metric descriptors to the channel.
func (c *ArchiveCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- archivedRunsDesc
	ch <- archivedMeanDesc
}

// Collect summarizes the archive and emits it as gauges.
func (c *ArchiveCollector) Collect(ch chan<- prometheus.Metric) {
	scores, err := c.source.Scores(context.Background())
	if err != nil {
		slog.Error("failed to collect archive metrics", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(archivedRunsDesc, prometheus.GaugeValue, float64(len(scores)))
	ch <- prometheus.MustNewConstMetric(archivedMeanDesc, prometheus.GaugeValue, Mean(scores))
}
