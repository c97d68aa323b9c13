package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/spboyer/callqa/internal/graders"
	"github.com/spboyer/callqa/internal/metrics"
	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/rubric"
)

// ErrRunNotFound is returned when a run ID does not match any stored run.
var ErrRunNotFound = errors.New("run not found")

const (
	archiveExt = ".json.gz"
	plainExt   = ".json"
	topMisses  = 5
)

// RunStore provides access to archived analyses.
type RunStore interface {
	// ListRuns returns all runs, sorted by the given field and order.
	ListRuns(sortField, order string) ([]RunSummary, error)
	// GetRun returns the full analysis for a run.
	GetRun(id string) (*models.AnalysisOutcome, error)
	// Summary returns aggregate metrics across all runs.
	Summary() (*SummaryResponse, error)
}

// FileStore keeps AnalysisOutcome documents in a directory, one gzip
// compressed JSON file per run. Plain .json files are read too.
type FileStore struct {
	dir string

	mu      sync.RWMutex
	runs    map[string]*models.AnalysisOutcome
	loaded  bool
	loadErr error
}

// NewFileStore creates a FileStore that reads and writes results in dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:  dir,
		runs: make(map[string]*models.AnalysisOutcome),
	}
}

// load reads all result files from the configured directory.
func (fs *FileStore) load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.runs = make(map[string]*models.AnalysisOutcome)

	if fs.dir == "" {
		fs.loaded = true
		return nil
	}

	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if os.IsNotExist(err) {
			fs.loaded = true
			return nil
		}
		fs.loadErr = err
		return err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		var id string
		switch {
		case strings.HasSuffix(name, archiveExt):
			id = strings.TrimSuffix(name, archiveExt)
		case strings.HasSuffix(name, plainExt):
			id = strings.TrimSuffix(name, plainExt)
		default:
			continue
		}

		outcome, err := readOutcome(filepath.Join(fs.dir, name))
		if err != nil {
			continue
		}
		if outcome.RunID == "" {
			// Use filename (without extension) as fallback ID.
			outcome.RunID = id
		}
		fs.runs[outcome.RunID] = outcome
	}

	fs.loaded = true
	fs.loadErr = nil
	return nil
}

func readOutcome(path string) (*models.AnalysisOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r io.Reader = bytes.NewReader(data)
	if strings.HasSuffix(path, archiveExt) {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}

	var outcome models.AnalysisOutcome
	if err := json.NewDecoder(r).Decode(&outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// ensureLoaded loads data if not already loaded.
func (fs *FileStore) ensureLoaded() error {
	fs.mu.RLock()
	if fs.loaded {
		fs.mu.RUnlock()
		return nil
	}
	fs.mu.RUnlock()
	return fs.load()
}

// Reload forces a fresh reload of all result files from disk.
func (fs *FileStore) Reload() error {
	return fs.load()
}

// Save archives outcome as <run id>.json.gz and makes it visible to readers.
func (fs *FileStore) Save(ctx context.Context, outcome *models.AnalysisOutcome) error {
	if outcome.RunID == "" {
		return errors.New("cannot archive a run without an ID")
	}
	if err := fs.ensureLoaded(); err != nil {
		return err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(outcome); err != nil {
		return fmt.Errorf("encoding run %s: %w", outcome.RunID, err)
	}
	if err := zw.Close(); err != nil {
		return err
	}

	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	path := filepath.Join(fs.dir, outcome.RunID+archiveExt)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}

	stored := *outcome
	fs.mu.Lock()
	fs.runs[outcome.RunID] = &stored
	fs.mu.Unlock()
	return nil
}

// Scores returns the overall score of every archived run.
func (fs *FileStore) Scores(ctx context.Context) ([]float64, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	scores := make([]float64, 0, len(fs.runs))
	for _, o := range fs.runs {
		scores = append(scores, o.Scorecard.TotalScore)
	}
	return scores, nil
}

func factValue(card *models.Scorecard, criterion, prefix string) string {
	e, ok := card.Lookup(criterion)
	if !ok {
		return ""
	}
	return strings.TrimPrefix(e.Comments, prefix)
}

func outcomeToSummary(o *models.AnalysisOutcome) RunSummary {
	return RunSummary{
		ID:        o.RunID,
		Filename:  o.Metadata.Filename,
		Agent:     factValue(&o.Scorecard, rubric.AgentName, "Agent identified as: "),
		CallType:  factValue(&o.Scorecard, rubric.CallType, "Call type: "),
		Account:   factValue(&o.Scorecard, rubric.AccountNumber, "Account mentioned: "),
		Score:     o.Scorecard.TotalScore,
		Rating:    o.Scorecard.Rating,
		Duration:  float64(o.DurationMs) / 1000.0,
		Timestamp: o.Timestamp,
	}
}

// ListRuns returns all runs sorted by the given field and order.
func (fs *FileStore) ListRuns(sortField, order string) ([]RunSummary, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	runs := make([]RunSummary, 0, len(fs.runs))
	for _, o := range fs.runs {
		runs = append(runs, outcomeToSummary(o))
	}

	sortRuns(runs, sortField, order)
	return runs, nil
}

// GetRun returns a copy of a single archived analysis.
func (fs *FileStore) GetRun(id string) (*models.AnalysisOutcome, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	o, ok := fs.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	detail := *o
	return &detail, nil
}

// Summary returns aggregate metrics across all runs.
func (fs *FileStore) Summary() (*SummaryResponse, error) {
	if err := fs.ensureLoaded(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	outcomes := make([]*models.AnalysisOutcome, 0, len(fs.runs))
	for _, o := range fs.runs {
		outcomes = append(outcomes, o)
	}
	return summarize(outcomes), nil
}

func summarize(outcomes []*models.AnalysisOutcome) *SummaryResponse {
	resp := &SummaryResponse{
		Ratings:   map[string]int{},
		TopMisses: []CriterionMisses{},
	}
	if len(outcomes) == 0 {
		return resp
	}

	scores := make([]float64, 0, len(outcomes))
	misses := map[string]int{}
	totalDuration := 0.0

	for _, o := range outcomes {
		resp.TotalRuns++
		scores = append(scores, o.Scorecard.TotalScore)
		resp.Ratings[o.Scorecard.Rating]++
		totalDuration += float64(o.DurationMs) / 1000.0

		for _, e := range o.Scorecard.Criteria() {
			if !e.Informational && strings.Contains(e.Comments, graders.CommentNeedsImprovement) {
				misses[e.Criterion]++
			}
		}
	}

	resp.Scores = metrics.Summarize(scores)
	resp.AvgDuration = totalDuration / float64(resp.TotalRuns)

	for c, n := range misses {
		resp.TopMisses = append(resp.TopMisses, CriterionMisses{Criterion: c, Count: n})
	}
	sort.Slice(resp.TopMisses, func(i, j int) bool {
		if resp.TopMisses[i].Count != resp.TopMisses[j].Count {
			return resp.TopMisses[i].Count > resp.TopMisses[j].Count
		}
		return resp.TopMisses[i].Criterion < resp.TopMisses[j].Criterion
	})
	if len(resp.TopMisses) > topMisses {
		resp.TopMisses = resp.TopMisses[:topMisses]
	}
	return resp
}

func sortRuns(runs []RunSummary, field, order string) {
	less := func(i, j int) bool {
		switch field {
		case "score":
			return runs[i].Score < runs[j].Score
		case "agent":
			return runs[i].Agent < runs[j].Agent
		case "duration":
			return runs[i].Duration < runs[j].Duration
		default: // "timestamp" or empty
			return runs[i].Timestamp.Before(runs[j].Timestamp)
		}
	}

	if order == "asc" {
		sort.SliceStable(runs, less)
	} else {
		sort.SliceStable(runs, func(i, j int) bool { return less(j, i) })
	}
}

// Ensure FileStore satisfies RunStore and the archive metrics source.
var (
	_ RunStore          = (*FileStore)(nil)
	_ metrics.RunSource = (*FileStore)(nil)
)
