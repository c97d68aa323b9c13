package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/pipeline"
	"github.com/spboyer/callqa/internal/reporting"
)

// Version is set at build time or defaults to dev.
var Version = "0.1.0"

// DefaultMaxUploadBytes bounds an uploaded recording.
const DefaultMaxUploadBytes = 64 << 20

// Analyzer runs the call analysis pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, in pipeline.Input) (*models.AnalysisOutcome, error)
}

// Options configures the upload and report handlers.
type Options struct {
	// UploadDir receives uploaded recordings and is served by /play_audio.
	UploadDir string
	// ReportPath is the workbook served by /download_excel.
	ReportPath string
	// MaxUploadBytes bounds the request body; DefaultMaxUploadBytes if zero.
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	store    RunStore
	analyzer Analyzer
	opts     Options

	// analyzeMu serializes analyses; they share one report file.
	analyzeMu sync.Mutex
}

// NewHandlers creates a new Handlers with the given store and analyzer.
func NewHandlers(store RunStore, analyzer Analyzer, opts Options) *Handlers {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.ReportPath == "" {
		opts.ReportPath = filepath.Join(opts.UploadDir, reporting.ReportFilename)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Handlers{store: store, analyzer: analyzer, opts: opts}
}

// Analyze stores the uploaded recording from r and runs it through the
// pipeline. Errors wrapping ErrInvalidUpload are the caller's fault.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) (*models.AnalysisOutcome, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	upload, err := SaveUpload(r, h.opts.UploadDir, h.opts.MaxUploadBytes)
	if err != nil {
		return nil, err
	}

	h.analyzeMu.Lock()
	defer h.analyzeMu.Unlock()

	h.opts.Logger.Info("Analyzing upload", "file", upload.Filename)
	return h.analyzer.Analyze(r.Context(), pipeline.Input{AudioPath: upload.Path, Filename: upload.Filename})
}

// HandleAnalyze accepts a multipart upload and returns the analysis as JSON.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.Analyze(w, r)
	if err != nil {
		if errors.Is(err, ErrInvalidUpload) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			h.opts.Logger.Error("Analysis failed", "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// HandleDownloadReport serves the latest workbook as an attachment.
func (h *Handlers) HandleDownloadReport(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.opts.ReportPath); err != nil {
		writeError(w, http.StatusNotFound, "no report has been generated yet")
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+reporting.ReportFilename+`"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, h.opts.ReportPath)
}

// HandlePlayAudio serves a previously uploaded recording by name.
func (h *Handlers) HandlePlayAudio(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeError(w, http.StatusBadRequest, "invalid file name")
		return
	}
	path := filepath.Join(h.opts.UploadDir, name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	http.ServeFile(w, r, path)
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleSummary returns aggregate KPI metrics across all runs.
func (h *Handlers) HandleSummary(w http.ResponseWriter, _ *http.Request) {
	summary, err := h.store.Summary()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleRuns returns a list of all runs, with optional sort/order query params.
func (h *Handlers) HandleRuns(w http.ResponseWriter, r *http.Request) {
	sortField := r.URL.Query().Get("sort")
	order := r.URL.Query().Get("order")

	runs, err := h.store.ListRuns(sortField, order)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// HandleRunDetail returns the full analysis of one run.
func (h *Handlers) HandleRunDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "run id is required")
		return
	}

	detail, err := h.store.GetRun(id)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// RegisterRoutes registers all web API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/summary", h.HandleSummary)
	mux.HandleFunc("GET /api/runs", h.HandleRuns)
	mux.HandleFunc("GET /api/runs/{id}", h.HandleRunDetail)
	mux.HandleFunc("POST /api/analyze", h.HandleAnalyze)
	mux.HandleFunc("GET /download_excel", h.HandleDownloadReport)
	mux.HandleFunc("GET /play_audio/{filename}", h.HandlePlayAudio)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
