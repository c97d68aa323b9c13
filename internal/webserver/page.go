package webserver

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/reporting"
	"github.com/spboyer/callqa/internal/webapi"
)

//go:embed templates/index.html
var templateFS embed.FS

type pageData struct {
	Outcome  *models.AnalysisOutcome
	Report   template.HTML
	AudioURL string
	Error    string
}

type page struct {
	api    *webapi.Handlers
	tmpl   *template.Template
	logger *slog.Logger
}

func newPage(api *webapi.Handlers, logger *slog.Logger) (*page, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &page{api: api, tmpl: tmpl, logger: logger}, nil
}

func (p *page) handleIndex(w http.ResponseWriter, _ *http.Request) {
	p.render(w, http.StatusOK, pageData{})
}

// handleUpload analyzes the posted recording and renders the results. An
// unusable upload sends the browser back to the form.
func (p *page) handleUpload(w http.ResponseWriter, r *http.Request) {
	outcome, err := p.api.Analyze(w, r)
	if err != nil {
		if errors.Is(err, webapi.ErrInvalidUpload) {
			p.logger.Debug("rejected upload", "error", err)
			http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
			return
		}
		p.logger.Error("Analysis failed", "error", err)
		p.render(w, http.StatusInternalServerError, pageData{Error: err.Error()})
		return
	}

	report, err := reporting.HTML(outcome)
	if err != nil {
		p.render(w, http.StatusInternalServerError, pageData{Error: err.Error()})
		return
	}

	data := pageData{Outcome: outcome, Report: report}
	if outcome.AudioFile != "" {
		data.AudioURL = "/play_audio/" + url.PathEscape(outcome.AudioFile)
	}
	p.render(w, http.StatusOK, data)
}

func (p *page) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		p.logger.Error("rendering page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w) //nolint:errcheck
}
