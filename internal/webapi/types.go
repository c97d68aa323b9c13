package webapi

import (
	"time"

	"github.com/spboyer/callqa/internal/metrics"
)

// RunSummary is the API response for a single run in the list.
type RunSummary struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Agent     string    `json:"agent"`
	CallType  string    `json:"callType"`
	Account   string    `json:"account"`
	Score     float64   `json:"score"`
	Rating    string    `json:"rating"`
	Duration  float64   `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

// CriterionMisses counts how often a criterion needed improvement.
type CriterionMisses struct {
	Criterion string `json:"criterion"`
	Count     int    `json:"count"`
}

// SummaryResponse is the aggregate KPI response.
type SummaryResponse struct {
	TotalRuns   int                `json:"totalRuns"`
	Scores      metrics.ScoreStats `json:"scores"`
	Ratings     map[string]int     `json:"ratings"`
	TopMisses   []CriterionMisses  `json:"topMisses"`
	AvgDuration float64            `json:"avgDuration"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
