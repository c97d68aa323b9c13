package models

import (
	"time"
)

// GraderKind identifies the type of grader that produced a result.
type GraderKind string

const (
	// GraderKindKeyword scores a criterion from keyword hits in the transcript.
	GraderKindKeyword GraderKind = "keyword"
	// GraderKindInfo reports an extracted fact; it never contributes points.
	GraderKindInfo GraderKind = "info"
)

// AnalysisOutcome represents the complete result of analyzing one call.
type AnalysisOutcome struct {
	RunID       string       `json:"run_id"`
	Timestamp   time.Time    `json:"timestamp"`
	Metadata    CallMetadata `json:"metadata"`
	AudioFile   string       `json:"audio_file,omitempty"`
	Transcript  string       `json:"transcript"`
	Sentences   []Sentence   `json:"sentences"`
	Scorecard   Scorecard    `json:"scorecard"`
	Suggestions []string     `json:"suggestions"`
	ReportPath  string       `json:"report_path,omitempty"`
	ReportURL   string       `json:"report_url,omitempty"`
	DurationMs  int64        `json:"duration_ms"`
}

// CallMetadata describes the recording that was analyzed. The JSON keys double
// as the field labels on the report's Call Information sheet.
type CallMetadata struct {
	Filename     string `json:"filename"`
	AnalysisDate string `json:"analysis_date"`
	FileSize     string `json:"file_size"`
	Duration     string `json:"duration"`
}

// Pairs returns the metadata as ordered label/value pairs.
func (m CallMetadata) Pairs() [][2]string {
	return [][2]string{
		{"filename", m.Filename},
		{"analysis_date", m.AnalysisDate},
		{"file_size", m.FileSize},
		{"duration", m.Duration},
	}
}

// GraderResults is the raw output of grading one criterion.
type GraderResults struct {
	Name       string         `json:"identifier"`
	Type       GraderKind     `json:"type"`
	Score      float64        `json:"score"`
	Weight     float64        `json:"weight"`
	Passed     bool           `json:"passed"`
	Feedback   string         `json:"feedback"`
	Details    map[string]any `json:"details,omitempty"`
	DurationMs int64          `json:"duration_ms"`
}
