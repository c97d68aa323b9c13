package reporting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spboyer/callqa/internal/graders"
	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/rubric"
	"github.com/xuri/excelize/v2"
)

// ReportFilename is the name the workbook is written and downloaded under.
const ReportFilename = "call_analysis.xlsx"

// Sheet names, in workbook order.
const (
	SheetCallInformation = "Call Information"
	SheetTranscription   = "Transcription"
	SheetScorecard       = "Scorecard"
	SheetImprovementPlan = "Improvement Plan"
	SheetReferenceGuide  = "Reference Guide"
)

// Row fill colors on the Scorecard sheet.
const (
	ColorExcellent        = "#C6EFCE"
	ColorGood             = "#FFEB9C"
	ColorNeedsImprovement = "#FFC7CE"
	colorHeader           = "#D3D3D3"
	colorOverall          = "#B8CCE4"
)

// referenceGuide is the collections script summary shown on the last sheet.
var referenceGuide = [][]string{
	{"Greeting", "Good morning/Afternoon/Good Evening, may I please speak to...", "Required"},
	{"Call and Business Disclosure", "This call is being recorded for Quality and Security Purposes...", "Required (5%)"},
	{"Authentication", "To ensure that I am speaking with the correct customer...", "Critical (20%)"},
	{"Reason for the Call", "Mention the problem - missed/short payment, broken promise...", "Required"},
	{"Obtaining reason for default", "Why did you fail to pay your instalment?", "Important (10%)"},
	{"Negotiation", "Request payments in descending order: 100%, 30%, 10%", "Important (10%)"},
	{"Forbearance", "Offer the forbs plan to account from D2D-D5D", "Important (10%)"},
	{"NCA Disclaimer", "ABSA is legally required to provide an update of your credit record...", "Important (10%)"},
	{"Payment Method", "Will you be paying via Cash deposit, internet banking...", "Required (5%)"},
	{"CIF Confirmation", "Could we please confirm if we have your correct information?", "Important (10%)"},
	{"Closing", "Recap the PTP date, amount, and payment method", "Required (5%)"},
}

// RowColor returns the fill for a scorecard row from its comment, or "" when
// the row is left unfilled.
func RowColor(comment string) string {
	switch {
	case strings.Contains(comment, graders.CommentExcellent):
		return ColorExcellent
	case strings.Contains(comment, graders.CommentGood), strings.Contains(comment, graders.CommentAverage):
		return ColorGood
	case strings.Contains(comment, graders.CommentNeedsImprovement):
		return ColorNeedsImprovement
	default:
		return ""
	}
}

// CallInformation returns the label/value rows of the Call Information sheet.
func CallInformation(outcome *models.AnalysisOutcome) [][2]string {
	rows := outcome.Metadata.Pairs()

	facts := []struct{ criterion, label, prefix string }{
		{rubric.AgentName, "Agent", "Agent identified as: "},
		{rubric.CallType, "Call Type", "Call type: "},
		{rubric.AccountNumber, "Account", "Account mentioned: "},
	}
	for _, f := range facts {
		if e, ok := outcome.Scorecard.Lookup(f.criterion); ok {
			rows = append(rows, [2]string{f.label, strings.TrimPrefix(e.Comments, f.prefix)})
		}
	}
	if overall, ok := outcome.Scorecard.Overall(); ok {
		rows = append(rows, [2]string{"Overall Score", overall.Comments})
	}
	return append(rows, [2]string{"Full Transcript", outcome.Transcript})
}

type workbook struct {
	f      *excelize.File
	header int
}

// Workbook builds the five-sheet analysis report. The caller closes the file.
func Workbook(outcome *models.AnalysisOutcome) (*excelize.File, error) {
	f := excelize.NewFile()
	wb := &workbook{f: f}

	var err error
	wb.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   solidFill(colorHeader),
		Border: thinBorder(),
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	steps := []struct {
		sheet string
		fill  func(string, *models.AnalysisOutcome) error
	}{
		{SheetCallInformation, wb.callInformation},
		{SheetTranscription, wb.transcription},
		{SheetScorecard, wb.scorecard},
		{SheetImprovementPlan, wb.improvementPlan},
		{SheetReferenceGuide, wb.referenceGuide},
	}

	for i, s := range steps {
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), s.sheet)
		} else {
			_, err = f.NewSheet(s.sheet)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating sheet %q: %w", s.sheet, err)
		}
		if err := s.fill(s.sheet, outcome); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing sheet %q: %w", s.sheet, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook renders the report for outcome to w.
func WriteWorkbook(w io.Writer, outcome *models.AnalysisOutcome) error {
	f, err := Workbook(outcome)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveWorkbook writes the report for outcome to path, creating parent
// directories as needed. The workbook is written to a temporary file in the
// same directory and renamed into place, so readers never see a partial file.
func SaveWorkbook(path string, outcome *models.AnalysisOutcome) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := WriteWorkbook(tmp, outcome); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("saving report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

func (wb *workbook) callInformation(sheet string, outcome *models.AnalysisOutcome) error {
	if err := wb.headerRow(sheet, "Field", "Value"); err != nil {
		return err
	}
	for i, row := range CallInformation(outcome) {
		if err := wb.row(sheet, i+2, row[0], row[1]); err != nil {
			return err
		}
	}
	return wb.widths(sheet, 20, 80)
}

func (wb *workbook) transcription(sheet string, outcome *models.AnalysisOutcome) error {
	if err := wb.headerRow(sheet, "Original Text", "Detected Language", "English Translation"); err != nil {
		return err
	}
	for i, s := range outcome.Sentences {
		if err := wb.row(sheet, i+2, s.Text, s.Language, s.Translation); err != nil {
			return err
		}
	}
	return wb.widths(sheet, 50, 15, 50)
}

func (wb *workbook) scorecard(sheet string, outcome *models.AnalysisOutcome) error {
	if err := wb.headerRow(sheet, "Criterion", "Score", "Comments"); err != nil {
		return err
	}

	fills := map[string]int{}
	overallStyle, err := wb.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Fill:      solidFill(colorOverall),
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for i, e := range outcome.Scorecard.Entries {
		rowIdx := i + 2
		first, _ := excelize.CoordinatesToCellName(1, rowIdx)
		last, _ := excelize.CoordinatesToCellName(3, rowIdx)

		if e.IsOverall() {
			if err := wb.f.SetCellValue(sheet, first, models.OverallCriterion+": "+e.Comments); err != nil {
				return err
			}
			if err := wb.f.MergeCell(sheet, first, last); err != nil {
				return err
			}
			if err := wb.f.SetCellStyle(sheet, first, last, overallStyle); err != nil {
				return err
			}
			continue
		}

		if err := wb.row(sheet, rowIdx, e.Criterion, e.Score, e.Comments); err != nil {
			return err
		}
		color := RowColor(e.Comments)
		if color == "" {
			continue
		}
		style, ok := fills[color]
		if !ok {
			style, err = wb.f.NewStyle(&excelize.Style{Fill: solidFill(color)})
			if err != nil {
				return err
			}
			fills[color] = style
		}
		if err := wb.f.SetCellStyle(sheet, first, last, style); err != nil {
			return err
		}
	}
	return wb.widths(sheet, 30, 20, 50)
}

func (wb *workbook) improvementPlan(sheet string, outcome *models.AnalysisOutcome) error {
	if err := wb.headerRow(sheet, "Suggestions for Improvement"); err != nil {
		return err
	}
	for i, s := range outcome.Suggestions {
		if err := wb.row(sheet, i+2, s); err != nil {
			return err
		}
	}
	return wb.widths(sheet, 80)
}

func (wb *workbook) referenceGuide(sheet string, _ *models.AnalysisOutcome) error {
	if err := wb.headerRow(sheet, "Script Section", "Description", "Importance"); err != nil {
		return err
	}
	for i, r := range referenceGuide {
		if err := wb.row(sheet, i+2, r...); err != nil {
			return err
		}
	}
	return wb.widths(sheet, 25, 60, 20)
}

func (wb *workbook) headerRow(sheet string, values ...string) error {
	if err := wb.row(sheet, 1, values...); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(values), 1)
	return wb.f.SetCellStyle(sheet, "A1", last, wb.header)
}

func (wb *workbook) row(sheet string, rowIdx int, values ...string) error {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	start, _ := excelize.CoordinatesToCellName(1, rowIdx)
	return wb.f.SetSheetRow(sheet, start, &cells)
}

func (wb *workbook) widths(sheet string, widths ...float64) error {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := wb.f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

func thinBorder() []excelize.Border {
	sides := []string{"left", "top", "right", "bottom"}
	out := make([]excelize.Border, len(sides))
	for i, side := range sides {
		out[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return out
}
