package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/callqa/internal/models"
)

const maxCommentWidth = 60

// printOutcome writes the scorecard table, the improvement plan and where the
// report went.
func printOutcome(w io.Writer, outcome *models.AnalysisOutcome) {
	printScorecard(w, &outcome.Scorecard)
	printSuggestions(w, outcome.Suggestions)

	if outcome.ReportPath != "" {
		fmt.Fprintf(w, "\nReport saved to: %s\n", outcome.ReportPath) //nolint:errcheck
	}
	if outcome.ReportURL != "" {
		fmt.Fprintf(w, "Report published to: %s\n", outcome.ReportURL) //nolint:errcheck
	}
}

// printScorecard renders the scorecard as an aligned table. Widths are
// measured in terminal cells so translated names line up.
func printScorecard(w io.Writer, card *models.Scorecard) {
	headers := [3]string{"Criterion", "Score", "Comments"}
	rows := make([][3]string, 0, len(card.Entries))
	for _, e := range card.Entries {
		rows = append(rows, [3]string{e.Criterion, e.Score, runewidth.Truncate(e.Comments, maxCommentWidth, "…")})
	}

	var widths [3]int
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	writeRow := func(r [3]string) {
		fmt.Fprintf(w, "%s  %s  %s\n", padRight(r[0], widths[0]), padRight(r[1], widths[1]), r[2]) //nolint:errcheck
	}
	writeRow(headers)
	fmt.Fprintln(w, strings.Repeat("-", widths[0]+widths[1]+widths[2]+4)) //nolint:errcheck
	for _, r := range rows {
		writeRow(r)
	}
}

func printSuggestions(w io.Writer, suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(w, "\nImprovement Plan:") //nolint:errcheck
	for i, s := range suggestions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s) //nolint:errcheck
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
