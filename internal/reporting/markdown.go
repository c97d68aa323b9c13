package reporting

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/spboyer/callqa/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders the analysis as a markdown document.
func Markdown(outcome *models.AnalysisOutcome) string {
	var b strings.Builder

	b.WriteString("# Call Analysis\n\n")
	for _, row := range CallInformation(outcome) {
		if row[0] == "Full Transcript" {
			continue
		}
		fmt.Fprintf(&b, "- **%s**: %s\n", row[0], escapeMarkdown(row[1]))
	}

	b.WriteString("\n## Scorecard\n\n")
	b.WriteString("| Criterion | Score | Comments |\n")
	b.WriteString("|-----------|-------|----------|\n")
	for _, e := range outcome.Scorecard.Entries {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(e.Criterion), escapeCell(e.Score), escapeCell(e.Comments))
	}

	b.WriteString("\n## Improvement Plan\n\n")
	for _, s := range outcome.Suggestions {
		fmt.Fprintf(&b, "- %s\n", escapeMarkdown(s))
	}

	if len(outcome.Sentences) > 0 {
		b.WriteString("\n## Transcription\n\n")
		b.WriteString("| Original Text | Detected Language | English Translation |\n")
		b.WriteString("|---------------|-------------------|---------------------|\n")
		for _, s := range outcome.Sentences {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(s.Text), escapeCell(s.Language), escapeCell(s.Translation))
		}
	}

	b.WriteString("\n## Full Transcript\n\n")
	b.WriteString(escapeMarkdown(outcome.Transcript))
	b.WriteString("\n")
	return b.String()
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML renders the markdown report as an HTML fragment.
func HTML(outcome *models.AnalysisOutcome) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(outcome)), &buf); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	// Raw HTML in the input is omitted unless html.WithUnsafe is set.
	return template.HTML(buf.String()), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "<", "&lt;", ">", "&gt;", "[", `\[`, "]", `\]`, "#", `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(escapeMarkdown(s), "|", `\|`)
}
