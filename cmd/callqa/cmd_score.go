package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/scoring"
	"github.com/spboyer/callqa/internal/suggest"
	"github.com/spf13/cobra"
)

func newScoreCommand() *cobra.Command {
	var (
		rubricPath string
		asJSON     bool
		minScore   float64
		minRating  string
	)

	cmd := &cobra.Command{
		Use:   "score [transcript.txt]",
		Short: "Score a transcript without audio processing",
		Long: `Score transcript text against the rubric and print the scorecard and
improvement plan. Reads standard input when no file (or "-") is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := parseMinRating(minRating)
			if err != nil {
				return err
			}

			text, err := readTranscript(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			r, err := loadRubric(cfg, rubricPath)
			if err != nil {
				return err
			}

			card, err := scoring.NewRubricScorer(r).Score(cmd.Context(), text)
			if err != nil {
				return err
			}
			outcome := &models.AnalysisOutcome{
				Transcript:  text,
				Scorecard:   *card,
				Suggestions: suggest.Generate(card, r),
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(outcome); err != nil {
					return err
				}
			} else {
				printOutcome(out, outcome)
			}

			return checkThresholds(card, minScore, threshold)
		},
	}

	cmd.Flags().StringVar(&rubricPath, "rubric", "", "Rubric YAML file (default: config or built-in)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the scorecard as JSON")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "Exit with code 1 when the overall score is below this value")
	cmd.Flags().StringVar(&minRating, "min-rating", "", "Exit with code 1 when the rating is below this one (e.g. good, very-good)")

	return cmd
}

func readTranscript(stdin io.Reader, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
