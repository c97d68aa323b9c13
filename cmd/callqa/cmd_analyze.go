package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/pipeline"
	"github.com/spboyer/callqa/internal/reporting"
	"github.com/spboyer/callqa/internal/spinner"
	"github.com/spboyer/callqa/internal/webapi"
	"github.com/spf13/cobra"
)

type analyzeFlags struct {
	stack     stackFlags
	minScore  float64
	minRating string
	timeout   time.Duration
	jsonPath  string
	mdPath    string
	junitPath string
	interpret bool
}

func newAnalyzeCommand() *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <recording>",
		Short: "Transcribe, score and report on a recorded call",
		Long: `Analyze a recorded call (.wav, .mp3 or .m4a).

The recording is converted to 16 kHz mono WAV with ffmpeg when needed,
transcribed, translated sentence by sentence, scored against the rubric and
written to an Excel report. The analysis is archived in the results directory
so it shows up in the server's history.

Exit code 1 means the call scored below --min-score or --min-rating; 2 means the analysis
could not be completed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], f)
		},
	}

	addStackFlags(cmd, &f.stack)
	cmd.Flags().StringVar(&f.stack.reportPath, "report", "", "Path of the Excel report (default: <uploads>/call_analysis.xlsx)")
	cmd.Flags().BoolVar(&f.stack.noArchive, "no-archive", false, "Do not archive the analysis in the results directory")
	cmd.Flags().Float64Var(&f.minScore, "min-score", 0, "Exit with code 1 when the overall score is below this value")
	cmd.Flags().StringVar(&f.minRating, "min-rating", "", "Exit with code 1 when the rating is below this one (e.g. good, very-good)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Abort the analysis after this long (default: config timeout)")
	cmd.Flags().StringVar(&f.jsonPath, "json", "", "Also write the analysis as JSON to this file")
	cmd.Flags().StringVar(&f.mdPath, "markdown", "", "Also write a markdown report to this file")
	cmd.Flags().StringVar(&f.junitPath, "junit", "", "Also write a JUnit XML report to this file")
	cmd.Flags().BoolVar(&f.interpret, "interpret", false, "Print a plain-language interpretation of the score")

	return cmd
}

func addStackFlags(cmd *cobra.Command, f *stackFlags) {
	cmd.Flags().StringVar(&f.backend, "backend", "", "Transcription backend: google, openai or static (default: config)")
	cmd.Flags().StringVar(&f.text, "text", "", "Transcript returned by the static backend")
	cmd.Flags().StringVar(&f.rubricPath, "rubric", "", "Rubric YAML file (default: config or built-in)")
	cmd.Flags().StringVar(&f.resultsDir, "results-dir", "", "Directory for archived analyses (default: config paths.results)")
	cmd.Flags().StringVar(&f.uploadsDir, "uploads-dir", "", "Directory for recordings and the report (default: config paths.uploads)")
	cmd.Flags().BoolVar(&f.noTranslate, "no-translate", false, "Skip language detection and translation")
}

func runAnalyze(cmd *cobra.Command, audioPath string, f analyzeFlags) error {
	minRating, err := parseMinRating(f.minRating)
	if err != nil {
		return err
	}
	if !webapi.AllowedFile(audioPath) {
		return fmt.Errorf("%s: unsupported recording format (want .wav, .mp3 or .m4a)", audioPath)
	}
	if info, err := os.Stat(audioPath); err != nil {
		return fmt.Errorf("reading recording: %w", err)
	} else if info.IsDir() {
		return fmt.Errorf("%s is a directory", audioPath)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := slog.Default()

	st, err := buildStack(cfg, f.stack, logger)
	if err != nil {
		return err
	}

	timeout := f.timeout
	if timeout == 0 {
		timeout = cfg.TimeoutDuration()
	}
	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if spinner.IsTerminal(os.Stderr) {
		spin := spinner.Start(os.Stderr, "Starting analysis")
		defer spin.Stop()
		st.analyzer.OnProgress(func(e pipeline.ProgressEvent) {
			if !e.Done {
				spin.Update(stageMessage(e.Stage))
			}
		})
	} else {
		st.analyzer.OnProgress(func(e pipeline.ProgressEvent) {
			if e.Done {
				logger.Debug("Stage complete", "stage", e.Stage, "durationMs", e.DurationMs)
			}
		})
	}

	outcome, err := st.analyzer.Analyze(ctx, pipeline.Input{AudioPath: audioPath, Filename: filepath.Base(audioPath)})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printOutcome(out, outcome)
	if f.interpret {
		fmt.Fprintf(out, "\n%s", reporting.FormatSummaryReport(outcome)) //nolint:errcheck
	}

	if err := writeExtras(outcome, f); err != nil {
		return err
	}

	return checkThresholds(&outcome.Scorecard, f.minScore, minRating)
}

func stageMessage(s pipeline.Stage) string {
	switch s {
	case pipeline.StageTranscode:
		return "Converting to WAV"
	case pipeline.StageTranscribe:
		return "Transcribing"
	case pipeline.StageTranslate:
		return "Translating"
	case pipeline.StageScore:
		return "Scoring"
	case pipeline.StageReport:
		return "Writing report"
	case pipeline.StagePublish:
		return "Publishing report"
	default:
		return string(s)
	}
}

func writeExtras(outcome *models.AnalysisOutcome, f analyzeFlags) error {
	if f.jsonPath != "" {
		if err := saveOutcome(outcome, f.jsonPath); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
	}
	if f.mdPath != "" {
		if err := os.WriteFile(f.mdPath, []byte(reporting.Markdown(outcome)), 0o644); err != nil {
			return fmt.Errorf("writing markdown: %w", err)
		}
	}
	if f.junitPath != "" {
		if err := reporting.WriteJUnitXML(outcome, f.junitPath); err != nil {
			return fmt.Errorf("writing JUnit XML: %w", err)
		}
	}
	return nil
}

func saveOutcome(outcome *models.AnalysisOutcome, path string) error {
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
