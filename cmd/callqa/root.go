package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spboyer/callqa/internal/projectconfig"
	"github.com/spboyer/callqa/internal/utils"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "callqa",
		Short: "callqa - quality assurance scoring for recorded collection calls",
		Long: `callqa transcribes recorded collection calls, translates non-English
sentences, scores the call against a weighted keyword rubric and writes a
color-coded Excel report with an improvement plan.

Settings are read from .callqa.yaml in the working directory or any parent.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	logFormat := cmd.PersistentFlags().String("log-format", utils.LogFormatText, "Log format: text or json")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger, err := utils.NewLogger(cmd.ErrOrStderr(), *logFormat, *debugLogging)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	}

	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newScoreCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newRubricCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

// loadConfig reads .callqa.yaml starting from the working directory.
func loadConfig() (*projectconfig.ProjectConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	return projectconfig.Load(wd)
}
