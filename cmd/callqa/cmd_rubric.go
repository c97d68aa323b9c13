package main

import (
	"fmt"
	"strings"

	"github.com/spboyer/callqa/internal/rubric"
	"github.com/spboyer/callqa/internal/validation"
	"github.com/spf13/cobra"
)

func newRubricCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rubric",
		Short: "Inspect and validate scoring rubrics",
	}
	cmd.AddCommand(newRubricShowCommand())
	cmd.AddCommand(newRubricValidateCommand())
	return cmd
}

func newRubricShowCommand() *cobra.Command {
	var rubricPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active rubric as YAML",
		Long: `Print the active rubric as YAML. The output is a valid rubric file and
can be used as a starting point for a custom one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			r, err := loadRubric(cfg, rubricPath)
			if err != nil {
				return err
			}
			data, err := rubric.Marshal(r)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&rubricPath, "rubric", "", "Rubric YAML file (default: config or built-in)")
	return cmd
}

func newRubricValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <rubric.yaml>",
		Short: "Check a rubric file against the schema and scoring rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			errs, err := validation.ValidateRubricFile(path)
			if err != nil {
				return err
			}
			if len(errs) > 0 {
				return fmt.Errorf("%s is not a valid rubric:\n  %s", path, strings.Join(errs, "\n  "))
			}

			r, err := rubric.Load(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid: %d criteria, %d points\n", path, len(r.Criteria()), r.TotalWeight()) //nolint:errcheck
			return nil
		},
	}
}
