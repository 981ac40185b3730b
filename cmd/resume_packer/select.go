package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-packer/internal/logger"
	"github.com/jonathan/resume-packer/internal/schemas"
	"github.com/jonathan/resume-packer/internal/selection"
	"github.com/jonathan/resume-packer/internal/types"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select the records that fit on one page",
	Long:  "Reads scored experience and project records, ranks them by keyword count then similarity, and admits them greedily until the page budget is spent.",
	RunE:  runSelect,
}

var (
	selectInput  string
	selectOutput string
	selectBudget float64
)

func init() {
	selectCmd.Flags().StringVarP(&selectInput, "in", "i", "", "Path to records JSON with experience and projects (required)")
	selectCmd.Flags().StringVarP(&selectOutput, "out", "o", "", "Path to output selection JSON (default stdout)")
	selectCmd.Flags().Float64VarP(&selectBudget, "budget", "b", 0, "Page budget in cost units (default from config, then 30)")

	if err := selectCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, _ []string) error {
	content, err := os.ReadFile(selectInput)
	if err != nil {
		return fmt.Errorf("failed to read records file %s: %w", selectInput, err)
	}

	if err := schemas.ValidateRecordSet(content); err != nil {
		var loadErr *schemas.SchemaLoadError
		if errors.As(err, &loadErr) {
			return fmt.Errorf("failed to parse records file %s: %w", selectInput, err)
		}
		return fmt.Errorf("%w: %w", selection.ErrMalformedRecord, err)
	}

	// The schema accepts integral floats such as 3.0 that do not decode into int fields.
	var set types.RecordSet
	if err := json.Unmarshal(content, &set); err != nil {
		return fmt.Errorf("%w: %w", selection.ErrMalformedRecord, err)
	}

	selector, err := selection.New(cfg.CostModel())
	if err != nil {
		return err
	}

	budget := selectBudget
	if !cmd.Flags().Changed("budget") {
		budget = cfg.Budget
	}

	result, err := selector.Select(set.Experience, set.Projects, budget)
	if err != nil {
		return err
	}

	logger.Component("cli").Info().
		Int("offered", len(set.Experience)+len(set.Projects)).
		Int("selected", result.Len()).
		Float64("total_cost", result.TotalCost).
		Float64("budget", budget).
		Msg("selection complete")

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), selectOutput, out)
}
