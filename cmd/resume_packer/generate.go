package main

import (
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-packer/internal/db"
	"github.com/jonathan/resume-packer/internal/fetch"
	"github.com/jonathan/resume-packer/internal/llm"
	"github.com/jonathan/resume-packer/internal/logger"
	"github.com/jonathan/resume-packer/internal/metrics"
	"github.com/jonathan/resume-packer/internal/observability"
	"github.com/jonathan/resume-packer/internal/pipeline"
	"github.com/jonathan/resume-packer/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a one-page LaTeX resume for a job description",
	Long:  "Loads a candidate bank from a file or the database, scores it against the job description, selects what fits the page budget and renders LaTeX.",
	RunE:  runGenerate,
}

var (
	generateBank          string
	generateUsername      string
	generateJob           string
	generateJobURL        string
	generateTemplate      string
	generateOutput        string
	generateSelectionOut  string
	generateBudget        float64
	generateFetchProjects bool
	generateSortBullets   bool
	generateVerbose       bool
	generateMetricsOut    string
)

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateBank, "bank", "b", "", "Path to candidate bank JSON (default from config)")
	f.StringVarP(&generateUsername, "username", "u", "", "Load the candidate bank for this username from the database")
	f.StringVarP(&generateJob, "job", "j", "", "Path to job description text (default from config)")
	f.StringVar(&generateJobURL, "job-url", "", "URL of a job posting to use instead of --job")
	f.StringVarP(&generateTemplate, "template", "t", "", "Path to LaTeX template (default built-in)")
	f.StringVarP(&generateOutput, "out", "o", "", "Path to output .tex file (default stdout)")
	f.StringVar(&generateSelectionOut, "selection-out", "", "Also write the selection JSON to this path")
	f.Float64Var(&generateBudget, "budget", 0, "Page budget in cost units (default from config, then 30)")
	f.BoolVar(&generateFetchProjects, "fetch-projects", false, "Merge public GitHub repositories of the candidate's username")
	f.BoolVar(&generateSortBullets, "sort-bullets", false, "Order each record's bullets by similarity to the job")
	f.BoolVarP(&generateVerbose, "verbose", "v", false, "Print keywords, ranking and selection summaries")
	f.StringVar(&generateMetricsOut, "metrics-out", "", "Write run metrics in Prometheus text format to this path")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger.Component("cli")

	job, err := readJob(ctx, generateJob, generateJobURL)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		BankPath:       firstNonEmpty(generateBank, cfg.Bank),
		Username:       firstNonEmpty(generateUsername, cfg.Username),
		Header:         cfg.Header,
		Education:      cfg.Education,
		JobDescription: job,
		TemplatePath:   firstNonEmpty(generateTemplate, cfg.Template),
		Budget:         cfg.Budget,
		CostModel:      cfg.CostModel(),
		SortBullets:    generateSortBullets,
	}
	if cmd.Flags().Changed("budget") {
		opts.Budget = generateBudget
	}
	if opts.Budget == 0 {
		// An explicit zero budget selects nothing.
		opts.Budget = -1
	}
	verbose := generateVerbose || cfg.Verbose

	var database *db.DB
	if cfg.DatabaseURL != "" && (opts.BankPath == "" || generateFetchProjects) {
		database, err = openDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()
		opts.Store = database
	}

	m := metrics.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := m.Register(registry); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	opts.Metrics = m

	client, err := newGeminiClient(ctx)
	if err != nil {
		return err
	}
	var gen llm.Generator
	if client != nil {
		defer func() { _ = client.Close() }()
		opts.Embedder = client
		gen = client
	}

	if generateFetchProjects {
		var source *fetch.CachedSource
		var done closer
		source, done, err = newProjectSource(ctx, database, gen, m)
		if err != nil {
			return err
		}
		defer done()
		opts.Projects = source
	}

	printer := observability.NewPrinter(cmd.ErrOrStderr())
	opts.OnProgress = func(e pipeline.ProgressEvent) {
		log.Info().Str("stage", e.Stage).Msg(e.Message)
		if verbose {
			printProgress(printer, e)
		}
	}

	res, err := pipeline.Generate(ctx, opts)
	if err != nil {
		return err
	}
	if verbose {
		printer.PrintKeywords(res.Keywords)
	}

	if generateSelectionOut != "" {
		data, err := json.MarshalIndent(res.Selection, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal selection: %w", err)
		}
		if err := writeOutput(cmd.OutOrStdout(), generateSelectionOut, data); err != nil {
			return err
		}
	}

	if generateMetricsOut != "" {
		if err := metrics.WriteTextfile(generateMetricsOut, registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return writeOutput(cmd.OutOrStdout(), generateOutput, []byte(res.LaTeX))
}

func printProgress(printer *observability.Printer, e pipeline.ProgressEvent) {
	switch content := e.Content.(type) {
	case *types.RecordSet:
		printer.PrintRankedRecords(content)
	case *types.SelectionResult:
		printer.PrintSelection(content)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
