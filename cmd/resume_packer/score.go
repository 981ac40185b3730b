package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-packer/internal/experience"
	"github.com/jonathan/resume-packer/internal/fetch"
	"github.com/jonathan/resume-packer/internal/ingestion"
	"github.com/jonathan/resume-packer/internal/logger"
	"github.com/jonathan/resume-packer/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a candidate bank against a job description",
	Long:  "Counts job keywords in every experience and project and, when a Gemini API key is configured, adds embedding similarity. Writes records JSON suitable for the select command.",
	RunE:  runScore,
}

var (
	scoreBank        string
	scoreJob         string
	scoreJobURL      string
	scoreOutput      string
	scoreNoEmbedding bool
	scoreSortBullets bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreBank, "bank", "b", "", "Path to candidate bank JSON (default from config)")
	scoreCmd.Flags().StringVarP(&scoreJob, "job", "j", "", "Path to job description text (default from config)")
	scoreCmd.Flags().StringVar(&scoreJobURL, "job-url", "", "URL of a job posting to use instead of --job")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Path to output records JSON (default stdout)")
	scoreCmd.Flags().BoolVar(&scoreNoEmbedding, "no-embeddings", false, "Skip similarity scoring even when an API key is set")
	scoreCmd.Flags().BoolVar(&scoreSortBullets, "sort-bullets", false, "Order each record's bullets by similarity to the job")

	rootCmd.AddCommand(scoreCmd)
}

// readJob loads the job description from a posting URL or a text file, falling back
// to the configured job file
func readJob(ctx context.Context, path, url string) (string, error) {
	if url != "" {
		opts := &ingestion.URLOptions{}
		if cfg.UseBrowser {
			opts.Render = fetch.BrowserRenderer(fetch.DefaultTimeout, "body")
		}
		text, meta, err := ingestion.FromURL(ctx, url, opts)
		if err != nil {
			return "", fmt.Errorf("failed to load job posting %s: %w", url, err)
		}
		logger.Component("cli").Info().Str("url", url).Str("title", meta.Title).Str("hash", meta.Hash).Msg("loaded job posting")
		return text, nil
	}

	if path == "" {
		path = cfg.Job
	}
	if path == "" {
		return "", fmt.Errorf("a job description is required (--job, --job-url or config 'job')")
	}
	text, _, err := ingestion.FromFile(path)
	return text, err
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	bankPath := scoreBank
	if bankPath == "" {
		bankPath = cfg.Bank
	}
	if bankPath == "" {
		return fmt.Errorf("a candidate bank file is required (--bank or config 'bank')")
	}

	bank, err := experience.LoadCandidateBank(bankPath)
	if err != nil {
		return err
	}

	job, err := readJob(ctx, scoreJob, scoreJobURL)
	if err != nil {
		return err
	}

	var opts []scoring.Option
	if !scoreNoEmbedding {
		client, err := newGeminiClient(ctx)
		if err != nil {
			return err
		}
		if client != nil {
			defer func() { _ = client.Close() }()
			opts = append(opts, scoring.WithEmbedder(client))
			if scoreSortBullets {
				opts = append(opts, scoring.WithBulletSorting())
			}
		} else {
			logger.Component("cli").Info().Msg("no API key configured, similarity scores will be 0")
		}
	}

	set, err := scoring.NewAnnotator(opts...).Annotate(ctx, bank, job)
	if err != nil {
		return fmt.Errorf("failed to score candidate bank: %w", err)
	}

	out, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), scoreOutput, out)
}
