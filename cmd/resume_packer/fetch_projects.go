package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-packer/internal/db"
	"github.com/jonathan/resume-packer/internal/llm"
	"github.com/jonathan/resume-packer/internal/observability"
)

var fetchProjectsCmd = &cobra.Command{
	Use:   "fetch-projects",
	Short: "Fetch a GitHub user's public repositories as project entries",
	Long:  "Scrapes the repositories tab of a GitHub profile into project entries. Results are cached per username in Redis or PostgreSQL when configured.",
	RunE:  runFetchProjects,
}

var (
	fetchUsername        string
	fetchOutput          string
	fetchRefresh         bool
	fetchGenerateBullets bool
	fetchVerbose         bool
)

func init() {
	fetchProjectsCmd.Flags().StringVarP(&fetchUsername, "username", "u", "", "GitHub username (default from config)")
	fetchProjectsCmd.Flags().StringVarP(&fetchOutput, "out", "o", "", "Path to output projects JSON (default stdout)")
	fetchProjectsCmd.Flags().BoolVar(&fetchRefresh, "refresh", false, "Ignore cached projects and fetch again")
	fetchProjectsCmd.Flags().BoolVar(&fetchGenerateBullets, "generate-bullets", false, "Write bullets for each project with Gemini")
	fetchProjectsCmd.Flags().BoolVarP(&fetchVerbose, "verbose", "v", false, "Print a summary of fetched projects")

	rootCmd.AddCommand(fetchProjectsCmd)
}

func runFetchProjects(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	username := firstNonEmpty(fetchUsername, cfg.Username)
	if username == "" {
		return fmt.Errorf("a username is required (--username or config 'username')")
	}

	var database *db.DB
	if cfg.DatabaseURL != "" && cfg.RedisURL == "" {
		var err error
		database, err = openDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()
	}

	var gen llm.Generator
	if fetchGenerateBullets {
		client, err := newGeminiClient(ctx)
		if err != nil {
			return err
		}
		if client == nil {
			return fmt.Errorf("--generate-bullets needs a Gemini API key (api_key or GEMINI_API_KEY)")
		}
		defer func() { _ = client.Close() }()
		gen = client
	}

	source, done, err := newProjectSource(ctx, database, gen, nil)
	if err != nil {
		return err
	}
	defer done()

	load := source.Projects
	if fetchRefresh {
		load = source.Refresh
	}
	projects, err := load(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to fetch projects for %s: %w", username, err)
	}

	if fetchVerbose || cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintProjects(username, projects)
	}

	out, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal projects: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), fetchOutput, out)
}
