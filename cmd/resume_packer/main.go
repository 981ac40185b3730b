// Package main implements the resume_packer CLI, which fits a candidate's most
// relevant experience and projects onto a one-page LaTeX resume.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-packer/internal/config"
	"github.com/jonathan/resume-packer/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:               "resume_packer",
	Short:             "Fit the most relevant experience onto a one-page resume",
	Long:              "resume_packer scores a candidate's experiences and projects against a job description, selects what fits on one page and renders it as LaTeX.",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

var (
	configPath string
	logLevel   string
	logFormat  string

	// cfg is the merged configuration for the running command
	cfg = &config.Config{}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json or pretty")
}

func loadSettings(_ *cobra.Command, _ []string) error {
	loaded := &config.Config{}
	if configPath != "" {
		var err error
		loaded, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
	}

	merged := loaded.MergeWithDefaults(config.Config{})
	merged.ApplyEnv()
	if logLevel != "" {
		merged.Log.Level = logLevel
	}
	if logFormat != "" {
		merged.Log.Format = logFormat
	}
	if err := merged.Validate(); err != nil {
		return err
	}

	logger.Init(merged.Log)
	cfg = &merged
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
