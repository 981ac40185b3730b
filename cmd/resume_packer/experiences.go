package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-packer/internal/experience"
	"github.com/jonathan/resume-packer/internal/logger"
	"github.com/jonathan/resume-packer/internal/types"
)

var experiencesCmd = &cobra.Command{
	Use:   "experiences",
	Short: "Manage stored candidates and their experience entries",
}

var experiencesGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored experience entries for a username",
	RunE:  runExperiencesGet,
}

var experiencesSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the stored experience entries for a username",
	Long:  "Reads a JSON array of experience entries and atomically replaces the candidate's stored set.",
	RunE:  runExperiencesSet,
}

var experiencesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Store a whole candidate bank in the database",
	RunE:  runExperiencesImport,
}

var (
	experiencesUsername string
	experiencesInput    string
	experiencesOutput   string
)

func init() {
	experiencesCmd.PersistentFlags().StringVarP(&experiencesUsername, "username", "u", "", "Candidate username (default from config)")
	experiencesGetCmd.Flags().StringVarP(&experiencesOutput, "out", "o", "", "Path to output JSON (default stdout)")
	experiencesSetCmd.Flags().StringVarP(&experiencesInput, "in", "i", "", "Path to experience entries JSON array (required)")
	experiencesImportCmd.Flags().StringVarP(&experiencesInput, "bank", "b", "", "Path to candidate bank JSON (required)")

	if err := experiencesSetCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := experiencesImportCmd.MarkFlagRequired("bank"); err != nil {
		panic(fmt.Sprintf("failed to mark bank flag as required: %v", err))
	}

	experiencesCmd.AddCommand(experiencesGetCmd, experiencesSetCmd, experiencesImportCmd)
	rootCmd.AddCommand(experiencesCmd)
}

func experiencesUser() (string, error) {
	username := firstNonEmpty(experiencesUsername, cfg.Username)
	if username == "" {
		return "", fmt.Errorf("a username is required (--username or config 'username')")
	}
	return username, nil
}

func runExperiencesGet(cmd *cobra.Command, _ []string) error {
	username, err := experiencesUser()
	if err != nil {
		return err
	}

	database, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer database.Close()

	entries, err := database.GetExperiences(cmd.Context(), username)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal experiences: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), experiencesOutput, out)
}

// loadExperienceEntries reads and validates a JSON array of experience entries
func loadExperienceEntries(path string) ([]types.ExperienceEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read experiences file %s: %w", path, err)
	}

	var entries []types.ExperienceEntry
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal experiences JSON: %w", err)
	}

	bank := &types.CandidateBank{Experiences: entries}
	experience.NormalizeCandidateBank(bank)
	validate := validator.New()
	for i := range bank.Experiences {
		if err := validate.Struct(&bank.Experiences[i]); err != nil {
			return nil, fmt.Errorf("invalid experience entry %d: %w", i, err)
		}
	}
	return bank.Experiences, nil
}

func runExperiencesSet(cmd *cobra.Command, _ []string) error {
	username, err := experiencesUser()
	if err != nil {
		return err
	}

	entries, err := loadExperienceEntries(experiencesInput)
	if err != nil {
		return err
	}

	database, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.ReplaceExperiences(cmd.Context(), username, entries); err != nil {
		return err
	}

	logger.Component("cli").Info().Str("username", username).Int("experiences", len(entries)).Msg("experiences replaced")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored %d experiences for %s\n", len(entries), username)
	return nil
}

func runExperiencesImport(cmd *cobra.Command, _ []string) error {
	bank, err := experience.LoadCandidateBank(experiencesInput)
	if err != nil {
		return err
	}
	if experiencesUsername != "" {
		bank.Username = experiencesUsername
	}

	database, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer database.Close()

	id, err := database.SaveCandidateBank(cmd.Context(), bank)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored candidate %s (%s): %d experiences, %d projects\n",
		bank.Username, id, len(bank.Experiences), len(bank.Projects))
	return nil
}
