package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jonathan/blind-hire/internal/observability"
	"github.com/jonathan/blind-hire/internal/redaction"
)

var (
	redactCV   string
	redactJSON bool
)

var redactCmd = &cobra.Command{
	Use:   "redact",
	Short: "Print the anonymized view of a CV file",
	Long:  "Print what a recruiter sees before reveal: skills, an experience summary and an education level, with identity removed.",
	Args:  cobra.NoArgs,
	RunE:  runRedact,
}

func init() {
	redactCmd.Flags().StringVar(&redactCV, "cv", "", "Path to a structured CV JSON file (required)")
	redactCmd.Flags().BoolVar(&redactJSON, "json", false, "Print the view as JSON")

	_ = redactCmd.MarkFlagRequired("cv")

	rootCmd.AddCommand(redactCmd)
}

func runRedact(cmd *cobra.Command, _ []string) error {
	rec, err := loadCV(redactCV)
	if err != nil {
		return err
	}
	view := redaction.Redact(rec)

	out := cmd.OutOrStdout()
	if redactJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	observability.NewPrinter(out).PrintAnonymizedView(view)
	return nil
}
