package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/blind-hire/internal/observability"
	"github.com/jonathan/blind-hire/internal/ranking"
)

var (
	scoreCV   string
	scoreJob  string
	scoreJSON bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a CV file against a job file",
	Long:  "Compute the weighted skill match of a structured CV against a job posting. Both files are checked against their JSON schemas first.",
	Args:  cobra.NoArgs,
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreCV, "cv", "", "Path to a structured CV JSON file (required)")
	scoreCmd.Flags().StringVar(&scoreJob, "job", "", "Path to a job posting JSON file (required)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the result as JSON")

	_ = scoreCmd.MarkFlagRequired("cv")
	_ = scoreCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(scoreCmd)
}

// ScoreResult is the JSON output of the score command.
type ScoreResult struct {
	CandidateID     string   `json:"candidate_id"`
	JobID           string   `json:"job_id,omitempty"`
	JobTitle        string   `json:"job_title"`
	MatchPercentage int      `json:"match_percentage"`
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	rec, err := loadCV(scoreCV)
	if err != nil {
		return err
	}
	job, err := loadJob(scoreJob)
	if err != nil {
		return err
	}

	score, err := ranking.ScoreJob(rec, job)
	if err != nil {
		return fmt.Errorf("failed to score: %w", err)
	}
	breakdown := ranking.Explain(rec.Skills, job.RequiredSkills)

	out := cmd.OutOrStdout()
	if scoreJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ScoreResult{
			CandidateID:     rec.CandidateID,
			JobID:           job.ID,
			JobTitle:        job.Title,
			MatchPercentage: score,
			MatchedSkills:   breakdown.Matched,
			MissingSkills:   breakdown.Missing,
		})
	}

	observability.NewPrinter(out).PrintScore(job, rec.CandidateID, score, breakdown)
	return nil
}
