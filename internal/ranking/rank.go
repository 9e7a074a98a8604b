package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/blind-hire/internal/types"
)

// RankedCandidate is one candidate's score for a job.
type RankedCandidate struct {
	CandidateID     string
	MatchPercentage int
	Breakdown       Breakdown
	Notes           string
}

// RankCandidates scores every candidate against job and sorts by match percentage
// (descending), breaking ties by candidate id.
func RankCandidates(job *types.JobPosting, candidates []*types.CandidateRecord) ([]RankedCandidate, error) {
	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		score, err := ScoreJob(c, job)
		if err != nil {
			return nil, err
		}
		b := Explain(c.Skills, job.RequiredSkills)
		ranked = append(ranked, RankedCandidate{
			CandidateID:     c.CandidateID,
			MatchPercentage: score,
			Breakdown:       b,
			Notes:           generateNotes(score, b),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MatchPercentage != ranked[j].MatchPercentage {
			return ranked[i].MatchPercentage > ranked[j].MatchPercentage
		}
		return ranked[i].CandidateID < ranked[j].CandidateID
	})

	return ranked, nil
}

// RankJobs scores one candidate against each job, skipping jobs that cannot be scored,
// and sorts by match percentage (descending), then posting time (newest first).
func RankJobs(candidate *types.CandidateRecord, jobs []*types.JobPosting) []types.JobMatch {
	matches := make([]types.JobMatch, 0, len(jobs))
	for _, job := range jobs {
		score, err := ScoreJob(candidate, job)
		if err != nil {
			continue
		}
		b := Explain(candidate.Skills, job.RequiredSkills)
		matches = append(matches, types.JobMatch{
			Job:             *job.Clone(),
			MatchPercentage: score,
			MatchedSkills:   b.Matched,
			MissingSkills:   b.Missing,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchPercentage != matches[j].MatchPercentage {
			return matches[i].MatchPercentage > matches[j].MatchPercentage
		}
		return matches[i].Job.PostedAt.After(matches[j].Job.PostedAt)
	})

	return matches
}

// generateNotes creates a brief explanation of the ranking.
func generateNotes(score int, b Breakdown) string {
	var parts []string

	switch {
	case len(b.Matched) == 0:
		parts = append(parts, "No skill matches")
	case score >= 70:
		parts = append(parts, fmt.Sprintf("Strong skill match (%s)", strings.Join(b.Matched, ", ")))
	case score >= 40:
		parts = append(parts, fmt.Sprintf("Moderate skill match (%s)", strings.Join(b.Matched, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Weak skill match (%s)", strings.Join(b.Matched, ", ")))
	}

	if len(b.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("Missing %s", strings.Join(b.Missing, ", ")))
	}

	return strings.Join(parts, ". ")
}
