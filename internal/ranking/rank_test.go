package ranking

import (
	"testing"
	"time"

	"github.com/jonathan/blind-hire/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mlJob() *types.JobPosting {
	return &types.JobPosting{
		ID:    "job-1",
		Title: "Machine Learning Engineer",
		RequiredSkills: []types.Skill{
			{Name: "Python", Value: 90},
			{Name: "Machine Learning", Value: 95},
			{Name: "TensorFlow", Value: 70},
		},
	}
}

func TestRankCandidates_SortedDescendingWithStableTies(t *testing.T) {
	candidates := []*types.CandidateRecord{
		{CandidateID: "CND-3", Skills: []types.Skill{{Name: "Python", Value: 50}}},
		{CandidateID: "CND-2", Skills: []types.Skill{{Name: "Python", Value: 90}, {Name: "TensorFlow", Value: 85}, {Name: "Machine Learning", Value: 88}}},
		{CandidateID: "CND-1", Skills: []types.Skill{{Name: "Python", Value: 50}}},
		{CandidateID: "CND-4"},
	}

	ranked, err := RankCandidates(mlJob(), candidates)
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	ids := []string{ranked[0].CandidateID, ranked[1].CandidateID, ranked[2].CandidateID, ranked[3].CandidateID}
	assert.Equal(t, []string{"CND-2", "CND-1", "CND-3", "CND-4"}, ids)
	assert.Equal(t, 0, ranked[3].MatchPercentage)
	assert.Equal(t, "No skill matches. Missing Machine Learning, Python, TensorFlow", ranked[3].Notes)
	assert.Contains(t, ranked[0].Notes, "Strong skill match")
}

func TestRankCandidates_InvalidJob(t *testing.T) {
	_, err := RankCandidates(&types.JobPosting{ID: "empty"}, []*types.CandidateRecord{{CandidateID: "CND-1"}})
	assert.Error(t, err)
}

func TestRankJobs(t *testing.T) {
	older := mlJob()
	older.PostedAt = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	newer := mlJob()
	newer.ID = "job-2"
	newer.PostedAt = time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC)

	sqlJob := &types.JobPosting{ID: "job-3", RequiredSkills: []types.Skill{{Name: "SQL", Value: 80}}}
	broken := &types.JobPosting{ID: "job-4"}

	candidate := &types.CandidateRecord{
		CandidateID: "CND-1",
		Skills:      []types.Skill{{Name: "Python", Value: 85}, {Name: "Machine Learning", Value: 78}},
	}

	matches := RankJobs(candidate, []*types.JobPosting{older, sqlJob, broken, newer})
	require.Len(t, matches, 3)
	assert.Equal(t, "job-2", matches[0].Job.ID)
	assert.Equal(t, "job-1", matches[1].Job.ID)
	assert.Equal(t, 59, matches[0].MatchPercentage)
	assert.Equal(t, "job-3", matches[2].Job.ID)
	assert.Equal(t, []string{"SQL"}, matches[2].MissingSkills)
}

func TestGenerateNotes(t *testing.T) {
	assert.Equal(t, "Moderate skill match (Python)", generateNotes(50, Breakdown{Matched: []string{"Python"}}))
	assert.Equal(t, "Weak skill match (Python). Missing SQL", generateNotes(10, Breakdown{Matched: []string{"Python"}, Missing: []string{"SQL"}}))
}
