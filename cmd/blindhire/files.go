package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/blind-hire/internal/ingestion"
	"github.com/jonathan/blind-hire/internal/schemas"
	"github.com/jonathan/blind-hire/internal/skills"
	"github.com/jonathan/blind-hire/internal/types"
	embedded "github.com/jonathan/blind-hire/schemas"
)

// cvFile is the on-disk structured CV.
type cvFile struct {
	CandidateID string             `json:"candidate_id"`
	Identity    types.Identity     `json:"identity"`
	Skills      []types.Skill      `json:"skills"`
	Experience  []types.Experience `json:"experience"`
	Education   []types.Education  `json:"education"`
}

// jobFile is the on-disk job posting.
type jobFile struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	RequiredSkills  []types.Skill   `json:"required_skills"`
	ExperienceLevel string          `json:"experience_level"`
	Status          types.JobStatus `json:"status"`
}

// readValidated checks path against the named schema and decodes it into v.
func readValidated(schema, path string, v any) error {
	if err := schemas.ValidateFile(schema, path); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func loadCV(path string) (*types.CandidateRecord, error) {
	var f cvFile
	if err := readValidated(embedded.CV, path, &f); err != nil {
		return nil, err
	}
	req := types.SubmitCVRequest{
		Identity:   types.IdentityInput(f.Identity),
		Skills:     f.Skills,
		Experience: f.Experience,
		Education:  f.Education,
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	list, err := skills.Clean(f.Skills, "skills")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &types.CandidateRecord{
		CandidateID: f.CandidateID,
		Identity:    f.Identity,
		Skills:      list,
		Experience:  f.Experience,
		Education:   f.Education,
	}, nil
}

func loadJob(path string) (*types.JobPosting, error) {
	var f jobFile
	if err := readValidated(embedded.Job, path, &f); err != nil {
		return nil, err
	}
	level, err := types.ParseExperienceLevel(f.ExperienceLevel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	list, err := skills.Clean(f.RequiredSkills, "required_skills")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	description, err := ingestion.CleanDescription(f.Description)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	status := f.Status
	if status == "" {
		status = types.JobActive
	}
	return &types.JobPosting{
		ID:              f.ID,
		Title:           f.Title,
		Description:     description,
		RequiredSkills:  list,
		ExperienceLevel: level,
		Status:          status,
	}, nil
}
