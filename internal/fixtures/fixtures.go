// Package fixtures loads seed data and replays it through the domain service, so seeded
// applications, shortlists and reveals pass the same lifecycle guards as live traffic.
package fixtures

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/blind-hire/internal/schemas"
	"github.com/jonathan/blind-hire/internal/types"
	embedded "github.com/jonathan/blind-hire/schemas"
)

//go:embed data/seed.json
var defaultSeed []byte

// Seed is the fixture document.
type Seed struct {
	Jobs       []Job       `json:"jobs"`
	Candidates []Candidate `json:"candidates"`
	Actions    []Action    `json:"actions"`
}

// Job is a job to post. Key names the job inside the fixture; the posted job gets a
// generated id.
type Job struct {
	Key             string        `json:"key"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	RequiredSkills  []types.Skill `json:"required_skills"`
	ExperienceLevel string        `json:"experience_level"`
	Closed          bool          `json:"closed"`
}

// Candidate is a CV to submit.
type Candidate struct {
	CandidateID string              `json:"candidate_id"`
	Identity    types.IdentityInput `json:"identity"`
	Skills      []types.Skill       `json:"skills"`
	Experience  []types.Experience  `json:"experience"`
	Education   []types.Education   `json:"education"`
}

// Action is a screening step replayed after jobs and candidates exist.
type Action struct {
	Action      string `json:"action"`
	CandidateID string `json:"candidate_id"`
	Job         string `json:"job"`
	RecruiterID string `json:"recruiter_id"`
}

// Service is the subset of the domain service that seeding drives.
type Service interface {
	PostJob(ctx context.Context, req types.PostJobRequest) (*types.JobPosting, error)
	CloseJob(ctx context.Context, jobID string) (*types.JobPosting, error)
	SubmitCV(ctx context.Context, candidateID string, req types.SubmitCVRequest) (*types.CandidateRecord, error)
	Apply(ctx context.Context, candidateID, jobID string) (types.Application, error)
	Shortlist(ctx context.Context, candidateID, jobID string) (types.Application, error)
	Unshortlist(ctx context.Context, candidateID, jobID string) (types.Application, error)
	Reveal(ctx context.Context, candidateID, jobID, recruiterID string) (types.RevealedCandidateView, error)
}

// Result reports what Apply created.
type Result struct {
	// JobIDs maps fixture keys to the ids of the posted jobs.
	JobIDs     map[string]string
	Candidates int
	Actions    int
}

// Default returns the bundled seed document.
func Default() []byte {
	return append([]byte(nil), defaultSeed...)
}

// Parse validates data against the seed schema and decodes it.
func Parse(data []byte) (*Seed, error) {
	if err := schemas.Validate(embedded.Seed, data); err != nil {
		return nil, err
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	return &seed, nil
}

// LoadFile reads and parses a seed file.
func LoadFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Apply posts every job, submits every CV, replays the actions in order and finally
// closes jobs marked closed. It stops at the first failure.
func Apply(ctx context.Context, svc Service, seed *Seed) (*Result, error) {
	res := &Result{JobIDs: make(map[string]string, len(seed.Jobs))}

	for _, j := range seed.Jobs {
		if _, dup := res.JobIDs[j.Key]; dup {
			return nil, fmt.Errorf("duplicate job key %q", j.Key)
		}
		job, err := svc.PostJob(ctx, types.PostJobRequest{
			Title:           j.Title,
			Description:     j.Description,
			RequiredSkills:  j.RequiredSkills,
			ExperienceLevel: j.ExperienceLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", j.Key, err)
		}
		res.JobIDs[j.Key] = job.ID
	}

	for _, c := range seed.Candidates {
		if _, err := svc.SubmitCV(ctx, c.CandidateID, types.SubmitCVRequest{
			Identity:   c.Identity,
			Skills:     c.Skills,
			Experience: c.Experience,
			Education:  c.Education,
		}); err != nil {
			return nil, fmt.Errorf("candidate %s: %w", c.CandidateID, err)
		}
		res.Candidates++
	}

	for i, a := range seed.Actions {
		jobID, ok := res.JobIDs[a.Job]
		if !ok {
			return nil, fmt.Errorf("action %d: unknown job key %q", i, a.Job)
		}
		var err error
		switch a.Action {
		case "apply":
			_, err = svc.Apply(ctx, a.CandidateID, jobID)
		case "shortlist":
			_, err = svc.Shortlist(ctx, a.CandidateID, jobID)
		case "unshortlist":
			_, err = svc.Unshortlist(ctx, a.CandidateID, jobID)
		case "reveal":
			_, err = svc.Reveal(ctx, a.CandidateID, jobID, a.RecruiterID)
		default:
			err = fmt.Errorf("unknown action %q", a.Action)
		}
		if err != nil {
			return nil, fmt.Errorf("action %d (%s %s for %s): %w", i, a.Action, a.CandidateID, a.Job, err)
		}
		res.Actions++
	}

	for _, j := range seed.Jobs {
		if j.Closed {
			if _, err := svc.CloseJob(ctx, res.JobIDs[j.Key]); err != nil {
				return nil, fmt.Errorf("close job %s: %w", j.Key, err)
			}
		}
	}
	return res, nil
}
