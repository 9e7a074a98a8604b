// Package repository owns the in-memory collections of candidates, jobs and interviews.
// All reads return deep copies so callers can never alias stored records.
package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/jonathan/blind-hire/internal/types"
)

// Repository is safe for concurrent use.
type Repository struct {
	mu         sync.RWMutex
	candidates map[string]*types.CandidateRecord
	jobs       map[string]*types.JobPosting
	jobOrder   []string
	interviews []types.Interview
}

// New creates an empty repository.
func New() *Repository {
	return &Repository{
		candidates: make(map[string]*types.CandidateRecord),
		jobs:       make(map[string]*types.JobPosting),
	}
}

// CreateCandidate stores a new candidate. The id must be unused.
func (r *Repository) CreateCandidate(rec *types.CandidateRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.candidates[rec.CandidateID]; ok {
		return &types.ConflictError{Kind: "candidate", ID: rec.CandidateID, Message: "already exists"}
	}
	r.candidates[rec.CandidateID] = rec.Clone()
	return nil
}

// GetCandidate returns a copy of the candidate.
func (r *Repository) GetCandidate(id string) (*types.CandidateRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.candidates[id]
	if !ok {
		return nil, &types.NotFoundError{Kind: "candidate", ID: id}
	}
	return rec.Clone(), nil
}

// UpdateCandidateProfile replaces the professional fields of a candidate. Identity is
// never touched.
func (r *Repository) UpdateCandidateProfile(id string, skills []types.Skill, experience []types.Experience, education []types.Education, at time.Time) (*types.CandidateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.candidates[id]
	if !ok {
		return nil, &types.NotFoundError{Kind: "candidate", ID: id}
	}
	rec.Skills = append([]types.Skill(nil), skills...)
	rec.Experience = append([]types.Experience(nil), experience...)
	rec.Education = append([]types.Education(nil), education...)
	rec.UpdatedAt = at
	return rec.Clone(), nil
}

// CountCandidates returns the number of stored candidates.
func (r *Repository) CountCandidates() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.candidates)
}

// CreateJob stores a new job posting. The id must be unused.
func (r *Repository) CreateJob(job *types.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[job.ID]; ok {
		return &types.ConflictError{Kind: "job", ID: job.ID, Message: "already exists"}
	}
	r.jobs[job.ID] = job.Clone()
	r.jobOrder = append(r.jobOrder, job.ID)
	return nil
}

// GetJob returns a copy of the job posting.
func (r *Repository) GetJob(id string) (*types.JobPosting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, &types.NotFoundError{Kind: "job", ID: id}
	}
	return job.Clone(), nil
}

// UpdateJobSkills replaces the required skills of an active job.
func (r *Repository) UpdateJobSkills(id string, skills []types.Skill) (*types.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, &types.NotFoundError{Kind: "job", ID: id}
	}
	if !job.IsActive() {
		return nil, &types.ConflictError{Kind: "job", ID: id, Message: "required skills cannot change once the job is closed"}
	}
	job.RequiredSkills = append([]types.Skill(nil), skills...)
	return job.Clone(), nil
}

// CloseJob marks a job closed. Closing twice is a conflict.
func (r *Repository) CloseJob(id string) (*types.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, &types.NotFoundError{Kind: "job", ID: id}
	}
	if !job.IsActive() {
		return nil, &types.ConflictError{Kind: "job", ID: id, Message: "already closed"}
	}
	job.Status = types.JobClosed
	return job.Clone(), nil
}

// ListJobs returns copies of jobs passing filter, newest first. Jobs posted at the same
// instant keep insertion order.
func (r *Repository) ListJobs(filter types.JobFilter) []*types.JobPosting {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.JobPosting, 0, len(r.jobOrder))
	for _, id := range r.jobOrder {
		if job := r.jobs[id]; filter.Matches(job) {
			out = append(out, job.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	return out
}

// AddInterview stores an interview slot.
func (r *Repository) AddInterview(iv types.Interview) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interviews = append(r.interviews, iv)
}

// ListInterviews returns interviews for jobID ordered by start time, or all interviews
// when jobID is empty.
func (r *Repository) ListInterviews(jobID string) []types.Interview {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Interview, 0, len(r.interviews))
	for _, iv := range r.interviews {
		if jobID == "" || iv.JobID == jobID {
			out = append(out, iv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out
}
