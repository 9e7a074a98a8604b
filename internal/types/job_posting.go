package types

import (
	"fmt"
	"strings"
	"time"
)

// ExperienceLevel is the seniority a job is posted for.
type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

// ParseExperienceLevel parses a level name case-insensitively.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	switch level := ExperienceLevel(strings.ToLower(strings.TrimSpace(s))); level {
	case ExperienceEntry, ExperienceMid, ExperienceSenior:
		return level, nil
	default:
		return "", fmt.Errorf("unknown experience level %q", s)
	}
}

// JobStatus is the posting status of a job.
type JobStatus string

const (
	JobActive JobStatus = "active"
	JobClosed JobStatus = "closed"
)

// JobPosting is a job created by a recruiter. RequiredSkills carry importance weights.
type JobPosting struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	RequiredSkills  []Skill         `json:"required_skills"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	Status          JobStatus       `json:"status"`
	PostedAt        time.Time       `json:"posted_at"`
	// ApplicantCount is derived from lifecycle entries on read and never stored.
	ApplicantCount int `json:"applicant_count"`
}

// IsActive reports whether the job still accepts screening actions and skill edits.
func (j *JobPosting) IsActive() bool {
	return j.Status == JobActive
}

// Clone returns a deep copy of the posting.
func (j *JobPosting) Clone() *JobPosting {
	if j == nil {
		return nil
	}
	out := *j
	out.RequiredSkills = append([]Skill(nil), j.RequiredSkills...)
	return &out
}

// JobFilter narrows ListJobs results. Zero values match everything.
type JobFilter struct {
	Status          JobStatus       `json:"status,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty"`
	Query           string          `json:"query,omitempty"`
}

// Matches reports whether the job passes the filter. Query matches the title or any
// required skill name, case-insensitively.
func (f JobFilter) Matches(j *JobPosting) bool {
	if f.Status != "" && j.Status != f.Status {
		return false
	}
	if f.ExperienceLevel != "" && j.ExperienceLevel != f.ExperienceLevel {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(j.Title), q) {
		return true
	}
	for _, s := range j.RequiredSkills {
		if strings.Contains(strings.ToLower(s.Name), q) {
			return true
		}
	}
	return false
}
