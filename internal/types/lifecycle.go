package types

import "time"

// LifecycleState is the screening state of a candidate for one job.
type LifecycleState string

const (
	StateAnonymized  LifecycleState = "anonymized"
	StateShortlisted LifecycleState = "shortlisted"
	StateRevealed    LifecycleState = "revealed"
)

// IsShortlisted reports whether the candidate made the shortlist, including after reveal.
func (s LifecycleState) IsShortlisted() bool {
	return s == StateShortlisted || s == StateRevealed
}

// Application is the lifecycle entry for one (candidate, job) pair. It exists once the
// candidate has applied to the job.
type Application struct {
	CandidateID string         `json:"candidate_id"`
	JobID       string         `json:"job_id"`
	State       LifecycleState `json:"state"`
	AppliedAt   time.Time      `json:"applied_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// RevealEvent is the append-only audit record written once per reveal.
// PrevHash and Hash chain events so the trail can be verified.
type RevealEvent struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	JobID       string    `json:"job_id"`
	RecruiterID string    `json:"recruiter_id"`
	Timestamp   time.Time `json:"timestamp"`
	PrevHash    string    `json:"prev_hash"`
	Hash        string    `json:"hash"`
}

// RevealEventFilter narrows audit queries. Empty fields match everything.
type RevealEventFilter struct {
	CandidateID string
	JobID       string
	RecruiterID string
}

// Matches reports whether the event passes the filter.
func (f RevealEventFilter) Matches(e RevealEvent) bool {
	return (f.CandidateID == "" || e.CandidateID == f.CandidateID) &&
		(f.JobID == "" || e.JobID == f.JobID) &&
		(f.RecruiterID == "" || e.RecruiterID == f.RecruiterID)
}

// Interview is an interview slot booked for a revealed candidate.
type Interview struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	JobID       string    `json:"job_id"`
	RecruiterID string    `json:"recruiter_id"`
	StartsAt    time.Time `json:"starts_at"`
	CreatedAt   time.Time `json:"created_at"`
}
