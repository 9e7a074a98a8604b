package types

import "time"

// Identity holds the fields that identify a candidate. They are set once at CV intake
// and never change afterwards.
type Identity struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Location    string `json:"location,omitempty"`
	Institution string `json:"institution,omitempty"`
}

// Experience is a single work history entry.
type Experience struct {
	ID             string `json:"id"`
	Title          string `json:"title" validate:"required"`
	Employer       string `json:"employer,omitempty" validate:"omitempty,maskable"`
	DurationMonths int    `json:"duration_months" validate:"min=0"`
	Description    string `json:"description,omitempty"`
}

// Education is a single education entry.
type Education struct {
	ID          string `json:"id"`
	Degree      string `json:"degree" validate:"required"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution,omitempty" validate:"omitempty,maskable"`
	Year        string `json:"year,omitempty"`
}

// CandidateRecord is the raw candidate as submitted at CV intake. It is never shown to
// recruiters directly; see AnonymizedCandidateView.
type CandidateRecord struct {
	CandidateID string       `json:"candidate_id"`
	Identity    Identity     `json:"identity"`
	Skills      []Skill      `json:"skills"`
	Experience  []Experience `json:"experience"`
	Education   []Education  `json:"education"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Clone returns a deep copy of the record.
func (r *CandidateRecord) Clone() *CandidateRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Skills = append([]Skill(nil), r.Skills...)
	out.Experience = append([]Experience(nil), r.Experience...)
	out.Education = append([]Education(nil), r.Education...)
	return &out
}
