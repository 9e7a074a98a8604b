package types

// AnonymizedCandidateView is what recruiters see while screening. It must never carry
// identity fields, institutions or employer names.
type AnonymizedCandidateView struct {
	CandidateID       string  `json:"candidate_id"`
	Skills            []Skill `json:"skills"`
	ExperienceSummary string  `json:"experience_summary"`
	EducationLevel    string  `json:"education_level"`
	MatchPercentage   int     `json:"match_percentage"`
	IsShortlisted     bool    `json:"is_shortlisted"`
	IsRevealed        bool    `json:"is_revealed"`
}

// RevealedCandidateView is the full candidate profile, returned only after reveal.
type RevealedCandidateView struct {
	AnonymizedCandidateView
	FullName    string       `json:"full_name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	Location    string       `json:"location,omitempty"`
	Institution string       `json:"institution,omitempty"`
	Experience  []Experience `json:"experience"`
	Education   []Education  `json:"education"`
}

// JobMatch is a job listing as seen by a seeker, with their match percentage.
type JobMatch struct {
	Job             JobPosting `json:"job"`
	MatchPercentage int        `json:"match_percentage"`
	MatchedSkills   []string   `json:"matched_skills"`
	MissingSkills   []string   `json:"missing_skills"`
	Applied         bool       `json:"applied"`
}

// RecruiterStats summarizes the screening pipeline for the recruiter dashboard.
type RecruiterStats struct {
	ActiveJobPosts      int `json:"active_job_posts"`
	TotalCandidates     int `json:"total_candidates"`
	TotalApplicants     int `json:"total_applicants"`
	ShortlistedCount    int `json:"shortlisted_count"`
	RevealedCount       int `json:"revealed_count"`
	InterviewsScheduled int `json:"interviews_scheduled"`
}
