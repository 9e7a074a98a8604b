// Package redaction projects raw candidate records into views that are safe to show
// during blind screening.
package redaction

import (
	"github.com/jonathan/blind-hire/internal/types"
)

// Redact builds the anonymized view of rec. It is pure and never mutates rec.
// MatchPercentage and lifecycle flags are left zero for the caller to fill in.
func Redact(rec *types.CandidateRecord) types.AnonymizedCandidateView {
	if rec == nil {
		return types.AnonymizedCandidateView{Skills: []types.Skill{}}
	}
	s := NewScrubber(SensitiveTerms(rec))

	skills := make([]types.Skill, 0, len(rec.Skills))
	for _, sk := range rec.Skills {
		skills = append(skills, types.Skill{Name: s.Scrub(sk.Name), Value: sk.Value})
	}

	return types.AnonymizedCandidateView{
		CandidateID:       rec.CandidateID,
		Skills:            skills,
		ExperienceSummary: s.Scrub(ExperienceSummary(rec.Experience)),
		EducationLevel:    s.Scrub(EducationLevel(rec.Education)),
	}
}

// Reveal extends view with the identity and history of rec.
func Reveal(rec *types.CandidateRecord, view types.AnonymizedCandidateView) types.RevealedCandidateView {
	if rec == nil {
		return types.RevealedCandidateView{AnonymizedCandidateView: view}
	}
	return types.RevealedCandidateView{
		AnonymizedCandidateView: view,
		FullName:                rec.Identity.FullName,
		Email:                   rec.Identity.Email,
		Phone:                   rec.Identity.Phone,
		Location:                rec.Identity.Location,
		Institution:             rec.Identity.Institution,
		Experience:              append([]types.Experience{}, rec.Experience...),
		Education:               append([]types.Education{}, rec.Education...),
	}
}
