package recruiting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/blind-hire/internal/ranking"
	"github.com/jonathan/blind-hire/internal/redaction"
	"github.com/jonathan/blind-hire/internal/skills"
	"github.com/jonathan/blind-hire/internal/types"
)

// SortBy orders candidate listings.
type SortBy string

const (
	SortByNone  SortBy = "none"
	SortByMatch SortBy = "match"
)

// ParseSortBy accepts "", "none" and "match".
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByNone:
		return SortByNone, nil
	case SortByMatch:
		return SortByMatch, nil
	default:
		return "", &types.ValidationError{Field: "sort_by", Message: fmt.Sprintf("unknown sort order %q", s)}
	}
}

// ListOptions narrows and orders ListAnonymizedCandidates.
type ListOptions struct {
	SortBy SortBy
	// Query matches the candidate id or any skill name, case-insensitively.
	Query           string
	ShortlistedOnly bool
}

// SubmitCV creates a candidate from already-structured CV data.
func (s *Service) SubmitCV(ctx context.Context, candidateID string, req types.SubmitCVRequest) (*types.CandidateRecord, error) {
	if err := s.checkContext(ctx); err != nil {
		return nil, err
	}
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return nil, &types.ValidationError{Field: "candidate_id", Message: "candidate id is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cleaned, err := skills.Clean(req.Skills, "Skills")
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec := &types.CandidateRecord{
		CandidateID: candidateID,
		Identity:    req.Identity.Identity(),
		Skills:      cleaned,
		Experience:  numberExperience(req.Experience),
		Education:   numberEducation(req.Education),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The id is shown in anonymized views, so it must not carry identity.
	if scrubbed := redaction.NewScrubber(redaction.SensitiveTerms(rec)).Scrub(candidateID); scrubbed != candidateID {
		return nil, &types.ValidationError{Field: "candidate_id", Message: "candidate id must not contain identity details"}
	}

	if err := s.repo.CreateCandidate(rec); err != nil {
		return nil, err
	}

	s.logger.Info("cv submitted",
		zap.String("candidate_id", candidateID),
		zap.Int("skills", len(cleaned)),
		zap.Int("experience_entries", len(rec.Experience)))
	return rec, nil
}

// UpdateCV replaces a candidate's professional fields. Identity cannot change.
func (s *Service) UpdateCV(ctx context.Context, candidateID string, req types.UpdateCVRequest) (*types.CandidateRecord, error) {
	if err := s.checkContext(ctx); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cleaned, err := skills.Clean(req.Skills, "Skills")
	if err != nil {
		return nil, err
	}
	rec, err := s.repo.UpdateCandidateProfile(candidateID, cleaned,
		numberExperience(req.Experience), numberEducation(req.Education), s.now())
	if err != nil {
		return nil, err
	}
	s.logger.Info("cv updated", zap.String("candidate_id", candidateID), zap.Int("skills", len(cleaned)))
	return rec, nil
}

// ListAnonymizedCandidates returns the screening view of every applicant to jobID, in
// application order unless opts asks for match order.
func (s *Service) ListAnonymizedCandidates(ctx context.Context, jobID string, opts ListOptions) ([]types.AnonymizedCandidateView, error) {
	if err := s.checkContext(ctx); err != nil {
		return nil, err
	}
	job, err := s.repo.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	apps, err := s.machine.Applications(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(opts.Query))
	views := make([]types.AnonymizedCandidateView, 0, len(apps))
	for _, app := range apps {
		rec, err := s.repo.GetCandidate(app.CandidateID)
		if err != nil {
			var notFound *types.NotFoundError
			if errors.As(err, &notFound) {
				// Entries restored from a durable store may outlive the in-memory profile.
				continue
			}
			return nil, err
		}
		view, err := anonymizedView(rec, job, app.State)
		if err != nil {
			return nil, err
		}
		if opts.ShortlistedOnly && !view.IsShortlisted {
			continue
		}
		if query != "" && !viewMatches(view, query) {
			continue
		}
		views = append(views, view)
	}

	if opts.SortBy == SortByMatch {
		sort.SliceStable(views, func(i, j int) bool {
			if views[i].MatchPercentage != views[j].MatchPercentage {
				return views[i].MatchPercentage > views[j].MatchPercentage
			}
			return views[i].CandidateID < views[j].CandidateID
		})
	}
	return views, nil
}

// GetAnonymizedCandidate returns the screening view of one applicant to jobID.
func (s *Service) GetAnonymizedCandidate(ctx context.Context, candidateID, jobID string) (types.AnonymizedCandidateView, error) {
	job, rec, app, err := s.loadApplicant(ctx, candidateID, jobID)
	if err != nil {
		return types.AnonymizedCandidateView{}, err
	}
	return anonymizedView(rec, job, app.State)
}

// GetRevealedCandidate returns the full profile, but only once the candidate has been
// revealed for jobID.
func (s *Service) GetRevealedCandidate(ctx context.Context, candidateID, jobID string) (types.RevealedCandidateView, error) {
	job, rec, app, err := s.loadApplicant(ctx, candidateID, jobID)
	if err != nil {
		return types.RevealedCandidateView{}, err
	}
	view, err := anonymizedView(rec, job, app.State)
	if err != nil {
		return types.RevealedCandidateView{}, err
	}
	if !view.IsRevealed {
		return types.RevealedCandidateView{}, &types.InvalidTransitionError{
			CandidateID: candidateID,
			JobID:       jobID,
			From:        app.State,
			Action:      "view revealed profile of",
			Reason:      "identity has not been revealed",
		}
	}
	return redaction.Reveal(rec, view), nil
}

func (s *Service) load(ctx context.Context, candidateID, jobID string) (*types.JobPosting, *types.CandidateRecord, error) {
	if err := s.checkContext(ctx); err != nil {
		return nil, nil, err
	}
	job, err := s.repo.GetJob(jobID)
	if err != nil {
		return nil, nil, err
	}
	rec, err := s.repo.GetCandidate(candidateID)
	if err != nil {
		return nil, nil, err
	}
	return job, rec, nil
}

// loadApplicant is load plus the lifecycle entry. Candidates that never applied to
// jobID get a NotFoundError.
func (s *Service) loadApplicant(ctx context.Context, candidateID, jobID string) (*types.JobPosting, *types.CandidateRecord, types.Application, error) {
	job, rec, err := s.load(ctx, candidateID, jobID)
	if err != nil {
		return nil, nil, types.Application{}, err
	}
	app, err := s.machine.Get(ctx, key(candidateID, jobID))
	if err != nil {
		return nil, nil, types.Application{}, err
	}
	return job, rec, app, nil
}

func anonymizedView(rec *types.CandidateRecord, job *types.JobPosting, state types.LifecycleState) (types.AnonymizedCandidateView, error) {
	score, err := ranking.ScoreJob(rec, job)
	if err != nil {
		return types.AnonymizedCandidateView{}, err
	}
	view := redaction.Redact(rec)
	view.MatchPercentage = score
	view.IsShortlisted = state.IsShortlisted()
	view.IsRevealed = state == types.StateRevealed
	return view, nil
}

func viewMatches(view types.AnonymizedCandidateView, query string) bool {
	if strings.Contains(strings.ToLower(view.CandidateID), query) {
		return true
	}
	for _, sk := range view.Skills {
		if strings.Contains(strings.ToLower(sk.Name), query) {
			return true
		}
	}
	return false
}

func numberExperience(in []types.Experience) []types.Experience {
	out := make([]types.Experience, len(in))
	for i, e := range in {
		e.Title = strings.TrimSpace(e.Title)
		if e.ID == "" {
			e.ID = fmt.Sprintf("exp-%d", i+1)
		}
		out[i] = e
	}
	return out
}

func numberEducation(in []types.Education) []types.Education {
	out := make([]types.Education, len(in))
	for i, e := range in {
		e.Degree = strings.TrimSpace(e.Degree)
		if e.ID == "" {
			e.ID = fmt.Sprintf("edu-%d", i+1)
		}
		out[i] = e
	}
	return out
}
