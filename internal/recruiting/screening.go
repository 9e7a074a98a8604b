package recruiting

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/blind-hire/internal/audit"
	"github.com/jonathan/blind-hire/internal/redaction"
	"github.com/jonathan/blind-hire/internal/types"
)

// Apply records that candidateID applied to jobID, which opens an anonymized lifecycle
// entry. The job must be active and a candidate applies to a job once.
func (s *Service) Apply(ctx context.Context, candidateID, jobID string) (types.Application, error) {
	job, _, err := s.load(ctx, candidateID, jobID)
	if err != nil {
		return types.Application{}, err
	}
	if !job.IsActive() {
		state, _ := s.machine.State(ctx, key(candidateID, jobID))
		return types.Application{}, &types.InvalidTransitionError{
			CandidateID: candidateID,
			JobID:       jobID,
			From:        state,
			Action:      "apply to",
			Reason:      "job is closed",
		}
	}

	app, err := s.machine.Open(ctx, key(candidateID, jobID))
	if err != nil {
		return types.Application{}, err
	}
	s.logger.Info("candidate applied", zap.String("candidate_id", candidateID), zap.String("job_id", jobID))
	return app, nil
}

// Shortlist puts an applicant on the shortlist for jobID. The job must be active.
func (s *Service) Shortlist(ctx context.Context, candidateID, jobID string) (types.Application, error) {
	job, _, current, err := s.loadApplicant(ctx, candidateID, jobID)
	if err != nil {
		return types.Application{}, err
	}
	if !job.IsActive() {
		return types.Application{}, &types.InvalidTransitionError{
			CandidateID: candidateID,
			JobID:       jobID,
			From:        current.State,
			Action:      "shortlist",
			Reason:      "job is closed",
		}
	}

	app, err := s.machine.Shortlist(ctx, key(candidateID, jobID))
	if err != nil {
		return types.Application{}, err
	}
	s.logger.Info("candidate shortlisted", zap.String("candidate_id", candidateID), zap.String("job_id", jobID))
	return app, nil
}

// Unshortlist takes candidateID off the shortlist for jobID.
func (s *Service) Unshortlist(ctx context.Context, candidateID, jobID string) (types.Application, error) {
	if _, _, _, err := s.loadApplicant(ctx, candidateID, jobID); err != nil {
		return types.Application{}, err
	}
	app, err := s.machine.Unshortlist(ctx, key(candidateID, jobID))
	if err != nil {
		return types.Application{}, err
	}
	s.logger.Info("candidate unshortlisted", zap.String("candidate_id", candidateID), zap.String("job_id", jobID))
	return app, nil
}

// Reveal discloses the identity of a shortlisted candidate to recruiterID and records
// the disclosure in the audit trail.
func (s *Service) Reveal(ctx context.Context, candidateID, jobID, recruiterID string) (types.RevealedCandidateView, error) {
	job, rec, _, err := s.loadApplicant(ctx, candidateID, jobID)
	if err != nil {
		return types.RevealedCandidateView{}, err
	}

	app, event, err := s.machine.Reveal(ctx, key(candidateID, jobID), recruiterID)
	if err != nil {
		return types.RevealedCandidateView{}, err
	}
	s.logger.Info("candidate revealed",
		zap.String("candidate_id", candidateID),
		zap.String("job_id", jobID),
		zap.String("recruiter_id", event.RecruiterID),
		zap.String("event_id", event.ID))

	view, err := anonymizedView(rec, job, app.State)
	if err != nil {
		return types.RevealedCandidateView{}, err
	}
	return redaction.Reveal(rec, view), nil
}

// ScheduleInterview books an interview with a revealed candidate.
func (s *Service) ScheduleInterview(ctx context.Context, candidateID, jobID string, req types.ScheduleInterviewRequest) (*types.Interview, error) {
	_, _, app, err := s.loadApplicant(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if app.State != types.StateRevealed {
		return nil, &types.InvalidTransitionError{
			CandidateID: candidateID,
			JobID:       jobID,
			From:        app.State,
			Action:      "schedule interview for",
			Reason:      "identity has not been revealed",
		}
	}

	iv := types.Interview{
		ID:          s.newID(),
		CandidateID: candidateID,
		JobID:       jobID,
		RecruiterID: strings.TrimSpace(req.RecruiterID),
		StartsAt:    req.StartsAt.UTC(),
		CreatedAt:   s.now(),
	}
	s.repo.AddInterview(iv)

	s.logger.Info("interview scheduled",
		zap.String("candidate_id", candidateID),
		zap.String("job_id", jobID),
		zap.String("interview_id", iv.ID),
		zap.Time("starts_at", iv.StartsAt))
	return &iv, nil
}

// ListInterviews returns interviews for jobID, or every interview when jobID is empty.
func (s *Service) ListInterviews(ctx context.Context, jobID string) ([]types.Interview, error) {
	if err := s.checkContext(ctx); err != nil {
		return nil, err
	}
	if jobID != "" {
		if _, err := s.repo.GetJob(jobID); err != nil {
			return nil, err
		}
	}
	return s.repo.ListInterviews(jobID), nil
}

// Stats summarizes the pipeline across all jobs.
func (s *Service) Stats(ctx context.Context) (types.RecruiterStats, error) {
	if err := s.checkContext(ctx); err != nil {
		return types.RecruiterStats{}, err
	}
	apps, err := s.machine.Applications(ctx, "")
	if err != nil {
		return types.RecruiterStats{}, fmt.Errorf("failed to load applications: %w", err)
	}

	stats := types.RecruiterStats{
		ActiveJobPosts:      len(s.repo.ListJobs(types.JobFilter{Status: types.JobActive})),
		TotalCandidates:     s.repo.CountCandidates(),
		TotalApplicants:     len(apps),
		InterviewsScheduled: len(s.repo.ListInterviews("")),
	}
	for _, a := range apps {
		if a.State.IsShortlisted() {
			stats.ShortlistedCount++
		}
		if a.State == types.StateRevealed {
			stats.RevealedCount++
		}
	}
	return stats, nil
}

// RevealEvents returns the audit trail in append order.
func (s *Service) RevealEvents(ctx context.Context, filter types.RevealEventFilter) ([]types.RevealEvent, error) {
	return s.machine.RevealEvents(ctx, filter)
}

// VerifyAuditTrail checks the hash chain of the full audit trail.
func (s *Service) VerifyAuditTrail(ctx context.Context) error {
	events, err := s.machine.RevealEvents(ctx, types.RevealEventFilter{})
	if err != nil {
		return err
	}
	return audit.Verify(events)
}
