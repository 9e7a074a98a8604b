package recruiting

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/blind-hire/internal/ingestion"
	"github.com/jonathan/blind-hire/internal/ranking"
	"github.com/jonathan/blind-hire/internal/skills"
	"github.com/jonathan/blind-hire/internal/types"
)

// ListJobs returns jobs passing filter, newest first.
func (s *Service) ListJobs(ctx context.Context, filter types.JobFilter) ([]types.JobPosting, error) {
	if err := s.checkContext(ctx); err != nil {
		return nil, err
	}
	counts, err := s.applicantCounts(ctx)
	if err != nil {
		return nil, err
	}
	jobs := s.repo.ListJobs(filter)
	out := make([]types.JobPosting, 0, len(jobs))
	for _, j := range jobs {
		j.ApplicantCount = counts[j.ID]
		out = append(out, *j)
	}
	return out, nil
}

// GetJob returns one job.
func (s *Service) GetJob(ctx context.Context, jobID string) (*types.JobPosting, error) {
	if err := s.checkContext(ctx); err != nil {
		return nil, err
	}
	return s.withApplicants(ctx)(s.repo.GetJob(jobID))
}

// PostJob validates req and creates an active job. HTML descriptions are reduced to text.
func (s *Service) PostJob(ctx context.Context, req types.PostJobRequest) (*types.JobPosting, error) {
	if err := s.checkContext(ctx); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &types.ValidationError{Field: "Title", Message: "title is blank"}
	}
	level, err := types.ParseExperienceLevel(req.ExperienceLevel)
	if err != nil {
		return nil, &types.ValidationError{Field: "ExperienceLevel", Message: err.Error()}
	}
	required, err := requiredSkills(req.RequiredSkills, "")
	if err != nil {
		return nil, err
	}
	description, err := ingestion.CleanDescription(req.Description)
	if err != nil {
		return nil, &types.ValidationError{Field: "Description", Message: err.Error()}
	}
	if description == "" {
		return nil, &types.ValidationError{Field: "Description", Message: "description is blank"}
	}

	job := &types.JobPosting{
		ID:              s.newID(),
		Title:           title,
		Description:     description,
		RequiredSkills:  required,
		ExperienceLevel: level,
		Status:          types.JobActive,
		PostedAt:        s.now(),
	}
	if err := s.repo.CreateJob(job); err != nil {
		return nil, fmt.Errorf("failed to store job: %w", err)
	}

	s.logger.Info("job posted",
		zap.String("job_id", job.ID),
		zap.String("experience_level", string(level)),
		zap.Int("required_skills", len(required)))
	return job, nil
}

// UpdateJobSkills replaces the required skills of an active job.
func (s *Service) UpdateJobSkills(ctx context.Context, jobID string, list []types.Skill) (*types.JobPosting, error) {
	if err := s.checkContext(ctx); err != nil {
		return nil, err
	}
	required, err := requiredSkills(list, jobID)
	if err != nil {
		return nil, err
	}
	job, err := s.withApplicants(ctx)(s.repo.UpdateJobSkills(jobID, required))
	if err != nil {
		return nil, err
	}
	s.logger.Info("job skills updated", zap.String("job_id", jobID), zap.Int("required_skills", len(required)))
	return job, nil
}

// CloseJob closes a job. Shortlisting stops; reveals and interviews stay possible.
func (s *Service) CloseJob(ctx context.Context, jobID string) (*types.JobPosting, error) {
	if err := s.checkContext(ctx); err != nil {
		return nil, err
	}
	job, err := s.withApplicants(ctx)(s.repo.CloseJob(jobID))
	if err != nil {
		return nil, err
	}
	s.logger.Info("job closed", zap.String("job_id", jobID))
	return job, nil
}

// MatchingJobs lists jobs passing filter ranked by how well candidateID matches them.
// An empty status in filter means active jobs only.
func (s *Service) MatchingJobs(ctx context.Context, candidateID string, filter types.JobFilter) ([]types.JobMatch, error) {
	if err := s.checkContext(ctx); err != nil {
		return nil, err
	}
	rec, err := s.repo.GetCandidate(candidateID)
	if err != nil {
		return nil, err
	}
	if filter.Status == "" {
		filter.Status = types.JobActive
	}
	apps, err := s.machine.Applications(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}
	counts := make(map[string]int)
	applied := make(map[string]bool)
	for _, a := range apps {
		counts[a.JobID]++
		if a.CandidateID == rec.CandidateID {
			applied[a.JobID] = true
		}
	}

	matches := ranking.RankJobs(rec, s.repo.ListJobs(filter))
	for i := range matches {
		matches[i].Job.ApplicantCount = counts[matches[i].Job.ID]
		matches[i].Applied = applied[matches[i].Job.ID]
	}
	return matches, nil
}

func (s *Service) applicantCounts(ctx context.Context) (map[string]int, error) {
	apps, err := s.machine.Applications(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}
	counts := make(map[string]int)
	for _, a := range apps {
		counts[a.JobID]++
	}
	return counts, nil
}

// withApplicants fills ApplicantCount on the result of a repository job lookup.
func (s *Service) withApplicants(ctx context.Context) func(*types.JobPosting, error) (*types.JobPosting, error) {
	return func(job *types.JobPosting, err error) (*types.JobPosting, error) {
		if err != nil {
			return nil, err
		}
		apps, err := s.machine.Applications(ctx, job.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load applications: %w", err)
		}
		job.ApplicantCount = len(apps)
		return job, nil
	}
}

// requiredSkills cleans a job's skill list and makes sure it can be scored.
func requiredSkills(list []types.Skill, jobID string) ([]types.Skill, error) {
	if len(list) == 0 {
		return nil, &types.ValidationError{Field: "RequiredSkills", Message: "a job needs at least one required skill"}
	}
	cleaned, err := skills.Clean(list, "RequiredSkills")
	if err != nil {
		return nil, err
	}
	total := 0
	for _, sk := range cleaned {
		total += sk.Value
	}
	if total == 0 {
		return nil, &types.InvalidJobDefinitionError{JobID: jobID, Message: "required skill weights sum to zero"}
	}
	return cleaned, nil
}
