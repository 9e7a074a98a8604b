// Package recruiting is the domain service behind every recruiter and job seeker
// operation. It composes the repository, the lifecycle machine, the redactor and the
// scorer, and is the only place that decides which candidate view a caller may see.
package recruiting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/blind-hire/internal/lifecycle"
	"github.com/jonathan/blind-hire/internal/repository"
)

// Service is safe for concurrent use.
type Service struct {
	repo    *repository.Repository
	machine *lifecycle.Machine
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for transition and intake events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source for created records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides how job and interview ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService wires a service over repo and machine.
func NewService(repo *repository.Repository, machine *lifecycle.Machine, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		machine: machine,
		logger:  zap.NewNop(),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func key(candidateID, jobID string) lifecycle.Key {
	return lifecycle.Key{CandidateID: candidateID, JobID: jobID}
}

func (s *Service) checkContext(ctx context.Context) error {
	return ctx.Err()
}
