package lifecycle

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonathan/blind-hire/internal/audit"
	"github.com/jonathan/blind-hire/internal/types"
)

// MemoryStore is an in-process Store. A single mutex serializes every transition.
type MemoryStore struct {
	mu     sync.Mutex
	apps   map[Key]types.Application
	events []types.RevealEvent
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apps: make(map[Key]types.Application)}
}

// Open implements Store.
func (s *MemoryStore) Open(_ context.Context, key Key, at time.Time) (types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.apps[key]; ok {
		return types.Application{}, AlreadyApplied(key)
	}
	app := types.Application{
		CandidateID: key.CandidateID,
		JobID:       key.JobID,
		State:       types.StateAnonymized,
		AppliedAt:   at,
		UpdatedAt:   at,
	}
	s.apps[key] = app
	return app, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key Key) (types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[key]
	if !ok {
		return types.Application{}, NotApplied(key)
	}
	return app, nil
}

// State implements Store.
func (s *MemoryStore) State(_ context.Context, key Key) (types.LifecycleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(key), nil
}

// Apply implements Store.
func (s *MemoryStore) Apply(_ context.Context, key Key, fn TransitionFunc) (types.Application, *types.RevealEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change, err := fn(s.stateLocked(key))
	if err != nil {
		return types.Application{}, nil, err
	}

	appliedAt := change.At
	if prev, ok := s.apps[key]; ok {
		appliedAt = prev.AppliedAt
	}
	app := types.Application{
		CandidateID: key.CandidateID,
		JobID:       key.JobID,
		State:       change.Next,
		AppliedAt:   appliedAt,
		UpdatedAt:   change.At,
	}
	s.apps[key] = app

	if change.Event == nil {
		return app, nil, nil
	}
	sealed := audit.Seal(*change.Event, audit.Head(s.events))
	s.events = append(s.events, sealed)
	return app, &sealed, nil
}

// Applications implements Store. Results are ordered by job id, then application time,
// then candidate id.
func (s *MemoryStore) Applications(_ context.Context, jobID string) ([]types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Application, 0, len(s.apps))
	for key, app := range s.apps {
		if jobID != "" && key.JobID != jobID {
			continue
		}
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JobID != out[j].JobID {
			return out[i].JobID < out[j].JobID
		}
		if !out[i].AppliedAt.Equal(out[j].AppliedAt) {
			return out[i].AppliedAt.Before(out[j].AppliedAt)
		}
		return out[i].CandidateID < out[j].CandidateID
	})
	return out, nil
}

// RevealEvents implements Store.
func (s *MemoryStore) RevealEvents(_ context.Context, filter types.RevealEventFilter) ([]types.RevealEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.RevealEvent, 0, len(s.events))
	for _, e := range s.events {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) stateLocked(key Key) types.LifecycleState {
	if app, ok := s.apps[key]; ok {
		return app.State
	}
	return types.StateAnonymized
}
