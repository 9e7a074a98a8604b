// Package lifecycle implements the per-(candidate, job) screening state machine:
// anonymized -> shortlisted -> revealed, with unshortlist back to anonymized.
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/blind-hire/internal/types"
)

// Key identifies one lifecycle entry.
type Key struct {
	CandidateID string
	JobID       string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.CandidateID, k.JobID)
}

// Change is the outcome of a transition decision.
type Change struct {
	Next types.LifecycleState
	At   time.Time
	// Event, when set, is appended to the audit trail in the same atomic step.
	Event *types.RevealEvent
}

// TransitionFunc decides the next state from the current one. Returning an error
// aborts the transition and leaves the entry untouched.
type TransitionFunc func(current types.LifecycleState) (Change, error)

// Store persists lifecycle entries and the reveal audit trail. Apply must run fn and
// commit its Change as one indivisible check-then-set per key.
//
// Open creates an anonymized entry and fails with *types.ConflictError when one exists.
// Get fails with *types.NotFoundError for a key that was never opened or transitioned.
// State reports anonymized for such keys.
type Store interface {
	Open(ctx context.Context, key Key, at time.Time) (types.Application, error)
	Get(ctx context.Context, key Key) (types.Application, error)
	State(ctx context.Context, key Key) (types.LifecycleState, error)
	Apply(ctx context.Context, key Key, fn TransitionFunc) (types.Application, *types.RevealEvent, error)
	Applications(ctx context.Context, jobID string) ([]types.Application, error)
	RevealEvents(ctx context.Context, filter types.RevealEventFilter) ([]types.RevealEvent, error)
}

// AlreadyApplied is the error Store.Open returns for an existing entry.
func AlreadyApplied(key Key) error {
	return &types.ConflictError{Kind: "application", ID: key.String(), Message: "already applied"}
}

// NotApplied is the error Store.Get returns for a missing entry.
func NotApplied(key Key) error {
	return &types.NotFoundError{Kind: "application", ID: key.String()}
}

// Action names a recruiter-initiated transition.
type Action string

const (
	ActionShortlist   Action = "shortlist"
	ActionUnshortlist Action = "unshortlist"
	ActionReveal      Action = "reveal"
)

type edge struct {
	from types.LifecycleState
	to   types.LifecycleState
}

// transitions is the complete table of allowed moves; anything else is rejected.
var transitions = map[Action]edge{
	ActionShortlist:   {from: types.StateAnonymized, to: types.StateShortlisted},
	ActionUnshortlist: {from: types.StateShortlisted, to: types.StateAnonymized},
	ActionReveal:      {from: types.StateShortlisted, to: types.StateRevealed},
}

// Allowed reports whether action may be taken from state.
func Allowed(action Action, state types.LifecycleState) bool {
	e, ok := transitions[action]
	return ok && e.from == state
}

// Machine applies guarded transitions through a Store.
type Machine struct {
	store Store
	now   func() time.Time
	newID func() string
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the time source used for transitions and audit events.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithIDGenerator overrides how reveal event ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(m *Machine) { m.newID = newID }
}

// NewMachine creates a state machine backed by store.
func NewMachine(store Store, opts ...Option) *Machine {
	m := &Machine{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state for key; entries never touched are anonymized.
func (m *Machine) State(ctx context.Context, key Key) (types.LifecycleState, error) {
	return m.store.State(ctx, key)
}

// Open records that a candidate applied to a job. The entry starts anonymized.
func (m *Machine) Open(ctx context.Context, key Key) (types.Application, error) {
	return m.store.Open(ctx, key, m.now())
}

// Get returns the entry for key, or a *types.NotFoundError if the candidate never applied.
func (m *Machine) Get(ctx context.Context, key Key) (types.Application, error) {
	return m.store.Get(ctx, key)
}

// Shortlist moves an anonymized candidate onto the shortlist.
func (m *Machine) Shortlist(ctx context.Context, key Key) (types.Application, error) {
	app, _, err := m.store.Apply(ctx, key, m.guard(key, ActionShortlist, nil))
	return app, err
}

// Unshortlist returns a shortlisted candidate to anonymized. Revealed candidates stay revealed.
func (m *Machine) Unshortlist(ctx context.Context, key Key) (types.Application, error) {
	app, _, err := m.store.Apply(ctx, key, m.guard(key, ActionUnshortlist, nil))
	return app, err
}

// Reveal moves a shortlisted candidate to revealed and appends exactly one RevealEvent.
func (m *Machine) Reveal(ctx context.Context, key Key, recruiterID string) (types.Application, types.RevealEvent, error) {
	recruiterID = strings.TrimSpace(recruiterID)
	if recruiterID == "" {
		return types.Application{}, types.RevealEvent{}, &types.ValidationError{Field: "recruiter_id", Message: "recruiter id is required"}
	}

	newEvent := func(at time.Time) *types.RevealEvent {
		return &types.RevealEvent{
			ID:          m.newID(),
			CandidateID: key.CandidateID,
			JobID:       key.JobID,
			RecruiterID: recruiterID,
			Timestamp:   at,
		}
	}

	app, event, err := m.store.Apply(ctx, key, m.guard(key, ActionReveal, newEvent))
	if err != nil {
		return types.Application{}, types.RevealEvent{}, err
	}
	if event == nil {
		return app, types.RevealEvent{}, nil
	}
	return app, *event, nil
}

// RevealEvents lists audit events in append order.
func (m *Machine) RevealEvents(ctx context.Context, filter types.RevealEventFilter) ([]types.RevealEvent, error) {
	return m.store.RevealEvents(ctx, filter)
}

// Applications lists entries for jobID, or for all jobs when jobID is empty.
func (m *Machine) Applications(ctx context.Context, jobID string) ([]types.Application, error) {
	return m.store.Applications(ctx, jobID)
}

func (m *Machine) guard(key Key, action Action, event func(time.Time) *types.RevealEvent) TransitionFunc {
	return func(current types.LifecycleState) (Change, error) {
		if !Allowed(action, current) {
			return Change{}, &types.InvalidTransitionError{
				CandidateID: key.CandidateID,
				JobID:       key.JobID,
				From:        current,
				Action:      string(action),
			}
		}
		at := m.now()
		change := Change{Next: transitions[action].to, At: at}
		if event != nil {
			change.Event = event(at)
		}
		return change, nil
	}
}
