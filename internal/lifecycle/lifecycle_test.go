package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/blind-hire/internal/audit"
	"github.com/jonathan/blind-hire/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedMachine(t *testing.T) (*Machine, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	ids := 0
	m := NewMachine(store,
		WithClock(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			tick++
			return base.Add(time.Duration(tick) * time.Minute)
		}),
		WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			ids++
			return fmt.Sprintf("evt-%d", ids)
		}),
	)
	return m, store
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		action Action
		state  types.LifecycleState
		want   bool
	}{
		{ActionShortlist, types.StateAnonymized, true},
		{ActionShortlist, types.StateShortlisted, false},
		{ActionShortlist, types.StateRevealed, false},
		{ActionUnshortlist, types.StateShortlisted, true},
		{ActionUnshortlist, types.StateAnonymized, false},
		{ActionUnshortlist, types.StateRevealed, false},
		{ActionReveal, types.StateShortlisted, true},
		{ActionReveal, types.StateAnonymized, false},
		{ActionReveal, types.StateRevealed, false},
		{Action("promote"), types.StateAnonymized, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s from %s", tt.action, tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.action, tt.state))
		})
	}
}

func TestMachine_InitialStateIsAnonymized(t *testing.T) {
	m, _ := fixedMachine(t)
	state, err := m.State(context.Background(), Key{CandidateID: "CND-1", JobID: "job-1"})
	require.NoError(t, err)
	assert.Equal(t, types.StateAnonymized, state)
}

func TestMachine_ShortlistRevealFlow(t *testing.T) {
	ctx := context.Background()
	m, _ := fixedMachine(t)
	key := Key{CandidateID: "CND-1", JobID: "job-1"}

	app, err := m.Shortlist(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, types.StateShortlisted, app.State)

	app, event, err := m.Reveal(ctx, key, "rec-7")
	require.NoError(t, err)
	assert.Equal(t, types.StateRevealed, app.State)
	assert.Equal(t, "evt-1", event.ID)
	assert.Equal(t, "CND-1", event.CandidateID)
	assert.Equal(t, "job-1", event.JobID)
	assert.Equal(t, "rec-7", event.RecruiterID)
	assert.Equal(t, app.UpdatedAt, event.Timestamp)
	assert.Equal(t, audit.GenesisHash, event.PrevHash)
	assert.NotEmpty(t, event.Hash)

	events, err := m.RevealEvents(ctx, types.RevealEventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event, events[0])
}

func TestMachine_UnshortlistReturnsToAnonymized(t *testing.T) {
	ctx := context.Background()
	m, _ := fixedMachine(t)
	key := Key{CandidateID: "CND-2", JobID: "job-1"}

	_, err := m.Shortlist(ctx, key)
	require.NoError(t, err)
	app, err := m.Unshortlist(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, types.StateAnonymized, app.State)

	// Shortlisting again is allowed after an unshortlist.
	app, err = m.Shortlist(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, types.StateShortlisted, app.State)
}

func TestMachine_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		setup []Action
		act   Action
		from  types.LifecycleState
	}{
		{name: "reveal from anonymized", act: ActionReveal, from: types.StateAnonymized},
		{name: "unshortlist from anonymized", act: ActionUnshortlist, from: types.StateAnonymized},
		{name: "shortlist twice", setup: []Action{ActionShortlist}, act: ActionShortlist, from: types.StateShortlisted},
		{name: "reveal twice", setup: []Action{ActionShortlist, ActionReveal}, act: ActionReveal, from: types.StateRevealed},
		{name: "unshortlist after reveal", setup: []Action{ActionShortlist, ActionReveal}, act: ActionUnshortlist, from: types.StateRevealed},
		{name: "shortlist after reveal", setup: []Action{ActionShortlist, ActionReveal}, act: ActionShortlist, from: types.StateRevealed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m, _ := fixedMachine(t)
			key := Key{CandidateID: "CND-3", JobID: "job-2"}

			run := func(a Action) error {
				var err error
				switch a {
				case ActionShortlist:
					_, err = m.Shortlist(ctx, key)
				case ActionUnshortlist:
					_, err = m.Unshortlist(ctx, key)
				case ActionReveal:
					_, _, err = m.Reveal(ctx, key, "rec-1")
				}
				return err
			}
			for _, a := range tt.setup {
				require.NoError(t, run(a))
			}
			before, err := m.RevealEvents(ctx, types.RevealEventFilter{})
			require.NoError(t, err)

			err = run(tt.act)
			require.Error(t, err)
			var transErr *types.InvalidTransitionError
			require.True(t, errors.As(err, &transErr))
			assert.Equal(t, tt.from, transErr.From)
			assert.Equal(t, string(tt.act), transErr.Action)
			assert.Equal(t, "CND-3", transErr.CandidateID)

			state, err := m.State(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, tt.from, state, "state must be unchanged after a rejected transition")

			after, err := m.RevealEvents(ctx, types.RevealEventFilter{})
			require.NoError(t, err)
			assert.Len(t, after, len(before), "no event may be appended on failure")
		})
	}
}

func TestMachine_RevealRequiresRecruiter(t *testing.T) {
	ctx := context.Background()
	m, _ := fixedMachine(t)
	key := Key{CandidateID: "CND-1", JobID: "job-1"}
	_, err := m.Shortlist(ctx, key)
	require.NoError(t, err)

	_, _, err = m.Reveal(ctx, key, "   ")
	var valErr *types.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "recruiter_id", valErr.Field)

	state, err := m.State(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, types.StateShortlisted, state)
}

func TestMachine_StatesArePerJob(t *testing.T) {
	ctx := context.Background()
	m, _ := fixedMachine(t)

	_, err := m.Shortlist(ctx, Key{CandidateID: "CND-1", JobID: "job-1"})
	require.NoError(t, err)

	state, err := m.State(ctx, Key{CandidateID: "CND-1", JobID: "job-2"})
	require.NoError(t, err)
	assert.Equal(t, types.StateAnonymized, state)

	_, _, err = m.Reveal(ctx, Key{CandidateID: "CND-1", JobID: "job-2"}, "rec-1")
	assert.Error(t, err)
}

func TestMachine_ConcurrentRevealAppendsOneEvent(t *testing.T) {
	ctx := context.Background()
	m, _ := fixedMachine(t)
	key := Key{CandidateID: "CND-9", JobID: "job-1"}
	_, err := m.Shortlist(ctx, key)
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	rejections := 0

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, _, err := m.Reveal(ctx, key, fmt.Sprintf("rec-%d", i))
			mu.Lock()
			defer mu.Unlock()
			var transErr *types.InvalidTransitionError
			switch {
			case err == nil:
				successes++
			case errors.As(err, &transErr):
				rejections++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, rejections)

	events, err := m.RevealEvents(ctx, types.RevealEventFilter{CandidateID: "CND-9"})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestMemoryStore_EventsFormVerifiableChain(t *testing.T) {
	ctx := context.Background()
	m, _ := fixedMachine(t)

	for _, c := range []string{"CND-1", "CND-2", "CND-3"} {
		key := Key{CandidateID: c, JobID: "job-1"}
		_, err := m.Shortlist(ctx, key)
		require.NoError(t, err)
		_, _, err = m.Reveal(ctx, key, "rec-1")
		require.NoError(t, err)
	}

	events, err := m.RevealEvents(ctx, types.RevealEventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.NoError(t, audit.Verify(events))
	assert.Equal(t, events[0].Hash, events[1].PrevHash)

	filtered, err := m.RevealEvents(ctx, types.RevealEventFilter{CandidateID: "CND-2"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "CND-2", filtered[0].CandidateID)
}

func TestMachine_OpenAndGet(t *testing.T) {
	ctx := context.Background()
	m, _ := fixedMachine(t)
	key := Key{CandidateID: "CND-1", JobID: "job-1"}

	_, err := m.Get(ctx, key)
	var nf *types.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "application", nf.Kind)
	assert.Equal(t, "CND-1/job-1", nf.ID)

	opened, err := m.Open(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, types.StateAnonymized, opened.State)
	assert.Equal(t, opened.AppliedAt, opened.UpdatedAt)

	_, err = m.Open(ctx, key)
	var conflict *types.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "application", conflict.Kind)

	shortlisted, err := m.Shortlist(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, opened.AppliedAt, shortlisted.AppliedAt, "transitions keep the application time")
	assert.True(t, shortlisted.UpdatedAt.After(opened.UpdatedAt))

	got, err := m.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, shortlisted, got)
}

func TestMemoryStore_Applications(t *testing.T) {
	ctx := context.Background()
	m, _ := fixedMachine(t)

	for _, key := range []Key{
		{CandidateID: "CND-2", JobID: "job-1"},
		{CandidateID: "CND-1", JobID: "job-1"},
		{CandidateID: "CND-1", JobID: "job-2"},
	} {
		_, err := m.Open(ctx, key)
		require.NoError(t, err)
	}
	_, err := m.Shortlist(ctx, Key{CandidateID: "CND-3", JobID: "job-1"})
	require.NoError(t, err)
	_, err = m.Unshortlist(ctx, Key{CandidateID: "CND-3", JobID: "job-1"})
	require.NoError(t, err)

	apps, err := m.Applications(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, "CND-2", apps[0].CandidateID, "ordered by application time")
	assert.Equal(t, "CND-1", apps[1].CandidateID)
	assert.Equal(t, "CND-3", apps[2].CandidateID)
	assert.Equal(t, types.StateAnonymized, apps[2].State, "unshortlisted entries stay listed")

	all, err := m.Applications(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
