package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/blind-hire/internal/audit"
	"github.com/jonathan/blind-hire/internal/lifecycle"
	"github.com/jonathan/blind-hire/internal/types"
)

// LifecycleStore implements lifecycle.Store on PostgreSQL. Each transition runs in one
// transaction: the entry row is locked with SELECT ... FOR UPDATE, and a reveal event is
// inserted in the same commit as the state change.
type LifecycleStore struct {
	db *DB
}

var _ lifecycle.Store = (*LifecycleStore)(nil)

// NewLifecycleStore creates a store backed by db. Call Migrate first.
func NewLifecycleStore(db *DB) *LifecycleStore {
	return &LifecycleStore{db: db}
}

// Open implements lifecycle.Store.
func (s *LifecycleStore) Open(ctx context.Context, key lifecycle.Key, at time.Time) (types.Application, error) {
	app := types.Application{CandidateID: key.CandidateID, JobID: key.JobID, State: types.StateAnonymized}
	err := s.db.pool.QueryRow(ctx,
		`INSERT INTO applications (candidate_id, job_id, state, applied_at, updated_at)
		 VALUES ($1, $2, 'anonymized', $3, $3)
		 ON CONFLICT (candidate_id, job_id) DO NOTHING
		 RETURNING applied_at, updated_at`,
		key.CandidateID, key.JobID, at,
	).Scan(&app.AppliedAt, &app.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Application{}, lifecycle.AlreadyApplied(key)
		}
		return types.Application{}, fmt.Errorf("failed to open lifecycle entry: %w", err)
	}
	app.AppliedAt = app.AppliedAt.UTC()
	app.UpdatedAt = app.UpdatedAt.UTC()
	return app, nil
}

// Get implements lifecycle.Store.
func (s *LifecycleStore) Get(ctx context.Context, key lifecycle.Key) (types.Application, error) {
	app := types.Application{CandidateID: key.CandidateID, JobID: key.JobID}
	var state string
	err := s.db.pool.QueryRow(ctx,
		`SELECT state, applied_at, updated_at FROM applications WHERE candidate_id = $1 AND job_id = $2`,
		key.CandidateID, key.JobID,
	).Scan(&state, &app.AppliedAt, &app.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Application{}, lifecycle.NotApplied(key)
		}
		return types.Application{}, fmt.Errorf("failed to get lifecycle entry: %w", err)
	}
	app.State = types.LifecycleState(state)
	app.AppliedAt = app.AppliedAt.UTC()
	app.UpdatedAt = app.UpdatedAt.UTC()
	return app, nil
}

// State implements lifecycle.Store.
func (s *LifecycleStore) State(ctx context.Context, key lifecycle.Key) (types.LifecycleState, error) {
	var state string
	err := s.db.pool.QueryRow(ctx,
		`SELECT state FROM applications WHERE candidate_id = $1 AND job_id = $2`,
		key.CandidateID, key.JobID,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.StateAnonymized, nil
		}
		return "", fmt.Errorf("failed to get lifecycle state: %w", err)
	}
	return types.LifecycleState(state), nil
}

// Apply implements lifecycle.Store.
func (s *LifecycleStore) Apply(ctx context.Context, key lifecycle.Key, fn lifecycle.TransitionFunc) (types.Application, *types.RevealEvent, error) {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return types.Application{}, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Make sure the row exists so FOR UPDATE has something to lock. Rolled back with
	// everything else if the transition is rejected.
	if _, err := tx.Exec(ctx,
		`INSERT INTO applications (candidate_id, job_id, state)
		 VALUES ($1, $2, 'anonymized')
		 ON CONFLICT (candidate_id, job_id) DO NOTHING`,
		key.CandidateID, key.JobID,
	); err != nil {
		return types.Application{}, nil, fmt.Errorf("failed to create lifecycle entry: %w", err)
	}

	var current string
	var appliedAt time.Time
	if err := tx.QueryRow(ctx,
		`SELECT state, applied_at FROM applications WHERE candidate_id = $1 AND job_id = $2 FOR UPDATE`,
		key.CandidateID, key.JobID,
	).Scan(&current, &appliedAt); err != nil {
		return types.Application{}, nil, fmt.Errorf("failed to lock lifecycle entry: %w", err)
	}

	change, err := fn(types.LifecycleState(current))
	if err != nil {
		return types.Application{}, nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE applications SET state = $3, updated_at = $4
		 WHERE candidate_id = $1 AND job_id = $2`,
		key.CandidateID, key.JobID, string(change.Next), change.At,
	); err != nil {
		return types.Application{}, nil, fmt.Errorf("failed to update lifecycle entry: %w", err)
	}

	var sealed *types.RevealEvent
	if change.Event != nil {
		event, err := appendRevealEvent(ctx, tx, *change.Event)
		if err != nil {
			return types.Application{}, nil, err
		}
		sealed = &event
	}

	if err := tx.Commit(ctx); err != nil {
		return types.Application{}, nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	return types.Application{
		CandidateID: key.CandidateID,
		JobID:       key.JobID,
		State:       change.Next,
		AppliedAt:   appliedAt.UTC(),
		UpdatedAt:   change.At.UTC(),
	}, sealed, nil
}

// appendRevealEvent chains event to the current head of the trail. The table lock
// serializes appends across keys so two reveals can never share a parent hash.
func appendRevealEvent(ctx context.Context, tx pgx.Tx, event types.RevealEvent) (types.RevealEvent, error) {
	if _, err := tx.Exec(ctx, `LOCK TABLE reveal_events IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return types.RevealEvent{}, fmt.Errorf("failed to lock reveal events: %w", err)
	}

	prev := audit.GenesisHash
	err := tx.QueryRow(ctx, `SELECT hash FROM reveal_events ORDER BY seq DESC LIMIT 1`).Scan(&prev)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return types.RevealEvent{}, fmt.Errorf("failed to read audit head: %w", err)
	}

	sealed := audit.Seal(event, prev)
	if _, err := tx.Exec(ctx,
		`INSERT INTO reveal_events (id, candidate_id, job_id, recruiter_id, occurred_at, prev_hash, hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sealed.ID, sealed.CandidateID, sealed.JobID, sealed.RecruiterID,
		sealed.Timestamp, sealed.PrevHash, sealed.Hash,
	); err != nil {
		return types.RevealEvent{}, fmt.Errorf("failed to insert reveal event: %w", err)
	}
	return sealed, nil
}

// Applications implements lifecycle.Store.
func (s *LifecycleStore) Applications(ctx context.Context, jobID string) ([]types.Application, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT candidate_id, job_id, state, applied_at, updated_at
		 FROM applications
		 WHERE $1 = '' OR job_id = $1
		 ORDER BY job_id, applied_at, candidate_id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]types.Application, 0)
	for rows.Next() {
		var a types.Application
		var state string
		if err := rows.Scan(&a.CandidateID, &a.JobID, &state, &a.AppliedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		a.State = types.LifecycleState(state)
		a.AppliedAt = a.AppliedAt.UTC()
		a.UpdatedAt = a.UpdatedAt.UTC()
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}
	return apps, nil
}

// RevealEvents implements lifecycle.Store.
func (s *LifecycleStore) RevealEvents(ctx context.Context, filter types.RevealEventFilter) ([]types.RevealEvent, error) {
	query, args := revealEventsQuery(filter)
	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reveal events: %w", err)
	}
	defer rows.Close()

	events := make([]types.RevealEvent, 0)
	for rows.Next() {
		var e types.RevealEvent
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.JobID, &e.RecruiterID, &e.Timestamp, &e.PrevHash, &e.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan reveal event: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reveal events: %w", err)
	}
	return events, nil
}

// revealEventsQuery builds the filtered audit query in append order.
func revealEventsQuery(filter types.RevealEventFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("candidate_id", filter.CandidateID)
	add("job_id", filter.JobID)
	add("recruiter_id", filter.RecruiterID)

	query := `SELECT id, candidate_id, job_id, recruiter_id, occurred_at, prev_hash, hash FROM reveal_events`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	return query + " ORDER BY seq", args
}
