package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"nasu-match/internal/database"
	"nasu-match/internal/domain/lead"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgNumericValueOutOfRange = "22003"

var (
	ErrCounterNotFound    = errors.New("store counter not found")
	ErrMatchEventNotFound = errors.New("match event not found")
)

type LeadCounterRepository interface {
	// Increment adds inc to the store's totals, creating the counter on first
	// use, and appends inc.Event. It returns the totals after the write.
	Increment(ctx context.Context, inc lead.Increment) (lead.Counter, error)
	FindByStoreID(ctx context.Context, storeID string) (lead.Counter, error)
	ListEvents(ctx context.Context, storeID string, limit int) ([]lead.MatchEvent, error)
	MarkApproached(ctx context.Context, storeID string, eventID uuid.UUID) error
}

type PostgresLeadCounterRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresLeadCounterRepository(db database.DB) *PostgresLeadCounterRepository {
	return &PostgresLeadCounterRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

const upsertCounterSQL = `INSERT INTO store_match_counters (store_id, total_actual_matches, total_potential_matches, created_at, updated_at)
 VALUES ($1, $2, $3, $4, $4)
 ON CONFLICT (store_id) DO UPDATE SET
	total_actual_matches = store_match_counters.total_actual_matches + EXCLUDED.total_actual_matches,
	total_potential_matches = store_match_counters.total_potential_matches + EXCLUDED.total_potential_matches,
	updated_at = EXCLUDED.updated_at
 RETURNING store_id, total_actual_matches, total_potential_matches, created_at, updated_at`

const insertEventSQL = `INSERT INTO store_match_events (id, store_id, user_id, match_score, is_approached, matched_at)
 VALUES ($1, $2, $3, $4, $5, $6)`

// Increment relies on the row lock taken by the upsert to serialize
// concurrent writers for the same store.
func (r *PostgresLeadCounterRepository) Increment(ctx context.Context, inc lead.Increment) (lead.Counter, error) {
	now := r.now()
	ev := inc.Event
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.MatchedAt.IsZero() {
		ev.MatchedAt = now
	}

	var out lead.Counter
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		row := tx.QueryRow(ctx, upsertCounterSQL, inc.StoreID, inc.Actual, inc.Potential, now)
		if err := row.Scan(&out.StoreID, &out.TotalActualMatches, &out.TotalPotentialMatches, &out.CreatedAt, &out.UpdatedAt); err != nil {
			return err
		}

		if strings.TrimSpace(ev.UserID) == "" {
			return nil
		}
		_, err := tx.Exec(ctx, insertEventSQL, ev.ID, inc.StoreID, ev.UserID, ev.MatchScore, ev.IsApproached, ev.MatchedAt)
		return err
	})
	if err != nil {
		if isOutOfRange(err) {
			return lead.Counter{}, lead.ErrCounterOverflow
		}
		return lead.Counter{}, err
	}
	return out, nil
}

func (r *PostgresLeadCounterRepository) FindByStoreID(ctx context.Context, storeID string) (lead.Counter, error) {
	row := r.db.QueryRow(ctx,
		`SELECT store_id, total_actual_matches, total_potential_matches, created_at, updated_at
		 FROM store_match_counters
		 WHERE store_id = $1`,
		storeID,
	)

	var c lead.Counter
	if err := row.Scan(&c.StoreID, &c.TotalActualMatches, &c.TotalPotentialMatches, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isNoRows(err) {
			return lead.Counter{}, ErrCounterNotFound
		}
		return lead.Counter{}, err
	}
	return c, nil
}

func (r *PostgresLeadCounterRepository) ListEvents(ctx context.Context, storeID string, limit int) ([]lead.MatchEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, store_id, user_id, match_score, is_approached, matched_at
		 FROM store_match_events
		 WHERE store_id = $1
		 ORDER BY matched_at DESC, id
		 LIMIT $2`,
		storeID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]lead.MatchEvent, 0)
	for rows.Next() {
		var ev lead.MatchEvent
		if err := rows.Scan(&ev.ID, &ev.StoreID, &ev.UserID, &ev.MatchScore, &ev.IsApproached, &ev.MatchedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresLeadCounterRepository) MarkApproached(ctx context.Context, storeID string, eventID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`UPDATE store_match_events SET is_approached = true WHERE id = $1 AND store_id = $2`,
		eventID, storeID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMatchEventNotFound
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func isOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgNumericValueOutOfRange
}
