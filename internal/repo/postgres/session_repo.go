package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepo struct {
	pool *pgxpool.Pool
}

type SessionRecord struct {
	ID        int64
	UserID    int64
	Date      time.Time
	StartTime *string
	EndTime   *string
}

// SessionPatch carries only the fields to change; nil means untouched.
type SessionPatch struct {
	Date      *time.Time
	StartTime *string
	EndTime   *string
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Insert(ctx context.Context, tx pgx.Tx, userID int64, date time.Time, startTime, endTime *string) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid session payload")
	}

	var id int64
	err := tx.QueryRow(ctx, `
INSERT INTO sessions (user_id, date, start_time, end_time, created_at)
VALUES ($1, $2, $3, $4, NOW())
RETURNING id
`, userID, date, startTime, endTime).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}

	return id, nil
}

func (r *SessionRepo) Find(ctx context.Context, sessionID int64) (SessionRecord, error) {
	if r.pool == nil {
		return SessionRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if sessionID <= 0 {
		return SessionRecord{}, fmt.Errorf("invalid session id")
	}

	var session SessionRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, date, start_time, end_time
FROM sessions
WHERE id = $1
`, sessionID).Scan(&session.ID, &session.UserID, &session.Date, &session.StartTime, &session.EndTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionRecord{}, ErrSessionNotFound
		}
		return SessionRecord{}, fmt.Errorf("find session: %w", err)
	}

	return session, nil
}

// ListByUser returns one page of the user's sessions, newest first:
// date descending, then start_time descending. A non-nil date
// restricts the page to that exact day.
func (r *SessionRepo) ListByUser(ctx context.Context, userID int64, limit, offset int, date *time.Time) ([]SessionRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, date, start_time, end_time
FROM sessions
WHERE user_id = $1
  AND ($2::date IS NULL OR date = $2)
ORDER BY date DESC, start_time DESC NULLS LAST
LIMIT $3 OFFSET $4
`, userID, date, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]SessionRecord, 0, limit)
	for rows.Next() {
		var session SessionRecord
		if err := rows.Scan(&session.ID, &session.UserID, &session.Date, &session.StartTime, &session.EndTime); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepo) DistinctDates(ctx context.Context, userID int64, from, to time.Time) ([]time.Time, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT DISTINCT date
FROM sessions
WHERE user_id = $1 AND date BETWEEN $2 AND $3
ORDER BY date
`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list distinct session dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan session date: %w", err)
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session dates: %w", err)
	}

	return dates, nil
}

func (r *SessionRepo) Update(ctx context.Context, tx pgx.Tx, sessionID int64, patch SessionPatch) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if sessionID <= 0 {
		return fmt.Errorf("invalid session id")
	}

	tag, err := tx.Exec(ctx, `
UPDATE sessions
SET date       = COALESCE($2, date),
	start_time = COALESCE($3, start_time),
	end_time   = COALESCE($4, end_time)
WHERE id = $1
`, sessionID, patch.Date, patch.StartTime, patch.EndTime)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, tx pgx.Tx, sessionID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if sessionID <= 0 {
		return fmt.Errorf("invalid session id")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
