package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RecordRepo struct {
	pool *pgxpool.Pool
}

type RecordRecord struct {
	ID        int64
	SessionID int64
	Exercise  string
}

func NewRecordRepo(pool *pgxpool.Pool) *RecordRepo {
	return &RecordRepo{pool: pool}
}

func (r *RecordRepo) Insert(ctx context.Context, tx pgx.Tx, sessionID int64, exercise string) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}
	if sessionID <= 0 || strings.TrimSpace(exercise) == "" {
		return 0, fmt.Errorf("invalid record payload")
	}

	var id int64
	err := tx.QueryRow(ctx, `
INSERT INTO records (session_id, exercise, created_at)
VALUES ($1, $2, NOW())
RETURNING id
`, sessionID, exercise).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	return id, nil
}

func (r *RecordRepo) ListBySession(ctx context.Context, sessionID int64) ([]RecordRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if sessionID <= 0 {
		return nil, fmt.Errorf("invalid session id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, session_id, exercise
FROM records
WHERE session_id = $1
ORDER BY id
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []RecordRecord
	for rows.Next() {
		var record RecordRecord
		if err := rows.Scan(&record.ID, &record.SessionID, &record.Exercise); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record rows: %w", err)
	}

	return records, nil
}

func (r *RecordRepo) Delete(ctx context.Context, tx pgx.Tx, recordID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if recordID <= 0 {
		return fmt.Errorf("invalid record id")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM records WHERE id = $1`, recordID); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	return nil
}
