package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SetRecordRepo struct {
	pool *pgxpool.Pool
}

type SetRecordRecord struct {
	ID       int64
	RecordID int64
	Weight   float64
	Count    int
}

func NewSetRecordRepo(pool *pgxpool.Pool) *SetRecordRepo {
	return &SetRecordRepo{pool: pool}
}

func (r *SetRecordRepo) Insert(ctx context.Context, tx pgx.Tx, recordID int64, weight float64, count int) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}
	if recordID <= 0 || count <= 0 {
		return 0, fmt.Errorf("invalid set record payload")
	}

	var id int64
	err := tx.QueryRow(ctx, `
INSERT INTO set_records (record_id, weight, count, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id
`, recordID, weight, count).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert set record: %w", err)
	}

	return id, nil
}

func (r *SetRecordRepo) ListByRecord(ctx context.Context, recordID int64) ([]SetRecordRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if recordID <= 0 {
		return nil, fmt.Errorf("invalid record id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, record_id, weight, count
FROM set_records
WHERE record_id = $1
ORDER BY id
`, recordID)
	if err != nil {
		return nil, fmt.Errorf("list set records: %w", err)
	}
	defer rows.Close()

	var sets []SetRecordRecord
	for rows.Next() {
		var set SetRecordRecord
		if err := rows.Scan(&set.ID, &set.RecordID, &set.Weight, &set.Count); err != nil {
			return nil, fmt.Errorf("scan set record row: %w", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate set record rows: %w", err)
	}

	return sets, nil
}

func (r *SetRecordRepo) DeleteByRecord(ctx context.Context, tx pgx.Tx, recordID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if recordID <= 0 {
		return fmt.Errorf("invalid record id")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM set_records WHERE record_id = $1`, recordID); err != nil {
		return fmt.Errorf("delete set records: %w", err)
	}

	return nil
}
