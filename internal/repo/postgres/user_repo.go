package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	ID       int64
	LoginID  string
	Password string
	Name     string
	Height   *float64
	Weight   *float64
}

// UserPatch carries only the fields to change; nil means untouched.
type UserPatch struct {
	Name     *string
	Password *string
	Height   *float64
	Weight   *float64
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) FindByID(ctx context.Context, userID int64) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, login_id, password, name, height, weight
FROM users
WHERE id = $1
`, userID).Scan(&user.ID, &user.LoginID, &user.Password, &user.Name, &user.Height, &user.Weight)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("find user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepo) FindByLoginID(ctx context.Context, loginID string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(loginID) == "" {
		return UserRecord{}, fmt.Errorf("invalid login id")
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, login_id, password, name, height, weight
FROM users
WHERE login_id = $1
`, loginID).Scan(&user.ID, &user.LoginID, &user.Password, &user.Name, &user.Height, &user.Weight)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("find user by login id: %w", err)
	}

	return user, nil
}

func (r *UserRepo) Exists(ctx context.Context, userID int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return false, nil
	}

	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM users WHERE id = $1`, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return true, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID int64, patch UserPatch) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET name       = COALESCE($2, name),
	password   = COALESCE($3, password),
	height     = COALESCE($4, height),
	weight     = COALESCE($5, weight),
	updated_at = NOW()
WHERE id = $1
`, userID, patch.Name, patch.Password, patch.Height, patch.Weight)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
