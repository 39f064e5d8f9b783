package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

type RefreshTokenRepo struct {
	pool *pgxpool.Pool
}

// RefreshTokenRecord is one live refresh token. A user may hold
// several rows at once, one per device.
type RefreshTokenRecord struct {
	UserID    int64
	Token     string
	ClientIP  string
	ExpiresAt time.Time
}

func NewRefreshTokenRepo(pool *pgxpool.Pool) *RefreshTokenRepo {
	return &RefreshTokenRepo{pool: pool}
}

func (r *RefreshTokenRepo) Create(ctx context.Context, record RefreshTokenRecord) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if record.UserID <= 0 || strings.TrimSpace(record.Token) == "" {
		return fmt.Errorf("invalid refresh token record")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO refresh_tokens (user_id, token, client_ip, expires_at, created_at)
VALUES ($1, $2, $3, $4, NOW())
`, record.UserID, record.Token, record.ClientIP, record.ExpiresAt); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}

	return nil
}

// Rotate replaces the stored token in a single UPDATE keyed by the
// old value. Zero affected rows means the token was never stored or
// was already consumed; with two concurrent calls only one UPDATE can
// match, which is what serializes rotation.
func (r *RefreshTokenRepo) Rotate(ctx context.Context, userID int64, oldToken, newToken, clientIP string, expiresAt time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || strings.TrimSpace(oldToken) == "" || strings.TrimSpace(newToken) == "" {
		return fmt.Errorf("invalid rotation payload")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE refresh_tokens
SET token = $3, client_ip = $4, expires_at = $5
WHERE user_id = $1 AND token = $2
`, userID, oldToken, newToken, clientIP, expiresAt)
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRefreshTokenNotFound
	}

	return nil
}

func (r *RefreshTokenRepo) Delete(ctx context.Context, userID int64, token string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || strings.TrimSpace(token) == "" {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
DELETE FROM refresh_tokens
WHERE user_id = $1 AND token = $2
`, userID, token); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	return nil
}

func (r *RefreshTokenRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
DELETE FROM refresh_tokens
WHERE expires_at < $1
`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}

	return tag.RowsAffected(), nil
}
