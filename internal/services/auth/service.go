package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	pgrepo "github.com/jagaldol/my-fitness-server/internal/repo/postgres"
)

type UserStore interface {
	FindByLoginID(ctx context.Context, loginID string) (pgrepo.UserRecord, error)
}

type RefreshTokenStore interface {
	Create(ctx context.Context, record pgrepo.RefreshTokenRecord) error
	Rotate(ctx context.Context, userID int64, oldToken, newToken, clientIP string, expiresAt time.Time) error
	Delete(ctx context.Context, userID int64, token string) error
}

type LoginLimiter interface {
	AllowLogin(ctx context.Context, clientIP string) (bool, error)
}

// Service orchestrates credential checks and the issue/rotate/revoke
// lifecycle of token pairs.
type Service struct {
	tokens       *TokenManager
	users        UserStore
	refreshStore RefreshTokenStore
	limiter      LoginLimiter
}

func NewService(tokens *TokenManager, users UserStore, refreshStore RefreshTokenStore) *Service {
	return &Service{
		tokens:       tokens,
		users:        users,
		refreshStore: refreshStore,
	}
}

// AttachLoginLimiter enables per-IP login throttling. A limiter error
// does not block the login: credentials are the real gate.
func (s *Service) AttachLoginLimiter(limiter LoginLimiter) {
	s.limiter = limiter
}

func (s *Service) Login(ctx context.Context, loginID, password, clientIP string) (TokenPair, error) {
	if strings.TrimSpace(loginID) == "" || password == "" {
		return TokenPair{}, ErrInvalidInput
	}

	if s.limiter != nil {
		ok, err := s.limiter.AllowLogin(ctx, clientIP)
		if err == nil && !ok {
			return TokenPair{}, ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			// same answer as a wrong password, so login ids
			// cannot be enumerated
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("find user by login id: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.refreshStore.Create(ctx, pgrepo.RefreshTokenRecord{
		UserID:    user.ID,
		Token:     pair.RefreshToken,
		ClientIP:  clientIP,
		ExpiresAt: pair.RefreshExpiresAt,
	}); err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}

	return pair, nil
}

// Reissue rotates a refresh token: the stored row for the presented
// token is replaced by the new one in a single statement, so of two
// concurrent calls with the same token at most one can succeed. A
// verified token with no stored row means it was already rotated or
// revoked, a possible theft signal.
func (s *Service) Reissue(ctx context.Context, refreshToken, clientIP string) (TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, ErrInvalidToken
	}

	claims, err := s.tokens.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	pair, err := s.issuePair(claims.UserID)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.refreshStore.Rotate(ctx, claims.UserID, refreshToken, pair.RefreshToken, clientIP, pair.RefreshExpiresAt); err != nil {
		if errors.Is(err, pgrepo.ErrRefreshTokenNotFound) {
			return TokenPair{}, ErrTokenNotRecognized
		}
		return TokenPair{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	return pair, nil
}

// Logout drops the stored refresh token if present. A token that is
// already gone is not an error: the caller's goal state is reached
// either way.
func (s *Service) Logout(ctx context.Context, userID int64, refreshToken string) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	if err := s.refreshStore.Delete(ctx, userID, refreshToken); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (s *Service) VerifyAccessToken(raw string) (TokenClaims, error) {
	return s.tokens.Verify(raw, TokenTypeAccess)
}

func (s *Service) issuePair(userID int64) (TokenPair, error) {
	accessToken, accessExpires, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, refreshExpires, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpires,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpires,
	}, nil
}
