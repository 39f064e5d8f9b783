package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager issues and verifies signed tokens. It is stateless:
// everything it needs lives in the claims and the server secret.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type tokenClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 28 * 24 * time.Hour
	}

	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *TokenManager) IssueAccessToken(userID int64) (string, time.Time, error) {
	return m.issue(userID, TokenTypeAccess, m.accessTTL)
}

func (m *TokenManager) IssueRefreshToken(userID int64) (string, time.Time, error) {
	return m.issue(userID, TokenTypeRefresh, m.refreshTTL)
}

func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

func (m *TokenManager) issue(userID int64, tokenType string, ttl time.Duration) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("jwt secret is empty")
	}
	if userID <= 0 {
		return "", time.Time{}, fmt.Errorf("invalid token subject")
	}

	now := m.now().UTC()
	expiresAt := now.Add(ttl)
	claims := tokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", tokenType, err)
	}

	return signed, expiresAt, nil
}

// Verify checks signature and expiry and that the type claim matches
// expectedType. Expiry and type mismatches are reported distinctly so
// callers can answer them differently.
func (m *TokenManager) Verify(raw, expectedType string) (TokenClaims, error) {
	if strings.TrimSpace(raw) == "" {
		return TokenClaims{}, ErrInvalidToken
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(func() time.Time { return m.now().UTC() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, ErrExpiredToken
		}
		return TokenClaims{}, ErrInvalidToken
	}
	if token == nil || !token.Valid {
		return TokenClaims{}, ErrInvalidToken
	}

	if claims.TokenType != expectedType {
		return TokenClaims{}, ErrWrongTokenType
	}

	userID, parseErr := strconv.ParseInt(claims.Subject, 10, 64)
	if parseErr != nil || userID <= 0 {
		return TokenClaims{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return TokenClaims{}, ErrInvalidToken
	}

	return TokenClaims{
		UserID:    userID,
		TokenType: claims.TokenType,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
