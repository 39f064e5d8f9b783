package auth

import (
	"errors"
	"time"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrWrongTokenType     = errors.New("wrong token type")
	ErrTokenNotRecognized = errors.New("refresh token not recognized")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// TokenClaims is the verified payload of an access or refresh token.
type TokenClaims struct {
	UserID    int64
	TokenType string
	ExpiresAt time.Time
}

type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
