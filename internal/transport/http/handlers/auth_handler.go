package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	authsvc "github.com/jagaldol/my-fitness-server/internal/services/auth"
	"github.com/jagaldol/my-fitness-server/internal/transport/http/dto"
	"github.com/jagaldol/my-fitness-server/internal/transport/http/envelope"
)

const (
	// AccessTokenHeader carries the access token both ways: the
	// client sends it here and login/reissue answer through it.
	AccessTokenHeader = "Authorization"

	// RefreshTokenCookie is the http-only cookie holding the
	// refresh token.
	RefreshTokenCookie = "refreshToken"
)

type AuthHandler struct {
	service *authsvc.Service
}

func NewAuthHandler(service *authsvc.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.LoginID) == "" || req.Password == "" {
		writeBadRequest(w, "loginId and password are required")
		return
	}

	pair, err := h.service.Login(r.Context(), req.LoginID, req.Password, clientIP(r))
	if err != nil {
		handleAuthError(w, err)
		return
	}

	writeTokenPair(w, pair)
	envelope.Success(w, nil)
}

func (h *AuthHandler) Reissue(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		writeBadRequest(w, "refresh token cookie is required")
		return
	}

	pair, err := h.service.Reissue(r.Context(), cookie.Value, clientIP(r))
	if err != nil {
		handleAuthError(w, err)
		return
	}

	writeTokenPair(w, pair)
	envelope.Success(w, nil)
}

// Logout always clears the cookie and answers success: a refresh
// token that is already gone leaves the caller in the same state.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	refreshToken := ""
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}

	if err := h.service.Logout(r.Context(), principal.UserID, refreshToken); err != nil {
		handleAuthError(w, err)
		return
	}

	clearRefreshTokenCookie(w)
	envelope.Success(w, nil)
}

func writeTokenPair(w http.ResponseWriter, pair authsvc.TokenPair) {
	w.Header().Set(AccessTokenHeader, "Bearer "+pair.AccessToken)
	setRefreshTokenCookie(w, pair.RefreshToken, pair.RefreshExpiresAt)
}

func setRefreshTokenCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearRefreshTokenCookie(w http.ResponseWriter) {
	// MaxAge < 0 serializes as Max-Age=0, which deletes the cookie
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidInput):
		writeBadRequest(w, "request validation failed")
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		envelope.Error(w, http.StatusUnauthorized, "invalid login id or password")
	case errors.Is(err, authsvc.ErrExpiredToken):
		envelope.Error(w, http.StatusUnauthorized, "expired token")
	case errors.Is(err, authsvc.ErrWrongTokenType), errors.Is(err, authsvc.ErrInvalidToken):
		envelope.Error(w, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, authsvc.ErrTokenNotRecognized):
		envelope.Error(w, http.StatusUnauthorized, "refresh token not recognized")
	case errors.Is(err, authsvc.ErrTooManyAttempts):
		envelope.Error(w, http.StatusTooManyRequests, "too many login attempts")
	default:
		writeInternal(w)
	}
}
