package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	authsvc "github.com/jagaldol/my-fitness-server/internal/services/auth"
)

func newAuthServiceForTest() (*authsvc.Service, *authsvc.TokenManager) {
	tokens := authsvc.NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	return authsvc.NewService(tokens, nil, nil), tokens
}

func TestAuthMiddlewareAttachesPrincipal(t *testing.T) {
	svc, tokens := newAuthServiceForTest()
	mw := AuthMiddleware(svc, zap.NewNop())

	raw, _, err := tokens.IssueAccessToken(42)
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/mine", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := authsvc.PrincipalFromContext(r.Context())
		if !ok {
			t.Fatalf("principal missing in context")
		}
		if principal.UserID != 42 {
			t.Fatalf("unexpected principal user id: %d", principal.UserID)
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestAuthMiddlewarePassesAnonymousWithoutHeader(t *testing.T) {
	svc, _ := newAuthServiceForTest()
	mw := AuthMiddleware(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authsvc.PrincipalFromContext(r.Context()); ok {
			t.Fatalf("anonymous request must not carry a principal")
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestAuthMiddlewarePassesAnonymousOnBadToken(t *testing.T) {
	svc, tokens := newAuthServiceForTest()
	mw := AuthMiddleware(svc, zap.NewNop())

	refresh, _, err := tokens.IssueRefreshToken(42)
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	for name, header := range map[string]string{
		"garbage":       "Bearer not-a-token",
		"wrong scheme":  "Basic dXNlcjpwdw==",
		"refresh token": "Bearer " + refresh,
	} {
		req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()

		called := false
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			if _, ok := authsvc.PrincipalFromContext(r.Context()); ok {
				t.Fatalf("%s: principal attached for unusable token", name)
			}
			w.WriteHeader(http.StatusNoContent)
		})).ServeHTTP(rr, req)

		if !called {
			t.Fatalf("%s: request did not reach the handler", name)
		}
	}
}

func TestExtractBearerToken(t *testing.T) {
	if token, ok := extractBearerToken("Bearer abc.def.ghi"); !ok || token != "abc.def.ghi" {
		t.Fatalf("well-formed header rejected: %q %v", token, ok)
	}
	if token, ok := extractBearerToken("bearer abc"); !ok || token != "abc" {
		t.Fatalf("scheme must be case-insensitive: %q %v", token, ok)
	}
	for _, header := range []string{"", "Bearer", "Bearer ", "Token abc"} {
		if _, ok := extractBearerToken(header); ok {
			t.Fatalf("malformed header accepted: %q", header)
		}
	}
}
