package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pgrepo "github.com/jagaldol/my-fitness-server/internal/repo/postgres"
	authsvc "github.com/jagaldol/my-fitness-server/internal/services/auth"
	userssvc "github.com/jagaldol/my-fitness-server/internal/services/users"
	"github.com/jagaldol/my-fitness-server/internal/transport/http/handlers"
)

type memUserStore struct {
	users map[int64]pgrepo.UserRecord
}

func (m *memUserStore) FindByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	user, ok := m.users[userID]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserStore) UpdateProfile(_ context.Context, userID int64, patch pgrepo.UserPatch) error {
	user, ok := m.users[userID]
	if !ok {
		return pgrepo.ErrUserNotFound
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Password != nil {
		user.Password = *patch.Password
	}
	if patch.Height != nil {
		user.Height = patch.Height
	}
	if patch.Weight != nil {
		user.Weight = patch.Weight
	}
	m.users[userID] = user
	return nil
}

func newUserHandlerForTest() (*handlers.UserHandler, *memUserStore) {
	height := 180.3
	store := &memUserStore{users: map[int64]pgrepo.UserRecord{
		1: {ID: 1, LoginID: "jagaldol", Password: "hash", Name: "test", Height: &height},
	}}
	return handlers.NewUserHandler(userssvc.NewService(store)), store
}

func asUser(req *http.Request, userID int64) *http.Request {
	return req.WithContext(authsvc.WithPrincipal(req.Context(), authsvc.Principal{UserID: userID}))
}

func TestGetMine(t *testing.T) {
	handler, _ := newUserHandlerForTest()

	req := asUser(httptest.NewRequest(http.MethodGet, "/users/mine", nil), 1)
	rr := httptest.NewRecorder()
	handler.GetMine(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d body %s", rr.Code, rr.Body.String())
	}

	var payload struct {
		Response struct {
			LoginID string   `json:"loginId"`
			Name    string   `json:"name"`
			Height  *float64 `json:"height"`
			Weight  *float64 `json:"weight"`
		} `json:"response"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Response.LoginID != "jagaldol" || payload.Response.Name != "test" {
		t.Fatalf("unexpected profile: %s", rr.Body.String())
	}
	if payload.Response.Height == nil || *payload.Response.Height != 180.3 {
		t.Fatalf("height missing: %s", rr.Body.String())
	}
	if payload.Response.Weight != nil {
		t.Fatalf("weight should be null: %s", rr.Body.String())
	}
}

func TestGetMineRequiresPrincipal(t *testing.T) {
	handler, _ := newUserHandlerForTest()

	rr := httptest.NewRecorder()
	handler.GetMine(rr, httptest.NewRequest(http.MethodGet, "/users/mine", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestUpdateMineAppliesPatch(t *testing.T) {
	handler, store := newUserHandlerForTest()

	req := asUser(httptest.NewRequest(http.MethodPut, "/users/mine", strings.NewReader(`{"weight":75.5}`)), 1)
	rr := httptest.NewRecorder()
	handler.UpdateMine(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d body %s", rr.Code, rr.Body.String())
	}
	user := store.users[1]
	if user.Weight == nil || *user.Weight != 75.5 {
		t.Fatalf("weight not applied: %+v", user.Weight)
	}
	if user.Name != "test" {
		t.Fatalf("untouched field changed: %+v", user)
	}
}

func TestUpdateMineRejectsUnknownFields(t *testing.T) {
	handler, _ := newUserHandlerForTest()

	req := asUser(httptest.NewRequest(http.MethodPut, "/users/mine", strings.NewReader(`{"loginId":"other"}`)), 1)
	rr := httptest.NewRecorder()
	handler.UpdateMine(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}
