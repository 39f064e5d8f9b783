package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	pgrepo "github.com/jagaldol/my-fitness-server/internal/repo/postgres"
	authsvc "github.com/jagaldol/my-fitness-server/internal/services/auth"
	workoutsvc "github.com/jagaldol/my-fitness-server/internal/services/workout"
	"github.com/jagaldol/my-fitness-server/internal/transport/http/handlers"
)

type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Run(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	return fn(ctx, nil)
}

type fakeExistsStore struct{}

func (fakeExistsStore) Exists(_ context.Context, userID int64) (bool, error) {
	return userID == 1 || userID == 2, nil
}

type memSessionStore struct {
	sessions map[int64]pgrepo.SessionRecord
	nextID   int64
}

func (m *memSessionStore) Insert(_ context.Context, _ pgx.Tx, userID int64, date time.Time, startTime, endTime *string) (int64, error) {
	id := m.nextID
	m.nextID++
	m.sessions[id] = pgrepo.SessionRecord{ID: id, UserID: userID, Date: date, StartTime: startTime, EndTime: endTime}
	return id, nil
}

func (m *memSessionStore) Find(_ context.Context, sessionID int64) (pgrepo.SessionRecord, error) {
	session, ok := m.sessions[sessionID]
	if !ok {
		return pgrepo.SessionRecord{}, pgrepo.ErrSessionNotFound
	}
	return session, nil
}

func (m *memSessionStore) ListByUser(_ context.Context, userID int64, limit, offset int, date *time.Time) ([]pgrepo.SessionRecord, error) {
	var out []pgrepo.SessionRecord
	for id := int64(1); id < m.nextID; id++ {
		session, ok := m.sessions[id]
		if !ok || session.UserID != userID {
			continue
		}
		if date != nil && !session.Date.Equal(*date) {
			continue
		}
		out = append(out, session)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memSessionStore) DistinctDates(_ context.Context, userID int64, from, to time.Time) ([]time.Time, error) {
	seen := map[time.Time]bool{}
	var out []time.Time
	for _, session := range m.sessions {
		if session.UserID == userID && !session.Date.Before(from) && !session.Date.After(to) && !seen[session.Date] {
			seen[session.Date] = true
			out = append(out, session.Date)
		}
	}
	return out, nil
}

func (m *memSessionStore) Update(_ context.Context, _ pgx.Tx, sessionID int64, patch pgrepo.SessionPatch) error {
	session, ok := m.sessions[sessionID]
	if !ok {
		return pgrepo.ErrSessionNotFound
	}
	if patch.Date != nil {
		session.Date = *patch.Date
	}
	if patch.StartTime != nil {
		session.StartTime = patch.StartTime
	}
	if patch.EndTime != nil {
		session.EndTime = patch.EndTime
	}
	m.sessions[sessionID] = session
	return nil
}

func (m *memSessionStore) Delete(_ context.Context, _ pgx.Tx, sessionID int64) error {
	delete(m.sessions, sessionID)
	return nil
}

type memRecordStore struct {
	records map[int64]pgrepo.RecordRecord
	nextID  int64
}

func (m *memRecordStore) Insert(_ context.Context, _ pgx.Tx, sessionID int64, exercise string) (int64, error) {
	id := m.nextID
	m.nextID++
	m.records[id] = pgrepo.RecordRecord{ID: id, SessionID: sessionID, Exercise: exercise}
	return id, nil
}

func (m *memRecordStore) ListBySession(_ context.Context, sessionID int64) ([]pgrepo.RecordRecord, error) {
	var out []pgrepo.RecordRecord
	for id := int64(100); id < m.nextID; id++ {
		record, ok := m.records[id]
		if ok && record.SessionID == sessionID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (m *memRecordStore) Delete(_ context.Context, _ pgx.Tx, recordID int64) error {
	delete(m.records, recordID)
	return nil
}

type memSetRecordStore struct {
	sets   map[int64]pgrepo.SetRecordRecord
	nextID int64
}

func (m *memSetRecordStore) Insert(_ context.Context, _ pgx.Tx, recordID int64, weight float64, count int) (int64, error) {
	id := m.nextID
	m.nextID++
	m.sets[id] = pgrepo.SetRecordRecord{ID: id, RecordID: recordID, Weight: weight, Count: count}
	return id, nil
}

func (m *memSetRecordStore) ListByRecord(_ context.Context, recordID int64) ([]pgrepo.SetRecordRecord, error) {
	var out []pgrepo.SetRecordRecord
	for id := int64(1000); id < m.nextID; id++ {
		set, ok := m.sets[id]
		if ok && set.RecordID == recordID {
			out = append(out, set)
		}
	}
	return out, nil
}

func (m *memSetRecordStore) DeleteByRecord(_ context.Context, _ pgx.Tx, recordID int64) error {
	for id, set := range m.sets {
		if set.RecordID == recordID {
			delete(m.sets, id)
		}
	}
	return nil
}

func newSessionRouterForTest(t *testing.T) http.Handler {
	t.Helper()

	svc := workoutsvc.NewService(workoutsvc.Dependencies{
		UnitOfWork: fakeUnitOfWork{},
		Users:      fakeExistsStore{},
		Sessions:   &memSessionStore{sessions: map[int64]pgrepo.SessionRecord{}, nextID: 1},
		Records:    &memRecordStore{records: map[int64]pgrepo.RecordRecord{}, nextID: 100},
		SetRecords: &memSetRecordStore{sets: map[int64]pgrepo.SetRecordRecord{}, nextID: 1000},
	})
	sessionHandler := handlers.NewSessionHandler(svc)
	recordHandler := handlers.NewRecordHandler(svc)

	r := chi.NewRouter()
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessionHandler.Create)
		r.Get("/", sessionHandler.List)
		r.Get("/dates", sessionHandler.Dates)
		r.Get("/{sessionId}", sessionHandler.Get)
		r.Put("/{sessionId}", sessionHandler.Update)
		r.Delete("/{sessionId}", sessionHandler.Delete)
		r.Post("/{sessionId}/records", recordHandler.Create)
	})
	return r
}

func doAs(t *testing.T, router http.Handler, userID int64, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(authsvc.WithPrincipal(req.Context(), authsvc.Principal{UserID: userID}))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	router := newSessionRouterForTest(t)

	created := doAs(t, router, 1, http.MethodPost, "/sessions", `{"date":"2024-03-15","startTime":"10:00:00"}`)
	if created.Code != http.StatusOK {
		t.Fatalf("create session: got %d body %s", created.Code, created.Body.String())
	}

	var createPayload struct {
		Success  bool `json:"success"`
		Response struct {
			ID int64 `json:"id"`
		} `json:"response"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &createPayload); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if !createPayload.Success || createPayload.Response.ID == 0 {
		t.Fatalf("unexpected create payload: %s", created.Body.String())
	}

	record := doAs(t, router, 1, http.MethodPost, "/sessions/1/records", `{"exercise":"bench press","setRecords":[{"weight":60,"count":10}]}`)
	if record.Code != http.StatusOK {
		t.Fatalf("create record: got %d body %s", record.Code, record.Body.String())
	}

	fetched := doAs(t, router, 1, http.MethodGet, "/sessions/1", "")
	if fetched.Code != http.StatusOK {
		t.Fatalf("get session: got %d body %s", fetched.Code, fetched.Body.String())
	}
	var getPayload struct {
		Response struct {
			Date    string `json:"date"`
			Records []struct {
				Exercise   string `json:"exercise"`
				SetRecords []struct {
					Weight float64 `json:"weight"`
					Count  int     `json:"count"`
				} `json:"setRecords"`
			} `json:"records"`
		} `json:"response"`
	}
	if err := json.Unmarshal(fetched.Body.Bytes(), &getPayload); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if getPayload.Response.Date != "2024-03-15" {
		t.Fatalf("unexpected date: %q", getPayload.Response.Date)
	}
	if len(getPayload.Response.Records) != 1 || getPayload.Response.Records[0].Exercise != "bench press" {
		t.Fatalf("records not returned: %s", fetched.Body.String())
	}
	if len(getPayload.Response.Records[0].SetRecords) != 1 || getPayload.Response.Records[0].SetRecords[0].Weight != 60 {
		t.Fatalf("set records not returned: %s", fetched.Body.String())
	}

	deleted := doAs(t, router, 1, http.MethodDelete, "/sessions/1", "")
	if deleted.Code != http.StatusOK {
		t.Fatalf("delete session: got %d", deleted.Code)
	}
	missing := doAs(t, router, 1, http.MethodGet, "/sessions/1", "")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("deleted session still served: got %d", missing.Code)
	}
}

func TestSessionEndpointsRequireAuthentication(t *testing.T) {
	router := newSessionRouterForTest(t)

	for _, target := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/sessions"},
		{http.MethodGet, "/sessions"},
		{http.MethodGet, "/sessions/dates"},
		{http.MethodGet, "/sessions/1"},
	} {
		rr := doAs(t, router, 0, target.method, target.path, "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without principal: got %d want %d", target.method, target.path, rr.Code, http.StatusUnauthorized)
		}
	}
}

func TestSessionOwnershipEnforcedOverHTTP(t *testing.T) {
	router := newSessionRouterForTest(t)

	created := doAs(t, router, 1, http.MethodPost, "/sessions", `{"date":"2024-03-15"}`)
	if created.Code != http.StatusOK {
		t.Fatalf("create session: got %d", created.Code)
	}

	foreign := doAs(t, router, 2, http.MethodGet, "/sessions/1", "")
	if foreign.Code != http.StatusForbidden {
		t.Fatalf("foreign get: got %d want %d", foreign.Code, http.StatusForbidden)
	}
	foreignDelete := doAs(t, router, 2, http.MethodDelete, "/sessions/1", "")
	if foreignDelete.Code != http.StatusForbidden {
		t.Fatalf("foreign delete: got %d want %d", foreignDelete.Code, http.StatusForbidden)
	}
}

func TestSessionValidationOverHTTP(t *testing.T) {
	router := newSessionRouterForTest(t)

	badDate := doAs(t, router, 1, http.MethodPost, "/sessions", `{"date":"2024-13-01"}`)
	if badDate.Code != http.StatusBadRequest {
		t.Fatalf("bad date: got %d want %d", badDate.Code, http.StatusBadRequest)
	}

	badClock := doAs(t, router, 1, http.MethodPost, "/sessions", `{"date":"2024-03-15","startTime":"25:00"}`)
	if badClock.Code != http.StatusBadRequest {
		t.Fatalf("bad clock: got %d want %d", badClock.Code, http.StatusBadRequest)
	}

	badID := doAs(t, router, 1, http.MethodGet, "/sessions/abc", "")
	if badID.Code != http.StatusBadRequest {
		t.Fatalf("bad session id: got %d want %d", badID.Code, http.StatusBadRequest)
	}

	badPage := doAs(t, router, 1, http.MethodGet, "/sessions?page=0", "")
	if badPage.Code != http.StatusBadRequest {
		t.Fatalf("bad page: got %d want %d", badPage.Code, http.StatusBadRequest)
	}
}

func TestSessionDatesOverHTTP(t *testing.T) {
	router := newSessionRouterForTest(t)

	for _, body := range []string{`{"date":"2024-03-15"}`, `{"date":"2024-02-01"}`, `{"date":"2024-05-01"}`} {
		if rr := doAs(t, router, 1, http.MethodPost, "/sessions", body); rr.Code != http.StatusOK {
			t.Fatalf("create session %s: got %d", body, rr.Code)
		}
	}

	rr := doAs(t, router, 1, http.MethodGet, "/sessions/dates?month=2024-03", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get dates: got %d body %s", rr.Code, rr.Body.String())
	}

	var payload struct {
		Response struct {
			Dates []string `json:"dates"`
		} `json:"response"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode dates response: %v", err)
	}
	if len(payload.Response.Dates) != 2 {
		t.Fatalf("window filter wrong: %v", payload.Response.Dates)
	}
	for _, date := range payload.Response.Dates {
		if date == "2024-05-01" {
			t.Fatalf("date outside window returned: %v", payload.Response.Dates)
		}
	}
}
