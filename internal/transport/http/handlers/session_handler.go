package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	workoutsvc "github.com/jagaldol/my-fitness-server/internal/services/workout"
	"github.com/jagaldol/my-fitness-server/internal/transport/http/dto"
	"github.com/jagaldol/my-fitness-server/internal/transport/http/envelope"
)

type SessionHandler struct {
	service *workoutsvc.Service
}

func NewSessionHandler(service *workoutsvc.Service) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req dto.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	date, err := dto.ParseDate(req.Date)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := dto.ValidateClock(req.StartTime); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := dto.ValidateClock(req.EndTime); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	sessionID, err := h.service.CreateSession(r.Context(), principal.UserID, workoutsvc.CreateSessionInput{
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		handleWorkoutError(w, err)
		return
	}

	envelope.Success(w, dto.CreateResponse{ID: sessionID})
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req dto.UpdateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	patch := workoutsvc.SessionPatch{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if req.Date != nil {
		date, err := dto.ParseDate(*req.Date)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		patch.Date = &date
	}
	if err := dto.ValidateClock(req.StartTime); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := dto.ValidateClock(req.EndTime); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := h.service.UpdateSession(r.Context(), sessionID, principal.UserID, patch); err != nil {
		handleWorkoutError(w, err)
		return
	}

	envelope.Success(w, nil)
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeBadRequest(w, "invalid page")
			return
		}
		page = parsed
	}

	var date *time.Time
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := dto.ParseDate(v)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		date = &parsed
	}

	sessions, err := h.service.GetSessions(r.Context(), principal.UserID, page, date)
	if err != nil {
		handleWorkoutError(w, err)
		return
	}

	envelope.Success(w, dto.SessionsResponse{
		Sessions: sessionsToDTO(sessions),
		Page:     page,
	})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	session, err := h.service.GetSession(r.Context(), principal.UserID, sessionID)
	if err != nil {
		handleWorkoutError(w, err)
		return
	}

	envelope.Success(w, sessionToDTO(session))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteSession(r.Context(), sessionID, principal.UserID); err != nil {
		handleWorkoutError(w, err)
		return
	}

	envelope.Success(w, nil)
}

func (h *SessionHandler) Dates(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	dates, err := h.service.GetSessionDates(r.Context(), principal.UserID, r.URL.Query().Get("month"))
	if err != nil {
		handleWorkoutError(w, err)
		return
	}

	formatted := make([]string, 0, len(dates))
	for _, date := range dates {
		formatted = append(formatted, date.Format(dto.DateLayout))
	}

	envelope.Success(w, dto.SessionDatesResponse{Dates: formatted})
}

func sessionIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "sessionId")
	sessionID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || sessionID <= 0 {
		writeBadRequest(w, "invalid session id")
		return 0, false
	}
	return sessionID, true
}

func sessionsToDTO(sessions []workoutsvc.SessionDetail) []dto.SessionResponse {
	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, sessionToDTO(session))
	}
	return out
}

func sessionToDTO(session workoutsvc.SessionDetail) dto.SessionResponse {
	records := make([]dto.RecordResponse, 0, len(session.Records))
	for _, record := range session.Records {
		sets := make([]dto.SetRecordResponse, 0, len(record.Sets))
		for _, set := range record.Sets {
			sets = append(sets, dto.SetRecordResponse{
				ID:     set.ID,
				Weight: set.Weight,
				Count:  set.Count,
			})
		}
		records = append(records, dto.RecordResponse{
			ID:         record.ID,
			Exercise:   record.Exercise,
			SetRecords: sets,
		})
	}

	return dto.SessionResponse{
		ID:        session.ID,
		Date:      session.Date.Format(dto.DateLayout),
		StartTime: session.StartTime,
		EndTime:   session.EndTime,
		Records:   records,
	}
}

func handleWorkoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workoutsvc.ErrValidation):
		writeBadRequest(w, "request validation failed")
	case errors.Is(err, workoutsvc.ErrUserNotFound):
		envelope.Error(w, http.StatusNotFound, "user not found")
	case errors.Is(err, workoutsvc.ErrSessionNotFound):
		envelope.Error(w, http.StatusNotFound, "session not found")
	case errors.Is(err, workoutsvc.ErrPermissionDenied):
		envelope.Error(w, http.StatusForbidden, "permission denied")
	default:
		writeInternal(w)
	}
}
