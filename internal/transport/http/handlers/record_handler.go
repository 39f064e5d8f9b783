package handlers

import (
	"net/http"
	"strings"

	workoutsvc "github.com/jagaldol/my-fitness-server/internal/services/workout"
	"github.com/jagaldol/my-fitness-server/internal/transport/http/dto"
	"github.com/jagaldol/my-fitness-server/internal/transport/http/envelope"
)

type RecordHandler struct {
	service *workoutsvc.Service
}

func NewRecordHandler(service *workoutsvc.Service) *RecordHandler {
	return &RecordHandler{service: service}
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req dto.CreateRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Exercise) == "" {
		writeBadRequest(w, "exercise is required")
		return
	}

	sets := make([]workoutsvc.SetInput, 0, len(req.SetRecords))
	for _, set := range req.SetRecords {
		sets = append(sets, workoutsvc.SetInput{
			Weight: set.Weight,
			Count:  set.Count,
		})
	}

	recordID, err := h.service.CreateRecord(r.Context(), principal.UserID, sessionID, workoutsvc.CreateRecordInput{
		Exercise: req.Exercise,
		Sets:     sets,
	})
	if err != nil {
		handleWorkoutError(w, err)
		return
	}

	envelope.Success(w, dto.CreateResponse{ID: recordID})
}
