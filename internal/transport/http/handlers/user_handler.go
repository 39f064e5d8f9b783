package handlers

import (
	"errors"
	"net/http"

	userssvc "github.com/jagaldol/my-fitness-server/internal/services/users"
	"github.com/jagaldol/my-fitness-server/internal/transport/http/dto"
	"github.com/jagaldol/my-fitness-server/internal/transport/http/envelope"
)

type UserHandler struct {
	service *userssvc.Service
}

func NewUserHandler(service *userssvc.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), principal.UserID)
	if err != nil {
		handleUserError(w, err)
		return
	}

	envelope.Success(w, dto.MyInfoResponse{
		ID:      profile.ID,
		LoginID: profile.LoginID,
		Name:    profile.Name,
		Height:  profile.Height,
		Weight:  profile.Weight,
	})
}

func (h *UserHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req dto.UpdateMyInfoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	err := h.service.UpdateProfile(r.Context(), principal.UserID, userssvc.ProfilePatch{
		Name:     req.Name,
		Password: req.Password,
		Height:   req.Height,
		Weight:   req.Weight,
	})
	if err != nil {
		handleUserError(w, err)
		return
	}

	envelope.Success(w, nil)
}

func handleUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userssvc.ErrValidation):
		writeBadRequest(w, "request validation failed")
	case errors.Is(err, userssvc.ErrNotFound):
		envelope.Error(w, http.StatusNotFound, "user not found")
	default:
		writeInternal(w)
	}
}
