package handlers

import (
	"net/http"

	"github.com/jagaldol/my-fitness-server/internal/transport/http/envelope"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Get(w http.ResponseWriter, _ *http.Request) {
	envelope.Success(w, map[string]string{"status": "ok"})
}
