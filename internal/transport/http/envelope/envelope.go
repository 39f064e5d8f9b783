package envelope

import (
	"encoding/json"
	"net/http"
)

// Response is the uniform wrapper for every API reply: exactly one of
// Response and Error is set.
type Response struct {
	Success  bool          `json:"success"`
	Response any           `json:"response"`
	Error    *ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func Success(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Response{
		Success:  true,
		Response: data,
	})
}

func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Response{
		Success: false,
		Error: &ErrorPayload{
			Message: message,
			Status:  status,
		},
	})
}

func write(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
