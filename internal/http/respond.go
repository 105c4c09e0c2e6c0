package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, apiResponse{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiResponse{Success: false, Error: msg})
}

// writeFieldErrors reports per-field validation failures. The field map
// rides in Data so clients can attach messages to inputs.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, apiResponse{
		Success: false,
		Error:   "validation failed",
		Data:    fields,
	})
}

func parseBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
