package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// HTTPError is the envelope for transport-level failures (401/404/500).
type HTTPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondObject wraps a single serialized entity in the object envelope.
func RespondObject(w http.ResponseWriter, data map[string]any) {
	RespondJSON(w, map[string]any{"object": data}, http.StatusOK)
}

// RespondObjects wraps a serialized collection in the objects envelope.
func RespondObjects(w http.ResponseWriter, data []map[string]any) {
	RespondJSON(w, map[string]any{"objects": data}, http.StatusOK)
}

// RespondErrors sends a field-level validation error mapping with 422.
func RespondErrors(w http.ResponseWriter, errors map[string][]string) {
	RespondJSON(w, map[string]any{"errors": errors}, http.StatusUnprocessableEntity)
}

// RespondHTTPError sends the generic transport error envelope for the
// given status code. The message is the standard status text; internal
// detail never reaches the client.
func RespondHTTPError(w http.ResponseWriter, statusCode int) {
	RespondJSON(w, HTTPError{Code: statusCode, Message: http.StatusText(statusCode)}, statusCode)
}
