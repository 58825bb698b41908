// Package httputil holds the JSON response helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body written for non-2xx responses.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an error body. The description is omitted for 5xx
// statuses so internal details never reach the caller.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	resp := ErrorResponse{Error: code}
	if status < http.StatusInternalServerError {
		resp.ErrorDescription = description
	}
	WriteJSON(w, status, resp)
}
