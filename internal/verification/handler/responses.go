package handler

import (
	"net/http"

	"ballotaccess/internal/verification"
)

// VerifyResponse reports a classified outcome. Human-readable text is left
// to the client.
type VerifyResponse struct {
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Granted bool   `json:"granted"`
}

// FromOutcome maps a verification outcome to its response body.
// Outcome.Detail is never included.
func FromOutcome(o verification.Outcome) VerifyResponse {
	return VerifyResponse{
		Status:  string(o.Status),
		Reason:  string(o.Reason),
		Granted: o.Granted(),
	}
}

// httpStatus maps outcome statuses to HTTP codes. Lookup results, including
// not_found, are successful requests.
func httpStatus(o verification.Outcome) int {
	switch o.Status {
	case verification.StatusInvalidInput:
		return http.StatusBadRequest
	case verification.StatusStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}
