package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ballotaccess/internal/verification"
	"ballotaccess/pkg/platform/httputil"
	"ballotaccess/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/verification-mocks.go -package=mocks Service,Pinger

const maxBodyBytes = 4 << 10

// Service defines the verification operation the handler exposes.
type Service interface {
	Verify(ctx context.Context, raw string) verification.Outcome
}

// Pinger reports store reachability for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service Service
	store   Pinger
	logger  *slog.Logger
}

// New constructs a verification handler.
func New(service Service, store Pinger, logger *slog.Logger) *Handler {
	return &Handler{service: service, store: store, logger: logger}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/verifications", h.HandleVerify)
	r.Get("/healthz", h.HandleHealth)
}

// HandleVerify handles POST /v1/verifications.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req VerifyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "malformed verification request",
			"request_id", requestcontext.RequestID(ctx),
			"client_ip", requestcontext.ClientIP(ctx),
			"error", err,
		)
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "body must be a JSON object with a passport field")
		return
	}

	outcome := h.service.Verify(ctx, req.Passport)
	httputil.WriteJSON(w, httpStatus(outcome), FromOutcome(outcome))
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.store.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "health check failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
