// Package verification answers whether a passport holder has been granted
// access to the ballot: normalize the raw input, derive the fingerprint,
// look it up once and classify the result.
package verification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ballotaccess/internal/access"
	"ballotaccess/internal/access/store"
	"ballotaccess/internal/passport"
	"ballotaccess/internal/platform/metrics"
	"ballotaccess/pkg/platform/sentinel"
	"ballotaccess/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/store-mocks.go -package=mocks AccessStore

// DefaultLookupTimeout bounds a single store lookup.
const DefaultLookupTimeout = 3 * time.Second

var tracer = otel.Tracer("ballotaccess/internal/verification")

// AccessStore is the read-only lookup the service depends on.
type AccessStore interface {
	Lookup(ctx context.Context, fp passport.Fingerprint) (*access.Record, error)
}

// Service runs the verification pipeline. It keeps no per-request state and
// is safe for concurrent use.
type Service struct {
	store         AccessStore
	lookupTimeout time.Duration
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLookupTimeout overrides DefaultLookupTimeout. Non-positive values are ignored.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lookupTimeout = d
		}
	}
}

// New constructs a Service.
func New(st AccessStore, opts ...Option) *Service {
	s := &Service{
		store:         st,
		lookupTimeout: DefaultLookupTimeout,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify classifies raw input into an Outcome. It never returns an error and
// never lets a panic escape: every failure becomes an invalid_input or
// store_unavailable outcome.
func (s *Service) Verify(ctx context.Context, raw string) (outcome Outcome) {
	ctx, span := tracer.Start(ctx, "verification.Verify")
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			outcome = storeUnavailable(ReasonInternal, fmt.Errorf("verification panic: %v", r))
		}
		elapsed := time.Since(start)
		s.metrics.IncrementOutcome(string(outcome.Status), string(outcome.Reason))
		s.metrics.ObserveVerifyLatency(elapsed)
		span.SetAttributes(
			attribute.String("verification.status", string(outcome.Status)),
			attribute.String("verification.reason", string(outcome.Reason)),
		)
		span.End()
		s.logOutcome(ctx, outcome, elapsed)
	}()

	id, err := passport.Normalize(raw)
	if err != nil {
		return invalidInput(inputReason(err))
	}

	fp := passport.Derive(id)

	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	record, err := s.store.Lookup(lookupCtx, fp)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return notFound()
		}
		return storeUnavailable(storeReason(err), err)
	}
	if record == nil {
		return storeUnavailable(ReasonCorruptRecord, errors.New("store returned neither a record nor an error"))
	}
	if record.AccessGranted {
		return granted()
	}
	return denied()
}

func inputReason(err error) Reason {
	if errors.Is(err, passport.ErrMissingInput) {
		return ReasonMissingInput
	}
	return ReasonWrongFormat
}

// storeReason maps store failures to reason codes; the order matters since
// ErrResourceNotFound also wraps sentinel.ErrUnavailable.
func storeReason(err error) Reason {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, store.ErrResourceNotFound):
		return ReasonResourceNotFound
	case errors.Is(err, store.ErrCorruptRecord):
		return ReasonCorruptRecord
	case errors.Is(err, sentinel.ErrUnavailable):
		return ReasonConnectionFailed
	default:
		return ReasonInternal
	}
}

func (s *Service) logOutcome(ctx context.Context, outcome Outcome, elapsed time.Duration) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"status", outcome.Status,
		"reason", outcome.Reason,
		"duration_ms", elapsed.Milliseconds(),
	}
	if outcome.Status == StatusStoreUnavailable {
		s.logger.ErrorContext(ctx, "access store unavailable", append(attrs, "error", outcome.Detail)...)
		return
	}
	s.logger.InfoContext(ctx, "verification completed", attrs...)
}
