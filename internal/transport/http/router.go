package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ballotaccess/pkg/platform/middleware/requestid"
)

// Registrar mounts a module's endpoints on the router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires the shared middleware, the metrics endpoint and every
// module's routes. Handlers stay free of transport plumbing.
func NewRouter(gatherer prometheus.Gatherer, modules ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	for _, m := range modules {
		m.Register(r)
	}
	return r
}
