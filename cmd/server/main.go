package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"ballotaccess/internal/access/store"
	"ballotaccess/internal/platform/config"
	"ballotaccess/internal/platform/httpserver"
	"ballotaccess/internal/platform/logger"
	"ballotaccess/internal/platform/metrics"
	redisclient "ballotaccess/internal/platform/redis"
	httptransport "ballotaccess/internal/transport/http"
	"ballotaccess/internal/verification"
	"ballotaccess/internal/verification/handler"
)

// main wires the access store, the verification service and the HTTP
// router, then serves until interrupted.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)

	sqlStore, err := store.NewSQLStore(cfg.Store.SQLConfig(), store.WithMetrics(m))
	if err != nil {
		return err
	}
	defer sqlStore.Close()

	var reader store.Reader = sqlStore
	cache, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
		reader = store.NewCachedStore(sqlStore, cache, cfg.Redis.CacheTTL, log, m)
		log.Info("access lookup cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	// A missing data file is reported per request, so startup only warns.
	if err := sqlStore.Ping(ctx); err != nil {
		log.Warn("access store not reachable at startup", "driver", cfg.Store.Driver, "error", err)
	}

	svc := verification.New(reader,
		verification.WithLogger(log),
		verification.WithMetrics(m),
		verification.WithLookupTimeout(cfg.Store.LookupTimeout),
	)
	router := httptransport.NewRouter(prometheus.DefaultGatherer, handler.New(svc, reader, log))
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting ballot access service", "addr", cfg.Addr, "driver", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
