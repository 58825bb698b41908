package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"ballotaccess/internal/access"
	"ballotaccess/internal/passport"
	"ballotaccess/internal/platform/metrics"
)

// Driver selects the relational backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DefaultTable is the table provisioned by the external import process.
const DefaultTable = "passports"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidTableName reports whether name is a plain SQL identifier that can be
// interpolated into the lookup query.
func ValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}

// SQLConfig locates the relational store. It is passed in explicitly so the
// store never reads process state on its own.
type SQLConfig struct {
	Driver Driver
	// Path is the SQLite data file. Used when Driver is DriverSQLite.
	Path string
	// DSN is the PostgreSQL connection string. Used when Driver is DriverPostgres.
	DSN          string
	Table        string
	MaxOpenConns int
}

// SQLStore reads access records from a relational table with columns
// (hash, access_granted).
type SQLStore struct {
	db      *sql.DB
	cfg     SQLConfig
	query   string
	metrics *metrics.Metrics
}

// SQLOption configures a SQLStore.
type SQLOption func(*SQLStore)

// WithMetrics records lookup latency.
func WithMetrics(m *metrics.Metrics) SQLOption {
	return func(s *SQLStore) {
		s.metrics = m
	}
}

// NewSQLStore validates cfg and prepares a connection pool. No connection
// is made here; a missing SQLite file surfaces on the first Lookup or Ping.
func NewSQLStore(cfg SQLConfig, opts ...SQLOption) (*SQLStore, error) {
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if !ValidTableName(cfg.Table) {
		return nil, fmt.Errorf("invalid table name %q", cfg.Table)
	}

	var (
		driverName string
		dsn        string
		query      string
	)
	switch cfg.Driver {
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, errors.New("sqlite store requires a data file path")
		}
		driverName = "sqlite"
		dsn = sqliteDSN(cfg.Path)
		query = "SELECT access_granted FROM " + cfg.Table + " WHERE hash = ? LIMIT 1"
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("postgres store requires a DSN")
		}
		driverName = "pgx"
		dsn = cfg.DSN
		query = "SELECT access_granted FROM " + cfg.Table + " WHERE hash = $1 LIMIT 1"
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, unavailable("open access store", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	s := &SQLStore{db: db, cfg: cfg, query: query}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Lookup returns the first record matching fp. Each call acquires its own
// connection from the pool and releases it before returning.
func (s *SQLStore) Lookup(ctx context.Context, fp passport.Fingerprint) (record *access.Record, err error) {
	ctx, span := tracer.Start(ctx, "store.SQLStore.Lookup",
		trace.WithAttributes(attribute.String("db.system", string(s.cfg.Driver))))
	start := time.Now()
	defer func() {
		s.metrics.ObserveLookupLatency(string(s.cfg.Driver), time.Since(start))
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "lookup failed")
		}
		span.End()
	}()

	if err := s.checkResource(); err != nil {
		return nil, err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, s.wrapErr(ctx, "acquire connection", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, s.query, fp.String())
	if err != nil {
		return nil, s.wrapErr(ctx, "query access record", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, s.wrapErr(ctx, "read access record", err)
		}
		return nil, ErrNotFound
	}

	var granted sql.NullBool
	if err := rows.Scan(&granted); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	if !granted.Valid {
		return nil, fmt.Errorf("%w: access_granted is NULL", ErrCorruptRecord)
	}

	return &access.Record{Fingerprint: fp, AccessGranted: granted.Bool}, nil
}

// Ping checks that the resource exists and a connection can be established.
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.checkResource(); err != nil {
		return err
	}
	if err := s.db.PingContext(ctx); err != nil {
		return s.wrapErr(ctx, "ping access store", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// checkResource reports a missing SQLite data file as ErrResourceNotFound.
func (s *SQLStore) checkResource() error {
	if s.cfg.Driver != DriverSQLite {
		return nil
	}
	info, err := os.Stat(s.cfg.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrResourceNotFound, s.cfg.Path)
		}
		return unavailable("stat data file", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrResourceNotFound, s.cfg.Path)
	}
	return nil
}

// sqliteDSN renders path as a read-only SQLite URI with reserved characters
// percent-encoded.
func sqliteDSN(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path), RawQuery: "mode=ro"}
	return u.String()
}

func (s *SQLStore) wrapErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	return unavailable(op, err)
}
