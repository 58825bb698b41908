package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ballotaccess/internal/access/store"
)

// Server captures process level configuration.
type Server struct {
	Addr     string
	LogLevel string
	Store    Store
	Redis    Redis
}

// Store locates the access record store.
type Store struct {
	Driver        string
	Path          string
	DSN           string
	Table         string
	MaxOpenConns  int
	LookupTimeout time.Duration
}

// Redis configures the optional lookup cache. An empty URL disables it.
type Redis struct {
	URL         string
	CacheTTL    time.Duration
	DialTimeout time.Duration
}

// Enabled reports whether a cache URL was configured.
func (r Redis) Enabled() bool {
	return r.URL != ""
}

// SQLConfig converts the store settings for store.NewSQLStore.
func (s Store) SQLConfig() store.SQLConfig {
	return store.SQLConfig{
		Driver:       store.Driver(s.Driver),
		Path:         s.Path,
		DSN:          s.DSN,
		Table:        s.Table,
		MaxOpenConns: s.MaxOpenConns,
	}
}

// FromEnv builds the configuration from environment variables so main stays lean.
// Unparseable numbers and durations fall back to their defaults; Validate
// catches inconsistent combinations.
func FromEnv() Server {
	return Server{
		Addr:     getEnv("BALLOT_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Store: Store{
			Driver:        getEnv("STORE_DRIVER", string(store.DriverSQLite)),
			Path:          getEnv("STORE_PATH", DefaultDataFile()),
			DSN:           os.Getenv("STORE_DSN"),
			Table:         getEnv("STORE_TABLE", store.DefaultTable),
			MaxOpenConns:  getInt("STORE_MAX_OPEN_CONNS", 10),
			LookupTimeout: getDuration("LOOKUP_TIMEOUT", 3*time.Second),
		},
		Redis: Redis{
			URL:         os.Getenv("REDIS_URL"),
			CacheTTL:    getDuration("REDIS_CACHE_TTL", time.Minute),
			DialTimeout: getDuration("REDIS_DIAL_TIMEOUT", 2*time.Second),
		},
	}
}

// Validate rejects settings that cannot produce a working store.
func (c Server) Validate() error {
	var errs []error
	switch store.Driver(c.Store.Driver) {
	case store.DriverSQLite:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("STORE_PATH is required for the sqlite driver"))
		}
	case store.DriverPostgres:
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("STORE_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of sqlite, postgres", c.Store.Driver))
	}
	if !store.ValidTableName(c.Store.Table) {
		errs = append(errs, fmt.Errorf("STORE_TABLE %q is not a plain identifier", c.Store.Table))
	}
	if c.Store.LookupTimeout <= 0 {
		errs = append(errs, errors.New("LOOKUP_TIMEOUT must be positive"))
	}
	if c.Redis.Enabled() && c.Redis.CacheTTL <= 0 {
		errs = append(errs, errors.New("REDIS_CACHE_TTL must be positive when REDIS_URL is set"))
	}
	return errors.Join(errs...)
}

// DefaultDataFile is db.sqlite next to the running binary, or in the working
// directory when the executable path cannot be resolved.
func DefaultDataFile() string {
	exe, err := os.Executable()
	if err != nil {
		return "db.sqlite"
	}
	return filepath.Join(filepath.Dir(exe), "db.sqlite")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
