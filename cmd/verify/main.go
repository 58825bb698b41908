// Command verify checks a single passport against the access store and
// prints the outcome as JSON.
//
// Usage:
//
//	verify "1234 567890"
//
// Exit codes: 0 granted, 1 denied or not found, 2 invalid input,
// 3 store unavailable.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"ballotaccess/internal/access/store"
	"ballotaccess/internal/platform/config"
	"ballotaccess/internal/platform/logger"
	"ballotaccess/internal/verification"
	"ballotaccess/internal/verification/handler"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: verify <passport series and number>")
		return 2
	}

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	st, err := store.NewSQLStore(cfg.Store.SQLConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}
	defer st.Close()

	svc := verification.New(st,
		verification.WithLogger(log),
		verification.WithLookupTimeout(cfg.Store.LookupTimeout),
	)
	outcome := svc.Verify(ctx, strings.Join(args, " "))

	_ = json.NewEncoder(os.Stdout).Encode(handler.FromOutcome(outcome))
	return exitCode(outcome)
}

func exitCode(o verification.Outcome) int {
	switch o.Status {
	case verification.StatusAccessGranted:
		return 0
	case verification.StatusInvalidInput:
		return 2
	case verification.StatusStoreUnavailable:
		return 3
	default:
		return 1
	}
}
