package main

import (
	"context"
	"fmt"
	"os"

	logginginfra "github.com/fluxionhq/fluxion/internal/infrastructure/logging"
	"github.com/fluxionhq/fluxion/internal/ports"
	"github.com/fluxionhq/fluxion/internal/statestore"
)

func main() {
	appLogger, err := logginginfra.New(logginginfra.Options{
		Level:     "info",
		Component: "cli",
		Layer:     "infrastructure",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application logger: %v\n", err)
		os.Exit(1)
	}

	correlationID := logginginfra.GenerateCorrelationID()
	ctx := logginginfra.WithCorrelationID(context.Background(), correlationID)

	store, err := openStore(ctx, appLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open state store: %v\n", err)
		os.Exit(1)
	}

	app := &AppContext{
		Logger: appLogger,
		Store:  store,
	}

	rootCmd := newRootCmd(app)
	appLogger.Info(ctx, "starting fluxion command", "pid", os.Getpid())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore opens the Postgres-backed statestore.Store named by
// FLUXION_STATE_DSN, falling back to an in-memory store when unset. A
// persistent store is what lets a later "fluxion run" inspect a run
// recorded by an earlier process.
func openStore(ctx context.Context, log ports.Logger) (statestore.Store, error) {
	dsn := os.Getenv("FLUXION_STATE_DSN")
	if dsn == "" {
		return statestore.NewMemoryStore(), nil
	}

	store, err := statestore.OpenPostgresStore(ctx, dsn)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "using postgres state store")
	return store, nil
}
