package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"messenger-lab/internal"
	"messenger-lab/observability"
	"messenger-lab/repositories"
	"messenger-lab/storage"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Messenger terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run owns the host lifecycle: it bootstraps the shared store the web
// handlers coordinate through, seeds the contact ledger, and serves the
// debug dashboard until a shutdown signal arrives. The deferred closes run
// before the process exits, releasing the store locks cleanly.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx := context.Background()

	// 2. Shared store (BadgerDB) and directory index (Bluge)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("store opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Ledger bootstrap
	// Seeding is guarded: restarting the host never wipes accumulated visits.
	store := storage.NewBadgerStore(db)
	stats := observability.NewStatsManager(logger)
	ledger := repositories.NewContactLedger(store, config.ContactsKey, stats, logger)
	if err := ledger.Initialize(); err != nil {
		return exitRuntime, fmt.Errorf("ledger bootstrap failed: %w", err)
	}

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		_ = stats.Run(ctx, config.StatsInterval)
	}()

	if config.DebugPort > 0 {
		endpoint := "/inspect"
		logger.Info("Debug store inspector available",
			"url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		internal.StartDebugServer(db, config.DebugPort, endpoint, internal.MessengerMapper, func() map[string]any {
			latest := stats.GetLatest()
			contacts, _ := ledger.Contacts()
			return map[string]any{
				"invites_sent":      latest.InvitesSent,
				"invites_delivered": latest.InvitesDelivered,
				"visits_recorded":   latest.VisitsRecorded,
				"malformed_tokens":  latest.MalformedTokens,
				"store_errors":      latest.StoreErrors,
				"contacts":          len(contacts),
				"mem_mb":            latest.AllocMemMb,
			}
		})
	}

	logger.Info("Messenger store host started", "badger", config.BadgerFilepath, "bluge", config.BlugeFilepath)

	// 5. Wait for Stop
	<-ctx.Done()
	logger.Info("Shutdown signal received")
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
