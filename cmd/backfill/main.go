// Command backfill creates a wallet for every profile that does not have
// one yet. It is safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"sehub/internal/config"
	"sehub/internal/db"
	"sehub/internal/deposit"
	"sehub/internal/logger"
	"sehub/internal/wallet"
)

func main() {
	workers := flag.Int("workers", 0, "parallel wallet creations (default BACKFILL_WORKERS)")
	migrate := flag.Bool("migrate", false, "apply migrations before running")
	flag.Parse()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *workers <= 0 {
		*workers = cfg.BackfillWorkers
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *migrate {
		if err := db.RunMigrations(database, "migrations"); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := wallet.NewService(
		wallet.NewDirectory(database, deposit.NewGenerator(cfg.DepositCodeLength)),
		wallet.NewLedger(database),
		nil,
		*workers,
	)

	created, err := svc.CreateWalletsForExistingProfiles(ctx)
	if err != nil {
		logger.Error("Backfill stopped", "created", created, "error", err)
		os.Exit(1)
	}
	logger.Info("Backfill complete", "created", created, "workers", *workers)
}
