package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sehub/internal/config"
	"sehub/internal/db"
	"sehub/internal/deposit"
	"sehub/internal/logger"
	"sehub/internal/notify"
	"sehub/internal/payment"
	"sehub/internal/reconcile"
	"sehub/internal/server"
	"sehub/internal/user"
	"sehub/internal/wallet"

	"github.com/redis/go-redis/v9"
)

// @title SEHUB Wallet API
// @version 1.0
// @description Wallet deposits reconciled from bank transfer notifications.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting SEHUB wallet service")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	providerTZ, err := cfg.ProviderLocation()
	if err != nil {
		logger.Fatalf("Invalid provider time zone: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	queue := notify.NewQueue(rdb, notify.NewSMTPSender(notify.SMTPConfig{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
	}))
	defer queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.Start(ctx)

	directory := wallet.NewDirectory(database, deposit.NewGenerator(cfg.DepositCodeLength))
	ledger := wallet.NewLedger(database)
	descriptors := payment.NewBuilder(payment.Config{
		BaseURL:     cfg.QRBaseURL,
		Template:    cfg.QRTemplate,
		BankID:      cfg.BankID,
		AccountNo:   cfg.BankAccountNo,
		AccountName: cfg.BankAccountName,
	})
	walletService := wallet.NewService(directory, ledger, descriptors, cfg.BackfillWorkers)

	users := user.NewRepository(database)
	userService := user.NewService(users, walletService, cfg.JWTSecret)

	notifier := notify.NewNotifier(queue, users, cfg.OpsEmail)
	processor := reconcile.NewProcessor(directory, ledger, notifier)

	srv := server.New(cfg, server.Handlers{
		Users:    user.NewHandler(userService),
		Wallets:  wallet.NewHandler(walletService),
		Webhooks: reconcile.NewHandler(processor, providerTZ),
	}, server.HealthChecks{
		Database: database.PingContext,
		Redis: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received signal", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("Server error", "error", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during server shutdown", "error", err)
	}
	cancel()

	logger.Info("Server stopped")
}
