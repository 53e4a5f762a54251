package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/log"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel).WithComponent(log.ComponentWorker)

	logger.Info("Starting fintrack-worker")

	if !cfg.SheetsEnabled() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the worker")
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	if cfg.GoogleSheetsUserEmail == "" {
		logger.Error("GOOGLE_SHEETS_USER_EMAIL is required for the worker")
		os.Exit(1)
	}

	repo, err := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	if err != nil {
		os.Exit(1)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	user, err := repo.GetUserByEmail(startCtx, cfg.GoogleSheetsUserEmail)
	if err != nil {
		cancelStart()
		logger.Error("Failed to resolve mirrored user", log.FieldError, err, "email", cfg.GoogleSheetsUserEmail)
		os.Exit(1)
	}
	writer, err := gsheet.NewSummaryWriter(startCtx, cfg.GoogleSpreadsheetID, gsheet.Credentials{
		File: cfg.GoogleServiceAccountFile,
		JSON: cfg.GoogleServiceAccountJSON,
	})
	cancelStart()
	if err != nil {
		logger.Error("Failed to initialize Google Sheets writer", log.FieldError, err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", log.FieldError, err)
		os.Exit(1)
	}

	snapshots := worker.NewSnapshotWorker(repo, writer, user.ID, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if err := client.Close(); err != nil {
			logger.Error("Error closing AMQP client", log.FieldError, err)
		}
		if err := repo.Close(); err != nil {
			logger.Error("Error closing repository", log.FieldError, err)
		}
	})

	// Mirror once so the sheet reflects changes made while the worker was down.
	if err := snapshots.Mirror(ctx); err != nil {
		logger.Warn("Initial mirror failed", log.FieldError, err)
	}

	go func() {
		logger.Info("Consuming transaction changes",
			"exchange", cfg.AMQPExchange,
			"queue", cfg.AMQPQueue,
			log.FieldUserID, user.ID,
		)
		err := client.ConsumeTransactionChanges(ctx, snapshots.HandleTransactionChanged)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Consumer stopped", log.FieldError, err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
