package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumenlearn/progression-backend/internal/data/db"
	"github.com/lumenlearn/progression-backend/internal/jobs/reconcile"
	"github.com/lumenlearn/progression-backend/internal/observability"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
	"github.com/lumenlearn/progression-backend/internal/temporalx"

	dataagg "github.com/lumenlearn/progression-backend/internal/data/aggregates"
	progressrepo "github.com/lumenlearn/progression-backend/internal/data/repos/progress"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	observability.Init(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	theDB := pg.DB()

	tc, err := temporalx.NewClient(log)
	if err != nil {
		log.Error("Temporal init failed", "error", err)
		os.Exit(1)
	}
	if tc == nil {
		log.Info("TEMPORAL_ADDRESS not set; worker has nothing to do")
		return
	}
	defer tc.Close()

	activities := &reconcile.Activities{
		Log:      log,
		Runner:   dataagg.NewGormTxRunner(theDB),
		Progress: progressrepo.NewUserProgressRepo(theDB, log),
		Totals:   progressrepo.NewUserXPTotalRepo(theDB, log),
	}

	runner, err := reconcile.NewRunner(log, tc, activities)
	if err != nil {
		log.Error("Worker init failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Reconcile worker starting")
	if err := runner.Start(ctx); err != nil {
		log.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("Reconcile worker stopped")
}
