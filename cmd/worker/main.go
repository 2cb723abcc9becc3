package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundforge/crowdfund-backend/config"
	"github.com/fundforge/crowdfund-backend/internal/bootstrap"
	"github.com/fundforge/crowdfund-backend/internal/reconcile"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer db.Close()

	rec := reconcile.New(db.SQL, log)

	// Audit once on startup so drift never waits for the first tick.
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	repaired, err := rec.Run(runCtx)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("initial reconciliation failed")
	} else {
		log.Info().Int("repaired", repaired).Msg("initial reconciliation finished")
	}

	sched := reconcile.NewScheduler(rec, os.Getenv("RECONCILE_CRON"), log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")
	sched.Stop()
}
