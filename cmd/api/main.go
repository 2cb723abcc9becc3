package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundforge/crowdfund-backend/config"
	"github.com/fundforge/crowdfund-backend/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer db.Close()

	if err := bootstrap.Migrate(ctx, db.SQL); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	// The cache is optional: without redis every snapshot read hits Postgres.
	redisClient, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without snapshot cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "crowdfund-ledger",
		Version:     cfg.App.Version,
		Pool:        db.Pool,
		SQL:         db.SQL,
		Redis:       redisClient,
		Ledger:      cfg.Ledger,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
