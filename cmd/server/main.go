package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartflow/internal/cart"
	"github.com/nikolayk812/cartflow/internal/catalog"
	"github.com/nikolayk812/cartflow/internal/domain"
	"github.com/nikolayk812/cartflow/internal/httpapi"
	"github.com/nikolayk812/cartflow/internal/repository"
	"github.com/nikolayk812/cartflow/internal/session"
	"github.com/nikolayk812/cartflow/internal/submit"
	"github.com/nikolayk812/cartflow/pkg/config"
	"github.com/nikolayk812/cartflow/pkg/logger"
	"github.com/nikolayk812/cartflow/pkg/shutdown"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Service: "cartflow",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("pgxpool.New failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	catalogRepo, err := repository.NewCatalog(pool)
	if err != nil {
		log.Error("repository.NewCatalog failed", "error", err)
		os.Exit(1)
	}

	orderRepo, err := repository.NewOrder(pool)
	if err != nil {
		log.Error("repository.NewOrder failed", "error", err)
		os.Exit(1)
	}

	loader := catalog.NewLoader(catalogRepo, log)
	store := cart.NewStore()
	submitter := submit.NewSubmitter(store, orderRepo,
		session.Static{Identity: domain.Identity{ID: cfg.UserID, Name: cfg.UserName}},
		log,
		submit.WithNoticeTTL(cfg.NoticeTTL))

	loader.Load(ctx)

	api := httpapi.NewServer(loader, store, submitter)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Router,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("listening", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
