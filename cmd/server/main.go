package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	grouphandler "guesense/internal/group/handler"
	groupservice "guesense/internal/group/service"
	groupstore "guesense/internal/group/store/group"
	merchanthandler "guesense/internal/merchant/handler"
	merchantservice "guesense/internal/merchant/service"
	"guesense/internal/merchant/store/catalog"
	"guesense/internal/merchant/store/registry"
	"guesense/internal/platform/config"
	"guesense/internal/platform/httpserver"
	"guesense/internal/platform/logger"
	"guesense/internal/platform/metrics"
	"guesense/internal/platform/middleware"
	"guesense/internal/platform/postgres"
	platformredis "guesense/internal/platform/redis"
	httptransport "guesense/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.Database)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// The catalog DSN may point at a read replica, never at a different
	// database: catalog queries join the registry tables.
	catalogURL := cfg.Catalog.URL
	if catalogURL == "" {
		catalogURL = cfg.Database.URL
	}
	poolCfg, err := pgxpool.ParseConfig(catalogURL)
	if err != nil {
		log.Error("invalid catalog DSN", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.Catalog.MaxConns
	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Error("catalog connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.New()

	var catalogReader catalog.Reader = catalog.NewPostgres(pool)
	if redisClient != nil {
		catalogReader = catalog.NewCached(catalogReader, redisClient.Client, config.CatalogCacheTTL, log)
	}

	registryStore := registry.NewPostgres(db)
	groupStore := groupstore.NewPostgres(db)

	registrySvc := merchantservice.New(registryStore, catalogReader,
		merchantservice.WithLogger(log),
		merchantservice.WithMetrics(m),
	)
	groupSvc := groupservice.New(groupStore, registryStore,
		groupservice.WithLogger(log),
		groupservice.WithMetrics(m),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Merchants: merchanthandler.New(registrySvc, log),
		Groups:    grouphandler.New(groupSvc, log),
		Verifier:  middleware.NewTokenVerifier(cfg.JWTSigningKey),
		Logger:    log,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting merchant gateway", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
