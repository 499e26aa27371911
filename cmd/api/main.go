package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/detalhesstore/detalhes-backend/api/routes"
	"github.com/detalhesstore/detalhes-backend/internal/backend"
	"github.com/detalhesstore/detalhes-backend/internal/localcache"
	"github.com/detalhesstore/detalhes-backend/internal/store"
	"github.com/detalhesstore/detalhes-backend/pkg/auth/session"
	"github.com/detalhesstore/detalhes-backend/pkg/config"
	"github.com/detalhesstore/detalhes-backend/pkg/db"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
	"github.com/detalhesstore/detalhes-backend/pkg/metrics"
	"github.com/detalhesstore/detalhes-backend/pkg/migrate"
	"github.com/detalhesstore/detalhes-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	// The database is optional: without it the store runs offline against
	// the local snapshot cache alone.
	var dbClient *db.Client
	if cfg.DB.Configured() {
		dbClient, err = db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "database not configured, running offline")
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	cache, err := localcache.Open(cfg.Store.CachePath)
	if err != nil {
		logg.Error(context.Background(), "failed to open local cache", err)
		os.Exit(1)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logg.Error(context.Background(), "error closing local cache", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var remote backend.Repository
	if dbClient != nil {
		remote = backend.NewRepository(dbClient.DB())
	}

	st := store.New(store.Deps{
		Config:   cfg.Store,
		JWT:      cfg.JWT,
		Logger:   logg,
		Metrics:  metrics.NewPersistenceMetrics(registry),
		Remote:   remote,
		Cache:    cache,
		Sessions: sessionManager,
		Visits:   redisClient,
	})

	hydrateCtx, cancelHydrate := context.WithTimeout(context.Background(), cfg.Store.HydrateTimeout)
	st.Hydrate(hydrateCtx)
	cancelHydrate()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"status": st.Status(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbPinger(dbClient), redisClient, sessionManager, st, registry),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
		st.Flush()
	}
}

// dbPinger avoids handing the router a typed nil when no database is wired.
func dbPinger(client *db.Client) db.Pinger {
	if client == nil {
		return nil
	}
	return client
}
