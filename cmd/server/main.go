package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"dietcal/internal/audit"
	"dietcal/internal/identity"
	"dietcal/internal/identity/revocation"
	"dietcal/internal/meal"
	"dietcal/internal/objectstore"
	"dietcal/internal/platform/config"
	"dietcal/internal/platform/httpserver"
	"dietcal/internal/platform/logger"
	"dietcal/internal/platform/metrics"
	"dietcal/internal/platform/postgres"
	platformredis "dietcal/internal/platform/redis"
	"dietcal/internal/session"
	"dietcal/internal/settings"
	httptransport "dietcal/internal/transport/http"
	"dietcal/internal/vision"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dietcal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)

	// Redis backs the revocation list when configured; memory otherwise.
	// A single-process deployment loses nothing with the memory list.
	var revocations identity.RevocationList
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		revocations = revocation.NewRedis(redisClient.Client)
		log.Info("revocation list backed by redis")
	} else {
		revocations = revocation.NewMemory()
		log.Info("revocation list in memory")
	}

	tokens := identity.NewTokenService(cfg.SessionSigningKey, "dietcal", revocations)
	if err := identity.Init(tokens); err != nil {
		return fmt.Errorf("install identity provider: %w", err)
	}

	var (
		mealStore     meal.Store
		labelStore    meal.LabelStore
		settingsStore settings.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		mealStore = meal.NewPostgresStore(pool)
		labelStore = meal.NewPostgresLabelStore(pool)
		settingsStore = settings.NewPostgresStore(pool)
		log.Info("stores backed by postgres")
	} else {
		mealStore = meal.NewMemoryStore()
		labelStore = meal.NewMemoryLabelStore()
		settingsStore = settings.NewMemoryStore()
		log.Warn("DATABASE_URL not set, stores in memory")
	}

	analyzer := vision.NewClient(cfg.VisionBaseURL, cfg.VisionAPIKey, log)
	objects := objectstore.NewMemory()
	mealSvc := meal.NewService(mealStore, labelStore, objects, analyzer, log, m)

	carrier := session.Carrier{Secure: cfg.Production()}
	issuer := session.NewIssuer(identity.Default(), carrier, cfg.IdentityTimeout, log, m)
	verifier := session.NewVerifier(identity.Default(), carrier, cfg.IdentityTimeout, log, m)
	guard := session.NewGuard(verifier, carrier,
		[]string{"/dashboard", "/upload-meal", "/progress"}, "/login", "/dashboard", log, m)

	publisher := audit.NewPublisher(256, log)
	worker := audit.NewWorker(publisher.Inbox(), log)

	router := httptransport.NewRouter(httptransport.Deps{
		Issuer:   issuer,
		Verifier: verifier,
		Guard:    guard,
		Carrier:  carrier,
		Revoker:  tokens,
		Meals:    mealSvc,
		Settings: settingsStore,
		Audit:    publisher,
		Logger:   log,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting dietcal", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("audit worker: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
