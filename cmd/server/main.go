package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/learning-hub/internal/config"
	"github.com/iliyamo/learning-hub/internal/database"
	"github.com/iliyamo/learning-hub/internal/handler"
	"github.com/iliyamo/learning-hub/internal/logger"
	"github.com/iliyamo/learning-hub/internal/metrics"
	"github.com/iliyamo/learning-hub/internal/middleware"
	"github.com/iliyamo/learning-hub/internal/model"
	"github.com/iliyamo/learning-hub/internal/queue"
	"github.com/iliyamo/learning-hub/internal/registry"
	"github.com/iliyamo/learning-hub/internal/repository"
	"github.com/iliyamo/learning-hub/internal/router"
	"github.com/iliyamo/learning-hub/internal/snapshot"
)

func main() {
	if err := run(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotEnv()
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []registry.Option
	opts = append(opts, registry.WithLogger(logger.Default()))
	if cfg.OpenCourseCreation {
		opts = append(opts, registry.WithOpenCourseCreation())
	}

	qcfg := config.LoadQueueConfig()
	if qcfg.Enabled {
		pub := queue.NewPublisher(qcfg.URL, qcfg.Queue, qcfg.Buffer)
		opts = append(opts, registry.WithEventSink(pub))

		// The publisher outlives ctx so events from requests still in
		// flight during shutdown are delivered.
		pubCtx, pubCancel := context.WithCancel(context.Background())
		pubDone := make(chan struct{})
		go func() {
			defer close(pubDone)
			pub.Run(pubCtx)
		}()
		defer func() {
			pubCancel()
			<-pubDone
		}()

		consumer := queue.NewAuditConsumer(qcfg.URL, qcfg.Queue, qcfg.AuditLogPath)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("audit consumer stopped", "error", err)
			}
		}()
	}

	reg := registry.New(opts...)
	checks := map[string]handler.Check{}

	scfg := config.LoadSnapshotConfig()
	var worker *snapshot.Worker
	if scfg.Enabled {
		db, err := database.Open(ctx, scfg)
		if err != nil {
			return err
		}
		defer db.Close()
		checks["mysql"] = db.PingContext

		repo := repository.NewSnapshotRepo(db)
		if err := restore(ctx, repo, reg); err != nil {
			return err
		}
		worker = snapshot.NewWorker(reg, repo, scfg.Interval, scfg.Keep, logger.Default())
	}

	admins := make([]model.Identity, 0, len(cfg.AdminIdentities))
	for _, id := range cfg.AdminIdentities {
		admins = append(admins, model.Identity(id))
	}
	reg.BootstrapAdmins(ctx, admins)

	guards := router.Guards{JWTSecret: cfg.JWTSecret}
	rdb, err := config.NewRedisClient(config.LoadRedisConfig())
	if err != nil {
		logger.Warn("redis unavailable; caching and rate limiting disabled", "error", err)
	} else {
		defer rdb.Close()
		cacheCfg := config.LoadCacheConfig()
		guards.Cache = middleware.NewRedisCache(cacheCfg, rdb)
		guards.Invalidate = middleware.InvalidateOnWrite(cacheCfg, rdb)
		guards.RateLimit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	router.RegisterRoutes(e, checks)
	router.RegisterRegistry(e, handler.NewRegistryHandler(reg, nil), guards)

	workerDone := make(chan struct{})
	if worker != nil {
		go func() {
			defer close(workerDone)
			worker.Run(ctx)
		}()
	} else {
		close(workerDone)
	}

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	<-workerDone
	return nil
}

// restore loads the latest snapshot into reg.  An empty table is a fresh
// start, not an error.
func restore(ctx context.Context, repo *repository.SnapshotRepo, reg *registry.Service) error {
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	st, err := repo.Latest(ctx)
	switch {
	case errors.Is(err, repository.ErrNoSnapshot):
		logger.Info("no snapshot found; starting empty")
		return nil
	case err != nil:
		return err
	}
	reg.Restore(st)
	logger.Info("registry restored", "taken_at", st.TakenAt, "users", len(st.Users), "courses", len(st.Courses))
	return nil
}

