package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/nestly/backend/api/handler"
	"github.com/nestly/backend/internal/config"
	"github.com/nestly/backend/internal/infrastructure/buffer"
	"github.com/nestly/backend/internal/infrastructure/monitor"
	pgInfra "github.com/nestly/backend/internal/infrastructure/postgres"
	redisInfra "github.com/nestly/backend/internal/infrastructure/redis"
	"github.com/nestly/backend/internal/middleware"
	"github.com/nestly/backend/internal/router"
	"github.com/nestly/backend/internal/services"
	"github.com/nestly/backend/internal/services/lifecycle"
	"github.com/nestly/backend/pkg/httpcontext"
	"github.com/nestly/backend/pkg/logger"
	"github.com/nestly/backend/pkg/retry"
	"github.com/nestly/backend/repository/postgres"
	redisRepo "github.com/nestly/backend/repository/redis"
	authUC "github.com/nestly/backend/usecase/auth"
	profileUC "github.com/nestly/backend/usecase/profile"
	projectUC "github.com/nestly/backend/usecase/project"
	suggestUC "github.com/nestly/backend/usecase/suggest"
	taskUC "github.com/nestly/backend/usecase/task"
	viewsUC "github.com/nestly/backend/usecase/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	prefRepo := postgres.NewPreferenceRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, 24*time.Hour)
	dupeGuard := redisRepo.NewDuplicateGuard(redisClient, cfg.Engine.DuplicateWindow)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		taskRepo,
		prefRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	retryPolicy := retry.DefaultPolicy()
	if cfg.Engine.RetryAttempts > 0 {
		retryPolicy.Attempts = cfg.Engine.RetryAttempts
	}
	if cfg.Engine.RetryBaseDelay > 0 {
		retryPolicy.BaseDelay = cfg.Engine.RetryBaseDelay
	}

	authUseCase := authUC.New(userRepo, sessionRepo, zapLogger)
	profileUseCase := profileUC.New(userRepo, prefRepo, bufferBridge, zapLogger)
	taskUseCase := taskUC.New(taskRepo, dupeGuard, bufferBridge, zapLogger, taskUC.Config{
		DuplicateWindow: cfg.Engine.DuplicateWindow,
		Retry:           retryPolicy,
	})
	projectUseCase := projectUC.New(taskRepo, zapLogger, retryPolicy)
	viewsService := viewsUC.NewService(taskRepo, viewsUC.Config{
		UrgentAge:  cfg.Engine.PromiseUrgentAge,
		SlowAge:    cfg.Engine.PromiseSlowAge,
		DefaultAge: cfg.Engine.PromiseDefaultAge,
		Ceiling:    cfg.Engine.PromiseCeiling,
	}, retryPolicy, zapLogger)
	suggestEngine := suggestUC.NewEngine(suggestUC.Config{
		NoveltyWindow: cfg.Engine.NoveltyWindow,
		NeglectGap:    cfg.Engine.NeglectGap,
	}, nil)
	suggestService := suggestUC.NewService(suggestEngine, taskRepo, prefRepo, retryPolicy, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:       apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, time.Hour),
		Profile:    apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Task:       apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Project:    apiHandler.NewProjectHandler(projectUseCase, ctxAdapter, zapLogger),
		Views:      apiHandler.NewViewsHandler(viewsService, ctxAdapter, zapLogger),
		Suggest:    apiHandler.NewSuggestHandler(suggestService, ctxAdapter, zapLogger),
		Recurrence: apiHandler.NewRecurrenceHandler(ctxAdapter, zapLogger),
		Health:     apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
