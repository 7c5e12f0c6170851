package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/motivatchi/backend/api/handler"
	"github.com/motivatchi/backend/internal/config"
	"github.com/motivatchi/backend/internal/infrastructure/monitor"
	"github.com/motivatchi/backend/internal/infrastructure/outbox"
	pgInfra "github.com/motivatchi/backend/internal/infrastructure/postgres"
	redisInfra "github.com/motivatchi/backend/internal/infrastructure/redis"
	"github.com/motivatchi/backend/internal/middleware"
	"github.com/motivatchi/backend/internal/router"
	"github.com/motivatchi/backend/internal/services"
	"github.com/motivatchi/backend/internal/services/lifecycle"
	"github.com/motivatchi/backend/pkg/httpcontext"
	"github.com/motivatchi/backend/pkg/logger"
	"github.com/motivatchi/backend/repository/postgres"
	redisRepo "github.com/motivatchi/backend/repository/redis"
	authUC "github.com/motivatchi/backend/usecase/auth"
	challengeUC "github.com/motivatchi/backend/usecase/challenge"
	eventUC "github.com/motivatchi/backend/usecase/event"
	petUC "github.com/motivatchi/backend/usecase/pet"
	profileUC "github.com/motivatchi/backend/usecase/profile"
	socialUC "github.com/motivatchi/backend/usecase/social"
	taskUC "github.com/motivatchi/backend/usecase/task"
	"github.com/motivatchi/backend/usecase/team"
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

	outboxStore, err := outbox.Open(cfg.Outbox.Path, "notifications")
	if err != nil {
		zapLogger.Fatal("failed to open notification outbox", zap.Error(err))
	}
	manager.Register("outbox", func(ctx context.Context) error {
		return outboxStore.Close()
	})

	mon := monitor.New(pool, redisClient, outboxStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	accountRepo := postgres.NewAccountRepository(pool)
	followRepo := postgres.NewFollowRepository(pool)
	petRepo := postgres.NewPetRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	challengeRepo := postgres.NewChallengeRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)

	dispatcher := services.NewNotificationDispatcher(
		outboxStore,
		mon,
		notificationRepo,
		zapLogger,
		services.DispatcherConfig{
			Interval:   cfg.Outbox.DrainInterval,
			BatchSize:  cfg.Outbox.BatchSize,
			MaxRetries: cfg.Outbox.MaxRetry,
		},
	)
	dispatcher.Start()
	manager.Register("notification_dispatcher", func(ctx context.Context) error {
		dispatcher.Stop(ctx)
		return nil
	})

	teamResolver := team.NewResolver(followRepo)

	authUseCase := authUC.New(accountRepo, petRepo, sessionRepo, cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL, zapLogger)
	profileUseCase := profileUC.New(accountRepo, petRepo, zapLogger)
	socialUseCase := socialUC.New(accountRepo, followRepo, notificationRepo, dispatcher, zapLogger)
	petUseCase := petUC.New(accountRepo, petRepo, followRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, accountRepo, petRepo, zapLogger)
	challengeUseCase := challengeUC.New(challengeRepo, taskRepo, accountRepo, teamResolver, dispatcher, zapLogger)
	eventUseCase := eventUC.New(eventRepo, taskRepo, accountRepo, dispatcher, zapLogger)

	sweeper := services.NewEventSweeper(eventUseCase, cfg.Events.SweepInterval, zapLogger)
	sweeper.Start()
	manager.Register("event_sweeper", func(ctx context.Context) error {
		sweeper.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile:   apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Pet:       apiHandler.NewPetHandler(petUseCase, ctxAdapter, zapLogger),
		Social:    apiHandler.NewSocialHandler(socialUseCase, ctxAdapter, zapLogger),
		Task:      apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Challenge: apiHandler.NewChallengeHandler(challengeUseCase, ctxAdapter, zapLogger),
		Event:     apiHandler.NewEventHandler(eventUseCase, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.SessionAuth(authUseCase, zapLogger)
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
