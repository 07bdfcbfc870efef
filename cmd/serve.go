package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/timetracker/api/handler"
	mongoInfra "github.com/fastygo/timetracker/internal/infrastructure/mongo"
	"github.com/fastygo/timetracker/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/timetracker/internal/infrastructure/redis"
	"github.com/fastygo/timetracker/internal/lifecycle"
	"github.com/fastygo/timetracker/internal/middleware"
	"github.com/fastygo/timetracker/internal/router"
	"github.com/fastygo/timetracker/pkg/credential"
	"github.com/fastygo/timetracker/pkg/httpcontext"
	"github.com/fastygo/timetracker/repository"
	mongoRepo "github.com/fastygo/timetracker/repository/mongo"
	redisRepo "github.com/fastygo/timetracker/repository/redis"
	authUC "github.com/fastygo/timetracker/usecase/auth"
	profileUC "github.com/fastygo/timetracker/usecase/profile"
	summaryUC "github.com/fastygo/timetracker/usecase/summary"
	taskUC "github.com/fastygo/timetracker/usecase/task"
	timerUC "github.com/fastygo/timetracker/usecase/timer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, zapLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	location, err := cfg.Location()
	if err != nil {
		return err
	}

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.Listen(cmd.Context())
	defer stop()

	connectCtx, cancel := context.WithTimeout(appCtx, cfg.Mongo.ConnectTimeout+cfg.Mongo.ServerSelectionTimeout)
	mongoClient, err := mongoInfra.NewClient(connectCtx, cfg.Mongo, zapLogger)
	cancel()
	if err != nil {
		zapLogger.Error("mongodb connection failed", zap.Error(err))
		return err
	}
	manager.Register("mongodb", func(ctx context.Context) error {
		return mongoInfra.Close(ctx, mongoClient, zapLogger)
	})

	if err := mongoInfra.RunMigrations(mongoClient, cfg, zapLogger); err != nil {
		zapLogger.Error("index migrations failed, continuing without them", zap.Error(err))
	}

	checks := map[string]monitor.Check{"mongodb": monitor.MongoCheck(mongoClient)}

	var revocations repository.RevocationRepository
	redisClient, err := redisInfra.NewClient(cfg.Redis)
	switch {
	case err != nil:
		zapLogger.Error("redis connection failed", zap.Error(err))
		_ = manager.Shutdown(context.Background())
		return err
	case redisClient == nil:
		zapLogger.Warn("REDIS_URL not set, logout will not revoke issued tokens")
		revocations = redisRepo.NewNoopRevocationRepository()
	default:
		revocations = redisRepo.NewRevocationRepository(redisClient)
		checks["redis"] = monitor.RedisCheck(redisClient)
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	}

	db := mongoClient.Database(mongoInfra.DatabaseName(cfg.Mongo))
	userRepo := mongoRepo.NewUserRepository(db)
	taskRepo := mongoRepo.NewTaskRepository(db)
	timeLogRepo := mongoRepo.NewTimeLogRepository(db)

	hasher := credential.NewHasher(credential.DefaultCost)
	issuer := credential.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.Session.TTL)

	authUseCase := authUC.New(userRepo, revocations, hasher, issuer, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, zapLogger)
	timerUseCase := timerUC.New(taskRepo, timeLogRepo, zapLogger)
	summaryUseCase := summaryUC.New(taskRepo, timeLogRepo, location, zapLogger)

	mon := monitor.New(checks, cfg.Health.Interval, zapLogger)
	if err := mon.Start(); err != nil {
		zapLogger.Error("health monitor failed to start", zap.Error(err))
	} else {
		manager.Register("monitor", func(ctx context.Context) error {
			mon.Stop(ctx)
			return nil
		})
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	cookie := apiHandler.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.CookieSecure}

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, profileUseCase, cookie, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Timer:   apiHandler.NewTimerHandler(timerUseCase, ctxAdapter, zapLogger),
		Summary: apiHandler.NewSummaryHandler(summaryUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.SessionAuth(authUseCase, cfg.Session.CookieName, ctxAdapter, zapLogger)
	r := router.New(handlers, authMiddleware, zapLogger)

	server := &fasthttp.Server{
		Handler:      router.Handler(r, zapLogger),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		serveErr <- server.ListenAndServe(cfg.Address())
	}()
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	var runErr error
	select {
	case <-appCtx.Done():
		zapLogger.Info("shutdown signal received")
	case runErr = <-serveErr:
		if runErr != nil {
			zapLogger.Error("server stopped", zap.Error(runErr))
		}
	}

	shutdownStarted := time.Now()
	if shutdownErr := manager.Shutdown(context.Background()); shutdownErr != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(shutdownErr))
	}
	zapLogger.Info("shutdown complete", zap.Duration("took", time.Since(shutdownStarted)))
	return runErr
}
