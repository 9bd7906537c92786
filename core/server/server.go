package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayops/core/cache"
	"stayops/core/config"
	"stayops/core/database"
	"stayops/core/logger"
	"stayops/core/middleware"
	"stayops/modules/auth"
	"stayops/modules/job"
	jobService "stayops/modules/job/service"
	"stayops/modules/notification"
	notificationService "stayops/modules/notification/service"
	"stayops/modules/pipeline"
	pipelineService "stayops/modules/pipeline/service"
	"stayops/modules/property"
	"stayops/modules/reservation"
	"stayops/modules/schedule"
	"stayops/modules/staff"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Server owns the HTTP surface, the processing pipeline and the background
// workers. Construct with New, run with Run; Run blocks until shutdown.
type Server struct {
	cfg         *config.Config
	echo        *echo.Echo
	coordinator *pipelineService.Coordinator

	asynqClient    *asynq.Client
	asynqServer    *asynq.Server
	asynqMux       *asynq.ServeMux
	asynqScheduler *asynq.Scheduler
}

func New() (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Env, cfg.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())

	mw := middleware.NewMiddleware(redisCache)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisOpt)

	// Module wiring is leaf-first: the pipeline goes last and receives the
	// services the other modules expose.
	auth.Init(e, db, mw, redisCache)
	propertySvc := property.Init(e, db, redisCache, mw)
	scheduleSvc := schedule.Init(e, db, mw)
	staffRepo := staff.Init(e, db, mw)
	jobSvc := job.Init(e, db, mw, staffRepo, cfg)
	resRepo, _ := reservation.Init(e, db, scheduleSvc, jobSvc, mw)
	subscriber, notifRepo := notification.Init(e, db, mw, asynqClient)

	coordinator := pipeline.Init(resRepo, propertySvc, scheduleSvc, jobSvc, cfg)
	coordinator.Subscribe(subscriber)

	mux := asynq.NewServeMux()
	mux.Handle(notificationService.TypeNotificationDeliver, notificationService.DeliverHandler(notifRepo))
	mux.Handle(jobService.TypeRetryUnassigned, jobService.RetryUnassignedHandler(jobSvc))

	asynqServer := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 5})

	asynqScheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := asynqScheduler.Register("@every 10m", jobService.NewRetryUnassignedTask()); err != nil {
		return nil, fmt.Errorf("register periodic tasks: %w", err)
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return &Server{
		cfg:            cfg,
		echo:           e,
		coordinator:    coordinator,
		asynqClient:    asynqClient,
		asynqServer:    asynqServer,
		asynqMux:       mux,
		asynqScheduler: asynqScheduler,
	}, nil
}

// Run starts every component and blocks until SIGINT/SIGTERM, then tears
// them down in reverse order.
func (s *Server) Run() error {
	go func() {
		if err := s.asynqServer.Run(s.asynqMux); err != nil {
			logger.Error("Server:Run:asynq_server", err)
		}
	}()
	go func() {
		if err := s.asynqScheduler.Run(); err != nil {
			logger.Error("Server:Run:asynq_scheduler", err)
		}
	}()

	s.coordinator.Start()

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Run:http", err)
		}
	}()
	logger.Info("Server:Run", "addr", addr, "env", s.cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server:Run:shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		logger.Error("Server:Run:http_shutdown", err)
	}
	s.coordinator.Stop()
	s.asynqScheduler.Shutdown()
	s.asynqServer.Shutdown()
	if err := s.asynqClient.Close(); err != nil {
		logger.Error("Server:Run:asynq_client_close", err)
	}

	logger.Info("Server:Run:stopped")
	return nil
}
