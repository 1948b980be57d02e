package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/materna-health/care-api/internal/config"
	"github.com/materna-health/care-api/internal/email"
	appointmentHandler "github.com/materna-health/care-api/internal/handler/appointment"
	dashboardHandler "github.com/materna-health/care-api/internal/handler/dashboard"
	patientHandler "github.com/materna-health/care-api/internal/handler/patient"
	"github.com/materna-health/care-api/internal/middleware"
	"github.com/materna-health/care-api/internal/repository/postgres"
	"github.com/materna-health/care-api/internal/router"
	appointmentService "github.com/materna-health/care-api/internal/service/appointment"
	dashboardService "github.com/materna-health/care-api/internal/service/dashboard"
	notificationService "github.com/materna-health/care-api/internal/service/notification"
	patientService "github.com/materna-health/care-api/internal/service/patient"
	"github.com/materna-health/care-api/pkg/auth"
	"github.com/materna-health/care-api/pkg/logger"
	messagingRedis "github.com/materna-health/care-api/pkg/messaging/redis"
	"github.com/materna-health/care-api/pkg/metrics"
	"github.com/materna-health/care-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(&logger.Config{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Logging.Pretty,
	})
	log.Logger = appLogger

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := messagingRedis.NewRedisBroker(messagingRedis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	appMetrics := metrics.NewMetrics("materna_care")
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			appMetrics.DatabaseConnections.Set(float64(db.Stats().OpenConnections))
		}
	}()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	recordRepo := postgres.NewPregnancyRecordRepository(db)

	// Services
	notifier := notificationService.NewService(broker, appMetrics, appLogger)
	mailer := email.NewService(cfg.SMTP, appMetrics)
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo, notifier, mailer, appLogger)
	patientSvc := patientService.NewService(appointmentRepo, userRepo, recordRepo, appLogger)
	dashboardSvc := dashboardService.NewService(appointmentRepo, cfg.Cache.AnalyticsTTL, appLogger)

	// Handlers and middleware
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	if err := validator.RegisterCustom(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validations")
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	if len(cfg.CORS.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.CORS.AllowedMethods
	}
	if len(cfg.CORS.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.CORS.AllowedHeaders
	}

	r := router.NewRouter(
		authMiddleware,
		dashboardHandler.NewHandler(dashboardSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		router.Config{
			RateLimit:     rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    corsConfig,
			MetricsPrefix: "materna_care_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
