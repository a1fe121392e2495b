package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/carepulse/booking-platform/cmd/mainconfig"
	"github.com/carepulse/booking-platform/internal/api/router"
	"github.com/carepulse/booking-platform/internal/appointments"
	"github.com/carepulse/booking-platform/internal/auth"
	appconfig "github.com/carepulse/booking-platform/internal/config"
	"github.com/carepulse/booking-platform/internal/files"
	"github.com/carepulse/booking-platform/internal/notify"
	"github.com/carepulse/booking-platform/internal/observability/metrics"
	"github.com/carepulse/booking-platform/internal/patients"
	"github.com/carepulse/booking-platform/internal/users"
	"github.com/carepulse/booking-platform/pkg/logging"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.AuthJWTSecret == "" {
		logger.Error("AUTH_JWT_SECRET is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Repositories: Postgres when configured, in-memory otherwise.
	var (
		userRepo    users.Repository
		patientRepo patients.Repository
		apptRepo    appointments.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		userRepo = users.NewPostgresRepository(pool)
		patientRepo = patients.NewPostgresRepository(pool)
		apptRepo = appointments.NewPostgresRepository(pool)
		logger.Info("using postgres repositories")
	} else {
		userRepo = users.NewInMemoryRepository()
		patientRepo = patients.NewInMemoryRepository()
		apptRepo = appointments.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
	}

	// Optional redis-backed session revocation.
	var tokenStore auth.TokenStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		tokenStore = auth.NewRedisTokenStore(redis.NewClient(opts))
		logger.Info("session revocation store enabled", "addr", cfg.RedisAddr)
	}

	// AWS config is only loaded when something needs it.
	var awsCfg aws.Config
	needAWS := cfg.EmailProvider == "ses" || cfg.DocumentsBucket != ""
	if needAWS {
		var err error
		awsCfg, err = mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
	}

	// Email sender selection.
	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		sg := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sg != nil {
			sender = sg
		}
	case "ses":
		ses := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
		if ses != nil {
			sender = ses
		}
	default:
		sender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewService(sender, cfg.PublicBaseURL, logger)

	bookingMetrics := metrics.NewBookingMetrics(nil)

	// Services and handlers.
	authSvc := auth.NewService(userRepo, tokenStore, cfg.AuthJWTSecret, cfg.SessionTTL, cfg.BcryptCost, logger)
	patientSvc := patients.NewService(patientRepo, userRepo, logger)
	apptSvc := appointments.NewService(apptRepo, patientRepo, notifier, bookingMetrics, logger)

	routerCfg := &router.Config{
		Logger:              logger,
		AuthHandler:         auth.NewHandler(authSvc, logger),
		PatientsHandler:     patients.NewHandler(patientSvc, logger),
		AppointmentsHandler: appointments.NewHandler(apptSvc, logger),
		MetricsHandler:      promhttp.Handler(),
		AuthJWTSecret:       cfg.AuthJWTSecret,
		SessionStore:        tokenStore,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		AuthRateLimit:       cfg.AuthRateLimit,
		AuthRateBurst:       cfg.AuthRateBurst,
	}

	if cfg.DocumentsBucket != "" {
		docStore := files.NewStore(s3.NewFromConfig(awsCfg), cfg.DocumentsBucket, logger)
		routerCfg.DocumentsHandler = files.NewHandler(docStore, patientRepo, logger)
		logger.Info("identification document storage enabled", "bucket", cfg.DocumentsBucket)
	}

	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
