package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ucu-wifi/guest-portal-go/internal/auth"
	"github.com/ucu-wifi/guest-portal-go/internal/config"
	"github.com/ucu-wifi/guest-portal-go/internal/database"
	"github.com/ucu-wifi/guest-portal-go/internal/handler"
	"github.com/ucu-wifi/guest-portal-go/internal/jobs"
	"github.com/ucu-wifi/guest-portal-go/internal/metrics"
	"github.com/ucu-wifi/guest-portal-go/internal/middleware"
	"github.com/ucu-wifi/guest-portal-go/internal/notify"
	"github.com/ucu-wifi/guest-portal-go/internal/redis"
	"github.com/ucu-wifi/guest-portal-go/internal/repository"
	"github.com/ucu-wifi/guest-portal-go/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	metrics.Init()

	adminRepo := repository.NewAdminRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)
	guestRepo := repository.NewGuestUserRepository(db.DB)

	hasher := auth.NewHasher(cfg.BcryptCost, cfg.HashConcurrency)
	tokens := auth.NewTokenCodec(cfg.JWTSecret)

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.SMTPEnabled() {
		notifier = notify.NewResilient(notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}), cfg.NotifyTimeout)
		log.Info().Str("host", cfg.SMTPHost).Msg("credential email enabled")
	} else {
		log.Warn().Msg("SMTP not configured: guest credentials will only be shown in the dashboard")
	}

	debug := !cfg.IsProduction()
	authService := service.NewAuthService(db.DB, adminRepo, sessionRepo, hasher, tokens, cfg.SessionTTL)
	guestService := service.NewGuestUserService(guestRepo, hasher, notifier, cfg.NotifyTimeout, debug)
	rateLimiter := service.NewRateLimiter(redisClient.Client)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	adminRateLimitMiddleware := middleware.NewAdminRateLimitMiddleware(rateLimiter, cfg.AdminRateLimitPerMin, "guest-users")
	loginRateLimiter := middleware.NewLoginRateLimiter(config.LoginMaxAttempts, config.LoginWindow)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(config.MaxRequestBodySize)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(cfg.IsProduction())

	authHandler := handler.NewAuthHandler(authService, authMiddleware.Handler, loginRateLimiter.Handler, debug)
	guestHandler := handler.NewGuestUserHandler(guestService, debug)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.AppEnv)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Instrument)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(securityHeadersMiddleware.Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.GlobalRateLimit(cfg.GlobalRateLimit, cfg.GlobalRateWindow))
		r.Use(bodyLimitMiddleware.Handler)

		r.Mount("/auth", authHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Handler)
			r.Use(adminRateLimitMiddleware.Handler)
			r.Mount("/guest-users", guestHandler.Routes())
		})

		r.NotFound(handler.NotFoundAPI)
	})

	if cfg.StaticDir != "" {
		spa := handler.NewSPAHandler(cfg.StaticDir)
		r.NotFound(spa.ServeHTTP)
		log.Info().Str("dir", cfg.StaticDir).Msg("serving dashboard")
	} else {
		r.NotFound(handler.NotFoundAPI)
	}

	cleanupJob := jobs.NewCleanupJob(sessionRepo, config.SessionCleanupInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.AppEnv).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
