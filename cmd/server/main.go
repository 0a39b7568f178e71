package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeleads/internal/auth"
	"homeleads/internal/dashboard"
	"homeleads/internal/deals"
	"homeleads/internal/identity"
	"homeleads/internal/jwttoken"
	"homeleads/internal/leads"
	"homeleads/internal/notify"
	"homeleads/internal/platform/config"
	"homeleads/internal/platform/httpserver"
	"homeleads/internal/platform/logger"
	"homeleads/internal/platform/metrics"
	"homeleads/internal/platform/postgres"
	platformredis "homeleads/internal/platform/redis"
	"homeleads/internal/ratelimit"
	httptransport "homeleads/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.CreateSchema(db); err != nil {
		log.Error("schema setup failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		log.Info("redis disabled, rate limiting and dashboard caching are off")
	}

	m := metrics.New()

	var notifier notify.Notifier = notify.NewLogNotifier(log)
	if cfg.SMTP.Host != "" {
		notifier = notify.NewSMTPNotifier(cfg.SMTP)
	}

	normalizer := identity.NewNormalizer(identity.NewPostgres(db), log, m)
	leadSvc := leads.NewService(leads.NewPostgres(db), normalizer, notifier, log, m)
	dealSvc := deals.NewService(deals.NewPostgres(db))

	tokens := jwttoken.NewService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	authSvc := auth.NewService(auth.NewPostgres(db), tokens, cfg.JWT.TokenTTL, log)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authSvc.SeedInitialAdmin(seedCtx, cfg.Admin); err != nil {
		seedCancel()
		log.Error("admin seed failed", "error", err)
		os.Exit(1)
	}
	seedCancel()

	dashSvc := dashboard.NewService(dealSvc, normalizer, leadSvc,
		dashboard.NewCache(redisClient, cfg.DashboardCacheTTL))

	checks := []httptransport.HealthCheck{
		{Name: "database", Check: db.PingContext},
	}
	if redisClient != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "redis", Check: redisClient.Health})
	}

	handler := httptransport.NewHandler(leadSvc, dealSvc, authSvc, normalizer, dashSvc, log, checks...)
	limiter := ratelimit.New(redisClient, cfg.RateLimit, log)
	router := httptransport.NewRouter(handler, jwttoken.NewMiddlewareAdapter(tokens), limiter, m, log)

	srv := httpserver.New(cfg.HTTP, router)

	log.Info("starting homeleads", slog.String("addr", cfg.HTTP.Addr))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
