// main.go — Marquee catalog service.
// Admin API for curating the content catalog (contents, hero, sections,
// menu, audit log) plus the public read-only projections the browse UI
// consumes. Port: 8080 (env: PORT).
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/marqueetv/marquee/internal/catalog"
	"github.com/marqueetv/marquee/internal/config"
	"github.com/marqueetv/marquee/internal/database"
	"github.com/marqueetv/marquee/internal/handlers"
	"github.com/marqueetv/marquee/internal/logger"
	"github.com/marqueetv/marquee/internal/ratelimit"
	"github.com/marqueetv/marquee/internal/tmdb"
	"github.com/marqueetv/marquee/pkg/telemetry"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogFormat, cfg.LogLevel)

	if err := telemetry.InitSentry(cfg.SentryDSN, "marquee", version); err != nil {
		log.Warn("sentry init failed", "error", err)
	}
	defer telemetry.Flush()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	if err := database.Migrate(db); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	var limiter *ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		limiter = ratelimit.New(ratelimit.NewRedisStore(rdb))
		log.Info("redis rate limiting enabled", "addr", cfg.RedisAddr)
	} else {
		limiter = ratelimit.New(nil)
		log.Warn("no REDIS_ADDR set, login rate limiting disabled")
	}

	svc := catalog.New(db, log)
	if err := svc.EnsureDefaultSections(context.Background()); err != nil {
		log.Error("default sections install failed", "error", err)
		os.Exit(1)
	}

	provider := tmdb.New(cfg.TMDBAPIKey)

	srv := handlers.New(db, svc, provider, []byte(cfg.JWTSecret), cfg.JWTExpiry, limiter, log)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("marquee listening", "port", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
