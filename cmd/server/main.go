package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"kompi/internal/api"
	"kompi/internal/api/handlers"
	"kompi/internal/api/middleware"
	"kompi/internal/engine/krcodes"
	"kompi/internal/engine/links"
	"kompi/internal/engine/redirect"
	"kompi/internal/engine/render"
	"kompi/internal/pkg/logger"
	"kompi/internal/platform/config"
	"kompi/internal/platform/database"
	"kompi/internal/workers"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	// Repositories
	linkRepo := links.NewRepository(db)
	codeRepo := krcodes.NewRepository(db)
	clickRepo := redirect.NewClickRepository(db)

	// Engines
	resolver := krcodes.NewResolver(codeRepo, linkRepo)
	renderer := render.NewRenderer(resolver, render.NewLogoLoader(cfg.Assets.PublicRoot))

	linkCache := redirect.NewLinkCache(cfg.Cache.LinkTTL)
	clickLogger := redirect.NewClickLogger(clickRepo, cfg.Clicks.BufferSize, cfg.Clicks.WorkerCount)
	clickLogger.Start()

	artifactLimiter := middleware.NewRateLimiter(cfg.RateLimit.ArtifactPerMinute, cfg.RateLimit.TrustProxy)
	redirectLimiter := middleware.NewRateLimiter(cfg.RateLimit.RedirectPerMinute, cfg.RateLimit.TrustProxy)

	// Housekeeping
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	if cfg.Cache.LinkTTL > 0 {
		go workers.Every(bgCtx, cfg.Cache.LinkTTL, func() {
			if n := linkCache.Sweep(); n > 0 {
				log.Debug().Int("removed", n).Msg("Swept link cache")
			}
		})
	}
	go workers.Every(bgCtx, 5*time.Minute, func() {
		artifactLimiter.Cleanup(time.Hour)
		redirectLimiter.Cleanup(time.Hour)
	})

	// Router
	deps := &api.Dependencies{
		KRCodeHandler:   handlers.NewKRCodeHandler(renderer, resolver, &cfg.App),
		RedirectHandler: handlers.NewRedirectHandler(redirect.NewResolver(linkRepo, linkCache), clickLogger),
		HealthHandler:   handlers.NewHealthHandler(db),
		MetricsHandler:  handlers.NewMetricsHandler(),
		ArtifactLimiter: artifactLimiter,
		RedirectLimiter: redirectLimiter,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      middleware.RequestLogger(log.Logger)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown incomplete")
	}
	stopBackground()
	if err := clickLogger.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("Pending click events were not written")
	}

	log.Info().Msg("Server stopped")
}
