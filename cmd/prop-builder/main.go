package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/config"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/hub"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/middleware"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/props"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/store"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.LoadConfig()
	setupLogger(cfg.LogLevel)
	if !cfg.EnvFileLoaded {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

	log.Info().Msg("=== Fortuna Prop Builder v0 ===")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Redis (slip sessions, analysis stream, optional watchlist)
	redisClient, err := store.ConnectRedis(ctx, cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB, cfg.ConnectMaxElapsed)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect to Redis")
	}
	defer redisClient.Close()
	log.Info().Msg("✓ Connected to Redis")

	// Watchlist backend
	var watchlist store.WatchlistStore
	if cfg.UsesPostgres() {
		pg, err := store.ConnectPostgres(ctx, cfg.Postgres.DSN, cfg.ConnectMaxElapsed)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to connect to Holocron")
		}
		watchlist = pg
		log.Info().Msg("✓ Connected to Holocron DB (watchlist)")
	} else {
		watchlist = store.NewRedisWatchlist(redisClient)
		log.Info().Msg("✓ Watchlist stored in Redis")
	}
	defer watchlist.Close()

	// Create hub
	h := hub.NewHub()
	go h.Run(ctx)

	slips := store.NewRedisSlipStore(redisClient, cfg.Slip.TTL)
	events := publisher.NewStreamPublisher(redisClient, cfg.Slip.EventsStream)
	catalog := props.NewCatalog(props.DefaultProps())

	// Initialize handlers
	handler := handlers.NewHandler(catalog, watchlist, cfg.Slip.MaxPicks)
	slipHandler := handlers.NewSlipHandler(slips, catalog, h, events, cfg.Slip.MaxPicks)
	watchlistHandler := handlers.NewWatchlistHandler(watchlist)
	wsHandler := handlers.NewWSHandler(ctx, h, cfg.Server.CORSOrigins)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", handlers.UserKeyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// WebSocket connections outlive the request timeout
	r.Get("/ws", wsHandler.HandleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(30 * time.Second))

		r.Get("/health", handler.HealthCheck)
		r.Handle("/metrics", promhttp.Handler())
		r.Get("/metrics/hub", wsHandler.HandleMetrics)

		// API v1
		r.Route("/api/v1", func(r chi.Router) {
			// Prop board
			r.Get("/props", handler.GetProps)
			r.Get("/props/{propID}", handler.GetProp)
			r.Get("/trend/{score}", handler.GetTrend)

			// Stateless analysis
			r.Post("/analyze", handler.AnalyzeSlip)

			// Slip sessions
			r.Post("/slips", slipHandler.CreateSlip)
			r.Get("/slips/{slipID}", slipHandler.GetSlip)
			r.Delete("/slips/{slipID}", slipHandler.DeleteSlip)
			r.Post("/slips/{slipID}/picks", slipHandler.AddPick)
			r.Delete("/slips/{slipID}/picks/{propID}", slipHandler.RemovePick)
			r.Get("/slips/{slipID}/analysis", slipHandler.GetAnalysis)

			// Watchlist
			r.Get("/watchlist", watchlistHandler.GetWatchlist)
			r.Put("/watchlist", watchlistHandler.ReplaceWatchlist)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("✓ Prop Builder listening")
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("❌ Server error")
		}

	case sig := <-shutdown:
		log.Info().Str("signal", sig.String()).Msg("⚠️  Received signal")

		// Stop the hub and close websocket clients
		cancel()

		// Give outstanding requests a deadline for completion
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("⚠️  Graceful shutdown failed")
			if err := srv.Close(); err != nil {
				log.Error().Err(err).Msg("❌ Could not stop server")
			}
		}
	}

	log.Info().Msg("✓ Shutdown complete")
}

// setupLogger configures the global console logger
func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
