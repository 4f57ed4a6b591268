// Command worker is the long-running ingestion service: it applies the
// schema, optionally runs the initial backfill, then keeps the current
// season fresh on a nightly cron while exposing metrics and health.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"nhlstats/backfill/internal/aggregate"
	"nhlstats/backfill/internal/backfill"
	"nhlstats/backfill/internal/cache"
	"nhlstats/backfill/internal/client"
	"nhlstats/backfill/internal/config"
	"nhlstats/backfill/internal/facade"
	"nhlstats/backfill/internal/metrics"
	"nhlstats/backfill/internal/repository"
	"nhlstats/backfill/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	setupLogger()

	log.Info().Msg("Starting NHL stats ingestion worker")

	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("focus_team", cfg.FocusTeamAbbrev).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// Redis is optional; a nil cache degrades to direct reads
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
		log.Info().Msg("Redis cache connected")
	}

	nhl := client.NewNHLClient(cfg.NHLBaseURL, cfg.NHLTimeout, cfg.NHLRateLimit)
	moneypuck := client.NewMoneyPuckClient(cfg.MoneyPuckBaseURL, cfg.MoneyPuckTimeout, cfg.MoneyPuckRateLimit)
	aggregator := aggregate.NewAggregator(db.GameStats, db.Games, db.SeasonStats)

	pipeline := backfill.NewPipeline(backfill.Deps{
		Source:      nhl,
		Advanced:    moneypuck,
		Teams:       db.Teams,
		Players:     db.Players,
		Games:       db.Games,
		GameStats:   db.GameStats,
		Shots:       db.Shots,
		SeasonStats: db.SeasonStats,
		Aggregator:  aggregator,
		Counter:     db,
		FocusTeamID: cfg.FocusTeamID,
		FocusAbbrev: cfg.FocusTeamAbbrev,
	})

	dashboard := facade.NewService(
		&facade.DatabaseStore{DB: db},
		redisCache,
		cfg.FocusTeamID,
		time.Duration(cfg.CacheTTLPackage)*time.Second,
		time.Duration(cfg.CacheTTLGameDetail)*time.Second,
	)

	if cfg.EnableMetrics {
		go startMetricsServer(ctx, strconv.Itoa(cfg.MetricsPort), db)
	}

	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	sched := scheduler.NewScheduler(cfg, pipeline)
	sched.OnRefresh(func(season string) {
		dashboard.InvalidatePackage(ctx, season)
	})

	if cfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	if cfg.InitialBackfill {
		log.Info().Msg("Running initial backfill...")
		report, err := pipeline.Run(ctx, backfill.Options{
			Seasons:         cfg.BackfillSeasons,
			IncludePlayoffs: cfg.IncludePlayoffs,
		})
		if err != nil {
			log.Error().Err(err).Msg("Initial backfill failed, continuing anyway...")
		} else {
			log.Info().
				Dur("duration", report.Duration).
				Int("errors", len(report.Errors)).
				Bool("used_fallback", report.UsedFallback).
				Msg("Initial backfill completed")
		}
	}

	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	log.Info().Msg("Worker shutdown complete")
}

// startMetricsServer serves Prometheus metrics and health checks
func startMetricsServer(ctx context.Context, port string, db *repository.Database) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	server := &http.Server{Addr: ":" + port, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("port", port).Msg("Metrics server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}

// setupLogger configures the zerolog logger
func setupLogger() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := zerolog.ParseLevel(lvl); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}
