// Command backfill runs the historical load once and prints a report.
// Seasons come from the -seasons flag or BACKFILL_SEASONS; the process
// exits nonzero only when the run could not start or the teams stage
// failed outright.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"nhlstats/backfill/internal/aggregate"
	"nhlstats/backfill/internal/backfill"
	"nhlstats/backfill/internal/client"
	"nhlstats/backfill/internal/config"
	"nhlstats/backfill/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	seasonsFlag := flag.String("seasons", "", "comma-separated 8-digit seasons, oldest first (overrides BACKFILL_SEASONS)")
	playoffsFlag := flag.Bool("playoffs", false, "include playoff games")
	flag.Parse()

	setupLogger()

	cfg := config.MustLoad()

	seasons := cfg.BackfillSeasons
	if *seasonsFlag != "" {
		seasons = strings.Split(*seasonsFlag, ",")
	}
	includePlayoffs := cfg.IncludePlayoffs || *playoffsFlag

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

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

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	pipeline := buildPipeline(cfg, db)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, stopping after current stage...")
		pipeline.Stop()
	}()

	report, err := pipeline.Run(ctx, backfill.Options{
		Seasons:         seasons,
		IncludePlayoffs: includePlayoffs,
		OnProgress: func(p backfill.Progress) {
			log.Info().
				Str("step", p.Step).
				Int("completed", p.CompletedStages).
				Int("total", p.TotalStages).
				Int("errors", p.Errors).
				Dur("eta", p.ETA).
				Msg("Backfill progress")
		},
		OnSeasonComplete: func(season string) {
			log.Info().Str("season", season).Msg("Season complete")
		},
	})

	if report != nil {
		printReport(report)
	}

	if err != nil {
		if errors.Is(err, backfill.ErrNoSeasons) || errors.Is(err, backfill.ErrInvalidSeason) {
			log.Fatal().Err(err).Msg("Invalid season list")
		}
		log.Fatal().Err(err).Msg("Backfill failed")
	}
}

func buildPipeline(cfg *config.Config, db *repository.Database) *backfill.Pipeline {
	nhl := client.NewNHLClient(cfg.NHLBaseURL, cfg.NHLTimeout, cfg.NHLRateLimit)
	moneypuck := client.NewMoneyPuckClient(cfg.MoneyPuckBaseURL, cfg.MoneyPuckTimeout, cfg.MoneyPuckRateLimit)
	aggregator := aggregate.NewAggregator(db.GameStats, db.Games, db.SeasonStats)

	return backfill.NewPipeline(backfill.Deps{
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
}

func printReport(report *backfill.Report) {
	fmt.Printf("\nBackfill report\n")
	fmt.Printf("  seasons:  %s\n", strings.Join(report.Seasons, ", "))
	fmt.Printf("  duration: %s\n", report.Duration.Round(time.Millisecond))
	fmt.Printf("  fallback: %v\n", report.UsedFallback)

	tables := make([]string, 0, len(report.RowCounts))
	for table := range report.RowCounts {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	fmt.Printf("  rows:\n")
	for _, table := range tables {
		fmt.Printf("    %-20s %d\n", table, report.RowCounts[table])
	}

	if len(report.Errors) > 0 {
		fmt.Printf("  errors (%d):\n", len(report.Errors))
		for _, se := range report.Errors {
			fmt.Printf("    %s\n", se.Error())
		}
	}
}

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
}
