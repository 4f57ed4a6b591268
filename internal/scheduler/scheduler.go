// Package scheduler runs the nightly refresh that keeps the current season
// up to date after the initial backfill.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"nhlstats/backfill/internal/backfill"
	"nhlstats/backfill/internal/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler triggers pipeline runs on a cron schedule
type Scheduler struct {
	cfg      *config.Config
	pipeline *backfill.Pipeline
	cron     *cron.Cron

	// onRefresh, when set, fires after each completed refresh so the
	// façade can drop stale cached packages
	onRefresh func(season string)
}

// NewScheduler creates a scheduler driving the given pipeline
func NewScheduler(cfg *config.Config, pipeline *backfill.Pipeline) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		pipeline: pipeline,
		cron:     cron.New(),
	}
}

// OnRefresh registers a callback fired per refreshed season
func (s *Scheduler) OnRefresh(fn func(season string)) {
	s.onRefresh = fn
}

// Start registers the nightly refresh and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.RefreshCron, func() {
		log.Info().Msg("Running nightly refresh...")
		if err := s.refresh(ctx); err != nil {
			log.Error().Err(err).Msg("Nightly refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.RefreshCron).
		Msg("Nightly refresh scheduled")

	return nil
}

// Stop stops the cron loop and asks any in-flight run to wind down
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}
	s.pipeline.Stop()

	log.Info().Msg("Scheduler stopped")
}

// refresh re-runs the pipeline for the configured current season. The
// pipeline's upserts make this safe against whatever the last run wrote.
func (s *Scheduler) refresh(ctx context.Context) error {
	season := s.cfg.CurrentSeason()

	report, err := s.pipeline.Run(ctx, backfill.Options{
		Seasons:         []string{season},
		IncludePlayoffs: s.cfg.IncludePlayoffs,
		OnSeasonComplete: func(season string) {
			if s.onRefresh != nil {
				s.onRefresh(season)
			}
		},
	})
	if errors.Is(err, backfill.ErrAlreadyRunning) {
		log.Warn().Msg("Refresh skipped, a run is already in flight")
		return nil
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("season", season).
		Dur("duration", report.Duration).
		Int("errors", len(report.Errors)).
		Msg("Nightly refresh complete")

	return nil
}
