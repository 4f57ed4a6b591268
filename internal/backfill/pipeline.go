// Package backfill orchestrates the staged historical load: reference data
// first, then per-game stats, then derived aggregates, so every stage can
// rely on the rows the previous stages persisted.
package backfill

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"nhlstats/backfill/internal/fallback"
	"nhlstats/backfill/internal/metrics"
	"nhlstats/backfill/internal/models"

	"github.com/rs/zerolog/log"
)

// Source fetches live data from the NHL API
type Source interface {
	FetchTeams(ctx context.Context) ([]models.TeamInput, error)
	FetchRoster(ctx context.Context, abbrev, season string) ([]models.PlayerInput, error)
	FetchSchedule(ctx context.Context, abbrev, season string) ([]models.GameInput, error)
	FetchBoxscore(ctx context.Context, gameID int) (*models.BoxscoreInput, error)
	FetchPlayByPlay(ctx context.Context, gameID int) ([]models.ShotInput, error)
}

// MetricsSource fetches season-level advanced metrics
type MetricsSource interface {
	FetchSkaterSummary(ctx context.Context, season string) ([]models.SkaterAdvancedInput, error)
	FetchTeamSummary(ctx context.Context, season string) ([]models.TeamAdvancedInput, error)
}

// TeamStore persists teams
type TeamStore interface {
	Upsert(ctx context.Context, team *models.Team) error
}

// PlayerStore persists players
type PlayerStore interface {
	Upsert(ctx context.Context, player *models.Player) error
}

// GameStore persists and lists games
type GameStore interface {
	Upsert(ctx context.Context, game *models.Game) error
	ListBySeason(ctx context.Context, season string) ([]*models.Game, error)
}

// GameStatStore persists per-game stat rows
type GameStatStore interface {
	UpsertPlayerStat(ctx context.Context, stat *models.PlayerGameStat) error
	UpsertGoalieStat(ctx context.Context, stat *models.GoalieGameStat) error
	UpsertTeamStat(ctx context.Context, stat *models.TeamGameStat) error
}

// ShotStore persists shot events
type ShotStore interface {
	Insert(ctx context.Context, shot *models.Shot) (bool, error)
}

// AdvancedStore attaches advanced metrics to existing season rows
type AdvancedStore interface {
	ApplySkaterAdvanced(ctx context.Context, season string, adv *models.SkaterAdvancedInput) (bool, error)
	ApplyTeamAdvanced(ctx context.Context, season string, teamID int, adv *models.TeamAdvancedInput) (bool, error)
}

// Aggregator recomputes season rows from persisted per-game rows
type Aggregator interface {
	AggregatePlayers(ctx context.Context, season string) (int, error)
	AggregateTeams(ctx context.Context, season string) (int, error)
}

// Counter reports per-table row totals for the final report
type Counter interface {
	RowCounts(ctx context.Context) (map[string]int64, error)
}

// Pipeline runs the staged backfill. All dependencies are explicit; there
// is no package-level state beyond the metrics registry.
type Pipeline struct {
	source      Source
	advanced    MetricsSource
	teams       TeamStore
	players     PlayerStore
	games       GameStore
	gameStats   GameStatStore
	shots       ShotStore
	seasonStats AdvancedStore
	aggregator  Aggregator
	counter     Counter

	focusTeamID int
	focusAbbrev string

	running atomic.Bool
	stopped atomic.Bool
	now     func() time.Time
}

// Deps bundles the pipeline's constructor arguments
type Deps struct {
	Source      Source
	Advanced    MetricsSource
	Teams       TeamStore
	Players     PlayerStore
	Games       GameStore
	GameStats   GameStatStore
	Shots       ShotStore
	SeasonStats AdvancedStore
	Aggregator  Aggregator
	Counter     Counter
	FocusTeamID int
	FocusAbbrev string
}

// NewPipeline creates a pipeline over the given dependencies
func NewPipeline(deps Deps) *Pipeline {
	return &Pipeline{
		source:      deps.Source,
		advanced:    deps.Advanced,
		teams:       deps.Teams,
		players:     deps.Players,
		games:       deps.Games,
		gameStats:   deps.GameStats,
		shots:       deps.Shots,
		seasonStats: deps.SeasonStats,
		aggregator:  deps.Aggregator,
		counter:     deps.Counter,
		focusTeamID: deps.FocusTeamID,
		focusAbbrev: deps.FocusAbbrev,
		now:         time.Now,
	}
}

// Stop requests a graceful stop. The pipeline checks the flag between
// stages only; a stage in flight always completes.
func (p *Pipeline) Stop() {
	p.stopped.Store(true)
}

// run carries the mutable state of a single Run invocation
type run struct {
	opts      Options
	startedAt time.Time
	completed int
	total     int
	errors    []StageError
	fallback  bool

	// boxscores fetched during the player stage, reused by the goalie and
	// team stat stages for the same season
	boxscores map[int]*models.BoxscoreInput
}

// Run executes the full backfill for the given seasons. It returns
// ErrAlreadyRunning when a run is in flight, and otherwise always returns
// a report; accumulated stage errors live inside it. The only fatal stage
// is teams, since nothing downstream can persist without team rows.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	if err := ValidateSeasons(opts.Seasons); err != nil {
		return nil, err
	}

	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer p.running.Store(false)
	p.stopped.Store(false)

	r := &run{
		opts:      opts,
		startedAt: p.now(),
		total:     1 + len(opts.Seasons)*stagesPerSeason,
	}

	log.Info().
		Strs("seasons", opts.Seasons).
		Bool("include_playoffs", opts.IncludePlayoffs).
		Msg("Backfill starting")

	if err := p.runStage(ctx, r, StageTeams, "", p.stageTeams); err != nil {
		report := p.report(ctx, r)
		return report, fmt.Errorf("teams stage failed: %w", err)
	}

	for _, season := range opts.Seasons {
		if p.stopped.Load() || ctx.Err() != nil {
			break
		}
		p.runSeason(ctx, r, season)
		if opts.OnSeasonComplete != nil {
			opts.OnSeasonComplete(season)
		}
	}

	report := p.report(ctx, r)

	log.Info().
		Dur("duration", report.Duration).
		Int("errors", len(report.Errors)).
		Bool("used_fallback", report.UsedFallback).
		Msg("Backfill finished")

	metrics.LastSuccessfulRun.SetToCurrentTime()

	return report, nil
}

func (p *Pipeline) runSeason(ctx context.Context, r *run, season string) {
	r.boxscores = make(map[int]*models.BoxscoreInput)

	stages := []struct {
		name string
		fn   func(ctx context.Context, r *run, season string) error
	}{
		{StagePlayers, p.stagePlayers},
		{StageGames, p.stageGames},
		{StagePlayerGameStats, p.stagePlayerGameStats},
		{StageGoalieGameStats, p.stageGoalieGameStats},
		{StageTeamGameStats, p.stageTeamGameStats},
		{StageShotEvents, p.stageShotEvents},
		{StageAggregates, p.stageAggregates},
		{StageAdvanced, p.stageAdvanced},
	}

	for _, stage := range stages {
		if p.stopped.Load() || ctx.Err() != nil {
			return
		}
		fn := stage.fn
		p.runStage(ctx, r, stage.name, season, func(ctx context.Context, r *run) error {
			return fn(ctx, r, season)
		})
	}
}

// runStage executes one stage with panic isolation, records its outcome,
// and publishes a progress snapshot. The returned error is also collected
// into the run's error list; only the teams stage treats it as fatal.
func (p *Pipeline) runStage(ctx context.Context, r *run, name, key string, fn func(ctx context.Context, r *run) error) (err error) {
	start := p.now()

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic: %v", rec)
			}
		}()
		err = fn(ctx, r)
	}()

	duration := p.now().Sub(start)
	status := "success"
	if err != nil {
		status = "error"
		r.errors = append(r.errors, StageError{Stage: name, Key: key, Err: err})
		log.Error().Err(err).Str("stage", name).Str("key", key).Msg("Stage failed")
	}
	metrics.RecordStage(name, status, duration.Seconds())

	r.completed++
	p.publishProgress(r, name)

	return err
}

func (p *Pipeline) publishProgress(r *run, step string) {
	if r.opts.OnProgress == nil {
		return
	}

	var eta time.Duration
	if r.completed > 0 {
		elapsed := p.now().Sub(r.startedAt)
		eta = elapsed / time.Duration(r.completed) * time.Duration(r.total-r.completed)
	}

	r.opts.OnProgress(Progress{
		Step:            step,
		CompletedStages: r.completed,
		TotalStages:     r.total,
		Errors:          len(r.errors),
		StartedAt:       r.startedAt,
		ETA:             eta,
	})
}

// stageTeams loads all teams, falling back to the static snapshot when the
// live fetch yields nothing usable
func (p *Pipeline) stageTeams(ctx context.Context, r *run) error {
	inputs, err := p.source.FetchTeams(ctx)

	var teams []*models.Team
	for _, ti := range inputs {
		id, ok := fallback.TeamIDByAbbrev(ti.TeamAbbrev.Default)
		if !ok {
			log.Warn().Str("abbrev", ti.TeamAbbrev.Default).Msg("Unknown team abbreviation, skipping")
			continue
		}
		teams = append(teams, ti.ToTeam(id))
	}

	if len(teams) == 0 {
		if err != nil {
			log.Warn().Err(err).Msg("Live team fetch failed, using fallback snapshot")
		} else {
			log.Warn().Msg("Live team fetch returned no usable teams, using fallback snapshot")
		}
		metrics.RecordFallback(StageTeams)
		r.fallback = true
		teams = fallback.Teams()
	}

	upserted := 0
	for _, team := range teams {
		if err := p.teams.Upsert(ctx, team); err != nil {
			return err
		}
		upserted++
	}

	log.Info().Int("teams", upserted).Msg("Teams stage complete")
	return nil
}

// stagePlayers loads the focus team roster for the season
func (p *Pipeline) stagePlayers(ctx context.Context, r *run, season string) error {
	inputs, err := p.source.FetchRoster(ctx, p.focusAbbrev, season)

	var players []*models.Player
	for _, pi := range inputs {
		players = append(players, pi.ToPlayer(p.focusTeamID))
	}

	if len(players) == 0 {
		if err != nil {
			log.Warn().Err(err).Str("season", season).Msg("Roster fetch failed, using fallback snapshot")
		} else {
			log.Warn().Str("season", season).Msg("Roster fetch returned no players, using fallback snapshot")
		}
		metrics.RecordFallback(StagePlayers)
		r.fallback = true
		players = fallback.Roster()
	}

	for _, player := range players {
		if err := p.players.Upsert(ctx, player); err != nil {
			return err
		}
	}

	log.Info().Str("season", season).Int("players", len(players)).Msg("Players stage complete")
	return nil
}

// stageGames loads the focus team schedule for the season. When the fetch
// fails outright, the sample games and their team stat rows are persisted
// so every downstream stage still has rows to work with.
func (p *Pipeline) stageGames(ctx context.Context, r *run, season string) error {
	inputs, err := p.source.FetchSchedule(ctx, p.focusAbbrev, season)

	if err != nil || len(inputs) == 0 {
		if err != nil {
			log.Warn().Err(err).Str("season", season).Msg("Schedule fetch failed, using fallback snapshot")
		} else {
			log.Warn().Str("season", season).Msg("Schedule fetch returned no games, using fallback snapshot")
		}
		metrics.RecordFallback(StageGames)
		r.fallback = true

		for _, game := range fallback.Games() {
			if err := p.games.Upsert(ctx, game); err != nil {
				return err
			}
		}
		for _, stat := range fallback.TeamGameStats() {
			if err := p.gameStats.UpsertTeamStat(ctx, stat); err != nil {
				return err
			}
		}
		return nil
	}

	upserted := 0
	for _, gi := range inputs {
		if gi.GameType == models.GameTypePreseason {
			continue
		}
		if gi.GameType == models.GameTypePlayoff && !r.opts.IncludePlayoffs {
			continue
		}
		if err := p.games.Upsert(ctx, gi.ToGame()); err != nil {
			return err
		}
		upserted++
	}

	log.Info().Str("season", season).Int("games", upserted).Msg("Games stage complete")
	return nil
}

// finalGames lists the persisted final games for the season
func (p *Pipeline) finalGames(ctx context.Context, season string) ([]*models.Game, error) {
	games, err := p.games.ListBySeason(ctx, season)
	if err != nil {
		return nil, err
	}

	var finals []*models.Game
	for _, g := range games {
		if g.IsFinal() {
			finals = append(finals, g)
		}
	}
	return finals, nil
}

// boxscore fetches a game's boxscore, memoizing it for the season's later
// stat stages
func (p *Pipeline) boxscore(ctx context.Context, r *run, gameID int) (*models.BoxscoreInput, error) {
	if box, ok := r.boxscores[gameID]; ok {
		return box, nil
	}

	box, err := p.source.FetchBoxscore(ctx, gameID)
	if err != nil {
		return nil, err
	}

	r.boxscores[gameID] = box
	return box, nil
}

// stagePlayerGameStats persists skater box-score lines for every final game
func (p *Pipeline) stagePlayerGameStats(ctx context.Context, r *run, season string) error {
	finals, err := p.finalGames(ctx, season)
	if err != nil {
		return err
	}

	var failed []int
	rows := 0
	for _, game := range finals {
		box, err := p.boxscore(ctx, r, game.ID)
		if err != nil {
			failed = append(failed, game.ID)
			continue
		}

		for _, sk := range box.Skaters() {
			stat := sk.Line.ToPlayerGameStat(game.ID, sk.TeamID)
			if err := p.gameStats.UpsertPlayerStat(ctx, stat); err != nil {
				return err
			}
			rows++
		}
	}

	log.Info().
		Str("season", season).
		Int("games", len(finals)).
		Int("rows", rows).
		Msg("Player game stats stage complete")

	if len(failed) > 0 {
		return fmt.Errorf("boxscore fetch failed for %d of %d games", len(failed), len(finals))
	}
	return nil
}

// stageGoalieGameStats persists goalie box-score lines for every final game
func (p *Pipeline) stageGoalieGameStats(ctx context.Context, r *run, season string) error {
	finals, err := p.finalGames(ctx, season)
	if err != nil {
		return err
	}

	rows := 0
	for _, game := range finals {
		box, err := p.boxscore(ctx, r, game.ID)
		if err != nil {
			continue
		}

		for _, gl := range box.Goalies() {
			stat := gl.Line.ToGoalieGameStat(game.ID, gl.TeamID)
			if err := p.gameStats.UpsertGoalieStat(ctx, stat); err != nil {
				return err
			}
			rows++
		}
	}

	log.Info().Str("season", season).Int("rows", rows).Msg("Goalie game stats stage complete")
	return nil
}

// stageTeamGameStats persists both sides' team totals for every final game
func (p *Pipeline) stageTeamGameStats(ctx context.Context, r *run, season string) error {
	finals, err := p.finalGames(ctx, season)
	if err != nil {
		return err
	}

	rows := 0
	for _, game := range finals {
		box, err := p.boxscore(ctx, r, game.ID)
		if err != nil {
			continue
		}

		home := box.HomeTeam.ToTeamGameStat(game.ID, true)
		away := box.AwayTeam.ToTeamGameStat(game.ID, false)
		if err := p.gameStats.UpsertTeamStat(ctx, home); err != nil {
			return err
		}
		if err := p.gameStats.UpsertTeamStat(ctx, away); err != nil {
			return err
		}
		rows += 2
	}

	log.Info().Str("season", season).Int("rows", rows).Msg("Team game stats stage complete")
	return nil
}

// stageShotEvents persists shot events for the focus team's final games.
// Play-by-play is by far the heaviest feed, so it is restricted to the one
// team the dashboard covers.
func (p *Pipeline) stageShotEvents(ctx context.Context, r *run, season string) error {
	finals, err := p.finalGames(ctx, season)
	if err != nil {
		return err
	}

	inserted, duplicates := 0, 0
	for _, game := range finals {
		if game.HomeTeamID != p.focusTeamID && game.AwayTeamID != p.focusTeamID {
			continue
		}

		shots, err := p.source.FetchPlayByPlay(ctx, game.ID)
		if err != nil {
			log.Warn().Err(err).Int("game_id", game.ID).Msg("Play-by-play fetch failed, skipping game")
			continue
		}

		for _, si := range shots {
			si.GameID = game.ID
			written, err := p.shots.Insert(ctx, si.ToShot())
			if err != nil {
				return err
			}
			if written {
				inserted++
			} else {
				duplicates++
			}
		}
	}

	log.Info().
		Str("season", season).
		Int("inserted", inserted).
		Int("duplicates", duplicates).
		Msg("Shot events stage complete")
	return nil
}

// stageAggregates recomputes the season summary rows, players then teams
func (p *Pipeline) stageAggregates(ctx context.Context, r *run, season string) error {
	if _, err := p.aggregator.AggregatePlayers(ctx, season); err != nil {
		return err
	}
	if _, err := p.aggregator.AggregateTeams(ctx, season); err != nil {
		return err
	}
	return nil
}

// stageAdvanced attaches MoneyPuck possession metrics to the season rows
// the aggregate stage just wrote. Metrics for players or teams we never
// ingested are dropped, not inserted.
func (p *Pipeline) stageAdvanced(ctx context.Context, r *run, season string) error {
	skaters, err := p.advanced.FetchSkaterSummary(ctx, season)
	if err != nil {
		return fmt.Errorf("skater summary fetch failed: %w", err)
	}

	applied, skipped := 0, 0
	for i := range skaters {
		ok, err := p.seasonStats.ApplySkaterAdvanced(ctx, season, &skaters[i])
		if err != nil {
			return err
		}
		if ok {
			applied++
		} else {
			skipped++
		}
	}

	teams, err := p.advanced.FetchTeamSummary(ctx, season)
	if err != nil {
		return fmt.Errorf("team summary fetch failed: %w", err)
	}

	for i := range teams {
		teamID, ok := fallback.TeamIDByAbbrev(teams[i].TeamAbbrev)
		if !ok {
			skipped++
			continue
		}
		ok, err := p.seasonStats.ApplyTeamAdvanced(ctx, season, teamID, &teams[i])
		if err != nil {
			return err
		}
		if ok {
			applied++
		} else {
			skipped++
		}
	}

	log.Info().
		Str("season", season).
		Int("applied", applied).
		Int("skipped", skipped).
		Msg("Advanced metrics stage complete")
	return nil
}

// report builds the final run report. Row counting failures are reported
// as a stage error rather than dropping the report.
func (p *Pipeline) report(ctx context.Context, r *run) *Report {
	counts, err := p.counter.RowCounts(ctx)
	if err != nil {
		r.errors = append(r.errors, StageError{Stage: "report", Err: err})
		counts = map[string]int64{}
	} else {
		metrics.UpdateRowCounts(counts)
	}

	return &Report{
		Seasons:      r.opts.Seasons,
		StartedAt:    r.startedAt,
		Duration:     p.now().Sub(r.startedAt),
		RowCounts:    counts,
		Errors:       r.errors,
		UsedFallback: r.fallback,
	}
}
