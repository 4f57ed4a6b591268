package backfill

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Returned by Run when the caller's season list cannot be used
var (
	ErrAlreadyRunning = errors.New("backfill already running")
	ErrNoSeasons      = errors.New("no seasons specified")
	ErrInvalidSeason  = errors.New("invalid season")
)

// Seasons are 8-digit strings like "20242025"
var seasonPattern = regexp.MustCompile(`^\d{8}$`)

// ValidateSeasons rejects an empty or malformed season list up front, before
// any stage runs
func ValidateSeasons(seasons []string) error {
	if len(seasons) == 0 {
		return ErrNoSeasons
	}
	for _, s := range seasons {
		if !seasonPattern.MatchString(s) {
			return fmt.Errorf("%w: %q", ErrInvalidSeason, s)
		}
	}
	return nil
}

// Stage names in execution order. Teams runs once; the rest run per season.
const (
	StageTeams           = "teams"
	StagePlayers         = "players"
	StageGames           = "games"
	StagePlayerGameStats = "player-game-stats"
	StageGoalieGameStats = "goalie-game-stats"
	StageTeamGameStats   = "team-game-stats"
	StageShotEvents      = "shot-events"
	StageAggregates      = "season-aggregates"
	StageAdvanced        = "advanced-metrics"
)

// stagesPerSeason counts every stage after teams
const stagesPerSeason = 8

// Options configures one backfill run
type Options struct {
	// Seasons to backfill, oldest first, as 8-digit season strings
	Seasons []string

	// IncludePlayoffs keeps playoff games; preseason games are always dropped
	IncludePlayoffs bool

	// OnProgress, when set, receives a snapshot after every stage
	OnProgress func(Progress)

	// OnSeasonComplete, when set, fires after each season's last stage
	OnSeasonComplete func(season string)
}

// StageError records one stage failure. Failures are accumulated, not
// propagated: a failed stage never stops the stages after it.
type StageError struct {
	Stage string
	Key   string // season or game id the stage was working on
	Err   error
}

func (e StageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("stage %s (%s): %v", e.Stage, e.Key, e.Err)
	}
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e StageError) Unwrap() error { return e.Err }

// Progress is a point-in-time snapshot of a running backfill
type Progress struct {
	Step            string
	CompletedStages int
	TotalStages     int
	Errors          int
	StartedAt       time.Time
	ETA             time.Duration // zero until at least one stage completes
}

// Report summarizes a finished (possibly partial) run. It is always
// produced; the error count and per-table totals tell the caller how far
// the run got.
type Report struct {
	Seasons   []string
	StartedAt time.Time
	Duration  time.Duration
	RowCounts map[string]int64
	Errors    []StageError
	UsedFallback bool
}
