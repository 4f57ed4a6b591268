package models

import (
	"database/sql"
	"time"
)

// PlayerSeasonStat is a materialized season summary for one skater on one
// team. It is fully re-derivable from player_game_stats rows for the season
// and is always overwritten, never incremented.
type PlayerSeasonStat struct {
	ID             int     `db:"id"`
	PlayerID       int     `db:"player_id"`
	TeamID         int     `db:"team_id"`
	Season         string  `db:"season"`
	GamesPlayed    int     `db:"games_played"`
	Goals          int     `db:"goals"`
	Assists        int     `db:"assists"`
	Points         int     `db:"points"`
	PlusMinus      int     `db:"plus_minus"`
	PenaltyMinutes int     `db:"penalty_minutes"`
	Shots          int     `db:"shots"`
	Hits           int     `db:"hits"`
	BlockedShots   int     `db:"blocked_shots"`
	TimeOnIce      int     `db:"time_on_ice"` // seconds
	PowerPlayGoals int     `db:"power_play_goals"`
	ShootingPct    float64 `db:"shooting_pct"`

	// Advanced metrics, imported from the MoneyPuck season summaries and
	// consumed as opaque numbers.
	CorsiPct      sql.NullFloat64 `db:"corsi_pct"`
	FenwickPct    sql.NullFloat64 `db:"fenwick_pct"`
	ExpectedGoals sql.NullFloat64 `db:"expected_goals"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TeamSeasonStat is a materialized season summary for one team
type TeamSeasonStat struct {
	ID               int    `db:"id"`
	TeamID           int    `db:"team_id"`
	Season           string `db:"season"`
	GamesPlayed      int    `db:"games_played"`
	Wins             int    `db:"wins"`
	Losses           int    `db:"losses"`
	OvertimeLosses   int    `db:"overtime_losses"`
	Points           int    `db:"points"`
	GoalsFor         int    `db:"goals_for"`
	GoalsAgainst     int    `db:"goals_against"`
	GoalDifferential int    `db:"goal_differential"`

	CorsiPct             sql.NullFloat64 `db:"corsi_pct"`
	FenwickPct           sql.NullFloat64 `db:"fenwick_pct"`
	ExpectedGoalsFor     sql.NullFloat64 `db:"expected_goals_for"`
	ExpectedGoalsAgainst sql.NullFloat64 `db:"expected_goals_against"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SkaterAdvancedInput is one row of the MoneyPuck skater season summary CSV,
// reduced to the columns we persist. The mapping from CSV header to field is
// explicit and versioned in the client; a renamed column is a detectable
// mapping gap, not a silent fallback.
type SkaterAdvancedInput struct {
	PlayerID      int
	Season        string
	TeamAbbrev    string
	CorsiPct      *float64
	FenwickPct    *float64
	ExpectedGoals *float64
}

// TeamAdvancedInput is one row of the MoneyPuck team season summary CSV
type TeamAdvancedInput struct {
	TeamAbbrev           string
	Season               string
	CorsiPct             *float64
	FenwickPct           *float64
	ExpectedGoalsFor     *float64
	ExpectedGoalsAgainst *float64
}
