package models

import (
	"database/sql"
	"fmt"
	"time"
)

// PlayerGameStat represents a skater's box-score line for one game
// Unique on (game_id, player_id); re-processing a game updates in place.
type PlayerGameStat struct {
	ID            int             `db:"id"`
	GameID        int             `db:"game_id"`
	PlayerID      int             `db:"player_id"`
	TeamID        int             `db:"team_id"`
	Goals         int             `db:"goals"`
	Assists       int             `db:"assists"`
	Points        int             `db:"points"`
	PlusMinus     int             `db:"plus_minus"`
	PenaltyMinutes int            `db:"penalty_minutes"`
	Shots         int             `db:"shots"`
	Hits          int             `db:"hits"`
	BlockedShots  int             `db:"blocked_shots"`
	TimeOnIce     int             `db:"time_on_ice"` // seconds
	PowerPlayGoals int            `db:"power_play_goals"`
	FaceoffPct    sql.NullFloat64 `db:"faceoff_pct"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// GoalieGameStat represents a goalie's box-score line for one game
// Unique on (game_id, player_id).
type GoalieGameStat struct {
	ID           int             `db:"id"`
	GameID       int             `db:"game_id"`
	PlayerID     int             `db:"player_id"`
	TeamID       int             `db:"team_id"`
	ShotsAgainst int             `db:"shots_against"`
	Saves        int             `db:"saves"`
	GoalsAgainst int             `db:"goals_against"`
	SavePct      sql.NullFloat64 `db:"save_pct"`
	TimeOnIce    int             `db:"time_on_ice"` // seconds
	Decision     sql.NullString  `db:"decision"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// TeamGameStat represents one team's totals for one game
// Unique on (game_id, team_id); two rows per game.
type TeamGameStat struct {
	ID             int             `db:"id"`
	GameID         int             `db:"game_id"`
	TeamID         int             `db:"team_id"`
	IsHome         bool            `db:"is_home"`
	Goals          int             `db:"goals"`
	Shots          int             `db:"shots"`
	Hits           int             `db:"hits"`
	PenaltyMinutes int             `db:"penalty_minutes"`
	BlockedShots   int             `db:"blocked_shots"`
	FaceoffPct     sql.NullFloat64 `db:"faceoff_pct"`
	PowerPlayGoals int             `db:"power_play_goals"`
	CorsiFor       sql.NullFloat64 `db:"corsi_for"`
	FenwickFor     sql.NullFloat64 `db:"fenwick_for"`
	ExpectedGoals  sql.NullFloat64 `db:"expected_goals"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// SkaterLineInput is a skater entry in the boxscore playerByGameStats block
// Counting fields are pointers so that missing values default to 0 on
// conversion rather than producing NaN or a skipped row.
type SkaterLineInput struct {
	PlayerID       int      `json:"playerId"`
	Goals          *int     `json:"goals,omitempty"`
	Assists        *int     `json:"assists,omitempty"`
	Points         *int     `json:"points,omitempty"`
	PlusMinus      *int     `json:"plusMinus,omitempty"`
	PIM            *int     `json:"pim,omitempty"`
	SOG            *int     `json:"sog,omitempty"`
	Hits           *int     `json:"hits,omitempty"`
	BlockedShots   *int     `json:"blockedShots,omitempty"`
	PowerPlayGoals *int     `json:"powerPlayGoals,omitempty"`
	FaceoffPctg    *float64 `json:"faceoffWinningPctg,omitempty"`
	TOI            string   `json:"toi"` // "MM:SS"
}

// GoalieLineInput is a goalie entry in the boxscore playerByGameStats block
type GoalieLineInput struct {
	PlayerID     int      `json:"playerId"`
	ShotsAgainst *int     `json:"shotsAgainst,omitempty"`
	Saves        *int     `json:"saves,omitempty"`
	GoalsAgainst *int     `json:"goalsAgainst,omitempty"`
	SavePctg     *float64 `json:"savePctg,omitempty"`
	Decision     string   `json:"decision"`
	TOI          string   `json:"toi"`
}

// BoxscoreTeamInput is one side of a normalized boxscore
type BoxscoreTeamInput struct {
	TeamID         int      `json:"id"`
	Score          *int     `json:"score,omitempty"`
	SOG            *int     `json:"sog,omitempty"`
	Hits           *int     `json:"hits,omitempty"`
	PIM            *int     `json:"pim,omitempty"`
	BlockedShots   *int     `json:"blocks,omitempty"`
	FaceoffPctg    *float64 `json:"faceoffWinningPctg,omitempty"`
	PowerPlayGoals *int     `json:"powerPlayGoals,omitempty"`

	Forwards []SkaterLineInput `json:"forwards"`
	Defense  []SkaterLineInput `json:"defense"`
	Goalies  []GoalieLineInput `json:"goalies"`
}

// BoxscoreInput is the per-game boxscore shape consumed by the stat stages
type BoxscoreInput struct {
	GameID   int               `json:"id"`
	HomeTeam BoxscoreTeamInput `json:"homeTeam"`
	AwayTeam BoxscoreTeamInput `json:"awayTeam"`
}

// TeamSkaterLine pairs a skater line with the team it was recorded for
type TeamSkaterLine struct {
	TeamID int
	Line   SkaterLineInput
}

// TeamGoalieLine pairs a goalie line with the team it was recorded for
type TeamGoalieLine struct {
	TeamID int
	Line   GoalieLineInput
}

// Skaters returns both sides' skater lines with their team ids
func (b *BoxscoreInput) Skaters() []TeamSkaterLine {
	var out []TeamSkaterLine
	for _, side := range []*BoxscoreTeamInput{&b.HomeTeam, &b.AwayTeam} {
		for _, line := range side.Forwards {
			out = append(out, TeamSkaterLine{TeamID: side.TeamID, Line: line})
		}
		for _, line := range side.Defense {
			out = append(out, TeamSkaterLine{TeamID: side.TeamID, Line: line})
		}
	}
	return out
}

// Goalies returns both sides' goalie lines with their team ids
func (b *BoxscoreInput) Goalies() []TeamGoalieLine {
	var out []TeamGoalieLine
	for _, side := range []*BoxscoreTeamInput{&b.HomeTeam, &b.AwayTeam} {
		for _, line := range side.Goalies {
			out = append(out, TeamGoalieLine{TeamID: side.TeamID, Line: line})
		}
	}
	return out
}

// ToPlayerGameStat converts a skater line into a persisted per-game row
func (li *SkaterLineInput) ToPlayerGameStat(gameID, teamID int) *PlayerGameStat {
	stat := &PlayerGameStat{
		GameID:         gameID,
		PlayerID:       li.PlayerID,
		TeamID:         teamID,
		Goals:          intOrZero(li.Goals),
		Assists:        intOrZero(li.Assists),
		Points:         intOrZero(li.Points),
		PlusMinus:      intOrZero(li.PlusMinus),
		PenaltyMinutes: intOrZero(li.PIM),
		Shots:          intOrZero(li.SOG),
		Hits:           intOrZero(li.Hits),
		BlockedShots:   intOrZero(li.BlockedShots),
		PowerPlayGoals: intOrZero(li.PowerPlayGoals),
		TimeOnIce:      ParseTOI(li.TOI),
	}

	if li.FaceoffPctg != nil {
		stat.FaceoffPct = sql.NullFloat64{Float64: *li.FaceoffPctg, Valid: true}
	}

	return stat
}

// ToGoalieGameStat converts a goalie line into a persisted per-game row
func (li *GoalieLineInput) ToGoalieGameStat(gameID, teamID int) *GoalieGameStat {
	stat := &GoalieGameStat{
		GameID:       gameID,
		PlayerID:     li.PlayerID,
		TeamID:       teamID,
		ShotsAgainst: intOrZero(li.ShotsAgainst),
		Saves:        intOrZero(li.Saves),
		GoalsAgainst: intOrZero(li.GoalsAgainst),
		TimeOnIce:    ParseTOI(li.TOI),
	}

	if li.SavePctg != nil {
		stat.SavePct = sql.NullFloat64{Float64: *li.SavePctg, Valid: true}
	}
	if li.Decision != "" {
		stat.Decision = sql.NullString{String: li.Decision, Valid: true}
	}

	return stat
}

// ToTeamGameStat converts one boxscore side into a persisted per-game row
func (ti *BoxscoreTeamInput) ToTeamGameStat(gameID int, isHome bool) *TeamGameStat {
	stat := &TeamGameStat{
		GameID:         gameID,
		TeamID:         ti.TeamID,
		IsHome:         isHome,
		Goals:          intOrZero(ti.Score),
		Shots:          intOrZero(ti.SOG),
		Hits:           intOrZero(ti.Hits),
		PenaltyMinutes: intOrZero(ti.PIM),
		BlockedShots:   intOrZero(ti.BlockedShots),
		PowerPlayGoals: intOrZero(ti.PowerPlayGoals),
	}

	if ti.FaceoffPctg != nil {
		stat.FaceoffPct = sql.NullFloat64{Float64: *ti.FaceoffPctg, Valid: true}
	}

	return stat
}

// ParseTOI converts an "MM:SS" time-on-ice string to whole seconds.
// Anything unparseable counts as zero so downstream aggregation stays
// well-defined.
func ParseTOI(toi string) int {
	var minutes, seconds int
	if n, _ := fmt.Sscanf(toi, "%d:%d", &minutes, &seconds); n != 2 {
		return 0
	}
	if minutes < 0 || seconds < 0 || seconds > 59 {
		return 0
	}
	return minutes*60 + seconds
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
