package models

import (
	"database/sql"
	"strconv"
	"time"
)

// Game states persisted to the games table. The NHL API uses a wider set of
// codes (FUT, PRE, LIVE, CRIT, FINAL, OFF) that collapse onto these three.
const (
	GameStateScheduled = "Scheduled"
	GameStateLive      = "Live"
	GameStateFinal     = "Final"
)

// Game type codes as encoded in the league game id
const (
	GameTypePreseason = 1
	GameTypeRegular   = 2
	GameTypePlayoff   = 3
)

// Game represents a single NHL game
// ID is the league-assigned game id (encodes season, type and sequence) and
// is globally unique; re-fetching the same game updates the row in place.
type Game struct {
	ID         int            `db:"id"`
	Season     string         `db:"season"`
	GameType   int            `db:"game_type"`
	GameDate   time.Time      `db:"game_date"`
	HomeTeamID int            `db:"home_team_id"`
	AwayTeamID int            `db:"away_team_id"`
	HomeScore  sql.NullInt32  `db:"home_score"`
	AwayScore  sql.NullInt32  `db:"away_score"`
	Period     sql.NullInt32  `db:"period"`
	GameState  string         `db:"game_state"`
	Venue      sql.NullString `db:"venue"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// GameTeamInput is the home/away team block inside a schedule entry
type GameTeamInput struct {
	ID     int    `json:"id"`
	Abbrev string `json:"abbrev"`
	Score  *int   `json:"score,omitempty"`
}

// GameInput is the club-schedule-season shape for a game
type GameInput struct {
	ID               int           `json:"id"`
	Season           int           `json:"season"`
	GameType         int           `json:"gameType"`
	StartTimeUTC     string        `json:"startTimeUTC"` // RFC 3339
	GameState        string        `json:"gameState"`
	Venue            LocalizedName `json:"venue"`
	HomeTeam         GameTeamInput `json:"homeTeam"`
	AwayTeam         GameTeamInput `json:"awayTeam"`
	PeriodDescriptor struct {
		Number int `json:"number"`
	} `json:"periodDescriptor"`
}

// NormalizeGameState maps an upstream state code to a persisted game state
func NormalizeGameState(code string) string {
	switch code {
	case "LIVE", "CRIT":
		return GameStateLive
	case "FINAL", "OFF":
		return GameStateFinal
	default:
		return GameStateScheduled
	}
}

// ToGame converts GameInput (from API) to Game model
func (gi *GameInput) ToGame() *Game {
	game := &Game{
		ID:         gi.ID,
		Season:     strconv.Itoa(gi.Season),
		GameType:   gi.GameType,
		HomeTeamID: gi.HomeTeam.ID,
		AwayTeamID: gi.AwayTeam.ID,
		GameState:  NormalizeGameState(gi.GameState),
	}

	if gameTime, err := time.Parse(time.RFC3339, gi.StartTimeUTC); err == nil {
		game.GameDate = gameTime
	}

	if gi.HomeTeam.Score != nil {
		game.HomeScore = sql.NullInt32{Int32: int32(*gi.HomeTeam.Score), Valid: true}
	}
	if gi.AwayTeam.Score != nil {
		game.AwayScore = sql.NullInt32{Int32: int32(*gi.AwayTeam.Score), Valid: true}
	}
	if gi.PeriodDescriptor.Number > 0 {
		game.Period = sql.NullInt32{Int32: int32(gi.PeriodDescriptor.Number), Valid: true}
	}
	if gi.Venue.Default != "" {
		game.Venue = sql.NullString{String: gi.Venue.Default, Valid: true}
	}

	return game
}

// IsLive returns true if the game is currently in progress
func (g *Game) IsLive() bool {
	return g.GameState == GameStateLive
}

// IsScheduled returns true if the game is scheduled but not started
func (g *Game) IsScheduled() bool {
	return g.GameState == GameStateScheduled
}

// IsFinal returns true if the game is completed
func (g *Game) IsFinal() bool {
	return g.GameState == GameStateFinal
}
