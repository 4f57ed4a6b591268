package aggregate

import (
	"database/sql"
	"testing"

	"nhlstats/backfill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerSeasonTotals(t *testing.T) {
	stats := []*models.PlayerGameStat{
		{GameID: 1, PlayerID: 100, TeamID: 15, Goals: 2, Assists: 1, Points: 3, Shots: 6, TimeOnIce: 1200},
		{GameID: 2, PlayerID: 100, TeamID: 15, Goals: 0, Assists: 2, Points: 2, Shots: 4, TimeOnIce: 1100},
		{GameID: 1, PlayerID: 200, TeamID: 15, Goals: 1, Assists: 0, Points: 1, Shots: 2, TimeOnIce: 900},
	}

	totals := PlayerSeasonTotals("20242025", stats)
	require.Len(t, totals, 2, "Should produce one row per player")

	first := totals[0]
	assert.Equal(t, 100, first.PlayerID)
	assert.Equal(t, "20242025", first.Season)
	assert.Equal(t, 2, first.GamesPlayed, "Games played should count game rows")
	assert.Equal(t, 2, first.Goals)
	assert.Equal(t, 3, first.Assists)
	assert.Equal(t, 5, first.Points)
	assert.Equal(t, 10, first.Shots)
	assert.Equal(t, 2300, first.TimeOnIce)
	assert.InDelta(t, 20.0, first.ShootingPct, 0.001, "Shooting pct should be goals/shots*100")
}

func TestPlayerSeasonTotals_TradedPlayer(t *testing.T) {
	// A player with games for two teams gets one row per team
	stats := []*models.PlayerGameStat{
		{GameID: 1, PlayerID: 100, TeamID: 15, Goals: 1, Shots: 3},
		{GameID: 2, PlayerID: 100, TeamID: 3, Goals: 2, Shots: 5},
	}

	totals := PlayerSeasonTotals("20242025", stats)
	require.Len(t, totals, 2)
	assert.Equal(t, 3, totals[0].TeamID, "Rows should be ordered by player then team")
	assert.Equal(t, 15, totals[1].TeamID)
	assert.Equal(t, 1, totals[0].GamesPlayed)
	assert.Equal(t, 1, totals[1].GamesPlayed)
}

func TestPlayerSeasonTotals_ZeroShots(t *testing.T) {
	stats := []*models.PlayerGameStat{
		{GameID: 1, PlayerID: 100, TeamID: 15, Goals: 0, Assists: 1, Points: 1, Shots: 0},
	}

	totals := PlayerSeasonTotals("20242025", stats)
	require.Len(t, totals, 1)
	assert.Zero(t, totals[0].ShootingPct, "Shooting pct should be zero when a player took no shots")
}

func TestPlayerSeasonTotals_Empty(t *testing.T) {
	totals := PlayerSeasonTotals("20242025", nil)
	assert.Empty(t, totals, "No game rows should produce no season rows")
}

func gameRow(id, home, away, homeScore, awayScore int, period int32) *models.Game {
	return &models.Game{
		ID:         id,
		Season:     "20242025",
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  sql.NullInt32{Int32: int32(homeScore), Valid: true},
		AwayScore:  sql.NullInt32{Int32: int32(awayScore), Valid: true},
		Period:     sql.NullInt32{Int32: period, Valid: true},
		GameState:  models.GameStateFinal,
	}
}

func TestTeamSeasonRecords(t *testing.T) {
	games := []*models.Game{
		gameRow(1, 15, 3, 4, 2, 3),  // regulation home win
		gameRow(2, 3, 15, 3, 2, 4),  // overtime: 15 takes the OTL point
		gameRow(3, 15, 3, 1, 2, 3),  // regulation home loss
	}

	records := TeamSeasonRecords("20242025", games)
	require.Len(t, records, 2)

	rangers := records[0]
	caps := records[1]
	require.Equal(t, 3, rangers.TeamID)
	require.Equal(t, 15, caps.TeamID)

	assert.Equal(t, 3, caps.GamesPlayed)
	assert.Equal(t, 1, caps.Wins)
	assert.Equal(t, 1, caps.Losses)
	assert.Equal(t, 1, caps.OvertimeLosses, "A loss past the third period is an overtime loss")
	assert.Equal(t, 3, caps.Points, "Points should be 2 per win plus 1 per overtime loss")
	assert.Equal(t, 7, caps.GoalsFor)
	assert.Equal(t, 7, caps.GoalsAgainst)
	assert.Equal(t, 0, caps.GoalDifferential)

	assert.Equal(t, 2, rangers.Wins)
	assert.Equal(t, 1, rangers.Losses)
	assert.Equal(t, 0, rangers.OvertimeLosses)
	assert.Equal(t, 4, rangers.Points)
}

func TestTeamSeasonRecords_SkipsUnfinishedGames(t *testing.T) {
	scheduled := &models.Game{
		ID:         4,
		HomeTeamID: 15,
		AwayTeamID: 3,
		GameState:  models.GameStateScheduled,
	}
	noScore := &models.Game{
		ID:         5,
		HomeTeamID: 15,
		AwayTeamID: 3,
		GameState:  models.GameStateFinal,
	}

	records := TeamSeasonRecords("20242025", []*models.Game{scheduled, noScore})
	assert.Empty(t, records, "Scheduled and scoreless games should emit no rows")
}

func TestTeamPossessionAverages(t *testing.T) {
	records := []*models.TeamSeasonStat{
		{TeamID: 15, Season: "20242025"},
		{TeamID: 3, Season: "20242025"},
	}
	teamStats := []*models.TeamGameStat{
		{GameID: 1, TeamID: 15, CorsiFor: sql.NullFloat64{Float64: 52.0, Valid: true}, FenwickFor: sql.NullFloat64{Float64: 51.0, Valid: true}},
		{GameID: 2, TeamID: 15, CorsiFor: sql.NullFloat64{Float64: 48.0, Valid: true}, FenwickFor: sql.NullFloat64{Float64: 49.0, Valid: true}},
		{GameID: 1, TeamID: 3}, // no possession numbers recorded
	}

	TeamPossessionAverages(records, teamStats)

	require.True(t, records[0].CorsiPct.Valid)
	assert.InDelta(t, 50.0, records[0].CorsiPct.Float64, 0.001)
	assert.InDelta(t, 50.0, records[0].FenwickPct.Float64, 0.001)
	assert.False(t, records[1].CorsiPct.Valid, "Teams with no possession rows should stay null")
}
