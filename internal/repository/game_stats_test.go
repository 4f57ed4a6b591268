package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"nhlstats/backfill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedGame inserts the teams and game the stat tables reference
func seedGame(t *testing.T, db *Database, ctx context.Context) *models.Game {
	t.Helper()

	for _, team := range []*models.Team{
		{ID: 15, Name: "Capitals", Abbreviation: "WSH", City: "Washington"},
		{ID: 3, Name: "Rangers", Abbreviation: "NYR", City: "New York"},
	} {
		require.NoError(t, db.Teams.Upsert(ctx, team))
	}

	game := &models.Game{
		ID:         2024020500,
		Season:     "20242025",
		GameType:   models.GameTypeRegular,
		GameDate:   time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC),
		HomeTeamID: 15,
		AwayTeamID: 3,
		HomeScore:  sql.NullInt32{Int32: 4, Valid: true},
		AwayScore:  sql.NullInt32{Int32: 2, Valid: true},
		Period:     sql.NullInt32{Int32: 3, Valid: true},
		GameState:  models.GameStateFinal,
	}
	require.NoError(t, db.Games.Upsert(ctx, game))

	return game
}

func TestGameStatsRepository_UpsertPlayerStat(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	game := seedGame(t, db, ctx)

	stat := &models.PlayerGameStat{
		GameID:   game.ID,
		PlayerID: 8471214,
		TeamID:   15,
		Goals:    2,
		Assists:  1,
		Points:   3,
		Shots:    6,
	}

	require.NoError(t, db.GameStats.UpsertPlayerStat(ctx, stat))
	assert.NotZero(t, stat.ID, "Upsert should return the generated id")

	// Re-processing the same game updates the row in place
	stat.Goals = 3
	require.NoError(t, db.GameStats.UpsertPlayerStat(ctx, stat))

	rows, err := db.GameStats.ListPlayerStatsByGame(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1, "Same (game, player) key must not duplicate")
	assert.Equal(t, 3, rows[0].Goals)
}

func TestGameStatsRepository_UpsertTeamStat(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	game := seedGame(t, db, ctx)

	home := &models.TeamGameStat{GameID: game.ID, TeamID: 15, IsHome: true, Goals: 4, Shots: 30}
	away := &models.TeamGameStat{GameID: game.ID, TeamID: 3, IsHome: false, Goals: 2, Shots: 25}
	require.NoError(t, db.GameStats.UpsertTeamStat(ctx, home))
	require.NoError(t, db.GameStats.UpsertTeamStat(ctx, away))

	rows, err := db.GameStats.ListTeamStatsByGame(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].IsHome, "Home row should come first")
	assert.Equal(t, 4, rows[0].Goals)
	assert.Equal(t, 2, rows[1].Goals)
}

func TestGameStatsRepository_ListBySeason(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	game := seedGame(t, db, ctx)

	stat := &models.PlayerGameStat{GameID: game.ID, PlayerID: 8471214, TeamID: 15, Goals: 1}
	require.NoError(t, db.GameStats.UpsertPlayerStat(ctx, stat))

	rows, err := db.GameStats.ListPlayerStatsBySeason(ctx, "20242025")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = db.GameStats.ListPlayerStatsBySeason(ctx, "20232024")
	require.NoError(t, err)
	assert.Empty(t, rows, "Other seasons see none of the rows")
}

func TestShotRepository_InsertDeduplicates(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	game := seedGame(t, db, ctx)

	shot := &models.Shot{
		GameID:        game.ID,
		ShooterID:     8471214,
		TeamID:        15,
		Period:        2,
		TimeRemaining: "12:34",
		X:             79,
		Y:             0,
		IsGoal:        true,
		Distance:      10,
		Angle:         0,
		Danger:        models.DangerHigh,
	}

	written, err := db.Shots.Insert(ctx, shot)
	require.NoError(t, err)
	assert.True(t, written)

	// The exact same event again, as a re-ingested feed would deliver it
	written, err = db.Shots.Insert(ctx, shot)
	require.NoError(t, err)
	assert.False(t, written, "Duplicate events are dropped, not duplicated")

	count, err := db.Shots.CountByGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
