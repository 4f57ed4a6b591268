package repository

import (
	"database/sql"
	"testing"

	"nhlstats/backfill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := &models.Team{
		ID:           15,
		Name:         "Capitals",
		Abbreviation: "WSH",
		City:         "Washington",
		Division:     sql.NullString{String: "Metropolitan", Valid: true},
		Conference:   sql.NullString{String: "Eastern", Valid: true},
	}

	// Insert new team
	err := db.Teams.Upsert(ctx, team)
	require.NoError(t, err, "Should successfully insert team")

	retrieved, err := db.Teams.GetByID(ctx, 15)
	require.NoError(t, err, "Should retrieve inserted team")
	assert.Equal(t, "WSH", retrieved.Abbreviation)
	assert.Equal(t, "Capitals", retrieved.Name)

	// Update existing team
	team.Division = sql.NullString{String: "Atlantic", Valid: true}
	err = db.Teams.Upsert(ctx, team)
	require.NoError(t, err, "Should successfully update team")

	updated, err := db.Teams.GetByID(ctx, 15)
	require.NoError(t, err)
	assert.Equal(t, "Atlantic", updated.Division.String, "Division should be updated in place")

	count, err := db.Teams.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "Upserting the same id twice must not create a second row")
}

func TestTeamRepository_GetByAbbrev(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := &models.Team{ID: 3, Name: "Rangers", Abbreviation: "NYR", City: "New York"}
	require.NoError(t, db.Teams.Upsert(ctx, team))

	retrieved, err := db.Teams.GetByAbbrev(ctx, "NYR")
	require.NoError(t, err)
	assert.Equal(t, 3, retrieved.ID)

	_, err = db.Teams.GetByAbbrev(ctx, "XXX")
	assert.Error(t, err, "Unknown abbreviation should not resolve")
}

func TestTeamRepository_List(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	teams := []*models.Team{
		{ID: 15, Name: "Capitals", Abbreviation: "WSH", City: "Washington"},
		{ID: 3, Name: "Rangers", Abbreviation: "NYR", City: "New York"},
		{ID: 6, Name: "Bruins", Abbreviation: "BOS", City: "Boston"},
	}
	for _, team := range teams {
		require.NoError(t, db.Teams.Upsert(ctx, team))
	}

	listed, err := db.Teams.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Bruins", listed[0].Name, "Teams should come back in name order")
}
