package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeams(t *testing.T) {
	teams := Teams()
	assert.Len(t, teams, 32, "Snapshot should cover all 32 teams")

	seen := make(map[int]bool)
	abbrevs := make(map[string]bool)
	for _, team := range teams {
		assert.False(t, seen[team.ID], "Team ids must be unique")
		assert.False(t, abbrevs[team.Abbreviation], "Abbreviations must be unique")
		seen[team.ID] = true
		abbrevs[team.Abbreviation] = true
		assert.NotEmpty(t, team.Name)
		assert.True(t, team.Division.Valid)
		assert.True(t, team.Conference.Valid)
	}

	assert.True(t, seen[FocusTeamID], "Snapshot must include the focus team")
}

func TestTeamIDByAbbrev(t *testing.T) {
	id, ok := TeamIDByAbbrev("WSH")
	require.True(t, ok)
	assert.Equal(t, 15, id)

	_, ok = TeamIDByAbbrev("XXX")
	assert.False(t, ok, "Unknown abbreviations must not resolve")
}

func TestRoster(t *testing.T) {
	roster := Roster()
	assert.Len(t, roster, 10)

	goalies := 0
	for _, player := range roster {
		assert.Equal(t, FocusTeamID, player.TeamID, "Every snapshot player belongs to the focus team")
		assert.NotZero(t, player.ID)
		assert.NotEmpty(t, player.Position)
		if player.Position == "G" {
			goalies++
		}
	}
	assert.Equal(t, 2, goalies, "Snapshot roster carries two goalies")
}

func TestGames(t *testing.T) {
	games := Games()
	require.Len(t, games, 5)

	var sample *struct {
		home, away, homeScore, awayScore int
	}
	for _, game := range games {
		assert.Equal(t, "20242025", game.Season)
		assert.True(t, game.IsFinal(), "Snapshot games are all final")
		assert.True(t, game.HomeScore.Valid)
		assert.True(t, game.AwayScore.Valid)
		if game.ID == 2024020500 {
			sample = &struct{ home, away, homeScore, awayScore int }{
				game.HomeTeamID, game.AwayTeamID,
				int(game.HomeScore.Int32), int(game.AwayScore.Int32),
			}
		}
	}

	require.NotNil(t, sample, "Snapshot must include game 2024020500")
	assert.Equal(t, 15, sample.home)
	assert.Equal(t, 3, sample.away)
	assert.Equal(t, 4, sample.homeScore)
	assert.Equal(t, 2, sample.awayScore)
}

func TestTeamGameStats(t *testing.T) {
	stats := TeamGameStats()
	require.Len(t, stats, 10, "Two rows per snapshot game")

	var homeRow, awayRow bool
	for _, stat := range stats {
		if stat.GameID != 2024020500 {
			continue
		}
		if stat.IsHome {
			homeRow = true
			assert.Equal(t, 15, stat.TeamID)
			assert.Equal(t, 4, stat.Goals)
		} else {
			awayRow = true
			assert.Equal(t, 3, stat.TeamID)
			assert.Equal(t, 2, stat.Goals)
		}
	}

	assert.True(t, homeRow, "Game 2024020500 needs a home row")
	assert.True(t, awayRow, "Game 2024020500 needs an away row")
}
