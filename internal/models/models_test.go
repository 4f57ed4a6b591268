package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTOI(t *testing.T) {
	tests := []struct {
		name string
		toi  string
		want int
	}{
		{"typical shift total", "18:42", 1122},
		{"goalie full game", "60:00", 3600},
		{"zero", "0:00", 0},
		{"empty string", "", 0},
		{"garbage", "abc", 0},
		{"seconds overflow", "12:75", 0},
		{"negative minutes", "-5:30", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTOI(tt.toi))
		})
	}
}

func TestNormalizePosition(t *testing.T) {
	assert.Equal(t, "C", NormalizePosition("C"))
	assert.Equal(t, "G", NormalizePosition("G"))
	assert.Equal(t, "F", NormalizePosition(""), "Missing codes default to forward")
	assert.Equal(t, "F", NormalizePosition("W"), "Unknown codes default to forward")
}

func TestNormalizeGameState(t *testing.T) {
	assert.Equal(t, GameStateLive, NormalizeGameState("LIVE"))
	assert.Equal(t, GameStateLive, NormalizeGameState("CRIT"))
	assert.Equal(t, GameStateFinal, NormalizeGameState("FINAL"))
	assert.Equal(t, GameStateFinal, NormalizeGameState("OFF"))
	assert.Equal(t, GameStateScheduled, NormalizeGameState("FUT"))
	assert.Equal(t, GameStateScheduled, NormalizeGameState(""))
}

func TestPlayerInput_ToPlayer(t *testing.T) {
	num := 8
	height := 75
	pi := PlayerInput{
		ID:             8471214,
		FirstName:      LocalizedName{Default: "Alex"},
		LastName:       LocalizedName{Default: "Ovechkin"},
		SweaterNumber:  &num,
		PositionCode:   "LW",
		ShootsCatches:  "R",
		HeightInInches: &height,
		BirthDate:      "1985-09-17",
		BirthCountry:   "RUS",
	}

	player := pi.ToPlayer(15)
	assert.Equal(t, 8471214, player.ID)
	assert.Equal(t, 15, player.TeamID)
	assert.Equal(t, "LW", player.Position)
	require.True(t, player.JerseyNumber.Valid)
	assert.Equal(t, int32(8), player.JerseyNumber.Int32)
	require.True(t, player.BirthDate.Valid)
	assert.Equal(t, 1985, player.BirthDate.Time.Year())
	assert.False(t, player.WeightPounds.Valid, "Missing weight stays null")
	assert.False(t, player.BirthCity.Valid, "Missing birth city stays null")
}

func TestPlayerInput_ToPlayer_SparseInput(t *testing.T) {
	pi := PlayerInput{
		ID:        99,
		FirstName: LocalizedName{Default: "Call"},
		LastName:  LocalizedName{Default: "Up"},
	}

	player := pi.ToPlayer(15)
	assert.Equal(t, "F", player.Position, "Missing position defaults to forward")
	assert.False(t, player.JerseyNumber.Valid)
	assert.False(t, player.BirthDate.Valid, "Unparseable birth date stays null")
}

func TestGameInput_ToGame(t *testing.T) {
	home, away := 4, 2
	gi := GameInput{
		ID:           2024020500,
		Season:       20242025,
		GameType:     GameTypeRegular,
		StartTimeUTC: "2024-12-29T00:00:00Z",
		GameState:    "OFF",
		Venue:        LocalizedName{Default: "Capital One Arena"},
		HomeTeam:     GameTeamInput{ID: 15, Abbrev: "WSH", Score: &home},
		AwayTeam:     GameTeamInput{ID: 3, Abbrev: "NYR", Score: &away},
	}
	gi.PeriodDescriptor.Number = 3

	game := gi.ToGame()
	assert.Equal(t, "20242025", game.Season)
	assert.True(t, game.IsFinal())
	require.True(t, game.HomeScore.Valid)
	assert.Equal(t, int32(4), game.HomeScore.Int32)
	assert.Equal(t, int32(2), game.AwayScore.Int32)
	assert.Equal(t, int32(3), game.Period.Int32)
	assert.Equal(t, 2024, game.GameDate.Year())
}

func TestSkaterLineInput_ToPlayerGameStat(t *testing.T) {
	goals, sog := 2, 6
	pct := 55.5
	li := SkaterLineInput{
		PlayerID:    8478440,
		Goals:       &goals,
		SOG:         &sog,
		FaceoffPctg: &pct,
		TOI:         "19:05",
	}

	stat := li.ToPlayerGameStat(2024020500, 15)
	assert.Equal(t, 2024020500, stat.GameID)
	assert.Equal(t, 2, stat.Goals)
	assert.Equal(t, 0, stat.Assists, "Missing counts default to zero")
	assert.Equal(t, 1145, stat.TimeOnIce)
	require.True(t, stat.FaceoffPct.Valid)
	assert.InDelta(t, 55.5, stat.FaceoffPct.Float64, 0.001)
}

func TestBoxscoreInput_Skaters(t *testing.T) {
	box := BoxscoreInput{
		GameID: 1,
		HomeTeam: BoxscoreTeamInput{
			TeamID:   15,
			Forwards: []SkaterLineInput{{PlayerID: 1}, {PlayerID: 2}},
			Defense:  []SkaterLineInput{{PlayerID: 3}},
			Goalies:  []GoalieLineInput{{PlayerID: 4}},
		},
		AwayTeam: BoxscoreTeamInput{
			TeamID:   3,
			Forwards: []SkaterLineInput{{PlayerID: 5}},
		},
	}

	skaters := box.Skaters()
	require.Len(t, skaters, 4, "Skaters should merge forwards and defense from both sides")
	assert.Equal(t, 15, skaters[0].TeamID)
	assert.Equal(t, 3, skaters[3].TeamID)

	goalies := box.Goalies()
	require.Len(t, goalies, 1)
	assert.Equal(t, 4, goalies[0].Line.PlayerID)
}
