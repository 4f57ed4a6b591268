package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNHLClient(serverURL string) *NHLClient {
	c := NewNHLClient(serverURL, 5*time.Second, 6000)
	c.retryDelay = time.Millisecond
	return c
}

func TestFetchTeams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/standings/now", r.URL.Path)
		w.Write([]byte(`{"standings":[
			{"teamName":{"default":"Capitals"},"teamAbbrev":{"default":"WSH"},"placeName":{"default":"Washington"},"divisionName":"Metropolitan","conferenceName":"Eastern"},
			{"teamName":{"default":"Rangers"},"teamAbbrev":{"default":"NYR"},"placeName":{"default":"New York"}}
		]}`))
	}))
	defer server.Close()

	teams, err := newTestNHLClient(server.URL).FetchTeams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "WSH", teams[0].TeamAbbrev.Default)
	assert.Equal(t, "Metropolitan", teams[0].DivisionName)
	assert.Empty(t, teams[1].DivisionName)
}

func TestFetchRoster_MergesPositionGroups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/roster/WSH/20242025", r.URL.Path)
		w.Write([]byte(`{
			"forwards":[{"id":1,"positionCode":"C"},{"id":2,"positionCode":"LW"}],
			"defensemen":[{"id":3,"positionCode":"D"}],
			"goalies":[{"id":4,"positionCode":"G"}]
		}`))
	}))
	defer server.Close()

	players, err := newTestNHLClient(server.URL).FetchRoster(context.Background(), "WSH", "20242025")
	require.NoError(t, err)
	require.Len(t, players, 4)
	assert.Equal(t, 1, players[0].ID)
	assert.Equal(t, "G", players[3].PositionCode)
}

func TestFetchBoxscore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gamecenter/2024020500/boxscore", r.URL.Path)
		w.Write([]byte(`{
			"id":2024020500,
			"homeTeam":{"id":15,"score":4,"sog":30},
			"awayTeam":{"id":3,"score":2,"sog":25},
			"playerByGameStats":{
				"homeTeam":{
					"forwards":[{"playerId":8471214,"goals":2,"sog":6,"toi":"18:30"}],
					"defense":[{"playerId":8474590,"toi":"24:01"}],
					"goalies":[{"playerId":8479292,"saves":23,"shotsAgainst":25,"toi":"60:00","decision":"W"}]
				},
				"awayTeam":{"forwards":[],"defense":[],"goalies":[]}
			},
			"summary":{"teamGameStats":[
				{"category":"hits","homeValue":22,"awayValue":18},
				{"category":"pim","homeValue":6,"awayValue":8},
				{"category":"faceoffWinningPctg","homeValue":55.2,"awayValue":44.8},
				{"category":"takeaways","homeValue":7,"awayValue":5}
			]}
		}`))
	}))
	defer server.Close()

	box, err := newTestNHLClient(server.URL).FetchBoxscore(context.Background(), 2024020500)
	require.NoError(t, err)

	assert.Equal(t, 15, box.HomeTeam.TeamID)
	require.NotNil(t, box.HomeTeam.Score)
	assert.Equal(t, 4, *box.HomeTeam.Score)
	require.NotNil(t, box.HomeTeam.Hits)
	assert.Equal(t, 22, *box.HomeTeam.Hits)
	require.NotNil(t, box.AwayTeam.PIM)
	assert.Equal(t, 8, *box.AwayTeam.PIM)
	require.NotNil(t, box.HomeTeam.FaceoffPctg)
	assert.InDelta(t, 55.2, *box.HomeTeam.FaceoffPctg, 0.001)

	skaters := box.Skaters()
	assert.Len(t, skaters, 2)
	goalies := box.Goalies()
	require.Len(t, goalies, 1)
	assert.Equal(t, "W", goalies[0].Line.Decision)
}

func TestFetchPlayByPlay_FiltersShotEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id":2024020500,
			"plays":[
				{"typeDescKey":"faceoff","timeRemaining":"20:00","periodDescriptor":{"number":1},"details":{}},
				{"typeDescKey":"shot-on-goal","timeRemaining":"15:30","periodDescriptor":{"number":1},
				 "details":{"xCoord":79,"yCoord":5,"shootingPlayerId":8471214,"goalieInNetId":9,"eventOwnerTeamId":15,"shotType":"wrist"}},
				{"typeDescKey":"goal","timeRemaining":"08:12","periodDescriptor":{"number":2},
				 "details":{"xCoord":-80,"yCoord":-3,"scoringPlayerId":8478440,"eventOwnerTeamId":15,"shotType":"snap"}},
				{"typeDescKey":"shot-on-goal","timeRemaining":"05:00","periodDescriptor":{"number":2},
				 "details":{"shootingPlayerId":8476880,"eventOwnerTeamId":15}}
			]
		}`))
	}))
	defer server.Close()

	shots, err := newTestNHLClient(server.URL).FetchPlayByPlay(context.Background(), 2024020500)
	require.NoError(t, err)
	require.Len(t, shots, 2, "Non-shot plays and coordinate-less shots are dropped")

	assert.Equal(t, 8471214, shots[0].ShooterID)
	assert.False(t, shots[0].IsGoal)
	require.NotNil(t, shots[0].GoalieID)
	assert.Equal(t, 9, *shots[0].GoalieID)

	assert.Equal(t, 8478440, shots[1].ShooterID, "Goals use the scoring player as shooter")
	assert.True(t, shots[1].IsGoal)
	assert.Nil(t, shots[1].GoalieID)
}

func TestGet_RetriesOnRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"standings":[]}`))
	}))
	defer server.Close()

	teams, err := newTestNHLClient(server.URL).FetchTeams(context.Background())
	require.NoError(t, err)
	assert.Empty(t, teams)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestNHLClient(server.URL).FetchTeams(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "A 404 is permanent and must not be retried")
}
