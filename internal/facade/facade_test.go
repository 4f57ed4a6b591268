package facade

import (
	"context"
	"errors"
	"testing"
	"time"

	"nhlstats/backfill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	team        *models.Team
	roster      []*models.Player
	seasonStats []*models.PlayerSeasonStat
	teamSeason  *models.TeamSeasonStat
	schedule    []*models.Game
	game        *models.Game

	rosterErr error
}

func (s *fakeStore) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	return s.team, nil
}

func (s *fakeStore) ListPlayersByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	if s.rosterErr != nil {
		return nil, s.rosterErr
	}
	return s.roster, nil
}

func (s *fakeStore) ListPlayerSeasonByTeam(ctx context.Context, teamID int, season string) ([]*models.PlayerSeasonStat, error) {
	return s.seasonStats, nil
}

func (s *fakeStore) GetTeamSeason(ctx context.Context, teamID int, season string) (*models.TeamSeasonStat, error) {
	if s.teamSeason == nil {
		return nil, errors.New("not found")
	}
	return s.teamSeason, nil
}

func (s *fakeStore) ListGamesByTeamAndSeason(ctx context.Context, teamID int, season string) ([]*models.Game, error) {
	return s.schedule, nil
}

func (s *fakeStore) GetGame(ctx context.Context, id int) (*models.Game, error) {
	if s.game == nil {
		return nil, errors.New("not found")
	}
	return s.game, nil
}

func (s *fakeStore) ListPlayerStatsByGame(ctx context.Context, gameID int) ([]*models.PlayerGameStat, error) {
	return []*models.PlayerGameStat{{GameID: gameID, PlayerID: 1}}, nil
}

func (s *fakeStore) ListTeamStatsByGame(ctx context.Context, gameID int) ([]*models.TeamGameStat, error) {
	return []*models.TeamGameStat{{GameID: gameID, TeamID: 15, IsHome: true}}, nil
}

func (s *fakeStore) ListShotsByGame(ctx context.Context, gameID int) ([]*models.Shot, error) {
	return nil, nil
}

func newTestService(store Store) *Service {
	// nil cache: every read goes to the store
	return NewService(store, nil, 15, 5*time.Minute, 2*time.Minute)
}

func TestTeamPackage(t *testing.T) {
	store := &fakeStore{
		team:     &models.Team{ID: 15, Name: "Capitals", Abbreviation: "WSH"},
		roster:   []*models.Player{{ID: 8471214, TeamID: 15}},
		schedule: []*models.Game{{ID: 1, Season: "20242025"}},
		teamSeason: &models.TeamSeasonStat{
			TeamID: 15, Season: "20242025", Wins: 40,
		},
	}

	pkg, err := newTestService(store).TeamPackage(context.Background(), "20242025")
	require.NoError(t, err)

	assert.Equal(t, "WSH", pkg.Team.Abbreviation)
	assert.Len(t, pkg.Roster, 1)
	assert.Len(t, pkg.Schedule, 1)
	require.NotNil(t, pkg.TeamStats)
	assert.Equal(t, 40, pkg.TeamStats.Wins)
}

func TestTeamPackage_MissingSeasonRowIsNotFatal(t *testing.T) {
	store := &fakeStore{
		team: &models.Team{ID: 15, Name: "Capitals", Abbreviation: "WSH"},
	}

	pkg, err := newTestService(store).TeamPackage(context.Background(), "20242025")
	require.NoError(t, err, "A missing aggregate row degrades the package, not the request")
	assert.Nil(t, pkg.TeamStats)
	assert.NotNil(t, pkg.Team)
}

func TestTeamPackage_StoreErrorFails(t *testing.T) {
	store := &fakeStore{
		team:      &models.Team{ID: 15},
		rosterErr: errors.New("connection refused"),
	}

	_, err := newTestService(store).TeamPackage(context.Background(), "20242025")
	assert.Error(t, err)
}

func TestGameDetail(t *testing.T) {
	store := &fakeStore{
		game: &models.Game{ID: 2024020500, GameState: models.GameStateFinal},
	}

	detail, err := newTestService(store).GameDetail(context.Background(), 2024020500)
	require.NoError(t, err)

	assert.Equal(t, 2024020500, detail.Game.ID)
	assert.Len(t, detail.PlayerStats, 1)
	assert.Len(t, detail.TeamStats, 1)
	assert.Empty(t, detail.Shots)
}

func TestGameDetail_UnknownGame(t *testing.T) {
	_, err := newTestService(&fakeStore{}).GameDetail(context.Background(), 999)
	assert.Error(t, err)
}
