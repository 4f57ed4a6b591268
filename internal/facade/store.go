package facade

import (
	"context"

	"nhlstats/backfill/internal/models"
	"nhlstats/backfill/internal/repository"
)

// DatabaseStore adapts the repository layer onto the façade's Store
type DatabaseStore struct {
	DB *repository.Database
}

func (s *DatabaseStore) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	return s.DB.Teams.GetByID(ctx, id)
}

func (s *DatabaseStore) ListPlayersByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	return s.DB.Players.ListByTeam(ctx, teamID)
}

func (s *DatabaseStore) ListPlayerSeasonByTeam(ctx context.Context, teamID int, season string) ([]*models.PlayerSeasonStat, error) {
	return s.DB.SeasonStats.ListPlayerSeasonByTeam(ctx, teamID, season)
}

func (s *DatabaseStore) GetTeamSeason(ctx context.Context, teamID int, season string) (*models.TeamSeasonStat, error) {
	return s.DB.SeasonStats.GetTeamSeason(ctx, teamID, season)
}

func (s *DatabaseStore) ListGamesByTeamAndSeason(ctx context.Context, teamID int, season string) ([]*models.Game, error) {
	return s.DB.Games.ListByTeamAndSeason(ctx, teamID, season)
}

func (s *DatabaseStore) GetGame(ctx context.Context, id int) (*models.Game, error) {
	return s.DB.Games.GetByID(ctx, id)
}

func (s *DatabaseStore) ListPlayerStatsByGame(ctx context.Context, gameID int) ([]*models.PlayerGameStat, error) {
	return s.DB.GameStats.ListPlayerStatsByGame(ctx, gameID)
}

func (s *DatabaseStore) ListTeamStatsByGame(ctx context.Context, gameID int) ([]*models.TeamGameStat, error) {
	return s.DB.GameStats.ListTeamStatsByGame(ctx, gameID)
}

func (s *DatabaseStore) ListShotsByGame(ctx context.Context, gameID int) ([]*models.Shot, error) {
	return s.DB.Shots.ListByGame(ctx, gameID)
}
