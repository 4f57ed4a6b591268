package repository

import (
	"context"
	"fmt"

	"nhlstats/backfill/internal/models"

	"github.com/jackc/pgx/v5"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

const gameColumns = `
	id, season, game_type, game_date, home_team_id, away_team_id,
	home_score, away_score, period, game_state, venue, created_at, updated_at
`

// Upsert inserts or updates a game keyed on the league game id, so
// re-fetching a schedule never duplicates rows
func (r *GameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			id, season, game_type, game_date, home_team_id, away_team_id,
			home_score, away_score, period, game_state, venue
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			season = EXCLUDED.season,
			game_type = EXCLUDED.game_type,
			game_date = EXCLUDED.game_date,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			period = EXCLUDED.period,
			game_state = EXCLUDED.game_state,
			venue = EXCLUDED.venue,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		game.ID, game.Season, game.GameType, game.GameDate,
		game.HomeTeamID, game.AwayTeamID, game.HomeScore, game.AwayScore,
		game.Period, game.GameState, game.Venue,
	).Scan(&game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

// GetByID retrieves a game by its league id
func (r *GameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	var game models.Game
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&game.ID, &game.Season, &game.GameType, &game.GameDate,
		&game.HomeTeamID, &game.AwayTeamID, &game.HomeScore, &game.AwayScore,
		&game.Period, &game.GameState, &game.Venue,
		&game.CreatedAt, &game.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &game, nil
}

// ListBySeason retrieves all games for a season in date order
func (r *GameRepository) ListBySeason(ctx context.Context, season string) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE season = $1 ORDER BY game_date`
	return r.list(ctx, query, season)
}

// ListByTeamAndSeason retrieves one team's games for a season in date order
func (r *GameRepository) ListByTeamAndSeason(ctx context.Context, teamID int, season string) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE season = $2 AND (home_team_id = $1 OR away_team_id = $1)
		ORDER BY game_date
	`
	return r.list(ctx, query, teamID, season)
}

func (r *GameRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Game, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		var game models.Game
		err := rows.Scan(
			&game.ID, &game.Season, &game.GameType, &game.GameDate,
			&game.HomeTeamID, &game.AwayTeamID, &game.HomeScore, &game.AwayScore,
			&game.Period, &game.GameState, &game.Venue,
			&game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, &game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// Count returns the total number of games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM games`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}
