package repository

import (
	"context"
	"fmt"

	"nhlstats/backfill/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db *Database
}

const playerColumns = `
	id, team_id, first_name, last_name, position, jersey_number,
	birth_date, birth_city, birth_country, height_inches, weight_pounds,
	shoots_catches, created_at, updated_at
`

// Upsert inserts or updates a player. team_id tracks the most recently
// observed team; a traded player's row moves with them.
func (r *PlayerRepository) Upsert(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (
			id, team_id, first_name, last_name, position, jersey_number,
			birth_date, birth_city, birth_country, height_inches, weight_pounds,
			shoots_catches
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			position = EXCLUDED.position,
			jersey_number = EXCLUDED.jersey_number,
			birth_date = EXCLUDED.birth_date,
			birth_city = EXCLUDED.birth_city,
			birth_country = EXCLUDED.birth_country,
			height_inches = EXCLUDED.height_inches,
			weight_pounds = EXCLUDED.weight_pounds,
			shoots_catches = EXCLUDED.shoots_catches,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		player.ID, player.TeamID, player.FirstName, player.LastName,
		player.Position, player.JerseyNumber, player.BirthDate,
		player.BirthCity, player.BirthCountry, player.HeightInches,
		player.WeightPounds, player.ShootsCatches,
	).Scan(&player.CreatedAt, &player.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}

	log.Debug().
		Int("player_id", player.ID).
		Str("name", player.FirstName+" "+player.LastName).
		Str("position", player.Position).
		Msg("Player upserted")

	return nil
}

// GetByID retrieves a player by league id
func (r *PlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	var player models.Player
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&player.ID, &player.TeamID, &player.FirstName, &player.LastName,
		&player.Position, &player.JerseyNumber, &player.BirthDate,
		&player.BirthCity, &player.BirthCountry, &player.HeightInches,
		&player.WeightPounds, &player.ShootsCatches,
		&player.CreatedAt, &player.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("player not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return &player, nil
}

// ListByTeam retrieves all players currently on a team
func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE team_id = $1 ORDER BY last_name, first_name`

	rows, err := r.db.Pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		var player models.Player
		err := rows.Scan(
			&player.ID, &player.TeamID, &player.FirstName, &player.LastName,
			&player.Position, &player.JerseyNumber, &player.BirthDate,
			&player.BirthCity, &player.BirthCountry, &player.HeightInches,
			&player.WeightPounds, &player.ShootsCatches,
			&player.CreatedAt, &player.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, &player)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	return players, nil
}

// Count returns the total number of players
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}

	return count, nil
}
