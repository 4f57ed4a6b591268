package repository

import (
	"context"
	"fmt"

	"nhlstats/backfill/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

// Upsert inserts or updates a team. The league id is the primary key, so
// repeated runs with identical data leave the row unchanged apart from
// updated_at.
func (r *TeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (
			id, name, abbreviation, city, division, conference
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			abbreviation = EXCLUDED.abbreviation,
			city = EXCLUDED.city,
			division = EXCLUDED.division,
			conference = EXCLUDED.conference,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		team.ID, team.Name, team.Abbreviation, team.City,
		team.Division, team.Conference,
	).Scan(&team.CreatedAt, &team.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	return nil
}

// GetByID retrieves a team by its league id
func (r *TeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, name, abbreviation, city, division, conference, created_at, updated_at
		FROM teams
		WHERE id = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.Abbreviation, &team.City,
		&team.Division, &team.Conference,
		&team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// GetByAbbrev retrieves a team by its abbreviation
func (r *TeamRepository) GetByAbbrev(ctx context.Context, abbrev string) (*models.Team, error) {
	query := `
		SELECT id, name, abbreviation, city, division, conference, created_at, updated_at
		FROM teams
		WHERE abbreviation = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, abbrev).Scan(
		&team.ID, &team.Name, &team.Abbreviation, &team.City,
		&team.Division, &team.Conference,
		&team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: abbreviation=%s", abbrev)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// List retrieves all teams
func (r *TeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `
		SELECT id, name, abbreviation, city, division, conference, created_at, updated_at
		FROM teams
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var team models.Team
		err := rows.Scan(
			&team.ID, &team.Name, &team.Abbreviation, &team.City,
			&team.Division, &team.Conference,
			&team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// Count returns the total number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}

	return count, nil
}

// Delete deletes a team
func (r *TeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("team not found: id=%d", id)
	}

	log.Debug().Int("id", id).Msg("Team deleted")
	return nil
}
