package repository

import (
	"context"
	"fmt"

	"nhlstats/backfill/internal/models"
)

// ShotRepository handles shot event database operations
type ShotRepository struct {
	db *Database
}

// Insert stores a shot event. The play-by-play feed carries no stable event
// id, so duplicates are detected on the event's natural coordinates and
// silently dropped. Returns true when a new row was written.
func (r *ShotRepository) Insert(ctx context.Context, shot *models.Shot) (bool, error) {
	query := `
		INSERT INTO shots (
			game_id, shooter_id, goalie_id, team_id, period, time_remaining,
			x, y, shot_type, is_goal, distance, angle, danger
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (game_id, period, time_remaining, shooter_id, x, y) DO NOTHING
	`

	result, err := r.db.Pool.Exec(
		ctx, query,
		shot.GameID, shot.ShooterID, shot.GoalieID, shot.TeamID,
		shot.Period, shot.TimeRemaining, shot.X, shot.Y, shot.ShotType,
		shot.IsGoal, shot.Distance, shot.Angle, shot.Danger,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert shot: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListByGame retrieves all shot events for one game in period order
func (r *ShotRepository) ListByGame(ctx context.Context, gameID int) ([]*models.Shot, error) {
	query := `
		SELECT id, game_id, shooter_id, goalie_id, team_id, period,
		       time_remaining, x, y, shot_type, is_goal, distance, angle,
		       danger, created_at
		FROM shots
		WHERE game_id = $1
		ORDER BY period, time_remaining DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shots: %w", err)
	}
	defer rows.Close()

	var shots []*models.Shot
	for rows.Next() {
		var shot models.Shot
		err := rows.Scan(
			&shot.ID, &shot.GameID, &shot.ShooterID, &shot.GoalieID,
			&shot.TeamID, &shot.Period, &shot.TimeRemaining, &shot.X, &shot.Y,
			&shot.ShotType, &shot.IsGoal, &shot.Distance, &shot.Angle,
			&shot.Danger, &shot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shot: %w", err)
		}
		shots = append(shots, &shot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shots: %w", err)
	}

	return shots, nil
}

// CountByGame returns the number of shot events recorded for one game
func (r *ShotRepository) CountByGame(ctx context.Context, gameID int) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM shots WHERE game_id = $1`, gameID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shots: %w", err)
	}

	return count, nil
}

// Count returns the total number of shot events
func (r *ShotRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM shots`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shots: %w", err)
	}

	return count, nil
}
