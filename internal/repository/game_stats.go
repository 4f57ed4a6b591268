package repository

import (
	"context"
	"fmt"

	"nhlstats/backfill/internal/models"
)

// GameStatsRepository handles the three per-game stat tables
type GameStatsRepository struct {
	db *Database
}

// UpsertPlayerStat inserts or updates one skater's line for one game,
// unique on (game_id, player_id)
func (r *GameStatsRepository) UpsertPlayerStat(ctx context.Context, stat *models.PlayerGameStat) error {
	query := `
		INSERT INTO player_game_stats (
			game_id, player_id, team_id, goals, assists, points, plus_minus,
			penalty_minutes, shots, hits, blocked_shots, time_on_ice,
			power_play_goals, faceoff_pct
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			goals = EXCLUDED.goals,
			assists = EXCLUDED.assists,
			points = EXCLUDED.points,
			plus_minus = EXCLUDED.plus_minus,
			penalty_minutes = EXCLUDED.penalty_minutes,
			shots = EXCLUDED.shots,
			hits = EXCLUDED.hits,
			blocked_shots = EXCLUDED.blocked_shots,
			time_on_ice = EXCLUDED.time_on_ice,
			power_play_goals = EXCLUDED.power_play_goals,
			faceoff_pct = EXCLUDED.faceoff_pct,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		stat.GameID, stat.PlayerID, stat.TeamID, stat.Goals, stat.Assists,
		stat.Points, stat.PlusMinus, stat.PenaltyMinutes, stat.Shots,
		stat.Hits, stat.BlockedShots, stat.TimeOnIce, stat.PowerPlayGoals,
		stat.FaceoffPct,
	).Scan(&stat.ID, &stat.CreatedAt, &stat.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert player game stat: %w", err)
	}

	return nil
}

// UpsertGoalieStat inserts or updates one goalie's line for one game,
// unique on (game_id, player_id)
func (r *GameStatsRepository) UpsertGoalieStat(ctx context.Context, stat *models.GoalieGameStat) error {
	query := `
		INSERT INTO goalie_game_stats (
			game_id, player_id, team_id, shots_against, saves, goals_against,
			save_pct, time_on_ice, decision
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			shots_against = EXCLUDED.shots_against,
			saves = EXCLUDED.saves,
			goals_against = EXCLUDED.goals_against,
			save_pct = EXCLUDED.save_pct,
			time_on_ice = EXCLUDED.time_on_ice,
			decision = EXCLUDED.decision,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		stat.GameID, stat.PlayerID, stat.TeamID, stat.ShotsAgainst,
		stat.Saves, stat.GoalsAgainst, stat.SavePct, stat.TimeOnIce,
		stat.Decision,
	).Scan(&stat.ID, &stat.CreatedAt, &stat.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert goalie game stat: %w", err)
	}

	return nil
}

// UpsertTeamStat inserts or updates one team's totals for one game,
// unique on (game_id, team_id)
func (r *GameStatsRepository) UpsertTeamStat(ctx context.Context, stat *models.TeamGameStat) error {
	query := `
		INSERT INTO team_game_stats (
			game_id, team_id, is_home, goals, shots, hits, penalty_minutes,
			blocked_shots, faceoff_pct, power_play_goals, corsi_for,
			fenwick_for, expected_goals
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (game_id, team_id) DO UPDATE SET
			is_home = EXCLUDED.is_home,
			goals = EXCLUDED.goals,
			shots = EXCLUDED.shots,
			hits = EXCLUDED.hits,
			penalty_minutes = EXCLUDED.penalty_minutes,
			blocked_shots = EXCLUDED.blocked_shots,
			faceoff_pct = EXCLUDED.faceoff_pct,
			power_play_goals = EXCLUDED.power_play_goals,
			corsi_for = EXCLUDED.corsi_for,
			fenwick_for = EXCLUDED.fenwick_for,
			expected_goals = EXCLUDED.expected_goals,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		stat.GameID, stat.TeamID, stat.IsHome, stat.Goals, stat.Shots,
		stat.Hits, stat.PenaltyMinutes, stat.BlockedShots, stat.FaceoffPct,
		stat.PowerPlayGoals, stat.CorsiFor, stat.FenwickFor,
		stat.ExpectedGoals,
	).Scan(&stat.ID, &stat.CreatedAt, &stat.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert team game stat: %w", err)
	}

	return nil
}

// ListPlayerStatsBySeason retrieves every skater line whose game belongs to
// the season; the season aggregator derives its totals from these rows
func (r *GameStatsRepository) ListPlayerStatsBySeason(ctx context.Context, season string) ([]*models.PlayerGameStat, error) {
	query := `
		SELECT s.id, s.game_id, s.player_id, s.team_id, s.goals, s.assists,
		       s.points, s.plus_minus, s.penalty_minutes, s.shots, s.hits,
		       s.blocked_shots, s.time_on_ice, s.power_play_goals,
		       s.faceoff_pct, s.created_at, s.updated_at
		FROM player_game_stats s
		JOIN games g ON g.id = s.game_id
		WHERE g.season = $1
		ORDER BY s.player_id, s.game_id
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list player game stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.PlayerGameStat
	for rows.Next() {
		var stat models.PlayerGameStat
		err := rows.Scan(
			&stat.ID, &stat.GameID, &stat.PlayerID, &stat.TeamID,
			&stat.Goals, &stat.Assists, &stat.Points, &stat.PlusMinus,
			&stat.PenaltyMinutes, &stat.Shots, &stat.Hits, &stat.BlockedShots,
			&stat.TimeOnIce, &stat.PowerPlayGoals, &stat.FaceoffPct,
			&stat.CreatedAt, &stat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player game stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player game stats: %w", err)
	}

	return stats, nil
}

// ListTeamStatsBySeason retrieves every team line whose game belongs to the season
func (r *GameStatsRepository) ListTeamStatsBySeason(ctx context.Context, season string) ([]*models.TeamGameStat, error) {
	query := `
		SELECT s.id, s.game_id, s.team_id, s.is_home, s.goals, s.shots,
		       s.hits, s.penalty_minutes, s.blocked_shots, s.faceoff_pct,
		       s.power_play_goals, s.corsi_for, s.fenwick_for,
		       s.expected_goals, s.created_at, s.updated_at
		FROM team_game_stats s
		JOIN games g ON g.id = s.game_id
		WHERE g.season = $1
		ORDER BY s.game_id, s.team_id
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list team game stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.TeamGameStat
	for rows.Next() {
		var stat models.TeamGameStat
		err := rows.Scan(
			&stat.ID, &stat.GameID, &stat.TeamID, &stat.IsHome, &stat.Goals,
			&stat.Shots, &stat.Hits, &stat.PenaltyMinutes, &stat.BlockedShots,
			&stat.FaceoffPct, &stat.PowerPlayGoals, &stat.CorsiFor,
			&stat.FenwickFor, &stat.ExpectedGoals,
			&stat.CreatedAt, &stat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team game stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team game stats: %w", err)
	}

	return stats, nil
}

// ListPlayerStatsByGame retrieves the skater lines for one game
func (r *GameStatsRepository) ListPlayerStatsByGame(ctx context.Context, gameID int) ([]*models.PlayerGameStat, error) {
	query := `
		SELECT id, game_id, player_id, team_id, goals, assists, points,
		       plus_minus, penalty_minutes, shots, hits, blocked_shots,
		       time_on_ice, power_play_goals, faceoff_pct, created_at, updated_at
		FROM player_game_stats
		WHERE game_id = $1
		ORDER BY team_id, player_id
	`

	rows, err := r.db.Pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player game stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.PlayerGameStat
	for rows.Next() {
		var stat models.PlayerGameStat
		err := rows.Scan(
			&stat.ID, &stat.GameID, &stat.PlayerID, &stat.TeamID,
			&stat.Goals, &stat.Assists, &stat.Points, &stat.PlusMinus,
			&stat.PenaltyMinutes, &stat.Shots, &stat.Hits, &stat.BlockedShots,
			&stat.TimeOnIce, &stat.PowerPlayGoals, &stat.FaceoffPct,
			&stat.CreatedAt, &stat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player game stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player game stats: %w", err)
	}

	return stats, nil
}

// ListTeamStatsByGame retrieves the two team lines for one game
func (r *GameStatsRepository) ListTeamStatsByGame(ctx context.Context, gameID int) ([]*models.TeamGameStat, error) {
	query := `
		SELECT id, game_id, team_id, is_home, goals, shots, hits,
		       penalty_minutes, blocked_shots, faceoff_pct, power_play_goals,
		       corsi_for, fenwick_for, expected_goals, created_at, updated_at
		FROM team_game_stats
		WHERE game_id = $1
		ORDER BY is_home DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team game stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.TeamGameStat
	for rows.Next() {
		var stat models.TeamGameStat
		err := rows.Scan(
			&stat.ID, &stat.GameID, &stat.TeamID, &stat.IsHome, &stat.Goals,
			&stat.Shots, &stat.Hits, &stat.PenaltyMinutes, &stat.BlockedShots,
			&stat.FaceoffPct, &stat.PowerPlayGoals, &stat.CorsiFor,
			&stat.FenwickFor, &stat.ExpectedGoals,
			&stat.CreatedAt, &stat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team game stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team game stats: %w", err)
	}

	return stats, nil
}
