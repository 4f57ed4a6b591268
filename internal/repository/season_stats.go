package repository

import (
	"context"
	"fmt"

	"nhlstats/backfill/internal/models"

	"github.com/jackc/pgx/v5"
)

// SeasonStatsRepository handles the aggregated season stat tables
type SeasonStatsRepository struct {
	db *Database
}

// UpsertPlayerSeason overwrites a player's season totals, unique on
// (player_id, team_id, season). The aggregator recomputes from game rows,
// so every column is replaced except the advanced metrics, which arrive
// from a separate source.
func (r *SeasonStatsRepository) UpsertPlayerSeason(ctx context.Context, stat *models.PlayerSeasonStat) error {
	query := `
		INSERT INTO player_season_stats (
			player_id, team_id, season, games_played, goals, assists, points,
			plus_minus, penalty_minutes, shots, hits, blocked_shots,
			time_on_ice, power_play_goals, shooting_pct
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (player_id, team_id, season) DO UPDATE SET
			games_played = EXCLUDED.games_played,
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
			shooting_pct = EXCLUDED.shooting_pct,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		stat.PlayerID, stat.TeamID, stat.Season, stat.GamesPlayed,
		stat.Goals, stat.Assists, stat.Points, stat.PlusMinus,
		stat.PenaltyMinutes, stat.Shots, stat.Hits, stat.BlockedShots,
		stat.TimeOnIce, stat.PowerPlayGoals, stat.ShootingPct,
	).Scan(&stat.ID, &stat.CreatedAt, &stat.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert player season stat: %w", err)
	}

	return nil
}

// UpsertTeamSeason overwrites a team's season record, unique on (team_id, season)
func (r *SeasonStatsRepository) UpsertTeamSeason(ctx context.Context, stat *models.TeamSeasonStat) error {
	query := `
		INSERT INTO team_season_stats (
			team_id, season, games_played, wins, losses, overtime_losses,
			points, goals_for, goals_against, goal_differential
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (team_id, season) DO UPDATE SET
			games_played = EXCLUDED.games_played,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			overtime_losses = EXCLUDED.overtime_losses,
			points = EXCLUDED.points,
			goals_for = EXCLUDED.goals_for,
			goals_against = EXCLUDED.goals_against,
			goal_differential = EXCLUDED.goal_differential,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		stat.TeamID, stat.Season, stat.GamesPlayed, stat.Wins, stat.Losses,
		stat.OvertimeLosses, stat.Points, stat.GoalsFor, stat.GoalsAgainst,
		stat.GoalDifferential,
	).Scan(&stat.ID, &stat.CreatedAt, &stat.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert team season stat: %w", err)
	}

	return nil
}

// ApplySkaterAdvanced attaches possession metrics to an existing player
// season row. Rows for players we never ingested are skipped, not created.
func (r *SeasonStatsRepository) ApplySkaterAdvanced(ctx context.Context, season string, adv *models.SkaterAdvancedInput) (bool, error) {
	query := `
		UPDATE player_season_stats
		SET corsi_pct = $1,
		    fenwick_pct = $2,
		    expected_goals = $3,
		    updated_at = NOW()
		WHERE player_id = $4 AND season = $5
	`

	result, err := r.db.Pool.Exec(
		ctx, query,
		adv.CorsiPct, adv.FenwickPct, adv.ExpectedGoals,
		adv.PlayerID, season,
	)
	if err != nil {
		return false, fmt.Errorf("failed to apply skater advanced metrics: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ApplyTeamAdvanced attaches possession metrics to an existing team season row
func (r *SeasonStatsRepository) ApplyTeamAdvanced(ctx context.Context, season string, teamID int, adv *models.TeamAdvancedInput) (bool, error) {
	query := `
		UPDATE team_season_stats
		SET corsi_pct = $1,
		    fenwick_pct = $2,
		    expected_goals_for = $3,
		    expected_goals_against = $4,
		    updated_at = NOW()
		WHERE team_id = $5 AND season = $6
	`

	result, err := r.db.Pool.Exec(
		ctx, query,
		adv.CorsiPct, adv.FenwickPct, adv.ExpectedGoalsFor,
		adv.ExpectedGoalsAgainst, teamID, season,
	)
	if err != nil {
		return false, fmt.Errorf("failed to apply team advanced metrics: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListPlayerSeasonByTeam retrieves a team's player season rows, points leaders first
func (r *SeasonStatsRepository) ListPlayerSeasonByTeam(ctx context.Context, teamID int, season string) ([]*models.PlayerSeasonStat, error) {
	query := `
		SELECT id, player_id, team_id, season, games_played, goals, assists,
		       points, plus_minus, penalty_minutes, shots, hits, blocked_shots,
		       time_on_ice, power_play_goals, shooting_pct, corsi_pct,
		       fenwick_pct, expected_goals, created_at, updated_at
		FROM player_season_stats
		WHERE team_id = $1 AND season = $2
		ORDER BY points DESC, goals DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, teamID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list player season stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.PlayerSeasonStat
	for rows.Next() {
		var stat models.PlayerSeasonStat
		err := rows.Scan(
			&stat.ID, &stat.PlayerID, &stat.TeamID, &stat.Season,
			&stat.GamesPlayed, &stat.Goals, &stat.Assists, &stat.Points,
			&stat.PlusMinus, &stat.PenaltyMinutes, &stat.Shots, &stat.Hits,
			&stat.BlockedShots, &stat.TimeOnIce, &stat.PowerPlayGoals,
			&stat.ShootingPct, &stat.CorsiPct, &stat.FenwickPct,
			&stat.ExpectedGoals, &stat.CreatedAt, &stat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player season stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player season stats: %w", err)
	}

	return stats, nil
}

// GetTeamSeason retrieves one team's season record
func (r *SeasonStatsRepository) GetTeamSeason(ctx context.Context, teamID int, season string) (*models.TeamSeasonStat, error) {
	query := `
		SELECT id, team_id, season, games_played, wins, losses,
		       overtime_losses, points, goals_for, goals_against,
		       goal_differential, corsi_pct, fenwick_pct, expected_goals_for,
		       expected_goals_against, created_at, updated_at
		FROM team_season_stats
		WHERE team_id = $1 AND season = $2
	`

	var stat models.TeamSeasonStat
	err := r.db.Pool.QueryRow(ctx, query, teamID, season).Scan(
		&stat.ID, &stat.TeamID, &stat.Season, &stat.GamesPlayed,
		&stat.Wins, &stat.Losses, &stat.OvertimeLosses, &stat.Points,
		&stat.GoalsFor, &stat.GoalsAgainst, &stat.GoalDifferential,
		&stat.CorsiPct, &stat.FenwickPct, &stat.ExpectedGoalsFor,
		&stat.ExpectedGoalsAgainst, &stat.CreatedAt, &stat.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team season stat not found: team_id=%d season=%s", teamID, season)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team season stat: %w", err)
	}

	return &stat, nil
}
