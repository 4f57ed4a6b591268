package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// schema holds the full DDL for the pipeline tables. Every statement is
// idempotent, so Migrate can run on every worker start. The unique
// constraints here are what the repository upserts conflict against.
const schema = `
CREATE TABLE IF NOT EXISTS teams (
	id INTEGER PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	abbreviation VARCHAR(5) NOT NULL UNIQUE,
	city VARCHAR(100) NOT NULL,
	division VARCHAR(50),
	conference VARCHAR(50),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS players (
	id INTEGER PRIMARY KEY,
	team_id INTEGER NOT NULL REFERENCES teams(id),
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	position VARCHAR(5) NOT NULL,
	jersey_number INTEGER,
	birth_date DATE,
	birth_city VARCHAR(100),
	birth_country VARCHAR(50),
	height_inches INTEGER,
	weight_pounds INTEGER,
	shoots_catches VARCHAR(1),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_players_team ON players(team_id);

CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY,
	season VARCHAR(8) NOT NULL,
	game_type INTEGER NOT NULL,
	game_date TIMESTAMPTZ NOT NULL,
	home_team_id INTEGER NOT NULL REFERENCES teams(id),
	away_team_id INTEGER NOT NULL REFERENCES teams(id),
	home_score INTEGER,
	away_score INTEGER,
	period INTEGER,
	game_state VARCHAR(20) NOT NULL,
	venue VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_games_season ON games(season);
CREATE INDEX IF NOT EXISTS idx_games_date ON games(game_date);

CREATE TABLE IF NOT EXISTS player_game_stats (
	id SERIAL PRIMARY KEY,
	game_id INTEGER NOT NULL REFERENCES games(id),
	player_id INTEGER NOT NULL,
	team_id INTEGER NOT NULL,
	goals INTEGER NOT NULL DEFAULT 0,
	assists INTEGER NOT NULL DEFAULT 0,
	points INTEGER NOT NULL DEFAULT 0,
	plus_minus INTEGER NOT NULL DEFAULT 0,
	penalty_minutes INTEGER NOT NULL DEFAULT 0,
	shots INTEGER NOT NULL DEFAULT 0,
	hits INTEGER NOT NULL DEFAULT 0,
	blocked_shots INTEGER NOT NULL DEFAULT 0,
	time_on_ice INTEGER NOT NULL DEFAULT 0,
	power_play_goals INTEGER NOT NULL DEFAULT 0,
	faceoff_pct DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (game_id, player_id)
);

CREATE TABLE IF NOT EXISTS goalie_game_stats (
	id SERIAL PRIMARY KEY,
	game_id INTEGER NOT NULL REFERENCES games(id),
	player_id INTEGER NOT NULL,
	team_id INTEGER NOT NULL,
	shots_against INTEGER NOT NULL DEFAULT 0,
	saves INTEGER NOT NULL DEFAULT 0,
	goals_against INTEGER NOT NULL DEFAULT 0,
	save_pct DOUBLE PRECISION,
	time_on_ice INTEGER NOT NULL DEFAULT 0,
	decision VARCHAR(1),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (game_id, player_id)
);

CREATE TABLE IF NOT EXISTS team_game_stats (
	id SERIAL PRIMARY KEY,
	game_id INTEGER NOT NULL REFERENCES games(id),
	team_id INTEGER NOT NULL REFERENCES teams(id),
	is_home BOOLEAN NOT NULL,
	goals INTEGER NOT NULL DEFAULT 0,
	shots INTEGER NOT NULL DEFAULT 0,
	hits INTEGER NOT NULL DEFAULT 0,
	penalty_minutes INTEGER NOT NULL DEFAULT 0,
	blocked_shots INTEGER NOT NULL DEFAULT 0,
	faceoff_pct DOUBLE PRECISION,
	power_play_goals INTEGER NOT NULL DEFAULT 0,
	corsi_for DOUBLE PRECISION,
	fenwick_for DOUBLE PRECISION,
	expected_goals DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (game_id, team_id)
);

CREATE TABLE IF NOT EXISTS shots (
	id SERIAL PRIMARY KEY,
	game_id INTEGER NOT NULL REFERENCES games(id),
	shooter_id INTEGER NOT NULL,
	goalie_id INTEGER,
	team_id INTEGER NOT NULL,
	period INTEGER NOT NULL,
	time_remaining VARCHAR(5) NOT NULL,
	x DOUBLE PRECISION NOT NULL,
	y DOUBLE PRECISION NOT NULL,
	shot_type VARCHAR(20),
	is_goal BOOLEAN NOT NULL DEFAULT FALSE,
	distance DOUBLE PRECISION NOT NULL,
	angle DOUBLE PRECISION NOT NULL,
	danger VARCHAR(10) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (game_id, period, time_remaining, shooter_id, x, y)
);

CREATE INDEX IF NOT EXISTS idx_shots_game ON shots(game_id);

CREATE TABLE IF NOT EXISTS player_season_stats (
	id SERIAL PRIMARY KEY,
	player_id INTEGER NOT NULL,
	team_id INTEGER NOT NULL,
	season VARCHAR(8) NOT NULL,
	games_played INTEGER NOT NULL DEFAULT 0,
	goals INTEGER NOT NULL DEFAULT 0,
	assists INTEGER NOT NULL DEFAULT 0,
	points INTEGER NOT NULL DEFAULT 0,
	plus_minus INTEGER NOT NULL DEFAULT 0,
	penalty_minutes INTEGER NOT NULL DEFAULT 0,
	shots INTEGER NOT NULL DEFAULT 0,
	hits INTEGER NOT NULL DEFAULT 0,
	blocked_shots INTEGER NOT NULL DEFAULT 0,
	time_on_ice INTEGER NOT NULL DEFAULT 0,
	power_play_goals INTEGER NOT NULL DEFAULT 0,
	shooting_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
	corsi_pct DOUBLE PRECISION,
	fenwick_pct DOUBLE PRECISION,
	expected_goals DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (player_id, team_id, season)
);

CREATE TABLE IF NOT EXISTS team_season_stats (
	id SERIAL PRIMARY KEY,
	team_id INTEGER NOT NULL REFERENCES teams(id),
	season VARCHAR(8) NOT NULL,
	games_played INTEGER NOT NULL DEFAULT 0,
	wins INTEGER NOT NULL DEFAULT 0,
	losses INTEGER NOT NULL DEFAULT 0,
	overtime_losses INTEGER NOT NULL DEFAULT 0,
	points INTEGER NOT NULL DEFAULT 0,
	goals_for INTEGER NOT NULL DEFAULT 0,
	goals_against INTEGER NOT NULL DEFAULT 0,
	goal_differential INTEGER NOT NULL DEFAULT 0,
	corsi_pct DOUBLE PRECISION,
	fenwick_pct DOUBLE PRECISION,
	expected_goals_for DOUBLE PRECISION,
	expected_goals_against DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (team_id, season)
);
`

// Migrate applies the schema. Safe to run on every start.
func (db *Database) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Info().Msg("Database schema up to date")
	return nil
}
