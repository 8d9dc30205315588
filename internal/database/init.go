package database

import (
	"context"
	"fmt"

	"github.com/yourusername/bracket-survivor/internal/config"
)

// schemaStatements create the survivor pool tables. The two unique
// constraints on survivor_picks enforce the pool rules at the storage layer:
// one pick per day and each team spent at most once per tournament, per user.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS survivor_picks (
		id SERIAL PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT 'default',
		tournament_year INT NOT NULL,
		pick_date DATE NOT NULL,
		team_name TEXT NOT NULL,
		team_seed INT,
		opponent TEXT,
		opponent_seed INT,
		round TEXT,
		confidence INT,
		reasoning TEXT,
		result TEXT DEFAULT 'pending',
		created_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE(user_id, tournament_year, pick_date),
		UNIQUE(user_id, tournament_year, team_name)
	)`,
	`CREATE TABLE IF NOT EXISTS survivor_recommendations (
		id SERIAL PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT 'default',
		tournament_year INT NOT NULL,
		pick_date DATE NOT NULL,
		recommended_team TEXT,
		recommended_seed INT,
		opponent TEXT,
		opponent_seed INT,
		confidence INT,
		score NUMERIC,
		rationale TEXT,
		ranked_options JSONB NOT NULL DEFAULT '[]'::jsonb,
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE(user_id, tournament_year, pick_date)
	)`,
	`CREATE TABLE IF NOT EXISTS workflow_daily_runs (
		id SERIAL PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT 'default',
		tournament_year INT NOT NULL,
		pick_date DATE NOT NULL,
		workflow_id TEXT NOT NULL,
		run_status TEXT NOT NULL,
		sources JSONB NOT NULL DEFAULT '[]'::jsonb,
		summary JSONB NOT NULL DEFAULT '{}'::jsonb,
		error_text TEXT,
		run_started_at TIMESTAMPTZ DEFAULT NOW(),
		run_finished_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ DEFAULT NOW(),
		UNIQUE(user_id, tournament_year, pick_date, workflow_id)
	)`,
}

// Names of the pick table's unique constraints, used by the repository
// layer to map constraint violations to user-facing reasons.
const (
	PickDateConstraint = "survivor_picks_user_id_tournament_year_pick_date_key"
	PickTeamConstraint = "survivor_picks_user_id_tournament_year_team_name_key"
)

// Initialize creates a database connection pool and ensures the survivor
// pool schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the survivor pool tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
