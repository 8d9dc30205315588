package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/bracket-survivor/internal/database"
	"github.com/yourusername/bracket-survivor/internal/models"
)

// PostgresWorkflowRunRepository implements WorkflowRunRepository for PostgreSQL
type PostgresWorkflowRunRepository struct {
	db *database.DB
}

// NewPostgresWorkflowRunRepository creates a new workflow run repository
func NewPostgresWorkflowRunRepository(db *database.DB) WorkflowRunRepository {
	return &PostgresWorkflowRunRepository{db: db}
}

// Upsert writes the run's current status. The earliest run_started_at wins
// across upserts so the audit row keeps the true start time; the finish
// timestamp is set only when the status is terminal.
func (r *PostgresWorkflowRunRepository) Upsert(ctx context.Context, run *models.WorkflowRun) error {
	sources := run.Sources
	if sources == nil {
		sources = []string{}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("failed to marshal sources: %w", err)
	}
	summary := run.Summary
	if summary == nil {
		summary = map[string]interface{}{}
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	query := `
		INSERT INTO workflow_daily_runs (
			user_id, tournament_year, pick_date, workflow_id, run_status, sources, summary, error_text,
			run_started_at, run_finished_at
		) VALUES (
			$1,$2,$3,$4,$5,$6::jsonb,$7::jsonb,$8,
			CASE WHEN $5 = 'started' THEN NOW() ELSE NULL END,
			CASE WHEN $5 IN ('completed', 'failed', 'skipped') THEN NOW() ELSE NULL END
		)
		ON CONFLICT (user_id, tournament_year, pick_date, workflow_id)
		DO UPDATE SET
			run_status = EXCLUDED.run_status,
			sources = EXCLUDED.sources,
			summary = EXCLUDED.summary,
			error_text = EXCLUDED.error_text,
			run_started_at = COALESCE(workflow_daily_runs.run_started_at, EXCLUDED.run_started_at),
			run_finished_at = EXCLUDED.run_finished_at,
			updated_at = NOW()
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		run.UserID, run.TournamentYear, run.PickDate, run.WorkflowID, run.RunStatus,
		string(sourcesJSON), string(summaryJSON), run.ErrorText,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert workflow run: %w", err)
	}

	return nil
}

// GetByKey retrieves the audit row for one (user, year, date, workflow).
func (r *PostgresWorkflowRunRepository) GetByKey(ctx context.Context, userID string, tournamentYear int, pickDate, workflowID string) (*models.WorkflowRun, error) {
	query := `
		SELECT user_id, tournament_year, pick_date, workflow_id, run_status, sources, summary, error_text,
			run_started_at, run_finished_at, updated_at
		FROM workflow_daily_runs
		WHERE user_id = $1 AND tournament_year = $2 AND pick_date = $3 AND workflow_id = $4
	`

	run := &models.WorkflowRun{}
	var pickDateValue time.Time
	var sources, summary []byte
	err := r.db.GetPool().QueryRow(ctx, query, userID, tournamentYear, pickDate, workflowID).Scan(
		&run.UserID, &run.TournamentYear, &pickDateValue, &run.WorkflowID, &run.RunStatus,
		&sources, &summary, &run.ErrorText, &run.RunStartedAt, &run.RunFinishedAt, &run.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow run: %w", err)
	}

	run.PickDate = pickDateValue.Format(pickDateLayout)
	if err := json.Unmarshal(sources, &run.Sources); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sources: %w", err)
	}
	if err := json.Unmarshal(summary, &run.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return run, nil
}
