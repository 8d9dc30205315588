package repository

import (
	"context"

	"github.com/yourusername/bracket-survivor/internal/models"
)

// PickRepository defines the interface for survivor pick data access.
// Record returns a structured result rather than an error for legality
// violations: duplicate team or duplicate date come back as Success=false
// with a user-facing reason.
type PickRepository interface {
	Record(ctx context.Context, pick *models.Pick) (*models.RecordResult, error)
	GetHistory(ctx context.Context, userID string, tournamentYear int) ([]*models.Pick, error)
	GetTournamentSnapshot(ctx context.Context, userID string, tournamentYear int, pickDate string) (*models.TournamentSnapshot, error)
	UpdateResult(ctx context.Context, userID string, tournamentYear int, teamName, result string) error
}

// RecommendationRepository defines the interface for daily recommendation
// rows, upserted (overwritten) per (user, year, date) on every re-run.
type RecommendationRepository interface {
	Upsert(ctx context.Context, rec *models.Recommendation) error
	GetByDate(ctx context.Context, userID string, tournamentYear int, pickDate string) (*models.Recommendation, error)
}

// WorkflowRunRepository defines the interface for per-day workflow audit
// rows, upserted across the run lifecycle.
type WorkflowRunRepository interface {
	Upsert(ctx context.Context, run *models.WorkflowRun) error
	GetByKey(ctx context.Context, userID string, tournamentYear int, pickDate, workflowID string) (*models.WorkflowRun, error)
}
