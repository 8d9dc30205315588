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

// PostgresRecommendationRepository implements RecommendationRepository for PostgreSQL
type PostgresRecommendationRepository struct {
	db *database.DB
}

// NewPostgresRecommendationRepository creates a new recommendation repository
func NewPostgresRecommendationRepository(db *database.DB) RecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

// Upsert writes the day's recommendation, overwriting any prior row for the
// same (user, year, date).
func (r *PostgresRecommendationRepository) Upsert(ctx context.Context, rec *models.Recommendation) error {
	rankedOptions, err := json.Marshal(rec.RankedOptions)
	if err != nil {
		return fmt.Errorf("failed to marshal ranked options: %w", err)
	}
	metadata := rec.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if rec.RankedOptions == nil {
		rankedOptions = []byte("[]")
	}

	query := `
		INSERT INTO survivor_recommendations (
			user_id, tournament_year, pick_date, recommended_team, recommended_seed, opponent, opponent_seed,
			confidence, score, rationale, ranked_options, metadata
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11::jsonb,$12::jsonb)
		ON CONFLICT (user_id, tournament_year, pick_date)
		DO UPDATE SET
			recommended_team = EXCLUDED.recommended_team,
			recommended_seed = EXCLUDED.recommended_seed,
			opponent = EXCLUDED.opponent,
			opponent_seed = EXCLUDED.opponent_seed,
			confidence = EXCLUDED.confidence,
			score = EXCLUDED.score,
			rationale = EXCLUDED.rationale,
			ranked_options = EXCLUDED.ranked_options,
			metadata = EXCLUDED.metadata,
			updated_at = NOW()
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		rec.UserID, rec.TournamentYear, rec.PickDate, rec.RecommendedTeam, rec.RecommendedSeed,
		rec.Opponent, rec.OpponentSeed, rec.Confidence, rec.Score, rec.Rationale,
		string(rankedOptions), string(metadataJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert recommendation: %w", err)
	}

	return nil
}

// GetByDate retrieves the cached recommendation for a date.
func (r *PostgresRecommendationRepository) GetByDate(ctx context.Context, userID string, tournamentYear int, pickDate string) (*models.Recommendation, error) {
	query := `
		SELECT user_id, tournament_year, pick_date, recommended_team, recommended_seed, opponent, opponent_seed,
			confidence, score, rationale, ranked_options, metadata, created_at, updated_at
		FROM survivor_recommendations
		WHERE user_id = $1 AND tournament_year = $2 AND pick_date = $3
	`

	rec := &models.Recommendation{}
	var pickDateValue time.Time
	var rankedOptions, metadata []byte
	err := r.db.GetPool().QueryRow(ctx, query, userID, tournamentYear, pickDate).Scan(
		&rec.UserID, &rec.TournamentYear, &pickDateValue, &rec.RecommendedTeam, &rec.RecommendedSeed,
		&rec.Opponent, &rec.OpponentSeed, &rec.Confidence, &rec.Score, &rec.Rationale,
		&rankedOptions, &metadata, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}

	rec.PickDate = pickDateValue.Format(pickDateLayout)
	if err := json.Unmarshal(rankedOptions, &rec.RankedOptions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ranked options: %w", err)
	}
	if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return rec, nil
}
