package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/bracket-survivor/internal/database"
	"github.com/yourusername/bracket-survivor/internal/metrics"
	"github.com/yourusername/bracket-survivor/internal/models"
)

const pickDateLayout = "2006-01-02"

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

// PostgresPickRepository implements PickRepository for PostgreSQL
type PostgresPickRepository struct {
	db *database.DB
}

// NewPostgresPickRepository creates a new pick repository
func NewPostgresPickRepository(db *database.DB) PickRepository {
	return &PostgresPickRepository{db: db}
}

// Record inserts a survivor pick, mapping the two unique constraints to
// structured, user-facing rejections. Any other failure is a real error.
func (r *PostgresPickRepository) Record(ctx context.Context, pick *models.Pick) (*models.RecordResult, error) {
	if pick.TeamName == "" {
		return nil, models.ErrTeamRequired
	}
	if pick.PickDate == "" {
		return nil, models.ErrDateRequired
	}

	query := `
		INSERT INTO survivor_picks (user_id, tournament_year, pick_date, team_name, team_seed, opponent, opponent_seed, round, confidence, reasoning)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		pick.UserID, pick.TournamentYear, pick.PickDate, pick.TeamName, pick.TeamSeed,
		pick.Opponent, pick.OpponentSeed, pick.Round, pick.Confidence, pick.Reasoning,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case database.PickTeamConstraint:
				metrics.PicksRejectedTotal.Inc()
				return &models.RecordResult{
					Success: false,
					Reason:  fmt.Sprintf("Team %q has already been used this tournament.", pick.TeamName),
				}, nil
			case database.PickDateConstraint:
				metrics.PicksRejectedTotal.Inc()
				return &models.RecordResult{
					Success: false,
					Reason:  fmt.Sprintf("A pick has already been made for %s.", pick.PickDate),
				}, nil
			}
		}
		return nil, fmt.Errorf("failed to record pick: %w", err)
	}

	metrics.PicksRecordedTotal.Inc()
	return &models.RecordResult{
		Success: true,
		Message: fmt.Sprintf("Pick recorded: %s for %s", pick.TeamName, pick.PickDate),
	}, nil
}

// GetHistory retrieves all picks for a user and tournament year, oldest first.
func (r *PostgresPickRepository) GetHistory(ctx context.Context, userID string, tournamentYear int) ([]*models.Pick, error) {
	query := `
		SELECT id, user_id, tournament_year, pick_date, team_name, team_seed, opponent, opponent_seed, round, confidence, reasoning, result, created_at
		FROM survivor_picks
		WHERE user_id = $1 AND tournament_year = $2
		ORDER BY pick_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, userID, tournamentYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query pick history: %w", err)
	}
	defer rows.Close()

	var picks []*models.Pick
	for rows.Next() {
		pick := &models.Pick{}
		var pickDate time.Time
		err := rows.Scan(
			&pick.ID, &pick.UserID, &pick.TournamentYear, &pickDate, &pick.TeamName, &pick.TeamSeed,
			&pick.Opponent, &pick.OpponentSeed, &pick.Round, &pick.Confidence, &pick.Reasoning,
			&pick.Result, &pick.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		pick.PickDate = pickDate.Format(pickDateLayout)
		picks = append(picks, pick)
	}

	return picks, rows.Err()
}

// GetTournamentSnapshot assembles the read-side view the decision workflow
// consumes: history, teams spent, elimination status, and any existing pick
// for the date.
func (r *PostgresPickRepository) GetTournamentSnapshot(ctx context.Context, userID string, tournamentYear int, pickDate string) (*models.TournamentSnapshot, error) {
	picks, err := r.GetHistory(ctx, userID, tournamentYear)
	if err != nil {
		return nil, err
	}

	snapshot := &models.TournamentSnapshot{Picks: picks}
	for _, pick := range picks {
		snapshot.TeamsUsed = append(snapshot.TeamsUsed, pick.TeamName)
		if pick.IsLoss() {
			snapshot.IsEliminated = true
		}
		if pick.PickDate == pickDate {
			snapshot.PickAlreadyMadeForDate = pick
		}
	}

	return snapshot, nil
}

// UpdateResult sets the result of an existing pick. Result recording is
// driven by the external bracket-result collaborator and the ctl CLI.
func (r *PostgresPickRepository) UpdateResult(ctx context.Context, userID string, tournamentYear int, teamName, result string) error {
	switch result {
	case models.ResultPending, models.ResultWin, models.ResultLoss:
	default:
		return models.ErrInvalidResult
	}

	tag, err := r.db.GetPool().Exec(ctx,
		`UPDATE survivor_picks SET result = $1 WHERE user_id = $2 AND tournament_year = $3 AND team_name = $4`,
		result, userID, tournamentYear, teamName,
	)
	if err != nil {
		return fmt.Errorf("failed to update pick result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
