// Package datasource provides HTTP clients for the external schedule and
// odds providers. Both degrade to empty results on provider failure: the
// decision workflow is best-effort under partial data and never fails a run
// because a collaborator was down.
package datasource

import (
	"context"
	"time"

	"github.com/yourusername/bracket-survivor/internal/models"
)

// ScheduleSource fetches the tournament slate for a calendar date.
// An unavailable provider yields an empty slate, not an error.
type ScheduleSource interface {
	FetchGames(ctx context.Context, date time.Time) ([]*models.Game, error)
	Name() string
}

// OddsSource fetches the current bookmaker odds slate normalized to implied
// win probabilities with the vig removed. An unconfigured or failing
// provider yields an empty snapshot, not an error.
type OddsSource interface {
	FetchOdds(ctx context.Context) (models.OddsSnapshot, error)
	Name() string
	IsConfigured() bool
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "network_error")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
