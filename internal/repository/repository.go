package repository

import (
	"fmt"

	"github.com/yourusername/bracket-survivor/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Pick           PickRepository
	Recommendation RecommendationRepository
	WorkflowRun    WorkflowRunRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Pick:           NewPostgresPickRepository(db),
		Recommendation: NewPostgresRecommendationRepository(db),
		WorkflowRun:    NewPostgresWorkflowRunRepository(db),
	}, nil
}
