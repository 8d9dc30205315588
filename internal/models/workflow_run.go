package models

import "time"

// Workflow run statuses.
const (
	RunStatusStarted   = "started"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusSkipped   = "skipped"
)

// WorkflowRun is the per-day audit row for one automated decision run,
// unique per (user, year, date, workflow ID) and upserted across the run's
// lifecycle. The start timestamp survives upserts (keep earliest); the
// finish timestamp is set only on terminal statuses.
type WorkflowRun struct {
	UserID         string                 `db:"user_id" json:"user_id"`
	TournamentYear int                    `db:"tournament_year" json:"tournament_year"`
	PickDate       string                 `db:"pick_date" json:"pick_date"`
	WorkflowID     string                 `db:"workflow_id" json:"workflow_id"`
	RunStatus      string                 `db:"run_status" json:"run_status"`
	Sources        []string               `db:"sources" json:"sources"`
	Summary        map[string]interface{} `db:"summary" json:"summary"`
	ErrorText      *string                `db:"error_text" json:"error_text"`
	RunStartedAt   *time.Time             `db:"run_started_at" json:"run_started_at"`
	RunFinishedAt  *time.Time             `db:"run_finished_at" json:"run_finished_at"`
	UpdatedAt      time.Time              `db:"updated_at" json:"updated_at"`
}

// IsTerminal reports whether the status closes out the run.
func IsTerminalRunStatus(status string) bool {
	switch status {
	case RunStatusCompleted, RunStatusFailed, RunStatusSkipped:
		return true
	}
	return false
}
