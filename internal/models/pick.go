package models

import (
	"strings"
	"time"
)

// Pick result values.
const (
	ResultPending = "pending"
	ResultWin     = "win"
	ResultLoss    = "loss"
)

// Pick represents one recorded survivor pool pick. A pick is unique per
// (user, year, date) and per (user, year, team): one pick per day, and each
// team usable at most once per tournament. Only the Result field ever
// changes after creation.
type Pick struct {
	ID             int64     `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	TournamentYear int       `db:"tournament_year" json:"tournament_year"`
	PickDate       string    `db:"pick_date" json:"pick_date"`
	TeamName       string    `db:"team_name" json:"team_name" validate:"required"`
	TeamSeed       *int      `db:"team_seed" json:"team_seed"`
	Opponent       *string   `db:"opponent" json:"opponent"`
	OpponentSeed   *int      `db:"opponent_seed" json:"opponent_seed"`
	Round          *string   `db:"round" json:"round"`
	Confidence     *int      `db:"confidence" json:"confidence" validate:"omitempty,min=0,max=100"`
	Reasoning      *string   `db:"reasoning" json:"reasoning"`
	Result         string    `db:"result" json:"result"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// IsLoss reports whether the pick's recorded result eliminates the user.
// Result strings from the bracket-result collaborator are matched
// case-insensitively.
func (p *Pick) IsLoss() bool {
	return strings.EqualFold(p.Result, ResultLoss)
}

// TournamentSnapshot is the read-side view the decision workflow needs:
// full pick history, the set of teams already spent, elimination status,
// and whether a pick already exists for the date under consideration.
type TournamentSnapshot struct {
	Picks                  []*Pick
	TeamsUsed              []string
	IsEliminated           bool
	PickAlreadyMadeForDate *Pick
}

// RecordResult is the structured outcome of a pick recording attempt.
// Legality violations (duplicate team, duplicate date) come back as
// Success=false with a user-facing reason rather than an error.
type RecordResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}
