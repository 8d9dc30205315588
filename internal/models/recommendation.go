package models

import "time"

// CandidateOption is an ephemeral scored pick candidate produced by the
// ranker. It is never persisted on its own; the top three are embedded in
// the day's Recommendation.
type CandidateOption struct {
	Team           string  `json:"team"`
	Seed           *int    `json:"seed"`
	Opponent       string  `json:"opponent"`
	OpponentSeed   *int    `json:"opponentSeed"`
	GameID         string  `json:"gameId"`
	WinProbability float64 `json:"winProbability"`
	Penalty        float64 `json:"penalty"`
	Score          float64 `json:"score"`
	Confidence     int     `json:"confidence"`
	Rationale      string  `json:"rationale"`
}

// Recommendation is the persisted daily recommendation row, overwritten on
// every re-run for the same (user, year, date).
type Recommendation struct {
	UserID          string                 `db:"user_id" json:"user_id"`
	TournamentYear  int                    `db:"tournament_year" json:"tournament_year"`
	PickDate        string                 `db:"pick_date" json:"pick_date"`
	RecommendedTeam *string                `db:"recommended_team" json:"recommended_team"`
	RecommendedSeed *int                   `db:"recommended_seed" json:"recommended_seed"`
	Opponent        *string                `db:"opponent" json:"opponent"`
	OpponentSeed    *int                   `db:"opponent_seed" json:"opponent_seed"`
	Confidence      *int                   `db:"confidence" json:"confidence"`
	Score           *float64               `db:"score" json:"score"`
	Rationale       *string                `db:"rationale" json:"rationale"`
	RankedOptions   []*CandidateOption     `db:"ranked_options" json:"ranked_options"`
	Metadata        map[string]interface{} `db:"metadata" json:"metadata"`
	CreatedAt       time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time              `db:"updated_at" json:"updated_at"`
}
