package models

import "time"

// Game represents a single tournament game on a day's slate, as normalized
// from the schedule data source. Seeds are nil when a team is unseeded or
// the provider omitted them.
type Game struct {
	GameID    string     `json:"game_id"`
	Status    string     `json:"status"`
	StartTime *time.Time `json:"start_time"`
	HomeTeam  string     `json:"home_team"`
	HomeSeed  *int       `json:"home_seed"`
	HomeScore *int       `json:"home_score"`
	AwayTeam  string     `json:"away_team"`
	AwaySeed  *int       `json:"away_seed"`
	AwayScore *int       `json:"away_score"`
}

// GameDetails carries the box-score view of a single game.
type GameDetails struct {
	GameID    string                 `json:"game_id"`
	Status    string                 `json:"status"`
	HomeTeam  string                 `json:"home_team"`
	AwayTeam  string                 `json:"away_team"`
	HomeScore *int                   `json:"home_score"`
	AwayScore *int                   `json:"away_score"`
	TeamStats map[string]interface{} `json:"team_stats"`
}

// OddsSnapshot maps game ID -> team name -> implied win probability with the
// vig removed, so the two probabilities for any game sum to 1. An empty
// snapshot means odds were unavailable and callers must fall back to the
// seed baseline.
type OddsSnapshot map[string]map[string]float64

// Probability returns the implied win probability for a team in a game and
// whether the snapshot carried one.
func (s OddsSnapshot) Probability(gameID, team string) (float64, bool) {
	teams, ok := s[gameID]
	if !ok {
		return 0, false
	}
	p, ok := teams[team]
	return p, ok
}
