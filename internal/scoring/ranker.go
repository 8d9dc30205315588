package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/bracket-survivor/internal/models"
)

// RankResult carries the ranked candidates plus which probability sources
// actually contributed, for the audit trail.
type RankResult struct {
	Options           []*models.CandidateOption
	UsedOddsAPI       bool
	UsedSeedBaseline  bool
	UsedSeedRangeBand bool
}

// RankCandidates builds the legality-filtered, scored, sorted candidate
// list for a day's slate. Teams already used are hard-filtered out before
// scoring; the one-team-once rule is never violated here. Live odds win
// over the seed baseline when the snapshot has an entry for the team.
// A nil or empty result means every team on the slate has been spent.
func RankCandidates(games []*models.Game, odds models.OddsSnapshot, teamsUsed []string, round, riskMode string) *RankResult {
	used := make(map[string]struct{}, len(teamsUsed))
	for _, team := range teamsUsed {
		used[team] = struct{}{}
	}

	result := &RankResult{}
	for _, g := range games {
		sides := []struct {
			team, opponent     string
			seed, opponentSeed *int
		}{
			{g.HomeTeam, g.AwayTeam, g.HomeSeed, g.AwaySeed},
			{g.AwayTeam, g.HomeTeam, g.AwaySeed, g.HomeSeed},
		}
		for _, side := range sides {
			if _, spent := used[side.team]; spent {
				continue
			}
			winProb, fromOdds := odds.Probability(g.GameID, side.team)
			if fromOdds {
				result.UsedOddsAPI = true
			} else {
				winProb = BaselineWinProbability(side.seed, side.opponentSeed)
				result.UsedSeedBaseline = true
			}
			penalty := FutureValuePenalty(side.seed, round, riskMode)
			score := round4(Clamp(winProb-penalty, 0, 1))
			result.Options = append(result.Options, &models.CandidateOption{
				Team:           side.team,
				Seed:           side.seed,
				Opponent:       side.opponent,
				OpponentSeed:   side.opponentSeed,
				GameID:         g.GameID,
				WinProbability: round4(winProb),
				Penalty:        penalty,
				Score:          score,
				Confidence:     int(math.Round(score * 100)),
				Rationale:      fmt.Sprintf("winProb=%.3f preservePenalty=%.3f", winProb, penalty),
			})
		}
	}

	if len(result.Options) == 0 {
		return result
	}

	if round == RoundOf64 {
		preferred := ApplyFirstRoundSeedPreference(result.Options)
		result.UsedSeedRangeBand = len(preferred) < len(result.Options)
		result.Options = preferred
	}

	// Stable sort so equal scores keep slate order.
	sort.SliceStable(result.Options, func(i, j int) bool {
		return result.Options[i].Score > result.Options[j].Score
	})

	return result
}

// ApplyFirstRoundSeedPreference restricts round-of-64 candidates to the
// historically volatile-but-winnable 4-10 seed band: 1-3 seeds are too
// valuable to spend, 11+ too risky for a must-win pick. Within the band a
// 0.58 survival floor applies, relaxed back to the full band rather than
// emptying the list. Outside the band entirely, the input passes through
// unchanged.
func ApplyFirstRoundSeedPreference(options []*models.CandidateOption) []*models.CandidateOption {
	var banded []*models.CandidateOption
	for _, option := range options {
		if option.Seed != nil && *option.Seed >= 4 && *option.Seed <= 10 {
			banded = append(banded, option)
		}
	}
	if len(banded) == 0 {
		return options
	}

	var safe []*models.CandidateOption
	for _, option := range banded {
		if option.WinProbability >= 0.58 {
			safe = append(safe, option)
		}
	}
	if len(safe) > 0 {
		return safe
	}
	return banded
}

func round4(value float64) float64 {
	return math.Round(value*1e4) / 1e4
}
