package scoring

import (
	"math"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestBaselineWinProbabilityTabulatedPairs(t *testing.T) {
	pairs := [][2]int{{1, 16}, {2, 15}, {3, 14}, {4, 13}, {5, 12}, {6, 11}, {7, 10}, {8, 9}}
	for _, pair := range pairs {
		favorite := BaselineWinProbability(intPtr(pair[0]), intPtr(pair[1]))
		underdog := BaselineWinProbability(intPtr(pair[1]), intPtr(pair[0]))
		if favorite <= 0.5 {
			t.Errorf("favorite %dv%d: expected probability above 0.5, got %v", pair[0], pair[1], favorite)
		}
		if math.Abs(favorite+underdog-1) > 1e-9 {
			t.Errorf("pair %dv%d: probabilities do not sum to 1: %v + %v", pair[0], pair[1], favorite, underdog)
		}
	}
}

func TestBaselineWinProbabilityOneVsSixteen(t *testing.T) {
	if p := BaselineWinProbability(intPtr(1), intPtr(16)); p <= 0.99 {
		t.Fatalf("expected 1v16 above 0.99, got %v", p)
	}
}

func TestBaselineWinProbabilityMissingSeeds(t *testing.T) {
	if p := BaselineWinProbability(nil, intPtr(7)); p != 0.5 {
		t.Errorf("expected 0.5 with missing team seed, got %v", p)
	}
	if p := BaselineWinProbability(intPtr(7), nil); p != 0.5 {
		t.Errorf("expected 0.5 with missing opponent seed, got %v", p)
	}
	if p := BaselineWinProbability(nil, nil); p != 0.5 {
		t.Errorf("expected 0.5 with both seeds missing, got %v", p)
	}
}

func TestBaselineWinProbabilityNonCanonicalPair(t *testing.T) {
	// A 1v8 matchup is not tabulated; the linear heuristic applies.
	p := BaselineWinProbability(intPtr(1), intPtr(8))
	want := 0.5 + 7*0.03
	if math.Abs(p-want) > 1e-9 {
		t.Fatalf("expected heuristic %v for 1v8, got %v", want, p)
	}
	// Extreme gaps stay inside [0.05, 0.95].
	if p := BaselineWinProbability(intPtr(1), intPtr(30)); p > 0.95 {
		t.Fatalf("expected heuristic capped at 0.95, got %v", p)
	}
}

func TestFutureValuePenaltyRiskModes(t *testing.T) {
	balanced := FutureValuePenalty(intPtr(1), RoundOf64, RiskModeBalanced)
	aggressive := FutureValuePenalty(intPtr(1), RoundOf64, RiskModeWinPool)
	if balanced <= aggressive {
		t.Fatalf("expected balanced penalty %v above win_pool penalty %v", balanced, aggressive)
	}
}

func TestFutureValuePenaltyMonotonicInSeed(t *testing.T) {
	rounds := []string{RoundOf64, RoundOf32, Sweet16}
	for _, round := range rounds {
		previous := math.Inf(1)
		for seed := 1; seed <= 16; seed++ {
			penalty := FutureValuePenalty(intPtr(seed), round, RiskModeBalanced)
			if penalty > previous {
				t.Errorf("round %s: penalty increased from seed %d to %d (%v -> %v)", round, seed-1, seed, previous, penalty)
			}
			previous = penalty
		}
	}
}

func TestFutureValuePenaltyMonotonicInRound(t *testing.T) {
	rounds := []string{RoundOf64, RoundOf32, Sweet16, Elite8}
	for _, seed := range []int{1, 3, 7} {
		previous := math.Inf(1)
		for _, round := range rounds {
			penalty := FutureValuePenalty(intPtr(seed), round, RiskModeBalanced)
			if penalty > previous {
				t.Errorf("seed %d: penalty increased entering %s (%v -> %v)", seed, round, previous, penalty)
			}
			previous = penalty
		}
	}
}

func TestFutureValuePenaltyMissingSeed(t *testing.T) {
	if penalty := FutureValuePenalty(nil, RoundOf64, RiskModeBalanced); penalty != 0.04 {
		t.Fatalf("expected fixed 0.04 penalty for missing seed, got %v", penalty)
	}
}

func TestInferRoundByGameCount(t *testing.T) {
	cases := map[int]string{
		32: RoundOf64,
		16: RoundOf64,
		14: RoundOf32,
		8:  RoundOf32,
		4:  Sweet16,
		2:  Elite8,
		1:  Championship,
		0:  Championship,
	}
	for count, want := range cases {
		if got := InferRoundByGameCount(count); got != want {
			t.Errorf("inferRoundByGameCount(%d) = %s, want %s", count, got, want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(1.2, 0, 1); got != 1 {
		t.Errorf("expected clamp to 1, got %v", got)
	}
	if got := Clamp(-0.2, 0, 1); got != 0 {
		t.Errorf("expected clamp to 0, got %v", got)
	}
	if got := Clamp(0.4, 0, 1); got != 0.4 {
		t.Errorf("expected pass-through 0.4, got %v", got)
	}
}
