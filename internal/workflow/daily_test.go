package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bracket-survivor/internal/logger"
	"github.com/yourusername/bracket-survivor/internal/models"
	"github.com/yourusername/bracket-survivor/internal/repository"
)

type fakePickRepo struct {
	snapshot    *models.TournamentSnapshot
	snapshotErr error
}

func (f *fakePickRepo) Record(ctx context.Context, pick *models.Pick) (*models.RecordResult, error) {
	return &models.RecordResult{Success: true}, nil
}

func (f *fakePickRepo) GetHistory(ctx context.Context, userID string, year int) ([]*models.Pick, error) {
	return f.snapshot.Picks, nil
}

func (f *fakePickRepo) GetTournamentSnapshot(ctx context.Context, userID string, year int, pickDate string) (*models.TournamentSnapshot, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	return f.snapshot, nil
}

func (f *fakePickRepo) UpdateResult(ctx context.Context, userID string, year int, team, result string) error {
	return nil
}

type fakeRecRepo struct {
	upserted []*models.Recommendation
}

func (f *fakeRecRepo) Upsert(ctx context.Context, rec *models.Recommendation) error {
	f.upserted = append(f.upserted, rec)
	return nil
}

func (f *fakeRecRepo) GetByDate(ctx context.Context, userID string, year int, pickDate string) (*models.Recommendation, error) {
	return nil, models.ErrNotFound
}

type fakeRunRepo struct {
	statuses []string
	runs     []*models.WorkflowRun
	failOn   string
}

func (f *fakeRunRepo) Upsert(ctx context.Context, run *models.WorkflowRun) error {
	if f.failOn != "" && run.RunStatus == f.failOn {
		return errors.New("storage unreachable")
	}
	f.statuses = append(f.statuses, run.RunStatus)
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) GetByKey(ctx context.Context, userID string, year int, pickDate, workflowID string) (*models.WorkflowRun, error) {
	return nil, models.ErrNotFound
}

type fakeSchedule struct {
	games []*models.Game
	err   error
}

func (f *fakeSchedule) FetchGames(ctx context.Context, date time.Time) ([]*models.Game, error) {
	return f.games, f.err
}

func (f *fakeSchedule) Name() string { return "ncaa_schedule" }

type fakeOdds struct {
	snapshot models.OddsSnapshot
}

func (f *fakeOdds) FetchOdds(ctx context.Context) (models.OddsSnapshot, error) {
	return f.snapshot, nil
}

func (f *fakeOdds) Name() string       { return "odds_api" }
func (f *fakeOdds) IsConfigured() bool { return f.snapshot != nil }

func intPtr(v int) *int { return &v }

func gameWithSeeds(id, home string, homeSeed int, away string, awaySeed int) *models.Game {
	return &models.Game{
		GameID:   id,
		HomeTeam: home,
		HomeSeed: intPtr(homeSeed),
		AwayTeam: away,
		AwaySeed: intPtr(awaySeed),
	}
}

type fixture struct {
	workflow *DailyWorkflow
	picks    *fakePickRepo
	recs     *fakeRecRepo
	runs     *fakeRunRepo
}

func newFixture(snapshot *models.TournamentSnapshot, games []*models.Game, odds models.OddsSnapshot) *fixture {
	picks := &fakePickRepo{snapshot: snapshot}
	recs := &fakeRecRepo{}
	runs := &fakeRunRepo{}
	log := logger.NewLogger("error")
	wf := New(
		&repository.Repositories{Pick: picks, Recommendation: recs, WorkflowRun: runs},
		&fakeSchedule{games: games},
		&fakeOdds{snapshot: odds},
		log,
		logger.NewAuditLogger(log),
	)
	return &fixture{workflow: wf, picks: picks, recs: recs, runs: runs}
}

func testInput() Input {
	return Input{UserID: "default", TournamentYear: 2026, PickDate: "2026-03-19", RiskMode: "balanced"}
}

func TestRunEliminatedShortCircuits(t *testing.T) {
	snapshot := &models.TournamentSnapshot{
		Picks:        []*models.Pick{{TeamName: "Houston", Result: "LOSS"}},
		TeamsUsed:    []string{"Houston"},
		IsEliminated: true,
	}
	fx := newFixture(snapshot, []*models.Game{gameWithSeeds("g1", "Duke", 1, "UNC", 8)}, nil)

	result, err := fx.workflow.Run(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, StatusEliminated, result.Status)
	assert.Nil(t, result.RecommendedPick)
	assert.Equal(t, 1.0, result.EliminationRisk)
	// Terminal statuses still persist and close out the audit row.
	assert.Equal(t, []string{models.RunStatusStarted, models.RunStatusSkipped}, fx.runs.statuses)
	require.Len(t, fx.recs.upserted, 1)
	assert.Nil(t, fx.recs.upserted[0].RecommendedTeam)
}

func TestRunAlreadyPickedIsIdempotent(t *testing.T) {
	existing := &models.Pick{TeamName: "Gonzaga", PickDate: "2026-03-19", Result: "pending"}
	snapshot := &models.TournamentSnapshot{
		Picks:                  []*models.Pick{existing},
		TeamsUsed:              []string{"Gonzaga"},
		PickAlreadyMadeForDate: existing,
	}
	fx := newFixture(snapshot, []*models.Game{gameWithSeeds("g1", "Duke", 1, "UNC", 8)}, nil)

	result, err := fx.workflow.Run(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyPicked, result.Status)
	assert.Zero(t, result.EliminationRisk)
}

func TestRunNoGames(t *testing.T) {
	fx := newFixture(&models.TournamentSnapshot{}, nil, nil)

	result, err := fx.workflow.Run(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, StatusNoGames, result.Status)
	assert.Equal(t, []string{"ncaa_schedule"}, result.DataSourcesUsed)
	assert.Equal(t, []string{models.RunStatusStarted, models.RunStatusSkipped}, fx.runs.statuses)
}

func TestRunNoLegalPicks(t *testing.T) {
	snapshot := &models.TournamentSnapshot{TeamsUsed: []string{"Duke", "UNC"}}
	fx := newFixture(snapshot, []*models.Game{gameWithSeeds("g1", "Duke", 1, "UNC", 8)}, nil)

	result, err := fx.workflow.Run(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, StatusNoLegalPicks, result.Status)
	assert.Equal(t, 1.0, result.EliminationRisk)
}

func TestRunRecommendsTopCandidate(t *testing.T) {
	games := []*models.Game{
		gameWithSeeds("g1", "ThreeSeed", 3, "FourteenSeed", 14),
		gameWithSeeds("g2", "EightSeed", 8, "NineSeed", 9),
	}
	fx := newFixture(&models.TournamentSnapshot{}, games, nil)

	result, err := fx.workflow.Run(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, StatusRecommended, result.Status)
	require.NotNil(t, result.RecommendedPick)
	// Slate of 2 infers elite_8: no first-round band, flat 0.01 penalties.
	assert.Equal(t, "ThreeSeed", result.RecommendedPick.Team)
	assert.LessOrEqual(t, len(result.Alternates), 2)
	assert.Contains(t, result.DataSourcesUsed, "historical_seed_baseline_internal")
	assert.NotContains(t, result.DataSourcesUsed, "odds_api")
	assert.InDelta(t, 1-result.RecommendedPick.WinProbability, result.EliminationRisk, 1e-9)

	// Recommendation persisted with the run completed.
	assert.Equal(t, []string{models.RunStatusStarted, models.RunStatusCompleted}, fx.runs.statuses)
	require.Len(t, fx.recs.upserted, 1)
	require.NotNil(t, fx.recs.upserted[0].RecommendedTeam)
	assert.Equal(t, "ThreeSeed", *fx.recs.upserted[0].RecommendedTeam)
}

func TestRunUsesOddsWhenAvailable(t *testing.T) {
	games := []*models.Game{gameWithSeeds("g1", "Duke", 5, "Vermont", 12)}
	odds := models.OddsSnapshot{"g1": {"Duke": 0.9, "Vermont": 0.1}}
	fx := newFixture(&models.TournamentSnapshot{}, games, odds)

	result, err := fx.workflow.Run(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, StatusRecommended, result.Status)
	assert.Equal(t, "Duke", result.RecommendedPick.Team)
	assert.Contains(t, result.DataSourcesUsed, "odds_api")
	assert.Equal(t, 0.9, result.RecommendedPick.WinProbability)
}

func TestRunEliminatedRegardlessOfSlate(t *testing.T) {
	// A full winnable slate must not override elimination.
	games := make([]*models.Game, 0, 16)
	for i := 0; i < 16; i++ {
		games = append(games, gameWithSeeds("g", "Fav", 1, "Dog", 16))
	}
	snapshot := &models.TournamentSnapshot{
		Picks:        []*models.Pick{{TeamName: "Houston", Result: "loss"}},
		IsEliminated: true,
	}
	fx := newFixture(snapshot, games, nil)

	result, err := fx.workflow.Run(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, StatusEliminated, result.Status)
	assert.Nil(t, result.RecommendedPick)
}

func TestRunFaultFinalizesFailed(t *testing.T) {
	fx := newFixture(&models.TournamentSnapshot{}, nil, nil)
	fx.picks.snapshotErr = errors.New("storage unreachable")

	_, err := fx.workflow.Run(context.Background(), testInput())
	require.Error(t, err)
	// start, then the failed finalizer.
	assert.Equal(t, []string{models.RunStatusStarted, models.RunStatusFailed}, fx.runs.statuses)
	last := fx.runs.runs[len(fx.runs.runs)-1]
	require.NotNil(t, last.ErrorText)
	assert.Contains(t, *last.ErrorText, "storage unreachable")
}

func TestRunInvalidDateFails(t *testing.T) {
	fx := newFixture(&models.TournamentSnapshot{}, nil, nil)
	input := testInput()
	input.PickDate = "03/19/2026"

	_, err := fx.workflow.Run(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, []string{models.RunStatusStarted, models.RunStatusFailed}, fx.runs.statuses)
}
