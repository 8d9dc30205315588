// Package workflow implements the daily survivor decision pipeline: a
// five-stage state machine that loads history and the day's slate, ingests
// odds, ranks legal candidates, and persists a recommendation plus an audit
// record for the run.
package workflow

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bracket-survivor/internal/datasource"
	"github.com/yourusername/bracket-survivor/internal/logger"
	"github.com/yourusername/bracket-survivor/internal/metrics"
	"github.com/yourusername/bracket-survivor/internal/models"
	"github.com/yourusername/bracket-survivor/internal/repository"
	"github.com/yourusername/bracket-survivor/internal/scoring"
)

// WorkflowID keys the per-day audit row for this pipeline.
const WorkflowID = "survivor-daily-workflow"

const pickDateLayout = "2006-01-02"

// Stage identifies one state of the pipeline. Stages execute strictly in
// order; there is no branching back.
type Stage string

// Pipeline stages.
const (
	StageStart   Stage = "start"
	StageContext Stage = "context"
	StageIngest  Stage = "ingest"
	StageDecide  Stage = "decide"
	StagePersist Stage = "persist"
)

// Terminal decision statuses. All are normal outcomes, not errors.
const (
	StatusRecommended   = "recommended"
	StatusAlreadyPicked = "already-picked"
	StatusEliminated    = "eliminated"
	StatusNoGames       = "no-games"
	StatusNoLegalPicks  = "no-legal-picks"
)

// Data source names recorded in the audit trail.
const (
	sourcePicks    = "survivor_picks"
	sourceSchedule = "ncaa_schedule"
	sourceOddsAPI  = "odds_api"
	sourceBaseline = "historical_seed_baseline_internal"
)

// strategyGuidelines are attached to every decision result for the
// conversational surface to relay.
var strategyGuidelines = []string{
	"Never pick a team twice in the same tournament.",
	"Prioritize survival while preserving top seeds early.",
	"Avoid close games when safer legal options exist.",
}

// Input identifies one daily run.
type Input struct {
	UserID         string
	TournamentYear int
	PickDate       string // YYYY-MM-DD
	RiskMode       string
}

// Result is the decision stage's output, persisted by the final stage.
type Result struct {
	Status             string
	RecommendedPick    *models.CandidateOption
	Alternates         []*models.CandidateOption
	EliminationRisk    float64
	Reasons            []string
	DataSourcesUsed    []string
	StrategyGuidelines []string
}

// DailyWorkflow wires the decision core to its collaborators.
type DailyWorkflow struct {
	picks    repository.PickRepository
	recs     repository.RecommendationRepository
	runs     repository.WorkflowRunRepository
	schedule datasource.ScheduleSource
	odds     datasource.OddsSource
	log      *logrus.Logger
	audit    *logger.AuditLogger
}

// New creates a DailyWorkflow.
func New(repos *repository.Repositories, schedule datasource.ScheduleSource, odds datasource.OddsSource, log *logrus.Logger, audit *logger.AuditLogger) *DailyWorkflow {
	return &DailyWorkflow{
		picks:    repos.Pick,
		recs:     repos.Recommendation,
		runs:     repos.WorkflowRun,
		schedule: schedule,
		odds:     odds,
		log:      log,
		audit:    audit,
	}
}

// runState carries one run's accumulated data across stages.
type runState struct {
	input    Input
	runID    string
	stage    Stage
	snapshot *models.TournamentSnapshot
	games    []*models.Game
	odds     models.OddsSnapshot
	result   *Result
}

// Run executes the five stages in order for one (user, year, date). Any
// fault after the start stage finalizes the audit row with status failed
// before propagating, so a crashed run is observable instead of stuck in
// started.
func (w *DailyWorkflow) Run(ctx context.Context, input Input) (result *Result, err error) {
	if input.RiskMode == "" {
		input.RiskMode = scoring.RiskModeBalanced
	}
	state := &runState{input: input, runID: uuid.New().String(), stage: StageStart}

	w.log.WithFields(logrus.Fields{
		"run_id":    state.runID,
		"user_id":   input.UserID,
		"pick_date": input.PickDate,
		"risk_mode": input.RiskMode,
	}).Info("Daily survivor workflow starting")

	if err = w.stageStart(ctx, state); err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			w.finalizeFailed(ctx, state, err)
		}
	}()

	for _, stage := range []struct {
		name Stage
		fn   func(context.Context, *runState) error
	}{
		{StageContext, w.stageContext},
		{StageIngest, w.stageIngest},
		{StageDecide, w.stageDecide},
		{StagePersist, w.stagePersist},
	} {
		state.stage = stage.name
		if err = stage.fn(ctx, state); err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.name, err)
		}
	}

	return state.result, nil
}

// stageStart marks the run as started in the audit trail.
func (w *DailyWorkflow) stageStart(ctx context.Context, state *runState) error {
	run := &models.WorkflowRun{
		UserID:         state.input.UserID,
		TournamentYear: state.input.TournamentYear,
		PickDate:       state.input.PickDate,
		WorkflowID:     WorkflowID,
		RunStatus:      models.RunStatusStarted,
		Summary:        map[string]interface{}{"message": "started"},
	}
	if err := w.runs.Upsert(ctx, run); err != nil {
		return fmt.Errorf("stage start: %w", err)
	}
	w.audit.LogWorkflowRunTransition(state.runID, state.input.UserID, state.input.TournamentYear, state.input.PickDate, models.RunStatusStarted, nil)
	return nil
}

// stageContext loads pick history, elimination status, and the day's slate.
func (w *DailyWorkflow) stageContext(ctx context.Context, state *runState) error {
	snapshot, err := w.picks.GetTournamentSnapshot(ctx, state.input.UserID, state.input.TournamentYear, state.input.PickDate)
	if err != nil {
		return err
	}
	state.snapshot = snapshot

	date, err := time.Parse(pickDateLayout, state.input.PickDate)
	if err != nil {
		return fmt.Errorf("invalid pick date %q: %w", state.input.PickDate, err)
	}

	games, err := w.schedule.FetchGames(ctx, date)
	if err != nil {
		// Contract says the schedule source degrades rather than errors,
		// but guard anyway: an empty slate is the correct fallback.
		w.log.WithError(err).Warn("Schedule fetch errored, continuing with empty slate")
		metrics.DataSourceErrorsTotal.WithLabelValues(w.schedule.Name()).Inc()
		games = nil
	}
	state.games = games
	return nil
}

// stageIngest fetches the odds snapshot. Odds are optional: failures
// degrade to an empty snapshot and the run continues on the seed baseline.
func (w *DailyWorkflow) stageIngest(ctx context.Context, state *runState) error {
	snapshot, err := w.odds.FetchOdds(ctx)
	if err != nil {
		w.log.WithError(err).Warn("Odds fetch errored, continuing without odds")
		metrics.DataSourceErrorsTotal.WithLabelValues(w.odds.Name()).Inc()
		snapshot = models.OddsSnapshot{}
	}
	state.odds = snapshot
	return nil
}

// stageDecide applies the terminal short-circuits and otherwise ranks the
// slate's legal candidates.
func (w *DailyWorkflow) stageDecide(_ context.Context, state *runState) error {
	switch {
	case state.snapshot.IsEliminated:
		state.result = terminalResult(StatusEliminated, 1, "User eliminated", []string{sourcePicks})
		return nil
	case state.snapshot.PickAlreadyMadeForDate != nil:
		state.result = terminalResult(StatusAlreadyPicked, 0, "Pick already exists", []string{sourcePicks})
		return nil
	case len(state.games) == 0:
		state.result = terminalResult(StatusNoGames, 0, "No games today", []string{sourceSchedule})
		return nil
	}

	round := scoring.InferRoundByGameCount(len(state.games))
	ranked := scoring.RankCandidates(state.games, state.odds, state.snapshot.TeamsUsed, round, state.input.RiskMode)
	metrics.LastCandidateCount.Set(float64(len(ranked.Options)))

	if len(ranked.Options) == 0 {
		state.result = terminalResult(StatusNoLegalPicks, 1, "No legal team left", []string{sourcePicks, sourceSchedule})
		return nil
	}

	top := ranked.Options[0]
	alternates := ranked.Options[1:]
	if len(alternates) > 2 {
		alternates = alternates[:2]
	}

	reason := fmt.Sprintf("Selected %s for best adjusted survival score.", top.Team)
	if ranked.UsedSeedRangeBand {
		reason = fmt.Sprintf("Selected %s after applying first-round seed preference (4-10).", top.Team)
	}

	sources := []string{sourcePicks, sourceSchedule}
	if ranked.UsedOddsAPI {
		sources = append(sources, sourceOddsAPI)
	}
	if ranked.UsedSeedBaseline {
		sources = append(sources, sourceBaseline)
	}

	state.result = &Result{
		Status:             StatusRecommended,
		RecommendedPick:    top,
		Alternates:         alternates,
		EliminationRisk:    round4(1 - top.WinProbability),
		Reasons:            []string{reason},
		DataSourcesUsed:    sources,
		StrategyGuidelines: strategyGuidelines,
	}
	return nil
}

// stagePersist upserts the recommendation row and finalizes the audit row.
func (w *DailyWorkflow) stagePersist(ctx context.Context, state *runState) error {
	result := state.result
	rec := &models.Recommendation{
		UserID:         state.input.UserID,
		TournamentYear: state.input.TournamentYear,
		PickDate:       state.input.PickDate,
		Metadata: map[string]interface{}{
			"status":          result.Status,
			"eliminationRisk": result.EliminationRisk,
		},
	}
	if len(result.Reasons) > 0 {
		rec.Rationale = &result.Reasons[0]
	}
	if pick := result.RecommendedPick; pick != nil {
		rec.RecommendedTeam = &pick.Team
		rec.RecommendedSeed = pick.Seed
		rec.Opponent = &pick.Opponent
		rec.OpponentSeed = pick.OpponentSeed
		rec.Confidence = &pick.Confidence
		rec.Score = &pick.Score
		rec.RankedOptions = append([]*models.CandidateOption{pick}, result.Alternates...)
	}
	if err := w.recs.Upsert(ctx, rec); err != nil {
		return err
	}

	runStatus := models.RunStatusSkipped
	if result.Status == StatusRecommended {
		runStatus = models.RunStatusCompleted
	}
	summary := map[string]interface{}{"status": result.Status}
	if result.RecommendedPick != nil {
		summary["team"] = result.RecommendedPick.Team
	}
	run := &models.WorkflowRun{
		UserID:         state.input.UserID,
		TournamentYear: state.input.TournamentYear,
		PickDate:       state.input.PickDate,
		WorkflowID:     WorkflowID,
		RunStatus:      runStatus,
		Sources:        result.DataSourcesUsed,
		Summary:        summary,
	}
	if err := w.runs.Upsert(ctx, run); err != nil {
		return err
	}

	metrics.WorkflowRunsTotal.WithLabelValues(result.Status).Inc()
	metrics.LastEliminationRisk.Set(result.EliminationRisk)
	w.audit.LogRecommendation(state.input.UserID, state.input.TournamentYear, state.input.PickDate, result.Status, rec.RecommendedTeam, result.EliminationRisk)
	w.audit.LogWorkflowRunTransition(state.runID, state.input.UserID, state.input.TournamentYear, state.input.PickDate, runStatus, result.DataSourcesUsed)
	return nil
}

// finalizeFailed records a failed run so faults are observable in the audit
// trail. Best effort: if the store itself is down this write fails too and
// the row stays in started.
func (w *DailyWorkflow) finalizeFailed(ctx context.Context, state *runState, cause error) {
	errText := fmt.Sprintf("stage %s: %v", state.stage, cause)
	run := &models.WorkflowRun{
		UserID:         state.input.UserID,
		TournamentYear: state.input.TournamentYear,
		PickDate:       state.input.PickDate,
		WorkflowID:     WorkflowID,
		RunStatus:      models.RunStatusFailed,
		Summary:        map[string]interface{}{"stage": string(state.stage)},
		ErrorText:      &errText,
	}
	if upsertErr := w.runs.Upsert(ctx, run); upsertErr != nil {
		w.log.WithError(upsertErr).Error("Failed to finalize workflow run as failed")
		return
	}
	metrics.WorkflowRunsTotal.WithLabelValues(models.RunStatusFailed).Inc()
	w.audit.LogWorkflowRunTransition(state.runID, state.input.UserID, state.input.TournamentYear, state.input.PickDate, models.RunStatusFailed, nil)
}

func terminalResult(status string, risk float64, reason string, sources []string) *Result {
	return &Result{
		Status:             status,
		EliminationRisk:    risk,
		Reasons:            []string{reason},
		DataSourcesUsed:    sources,
		StrategyGuidelines: strategyGuidelines,
	}
}

func round4(value float64) float64 {
	return math.Round(value*1e4) / 1e4
}
