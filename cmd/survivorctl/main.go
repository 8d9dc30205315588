// Package main provides the survivorctl command line tool for running the
// daily workflow, recording picks, and inspecting tournament state.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/bracket-survivor/internal/config"
	"github.com/yourusername/bracket-survivor/internal/database"
	"github.com/yourusername/bracket-survivor/internal/datasource"
	"github.com/yourusername/bracket-survivor/internal/logger"
	"github.com/yourusername/bracket-survivor/internal/models"
	"github.com/yourusername/bracket-survivor/internal/repository"
	"github.com/yourusername/bracket-survivor/internal/workflow"
)

var (
	configFile string
	userID     string
	year       int
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "User ID (defaults to configured user)")
	rootCmd.PersistentFlags().IntVarP(&year, "year", "y", 0, "Tournament year (defaults to configured year)")

	runCmd.Flags().String("date", "", "Pick date YYYY-MM-DD (defaults to today UTC)")
	runCmd.Flags().String("risk-mode", "", "Risk mode: balanced or win_pool")

	recordCmd.Flags().String("date", "", "Pick date YYYY-MM-DD (defaults to today UTC)")
	recordCmd.Flags().String("team", "", "Team name to record")
	recordCmd.Flags().Int("seed", 0, "Team seed")
	recordCmd.Flags().String("opponent", "", "Opponent team name")
	recordCmd.Flags().Int("confidence", 0, "Confidence 0-100")
	_ = recordCmd.MarkFlagRequired("team")

	resultCmd.Flags().String("team", "", "Team whose result to update")
	resultCmd.Flags().String("result", "", "Result: win or loss")
	_ = resultCmd.MarkFlagRequired("team")
	_ = resultCmd.MarkFlagRequired("result")

	gameCmd.Flags().String("id", "", "NCAA game ID")
	_ = gameCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(runCmd, recordCmd, historyCmd, snapshotCmd, resultCmd, gameCmd)
}

var rootCmd = &cobra.Command{
	Use:   "survivorctl",
	Short: "Manage the survivor pool decision engine",
	Long:  `Runs the daily decision workflow, records picks, updates results, and inspects tournament state.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if userID == "" {
		userID = cfg.Survivor.UserID
	}
	if year == 0 {
		year = cfg.Survivor.TournamentYear
	}
	return nil
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger("warn")

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func newScheduleClient() *datasource.NCAAClient {
	httpLogger := log.New(os.Stderr, "datasource: ", log.LstdFlags)
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), httpLogger)
	return datasource.NewNCAAClient(httpClient, cfg.Schedule.BaseURL, httpLogger)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daily decision workflow once",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		if date == "" {
			date = time.Now().UTC().Format("2006-01-02")
		}
		riskMode, _ := cmd.Flags().GetString("risk-mode")
		if riskMode == "" {
			riskMode = cfg.Survivor.RiskMode
		}

		httpLogger := log.New(os.Stderr, "datasource: ", log.LstdFlags)
		httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), httpLogger)
		defer httpClient.Close()
		scheduleClient := datasource.NewNCAAClient(httpClient, cfg.Schedule.BaseURL, httpLogger)
		oddsClient := datasource.NewOddsAPIClient(
			httpClient,
			cfg.Odds.BaseURL,
			cfg.Odds.APIKey,
			cfg.Odds.Sport,
			cfg.Odds.Regions,
			time.Duration(cfg.Odds.CacheTTLMinutes)*time.Minute,
			httpLogger,
		)

		daily := workflow.New(repos, scheduleClient, oddsClient, appLog, logger.NewAuditLogger(appLog))

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Survivor.RunTimeoutSeconds)*time.Second)
		defer cancel()

		result, err := daily.Run(ctx, workflow.Input{
			UserID:         userID,
			TournamentYear: year,
			PickDate:       date,
			RiskMode:       riskMode,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Status: %s\n", result.Status)
		fmt.Printf("Elimination risk: %.4f\n", result.EliminationRisk)
		for _, reason := range result.Reasons {
			fmt.Printf("Reason: %s\n", reason)
		}
		if pick := result.RecommendedPick; pick != nil {
			fmt.Printf("\nRecommended: %s (confidence %d)\n", pick.Team, pick.Confidence)
			fmt.Printf("  vs %s, score %.4f\n", pick.Opponent, pick.Score)
		}
		for i, alt := range result.Alternates {
			fmt.Printf("Alternate %d: %s (score %.4f)\n", i+1, alt.Team, alt.Score)
		}
		fmt.Printf("\nData sources: %v\n", result.DataSourcesUsed)
		return nil
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a survivor pick",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		if date == "" {
			date = time.Now().UTC().Format("2006-01-02")
		}
		team, _ := cmd.Flags().GetString("team")

		pick := &models.Pick{
			UserID:         userID,
			TournamentYear: year,
			PickDate:       date,
			TeamName:       team,
			Result:         models.ResultPending,
		}
		if seed, _ := cmd.Flags().GetInt("seed"); seed > 0 {
			pick.TeamSeed = &seed
		}
		if opponent, _ := cmd.Flags().GetString("opponent"); opponent != "" {
			pick.Opponent = &opponent
		}
		if confidence, _ := cmd.Flags().GetInt("confidence"); confidence > 0 {
			pick.Confidence = &confidence
		}

		result, err := repos.Pick.Record(cmd.Context(), pick)
		if err != nil {
			return err
		}
		audit := logger.NewAuditLogger(appLog)
		if !result.Success {
			audit.LogPickRejected(userID, year, date, team, result.Reason)
			fmt.Printf("Rejected: %s\n", result.Reason)
			os.Exit(1)
		}
		audit.LogPickRecorded(userID, year, date, team, pick.TeamSeed, pick.Confidence)
		fmt.Printf("Recorded %s for %s\n", team, date)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show pick history for the tournament",
	RunE: func(cmd *cobra.Command, args []string) error {
		picks, err := repos.Pick.GetHistory(cmd.Context(), userID, year)
		if err != nil {
			return err
		}
		if len(picks) == 0 {
			fmt.Println("No picks recorded.")
			return nil
		}
		for _, pick := range picks {
			seed := "-"
			if pick.TeamSeed != nil {
				seed = fmt.Sprintf("%d", *pick.TeamSeed)
			}
			fmt.Printf("%s  %-24s seed %-3s %s\n", pick.PickDate, pick.TeamName, seed, pick.Result)
		}
		return nil
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show tournament status: teams used and elimination state",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().UTC().Format("2006-01-02")
		snapshot, err := repos.Pick.GetTournamentSnapshot(cmd.Context(), userID, year, date)
		if err != nil {
			return err
		}
		fmt.Printf("Picks made: %d\n", len(snapshot.Picks))
		fmt.Printf("Teams used: %v\n", snapshot.TeamsUsed)
		fmt.Printf("Eliminated: %v\n", snapshot.IsEliminated)
		if snapshot.PickAlreadyMadeForDate != nil {
			fmt.Printf("Today's pick: %s\n", snapshot.PickAlreadyMadeForDate.TeamName)
		}
		return nil
	},
}

var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Update the result of a recorded pick",
	RunE: func(cmd *cobra.Command, args []string) error {
		team, _ := cmd.Flags().GetString("team")
		result, _ := cmd.Flags().GetString("result")

		if err := repos.Pick.UpdateResult(cmd.Context(), userID, year, team, result); err != nil {
			return err
		}
		fmt.Printf("Updated %s to %s\n", team, result)
		return nil
	},
}

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Fetch box score details for a game",
	RunE: func(cmd *cobra.Command, args []string) error {
		gameID, _ := cmd.Flags().GetString("id")

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		details, err := newScheduleClient().FetchGameDetails(ctx, gameID)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(details, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}
