// Package main provides the entry point for the survivor decision service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/bracket-survivor/internal/config"
	"github.com/yourusername/bracket-survivor/internal/database"
	"github.com/yourusername/bracket-survivor/internal/datasource"
	"github.com/yourusername/bracket-survivor/internal/health"
	"github.com/yourusername/bracket-survivor/internal/logger"
	"github.com/yourusername/bracket-survivor/internal/repository"
	"github.com/yourusername/bracket-survivor/internal/scheduler"
	"github.com/yourusername/bracket-survivor/internal/workflow"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults(os.Getenv("SURVIVOR_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Bracket Survivor service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection and schema
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Initialize repositories
	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create repositories")
	}

	// Initialize data source clients
	httpLogger := log.New(os.Stdout, "datasource: ", log.LstdFlags)
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

	if !cfg.OddsConfigured() {
		appLog.Info("Odds API key not configured; decisions will use the seed baseline")
	}

	// Build the daily workflow
	audit := logger.NewAuditLogger(appLog)
	daily := workflow.New(repos, scheduleClient, oddsClient, appLog, audit)

	// Start the scheduler if enabled
	var sched *scheduler.Scheduler
	if cfg.Survivor.SchedulerEnabled {
		sched = scheduler.New(daily, cfg.Survivor, appLog)
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		appLog.WithFields(logrus.Fields{
			"user_id":         cfg.Survivor.UserID,
			"tournament_year": cfg.Survivor.TournamentYear,
			"risk_mode":       cfg.Survivor.RiskMode,
		}).Info("Daily decision scheduler started")
	} else {
		appLog.Info("Scheduler disabled; use survivorctl to run the workflow manually")
	}

	// Start the health and metrics server
	var nextRunner interface{ NextRun() time.Time }
	if sched != nil {
		nextRunner = sched
	}
	healthServer := health.New(cfg.App.Name, cfg.Metrics, appLog, db, nextRunner)
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error during scheduler shutdown")
		}
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during health server shutdown")
	}

	appLog.Info("Bracket Survivor service shut down successfully")
}
