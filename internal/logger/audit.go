// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPickRecorded logs a confirmed survivor pick recording.
func (al *AuditLogger) LogPickRecorded(userID string, year int, pickDate, team string, seed *int, confidence *int) {
	fields := logrus.Fields{
		"user_id":         userID,
		"tournament_year": year,
		"pick_date":       pickDate,
		"team":            team,
	}
	if seed != nil {
		fields["seed"] = *seed
	}
	if confidence != nil {
		fields["confidence"] = *confidence
	}
	al.WithFields(fields).Info("Survivor pick recorded")
}

// LogPickRejected logs a rejected recording attempt (duplicate team or date).
func (al *AuditLogger) LogPickRejected(userID string, year int, pickDate, team, reason string) {
	al.WithFields(logrus.Fields{
		"user_id":         userID,
		"tournament_year": year,
		"pick_date":       pickDate,
		"team":            team,
		"reason":          reason,
	}).Warn("Survivor pick rejected")
}

// LogRecommendation logs a persisted daily recommendation.
func (al *AuditLogger) LogRecommendation(userID string, year int, pickDate, status string, team *string, eliminationRisk float64) {
	fields := logrus.Fields{
		"user_id":          userID,
		"tournament_year":  year,
		"pick_date":        pickDate,
		"status":           status,
		"elimination_risk": eliminationRisk,
	}
	if team != nil {
		fields["team"] = *team
	}
	al.WithFields(fields).Info("Daily recommendation persisted")
}

// LogWorkflowRunTransition logs a workflow run status change.
func (al *AuditLogger) LogWorkflowRunTransition(runID, userID string, year int, pickDate, status string, sources []string) {
	al.WithFields(logrus.Fields{
		"run_id":          runID,
		"user_id":         userID,
		"tournament_year": year,
		"pick_date":       pickDate,
		"status":          status,
		"sources":         sources,
	}).Info("Workflow run status changed")
}
