package kafka

import (
	"time"

	"github.com/google/uuid"
)

// Default topic names, overridable through configuration.
const (
	DefaultAnalysisTopic = "lexia.analysis.completed"
	DefaultDraftTopic    = "lexia.draft.completed"
)

// AnalysisCompletedEvent is emitted once a strategic analysis has been
// persisted. Consumers use it for billing rollups and notification fan-out;
// the full report stays in Postgres and is not carried on the wire.
type AnalysisCompletedEvent struct {
	AnalysisID      uuid.UUID `json:"analysis_id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	UserID          uuid.UUID `json:"user_id"`
	CaseID          uuid.UUID `json:"case_id"`
	CaseNumber      string    `json:"case_number"`
	RiskLevel       string    `json:"risk_level"`
	OverallScore    float64   `json:"overall_score"`
	PrimaryStrategy string    `json:"primary_strategy"`
	TotalTokens     int       `json:"total_tokens"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// DraftCompletedEvent is emitted after a document draft stream finishes.
type DraftCompletedEvent struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	UserID       uuid.UUID `json:"user_id"`
	DocumentType string    `json:"document_type"`
	TotalTokens  int       `json:"total_tokens"`
	CompletedAt  time.Time `json:"completed_at"`
}
