package analysis

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel buckets a numeric risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// LevelForScore maps a 0-10 score onto a RiskLevel using fixed thresholds:
// 0-3 low, 4-6 medium, 7-8 high, 9-10 critical. Scores are rounded to the
// nearest integer before bucketing so 3.6 lands in medium.
func LevelForScore(score float64) RiskLevel {
	s := int(score + 0.5)
	switch {
	case s <= 3:
		return RiskLow
	case s <= 6:
		return RiskMedium
	case s <= 8:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// RiskFactor is one identified source of risk in a case.
type RiskFactor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Score       float64   `json:"score"`
	Level       RiskLevel `json:"level"`
	Category    string    `json:"category"`
	Mitigation  string    `json:"mitigation"`
}

// RiskMatrix is the structured risk assessment for a case.
type RiskMatrix struct {
	Factors         []RiskFactor `json:"factors"`
	OverallScore    float64      `json:"overall_score"`
	RiskLevel       RiskLevel    `json:"risk_level"`
	Summary         string       `json:"summary"`
	Recommendations []string     `json:"recommendations"`
}

// Jurisprudence is one illustrative precedent citation. The entries are
// model-generated examples, not records retrieved from a case-law database,
// so the date stays free text and no field is checked against a registry.
type Jurisprudence struct {
	Title           string   `json:"title"`
	Court           string   `json:"court"`
	Date            string   `json:"date"`
	Summary         string   `json:"summary"`
	Relevance       string   `json:"relevance"`
	KeyArguments    []string `json:"key_arguments"`
	URL             string   `json:"url,omitempty"`
	Indemnification string   `json:"indemnification,omitempty"`
}

// ScenarioType identifies one of the three fixed strategy archetypes.
type ScenarioType string

const (
	ScenarioConservative ScenarioType = "conservative"
	ScenarioModerate     ScenarioType = "moderate"
	ScenarioAggressive   ScenarioType = "aggressive"
)

// ScenarioTypes lists the archetypes in presentation order.
var ScenarioTypes = []ScenarioType{ScenarioConservative, ScenarioModerate, ScenarioAggressive}

// CostRange is an estimated cost interval in the tenant's currency.
type CostRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ActionPriority ranks a recommended action.
type ActionPriority string

const (
	PriorityHigh   ActionPriority = "high"
	PriorityMedium ActionPriority = "medium"
	PriorityLow    ActionPriority = "low"
)

// RecommendedAction is one concrete step inside a scenario.
type RecommendedAction struct {
	Action    string         `json:"action"`
	Timeframe string         `json:"timeframe"`
	Priority  ActionPriority `json:"priority"`
}

// StrategicScenario is one of the three strategy archetypes expanded with
// estimates for the case at hand.
type StrategicScenario struct {
	Type                    ScenarioType        `json:"type"`
	Name                    string              `json:"name"`
	Description             string              `json:"description"`
	SuccessProbability      float64             `json:"success_probability"`
	EstimatedDurationMonths int                 `json:"estimated_duration_months"`
	EstimatedCost           CostRange           `json:"estimated_cost"`
	Pros                    []string            `json:"pros"`
	Cons                    []string            `json:"cons"`
	RecommendedActions      []RecommendedAction `json:"recommended_actions"`
}

// Phase names one of the four fixed litigation phases.
type Phase string

const (
	PhasePreparation Phase = "preparation"
	PhaseNegotiation Phase = "negotiation"
	PhaseLitigation  Phase = "litigation"
	PhaseResolution  Phase = "resolution"
)

// Phases lists the phases in chronological order.
var Phases = []Phase{PhasePreparation, PhaseNegotiation, PhaseLitigation, PhaseResolution}

// TimelineMilestone is one dated step in the strategic timeline. OffsetDays
// is the model's relative placement; EstimatedDate is derived from it.
type TimelineMilestone struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Phase         Phase     `json:"phase"`
	OffsetDays    int       `json:"offset_days"`
	EstimatedDate time.Time `json:"estimated_date"`
	IsCritical    bool      `json:"is_critical"`
	Dependencies  []string  `json:"dependencies,omitempty"`
	Alerts        []string  `json:"alerts,omitempty"`
}

// TimelinePhase groups the milestones of one phase. Start and End are the
// min and max of the member milestones' dates.
type TimelinePhase struct {
	Phase      Phase               `json:"phase"`
	Start      time.Time           `json:"start"`
	End        time.Time           `json:"end"`
	Milestones []TimelineMilestone `json:"milestones"`
}

// StrategicTimeline is the dated execution plan for the selected scenario.
type StrategicTimeline struct {
	ScenarioType      ScenarioType    `json:"scenario_type"`
	StartDate         time.Time       `json:"start_date"`
	Phases            []TimelinePhase `json:"phases"`
	CriticalPath      []string        `json:"critical_path"`
	TotalDurationDays int             `json:"total_duration_days"`
	Alerts            []string        `json:"alerts,omitempty"`
}

// StrategicRecommendations is the closing advice of an analysis.
type StrategicRecommendations struct {
	PrimaryStrategy ScenarioType `json:"primary_strategy"`
	Reasoning       string       `json:"reasoning"`
	NextSteps       []string     `json:"next_steps"`
}

// Metadata records provenance and cost accounting for one analysis run.
type Metadata struct {
	Version     string `json:"version"`
	Model       string `json:"model"`
	TotalTokens int    `json:"total_tokens"`
	DurationMS  int64  `json:"duration_ms"`
}

// StrategicAnalysis is the composite report produced by one pipeline run.
type StrategicAnalysis struct {
	ID              uuid.UUID                `json:"id"`
	TenantID        uuid.UUID                `json:"tenant_id"`
	CaseID          uuid.UUID                `json:"case_id"`
	CaseNumber      string                   `json:"case_number"`
	CaseTitle       string                   `json:"case_title"`
	UserID          uuid.UUID                `json:"user_id"`
	AnalyzedAt      time.Time                `json:"analyzed_at"`
	RiskMatrix      RiskMatrix               `json:"risk_matrix"`
	Scenarios       []StrategicScenario      `json:"scenarios"`
	Jurisprudence   []Jurisprudence          `json:"jurisprudence"`
	Timeline        StrategicTimeline        `json:"timeline"`
	Recommendations StrategicRecommendations `json:"recommendations"`
	Metadata        Metadata                 `json:"metadata"`
}

// Summary is the projection of an analysis returned by list endpoints.
type Summary struct {
	ID           uuid.UUID    `json:"id"`
	CaseID       uuid.UUID    `json:"case_id"`
	CaseNumber   string       `json:"case_number"`
	CaseTitle    string       `json:"case_title"`
	AnalyzedAt   time.Time    `json:"analyzed_at"`
	RiskLevel    RiskLevel    `json:"risk_level"`
	OverallScore float64      `json:"overall_score"`
	Strategy     ScenarioType `json:"primary_strategy"`
	TotalTokens  int          `json:"total_tokens"`
}

// Summarize builds the list projection of the analysis.
func (a *StrategicAnalysis) Summarize() Summary {
	return Summary{
		ID:           a.ID,
		CaseID:       a.CaseID,
		CaseNumber:   a.CaseNumber,
		CaseTitle:    a.CaseTitle,
		AnalyzedAt:   a.AnalyzedAt,
		RiskLevel:    a.RiskMatrix.RiskLevel,
		OverallScore: a.RiskMatrix.OverallScore,
		Strategy:     a.Recommendations.PrimaryStrategy,
		TotalTokens:  a.Metadata.TotalTokens,
	}
}
