package analysis

import (
	"fmt"

	"github.com/praxislegal/lexia/pkg/errors"
)

const (
	minRiskFactors = 3
	maxRiskFactors = 8

	minJurisprudence = 2
	maxJurisprudence = 5

	minMilestones = 4
	maxMilestones = 16

	minNextSteps = 3
	maxNextSteps = 7
)

// Normalize re-derives each factor's level and the overall level from the
// scores, discarding whatever level the model reported. The score is the
// source of truth; the level is presentation.
func (m *RiskMatrix) Normalize() {
	for i := range m.Factors {
		m.Factors[i].Level = LevelForScore(m.Factors[i].Score)
	}
	m.RiskLevel = LevelForScore(m.OverallScore)
}

// Validate checks the matrix against its contract: 3-8 factors, scores in
// [0,10], 2-6 recommendations, and levels consistent with scores.
func (m *RiskMatrix) Validate() error {
	if n := len(m.Factors); n < minRiskFactors || n > maxRiskFactors {
		return errors.New(errors.ErrCodeModelResponseMalformed,
			fmt.Sprintf("risk matrix has %d factors, want %d-%d", n, minRiskFactors, maxRiskFactors))
	}
	if m.OverallScore < 0 || m.OverallScore > 10 {
		return errors.New(errors.ErrCodeModelResponseMalformed,
			fmt.Sprintf("overall score %.2f outside [0,10]", m.OverallScore))
	}
	if m.RiskLevel != LevelForScore(m.OverallScore) {
		return errors.New(errors.ErrCodeModelResponseMalformed,
			fmt.Sprintf("overall level %q disagrees with score %.2f", m.RiskLevel, m.OverallScore))
	}
	for _, f := range m.Factors {
		if f.Name == "" {
			return errors.New(errors.ErrCodeModelResponseMalformed, "risk factor missing name")
		}
		if f.Score < 0 || f.Score > 10 {
			return errors.New(errors.ErrCodeModelResponseMalformed,
				fmt.Sprintf("risk factor %q score %.2f outside [0,10]", f.Name, f.Score))
		}
		if f.Level != LevelForScore(f.Score) {
			return errors.New(errors.ErrCodeModelResponseMalformed,
				fmt.Sprintf("risk factor %q level %q disagrees with score %.2f", f.Name, f.Level, f.Score))
		}
	}
	if n := len(m.Recommendations); n < 2 || n > 6 {
		return errors.New(errors.ErrCodeModelResponseMalformed,
			fmt.Sprintf("risk matrix has %d recommendations, want 2-6", n))
	}
	return nil
}

// ValidateJurisprudence checks the precedent list shape: 2-5 entries, each
// with a title and 1-5 key arguments.
func ValidateJurisprudence(items []Jurisprudence) error {
	if n := len(items); n < minJurisprudence || n > maxJurisprudence {
		return errors.New(errors.ErrCodeModelResponseMalformed,
			fmt.Sprintf("jurisprudence list has %d entries, want %d-%d", n, minJurisprudence, maxJurisprudence))
	}
	for _, j := range items {
		if j.Title == "" {
			return errors.New(errors.ErrCodeModelResponseMalformed, "jurisprudence entry missing title")
		}
		if n := len(j.KeyArguments); n < 1 || n > 5 {
			return errors.New(errors.ErrCodeModelResponseMalformed,
				fmt.Sprintf("jurisprudence %q has %d key arguments, want 1-5", j.Title, n))
		}
	}
	return nil
}

// ValidScenarioType reports whether t is a recognized archetype.
func ValidScenarioType(t ScenarioType) bool {
	switch t {
	case ScenarioConservative, ScenarioModerate, ScenarioAggressive:
		return true
	}
	return false
}

// ValidateScenarios checks the scenario set contract: exactly three
// scenarios whose types are exactly {conservative, moderate, aggressive}
// with no duplicates, each within its numeric bounds.
func ValidateScenarios(scenarios []StrategicScenario) error {
	if len(scenarios) != len(ScenarioTypes) {
		return errors.New(errors.ErrCodeScenarioSetInvalid,
			fmt.Sprintf("got %d scenarios, want exactly %d", len(scenarios), len(ScenarioTypes)))
	}
	seen := make(map[ScenarioType]bool, len(ScenarioTypes))
	for _, s := range scenarios {
		if !ValidScenarioType(s.Type) {
			return errors.New(errors.ErrCodeScenarioSetInvalid,
				fmt.Sprintf("unknown scenario type %q", s.Type))
		}
		if seen[s.Type] {
			return errors.New(errors.ErrCodeScenarioSetInvalid,
				fmt.Sprintf("duplicate scenario type %q", s.Type))
		}
		seen[s.Type] = true
		if err := validateScenario(s); err != nil {
			return err
		}
	}
	return nil
}

func validateScenario(s StrategicScenario) error {
	if s.SuccessProbability < 0 || s.SuccessProbability > 100 {
		return errors.New(errors.ErrCodeScenarioSetInvalid,
			fmt.Sprintf("scenario %q probability %.1f outside [0,100]", s.Type, s.SuccessProbability))
	}
	if s.EstimatedDurationMonths < 1 {
		return errors.New(errors.ErrCodeScenarioSetInvalid,
			fmt.Sprintf("scenario %q duration %d months, want >= 1", s.Type, s.EstimatedDurationMonths))
	}
	if s.EstimatedCost.Min < 0 || s.EstimatedCost.Max < s.EstimatedCost.Min {
		return errors.New(errors.ErrCodeScenarioSetInvalid,
			fmt.Sprintf("scenario %q has inverted cost range", s.Type))
	}
	if n := len(s.Pros); n < 2 || n > 5 {
		return errors.New(errors.ErrCodeScenarioSetInvalid,
			fmt.Sprintf("scenario %q has %d pros, want 2-5", s.Type, n))
	}
	if n := len(s.Cons); n < 2 || n > 5 {
		return errors.New(errors.ErrCodeScenarioSetInvalid,
			fmt.Sprintf("scenario %q has %d cons, want 2-5", s.Type, n))
	}
	if n := len(s.RecommendedActions); n < 2 || n > 6 {
		return errors.New(errors.ErrCodeScenarioSetInvalid,
			fmt.Sprintf("scenario %q has %d actions, want 2-6", s.Type, n))
	}
	return nil
}

// ValidPhase reports whether p is one of the four fixed phases.
func ValidPhase(p Phase) bool {
	switch p {
	case PhasePreparation, PhaseNegotiation, PhaseLitigation, PhaseResolution:
		return true
	}
	return false
}

// ValidateMilestones checks the milestone list shape: 4-16 entries, each
// with a unique id, a valid phase and a non-negative offset.
func ValidateMilestones(milestones []TimelineMilestone) error {
	if n := len(milestones); n < minMilestones || n > maxMilestones {
		return errors.New(errors.ErrCodeModelResponseMalformed,
			fmt.Sprintf("timeline has %d milestones, want %d-%d", n, minMilestones, maxMilestones))
	}
	ids := make(map[string]bool, len(milestones))
	for _, ms := range milestones {
		if ms.ID == "" {
			return errors.New(errors.ErrCodeModelResponseMalformed, "milestone missing id")
		}
		if ids[ms.ID] {
			return errors.New(errors.ErrCodeModelResponseMalformed,
				fmt.Sprintf("duplicate milestone id %q", ms.ID))
		}
		ids[ms.ID] = true
		if !ValidPhase(ms.Phase) {
			return errors.New(errors.ErrCodeModelResponseMalformed,
				fmt.Sprintf("milestone %q has unknown phase %q", ms.ID, ms.Phase))
		}
		if ms.OffsetDays < 0 {
			return errors.New(errors.ErrCodeModelResponseMalformed,
				fmt.Sprintf("milestone %q has negative offset %d", ms.ID, ms.OffsetDays))
		}
	}
	return ValidateDependencyGraph(milestones)
}

// ValidateDependencyGraph rejects dependency references to unknown
// milestones and dependency cycles. Milestone dependencies must form a DAG
// for the critical path to be meaningful.
func ValidateDependencyGraph(milestones []TimelineMilestone) error {
	deps := make(map[string][]string, len(milestones))
	for _, ms := range milestones {
		deps[ms.ID] = ms.Dependencies
	}
	for _, ms := range milestones {
		for _, d := range ms.Dependencies {
			if _, ok := deps[d]; !ok {
				return errors.New(errors.ErrCodeTimelineGraphInvalid,
					fmt.Sprintf("milestone %q depends on unknown milestone %q", ms.ID, d))
			}
			if d == ms.ID {
				return errors.New(errors.ErrCodeTimelineGraphInvalid,
					fmt.Sprintf("milestone %q depends on itself", ms.ID))
			}
		}
	}

	// Three-color DFS for cycle detection.
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(deps))
	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		for _, d := range deps[id] {
			switch color[d] {
			case gray:
				return errors.New(errors.ErrCodeTimelineGraphInvalid,
					fmt.Sprintf("dependency cycle through milestone %q", d))
			case white:
				if err := visit(d); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}
	for id := range deps {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateRecommendations checks the closing advice shape.
func (r *StrategicRecommendations) Validate() error {
	if !ValidScenarioType(r.PrimaryStrategy) {
		return errors.New(errors.ErrCodeModelResponseMalformed,
			fmt.Sprintf("unknown primary strategy %q", r.PrimaryStrategy))
	}
	if r.Reasoning == "" {
		return errors.New(errors.ErrCodeModelResponseMalformed, "recommendations missing reasoning")
	}
	if n := len(r.NextSteps); n < minNextSteps || n > maxNextSteps {
		return errors.New(errors.ErrCodeModelResponseMalformed,
			fmt.Sprintf("recommendations have %d next steps, want %d-%d", n, minNextSteps, maxNextSteps))
	}
	return nil
}

// Validate checks the assembled composite before persistence.
func (a *StrategicAnalysis) Validate() error {
	if err := a.RiskMatrix.Validate(); err != nil {
		return err
	}
	if err := ValidateScenarios(a.Scenarios); err != nil {
		return err
	}
	if err := ValidateJurisprudence(a.Jurisprudence); err != nil {
		return err
	}
	if err := a.Recommendations.Validate(); err != nil {
		return err
	}
	if len(a.Timeline.Phases) == 0 {
		return errors.New(errors.ErrCodeAnalysisShapeInvalid, "timeline has no phases")
	}
	for _, p := range a.Timeline.Phases {
		if len(p.Milestones) == 0 {
			return errors.New(errors.ErrCodeAnalysisShapeInvalid,
				fmt.Sprintf("timeline phase %q has no milestones", p.Phase))
		}
	}
	return nil
}
