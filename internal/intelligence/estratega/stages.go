package estratega

import (
	"context"
	"time"

	"github.com/praxislegal/lexia/internal/domain/analysis"
	"github.com/praxislegal/lexia/internal/domain/legalcase"
	"github.com/praxislegal/lexia/internal/intelligence/common"
)

// analyzeRisk asks the model for the structured risk matrix. The level
// fields come back normalized: the score decides, not the model's label.
func (a *Analyzer) analyzeRisk(ctx context.Context, facts legalcase.Facts) (*analysis.RiskMatrix, common.TokenUsage, error) {
	prompt, err := buildRiskPrompt(facts)
	if err != nil {
		return nil, common.TokenUsage{}, err
	}
	resp, err := a.complete(ctx, prompt)
	if err != nil {
		return nil, common.TokenUsage{}, err
	}
	var matrix analysis.RiskMatrix
	if err := common.DecodeJSON(resp.Text, &matrix); err != nil {
		return nil, resp.Usage, err
	}
	matrix.Normalize()
	if err := matrix.Validate(); err != nil {
		return nil, resp.Usage, err
	}
	return &matrix, resp.Usage, nil
}

// searchJurisprudence asks the model for illustrative precedents. The
// entries are representative examples, not verified citations.
func (a *Analyzer) searchJurisprudence(ctx context.Context, facts legalcase.Facts) ([]analysis.Jurisprudence, common.TokenUsage, error) {
	prompt, err := buildJurisprudencePrompt(facts)
	if err != nil {
		return nil, common.TokenUsage{}, err
	}
	resp, err := a.complete(ctx, prompt)
	if err != nil {
		return nil, common.TokenUsage{}, err
	}
	var payload struct {
		Precedents []analysis.Jurisprudence `json:"precedents"`
	}
	if err := common.DecodeJSON(resp.Text, &payload); err != nil {
		return nil, resp.Usage, err
	}
	if err := analysis.ValidateJurisprudence(payload.Precedents); err != nil {
		return nil, resp.Usage, err
	}
	return payload.Precedents, resp.Usage, nil
}

// generateScenarios expands the risk matrix into the three fixed strategy
// archetypes.
func (a *Analyzer) generateScenarios(ctx context.Context, facts legalcase.Facts, matrix *analysis.RiskMatrix) ([]analysis.StrategicScenario, common.TokenUsage, error) {
	prompt, err := buildScenarioPrompt(facts, matrix)
	if err != nil {
		return nil, common.TokenUsage{}, err
	}
	resp, err := a.complete(ctx, prompt)
	if err != nil {
		return nil, common.TokenUsage{}, err
	}
	var payload struct {
		Scenarios []analysis.StrategicScenario `json:"scenarios"`
	}
	if err := common.DecodeJSON(resp.Text, &payload); err != nil {
		return nil, resp.Usage, err
	}
	if err := analysis.ValidateScenarios(payload.Scenarios); err != nil {
		return nil, resp.Usage, err
	}
	return payload.Scenarios, resp.Usage, nil
}

// generateTimeline plans milestones for the selected scenario, dates them
// from start and buckets them into phases.
func (a *Analyzer) generateTimeline(ctx context.Context, facts legalcase.Facts, scenario analysis.StrategicScenario, start time.Time) (*analysis.StrategicTimeline, common.TokenUsage, error) {
	prompt, err := buildTimelinePrompt(facts, scenario)
	if err != nil {
		return nil, common.TokenUsage{}, err
	}
	resp, err := a.complete(ctx, prompt)
	if err != nil {
		return nil, common.TokenUsage{}, err
	}
	var payload struct {
		Milestones []analysis.TimelineMilestone `json:"milestones"`
	}
	if err := common.DecodeJSON(resp.Text, &payload); err != nil {
		return nil, resp.Usage, err
	}
	if err := analysis.ValidateMilestones(payload.Milestones); err != nil {
		return nil, resp.Usage, err
	}
	timeline := analysis.BuildTimeline(scenario.Type, start, payload.Milestones)
	return &timeline, resp.Usage, nil
}

// buildRecommendations produces the closing advice from everything the
// earlier stages established.
func (a *Analyzer) buildRecommendations(ctx context.Context, facts legalcase.Facts, matrix *analysis.RiskMatrix,
	scenarios []analysis.StrategicScenario, jurisprudenceCount int) (*analysis.StrategicRecommendations, common.TokenUsage, error) {
	prompt, err := buildRecommendationPrompt(facts, matrix, scenarios, jurisprudenceCount)
	if err != nil {
		return nil, common.TokenUsage{}, err
	}
	resp, err := a.complete(ctx, prompt)
	if err != nil {
		return nil, common.TokenUsage{}, err
	}
	var recs analysis.StrategicRecommendations
	if err := common.DecodeJSON(resp.Text, &recs); err != nil {
		return nil, resp.Usage, err
	}
	if err := recs.Validate(); err != nil {
		return nil, resp.Usage, err
	}
	return &recs, resp.Usage, nil
}
