package estratega

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/praxislegal/lexia/internal/domain/analysis"
	"github.com/praxislegal/lexia/internal/domain/legalcase"
)

// systemPrompt frames every pipeline call. Stage prompts carry the
// task-specific instructions and the strict output contract.
const systemPrompt = `You are a senior litigation strategist advising a law firm. ` +
	`Answer only with a single JSON document matching the requested schema exactly. ` +
	`Do not add prose, markdown fences, or fields outside the schema.`

// ---------------------------------------------------------------------------
// Case facts rendering
// ---------------------------------------------------------------------------

// renderCaseFacts produces the shared facts block used by every stage.
func renderCaseFacts(facts legalcase.Facts) string {
	var b strings.Builder
	b.WriteString("Case number: " + facts.CaseNumber + "\n")
	b.WriteString("Title: " + facts.Title + "\n")
	b.WriteString("Type: " + string(facts.Type) + "\n")
	if facts.Jurisdiction != "" {
		b.WriteString("Jurisdiction: " + facts.Jurisdiction + "\n")
	}
	if facts.Court != "" {
		b.WriteString("Court: " + facts.Court + "\n")
	}
	if facts.FilingDate != nil && !facts.FilingDate.IsZero() {
		b.WriteString("Filing date: " + facts.FilingDate.Format("2006-01-02") + "\n")
	}
	if facts.EstimatedValue != nil {
		b.WriteString(fmt.Sprintf("Estimated value: %.2f\n", *facts.EstimatedValue))
	}
	b.WriteString("\nFacts:\n")
	b.WriteString(facts.Description)
	return b.String()
}

// ---------------------------------------------------------------------------
// Stage prompt templates
// ---------------------------------------------------------------------------

var riskPromptTmpl = template.Must(template.New("risk").Parse(
	`Assess the litigation risk of the following case.

{{.Facts}}

Identify between 3 and 8 distinct risk factors. Score each factor from 0 to 10
and assign its level using these exact thresholds: 0-3 "low", 4-6 "medium",
7-8 "high", 9-10 "critical". Provide an overall score on the same scale and
2 to 6 short mitigation recommendations.

Respond with JSON:
{
  "factors": [
    {"id": "rf-1", "name": "...", "description": "...", "score": 0,
     "level": "low|medium|high|critical", "category": "...", "mitigation": "..."}
  ],
  "overall_score": 0,
  "risk_level": "low|medium|high|critical",
  "summary": "...",
  "recommendations": ["..."]
}`))

var jurisprudencePromptTmpl = template.Must(template.New("jurisprudence").Parse(
	`List illustrative judicial precedents relevant to this case.

Case type: {{.Type}}
{{- if .Jurisdiction}}
Jurisdiction: {{.Jurisdiction}}{{end}}

Facts:
{{.Description}}

Return between 2 and 5 representative precedents. Each entry must include the
ruling title, the court, the decision date as written in the ruling, a short
summary, why it is relevant here, and 1 to 5 key legal arguments. Include an
indemnification amount when the ruling awarded one.

Respond with JSON:
{
  "precedents": [
    {"title": "...", "court": "...", "date": "...", "summary": "...",
     "relevance": "...", "key_arguments": ["..."], "url": "",
     "indemnification": ""}
  ]
}`))

var scenarioPromptTmpl = template.Must(template.New("scenarios").Parse(
	`Design litigation strategy scenarios for the following case.

{{.Facts}}

Risk assessment summary: {{.RiskSummary}}
Overall risk: {{.RiskLevel}} ({{printf "%.1f" .RiskScore}}/10)

Produce exactly three scenarios, in this order and with these exact type
values: "conservative" (settlement-oriented, minimal exposure), "moderate"
(balanced negotiation with litigation readiness), "aggressive" (full
litigation posture). For each scenario give a name, a description, a success
probability from 0 to 100, an estimated duration in months (at least 1), a
cost range, 2 to 5 pros, 2 to 5 cons, and 2 to 6 recommended actions with
timeframe and priority ("high", "medium" or "low").

Respond with JSON:
{
  "scenarios": [
    {"type": "conservative", "name": "...", "description": "...",
     "success_probability": 0, "estimated_duration_months": 1,
     "estimated_cost": {"min": 0, "max": 0},
     "pros": ["..."], "cons": ["..."],
     "recommended_actions": [
       {"action": "...", "timeframe": "...", "priority": "high"}
     ]}
  ]
}`))

var timelinePromptTmpl = template.Must(template.New("timeline").Parse(
	`Plan the execution timeline for the "{{.ScenarioName}}" strategy
({{.ScenarioType}}) in the following case.

{{.Facts}}

Strategy description: {{.ScenarioDescription}}
Estimated duration: {{.DurationMonths}} months.

Produce between 4 and 16 milestones. Each milestone needs a unique id, a
title, a description, the phase it belongs to ("preparation", "negotiation",
"litigation" or "resolution"), its offset in days from the start of the
engagement (0 means the start date), whether it is on the critical path,
the ids of milestones it depends on, and any deadline alerts.

Respond with JSON:
{
  "milestones": [
    {"id": "m1", "title": "...", "description": "...",
     "phase": "preparation", "offset_days": 0, "is_critical": false,
     "dependencies": [], "alerts": []}
  ]
}`))

var recommendationPromptTmpl = template.Must(template.New("recommendations").Parse(
	`Recommend the primary strategy for the following case.

{{.Facts}}

Risk assessment: {{.RiskSummary}} (overall {{.RiskLevel}})
Candidate strategies:
{{- range .Scenarios}}
- {{.Type}}: {{.Name}} (success {{printf "%.0f" .SuccessProbability}}%, {{.EstimatedDurationMonths}} months)
{{- end}}
Supporting precedents reviewed: {{.JurisprudenceCount}}

Choose one strategy type ("conservative", "moderate" or "aggressive"),
explain the reasoning, and list 3 to 7 concrete next steps in execution
order.

Respond with JSON:
{
  "primary_strategy": "conservative|moderate|aggressive",
  "reasoning": "...",
  "next_steps": ["..."]
}`))

// ---------------------------------------------------------------------------
// Prompt builders
// ---------------------------------------------------------------------------

func buildRiskPrompt(facts legalcase.Facts) (string, error) {
	return execTemplate(riskPromptTmpl, struct{ Facts string }{renderCaseFacts(facts)})
}

func buildJurisprudencePrompt(facts legalcase.Facts) (string, error) {
	return execTemplate(jurisprudencePromptTmpl, struct {
		Type         legalcase.CaseType
		Jurisdiction string
		Description  string
	}{facts.Type, facts.Jurisdiction, facts.Description})
}

func buildScenarioPrompt(facts legalcase.Facts, matrix *analysis.RiskMatrix) (string, error) {
	return execTemplate(scenarioPromptTmpl, struct {
		Facts       string
		RiskSummary string
		RiskLevel   analysis.RiskLevel
		RiskScore   float64
	}{renderCaseFacts(facts), matrix.Summary, matrix.RiskLevel, matrix.OverallScore})
}

func buildTimelinePrompt(facts legalcase.Facts, scenario analysis.StrategicScenario) (string, error) {
	return execTemplate(timelinePromptTmpl, struct {
		Facts               string
		ScenarioName        string
		ScenarioType        analysis.ScenarioType
		ScenarioDescription string
		DurationMonths      int
	}{renderCaseFacts(facts), scenario.Name, scenario.Type, scenario.Description, scenario.EstimatedDurationMonths})
}

func buildRecommendationPrompt(facts legalcase.Facts, matrix *analysis.RiskMatrix,
	scenarios []analysis.StrategicScenario, jurisprudenceCount int) (string, error) {
	return execTemplate(recommendationPromptTmpl, struct {
		Facts              string
		RiskSummary        string
		RiskLevel          analysis.RiskLevel
		Scenarios          []analysis.StrategicScenario
		JurisprudenceCount int
	}{renderCaseFacts(facts), matrix.Summary, matrix.RiskLevel, scenarios, jurisprudenceCount})
}

func execTemplate(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
