package estratega

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/domain/analysis"
	"github.com/praxislegal/lexia/internal/domain/legalcase"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/internal/intelligence/common"
	"github.com/praxislegal/lexia/pkg/errors"
)

// reportVersion tags the composite schema emitted by AnalyzeCase.
const reportVersion = "estratega/v1"

// Analyzer runs the strategic analysis pipeline: risk assessment and
// jurisprudence search concurrently, then scenario generation, then
// timeline and recommendations concurrently. A failure at any stage aborts
// the whole run; no partial report is produced.
type Analyzer struct {
	client common.CompletionClient
	cfg    config.ModelConfig
	logger logging.Logger
	now    func() time.Time
}

// NewAnalyzer builds an Analyzer on the given model client.
func NewAnalyzer(client common.CompletionClient, cfg config.ModelConfig, logger logging.Logger) *Analyzer {
	return &Analyzer{
		client: client,
		cfg:    cfg,
		logger: logger.Named("estratega"),
		now:    time.Now,
	}
}

func (a *Analyzer) complete(ctx context.Context, prompt string) (*common.CompletionResponse, error) {
	return a.client.Complete(ctx, common.CompletionRequest{
		Model:       a.cfg.PrimaryModel,
		System:      systemPrompt,
		Prompt:      prompt,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxOutputTokens,
		JSONOnly:    true,
	})
}

// AnalyzeCase produces the composite strategic report for one case. The
// caller guarantees the case has facts; start anchors timeline dates.
func (a *Analyzer) AnalyzeCase(ctx context.Context, facts legalcase.Facts, start time.Time) (*analysis.StrategicAnalysis, error) {
	began := a.now()
	log := a.logger.With(logging.String("case_number", facts.CaseNumber))
	log.Info("starting strategic analysis")

	var (
		matrix        *analysis.RiskMatrix
		riskUsage     common.TokenUsage
		precedents    []analysis.Jurisprudence
		jurisUsage    common.TokenUsage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matrix, riskUsage, err = a.analyzeRisk(gctx, facts)
		return err
	})
	g.Go(func() error {
		var err error
		precedents, jurisUsage, err = a.searchJurisprudence(gctx, facts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "risk and jurisprudence stage failed")
	}

	scenarios, scenarioUsage, err := a.generateScenarios(ctx, facts, matrix)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "scenario stage failed")
	}

	chosen, ok := analysis.SelectScenario(scenarios)
	if !ok {
		return nil, errors.New(errors.ErrCodeAnalysisFailed, "no scenario available for timeline")
	}

	var (
		timeline      *analysis.StrategicTimeline
		timelineUsage common.TokenUsage
		recs          *analysis.StrategicRecommendations
		recUsage      common.TokenUsage
	)
	g2, g2ctx := errgroup.WithContext(ctx)
	g2.Go(func() error {
		var err error
		timeline, timelineUsage, err = a.generateTimeline(g2ctx, facts, chosen, start)
		return err
	})
	g2.Go(func() error {
		var err error
		recs, recUsage, err = a.buildRecommendations(g2ctx, facts, matrix, scenarios, len(precedents))
		return err
	})
	if err := g2.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "timeline and recommendation stage failed")
	}

	total := riskUsage
	total.Add(jurisUsage)
	total.Add(scenarioUsage)
	total.Add(timelineUsage)
	total.Add(recUsage)

	report := &analysis.StrategicAnalysis{
		CaseID:          facts.CaseID,
		CaseNumber:      facts.CaseNumber,
		CaseTitle:       facts.Title,
		AnalyzedAt:      began.UTC(),
		RiskMatrix:      *matrix,
		Scenarios:       scenarios,
		Jurisprudence:   precedents,
		Timeline:        *timeline,
		Recommendations: *recs,
		Metadata: analysis.Metadata{
			Version:     reportVersion,
			Model:       a.cfg.PrimaryModel,
			TotalTokens: total.TotalTokens,
			DurationMS:  a.now().Sub(began).Milliseconds(),
		},
	}

	log.Info("strategic analysis complete",
		logging.String("risk_level", string(report.RiskMatrix.RiskLevel)),
		logging.String("primary_strategy", string(report.Recommendations.PrimaryStrategy)),
		logging.Int("total_tokens", total.TotalTokens),
		logging.Int64("duration_ms", report.Metadata.DurationMS))
	return report, nil
}
