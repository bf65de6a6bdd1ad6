package strategy

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/praxislegal/lexia/internal/domain/analysis"
	"github.com/praxislegal/lexia/internal/domain/legalcase"
	"github.com/praxislegal/lexia/internal/domain/usage"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/pkg/errors"
)

// listLimit caps how many prior analyses a listing returns.
const listLimit = 20

// CaseAnalyzer runs the strategic analysis pipeline for one case.
type CaseAnalyzer interface {
	AnalyzeCase(ctx context.Context, facts legalcase.Facts, start time.Time) (*analysis.StrategicAnalysis, error)
}

// Publisher emits completion events for downstream consumers. Publishing is
// best effort: the analysis result does not depend on it.
type Publisher interface {
	AnalysisCompleted(ctx context.Context, a *analysis.StrategicAnalysis) error
}

// Observer records pipeline run outcomes for monitoring.
type Observer interface {
	ObserveAnalysis(status string, elapsed time.Duration, tokens int)
}

// Service coordinates one analysis request: load the case, enforce access
// and preconditions, run the pipeline, persist the report and account for
// usage. Nothing is persisted when any step fails.
type Service struct {
	cases    legalcase.Repository
	access   legalcase.AccessChecker
	analyses analysis.Repository
	analyzer CaseAnalyzer
	usage    usage.Repository
	events   Publisher
	metrics  Observer
	logger   logging.Logger
	now      func() time.Time
}

// NewService wires the analysis workflow. events may be nil when no broker
// is configured.
func NewService(
	cases legalcase.Repository,
	access legalcase.AccessChecker,
	analyses analysis.Repository,
	analyzer CaseAnalyzer,
	usageRepo usage.Repository,
	events Publisher,
	logger logging.Logger,
) *Service {
	return &Service{
		cases:    cases,
		access:   access,
		analyses: analyses,
		analyzer: analyzer,
		usage:    usageRepo,
		events:   events,
		logger:   logger.Named("strategy"),
		now:      time.Now,
	}
}

// WithMetrics attaches a run observer and returns the service.
func (s *Service) WithMetrics(m Observer) *Service {
	s.metrics = m
	return s
}

// Analyze runs the full pipeline for one case on behalf of a user. The
// case must exist, be visible to the user, and carry facts; otherwise the
// request fails before any model call.
func (s *Service) Analyze(ctx context.Context, tenantID, userID, caseID uuid.UUID) (*analysis.StrategicAnalysis, error) {
	c, err := s.cases.GetByID(ctx, tenantID, caseID)
	if err != nil {
		return nil, err
	}

	canView, err := s.access.CanView(ctx, tenantID, userID, caseID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "access check failed")
	}
	if !canView {
		return nil, errors.New(errors.ErrCodeCaseAccessDenied, "no access to case")
	}

	if !c.HasFacts() {
		return nil, errors.New(errors.ErrCodeCaseMissingFacts,
			"case has no description to analyze")
	}

	started := s.now()
	report, err := s.analyzer.AnalyzeCase(ctx, c.Facts(), c.AnalysisStartDate(s.now()))
	if err != nil {
		s.observeRun("error", started, 0)
		return nil, err
	}

	report.ID = uuid.New()
	report.TenantID = tenantID
	report.UserID = userID
	if err := s.analyses.Save(ctx, report); err != nil {
		s.observeRun("error", started, report.Metadata.TotalTokens)
		return nil, errors.Wrap(err, errors.CodeDBQueryError, "save analysis")
	}
	s.observeRun("ok", started, report.Metadata.TotalTokens)

	s.recordUsage(ctx, report)
	s.publish(ctx, report)
	return report, nil
}

// recordUsage accounts tokens after a successful run. Accounting failures
// are logged, not surfaced: the report is already persisted.
func (s *Service) recordUsage(ctx context.Context, report *analysis.StrategicAnalysis) {
	rec := &usage.Record{
		ID:        uuid.New(),
		TenantID:  report.TenantID,
		UserID:    report.UserID,
		CaseID:    report.CaseID,
		Kind:      usage.KindAnalysis,
		Model:     report.Metadata.Model,
		Tokens:    report.Metadata.TotalTokens,
		CreatedAt: s.now().UTC(),
	}
	if err := s.usage.RecordUsage(ctx, rec); err != nil {
		s.logger.Warn("usage accounting failed",
			logging.String("case_id", report.CaseID.String()), logging.Err(err))
	}
	act := &usage.Activity{
		ID:        uuid.New(),
		TenantID:  report.TenantID,
		UserID:    report.UserID,
		Action:    "lexia.estratega.analyze",
		Detail:    report.CaseNumber,
		CreatedAt: s.now().UTC(),
	}
	if err := s.usage.LogActivity(ctx, act); err != nil {
		s.logger.Warn("activity log failed", logging.Err(err))
	}
}

func (s *Service) observeRun(status string, started time.Time, tokens int) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveAnalysis(status, s.now().Sub(started), tokens)
}

func (s *Service) publish(ctx context.Context, report *analysis.StrategicAnalysis) {
	if s.events == nil {
		return
	}
	if err := s.events.AnalysisCompleted(ctx, report); err != nil {
		s.logger.Warn("completion event not published",
			logging.String("analysis_id", report.ID.String()), logging.Err(err))
	}
}

// List returns up to 20 prior analyses. With a case id it lists that
// case's analyses after an access check; without one it lists the
// tenant's most recent analyses.
func (s *Service) List(ctx context.Context, tenantID, userID uuid.UUID, caseID *uuid.UUID) ([]*analysis.Summary, error) {
	if caseID == nil {
		return s.analyses.ListByTenant(ctx, tenantID, listLimit)
	}
	canView, err := s.access.CanView(ctx, tenantID, userID, *caseID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "access check failed")
	}
	if !canView {
		return nil, errors.New(errors.ErrCodeCaseAccessDenied, "no access to case")
	}
	return s.analyses.ListByCase(ctx, tenantID, *caseID, listLimit)
}

// Get returns one stored analysis.
func (s *Service) Get(ctx context.Context, tenantID, analysisID uuid.UUID) (*analysis.StrategicAnalysis, error) {
	return s.analyses.GetByID(ctx, tenantID, analysisID)
}
