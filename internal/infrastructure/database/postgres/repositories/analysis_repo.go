package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxislegal/lexia/internal/domain/analysis"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	appErrors "github.com/praxislegal/lexia/pkg/errors"
)

// AnalysisRepository stores strategic analyses. The full report is kept as
// JSONB; key fields are lifted into columns for listing without unmarshal.
type AnalysisRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewAnalysisRepository constructs a ready-to-use AnalysisRepository.
func NewAnalysisRepository(pool *pgxpool.Pool, logger logging.Logger) *AnalysisRepository {
	return &AnalysisRepository{pool: pool, logger: logger.Named("analysis_repo")}
}

// Save upserts the analysis keyed by (case_id, user_id): a re-run by the
// same user replaces their previous report for that case.
func (r *AnalysisRepository) Save(ctx context.Context, a *analysis.StrategicAnalysis) error {
	report, err := json.Marshal(a)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeSerialization, "encode analysis report")
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO strategic_analyses (
			id, tenant_id, case_id, user_id, case_number, case_title,
			risk_level, overall_score, primary_strategy, total_tokens,
			analyzed_at, report
		 ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 ON CONFLICT (case_id, user_id) DO UPDATE SET
			id = EXCLUDED.id,
			case_number = EXCLUDED.case_number,
			case_title = EXCLUDED.case_title,
			risk_level = EXCLUDED.risk_level,
			overall_score = EXCLUDED.overall_score,
			primary_strategy = EXCLUDED.primary_strategy,
			total_tokens = EXCLUDED.total_tokens,
			analyzed_at = EXCLUDED.analyzed_at,
			report = EXCLUDED.report`,
		a.ID, a.TenantID, a.CaseID, a.UserID, a.CaseNumber, a.CaseTitle,
		a.RiskMatrix.RiskLevel, a.RiskMatrix.OverallScore,
		a.Recommendations.PrimaryStrategy, a.Metadata.TotalTokens,
		a.AnalyzedAt, report)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDBQueryError, "upsert analysis")
	}
	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, tenantID, analysisID uuid.UUID) (*analysis.StrategicAnalysis, error) {
	var report []byte
	err := r.pool.QueryRow(ctx,
		`SELECT report FROM strategic_analyses WHERE tenant_id = $1 AND id = $2`,
		tenantID, analysisID).Scan(&report)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, appErrors.New(appErrors.ErrCodeAnalysisNotFound, "analysis not found")
		}
		return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "load analysis")
	}

	var a analysis.StrategicAnalysis
	if err := json.Unmarshal(report, &a); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSerialization, "decode analysis report")
	}
	return &a, nil
}

const summaryColumns = `id, case_id, case_number, case_title, analyzed_at,
	risk_level, overall_score, primary_strategy, total_tokens`

func (r *AnalysisRepository) ListByCase(ctx context.Context, tenantID, caseID uuid.UUID, limit int) ([]*analysis.Summary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+summaryColumns+` FROM strategic_analyses
		 WHERE tenant_id = $1 AND case_id = $2
		 ORDER BY analyzed_at DESC
		 LIMIT $3`,
		tenantID, caseID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "list analyses by case")
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func (r *AnalysisRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]*analysis.Summary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+summaryColumns+` FROM strategic_analyses
		 WHERE tenant_id = $1
		 ORDER BY analyzed_at DESC
		 LIMIT $2`,
		tenantID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "list analyses")
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func scanSummaries(rows pgx.Rows) ([]*analysis.Summary, error) {
	var out []*analysis.Summary
	for rows.Next() {
		var s analysis.Summary
		if err := rows.Scan(
			&s.ID, &s.CaseID, &s.CaseNumber, &s.CaseTitle, &s.AnalyzedAt,
			&s.RiskLevel, &s.OverallScore, &s.Strategy, &s.TotalTokens); err != nil {
			return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "scan analysis summary")
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "iterate analyses")
	}
	return out, nil
}
