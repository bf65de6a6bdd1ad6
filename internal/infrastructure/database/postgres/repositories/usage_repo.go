package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxislegal/lexia/internal/domain/usage"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	appErrors "github.com/praxislegal/lexia/pkg/errors"
)

// UsageRepository persists usage accounting and the activity log, and
// answers the monthly credit question.
type UsageRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
	// monthlyTokenBudget caps drafting tokens per tenant per calendar
	// month; zero disables the cap.
	monthlyTokenBudget int64
}

// NewUsageRepository constructs a ready-to-use UsageRepository.
func NewUsageRepository(pool *pgxpool.Pool, monthlyTokenBudget int64, logger logging.Logger) *UsageRepository {
	return &UsageRepository{
		pool:               pool,
		logger:             logger.Named("usage_repo"),
		monthlyTokenBudget: monthlyTokenBudget,
	}
}

func (r *UsageRepository) RecordUsage(ctx context.Context, rec *usage.Record) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO usage_records (id, tenant_id, user_id, case_id, kind, model, tokens, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, rec.TenantID, rec.UserID, nullableUUID(rec.CaseID),
		rec.Kind, rec.Model, rec.Tokens, rec.CreatedAt)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDBQueryError, "insert usage record")
	}
	return nil
}

func (r *UsageRepository) LogActivity(ctx context.Context, act *usage.Activity) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activity_log (id, tenant_id, user_id, action, detail, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		act.ID, act.TenantID, act.UserID, act.Action, act.Detail, act.CreatedAt)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDBQueryError, "insert activity entry")
	}
	return nil
}

// MonthlyTokens sums the tenant's tokens for the calendar month containing
// the given time.
func (r *UsageRepository) MonthlyTokens(ctx context.Context, tenantID uuid.UUID, month time.Time) (int64, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT coalesce(sum(tokens), 0) FROM usage_records
		 WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3`,
		tenantID, start, end).Scan(&total)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.CodeDBQueryError, "sum monthly tokens")
	}
	return total, nil
}

// HasCredit implements usage.CreditChecker against the monthly budget.
func (r *UsageRepository) HasCredit(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	if r.monthlyTokenBudget <= 0 {
		return true, nil
	}
	used, err := r.MonthlyTokens(ctx, tenantID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return used < r.monthlyTokenBudget, nil
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
