// Package repositories provides the PostgreSQL implementations of the
// domain repository interfaces.
package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxislegal/lexia/internal/domain/legalcase"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	appErrors "github.com/praxislegal/lexia/pkg/errors"
)

const caseColumns = `id, tenant_id, case_number, title, type, status, description,
	filing_date, jurisdiction, court, estimated_value, created_by, created_at, updated_at`

// CaseRepository is the PostgreSQL implementation of legalcase.Repository
// and legalcase.AccessChecker. Every query is tenant scoped.
type CaseRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewCaseRepository constructs a ready-to-use CaseRepository.
func NewCaseRepository(pool *pgxpool.Pool, logger logging.Logger) *CaseRepository {
	return &CaseRepository{pool: pool, logger: logger.Named("case_repo")}
}

func (r *CaseRepository) GetByID(ctx context.Context, tenantID, caseID uuid.UUID) (*legalcase.Case, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+caseColumns+` FROM cases WHERE tenant_id = $1 AND id = $2`,
		tenantID, caseID)
	c, err := scanCase(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, appErrors.New(appErrors.ErrCodeCaseNotFound, "case not found")
		}
		return nil, appErrors.Wrap(err, appErrors.CodeDBQueryError, "load case")
	}
	return c, nil
}

func (r *CaseRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*legalcase.Case, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM cases WHERE tenant_id = $1`, tenantID).Scan(&total)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.CodeDBQueryError, "count cases")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+caseColumns+` FROM cases
		 WHERE tenant_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.CodeDBQueryError, "list cases")
	}
	defer rows.Close()

	var out []*legalcase.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.CodeDBQueryError, "scan case")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.CodeDBQueryError, "iterate cases")
	}
	return out, total, nil
}

func (r *CaseRepository) Create(ctx context.Context, c *legalcase.Case) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cases (`+caseColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		c.ID, c.TenantID, c.CaseNumber, c.Title, c.Type, c.Status, c.Description,
		c.FilingDate, c.Jurisdiction, c.Court, c.EstimatedValue,
		c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDBQueryError, "insert case")
	}
	return nil
}

func (r *CaseRepository) Update(ctx context.Context, c *legalcase.Case) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cases SET
			title = $3, type = $4, status = $5, description = $6,
			filing_date = $7, jurisdiction = $8, court = $9,
			estimated_value = $10, updated_at = now()
		 WHERE tenant_id = $1 AND id = $2`,
		c.TenantID, c.ID, c.Title, c.Type, c.Status, c.Description,
		c.FilingDate, c.Jurisdiction, c.Court, c.EstimatedValue)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDBQueryError, "update case")
	}
	if tag.RowsAffected() == 0 {
		return appErrors.New(appErrors.ErrCodeCaseNotFound, "case not found")
	}
	return nil
}

// CanView implements legalcase.AccessChecker: the user must belong to the
// case's tenant and either have created the case or be assigned to it.
func (r *CaseRepository) CanView(ctx context.Context, tenantID, userID, caseID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM cases c
			WHERE c.tenant_id = $1 AND c.id = $3
			  AND (c.created_by = $2 OR EXISTS (
				SELECT 1 FROM case_assignments a
				WHERE a.case_id = c.id AND a.user_id = $2
			  ))
		 )`,
		tenantID, userID, caseID).Scan(&ok)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.CodeDBQueryError, "check case access")
	}
	return ok, nil
}

func scanCase(row pgx.Row) (*legalcase.Case, error) {
	var c legalcase.Case
	err := row.Scan(
		&c.ID, &c.TenantID, &c.CaseNumber, &c.Title, &c.Type, &c.Status, &c.Description,
		&c.FilingDate, &c.Jurisdiction, &c.Court, &c.EstimatedValue,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
