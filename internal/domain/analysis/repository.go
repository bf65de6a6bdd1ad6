package analysis

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists strategic analyses. Save upserts keyed by case and
// user: a re-run by the same user replaces their previous analysis of that
// case.
type Repository interface {
	Save(ctx context.Context, a *StrategicAnalysis) error
	GetByID(ctx context.Context, tenantID, analysisID uuid.UUID) (*StrategicAnalysis, error)
	ListByCase(ctx context.Context, tenantID, caseID uuid.UUID, limit int) ([]*Summary, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]*Summary, error)
}
