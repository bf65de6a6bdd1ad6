package legalcase

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides tenant-scoped access to cases.
type Repository interface {
	GetByID(ctx context.Context, tenantID, caseID uuid.UUID) (*Case, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*Case, int64, error)
	Create(ctx context.Context, c *Case) error
	Update(ctx context.Context, c *Case) error
}

// AccessChecker answers whether a user may view a case. Implementations
// consult organization membership and case assignment.
type AccessChecker interface {
	CanView(ctx context.Context, tenantID, userID, caseID uuid.UUID) (bool, error)
}
