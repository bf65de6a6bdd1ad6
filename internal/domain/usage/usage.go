package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the billable operations.
type Kind string

const (
	KindAnalysis Kind = "analysis"
	KindDraft    Kind = "draft"
)

// Record is one billable model invocation.
type Record struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	UserID    uuid.UUID `json:"user_id"`
	CaseID    uuid.UUID `json:"case_id,omitempty"`
	Kind      Kind      `json:"kind"`
	Model     string    `json:"model"`
	Tokens    int       `json:"tokens"`
	CreatedAt time.Time `json:"created_at"`
}

// Activity is one entry in the tenant's activity log.
type Activity struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	UserID    uuid.UUID `json:"user_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists usage accounting and the activity log.
type Repository interface {
	RecordUsage(ctx context.Context, rec *Record) error
	LogActivity(ctx context.Context, act *Activity) error
	MonthlyTokens(ctx context.Context, tenantID uuid.UUID, month time.Time) (int64, error)
}

// CreditChecker answers whether a tenant still has drafting credit.
type CreditChecker interface {
	HasCredit(ctx context.Context, tenantID uuid.UUID) (bool, error)
}
