package legalcase

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CaseType classifies a legal matter by practice area.
type CaseType string

const (
	CaseTypeCivil          CaseType = "civil"
	CaseTypeLabor          CaseType = "labor"
	CaseTypeCommercial     CaseType = "commercial"
	CaseTypeAdministrative CaseType = "administrative"
	CaseTypeCriminal       CaseType = "criminal"
	CaseTypeFamily         CaseType = "family"
	CaseTypeTax            CaseType = "tax"
)

// CaseStatus is the lifecycle state of a case.
type CaseStatus string

const (
	CaseStatusOpen     CaseStatus = "open"
	CaseStatusPending  CaseStatus = "pending"
	CaseStatusClosed   CaseStatus = "closed"
	CaseStatusArchived CaseStatus = "archived"
)

// Case is a legal matter managed on behalf of a tenant's client. The
// description holds the free-text facts that feed strategic analysis and
// document drafting.
type Case struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	CaseNumber     string     `json:"case_number"`
	Title          string     `json:"title"`
	Type           CaseType   `json:"type"`
	Status         CaseStatus `json:"status"`
	Description    string     `json:"description"`
	FilingDate     *time.Time `json:"filing_date,omitempty"`
	Jurisdiction   string     `json:"jurisdiction,omitempty"`
	Court          string     `json:"court,omitempty"`
	EstimatedValue *float64   `json:"estimated_value,omitempty"`
	CreatedBy      uuid.UUID  `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasFacts reports whether the case carries enough narrative for an
// analysis run. Whitespace-only descriptions do not count.
func (c *Case) HasFacts() bool {
	return strings.TrimSpace(c.Description) != ""
}

// AnalysisStartDate is the anchor for timeline date arithmetic: the filing
// date when known, otherwise the supplied fallback.
func (c *Case) AnalysisStartDate(fallback time.Time) time.Time {
	if c.FilingDate != nil && !c.FilingDate.IsZero() {
		return *c.FilingDate
	}
	return fallback
}

// Facts is the projection of a Case handed to the model-facing pipeline
// stages. It deliberately omits tenant and audit fields.
type Facts struct {
	CaseID         uuid.UUID
	CaseNumber     string
	Title          string
	Type           CaseType
	Description    string
	FilingDate     *time.Time
	Jurisdiction   string
	Court          string
	EstimatedValue *float64
}

// Facts builds the model-facing projection of the case.
func (c *Case) Facts() Facts {
	return Facts{
		CaseID:         c.ID,
		CaseNumber:     c.CaseNumber,
		Title:          c.Title,
		Type:           c.Type,
		Description:    c.Description,
		FilingDate:     c.FilingDate,
		Jurisdiction:   c.Jurisdiction,
		Court:          c.Court,
		EstimatedValue: c.EstimatedValue,
	}
}

// ValidType reports whether t is one of the recognized case types.
func ValidType(t CaseType) bool {
	switch t {
	case CaseTypeCivil, CaseTypeLabor, CaseTypeCommercial,
		CaseTypeAdministrative, CaseTypeCriminal, CaseTypeFamily, CaseTypeTax:
		return true
	}
	return false
}
