package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// CasesClient accesses the case-management endpoints.
type CasesClient struct {
	client *Client
}

// Case is a legal case as returned by the API.
type Case struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	CaseNumber     string     `json:"case_number"`
	Title          string     `json:"title"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	Description    string     `json:"description"`
	FilingDate     *time.Time `json:"filing_date,omitempty"`
	Jurisdiction   string     `json:"jurisdiction,omitempty"`
	Court          string     `json:"court,omitempty"`
	EstimatedValue *float64   `json:"estimated_value,omitempty"`
	CreatedBy      uuid.UUID  `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CaseRequest is the payload for creating or updating a case.
type CaseRequest struct {
	CaseNumber     string     `json:"case_number"`
	Title          string     `json:"title"`
	Type           string     `json:"type"`
	Status         string     `json:"status,omitempty"`
	Description    string     `json:"description"`
	FilingDate     *time.Time `json:"filing_date,omitempty"`
	Jurisdiction   string     `json:"jurisdiction,omitempty"`
	Court          string     `json:"court,omitempty"`
	EstimatedValue *float64   `json:"estimated_value,omitempty"`
}

// CaseList is one page of the tenant's cases.
type CaseList struct {
	Cases      []*Case
	Pagination Pagination
}

// Create registers a new case under the caller's tenant.
func (cc *CasesClient) Create(ctx context.Context, req *CaseRequest) (*Case, error) {
	var env envelope[*Case]
	if err := cc.client.post(ctx, "/api/v1/cases", req, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Get fetches one case by id.
func (cc *CasesClient) Get(ctx context.Context, caseID uuid.UUID) (*Case, error) {
	var env envelope[*Case]
	if err := cc.client.get(ctx, fmt.Sprintf("/api/v1/cases/%s", caseID), &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// List returns one page of the tenant's cases, newest first. page starts at
// 1; pageSize is capped server-side at 100.
func (cc *CasesClient) List(ctx context.Context, page, pageSize int) (*CaseList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}

	path := "/api/v1/cases"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var env envelope[[]*Case]
	if err := cc.client.get(ctx, path, &env); err != nil {
		return nil, err
	}

	out := &CaseList{Cases: env.Data}
	if env.Pagination != nil {
		out.Pagination = *env.Pagination
	}
	return out, nil
}

// Update replaces the mutable fields of an existing case.
func (cc *CasesClient) Update(ctx context.Context, caseID uuid.UUID, req *CaseRequest) (*Case, error) {
	var env envelope[*Case]
	if err := cc.client.put(ctx, fmt.Sprintf("/api/v1/cases/%s", caseID), req, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}
