package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/praxislegal/lexia/internal/domain/legalcase"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/internal/interfaces/http/middleware"
	"github.com/praxislegal/lexia/pkg/errors"
	"github.com/praxislegal/lexia/pkg/types/common"
)

// CaseHandler serves case management endpoints.
type CaseHandler struct {
	cases  legalcase.Repository
	access legalcase.AccessChecker
	logger logging.Logger
}

func NewCaseHandler(cases legalcase.Repository, access legalcase.AccessChecker, logger logging.Logger) *CaseHandler {
	return &CaseHandler{cases: cases, access: access, logger: logger}
}

type caseRequest struct {
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

func (req *caseRequest) validate() error {
	if strings.TrimSpace(req.CaseNumber) == "" {
		return errors.New(errors.ErrCodeCaseNumberInvalid, "case_number is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return errors.Validation("title is required")
	}
	if !legalcase.ValidType(legalcase.CaseType(req.Type)) {
		return errors.Validation("unknown case type " + req.Type)
	}
	return nil
}

// List returns the tenant's cases, newest first.
// GET /api/v1/cases
func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	p := parsePagination(r)
	cases, total, err := h.cases.List(r.Context(), id.TenantID, p.PageSize, (p.Page-1)*p.PageSize)
	if err != nil {
		writeAppError(w, err)
		return
	}

	resp := common.NewSuccessResponse(cases)
	resp.Pagination = &common.Pagination{Page: p.Page, PageSize: p.PageSize, Total: total}
	writeJSON(w, http.StatusOK, resp)
}

// Create registers a new case owned by the caller.
// POST /api/v1/cases
func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	var req caseRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeAppError(w, err)
		return
	}

	now := time.Now().UTC()
	status := legalcase.CaseStatusOpen
	if req.Status != "" {
		status = legalcase.CaseStatus(req.Status)
	}
	c := &legalcase.Case{
		ID:             uuid.New(),
		TenantID:       id.TenantID,
		CaseNumber:     req.CaseNumber,
		Title:          req.Title,
		Type:           legalcase.CaseType(req.Type),
		Status:         status,
		Description:    req.Description,
		FilingDate:     req.FilingDate,
		Jurisdiction:   req.Jurisdiction,
		Court:          req.Court,
		EstimatedValue: req.EstimatedValue,
		CreatedBy:      id.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.cases.Create(r.Context(), c); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, common.NewSuccessResponse(c))
}

// Get returns one case the caller may view.
// GET /api/v1/cases/{caseID}
func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, caseID, err := h.caseParams(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	allowed, err := h.access.CanView(r.Context(), id.TenantID, id.UserID, caseID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if !allowed {
		writeAppError(w, errors.New(errors.ErrCodeCaseAccessDenied, "no access to case"))
		return
	}

	c, err := h.cases.GetByID(r.Context(), id.TenantID, caseID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, common.NewSuccessResponse(c))
}

// Update replaces the mutable fields of a case.
// PUT /api/v1/cases/{caseID}
func (h *CaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, caseID, err := h.caseParams(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	var req caseRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeAppError(w, err)
		return
	}

	allowed, err := h.access.CanView(r.Context(), id.TenantID, id.UserID, caseID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if !allowed {
		writeAppError(w, errors.New(errors.ErrCodeCaseAccessDenied, "no access to case"))
		return
	}

	c, err := h.cases.GetByID(r.Context(), id.TenantID, caseID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	c.CaseNumber = req.CaseNumber
	c.Title = req.Title
	c.Type = legalcase.CaseType(req.Type)
	if req.Status != "" {
		c.Status = legalcase.CaseStatus(req.Status)
	}
	c.Description = req.Description
	c.FilingDate = req.FilingDate
	c.Jurisdiction = req.Jurisdiction
	c.Court = req.Court
	c.EstimatedValue = req.EstimatedValue
	c.UpdatedAt = time.Now().UTC()

	if err := h.cases.Update(r.Context(), c); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, common.NewSuccessResponse(c))
}

func (h *CaseHandler) caseParams(r *http.Request) (*middleware.Identity, uuid.UUID, error) {
	id, err := identity(r)
	if err != nil {
		return nil, uuid.Nil, err
	}
	caseID, err := uuid.Parse(chi.URLParam(r, "caseID"))
	if err != nil {
		return nil, uuid.Nil, errors.New(errors.ErrCodeBadRequest, "case id is not a valid UUID")
	}
	return id, caseID, nil
}
