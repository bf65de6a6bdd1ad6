package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/praxislegal/lexia/internal/domain/analysis"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/pkg/errors"
	"github.com/praxislegal/lexia/pkg/types/common"
)

// StrategyService is the application port the handler drives.
type StrategyService interface {
	Analyze(ctx context.Context, tenantID, userID, caseID uuid.UUID) (*analysis.StrategicAnalysis, error)
	List(ctx context.Context, tenantID, userID uuid.UUID, caseID *uuid.UUID) ([]*analysis.Summary, error)
	Get(ctx context.Context, tenantID, analysisID uuid.UUID) (*analysis.StrategicAnalysis, error)
}

// StrategyHandler serves the strategic analysis endpoints.
type StrategyHandler struct {
	service StrategyService
	logger  logging.Logger
}

func NewStrategyHandler(service StrategyService, logger logging.Logger) *StrategyHandler {
	return &StrategyHandler{service: service, logger: logger}
}

type analyzeRequest struct {
	CaseID uuid.UUID `json:"case_id"`
}

type analyzeResponse struct {
	AnalysisID uuid.UUID                   `json:"analysis_id"`
	Analysis   *analysis.StrategicAnalysis `json:"analysis"`
}

// Analyze runs the full pipeline for one case.
// POST /api/v1/lexia/estratega/analyze
func (h *StrategyHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	var req analyzeRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.CaseID == uuid.Nil {
		writeAppError(w, errors.New(errors.ErrCodeBadRequest, "case_id is required"))
		return
	}

	report, err := h.service.Analyze(r.Context(), id.TenantID, id.UserID, req.CaseID)
	if err != nil {
		h.logger.Warn("analysis request failed",
			logging.String("case_id", req.CaseID.String()), logging.Err(err))
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, common.NewSuccessResponse(analyzeResponse{
		AnalysisID: report.ID,
		Analysis:   report,
	}))
}

// ListAnalyses returns the caller's recent analyses, optionally filtered to
// one case.
// GET /api/v1/lexia/estratega/analyses?case_id=
func (h *StrategyHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	var caseID *uuid.UUID
	if raw := r.URL.Query().Get("case_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeAppError(w, errors.New(errors.ErrCodeBadRequest, "case_id is not a valid UUID"))
			return
		}
		caseID = &parsed
	}

	summaries, err := h.service.List(r.Context(), id.TenantID, id.UserID, caseID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, common.NewSuccessResponse(summaries))
}

// GetAnalysis returns one full report by id.
// GET /api/v1/lexia/estratega/analyses/{analysisID}
func (h *StrategyHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	analysisID, err := uuid.Parse(chi.URLParam(r, "analysisID"))
	if err != nil {
		writeAppError(w, errors.New(errors.ErrCodeBadRequest, "analysis id is not a valid UUID"))
		return
	}

	report, err := h.service.Get(r.Context(), id.TenantID, analysisID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, common.NewSuccessResponse(report))
}
