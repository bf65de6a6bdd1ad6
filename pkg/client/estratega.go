package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// EstrategaClient accesses the strategic-analysis endpoints.
type EstrategaClient struct {
	client *Client
}

// Analysis is a full strategic report. The top-level identification fields
// are typed; the report sections are forwarded undecoded so callers pick
// what they consume.
type Analysis struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	CaseID          uuid.UUID       `json:"case_id"`
	CaseNumber      string          `json:"case_number"`
	CaseTitle       string          `json:"case_title"`
	UserID          uuid.UUID       `json:"user_id"`
	AnalyzedAt      time.Time       `json:"analyzed_at"`
	RiskMatrix      json.RawMessage `json:"risk_matrix"`
	Scenarios       json.RawMessage `json:"scenarios"`
	Jurisprudence   json.RawMessage `json:"jurisprudence"`
	Timeline        json.RawMessage `json:"timeline"`
	Recommendations json.RawMessage `json:"recommendations"`
	Metadata        json.RawMessage `json:"metadata"`
}

// AnalysisSummary is the list projection of an analysis.
type AnalysisSummary struct {
	ID           uuid.UUID `json:"id"`
	CaseID       uuid.UUID `json:"case_id"`
	CaseNumber   string    `json:"case_number"`
	CaseTitle    string    `json:"case_title"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
	RiskLevel    string    `json:"risk_level"`
	OverallScore float64   `json:"overall_score"`
	Strategy     string    `json:"primary_strategy"`
	TotalTokens  int       `json:"total_tokens"`
}

type analyzeRequest struct {
	CaseID uuid.UUID `json:"case_id"`
}

type analyzeResult struct {
	AnalysisID uuid.UUID `json:"analysis_id"`
	Analysis   *Analysis `json:"analysis"`
}

// Analyze runs the full strategic pipeline for one case. The call blocks
// until the report is ready, typically tens of seconds; size the context
// accordingly. Analysis runs are rate limited per user.
func (ec *EstrategaClient) Analyze(ctx context.Context, caseID uuid.UUID) (*Analysis, error) {
	var env envelope[analyzeResult]
	err := ec.client.post(ctx, "/api/v1/lexia/estratega/analyze", analyzeRequest{CaseID: caseID}, &env)
	if err != nil {
		return nil, err
	}
	return env.Data.Analysis, nil
}

// List returns the caller's recent analyses, newest first. caseID, when
// non-nil, filters to one case.
func (ec *EstrategaClient) List(ctx context.Context, caseID *uuid.UUID) ([]*AnalysisSummary, error) {
	path := "/api/v1/lexia/estratega/analyses"
	if caseID != nil {
		q := url.Values{}
		q.Set("case_id", caseID.String())
		path += "?" + q.Encode()
	}

	var env envelope[[]*AnalysisSummary]
	if err := ec.client.get(ctx, path, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Get fetches one full report by id.
func (ec *EstrategaClient) Get(ctx context.Context, analysisID uuid.UUID) (*Analysis, error) {
	var env envelope[*Analysis]
	err := ec.client.get(ctx, fmt.Sprintf("/api/v1/lexia/estratega/analyses/%s", analysisID), &env)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}
