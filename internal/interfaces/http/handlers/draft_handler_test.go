package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	model "github.com/praxislegal/lexia/internal/intelligence/common"
	"github.com/praxislegal/lexia/internal/intelligence/draft"
	"github.com/praxislegal/lexia/internal/interfaces/http/middleware"
	"github.com/praxislegal/lexia/pkg/errors"
)

type fakeDraftService struct {
	chunks    []string
	failAfter int // fail after delivering this many chunks; -1 disables
	err       error
	calls     int
}

func (f *fakeDraftService) Draft(_ context.Context, _, _ uuid.UUID, req *draft.Request, onDelta model.StreamHandler) (*draft.Result, error) {
	f.calls++
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if f.err != nil && f.failAfter <= 0 {
		return nil, f.err
	}
	var text string
	for i, chunk := range f.chunks {
		if f.err != nil && i == f.failAfter {
			return nil, f.err
		}
		if err := onDelta(chunk); err != nil {
			return nil, err
		}
		text += chunk
	}
	return &draft.Result{Text: text, Model: "primary", Tokens: 42}, nil
}

func draftRequest(t *testing.T, body any, id *middleware.Identity) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/v1/lexia/draft", bytes.NewReader(raw))
	if id != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), id))
	}
	return req
}

func validDraftBody() map[string]any {
	return map[string]any{
		"document_type": "demand_letter",
		"form_data": map[string]string{
			"recipient":     "Acme Insurance SA",
			"claim_summary": "Payment of outstanding invoice 2024-117",
			"amount":        "18,500 EUR",
		},
	}
}

func TestDraftStreamsText(t *testing.T) {
	svc := &fakeDraftService{chunks: []string{"Dear ", "counsel, ", "we demand payment."}, failAfter: -1}
	h := NewDraftHandler(svc, 0, logging.NewNopLogger())

	rec := httptest.NewRecorder()
	h.Draft(rec, draftRequest(t, validDraftBody(), testIdentity()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Dear counsel, we demand payment.", rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestDraftUnsupportedType(t *testing.T) {
	svc := &fakeDraftService{failAfter: -1}
	h := NewDraftHandler(svc, 0, logging.NewNopLogger())

	body := validDraftBody()
	body["document_type"] = "ransom_note"
	rec := httptest.NewRecorder()
	h.Draft(rec, draftRequest(t, body, testIdentity()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "DRAFT_001")
}

func TestDraftMissingFields(t *testing.T) {
	svc := &fakeDraftService{failAfter: -1}
	h := NewDraftHandler(svc, 0, logging.NewNopLogger())

	body := validDraftBody()
	body["form_data"] = map[string]string{"recipient": "Acme Insurance SA"}
	rec := httptest.NewRecorder()
	h.Draft(rec, draftRequest(t, body, testIdentity()))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "DRAFT_002")
}

func TestDraftCreditExhaustedBeforeStream(t *testing.T) {
	svc := &fakeDraftService{err: errors.New(errors.ErrCodeCreditExhausted, "monthly budget spent")}
	h := NewDraftHandler(svc, 0, logging.NewNopLogger())

	rec := httptest.NewRecorder()
	h.Draft(rec, draftRequest(t, validDraftBody(), testIdentity()))

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "DRAFT_006")
}

func TestDraftMidStreamFailureKeepsPartialBody(t *testing.T) {
	svc := &fakeDraftService{
		chunks:    []string{"First clause. ", "Second clause."},
		failAfter: 1,
		err:       errors.New(errors.ErrCodeDraftStreamFailed, "provider closed connection"),
	}
	h := NewDraftHandler(svc, 0, logging.NewNopLogger())

	rec := httptest.NewRecorder()
	h.Draft(rec, draftRequest(t, validDraftBody(), testIdentity()))

	// Status was already committed when the stream broke.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "First clause. ", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "DRAFT_003")
}

func TestDraftWithoutIdentity(t *testing.T) {
	svc := &fakeDraftService{failAfter: -1}
	h := NewDraftHandler(svc, 0, logging.NewNopLogger())

	rec := httptest.NewRecorder()
	h.Draft(rec, draftRequest(t, validDraftBody(), nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.calls)
}
