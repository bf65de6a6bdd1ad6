package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrafts_Generate(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/lexia/draft", r.URL.Path)

		var req DraftRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "demand_letter", req.DocumentType)

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		flusher := w.(http.Flusher)
		for _, chunk := range []string{"Dear Sir,\n\n", "we hereby demand ", "payment in full."} {
			fmt.Fprint(w, chunk)
			flusher.Flush()
		}
	}

	c := newTestClient(t, handler)
	doc, err := c.Drafts().Generate(context.Background(), &DraftRequest{
		DocumentType: "demand_letter",
		FormData: map[string]string{
			"recipient":     "Acme Corp",
			"claim_summary": "unpaid invoices",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear Sir,\n\nwe hereby demand payment in full.", doc)
}

func TestDrafts_Stream_DeliversDeltas(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "first second")
	}

	c := newTestClient(t, handler)
	var got []string
	err := c.Drafts().Stream(context.Background(), &DraftRequest{DocumentType: "contract"},
		func(delta string) error {
			got = append(got, delta)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, "first second", joinDeltas(got))
}

func TestDrafts_Stream_ValidationError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"success":false,"error":{"code":"DRAFT_002","message":"form_data is missing required fields"}}`)
	}

	c := newTestClient(t, handler)
	err := c.Drafts().Stream(context.Background(), &DraftRequest{DocumentType: "demand_letter"},
		func(string) error { return nil })

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsValidation())
	assert.Equal(t, "DRAFT_002", apiErr.Code)
}

func TestDrafts_Stream_CallbackAborts(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "some text")
	}

	c := newTestClient(t, handler)
	sentinel := fmt.Errorf("enough")
	err := c.Drafts().Stream(context.Background(), &DraftRequest{DocumentType: "contract"},
		func(string) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
}

func joinDeltas(deltas []string) string {
	out := ""
	for _, d := range deltas {
		out += d
	}
	return out
}
