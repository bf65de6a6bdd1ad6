package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// DraftsClient accesses the document-drafting endpoint.
type DraftsClient struct {
	client *Client
}

// DraftRequest is the payload for a drafting call.
type DraftRequest struct {
	DocumentType string            `json:"document_type"`
	FormData     map[string]string `json:"form_data"`
	CaseContext  string            `json:"case_context,omitempty"`

	PreviousDraft        string `json:"previous_draft,omitempty"`
	IterationInstruction string `json:"iteration_instruction,omitempty"`
}

// DeltaFunc receives each chunk of generated text as it arrives. Returning
// an error aborts the stream.
type DeltaFunc func(delta string) error

// Stream generates a document and delivers it incrementally through
// onDelta. The server streams plain text; the stream is not retried. An
// error after the first delta means the document is truncated.
func (dc *DraftsClient) Stream(ctx context.Context, req *DraftRequest, onDelta DeltaFunc) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("lexia: marshal draft request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		dc.client.baseURL+"/api/v1/lexia/draft", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("lexia: create request: %w", err)
	}

	requestID := uuid.New().String()
	dc.client.setHeaders(httpReq, requestID)
	httpReq.Header.Set("Accept", "text/plain")

	resp, err := dc.client.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return decodeAPIError(resp.StatusCode, requestID, respBody)
	}

	reader := bufio.NewReader(resp.Body)
	buf := make([]byte, 4096)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if cbErr := onDelta(string(buf[:n])); cbErr != nil {
				return cbErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lexia: draft stream interrupted: %w", err)
		}
	}
}

// Generate runs Stream and collects the whole document into one string.
func (dc *DraftsClient) Generate(ctx context.Context, req *DraftRequest) (string, error) {
	var sb strings.Builder
	err := dc.Stream(ctx, req, func(delta string) error {
		sb.WriteString(delta)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
