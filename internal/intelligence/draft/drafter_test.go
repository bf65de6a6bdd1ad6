package draft

import (
	"context"
	"strings"
	"testing"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/internal/intelligence/common"
	"github.com/praxislegal/lexia/pkg/errors"
)

// fakeStreamer serves canned chunks per model and records which models
// were asked.
type fakeStreamer struct {
	models    []string
	chunks    map[string][]string
	failModel string
	// failAfter makes failModel emit this many chunks before failing.
	failAfter int
}

func (f *fakeStreamer) Complete(ctx context.Context, req common.CompletionRequest) (*common.CompletionResponse, error) {
	return f.Stream(ctx, req, func(string) error { return nil })
}

func (f *fakeStreamer) Stream(_ context.Context, req common.CompletionRequest, onDelta common.StreamHandler) (*common.CompletionResponse, error) {
	f.models = append(f.models, req.Model)
	var text strings.Builder
	for i, chunk := range f.chunks[req.Model] {
		if req.Model == f.failModel && i == f.failAfter {
			return nil, errors.New(errors.ErrCodeModelUnavailable, "model down")
		}
		text.WriteString(chunk)
		if err := onDelta(chunk); err != nil {
			return nil, err
		}
	}
	if req.Model == f.failModel && len(f.chunks[req.Model]) == f.failAfter {
		return nil, errors.New(errors.ErrCodeModelUnavailable, "model down")
	}
	return &common.CompletionResponse{
		Text:  text.String(),
		Model: req.Model,
		Usage: common.TokenUsage{TotalTokens: 90},
	}, nil
}

func (f *fakeStreamer) Close() error { return nil }

func validRequest() *Request {
	return &Request{
		DocumentType: DocDemandLetter,
		FormData: map[string]string{
			"recipient":     "Constructora Andina SL",
			"claim_summary": "Unpaid invoices for completed works.",
			"amount":        "45.000 EUR",
		},
	}
}

func newTestDrafter(client common.CompletionClient) *Drafter {
	return NewDrafter(client, config.ModelConfig{
		PrimaryModel:  "gpt-4o-mini",
		FallbackModel: "gpt-4o",
	}, logging.NewNopLogger())
}

func TestRequestValidate(t *testing.T) {
	if err := validRequest().Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := validRequest()
	bad.DocumentType = "ransom_note"
	if err := bad.Validate(); !errors.IsCode(err, errors.ErrCodeDraftTypeUnsupported) {
		t.Errorf("unknown type: got %v, want unsupported-type error", err)
	}

	bad = validRequest()
	delete(bad.FormData, "recipient")
	err := bad.Validate()
	if !errors.IsCode(err, errors.ErrCodeDraftFieldsInvalid) {
		t.Errorf("missing field: got %v, want fields error", err)
	}
	if !strings.Contains(err.Error(), "recipient") {
		t.Errorf("error does not name the missing field: %v", err)
	}

	bad = validRequest()
	bad.FormData["claim_summary"] = "   "
	if err := bad.Validate(); !errors.IsCode(err, errors.ErrCodeDraftFieldsInvalid) {
		t.Errorf("whitespace field: got %v, want fields error", err)
	}

	bad = validRequest()
	bad.IterationInstruction = "shorter"
	if err := bad.Validate(); !errors.IsCode(err, errors.ErrCodeDraftFieldsInvalid) {
		t.Errorf("iteration without previous draft: got %v, want fields error", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	req := validRequest()
	req.CaseContext = "Case EXP-2026-0042, construction dispute."
	prompt := buildPrompt(req)

	for _, want := range []string{
		"demand letter",
		"Recipient name: Constructora Andina SL",
		"Amount claimed: 45.000 EUR",
		"Case context:",
		"EXP-2026-0042",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptRevision(t *testing.T) {
	req := validRequest()
	req.PreviousDraft = "Estimado señor: ..."
	req.IterationInstruction = "Make the tone firmer."
	prompt := buildPrompt(req)

	if !strings.Contains(prompt, "Previous draft to revise:") ||
		!strings.Contains(prompt, "Make the tone firmer.") {
		t.Errorf("revision inputs missing from prompt:\n%s", prompt)
	}
}

func TestStreamDeliversDeltas(t *testing.T) {
	client := &fakeStreamer{chunks: map[string][]string{
		"gpt-4o-mini": {"Estimado ", "señor:", " reclamo"},
	}}
	d := newTestDrafter(client)

	var got []string
	res, err := d.Stream(context.Background(), validRequest(), func(delta string) error {
		got = append(got, delta)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("deltas = %v", got)
	}
	if res.Text != "Estimado señor: reclamo" {
		t.Errorf("text = %q", res.Text)
	}
	if res.Model != "gpt-4o-mini" || res.Tokens != 90 {
		t.Errorf("accounting = %q/%d", res.Model, res.Tokens)
	}
}

func TestStreamFallsBackBeforeFirstDelta(t *testing.T) {
	client := &fakeStreamer{
		failModel: "gpt-4o-mini",
		chunks: map[string][]string{
			"gpt-4o": {"Fallback draft."},
		},
	}
	d := newTestDrafter(client)

	res, err := d.Stream(context.Background(), validRequest(), func(string) error { return nil })
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if res.Model != "gpt-4o" {
		t.Errorf("model = %q, want fallback gpt-4o", res.Model)
	}
	if len(client.models) != 2 {
		t.Errorf("models tried = %v", client.models)
	}
}

func TestStreamNoFallbackAfterDelta(t *testing.T) {
	client := &fakeStreamer{
		failModel: "gpt-4o-mini",
		failAfter: 1,
		chunks: map[string][]string{
			"gpt-4o-mini": {"partial "},
			"gpt-4o":      {"should not run"},
		},
	}
	d := newTestDrafter(client)

	_, err := d.Stream(context.Background(), validRequest(), func(string) error { return nil })
	if err == nil {
		t.Fatal("expected error after mid-stream failure")
	}
	if !errors.IsCode(err, errors.ErrCodeDraftStreamFailed) {
		t.Errorf("got %v, want draft stream error", err)
	}
	if len(client.models) != 1 {
		t.Errorf("fallback ran after text was delivered: %v", client.models)
	}
}

func TestStreamInvalidRequestMakesNoModelCalls(t *testing.T) {
	client := &fakeStreamer{}
	d := newTestDrafter(client)

	req := validRequest()
	req.DocumentType = "sonnet"
	_, err := d.Stream(context.Background(), req, func(string) error { return nil })
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(client.models) != 0 {
		t.Errorf("model called for invalid request: %v", client.models)
	}
}
