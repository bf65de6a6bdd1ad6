package drafting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/praxislegal/lexia/internal/domain/usage"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/internal/intelligence/common"
	"github.com/praxislegal/lexia/internal/intelligence/draft"
	"github.com/praxislegal/lexia/pkg/errors"
)

type fakeDrafter struct {
	calls  int
	result *draft.Result
	err    error
}

func (f *fakeDrafter) Stream(_ context.Context, req *draft.Request, onDelta common.StreamHandler) (*draft.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if err := onDelta(f.result.Text); err != nil {
		return nil, err
	}
	return f.result, nil
}

type fakeUsage struct {
	records    []*usage.Record
	activities []*usage.Activity
	recordErr  error
}

func (f *fakeUsage) RecordUsage(_ context.Context, r *usage.Record) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.records = append(f.records, r)
	return nil
}

func (f *fakeUsage) LogActivity(_ context.Context, a *usage.Activity) error {
	f.activities = append(f.activities, a)
	return nil
}

func (f *fakeUsage) MonthlyTokens(context.Context, uuid.UUID, time.Time) (int64, error) {
	return 0, nil
}

type fakeCredits struct{ has bool }

func (f *fakeCredits) HasCredit(context.Context, uuid.UUID) (bool, error) { return f.has, nil }

type fakeArchive struct{ archived []string }

func (f *fakeArchive) ArchiveDraft(_ context.Context, _, _ uuid.UUID, docType, _ string) (string, error) {
	f.archived = append(f.archived, docType)
	return "https://storage.example/" + docType, nil
}

type fakeEvents struct{ count int }

func (f *fakeEvents) DraftCompleted(context.Context, uuid.UUID, uuid.UUID, string, int) error {
	f.count++
	return nil
}

func validDraftRequest() *draft.Request {
	return &draft.Request{
		DocumentType: draft.DocDemandLetter,
		FormData: map[string]string{
			"recipient":     "Constructora Andina SL",
			"claim_summary": "Unpaid invoices.",
		},
	}
}

type draftFixture struct {
	svc     *Service
	drafter *fakeDrafter
	usage   *fakeUsage
	credits *fakeCredits
	archive *fakeArchive
	events  *fakeEvents
}

func newDraftFixture() *draftFixture {
	f := &draftFixture{
		drafter: &fakeDrafter{result: &draft.Result{
			Text: "Estimado señor: ...", Model: "gpt-4o-mini", Tokens: 310,
		}},
		usage:   &fakeUsage{},
		credits: &fakeCredits{has: true},
		archive: &fakeArchive{},
		events:  &fakeEvents{},
	}
	f.svc = NewService(f.drafter, f.usage, f.credits, f.archive, f.events, logging.NewNopLogger())
	return f
}

func TestDraftHappyPath(t *testing.T) {
	f := newDraftFixture()
	var streamed string
	result, err := f.svc.Draft(context.Background(), uuid.New(), uuid.New(), validDraftRequest(),
		func(delta string) error {
			streamed += delta
			return nil
		})
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if streamed != "Estimado señor: ..." {
		t.Errorf("streamed %q", streamed)
	}
	if result.Tokens != 310 {
		t.Errorf("tokens = %d", result.Tokens)
	}
	if len(f.usage.records) != 1 || f.usage.records[0].Kind != usage.KindDraft {
		t.Errorf("usage records = %+v", f.usage.records)
	}
	if len(f.usage.activities) != 1 || f.usage.activities[0].Action != "lexia.draft" {
		t.Errorf("activities = %+v", f.usage.activities)
	}
	if len(f.archive.archived) != 1 {
		t.Errorf("archived = %v", f.archive.archived)
	}
	if f.events.count != 1 {
		t.Errorf("events = %d", f.events.count)
	}
}

func TestDraftInvalidType(t *testing.T) {
	f := newDraftFixture()
	req := validDraftRequest()
	req.DocumentType = "haiku"
	_, err := f.svc.Draft(context.Background(), uuid.New(), uuid.New(), req, func(string) error { return nil })
	if !errors.IsCode(err, errors.ErrCodeDraftTypeUnsupported) {
		t.Errorf("got %v, want unsupported-type", err)
	}
	if f.drafter.calls != 0 {
		t.Error("drafter called for invalid request")
	}
}

func TestDraftCreditExhausted(t *testing.T) {
	f := newDraftFixture()
	f.credits.has = false
	_, err := f.svc.Draft(context.Background(), uuid.New(), uuid.New(), validDraftRequest(),
		func(string) error { return nil })
	if !errors.IsCode(err, errors.ErrCodeCreditExhausted) {
		t.Errorf("got %v, want credit exhausted", err)
	}
	if f.drafter.calls != 0 {
		t.Error("drafter called without credit")
	}
}

func TestDraftStreamFailureSkipsBookkeeping(t *testing.T) {
	f := newDraftFixture()
	f.drafter.err = errors.New(errors.ErrCodeDraftStreamFailed, "stream broke")
	_, err := f.svc.Draft(context.Background(), uuid.New(), uuid.New(), validDraftRequest(),
		func(string) error { return nil })
	if err == nil {
		t.Fatal("expected stream error")
	}
	if len(f.usage.records) != 0 || len(f.archive.archived) != 0 || f.events.count != 0 {
		t.Error("bookkeeping ran despite stream failure")
	}
}

func TestDraftAccountingFailureIsNotFatal(t *testing.T) {
	f := newDraftFixture()
	f.usage.recordErr = errors.New(errors.ErrCodeDatabaseError, "insert failed")
	if _, err := f.svc.Draft(context.Background(), uuid.New(), uuid.New(), validDraftRequest(),
		func(string) error { return nil }); err != nil {
		t.Fatalf("accounting failure surfaced: %v", err)
	}
}

type fakeDraftObserver struct {
	statuses []string
	tokens   []int
}

func (f *fakeDraftObserver) ObserveDraft(status string, tokens int) {
	f.statuses = append(f.statuses, status)
	f.tokens = append(f.tokens, tokens)
}

func TestDraftObservesOutcomes(t *testing.T) {
	f := newDraftFixture()
	obs := &fakeDraftObserver{}
	f.svc.WithMetrics(obs)

	_, err := f.svc.Draft(context.Background(), uuid.New(), uuid.New(), validDraftRequest(),
		func(string) error { return nil })
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if len(obs.statuses) != 1 || obs.statuses[0] != "ok" || obs.tokens[0] != 310 {
		t.Fatalf("observed = %v %v", obs.statuses, obs.tokens)
	}

	f.drafter.err = errors.New(errors.ErrCodeModelUnavailable, "model down")
	_, err = f.svc.Draft(context.Background(), uuid.New(), uuid.New(), validDraftRequest(),
		func(string) error { return nil })
	if err == nil {
		t.Fatal("expected stream error")
	}
	if len(obs.statuses) != 2 || obs.statuses[1] != "error" {
		t.Fatalf("observed = %v", obs.statuses)
	}
}
