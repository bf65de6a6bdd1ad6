package drafting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/praxislegal/lexia/internal/domain/usage"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/internal/intelligence/common"
	"github.com/praxislegal/lexia/internal/intelligence/draft"
	"github.com/praxislegal/lexia/pkg/errors"
)

// DocumentStreamer generates a document, delivering text deltas as they
// arrive.
type DocumentStreamer interface {
	Stream(ctx context.Context, req *draft.Request, onDelta common.StreamHandler) (*draft.Result, error)
}

// Archiver stores a finished draft and returns a link to it. Archiving is
// best effort.
type Archiver interface {
	ArchiveDraft(ctx context.Context, tenantID, userID uuid.UUID, docType string, text string) (string, error)
}

// Publisher emits draft completion events.
type Publisher interface {
	DraftCompleted(ctx context.Context, tenantID, userID uuid.UUID, docType string, tokens int) error
}

// Observer records draft stream outcomes for monitoring.
type Observer interface {
	ObserveDraft(status string, tokens int)
}

// Service runs one drafting request: credit check, streaming generation,
// then usage accounting, activity logging and archival once the stream has
// finished. Post-completion bookkeeping never fails the request; the text
// has already reached the client.
type Service struct {
	drafter  DocumentStreamer
	usage    usage.Repository
	credits  usage.CreditChecker
	archive  Archiver
	events   Publisher
	metrics  Observer
	logger   logging.Logger
	now      func() time.Time
}

// NewService wires the drafting workflow. archive and events may be nil
// when object storage or the broker are not configured.
func NewService(
	drafter DocumentStreamer,
	usageRepo usage.Repository,
	credits usage.CreditChecker,
	archive Archiver,
	events Publisher,
	logger logging.Logger,
) *Service {
	return &Service{
		drafter: drafter,
		usage:   usageRepo,
		credits: credits,
		archive: archive,
		events:  events,
		logger:  logger.Named("drafting"),
		now:     time.Now,
	}
}

// WithMetrics attaches a stream observer and returns the service.
func (s *Service) WithMetrics(m Observer) *Service {
	s.metrics = m
	return s
}

// Draft streams a generated document to onDelta on behalf of a user.
func (s *Service) Draft(ctx context.Context, tenantID, userID uuid.UUID, req *draft.Request, onDelta common.StreamHandler) (*draft.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hasCredit, err := s.credits.HasCredit(ctx, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "credit check failed")
	}
	if !hasCredit {
		return nil, errors.New(errors.ErrCodeCreditExhausted, "drafting credit exhausted")
	}

	result, err := s.drafter.Stream(ctx, req, onDelta)
	if err != nil {
		s.observeStream("error", 0)
		return nil, err
	}
	s.observeStream("ok", result.Tokens)

	s.settle(ctx, tenantID, userID, req, result)
	return result, nil
}

func (s *Service) observeStream(status string, tokens int) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDraft(status, tokens)
}

// settle performs the post-completion bookkeeping.
func (s *Service) settle(ctx context.Context, tenantID, userID uuid.UUID, req *draft.Request, result *draft.Result) {
	rec := &usage.Record{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		Kind:      usage.KindDraft,
		Model:     result.Model,
		Tokens:    result.Tokens,
		CreatedAt: s.now().UTC(),
	}
	if err := s.usage.RecordUsage(ctx, rec); err != nil {
		s.logger.Warn("usage accounting failed", logging.Err(err))
	}
	act := &usage.Activity{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		Action:    "lexia.draft",
		Detail:    string(req.DocumentType),
		CreatedAt: s.now().UTC(),
	}
	if err := s.usage.LogActivity(ctx, act); err != nil {
		s.logger.Warn("activity log failed", logging.Err(err))
	}

	if s.archive != nil {
		if _, err := s.archive.ArchiveDraft(ctx, tenantID, userID, string(req.DocumentType), result.Text); err != nil {
			s.logger.Warn("draft archive failed", logging.Err(err))
		}
	}
	if s.events != nil {
		if err := s.events.DraftCompleted(ctx, tenantID, userID, string(req.DocumentType), result.Tokens); err != nil {
			s.logger.Warn("completion event not published", logging.Err(err))
		}
	}
}
