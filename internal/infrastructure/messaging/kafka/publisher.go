package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/domain/analysis"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/pkg/errors"
)

// ErrPublisherClosed is returned from publish calls after Close.
var ErrPublisherClosed = errors.New(errors.CodeMessageQueueError, "publisher closed")

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits completion events to Kafka. It satisfies the event
// publisher ports of both the strategy and drafting services.
type Publisher struct {
	writer        writerInterface
	analysisTopic string
	draftTopic    string
	logger        logging.Logger
	closed        atomic.Bool
	sent          atomic.Int64
	failed        atomic.Int64
	now           func() time.Time
}

// NewPublisher builds a Publisher over a shared kafka.Writer. It returns an
// error when no brokers are configured; callers that run with Kafka disabled
// should not construct one at all.
func NewPublisher(cfg config.KafkaConfig, logger logging.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	if cfg.AnalysisTopic == "" {
		cfg.AnalysisTopic = DefaultAnalysisTopic
	}
	if cfg.DraftTopic == "" {
		cfg.DraftTopic = DefaultDraftTopic
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.ProducerRetries + 1,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}

	return &Publisher{
		writer:        writer,
		analysisTopic: cfg.AnalysisTopic,
		draftTopic:    cfg.DraftTopic,
		logger:        logger,
		now:           time.Now,
	}, nil
}

// AnalysisCompleted publishes the completion event for a persisted analysis.
// Messages are keyed by tenant so one tenant's events stay ordered.
func (p *Publisher) AnalysisCompleted(ctx context.Context, a *analysis.StrategicAnalysis) error {
	event := AnalysisCompletedEvent{
		AnalysisID:      a.ID,
		TenantID:        a.TenantID,
		UserID:          a.UserID,
		CaseID:          a.CaseID,
		CaseNumber:      a.CaseNumber,
		RiskLevel:       string(a.RiskMatrix.RiskLevel),
		OverallScore:    a.RiskMatrix.OverallScore,
		PrimaryStrategy: string(a.Recommendations.PrimaryStrategy),
		TotalTokens:     a.Metadata.TotalTokens,
		AnalyzedAt:      a.AnalyzedAt,
	}
	return p.publish(ctx, p.analysisTopic, a.TenantID, event)
}

// DraftCompleted publishes the completion event for a finished draft stream.
func (p *Publisher) DraftCompleted(ctx context.Context, tenantID, userID uuid.UUID, docType string, tokens int) error {
	event := DraftCompletedEvent{
		TenantID:     tenantID,
		UserID:       userID,
		DocumentType: docType,
		TotalTokens:  tokens,
		CompletedAt:  p.now().UTC(),
	}
	return p.publish(ctx, p.draftTopic, tenantID, event)
}

func (p *Publisher) publish(ctx context.Context, topic string, tenantID uuid.UUID, event any) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}

	value, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode event")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(tenantID.String()),
		Value: value,
		Time:  p.now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.CodeMessageQueueError, "publish event")
	}

	p.sent.Add(1)
	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.String("tenant_id", tenantID.String()))
	return nil
}

// Close flushes and closes the underlying writer. Safe to call twice.
func (p *Publisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka publisher closed",
		logging.Int64("sent", p.sent.Load()),
		logging.Int64("failed", p.failed.Load()))
	return err
}
