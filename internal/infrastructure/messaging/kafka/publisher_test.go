package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/domain/analysis"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
	"github.com/praxislegal/lexia/pkg/errors"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newTestPublisher(w writerInterface) *Publisher {
	return &Publisher{
		writer:        w,
		analysisTopic: DefaultAnalysisTopic,
		draftTopic:    DefaultDraftTopic,
		logger:        logging.NewNopLogger(),
		now:           func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
}

func TestNewPublisherRequiresBrokers(t *testing.T) {
	_, err := NewPublisher(config.KafkaConfig{}, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestAnalysisCompleted(t *testing.T) {
	w := &fakeWriter{}
	p := newTestPublisher(w)

	tenantID := uuid.New()
	report := &analysis.StrategicAnalysis{
		ID:         uuid.New(),
		TenantID:   tenantID,
		CaseID:     uuid.New(),
		CaseNumber: "EXP-2025-0042",
		UserID:     uuid.New(),
		AnalyzedAt: time.Date(2025, 3, 10, 11, 58, 0, 0, time.UTC),
		RiskMatrix: analysis.RiskMatrix{OverallScore: 7.2, RiskLevel: analysis.RiskHigh},
		Recommendations: analysis.StrategicRecommendations{
			PrimaryStrategy: analysis.ScenarioModerate,
		},
		Metadata: analysis.Metadata{TotalTokens: 4210},
	}

	require.NoError(t, p.AnalysisCompleted(context.Background(), report))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, DefaultAnalysisTopic, msg.Topic)
	assert.Equal(t, tenantID.String(), string(msg.Key))

	var event AnalysisCompletedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, report.ID, event.AnalysisID)
	assert.Equal(t, "EXP-2025-0042", event.CaseNumber)
	assert.Equal(t, "high", event.RiskLevel)
	assert.Equal(t, "moderate", event.PrimaryStrategy)
	assert.Equal(t, 4210, event.TotalTokens)
}

func TestDraftCompleted(t *testing.T) {
	w := &fakeWriter{}
	p := newTestPublisher(w)

	tenantID := uuid.New()
	userID := uuid.New()
	require.NoError(t, p.DraftCompleted(context.Background(), tenantID, userID, "demand_letter", 980))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, DefaultDraftTopic, msg.Topic)

	var event DraftCompletedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, userID, event.UserID)
	assert.Equal(t, "demand_letter", event.DocumentType)
	assert.Equal(t, 980, event.TotalTokens)
	assert.False(t, event.CompletedAt.IsZero())
}

func TestPublishWriteFailure(t *testing.T) {
	w := &fakeWriter{err: assert.AnError}
	p := newTestPublisher(w)

	err := p.DraftCompleted(context.Background(), uuid.New(), uuid.New(), "complaint", 10)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMessageQueueError))
}

func TestPublishAfterClose(t *testing.T) {
	w := &fakeWriter{}
	p := newTestPublisher(w)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	require.NoError(t, p.Close())

	err := p.DraftCompleted(context.Background(), uuid.New(), uuid.New(), "complaint", 10)
	assert.ErrorIs(t, err, ErrPublisherClosed)
}
