package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fooddash/internal/domain/model"
	"fooddash/internal/repository"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mock
// =====================

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditLogRepository) List(ctx context.Context, filter repository.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

type funcPublisher func(ctx context.Context, ev model.PortalEvent) error

func (f funcPublisher) Publish(ctx context.Context, ev model.PortalEvent) error { return f(ctx, ev) }

func sampleEvent() model.PortalEvent {
	return model.PortalEvent{
		ID:           "ev-1",
		Action:       model.AuditActionOrderPlaced,
		DeviceID:     "dev-1",
		Role:         model.RoleCustomer,
		ActorID:      "c1",
		ResourceType: model.AuditResourceOrder,
		ResourceID:   "o1",
		OccurredAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "dev-1", string(w.msgs[0].Key))

	var got model.PortalEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, model.AuditActionOrderPlaced, got.Action)
	assert.Equal(t, "o1", got.ResourceID)
}

func TestAuditLogPublisher_Publish(t *testing.T) {
	repo := new(MockAuditLogRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.EventID == "ev-1" && l.DeviceID == "dev-1" && l.Action == model.AuditActionOrderPlaced
	})).Return(nil)

	p := NewAuditLogPublisher(repo)
	assert.NoError(t, p.Publish(context.Background(), sampleEvent()))
	repo.AssertExpectations(t)
}

func TestMultiPublisher_ContinuesAfterFailure(t *testing.T) {
	boom := errors.New("boom")
	var calls int

	m := NewMultiPublisher(
		funcPublisher(func(ctx context.Context, ev model.PortalEvent) error { calls++; return boom }),
		funcPublisher(func(ctx context.Context, ev model.PortalEvent) error { calls++; return nil }),
	)

	err := m.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
