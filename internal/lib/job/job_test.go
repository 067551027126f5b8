package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/dna-testing-api/internal/lib/email"
	"github.com/deppfellow/dna-testing-api/internal/model"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault, Type: task.Type()}, nil
}

type fakeStore struct {
	entries []*model.RequestLog
	err     error
}

func (f *fakeStore) CreateRequestLog(ctx context.Context, entry *model.RequestLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

type fakeEmail struct {
	to   []string
	sent []email.PaymentNotification
	err  error
}

func (f *fakeEmail) SendPaymentNotification(to string, p email.PaymentNotification) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.sent = append(f.sent, p)
	return nil
}

func newTestService(enq enqueuer) *JobService {
	logger := zerolog.Nop()
	return &JobService{enqueuer: enq, logger: &logger}
}

func TestEnqueueRequestLog(t *testing.T) {
	enq := &fakeEnqueuer{}
	j := newTestService(enq)

	entry := &model.RequestLog{RequestID: "req-1", Method: "GET", Path: "/", Route: "/", Status: 200, LatencyMs: 1.5}
	require.NoError(t, j.EnqueueRequestLog(context.Background(), entry))

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TaskRequestLog, enq.tasks[0].Type())

	var decoded model.RequestLog
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &decoded))
	assert.Equal(t, "req-1", decoded.RequestID)
	assert.Equal(t, 200, decoded.Status)
}

func TestEnqueueFailureIsWrapped(t *testing.T) {
	j := newTestService(&fakeEnqueuer{err: errors.New("redis down")})

	err := j.EnqueueRequestLog(context.Background(), &model.RequestLog{})
	assert.ErrorContains(t, err, "log:request")
	assert.ErrorContains(t, err, "redis down")
}

func TestEnqueuePaymentNotification(t *testing.T) {
	t.Run("uses configured address", func(t *testing.T) {
		enq := &fakeEnqueuer{}
		j := newTestService(enq)
		j.notificationEmail = "ops@example.com"

		require.NoError(t, j.EnqueuePaymentNotification(context.Background(), PaymentNotificationPayload{PaymentID: "pay-1"}))

		require.Len(t, enq.tasks, 1)
		assert.Equal(t, TaskPaymentNotification, enq.tasks[0].Type())

		var p PaymentNotificationPayload
		require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &p))
		assert.Equal(t, "ops@example.com", p.To)
	})

	t.Run("skipped without address", func(t *testing.T) {
		enq := &fakeEnqueuer{}
		j := newTestService(enq)

		require.NoError(t, j.EnqueuePaymentNotification(context.Background(), PaymentNotificationPayload{PaymentID: "pay-1"}))
		assert.Empty(t, enq.tasks)
	})
}

func TestHandleRequestLogTask(t *testing.T) {
	store := &fakeStore{}
	j := newTestService(nil)
	j.requestLogs = store

	task, err := NewRequestLogTask(&model.RequestLog{RequestID: "req-9", Status: 503})
	require.NoError(t, err)

	require.NoError(t, j.handleRequestLogTask(context.Background(), task))
	require.Len(t, store.entries, 1)
	assert.Equal(t, 503, store.entries[0].Status)

	store.err = errors.New("insert failed")
	assert.Error(t, j.handleRequestLogTask(context.Background(), task))
}

func TestHandleMalformedPayloadSkipsRetry(t *testing.T) {
	j := newTestService(nil)
	j.requestLogs = &fakeStore{}
	j.emailClient = &fakeEmail{}

	bad := asynq.NewTask(TaskRequestLog, []byte("{"))
	assert.ErrorIs(t, j.handleRequestLogTask(context.Background(), bad), asynq.SkipRetry)

	bad = asynq.NewTask(TaskPaymentNotification, []byte("{"))
	assert.ErrorIs(t, j.handlePaymentNotificationTask(context.Background(), bad), asynq.SkipRetry)
}

func TestHandlePaymentNotificationTask(t *testing.T) {
	sender := &fakeEmail{}
	j := newTestService(nil)
	j.emailClient = sender

	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	task, err := NewPaymentNotificationTask(PaymentNotificationPayload{
		To:        "ops@example.com",
		PaymentID: "pay-1",
		Amount:    1000,
		CreatedBy: "user_1",
		CreatedAt: createdAt,
	})
	require.NoError(t, err)

	require.NoError(t, j.handlePaymentNotificationTask(context.Background(), task))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ops@example.com", sender.to[0])
	assert.Equal(t, "pay-1", sender.sent[0].PaymentID)
	assert.True(t, createdAt.Equal(sender.sent[0].CreatedAt))

	sender.err = errors.New("resend unavailable")
	assert.Error(t, j.handlePaymentNotificationTask(context.Background(), task))
}

func TestMuxRoutesKnownTasks(t *testing.T) {
	store := &fakeStore{}
	j := newTestService(nil)
	j.requestLogs = store

	task, err := NewRequestLogTask(&model.RequestLog{RequestID: "req-mux"})
	require.NoError(t, err)

	require.NoError(t, j.mux().ProcessTask(context.Background(), task))
	assert.Len(t, store.entries, 1)
}
