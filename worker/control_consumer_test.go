package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zlnvch/webboard/models"
	"github.com/zlnvch/webboard/mq"
	mqmocks "github.com/zlnvch/webboard/mq/mocks"
	"github.com/zlnvch/webboard/worker"
)

type submitted struct {
	mu     sync.Mutex
	events []models.DrawEvent
}

func (s *submitted) submit(ctx context.Context, event models.DrawEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *submitted) all() []models.DrawEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.DrawEvent{}, s.events...)
}

func runConsumer(t *testing.T, consumer *worker.ControlConsumer) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		consumer.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "consumer did not stop")
	}
}

func TestControlConsumer_ClearCommand(t *testing.T) {
	mockMQ := new(mqmocks.MockMQ)
	msg := &mq.Message{Id: "receipt-1", Body: `{"command":"clear","username":"ops"}`}

	mockMQ.On("Receive", mock.Anything, int32(30)).Return(msg, nil).Once()
	mockMQ.On("Receive", mock.Anything, int32(30)).Return(nil, context.Canceled)
	mockMQ.On("Delete", mock.Anything, msg).Return(nil)

	s := &submitted{}
	runConsumer(t, worker.NewControlConsumer(mockMQ, s.submit))

	assert.Equal(t, []models.DrawEvent{{Username: "ops", Type: models.DrawClear}}, s.all())
	mockMQ.AssertCalled(t, "Delete", mock.Anything, msg)
}

func TestControlConsumer_BadCommandsDeletedNotApplied(t *testing.T) {
	mockMQ := new(mqmocks.MockMQ)
	badJSON := &mq.Message{Id: "receipt-1", Body: `{not json`}
	unknown := &mq.Message{Id: "receipt-2", Body: `{"command":"undo"}`}

	mockMQ.On("Receive", mock.Anything, int32(30)).Return(badJSON, nil).Once()
	mockMQ.On("Receive", mock.Anything, int32(30)).Return(unknown, nil).Once()
	mockMQ.On("Receive", mock.Anything, int32(30)).Return(nil, context.Canceled)
	mockMQ.On("Delete", mock.Anything, mock.Anything).Return(nil)

	s := &submitted{}
	runConsumer(t, worker.NewControlConsumer(mockMQ, s.submit))

	assert.Empty(t, s.all())
	mockMQ.AssertNumberOfCalls(t, "Delete", 2)
}

func TestControlConsumer_ReceiveErrorRetries(t *testing.T) {
	mockMQ := new(mqmocks.MockMQ)
	msg := &mq.Message{Id: "receipt-1", Body: `{"command":"clear"}`}

	mockMQ.On("Receive", mock.Anything, int32(30)).Return(nil, errors.New("throttled")).Once()
	mockMQ.On("Receive", mock.Anything, int32(30)).Return(nil, nil).Once()
	mockMQ.On("Receive", mock.Anything, int32(30)).Return(msg, nil).Once()
	mockMQ.On("Receive", mock.Anything, int32(30)).Return(nil, context.DeadlineExceeded)
	mockMQ.On("Delete", mock.Anything, msg).Return(errors.New("delete failed"))

	s := &submitted{}
	runConsumer(t, worker.NewControlConsumer(mockMQ, s.submit))

	assert.Len(t, s.all(), 1)
	mockMQ.AssertNumberOfCalls(t, "Receive", 4)
}
