package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zlnvch/webboard/models"
	mqmocks "github.com/zlnvch/webboard/mq/mocks"
	"github.com/zlnvch/webboard/service"
	"github.com/zlnvch/webboard/service/mocks"
	"github.com/zlnvch/webboard/worker"
)

func TestTranscript_RecordsChatTraffic(t *testing.T) {
	broadcaster := new(mocks.MockBroadcaster)
	broadcaster.On("SendToAll", mock.Anything, mock.Anything).Return()

	// Real batcher, not running; tests read its channel directly
	batcher := worker.NewTranscriptBatcher(new(mqmocks.MockMQ), 1000)

	svc, err := service.NewService(broadcaster, nil, batcher, nil, service.Options{})
	require.NoError(t, err)

	require.NoError(t, svc.Dispatch("conn-a", models.EndpointChatAddUser, []byte(`{"sender":"bob"}`)))
	require.NoError(t, svc.Dispatch("conn-a", models.EndpointChatSend, []byte(`{"sender":"bob","content":"hi","type":"CHAT"}`)))
	require.NoError(t, svc.Dispatch("conn-a", models.EndpointWhiteboardDraw, []byte(`{"type":"DRAW"}`)))
	svc.Disconnect("conn-a")

	want := []models.ChatMessage{
		{Sender: "bob", Type: models.MessageJoin},
		{Sender: "bob", Content: "hi", Type: models.MessageChat},
		{Sender: "bob", Type: models.MessageLeave},
	}
	for _, w := range want {
		select {
		case entry := <-batcher.WriteCh:
			assert.Equal(t, w, entry.ChatMessage)
			assert.NotZero(t, entry.SentAt)
		case <-time.After(100 * time.Millisecond):
			require.Fail(t, "timed out waiting for transcript entry")
		}
	}
	assert.Empty(t, batcher.WriteCh)
}
