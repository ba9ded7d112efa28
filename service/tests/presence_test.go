package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zlnvch/webboard/models"
)

func TestDisconnect_JoinedAnnouncesLeaveAndEnd(t *testing.T) {
	svc, broadcaster := setupService(t)

	require.NoError(t, svc.Dispatch("conn-a", models.EndpointChatAddUser, []byte(`{"sender":"alice"}`)))
	require.NoError(t, svc.Dispatch("conn-a", models.EndpointWhiteboardDraw, []byte(`{"type":"START","username":"alice"}`)))
	broadcaster.Calls = nil

	announced := svc.Disconnect("conn-a")
	assert.True(t, announced)

	sent := broadcaster.Sent("SendToAll")
	require.Len(t, sent, 2)
	assert.Equal(t, models.ChannelChat, sent[0].Get(0))
	assert.Equal(t, models.ChatMessage{Type: models.MessageLeave, Sender: "alice"}, sent[0].Get(1))
	assert.Equal(t, models.ChannelWhiteboard, sent[1].Get(0))
	assert.Equal(t, models.DrawEvent{Type: models.DrawEnd, Username: "alice"}, sent[1].Get(1))

	_, ok := svc.Registry.Lookup("conn-a")
	assert.False(t, ok)
	// The END announcement is not a stroke
	assert.Equal(t, 1, svc.History.Len())
}

func TestDisconnect_NeverJoinedIsSilent(t *testing.T) {
	svc, broadcaster := setupService(t)

	// Joining the whiteboard does not register a name
	require.NoError(t, svc.Dispatch("conn-a", models.EndpointWhiteboardJoin, nil))
	broadcaster.Calls = nil

	assert.False(t, svc.Disconnect("conn-a"))
	assert.Empty(t, broadcaster.Calls)
}

func TestDisconnect_OnlyOnce(t *testing.T) {
	svc, broadcaster := setupService(t)

	require.NoError(t, svc.Dispatch("conn-a", models.EndpointChatAddUser, []byte(`{"sender":"alice"}`)))
	broadcaster.Calls = nil

	assert.True(t, svc.Disconnect("conn-a"))
	assert.False(t, svc.Disconnect("conn-a"))
	assert.Len(t, broadcaster.Sent("SendToAll"), 2)
}

func TestDisconnect_SharedNameKeepsOtherSession(t *testing.T) {
	svc, broadcaster := setupService(t)

	require.NoError(t, svc.Dispatch("conn-a", models.EndpointChatAddUser, []byte(`{"sender":"alice"}`)))
	require.NoError(t, svc.Dispatch("conn-b", models.EndpointChatAddUser, []byte(`{"sender":"alice"}`)))
	broadcaster.Calls = nil

	assert.True(t, svc.Disconnect("conn-a"))

	username, ok := svc.Registry.Lookup("conn-b")
	assert.True(t, ok)
	assert.Equal(t, "alice", username)
	assert.Len(t, broadcaster.Sent("SendToAll"), 2)
}
