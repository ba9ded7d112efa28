package service

import (
	"log"

	"github.com/zlnvch/webboard/models"
)

// Disconnect removes connId's session and announces the departure on both the
// chat and the whiteboard. A connection that never joined leaves silently.
// It reports whether anything was announced.
func (s *Service) Disconnect(connId string) bool {
	username, ok := s.Registry.Unregister(connId)
	if !ok {
		return false
	}

	log.Printf("User disconnected: %s", username)

	leave := models.ChatMessage{Type: models.MessageLeave, Sender: username}
	s.broadcast(models.ChannelChat, leave, historyNone)
	s.recordTranscript(leave)

	// Ends any stroke the user left open on other clients; not part of history
	end := models.DrawEvent{Type: models.DrawEnd, Username: username}
	s.broadcast(models.ChannelWhiteboard, end, historyNone)

	return true
}
