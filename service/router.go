package service

import (
	"fmt"
	"log"

	"github.com/zlnvch/webboard/models"
)

type routeHandler func(connId string, data []byte) error

func (s *Service) routeTable() map[string]routeHandler {
	return map[string]routeHandler{
		models.EndpointChatSend:        s.handleChatSend,
		models.EndpointChatAddUser:     s.handleChatAddUser,
		models.EndpointWhiteboardDraw:  s.handleDraw,
		models.EndpointWhiteboardClear: s.handleClear,
		models.EndpointWhiteboardJoin:  s.handleJoin,
	}
}

// Dispatch applies one inbound event from connId. Errors mean the event was
// dropped; they are for logging only and are never sent to clients.
func (s *Service) Dispatch(connId string, endpoint string, data []byte) error {
	s.Metrics.IncrementEventsReceived()

	handler, ok := s.routes[endpoint]
	if !ok {
		s.Metrics.IncrementEventsDropped()
		return fmt.Errorf("%w: %q", ErrUnknownEndpoint, endpoint)
	}

	if err := handler(connId, data); err != nil {
		s.Metrics.IncrementEventsDropped()
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	return nil
}

func (s *Service) handleChatSend(connId string, data []byte) error {
	msg, err := decodeChatMessage(data)
	if err != nil {
		return err
	}

	s.broadcast(models.ChannelChat, msg, historyNone)
	s.recordTranscript(msg)
	return nil
}

func (s *Service) handleChatAddUser(connId string, data []byte) error {
	msg, err := decodeChatMessage(data)
	if err != nil {
		return err
	}
	if msg.Sender == "" {
		return fmt.Errorf("%w: missing sender", ErrInvalidPayload)
	}

	s.Registry.Register(connId, msg.Sender)
	log.Printf("User joined: %s", msg.Sender)

	msg.Type = models.MessageJoin
	s.broadcast(models.ChannelChat, msg, historyNone)
	s.recordTranscript(msg)
	return nil
}

func (s *Service) handleDraw(connId string, data []byte) error {
	event, err := decodeDrawEvent(data)
	if err != nil {
		return err
	}
	if err := ValidateDrawEvent(event); err != nil {
		return err
	}
	if event.Type == models.DrawClear {
		// Clears have their own endpoint; one arriving here is a client bug
		return ErrClearInHistory
	}

	s.normalize(&event)

	if err := s.History.Append(event); err != nil {
		return err
	}
	s.broadcast(models.ChannelWhiteboard, event, historyAppend)
	return nil
}

func (s *Service) handleClear(connId string, data []byte) error {
	event, err := decodeDrawEvent(data)
	if err != nil {
		return err
	}
	if event.Type != models.DrawClear {
		return nil
	}

	s.History.Clear()
	s.broadcast(models.ChannelWhiteboard, event, historyClear)
	return nil
}

func (s *Service) handleJoin(connId string, data []byte) error {
	// Only the requester gets the replay; nothing in the payload is needed
	if len(data) > 0 {
		if _, err := decodeDrawEvent(data); err != nil {
			return err
		}
	}

	batch := models.HistoryBatch{
		Type:   models.HistoryBatchType,
		Events: s.History.Snapshot(),
	}
	s.Broadcaster.SendToOne(connId, models.ChannelHistoryBatch, batch)
	return nil
}

// normalize forces eraser strokes to paint with the canvas color, whatever the
// client sent.
func (s *Service) normalize(event *models.DrawEvent) {
	if event.Type == models.DrawErase {
		event.IsEraser = true
		event.Color = s.canvasBackground
	}
}

func (s *Service) broadcast(channel models.Channel, payload any, op historyOp) {
	s.Broadcaster.SendToAll(channel, payload)
	s.Metrics.IncrementBroadcasts()
	s.publishRelay(channel, payload, op)
}

func (s *Service) recordTranscript(msg models.ChatMessage) {
	if s.Transcript == nil {
		return
	}
	if !s.Transcript.Record(msg) {
		log.Printf("Transcript buffer full, dropping message from %s", msg.Sender)
	}
}
