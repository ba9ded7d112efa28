package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/zlnvch/webboard/models"
	"github.com/zlnvch/webboard/pubsub"
)

// historyOp tells other instances how a relayed broadcast changes the log.
type historyOp string

const (
	historyNone   historyOp = ""
	historyAppend historyOp = "append"
	historyClear  historyOp = "clear"
)

type relayEnvelope struct {
	Origin  string          `json:"origin"`
	Channel models.Channel  `json:"channel"`
	History historyOp       `json:"history,omitempty"`
	Data    json.RawMessage `json:"data"`
}

func (s *Service) publishRelay(channel models.Channel, payload any, op historyOp) {
	if s.Relay == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling relay payload: %v", err)
		return
	}
	msg, err := json.Marshal(relayEnvelope{Origin: s.InstanceId, Channel: channel, History: op, Data: data})
	if err != nil {
		log.Printf("Error marshaling relay envelope: %v", err)
		return
	}

	select {
	case s.relayCh <- msg:
	default:
		s.Metrics.IncrementRelayErrors()
		log.Printf("Relay buffer full, dropping %s broadcast", channel)
	}
}

// RunRelay publishes queued broadcasts one at a time so other instances see
// them in the order they were applied here.
func (s *Service) RunRelay(shutdownCtx context.Context) {
	if s.Relay == nil {
		return
	}
	for {
		select {
		case msg := <-s.relayCh:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Relay.Publish(ctx, pubsub.EventsChannel, msg); err != nil {
				s.Metrics.IncrementRelayErrors()
				log.Printf("Failed to publish relay message: %v", err)
			}
			cancel()

		case <-shutdownCtx.Done():
			return
		}
	}
}

// ApplyRelayed replays a broadcast made by another instance: the history
// change is applied to the local log and the payload is delivered to local
// clients. Messages from this instance are ignored.
func (s *Service) ApplyRelayed(message []byte) error {
	var env relayEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if env.Origin == s.InstanceId {
		return nil
	}

	switch env.History {
	case historyAppend:
		event, err := decodeDrawEvent(env.Data)
		if err != nil {
			return err
		}
		if err := s.History.Append(event); err != nil {
			return err
		}
	case historyClear:
		s.History.Clear()
	}

	s.Broadcaster.SendToAll(env.Channel, env.Data)
	return nil
}
