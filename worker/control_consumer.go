package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/zlnvch/webboard/models"
	"github.com/zlnvch/webboard/mq"
)

const CommandClear = "clear"

type ControlCommand struct {
	Command  string `json:"command"`
	Username string `json:"username"`
}

// ControlConsumer applies operator commands read from a queue. Commands are
// handed to submit, which feeds them through the same serialized path as
// client events.
type ControlConsumer struct {
	controlQueue mq.MessageQueue
	submit       func(ctx context.Context, event models.DrawEvent)
}

func NewControlConsumer(controlQueue mq.MessageQueue, submit func(ctx context.Context, event models.DrawEvent)) *ControlConsumer {
	return &ControlConsumer{
		controlQueue: controlQueue,
		submit:       submit,
	}
}

const visibilityTimeout = 30

// Pause after a failed receive so a broken queue does not spin the loop.
var receiveRetryDelay = time.Second

func (c *ControlConsumer) Run(shutdownCtx context.Context) {
	for {
		msg, err := c.controlQueue.Receive(shutdownCtx, visibilityTimeout)

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.Printf("controlConsumer receive error: %v", err)
			select {
			case <-shutdownCtx.Done():
				return
			case <-time.After(receiveRetryDelay):
			}
			continue
		}

		if msg == nil {
			if shutdownCtx.Err() != nil {
				return
			}
			continue
		}

		c.handle(shutdownCtx, msg)

		// Malformed and unknown commands are deleted too, they would never succeed
		if err := c.controlQueue.Delete(context.Background(), msg); err != nil {
			log.Printf("controlConsumer delete error: %v", err)
		}
	}
}

func (c *ControlConsumer) handle(ctx context.Context, msg *mq.Message) {
	var cmd ControlCommand
	if err := json.Unmarshal([]byte(msg.Body), &cmd); err != nil {
		log.Printf("Invalid control command: %v", err)
		return
	}

	switch cmd.Command {
	case CommandClear:
		log.Printf("Clearing whiteboard on control command from %q", cmd.Username)
		c.submit(ctx, models.DrawEvent{Username: cmd.Username, Type: models.DrawClear})
	default:
		log.Printf("Unknown control command: %q", cmd.Command)
	}
}
