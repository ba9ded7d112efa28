package pubsub

import "context"

// PubSub relays whiteboard and chat broadcasts between server instances.
type PubSub interface {
	Publish(ctx context.Context, channel string, message []byte) error
	Subscribe(ctx context.Context, channel string, handler func(message []byte)) error
}

const EventsChannel = "whiteboard:events"
