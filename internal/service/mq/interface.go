package mq

import "context"

// Message is one business event flowing through the queue.
type Message struct {
	ID       string            // broker message ID (e.g. redis stream ID)
	Topic    string            // e.g. "pay_events_payments"
	Key      string            // partition key, usually a username
	Payload  []byte            // JSON body
	Metadata map[string]string // optional metadata
}

// Producer publishes events.
type Producer interface {
	// Publish sends one message. key selects the partition; an empty key
	// means any partition.
	Publish(ctx context.Context, topic string, key string, payload []byte) error
}

// Consumer subscribes to events.
type Consumer interface {
	// Subscribe starts consuming topic. handler errors leave the message
	// unacknowledged.
	Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error

	// Close releases broker resources.
	Close() error
}
