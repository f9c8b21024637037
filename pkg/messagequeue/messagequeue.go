package messagequeue

import "context"

// Publisher defines the interface for publishing messages to a queue.
type Publisher interface {
	Publish(ctx context.Context, queueName string, contentType string, body []byte) error
	Close() error
}
