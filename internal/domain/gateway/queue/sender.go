package queue

import "context"

// Sender delivers JSON messages to a named queue
type Sender interface {
	SendMessage(ctx context.Context, queueName string, body any, attributes map[string]string) error
	// Ping resolves the queue and returns its URL
	Ping(ctx context.Context, queueName string) (string, error)
}
