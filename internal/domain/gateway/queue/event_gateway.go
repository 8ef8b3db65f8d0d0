package queue

import (
	"context"

	"todo-api/internal/domain/model"
)

type TodoEventGateway interface {
	Publish(ctx context.Context, event model.TodoEvent) error
}

type SQSTodoEventGateway struct {
	sender    Sender
	queueName string
}

var _ TodoEventGateway = (*SQSTodoEventGateway)(nil)

func NewSQSTodoEventGateway(sender Sender, queueName string) *SQSTodoEventGateway {
	return &SQSTodoEventGateway{sender: sender, queueName: queueName}
}

// Publish sends the event with its type as the "type" message attribute
func (gateway *SQSTodoEventGateway) Publish(ctx context.Context, event model.TodoEvent) error {
	return gateway.sender.SendMessage(ctx, gateway.queueName, event, map[string]string{
		"type": string(event.Type),
	})
}

// NoopTodoEventGateway drops every event. Used when events are disabled.
type NoopTodoEventGateway struct{}

func (NoopTodoEventGateway) Publish(context.Context, model.TodoEvent) error {
	return nil
}
