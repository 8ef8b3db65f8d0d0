package aws

import (
	"context"

	"todo-api/internal/domain/gateway/queue"
	"todo-api/pkg/sqs"
)

// SQSSenderAdapter adapts the pkg/sqs.Sender to implement domain queue.Sender interface
type SQSSenderAdapter struct {
	sqsSender *sqs.Sender
}

var _ queue.Sender = (*SQSSenderAdapter)(nil)

func NewSQSSenderAdapter(sqsClient sqs.SQSClient) *SQSSenderAdapter {
	return &SQSSenderAdapter{
		sqsSender: sqs.NewSender(sqsClient),
	}
}

func (adapter *SQSSenderAdapter) SendMessage(ctx context.Context, queueName string, body any, attributes map[string]string) error {
	return adapter.sqsSender.SendMessage(ctx, queueName, body, sqs.Attributes(attributes))
}

func (adapter *SQSSenderAdapter) Ping(ctx context.Context, queueName string) (string, error) {
	return adapter.sqsSender.Ping(ctx, queueName)
}
