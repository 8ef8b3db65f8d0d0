package queue

import (
	"context"
	"time"

	"todo-api/internal/domain/model"
)

type HealthGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
}

// QueueHealthGateway checks that the events queue can be resolved.
// A nil sender means events are disabled.
type QueueHealthGateway struct {
	sender    Sender
	queueName string
}

var _ HealthGateway = (*QueueHealthGateway)(nil)

func NewQueueHealthGateway(sender Sender, queueName string) *QueueHealthGateway {
	return &QueueHealthGateway{sender: sender, queueName: queueName}
}

func (gateway *QueueHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	if gateway.sender == nil {
		return model.DisabledComponent()
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	queueURL, err := gateway.sender.Ping(ctx, gateway.queueName)
	if err != nil {
		status := model.ComponentDown(err)
		status.Details["queue"] = gateway.queueName
		return status
	}

	status := model.ComponentUp(string(model.StatusUp))
	status.Details["queue"] = gateway.queueName
	status.Details["url"] = queueURL
	return status
}
