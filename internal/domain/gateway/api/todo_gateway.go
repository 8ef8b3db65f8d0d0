package api

import (
	"context"

	"todo-api/internal/domain/entity"
)

// TodoGateway calls the todo REST API
type TodoGateway interface {
	FindAll(ctx context.Context) ([]entity.Todo, error)
	Create(ctx context.Context, text string) (*entity.Todo, error)
	// UpdateText returns nil when the API answers null, i.e. the id does not exist
	UpdateText(ctx context.Context, id int64, text string) (*entity.Todo, error)
	Complete(ctx context.Context, id int64) (*entity.Todo, error)
	Delete(ctx context.Context, id int64) error
}
