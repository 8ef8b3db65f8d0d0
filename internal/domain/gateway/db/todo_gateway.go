package db

import (
	"context"
	"time"

	"todo-api/internal/domain/entity"
)

// TodoGateway maps todo operations onto single statements against the todos table.
// Update and complete return a nil todo when no row matches the id.
type TodoGateway interface {
	FindAll(ctx context.Context) ([]entity.Todo, error)
	FindPage(ctx context.Context, offset int, limit int) ([]entity.Todo, error)
	FindByText(ctx context.Context, query string) ([]entity.Todo, error)
	FindByCreatedAtBetween(ctx context.Context, start time.Time, end time.Time) ([]entity.Todo, error)
	CountAll(ctx context.Context) (int64, error)

	Create(ctx context.Context, text string) (*entity.Todo, error)
	UpdateText(ctx context.Context, id int64, text string) (*entity.Todo, error)
	MarkCompleted(ctx context.Context, id int64) (*entity.Todo, error)
	DeleteByID(ctx context.Context, id int64) error

	// CreateTable provisions the todos table if it does not exist yet.
	CreateTable(ctx context.Context) error
}
