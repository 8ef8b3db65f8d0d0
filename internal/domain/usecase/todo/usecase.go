package todo

import (
	"context"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

type UseCase interface {
	FindAll(ctx context.Context) ([]entity.Todo, error)
	// FindPage returns the 1-based page of todos ordered by id
	FindPage(ctx context.Context, page int, limit int) (*model.TodoPage, error)
	Search(ctx context.Context, query string) ([]entity.Todo, error)
	// FindByDateRange accepts dates as YYYY-MM-DD or RFC3339, both bounds inclusive
	FindByDateRange(ctx context.Context, start string, end string) ([]entity.Todo, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, dto model.CreateTodoDTO) (*entity.Todo, error)
	UpdateText(ctx context.Context, id int64, dto model.UpdateTodoDTO) (*entity.Todo, error)
	Complete(ctx context.Context, id int64) (*entity.Todo, error)
	Delete(ctx context.Context, id int64) error
}
