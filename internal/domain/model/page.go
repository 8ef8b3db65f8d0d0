package model

import (
	"todo-api/internal/domain/entity"
	"todo-api/pkg/util/numberutils"
)

// TodoPage is the response of the paginated listing
type TodoPage struct {
	Todos       []entity.Todo `json:"todos"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
	TotalCount  int64         `json:"totalCount"`
}

// NewTodoPage creates a page with totalPages = ceil(totalCount / limit)
func NewTodoPage(todos []entity.Todo, page int, limit int, totalCount int64) *TodoPage {
	if todos == nil {
		todos = make([]entity.Todo, 0)
	}

	return &TodoPage{
		Todos:       todos,
		CurrentPage: page,
		TotalPages:  numberutils.CeilDiv(totalCount, limit),
		TotalCount:  totalCount,
	}
}

// Offset returns the number of rows skipped before a 1-based page.
func Offset(page int, limit int) int {
	return (page - 1) * limit
}
