package model

import (
	"time"

	"github.com/google/uuid"

	"todo-api/internal/domain/entity"
)

type TodoEventType string

const (
	TodoCreated   TodoEventType = "todo.created"
	TodoUpdated   TodoEventType = "todo.updated"
	TodoCompleted TodoEventType = "todo.completed"
	TodoDeleted   TodoEventType = "todo.deleted"
)

// TodoEvent is published after a successful write. Todo is nil for deletions.
type TodoEvent struct {
	ID         string        `json:"id"`
	Type       TodoEventType `json:"type"`
	TodoID     int64         `json:"todoId"`
	Todo       *entity.Todo  `json:"todo,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}

func NewTodoEvent(eventType TodoEventType, todoID int64, todo *entity.Todo) TodoEvent {
	return TodoEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		TodoID:     todoID,
		Todo:       todo,
		OccurredAt: time.Now().UTC(),
	}
}
