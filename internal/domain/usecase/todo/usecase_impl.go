package todo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/domain/model"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/util/numberutils"
)

const (
	dateLayout     = "2006-01-02"
	publishTimeout = 5 * time.Second
)

type todoUseCase struct {
	gateway db.TodoGateway
	events  queue.TodoEventGateway
}

// NewTodoUseCase wires the use case. A nil events gateway disables events.
func NewTodoUseCase(gateway db.TodoGateway, events queue.TodoEventGateway) UseCase {
	if events == nil {
		events = queue.NoopTodoEventGateway{}
	}
	return &todoUseCase{
		gateway: gateway,
		events:  events,
	}
}

func (uc *todoUseCase) FindAll(ctx context.Context) ([]entity.Todo, error) {
	todos, err := uc.gateway.FindAll(ctx)
	if db.IsUndefinedTable(err) {
		return nil, ErrTableMissing
	}
	return todos, err
}

func (uc *todoUseCase) FindPage(ctx context.Context, page int, limit int) (*model.TodoPage, error) {
	if !numberutils.IsIntPositive(page) {
		return nil, NewValidationError("todo.error.invalid-page", "page", page)
	}
	if !numberutils.IsIntPositive(limit) {
		return nil, NewValidationError("todo.error.invalid-page", "limit", limit)
	}
	if numberutils.MulOverflows(page-1, limit) {
		return nil, NewValidationError("todo.error.page-out-of-range", page, limit)
	}

	todos, err := uc.gateway.FindPage(ctx, model.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}

	totalCount, err := uc.gateway.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	return model.NewTodoPage(todos, page, limit, totalCount), nil
}

func (uc *todoUseCase) Search(ctx context.Context, query string) ([]entity.Todo, error) {
	if strings.TrimSpace(query) == "" {
		return nil, NewValidationError("todo.error.empty-query")
	}
	return uc.gateway.FindByText(ctx, query)
}

func (uc *todoUseCase) FindByDateRange(ctx context.Context, start string, end string) ([]entity.Todo, error) {
	startTime, err := parseDate("start", start)
	if err != nil {
		return nil, err
	}
	endTime, err := parseDate("end", end)
	if err != nil {
		return nil, err
	}
	return uc.gateway.FindByCreatedAtBetween(ctx, startTime, endTime)
}

func (uc *todoUseCase) Count(ctx context.Context) (int64, error) {
	return uc.gateway.CountAll(ctx)
}

// Create inserts the todo. When the table is missing it is created and the
// insert is retried once; the two steps are not atomic.
func (uc *todoUseCase) Create(ctx context.Context, dto model.CreateTodoDTO) (*entity.Todo, error) {
	todo, err := uc.gateway.Create(ctx, dto.Text)
	if db.IsUndefinedTable(err) {
		if err := uc.gateway.CreateTable(ctx); err != nil {
			return nil, err
		}
		log.Info(msg.GetMessage("todo.table-created"))

		todo, err = uc.gateway.Create(ctx, dto.Text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", msg.GetMessage("todo.error.retry-failed"), err)
		}
	} else if err != nil {
		return nil, err
	}

	if todo != nil {
		uc.publish(ctx, model.TodoCreated, todo.ID, todo)
	}
	return todo, nil
}

func (uc *todoUseCase) UpdateText(ctx context.Context, id int64, dto model.UpdateTodoDTO) (*entity.Todo, error) {
	todo, err := uc.gateway.UpdateText(ctx, id, dto.Text)
	if err != nil || todo == nil {
		return todo, err
	}

	uc.publish(ctx, model.TodoUpdated, id, todo)
	return todo, nil
}

func (uc *todoUseCase) Complete(ctx context.Context, id int64) (*entity.Todo, error) {
	todo, err := uc.gateway.MarkCompleted(ctx, id)
	if err != nil || todo == nil {
		return todo, err
	}

	uc.publish(ctx, model.TodoCompleted, id, todo)
	return todo, nil
}

func (uc *todoUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.gateway.DeleteByID(ctx, id); err != nil {
		return err
	}

	uc.publish(ctx, model.TodoDeleted, id, nil)
	return nil
}

// publish never fails the caller. It outlives a cancelled request context so
// that a client disconnecting right after the write does not drop the event.
func (uc *todoUseCase) publish(ctx context.Context, eventType model.TodoEventType, id int64, todo *entity.Todo) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := uc.events.Publish(ctx, model.NewTodoEvent(eventType, id, todo)); err != nil {
		log.Warn(msg.GetMessage("todo.event.publish-failed", eventType, id, err),
			zap.String("event_type", string(eventType)),
			zap.Int64("todo_id", id),
			zap.Error(err))
	}
}

func parseDate(name string, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Time{}, NewValidationError("todo.error.invalid-date", name, value)
}
