package client

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/gateway/api"
	"todo-api/pkg/log"
)

// View holds the todo list shown to the user and keeps it in step with the API.
// A failed call leaves the local list untouched; Load replaces it wholesale.
type View struct {
	gateway api.TodoGateway

	mu    sync.RWMutex
	items []entity.Todo
	input string
}

func NewView(gateway api.TodoGateway) *View {
	return &View{gateway: gateway, items: make([]entity.Todo, 0)}
}

// Items returns a copy of the current list
func (v *View) Items() []entity.Todo {
	v.mu.RLock()
	defer v.mu.RUnlock()

	items := make([]entity.Todo, len(v.items))
	copy(items, v.items)
	return items
}

func (v *View) Input() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.input
}

func (v *View) SetInput(input string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.input = input
}

func (v *View) Load(ctx context.Context) error {
	todos, err := v.gateway.FindAll(ctx)
	if err != nil {
		log.Error("client.load", zap.Error(err))
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = todos
	if v.items == nil {
		v.items = make([]entity.Todo, 0)
	}
	return nil
}

// Add posts the current input. Blank input is ignored and returns (nil, nil).
func (v *View) Add(ctx context.Context) (*entity.Todo, error) {
	text := v.Input()
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	todo, err := v.gateway.Create(ctx, text)
	if err != nil {
		log.Error("client.add", zap.String("text", text), zap.Error(err))
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if todo != nil {
		v.items = append(v.items, *todo)
	}
	v.input = ""
	return todo, nil
}

// Edit sends text for id and swaps the item for the response. A null response
// (the id no longer exists) leaves the list as is.
func (v *View) Edit(ctx context.Context, id int64, text string) (*entity.Todo, error) {
	todo, err := v.gateway.UpdateText(ctx, id, text)
	if err != nil {
		log.Error("client.edit", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if todo != nil {
		v.replace(*todo)
	}
	return todo, nil
}

func (v *View) Complete(ctx context.Context, id int64) (*entity.Todo, error) {
	todo, err := v.gateway.Complete(ctx, id)
	if err != nil {
		log.Error("client.complete", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if todo != nil {
		v.replace(*todo)
	}
	return todo, nil
}

func (v *View) Delete(ctx context.Context, id int64) error {
	if err := v.gateway.Delete(ctx, id); err != nil {
		log.Error("client.delete", zap.Int64("id", id), zap.Error(err))
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	kept := make([]entity.Todo, 0, len(v.items))
	for _, item := range v.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	v.items = kept
	return nil
}

func (v *View) replace(todo entity.Todo) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if v.items[i].ID == todo.ID {
			v.items[i] = todo
			return
		}
	}
}
