// Package dbtest provides an in-memory TodoGateway that mimics the postgres
// error codes the application reacts to.
package dbtest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/gateway/db"
)

const (
	OpFindAll                = "FindAll"
	OpFindPage               = "FindPage"
	OpFindByText             = "FindByText"
	OpFindByCreatedAtBetween = "FindByCreatedAtBetween"
	OpCountAll               = "CountAll"
	OpCreate                 = "Create"
	OpUpdateText             = "UpdateText"
	OpMarkCompleted          = "MarkCompleted"
	OpDeleteByID             = "DeleteByID"
	OpCreateTable            = "CreateTable"
)

func UndefinedTableError() error {
	return &pq.Error{Code: "42P01", Message: `relation "todos" does not exist`}
}

func UndefinedColumnError(column string) error {
	return &pq.Error{Code: "42703", Message: `column "` + column + `" does not exist`}
}

// MemoryTodoGateway starts without a todos table. CreateTable provisions the
// minimal (id, text) layout unless the gateway was built with the full schema.
type MemoryTodoGateway struct {
	mu                  sync.Mutex
	provisionFullSchema bool
	tableExists         bool
	hasCompleted        bool
	hasCreatedAt        bool
	nextID              int64
	rows                []entity.Todo
	failures            map[string][]error
	calls               map[string]int

	// Now stamps created_at when the column exists
	Now func() time.Time
}

var _ db.TodoGateway = (*MemoryTodoGateway)(nil)

func NewMemoryTodoGateway(provisionFullSchema bool) *MemoryTodoGateway {
	return &MemoryTodoGateway{
		provisionFullSchema: provisionFullSchema,
		nextID:              1,
		failures:            make(map[string][]error),
		calls:               make(map[string]int),
		Now:                 time.Now,
	}
}

// NewMemoryTodoGatewayWithTable returns a gateway whose table already exists
func NewMemoryTodoGatewayWithTable(provisionFullSchema bool) *MemoryTodoGateway {
	gateway := NewMemoryTodoGateway(provisionFullSchema)
	gateway.provision()
	return gateway
}

// FailNext queues errors returned, one per call, by the next calls of op
func (g *MemoryTodoGateway) FailNext(op string, errs ...error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[op] = append(g.failures[op], errs...)
}

// Calls reports how many times op was invoked
func (g *MemoryTodoGateway) Calls(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *MemoryTodoGateway) TableExists() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tableExists
}

// SetCreatedAt overrides the creation time of a stored row
func (g *MemoryTodoGateway) SetCreatedAt(id int64, createdAt time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.rows {
		if g.rows[i].ID == id {
			g.rows[i].CreatedAt = &createdAt
		}
	}
}

func (g *MemoryTodoGateway) FindAll(ctx context.Context) ([]entity.Todo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(ctx, OpFindAll); err != nil {
		return nil, err
	}
	return g.copyRows(g.rows), nil
}

func (g *MemoryTodoGateway) FindPage(ctx context.Context, offset int, limit int) ([]entity.Todo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(ctx, OpFindPage); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(g.rows) || limit <= 0 {
		return []entity.Todo{}, nil
	}
	end := offset + limit
	if end > len(g.rows) {
		end = len(g.rows)
	}
	return g.copyRows(g.rows[offset:end]), nil
}

func (g *MemoryTodoGateway) FindByText(ctx context.Context, query string) ([]entity.Todo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(ctx, OpFindByText); err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]entity.Todo, 0)
	for _, row := range g.rows {
		if strings.Contains(strings.ToLower(row.Text), needle) {
			matches = append(matches, row)
		}
	}
	return g.copyRows(matches), nil
}

func (g *MemoryTodoGateway) FindByCreatedAtBetween(ctx context.Context, start time.Time, end time.Time) ([]entity.Todo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(ctx, OpFindByCreatedAtBetween); err != nil {
		return nil, err
	}
	if !g.hasCreatedAt {
		return nil, UndefinedColumnError("created_at")
	}

	matches := make([]entity.Todo, 0)
	for _, row := range g.rows {
		if row.CreatedAt == nil || row.CreatedAt.Before(start) || row.CreatedAt.After(end) {
			continue
		}
		matches = append(matches, row)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(*matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.Before(*matches[j].CreatedAt)
	})
	return g.copyRows(matches), nil
}

func (g *MemoryTodoGateway) CountAll(ctx context.Context) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(ctx, OpCountAll); err != nil {
		return 0, err
	}
	return int64(len(g.rows)), nil
}

func (g *MemoryTodoGateway) Create(ctx context.Context, text string) (*entity.Todo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(ctx, OpCreate); err != nil {
		return nil, err
	}

	todo := entity.Todo{ID: g.nextID, Text: text}
	if g.hasCompleted {
		completed := false
		todo.Completed = &completed
	}
	if g.hasCreatedAt {
		createdAt := g.Now()
		todo.CreatedAt = &createdAt
	}
	g.nextID++
	g.rows = append(g.rows, todo)

	created := g.copyRows([]entity.Todo{todo})[0]
	return &created, nil
}

func (g *MemoryTodoGateway) UpdateText(ctx context.Context, id int64, text string) (*entity.Todo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(ctx, OpUpdateText); err != nil {
		return nil, err
	}

	return g.update(id, func(todo *entity.Todo) { todo.Text = text }), nil
}

func (g *MemoryTodoGateway) MarkCompleted(ctx context.Context, id int64) (*entity.Todo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(ctx, OpMarkCompleted); err != nil {
		return nil, err
	}
	if !g.hasCompleted {
		return nil, UndefinedColumnError("completed")
	}

	return g.update(id, func(todo *entity.Todo) {
		completed := true
		todo.Completed = &completed
	}), nil
}

func (g *MemoryTodoGateway) DeleteByID(ctx context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(ctx, OpDeleteByID); err != nil {
		return err
	}

	kept := g.rows[:0]
	for _, row := range g.rows {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	g.rows = kept
	return nil
}

func (g *MemoryTodoGateway) CreateTable(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls[OpCreateTable]++
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := g.popFailure(OpCreateTable); err != nil {
		return err
	}
	g.provision()
	return nil
}

func (g *MemoryTodoGateway) provision() {
	g.tableExists = true
	if g.provisionFullSchema {
		g.hasCompleted = true
		g.hasCreatedAt = true
	}
}

// begin counts the call and returns the queued failure, the context error or
// the missing table error, in that order.
func (g *MemoryTodoGateway) begin(ctx context.Context, op string) error {
	g.calls[op]++
	if err := g.popFailure(op); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !g.tableExists {
		return UndefinedTableError()
	}
	return nil
}

func (g *MemoryTodoGateway) popFailure(op string) error {
	queued := g.failures[op]
	if len(queued) == 0 {
		return nil
	}
	g.failures[op] = queued[1:]
	return queued[0]
}

func (g *MemoryTodoGateway) update(id int64, apply func(todo *entity.Todo)) *entity.Todo {
	for i := range g.rows {
		if g.rows[i].ID == id {
			apply(&g.rows[i])
			updated := g.copyRows(g.rows[i : i+1])[0]
			return &updated
		}
	}
	return nil
}

// copyRows detaches the returned todos from the stored ones, pointers included
func (g *MemoryTodoGateway) copyRows(rows []entity.Todo) []entity.Todo {
	result := make([]entity.Todo, len(rows))
	for i, row := range rows {
		result[i] = row
		if row.Completed != nil {
			completed := *row.Completed
			result[i].Completed = &completed
		}
		if row.CreatedAt != nil {
			createdAt := *row.CreatedAt
			result[i].CreatedAt = &createdAt
		}
	}
	return result
}
