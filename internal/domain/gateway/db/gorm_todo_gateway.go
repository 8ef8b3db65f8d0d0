package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"todo-api/internal/domain/entity"
)

// GormTodoGateway runs the same statements as SQLCTodoGateway through gorm.
// Raw queries keep the column-by-name scanning, so a minimal todos table works.
type GormTodoGateway struct {
	DB                  *gorm.DB
	provisionFullSchema bool
}

var _ TodoGateway = (*GormTodoGateway)(nil)

func NewGormTodoGateway(db *gorm.DB, provisionFullSchema bool) *GormTodoGateway {
	return &GormTodoGateway{DB: db, provisionFullSchema: provisionFullSchema}
}

func (gateway *GormTodoGateway) FindAll(ctx context.Context) ([]entity.Todo, error) {
	return gateway.rawTodos(ctx, `SELECT * FROM todos ORDER BY id`)
}

func (gateway *GormTodoGateway) FindPage(ctx context.Context, offset int, limit int) ([]entity.Todo, error) {
	return gateway.rawTodos(ctx, `SELECT * FROM todos ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
}

func (gateway *GormTodoGateway) FindByText(ctx context.Context, query string) ([]entity.Todo, error) {
	return gateway.rawTodos(ctx, `SELECT * FROM todos WHERE text ILIKE '%' || ? || '%' ORDER BY id`, query)
}

func (gateway *GormTodoGateway) FindByCreatedAtBetween(ctx context.Context, start time.Time, end time.Time) ([]entity.Todo, error) {
	return gateway.rawTodos(ctx, `SELECT * FROM todos WHERE created_at BETWEEN ? AND ? ORDER BY created_at, id`, start, end)
}

func (gateway *GormTodoGateway) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := gateway.DB.WithContext(ctx).Raw(`SELECT COUNT(*) FROM todos`).Scan(&count).Error
	return count, err
}

func (gateway *GormTodoGateway) Create(ctx context.Context, text string) (*entity.Todo, error) {
	return gateway.rawTodo(ctx, `INSERT INTO todos (text) VALUES (?) RETURNING *`, text)
}

func (gateway *GormTodoGateway) UpdateText(ctx context.Context, id int64, text string) (*entity.Todo, error) {
	return gateway.rawTodo(ctx, `UPDATE todos SET text = ? WHERE id = ? RETURNING *`, text, id)
}

func (gateway *GormTodoGateway) MarkCompleted(ctx context.Context, id int64) (*entity.Todo, error) {
	return gateway.rawTodo(ctx, `UPDATE todos SET completed = TRUE WHERE id = ? RETURNING *`, id)
}

func (gateway *GormTodoGateway) DeleteByID(ctx context.Context, id int64) error {
	return gateway.DB.WithContext(ctx).Exec(`DELETE FROM todos WHERE id = ?`, id).Error
}

func (gateway *GormTodoGateway) CreateTable(ctx context.Context) error {
	db := gateway.DB.WithContext(ctx)
	for _, statement := range SchemaStatements(gateway.provisionFullSchema) {
		if err := db.Exec(statement).Error; err != nil {
			return err
		}
	}
	return nil
}

func (gateway *GormTodoGateway) rawTodos(ctx context.Context, query string, args ...any) ([]entity.Todo, error) {
	todos := make([]entity.Todo, 0)
	if err := gateway.DB.WithContext(ctx).Raw(query, args...).Scan(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

func (gateway *GormTodoGateway) rawTodo(ctx context.Context, query string, args ...any) (*entity.Todo, error) {
	todos, err := gateway.rawTodos(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(todos) == 0 {
		return nil, nil
	}
	return &todos[0], nil
}
