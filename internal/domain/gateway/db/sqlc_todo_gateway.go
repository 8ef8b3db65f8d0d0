package db

import (
	"context"
	"database/sql"
	"time"

	"todo-api/internal/domain/entity"
)

type SQLCTodoGateway struct {
	DB                  *sql.DB
	provisionFullSchema bool
}

var _ TodoGateway = (*SQLCTodoGateway)(nil)

func NewSQLCTodoGateway(db *sql.DB, provisionFullSchema bool) *SQLCTodoGateway {
	return &SQLCTodoGateway{DB: db, provisionFullSchema: provisionFullSchema}
}

func (gateway *SQLCTodoGateway) FindAll(ctx context.Context) ([]entity.Todo, error) {
	return gateway.queryTodos(ctx, `SELECT * FROM todos ORDER BY id`)
}

func (gateway *SQLCTodoGateway) FindPage(ctx context.Context, offset int, limit int) ([]entity.Todo, error) {
	return gateway.queryTodos(ctx, `
		SELECT * FROM todos
		ORDER BY id
		LIMIT $1 OFFSET $2`, limit, offset)
}

// FindByText matches query as a case-insensitive substring of the todo text
func (gateway *SQLCTodoGateway) FindByText(ctx context.Context, query string) ([]entity.Todo, error) {
	return gateway.queryTodos(ctx, `
		SELECT * FROM todos
		WHERE text ILIKE '%' || $1 || '%'
		ORDER BY id`, query)
}

// FindByCreatedAtBetween returns todos created in [start, end]
func (gateway *SQLCTodoGateway) FindByCreatedAtBetween(ctx context.Context, start time.Time, end time.Time) ([]entity.Todo, error) {
	return gateway.queryTodos(ctx, `
		SELECT * FROM todos
		WHERE created_at BETWEEN $1 AND $2
		ORDER BY created_at, id`, start, end)
}

func (gateway *SQLCTodoGateway) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := gateway.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&count)
	return count, err
}

func (gateway *SQLCTodoGateway) Create(ctx context.Context, text string) (*entity.Todo, error) {
	return gateway.queryTodo(ctx, `INSERT INTO todos (text) VALUES ($1) RETURNING *`, text)
}

func (gateway *SQLCTodoGateway) UpdateText(ctx context.Context, id int64, text string) (*entity.Todo, error) {
	return gateway.queryTodo(ctx, `UPDATE todos SET text = $1 WHERE id = $2 RETURNING *`, text, id)
}

func (gateway *SQLCTodoGateway) MarkCompleted(ctx context.Context, id int64) (*entity.Todo, error) {
	return gateway.queryTodo(ctx, `UPDATE todos SET completed = TRUE WHERE id = $1 RETURNING *`, id)
}

func (gateway *SQLCTodoGateway) DeleteByID(ctx context.Context, id int64) error {
	_, err := gateway.DB.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	return err
}

func (gateway *SQLCTodoGateway) CreateTable(ctx context.Context) error {
	for _, statement := range SchemaStatements(gateway.provisionFullSchema) {
		if _, err := gateway.DB.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

func (gateway *SQLCTodoGateway) queryTodos(ctx context.Context, query string, args ...any) (todos []entity.Todo, err error) {
	rows, err := gateway.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return scanTodos(rows)
}

// queryTodo returns the first row of a RETURNING statement, or nil when nothing matched
func (gateway *SQLCTodoGateway) queryTodo(ctx context.Context, query string, args ...any) (*entity.Todo, error) {
	todos, err := gateway.queryTodos(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(todos) == 0 {
		return nil, nil
	}
	return &todos[0], nil
}

// scanTodos maps rows by column name so that tables lacking the optional
// completed/created_at columns still scan.
func scanTodos(rows *sql.Rows) ([]entity.Todo, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]entity.Todo, 0)
	for rows.Next() {
		var todo entity.Todo
		if err := rows.Scan(scanTargets(&todo, columns)...); err != nil {
			return nil, err
		}
		results = append(results, todo)
	}
	return results, rows.Err()
}

func scanTargets(todo *entity.Todo, columns []string) []any {
	targets := make([]any, len(columns))
	for i, column := range columns {
		switch column {
		case "id":
			targets[i] = &todo.ID
		case "text":
			targets[i] = &todo.Text
		case "completed":
			targets[i] = &todo.Completed
		case "created_at":
			targets[i] = &todo.CreatedAt
		default:
			targets[i] = new(any)
		}
	}
	return targets
}
