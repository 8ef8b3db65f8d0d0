package db

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockGateway(t *testing.T, provisionFullSchema bool) (*SQLCTodoGateway, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = conn.Close()
	})

	return NewSQLCTodoGateway(conn, provisionFullSchema), mock
}

func TestSQLCTodoGatewayFindAllMinimalTable(t *testing.T) {
	gateway, mock := newMockGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM todos ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text"}).
			AddRow(int64(1), "a").
			AddRow(int64(2), "b"))

	todos, err := gateway.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.EqualValues(t, 1, todos[0].ID)
	assert.Equal(t, "a", todos[0].Text)
	assert.Nil(t, todos[0].Completed)
	assert.Nil(t, todos[0].CreatedAt)
}

func TestSQLCTodoGatewayFindAllFullTable(t *testing.T) {
	gateway, mock := newMockGateway(t, false)
	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM todos ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "completed", "created_at", "extra"}).
			AddRow(int64(1), "a", true, createdAt, "ignored").
			AddRow(int64(2), "b", nil, nil, nil))

	todos, err := gateway.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, todos, 2)
	require.NotNil(t, todos[0].Completed)
	assert.True(t, *todos[0].Completed)
	require.NotNil(t, todos[0].CreatedAt)
	assert.True(t, createdAt.Equal(*todos[0].CreatedAt))
	assert.Nil(t, todos[1].Completed)
	assert.Nil(t, todos[1].CreatedAt)
}

func TestSQLCTodoGatewayFindAllEmpty(t *testing.T) {
	gateway, mock := newMockGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM todos`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text"}))

	todos, err := gateway.FindAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestSQLCTodoGatewayFindAllMissingTable(t *testing.T) {
	gateway, mock := newMockGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM todos`)).
		WillReturnError(&pq.Error{Code: "42P01", Message: `relation "todos" does not exist`})

	_, err := gateway.FindAll(context.Background())

	assert.True(t, IsUndefinedTable(err))
}

func TestSQLCTodoGatewayFindPage(t *testing.T) {
	gateway, mock := newMockGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $1 OFFSET $2`)).
		WithArgs(5, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text"}).AddRow(int64(11), "k"))

	todos, err := gateway.FindPage(context.Background(), 10, 5)

	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.EqualValues(t, 11, todos[0].ID)
}

func TestSQLCTodoGatewayFindByText(t *testing.T) {
	gateway, mock := newMockGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE text ILIKE '%' || $1 || '%'`)).
		WithArgs("milk").
		WillReturnRows(sqlmock.NewRows([]string{"id", "text"}).AddRow(int64(3), "Buy Milk"))

	todos, err := gateway.FindByText(context.Background(), "milk")

	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy Milk", todos[0].Text)
}

func TestSQLCTodoGatewayFindByCreatedAtBetween(t *testing.T) {
	gateway, mock := newMockGateway(t, false)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE created_at BETWEEN $1 AND $2`)).
		WithArgs(start, end).
		WillReturnError(&pq.Error{Code: "42703", Message: `column "created_at" does not exist`})

	_, err := gateway.FindByCreatedAtBetween(context.Background(), start, end)

	require.Error(t, err)
	assert.True(t, IsUndefinedColumn(err))
}

func TestSQLCTodoGatewayCountAll(t *testing.T) {
	gateway, mock := newMockGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM todos`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := gateway.CountAll(context.Background())

	require.NoError(t, err)
	assert.EqualValues(t, 42, count)
}

func TestSQLCTodoGatewayCreate(t *testing.T) {
	gateway, mock := newMockGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO todos (text) VALUES ($1) RETURNING *`)).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"id", "text"}).AddRow(int64(1), "a"))

	todo, err := gateway.Create(context.Background(), "a")

	require.NoError(t, err)
	require.NotNil(t, todo)
	assert.EqualValues(t, 1, todo.ID)
	assert.Equal(t, "a", todo.Text)
}

func TestSQLCTodoGatewayUpdateTextMissingRow(t *testing.T) {
	gateway, mock := newMockGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE todos SET text = $1 WHERE id = $2 RETURNING *`)).
		WithArgs("b", int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text"}))

	todo, err := gateway.UpdateText(context.Background(), 99, "b")

	require.NoError(t, err)
	assert.Nil(t, todo)
}

func TestSQLCTodoGatewayMarkCompleted(t *testing.T) {
	gateway, mock := newMockGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE todos SET completed = TRUE WHERE id = $1 RETURNING *`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "completed"}).AddRow(int64(1), "a", true))

	todo, err := gateway.MarkCompleted(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, todo)
	assert.True(t, todo.IsCompleted())
}

func TestSQLCTodoGatewayDeleteByID(t *testing.T) {
	gateway, mock := newMockGateway(t, false)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, gateway.DeleteByID(context.Background(), 5))
}

func TestSQLCTodoGatewayCreateTableMinimal(t *testing.T) {
	gateway, mock := newMockGateway(t, false)

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS todos`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, gateway.CreateTable(context.Background()))
}

func TestSQLCTodoGatewayCreateTableFullSchema(t *testing.T) {
	gateway, mock := newMockGateway(t, true)

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS todos`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`ADD COLUMN IF NOT EXISTS completed`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`ADD COLUMN IF NOT EXISTS created_at`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, gateway.CreateTable(context.Background()))
}

func TestSQLCTodoGatewayCreateTableStopsOnError(t *testing.T) {
	gateway, mock := newMockGateway(t, true)

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS todos`)).
		WillReturnError(sql.ErrConnDone)

	assert.ErrorIs(t, gateway.CreateTable(context.Background()), sql.ErrConnDone)
}
