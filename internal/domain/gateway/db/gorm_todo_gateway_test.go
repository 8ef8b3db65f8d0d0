package db

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockGormGateway(t *testing.T, provisionFullSchema bool) (*GormTodoGateway, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = conn.Close()
	})

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormTodoGateway(gormDB, provisionFullSchema), mock
}

func TestGormTodoGatewayFindAllMinimalTable(t *testing.T) {
	gateway, mock := newMockGormGateway(t, false)

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
	assert.EqualValues(t, 2, todos[1].ID)
}

func TestGormTodoGatewayFindAllFullTable(t *testing.T) {
	gateway, mock := newMockGormGateway(t, false)
	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM todos ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "completed", "created_at"}).
			AddRow(int64(1), "a", true, createdAt).
			AddRow(int64(2), "b", nil, nil))

	todos, err := gateway.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, todos, 2)
	require.NotNil(t, todos[0].Completed)
	assert.True(t, *todos[0].Completed)
	require.NotNil(t, todos[0].CreatedAt)
	assert.True(t, createdAt.Equal(*todos[0].CreatedAt))
	assert.Nil(t, todos[1].Completed)
}

func TestGormTodoGatewayFindAllEmpty(t *testing.T) {
	gateway, mock := newMockGormGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM todos ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text"}))

	todos, err := gateway.FindAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestGormTodoGatewayFindPageBindsLimitThenOffset(t *testing.T) {
	gateway, mock := newMockGormGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM todos ORDER BY id LIMIT $1 OFFSET $2`)).
		WithArgs(int64(10), int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text"}).AddRow(int64(21), "t21"))

	todos, err := gateway.FindPage(context.Background(), 20, 10)

	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.EqualValues(t, 21, todos[0].ID)
}

func TestGormTodoGatewayCountAll(t *testing.T) {
	gateway, mock := newMockGormGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM todos`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	count, err := gateway.CountAll(context.Background())

	require.NoError(t, err)
	assert.EqualValues(t, 7, count)
}

func TestGormTodoGatewayCreateReturnsRow(t *testing.T) {
	gateway, mock := newMockGormGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO todos (text) VALUES ($1) RETURNING *`)).
		WithArgs("Buy Milk").
		WillReturnRows(sqlmock.NewRows([]string{"id", "text"}).AddRow(int64(1), "Buy Milk"))

	created, err := gateway.Create(context.Background(), "Buy Milk")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.EqualValues(t, 1, created.ID)
	assert.Equal(t, "Buy Milk", created.Text)
}

func TestGormTodoGatewayUpdateTextNoMatchReturnsNil(t *testing.T) {
	gateway, mock := newMockGormGateway(t, false)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE todos SET text = $1 WHERE id = $2 RETURNING *`)).
		WithArgs("x", int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text"}))

	updated, err := gateway.UpdateText(context.Background(), 99, "x")

	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestGormTodoGatewayMarkCompletedNoMatchReturnsNil(t *testing.T) {
	gateway, mock := newMockGormGateway(t, true)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE todos SET completed = TRUE WHERE id = $1 RETURNING *`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "completed", "created_at"}))

	completed, err := gateway.MarkCompleted(context.Background(), 5)

	require.NoError(t, err)
	assert.Nil(t, completed)
}

func TestGormTodoGatewayErrorsKeepSQLState(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		undefined func(error) bool
	}{
		{"pgx undefined table", &pgconn.PgError{Code: "42P01"}, IsUndefinedTable},
		{"pq undefined table", &pq.Error{Code: "42P01"}, IsUndefinedTable},
		{"pgx undefined column", &pgconn.PgError{Code: "42703"}, IsUndefinedColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway, mock := newMockGormGateway(t, false)
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM todos ORDER BY id`)).
				WillReturnError(tt.err)

			todos, err := gateway.FindAll(context.Background())

			assert.Nil(t, todos)
			assert.True(t, tt.undefined(err))
		})
	}
}

func TestGormTodoGatewayDeleteByID(t *testing.T) {
	gateway, mock := newMockGormGateway(t, false)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todos WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, gateway.DeleteByID(context.Background(), 3))
}

func TestGormTodoGatewayCreateTable(t *testing.T) {
	for _, full := range []bool{false, true} {
		gateway, mock := newMockGormGateway(t, full)
		for _, statement := range SchemaStatements(full) {
			mock.ExpectExec(regexp.QuoteMeta(statement)).WillReturnResult(sqlmock.NewResult(0, 0))
		}

		assert.NoError(t, gateway.CreateTable(context.Background()))
	}
}

func TestGormTodoGatewayCreateTableStopsOnError(t *testing.T) {
	gateway, mock := newMockGormGateway(t, true)
	statements := SchemaStatements(true)
	require.Greater(t, len(statements), 1)

	mock.ExpectExec(regexp.QuoteMeta(statements[0])).WillReturnError(&pgconn.PgError{Code: "42501"})

	err := gateway.CreateTable(context.Background())

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "42501", pgErr.Code)
}
