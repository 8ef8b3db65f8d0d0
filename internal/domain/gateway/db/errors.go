package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes of interest, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	undefinedTableCode  = "42P01"
	undefinedColumnCode = "42703"
)

// IsUndefinedTable reports whether err carries SQLSTATE 42P01, from either lib/pq or pgx.
func IsUndefinedTable(err error) bool {
	return sqlState(err) == undefinedTableCode
}

// IsUndefinedColumn reports whether err carries SQLSTATE 42703.
func IsUndefinedColumn(err error) bool {
	return sqlState(err) == undefinedColumnCode
}

func sqlState(err error) string {
	if err == nil {
		return ""
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}
