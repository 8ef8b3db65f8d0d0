package db

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"todo-api/internal/domain/model"
)

type SQLCHealthDBGateway struct {
	DB *sql.DB
}

var _ HealthDBGateway = (*SQLCHealthDBGateway)(nil)

func NewSQLCHealthDBGateway(db *sql.DB) *SQLCHealthDBGateway {
	return &SQLCHealthDBGateway{DB: db}
}

func (gateway *SQLCHealthDBGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := gateway.DB.PingContext(ctx); err != nil {
		return model.ComponentDown(err)
	}

	return poolHealth(gateway.DB.Stats())
}

// poolHealth reports an UP status with the connection pool counters
func poolHealth(stats sql.DBStats) model.ComponentHealthStatus {
	status := model.ComponentUp(string(model.StatusUp))
	status.Details["open_connections"] = strconv.Itoa(stats.OpenConnections)
	status.Details["in_use"] = strconv.Itoa(stats.InUse)
	status.Details["idle"] = strconv.Itoa(stats.Idle)
	return status
}
