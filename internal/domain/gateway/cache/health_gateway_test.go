package cache

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/internal/domain/model"
	"todo-api/pkg/redis"
)

func TestRedisHealthGateway(t *testing.T) {
	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)

	client, err := redis.NewClient(redis.NewRedisConfig().WithHost(server.Host()).WithPort(port))
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	gateway := NewRedisHealthGateway(client)

	up := gateway.Health(context.Background())
	assert.Equal(t, model.StatusUp, up.Status)

	server.Close()

	down := gateway.Health(context.Background())
	assert.Equal(t, model.StatusDown, down.Status)
	assert.NotEmpty(t, down.Details["error"])
}

func TestRedisHealthGatewayDisabled(t *testing.T) {
	status := NewRedisHealthGateway(nil).Health(context.Background())

	assert.Equal(t, model.StatusUnknown, status.Status)
}
