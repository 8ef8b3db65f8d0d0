package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"todo-api/internal/domain/model"
)

type staticHealth model.ComponentHealthStatus

func (s staticHealth) Health(context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus(s)
}

var (
	up       = staticHealth(model.ComponentUp("UP"))
	down     = staticHealth(model.ComponentDown(errors.New("connection refused")))
	disabled = staticHealth(model.DisabledComponent())
)

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name                   string
		database, cache, queue staticHealth
		expected               model.HealthStatus
	}{
		{"all up", up, up, up, model.StatusUp},
		{"optional components disabled", up, disabled, disabled, model.StatusUp},
		{"database down", down, disabled, disabled, model.StatusDown},
		{"cache down", up, down, disabled, model.StatusDown},
		{"queue down", up, up, down, model.StatusDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useCase := NewHealthUseCase(tt.database, tt.cache, tt.queue)

			response := useCase.CheckHealth(context.Background())

			assert.Equal(t, tt.expected, response.Status)
			assert.Equal(t, model.ComponentHealthStatus(tt.database), response.Database)
			assert.Equal(t, model.ComponentHealthStatus(tt.cache), response.Cache)
			assert.Equal(t, model.ComponentHealthStatus(tt.queue), response.Queue)
		})
	}
}
