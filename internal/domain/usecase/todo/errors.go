package todo

import (
	"errors"

	"todo-api/pkg/msg"
)

// ErrTableMissing is returned by FindAll when the todos table has not been created yet
var ErrTableMissing = errors.New(msg.GetMessage("todo.error.table-missing"))

// ValidationError marks input rejected before reaching the database
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(key string, args ...any) *ValidationError {
	return &ValidationError{Message: msg.GetMessage(key, args...)}
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
