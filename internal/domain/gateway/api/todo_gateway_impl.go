package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
	"todo-api/pkg/http"
	"todo-api/pkg/msg"
	"todo-api/pkg/util/numberutils"
)

// requestIDHeader matches the header the API's request ID middleware reads and logs.
const requestIDHeader = "X-Request-Id"

// APIError is a non-2xx answer of the todo API
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return msg.GetMessage("client.error.request", e.Method, e.Path, e.StatusCode, e.Message)
}

type todoGatewayImpl struct {
	httpClient *http.Client
}

// NewTodoGateway creates a TodoGateway for the API served at baseUrl
func NewTodoGateway(baseUrl string, clientOptions http.ClientOptions) TodoGateway {
	return &todoGatewayImpl{
		httpClient: http.NewHttpClient(baseUrl, clientOptions),
	}
}

func (g *todoGatewayImpl) FindAll(ctx context.Context) ([]entity.Todo, error) {
	todos := make([]entity.Todo, 0)
	if err := g.execute(ctx, http.GET, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (g *todoGatewayImpl) Create(ctx context.Context, text string) (*entity.Todo, error) {
	var todo *entity.Todo
	err := g.execute(ctx, http.POST, "/todos", model.CreateTodoDTO{Text: text}, &todo)
	return todo, err
}

func (g *todoGatewayImpl) UpdateText(ctx context.Context, id int64, text string) (*entity.Todo, error) {
	var todo *entity.Todo
	err := g.execute(ctx, http.PUT, todoPath(id), model.UpdateTodoDTO{Text: text}, &todo)
	return todo, err
}

func (g *todoGatewayImpl) Complete(ctx context.Context, id int64) (*entity.Todo, error) {
	var todo *entity.Todo
	err := g.execute(ctx, http.PATCH, todoPath(id)+"/complete", nil, &todo)
	return todo, err
}

func (g *todoGatewayImpl) Delete(ctx context.Context, id int64) error {
	return g.execute(ctx, http.DELETE, todoPath(id), nil, &model.MessageResponse{})
}

func (g *todoGatewayImpl) execute(ctx context.Context, method http.RequestMethod, path string, body any, successResp any) error {
	errorResp := &model.ErrorResponse{}
	requestID := uuid.NewString()

	_, err := g.httpClient.Request().
		WithMethod(method).
		WithPath(path).
		WithHeaders(map[string]string{requestIDHeader: requestID}).
		WithBody(body).
		WithSuccessResp(successResp).
		WithErrorResp(errorResp).
		Execute(ctx)
	if err == nil {
		return nil
	}

	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		message := errorResp.Error
		if message == "" {
			message = string(statusErr.Body)
		}
		return &APIError{
			Method:     string(method),
			Path:       path,
			StatusCode: statusErr.StatusCode,
			Message:    message,
			RequestID:  requestID,
		}
	}

	return fmt.Errorf("%s %s: %w", method, path, err)
}

func todoPath(id int64) string {
	return "/todos/" + numberutils.FormatInt64(id)
}
