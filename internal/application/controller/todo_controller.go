package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"todo-api/internal/domain/model"
	"todo-api/internal/domain/usecase/todo"
	"todo-api/pkg/msg"
	"todo-api/pkg/util/numberutils"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type TodoController struct {
	api     *echo.Group
	useCase todo.UseCase
}

func NewTodoController(api *echo.Group, useCase todo.UseCase) *TodoController {
	return &TodoController{api: api, useCase: useCase}
}

// InitTodoRoutes initializes todo routes. Static paths win over /todos/:id in echo's router.
func (controller *TodoController) InitTodoRoutes() {
	controller.api.GET("/todos", controller.FindAll)
	controller.api.POST("/todos", controller.Create)
	controller.api.GET("/todos/paginated", controller.FindPage)
	controller.api.GET("/todos/search", controller.Search)
	controller.api.GET("/todos/date-range", controller.FindByDateRange)
	controller.api.GET("/todos/count", controller.Count)
	controller.api.PUT("/todos/:id", controller.UpdateText)
	controller.api.DELETE("/todos/:id", controller.Delete)
	controller.api.PATCH("/todos/:id/complete", controller.Complete)
}

// FindAll godoc
// @Summary List todos
// @Description Retrieve every todo ordered by id
// @Tags todos
// @Produce json
// @Success 200 {array} entity.Todo
// @Failure 500 {object} model.ErrorResponse "Table missing or database error"
// @Router /todos [get]
func (controller *TodoController) FindAll(c echo.Context) error {
	todos, err := controller.useCase.FindAll(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, todos)
}

// Create godoc
// @Summary Create a todo
// @Description Insert a todo. The todos table is created on the first insert.
// @Tags todos
// @Accept json
// @Produce json
// @Param todo body model.CreateTodoDTO true "Todo text"
// @Success 200 {object} entity.Todo
// @Failure 400 {object} model.ErrorResponse "Invalid request body"
// @Failure 500 {object} model.ErrorResponse "Database error"
// @Router /todos [post]
func (controller *TodoController) Create(c echo.Context) error {
	var dto model.CreateTodoDTO
	if err := c.Bind(&dto); err != nil {
		return fail(c, todo.NewValidationError("todo.error.invalid-body"))
	}

	created, err := controller.useCase.Create(c.Request().Context(), dto)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, created)
}

// FindPage godoc
// @Summary List a page of todos
// @Description Non-numeric page or limit fall back to the defaults
// @Tags todos
// @Produce json
// @Param page query int false "1-based page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} model.TodoPage
// @Failure 400 {object} model.ErrorResponse "page or limit below 1"
// @Failure 500 {object} model.ErrorResponse "Database error"
// @Router /todos/paginated [get]
func (controller *TodoController) FindPage(c echo.Context) error {
	page := numberutils.ToIntWithDefault(c.QueryParam("page"), defaultPage)
	limit := numberutils.ToIntWithDefault(c.QueryParam("limit"), defaultLimit)

	todoPage, err := controller.useCase.FindPage(c.Request().Context(), page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, todoPage)
}

// Search godoc
// @Summary Search todos
// @Description Case-insensitive substring match on the todo text
// @Tags todos
// @Produce json
// @Param q query string true "Text to look for"
// @Success 200 {array} entity.Todo
// @Failure 400 {object} model.ErrorResponse "Missing q"
// @Failure 500 {object} model.ErrorResponse "Database error"
// @Router /todos/search [get]
func (controller *TodoController) Search(c echo.Context) error {
	todos, err := controller.useCase.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, todos)
}

// FindByDateRange godoc
// @Summary List todos created in a date range
// @Description Both bounds are inclusive. A date without time means midnight.
// @Tags todos
// @Produce json
// @Param start query string true "YYYY-MM-DD or RFC3339"
// @Param end query string true "YYYY-MM-DD or RFC3339"
// @Success 200 {array} entity.Todo
// @Failure 400 {object} model.ErrorResponse "Invalid date"
// @Failure 500 {object} model.ErrorResponse "Database error, e.g. missing created_at column"
// @Router /todos/date-range [get]
func (controller *TodoController) FindByDateRange(c echo.Context) error {
	todos, err := controller.useCase.FindByDateRange(c.Request().Context(), c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, todos)
}

// Count godoc
// @Summary Count todos
// @Tags todos
// @Produce json
// @Success 200 {object} model.CountResponse
// @Failure 500 {object} model.ErrorResponse "Database error"
// @Router /todos/count [get]
func (controller *TodoController) Count(c echo.Context) error {
	count, err := controller.useCase.Count(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, model.CountResponse{Count: count})
}

// UpdateText godoc
// @Summary Update the text of a todo
// @Description Answers null when no todo has the given id
// @Tags todos
// @Accept json
// @Produce json
// @Param id path int true "Todo id"
// @Param todo body model.UpdateTodoDTO true "New text"
// @Success 200 {object} entity.Todo
// @Failure 400 {object} model.ErrorResponse "Invalid id or body"
// @Failure 500 {object} model.ErrorResponse "Database error"
// @Router /todos/{id} [put]
func (controller *TodoController) UpdateText(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}

	var dto model.UpdateTodoDTO
	if err := c.Bind(&dto); err != nil {
		return fail(c, todo.NewValidationError("todo.error.invalid-body"))
	}

	updated, err := controller.useCase.UpdateText(c.Request().Context(), id, dto)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete a todo
// @Description Succeeds whether or not the todo existed
// @Tags todos
// @Produce json
// @Param id path int true "Todo id"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse "Invalid id"
// @Failure 500 {object} model.ErrorResponse "Database error"
// @Router /todos/{id} [delete]
func (controller *TodoController) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}

	if err := controller.useCase.Delete(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: msg.GetMessage("todo.deleted")})
}

// Complete godoc
// @Summary Mark a todo as completed
// @Tags todos
// @Produce json
// @Param id path int true "Todo id"
// @Success 200 {object} entity.Todo
// @Failure 400 {object} model.ErrorResponse "Invalid id"
// @Failure 500 {object} model.ErrorResponse "Database error, e.g. missing completed column"
// @Router /todos/{id}/complete [patch]
func (controller *TodoController) Complete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}

	completed, err := controller.useCase.Complete(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, completed)
}

func parseID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := numberutils.ToInt64WithError(raw)
	if err != nil {
		return 0, todo.NewValidationError("todo.error.invalid-id", raw)
	}
	return id, nil
}

// fail renders err as {"error": ...}: 400 for validation errors, 500 otherwise
func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	if todo.IsValidationError(err) {
		status = http.StatusBadRequest
	}
	return c.JSON(status, model.ErrorResponse{Error: err.Error()})
}
