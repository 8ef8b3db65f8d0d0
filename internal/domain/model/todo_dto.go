package model

type CreateTodoDTO struct {
	Text string `json:"text"`
}

type UpdateTodoDTO struct {
	Text string `json:"text"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
