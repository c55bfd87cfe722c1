package handlers

import (
	"errors"
	"net/http"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/apperr"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	status  int
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func (e *ErrorBody) Error() string  { return e.Message }
func (e *ErrorBody) GetStatus() int { return e.status }

func init() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		// Schema validation failures are client errors like any other bad input.
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}
		body := &ErrorBody{status: status, Message: msg}
		for _, err := range errs {
			if err != nil {
				body.Errors = append(body.Errors, err.Error())
			}
		}
		return body
	}
}

// toHTTP maps service errors onto huma status errors. Storage causes are logged and
// never returned to the client.
func toHTTP(log *zap.Logger, err error) error {
	var se huma.StatusError
	switch {
	case errors.As(err, &se):
		return err
	case errors.Is(err, apperr.ErrValidation):
		return huma.Error400BadRequest(apperr.Message(err))
	case errors.Is(err, apperr.ErrUnauthorized):
		return huma.Error401Unauthorized(apperr.Message(err))
	case errors.Is(err, apperr.ErrForbidden):
		return huma.Error403Forbidden(apperr.Message(err))
	case errors.Is(err, apperr.ErrNotFound):
		return huma.Error404NotFound(apperr.Message(err))
	case errors.Is(err, apperr.ErrConflict):
		return huma.Error409Conflict(apperr.Message(err))
	default:
		log.Error("request failed", zap.Error(err))
		return huma.Error500InternalServerError("Server error")
	}
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func message(text string) *MessageResponse {
	res := &MessageResponse{}
	res.Body.Message = text
	return res
}
