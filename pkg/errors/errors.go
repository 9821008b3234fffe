package errors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrBadRequest           = errors.New("bad request")
	ErrInternalServer       = errors.New("internal server error")
	ErrMessageNotFound      = errors.New("message not found")
	ErrGroupMessageNotFound = errors.New("group message not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidPayload       = errors.New("invalid payload")
	ErrEmptyUpload          = errors.New("no file uploaded")
	ErrRateLimited          = errors.New("rate limit exceeded")
)

type APIError struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, code int) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
	}
}

func HTTPStatusFromError(err error) int {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMessageNotFound),
		errors.Is(err, ErrGroupMessageNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrInvalidPayload), errors.Is(err, ErrEmptyUpload):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage hides the detail of unclassified failures from HTTP callers.
func PublicMessage(err error) string {
	if HTTPStatusFromError(err) == http.StatusInternalServerError {
		return "server error"
	}
	return err.Error()
}
