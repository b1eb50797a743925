package errors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrProjectNotFound    = errors.New("project not found")
	ErrColumnNotFound     = errors.New("column not found")
	ErrLabelNotFound      = errors.New("label not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrLastColumn         = errors.New("cannot delete last column")
	ErrEmptyMessage       = errors.New("empty message")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
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
	switch err {
	case ErrNotFound, ErrProjectNotFound, ErrColumnNotFound, ErrLabelNotFound, ErrTaskNotFound:
		return http.StatusNotFound
	case ErrUnauthorized, ErrInvalidCredentials, ErrInvalidToken, ErrTokenExpired:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrBadRequest, ErrUserAlreadyExists, ErrLastColumn, ErrEmptyMessage:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
