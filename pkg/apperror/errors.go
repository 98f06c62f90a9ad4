package apperror

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "invalid credentials"}
	ErrMissingToken       = &AppError{Code: http.StatusUnauthorized, Message: "missing token"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "invalid token"}
	ErrTimeout            = &AppError{Code: http.StatusGatewayTimeout, Message: "operation timed out"}
)

// PostgreSQL SQLSTATE codes mapped by FromDB.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// FromDB translates constraint violations into client errors. conflictMsg
// replaces the generic message for unique violations when non-empty.
// Errors it does not recognise are returned unchanged.
func FromDB(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		msg := conflictMsg
		if msg == "" {
			msg = ErrConflict.Message
		}
		return &AppError{Code: http.StatusConflict, Message: msg, cause: err}
	case pgCheckViolation:
		return &AppError{Code: http.StatusConflict, Message: "constraint violated: " + pgErr.ConstraintName, cause: err}
	case pgForeignKeyViolation:
		return &AppError{Code: http.StatusBadRequest, Message: "referenced record does not exist", cause: err}
	}
	return err
}

// GetAppError converts an error to AppError if possible. Unknown errors
// become an opaque 500 that still wraps the original cause for logging.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrTimeout.Code, Message: ErrTimeout.Message, cause: err}
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: ErrInternalServer.Message,
		cause:   err,
	}
}
