package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/svs-ops-api/pkg/apperror"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// OKResponse acknowledges an operation that returns no resource
type OKResponse struct {
	OK bool `json:"ok"`
}

// RequestID returns the id assigned to the request by the logger middleware
func RequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// JSON sends data as-is with the given status code
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// OK sends a 200 OK response
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Ack sends {"ok": true}
func Ack(c *gin.Context) {
	OK(c, OKResponse{OK: true})
}

// Error sends an error response. The error is attached to the context so the
// logger middleware records its cause; 5xx messages never include it.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	_ = c.Error(err)

	body := ErrorResponse{Error: appErr.Message}
	if appErr.Code >= http.StatusInternalServerError {
		body.RequestID = RequestID(c)
	}
	c.AbortWithStatusJSON(appErr.Code, body)
}

// ErrorWithCode sends an error response with a specific status code
func ErrorWithCode(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden response
func Forbidden(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusForbidden, message)
}

// NotFound sends a 404 Not Found response
func NotFound(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusNotFound, message)
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusTooManyRequests, message)
}
