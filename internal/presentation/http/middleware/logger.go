package middleware

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/handler"
	"github.com/sangkips/svs-ops-api/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// LoggerMiddleware assigns a request id and writes one structured entry per request
func LoggerMiddleware(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(response.RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		}
		if userID := handler.GetUserID(c); userID != nil {
			fields["user_id"] = userID.String()
		}
		entry := log.WithFields(fields)

		for _, e := range c.Errors {
			appErr := apperror.GetAppError(e.Err)
			errEntry := entry.WithField("error", e.Err.Error())
			if cause := appErr.Unwrap(); cause != nil {
				errEntry = errEntry.WithField("cause", cause.Error())
			}
			if appErr.Code >= http.StatusInternalServerError {
				errEntry.Error("request failed")
			} else {
				errEntry.Debug("request rejected")
			}
		}

		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// RecoveryMiddleware turns a panic into an opaque 500 carrying the request id
func RecoveryMiddleware(log logrus.FieldLogger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.WithFields(logrus.Fields{
			"request_id": response.RequestID(c),
			"panic":      recovered,
		}).Error("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorResponse{
			Error:     apperror.ErrInternalServer.Message,
			RequestID: response.RequestID(c),
		})
	})
}
