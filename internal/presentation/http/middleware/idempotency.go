package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/repository"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/handler"
	"github.com/sangkips/svs-ops-api/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour

	maxIdempotencyKeyLen = 255
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Log  logrus.FieldLogger
	TTL  time.Duration
	Now  func() time.Time
}

func (cfg IdempotencyConfig) withDefaults() IdempotencyConfig {
	if cfg.TTL <= 0 {
		cfg.TTL = IdempotencyKeyTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	return cfg
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when an authenticated client repeats
// a create request with the same Idempotency-Key. Only 2xx responses are
// stored, so a failed attempt may be retried with the same key.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	config = config.withDefaults()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			response.BadRequest(c, "Idempotency-Key too long")
			return
		}

		userID := handler.GetUserID(c)
		if userID == nil {
			c.Next()
			return
		}
		endpoint := c.Request.Method + " " + c.FullPath()

		existing, err := config.Repo.GetByKey(c.Request.Context(), key, *userID)
		if err != nil {
			response.Error(c, err)
			return
		}

		if existing != nil && !existing.IsExpired(config.Now()) {
			if existing.Endpoint != endpoint {
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key already used for another request")
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		now := config.Now()
		ikey := &entity.IdempotencyKey{
			Key:          key,
			UserID:       *userID,
			Endpoint:     endpoint,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			CreatedAt:    now,
			ExpiresAt:    now.Add(config.TTL),
		}
		if err := config.Repo.Save(c.Request.Context(), ikey); err != nil {
			logger.LogError(config.Log, "middleware", "Idempotency", "store idempotency key",
				logrus.Fields{"request_id": response.RequestID(c), "endpoint": endpoint}, err)
		}
	}
}

// PurgeExpiredIdempotencyKeys deletes expired keys every interval until ctx is done
func PurgeExpiredIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, every time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx, time.Now())
			if err != nil {
				logger.LogError(log, "middleware", "PurgeExpiredIdempotencyKeys", "purge idempotency keys", nil, err)
				continue
			}
			if n > 0 {
				log.WithField("deleted", n).Debug("purged idempotency keys")
			}
		}
	}
}
