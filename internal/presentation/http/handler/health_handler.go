package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
)

// Pinger reports whether the database is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler answers liveness checks
type HealthHandler struct {
	service string
	db      Pinger
}

// NewHealthHandler creates a new health handler. db may be nil.
func NewHealthHandler(service string, db Pinger) *HealthHandler {
	return &HealthHandler{service: service, db: db}
}

// Check reports ok, or 503 when the database does not answer a ping
func (h *HealthHandler) Check(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			_ = c.Error(err)
			response.ErrorWithCode(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	response.OK(c, gin.H{"ok": true, "service": h.service})
}
