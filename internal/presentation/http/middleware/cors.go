package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/svs-ops-api/internal/config"
)

// CORSMiddleware creates a CORS middleware with the provided configuration
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(corsConfig(cfg))
}

func corsConfig(cfg *config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  cfg.AllowedMethods,
		AllowHeaders:  cfg.AllowedHeaders,
		ExposeHeaders: []string{"Content-Length", "Content-Type", "Content-Disposition", "Deprecation", "X-Request-ID", "X-Idempotency-Replayed"},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range c.AllowOrigins {
		if o == "*" {
			c.AllowAllOrigins = true
			c.AllowOrigins = nil
			break
		}
	}
	if !c.AllowAllOrigins {
		if len(c.AllowOrigins) == 0 {
			c.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
		}
		c.AllowCredentials = true
	}

	if len(c.AllowMethods) == 0 {
		c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}

	if len(c.AllowHeaders) == 0 {
		c.AllowHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID", IdempotencyKeyHeader}
	} else if !contains(c.AllowHeaders, IdempotencyKeyHeader) {
		c.AllowHeaders = append(c.AllowHeaders, IdempotencyKeyHeader)
	}

	return c
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
