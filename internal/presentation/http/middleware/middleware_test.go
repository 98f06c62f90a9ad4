package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/svs-ops-api/internal/config"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/svs-ops-api/internal/presentation/http/handler"
	"github.com/sangkips/svs-ops-api/pkg/apperror"
	"github.com/sangkips/svs-ops-api/pkg/logger"
	"github.com/sangkips/svs-ops-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newJWT() *utils.JWTManager {
	return utils.NewJWTManager("test-secret", time.Hour, "svs-ops-api")
}

func TestAuthMiddleware(t *testing.T) {
	jwt := newJWT()
	userID := uuid.New()
	token, err := jwt.GenerateAccessToken(userID, "alice", []string{"so:view"})
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", AuthMiddleware(jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":    handler.GetUserID(c).String(),
			"name":  handler.GetUsername(c),
			"perms": handler.GetUserPermissions(c),
		})
	})

	tests := []struct {
		name   string
		header string
		status int
		errMsg string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing token"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "invalid token"},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, "invalid token"},
		{"valid", "Bearer " + token, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + token, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, decodeError(t, w).Error)
				return
			}
			assert.Contains(t, w.Body.String(), userID.String())
			assert.Contains(t, w.Body.String(), `"name":"alice"`)
		})
	}
}

func TestRequirePermission(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(handler.UserPermissionsKey, []string{"so:view"})
	})
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	router.GET("/allowed", RequirePermission("so:view"), ok)
	router.GET("/denied", RequirePermission("so:create"), ok)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/allowed", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/denied", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", decodeError(t, w).Error)
}

func TestLoggerMiddleware_RequestIDAndOpaque500(t *testing.T) {
	router := gin.New()
	router.Use(LoggerMiddleware(logger.Discard()))
	router.GET("/boom", func(c *gin.Context) {
		response.Error(c, errors.New("pq: relation does not exist"))
	})
	router.GET("/bad", func(c *gin.Context) {
		response.Error(c, apperror.NewBadRequestError("sku required"))
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	body := decodeError(t, w)
	assert.Equal(t, "internal server error", body.Error)
	assert.Equal(t, "req-123", body.RequestID)
	assert.NotContains(t, w.Body.String(), "relation")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, `{"error":"sku required"}`, w.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(LoggerMiddleware(logger.Discard()), RecoveryMiddleware(logger.Discard()))
	router.GET("/panic", func(c *gin.Context) { panic("nil map") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "internal server error", body.Error)
	assert.NotEmpty(t, body.RequestID)
}

func TestDeprecated(t *testing.T) {
	router := gin.New()
	router.GET("/old", Deprecated(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/old", nil))
	assert.Equal(t, "true", w.Header().Get("Deprecation"))
}

func TestUserRateLimiter(t *testing.T) {
	rl := NewUserRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2, CleanupInterval: time.Minute, EntryTTL: time.Minute})
	alice, bob := uuid.New(), uuid.New()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader("X-User")); err == nil {
			c.Set(handler.UserIDKey, id)
		}
	})
	router.Use(rl.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(user uuid.UUID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User", user.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, call(alice).Code)
	assert.Equal(t, http.StatusOK, call(alice).Code)
	limited := call(alice)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "rate limit exceeded", decodeError(t, limited).Error)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, call(bob).Code, "limits are per user")
	assert.Equal(t, 2, rl.ActiveKeys())

	rl.now = func() time.Time { return time.Now().Add(time.Hour) }
	rl.cleanup()
	assert.Equal(t, 0, rl.ActiveKeys())
}

func TestRateLimiterConfigFor(t *testing.T) {
	cfg := RateLimiterConfigFor(120, 60)
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.Equal(t, 120, cfg.BurstSize)

	assert.Equal(t, DefaultRateLimiterConfig(), RateLimiterConfigFor(0, 60))
}

type memIdempotencyRepo struct {
	mu    sync.Mutex
	keys  map[string]*entity.IdempotencyKey
	saves int
}

func newMemIdempotencyRepo() *memIdempotencyRepo {
	return &memIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}
}

func (m *memIdempotencyRepo) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.keys[key+"|"+userID.String()]
	if !ok {
		return nil, nil
	}
	c := *k
	return &c, nil
}

func (m *memIdempotencyRepo) Save(ctx context.Context, ikey *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	c := *ikey
	m.keys[ikey.Key+"|"+ikey.UserID.String()] = &c
	return nil
}

func (m *memIdempotencyRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, v := range m.keys {
		if v.IsExpired(now) {
			delete(m.keys, k)
			n++
		}
	}
	return n, nil
}

func TestIdempotency_ReplaysSuccessfulCreate(t *testing.T) {
	repo := newMemIdempotencyRepo()
	user := uuid.New()
	calls := 0

	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(handler.UserIDKey, user) })
	idem := Idempotency(IdempotencyConfig{Repo: repo, Log: logger.Discard()})
	router.POST("/orders", idem, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"number": calls})
	})
	router.POST("/invoices", idem, func(c *gin.Context) { c.Status(http.StatusCreated) })

	post := func(path, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := post("/orders", "k1")
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.JSONEq(t, `{"number":1}`, first.Body.String())

	replay := post("/orders", "k1")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.JSONEq(t, `{"number":1}`, replay.Body.String())
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 1, calls)

	assert.JSONEq(t, `{"number":2}`, post("/orders", "").Body.String())
	assert.JSONEq(t, `{"number":3}`, post("/orders", "k2").Body.String())

	reused := post("/invoices", "k1")
	assert.Equal(t, http.StatusUnprocessableEntity, reused.Code)

	assert.Equal(t, http.StatusBadRequest, post("/orders", strings.Repeat("x", 300)).Code)
}

func TestIdempotency_DoesNotStoreFailures(t *testing.T) {
	repo := newMemIdempotencyRepo()
	user := uuid.New()
	fail := true

	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(handler.UserIDKey, user) })
	router.POST("/orders", Idempotency(IdempotencyConfig{Repo: repo, Log: logger.Discard()}), func(c *gin.Context) {
		if fail {
			response.BadRequest(c, "items[] required")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(IdempotencyKeyHeader, "retry-me")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusBadRequest, post().Code)
	assert.Equal(t, 0, repo.saves)

	fail = false
	assert.Equal(t, http.StatusCreated, post().Code)
	assert.Equal(t, 1, repo.saves)
}

func TestIdempotency_ExpiredKeyRunsAgain(t *testing.T) {
	repo := newMemIdempotencyRepo()
	user := uuid.New()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0

	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(handler.UserIDKey, user) })
	router.POST("/orders", Idempotency(IdempotencyConfig{
		Repo: repo, Log: logger.Discard(), TTL: time.Hour, Now: func() time.Time { return now },
	}), func(c *gin.Context) {
		calls++
		c.Status(http.StatusCreated)
	})

	post := func() {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(IdempotencyKeyHeader, "k")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	post()
	post()
	assert.Equal(t, 1, calls)

	now = now.Add(2 * time.Hour)
	post()
	assert.Equal(t, 2, calls)

	n, err := repo.DeleteExpired(context.Background(), now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCORSConfig(t *testing.T) {
	cfg := corsConfig(&config.CORSConfig{})
	assert.Contains(t, cfg.AllowOrigins, "http://localhost:5173")
	assert.True(t, cfg.AllowCredentials)
	assert.Contains(t, cfg.AllowHeaders, IdempotencyKeyHeader)

	cfg = corsConfig(&config.CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"Authorization"},
	})
	assert.True(t, cfg.AllowAllOrigins)
	assert.Empty(t, cfg.AllowOrigins)
	assert.False(t, cfg.AllowCredentials)
	assert.Equal(t, []string{"Authorization", IdempotencyKeyHeader}, cfg.AllowHeaders)
}
