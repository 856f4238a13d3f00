package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/api/response"
	"storefront/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestIDMiddleware())
	engine.Use(handlers...)
	return engine
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestRecoveryMiddlewareWritesInternalError(t *testing.T) {
	engine := newEngine(RecoveryMiddleware())
	engine.GET("/boom", func(c *gin.Context) { panic("nil map write") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "INTERNAL_ERROR", body.Error)
	assert.Equal(t, "internal server error", body.Message)
	assert.NotEmpty(t, body.RequestID)
	assert.NotContains(t, w.Body.String(), "nil map write")
	t.Log("✓ panics become a 500 envelope without leaking the panic value")
}

func TestRateLimitMiddleware(t *testing.T) {
	engine := newEngine(RateLimitMiddleware(&config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 1}))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decode(t, w)
	assert.Equal(t, "TOO_MANY_REQUESTS", body.Error)
	assert.Equal(t, http.StatusTooManyRequests, body.Code)
	t.Log("✓ exhausted bucket answers 429 TOO_MANY_REQUESTS")
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	engine := newEngine(RateLimitMiddleware(&config.RateLimitConfig{Enabled: false, Rate: 0.001, Burst: 1}))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
