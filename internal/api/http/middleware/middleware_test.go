package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/projectvault/vault-backend/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	var seen string
	var scoped bool
	r := gin.New()
	r.Use(RequestID(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		scoped = logging.FromContext(c.Request.Context(), nil) != nil
		c.Status(http.StatusOK)
	})

	t.Run("echoes incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", rr.Header().Get(HeaderRequestID))
		assert.Equal(t, "abc-123", seen)
		assert.True(t, scoped)
	})

	t.Run("generates id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Len(t, rr.Header().Get(HeaderRequestID), 32)
		assert.Equal(t, rr.Header().Get(HeaderRequestID), seen)
	})

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}

func csrfRouter() *gin.Engine {
	r := gin.New()
	r.GET("/csrf", IssueCSRF)
	r.Use(CSRF())
	r.GET("/read", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/write", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCSRF(t *testing.T) {
	r := csrfRouter()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/csrf", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	token := cookies[0].Value
	assert.Len(t, token, csrfTokenBytes*2)

	t.Run("safe methods pass", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/read", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("matching token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/write", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: token})
		req.Header.Set(CSRFHeader, token)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/write", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: token})
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("mismatch rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/write", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: token})
		req.Header.Set(CSRFHeader, "forged")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("existing cookie reused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/csrf", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: token})
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Contains(t, rr.Body.String(), token)
	})
}

func TestRateLimiter(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewRateLimiter(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "clients have separate buckets")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))

	now = now.Add(limiterIdleTTL + 2*time.Minute)
	l.Allow("10.0.0.3")
	assert.Len(t, l.clients, 1, "idle clients evicted")
}

func TestRateLimiter_Middleware(t *testing.T) {
	l := NewRateLimiter(0.001, 1)
	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
