package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learning-hub/internal/config"
	"github.com/iliyamo/learning-hub/internal/identity"
	"github.com/iliyamo/learning-hub/internal/model"
	"github.com/iliyamo/learning-hub/internal/utils"
)

const secret = "test-secret"

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func bearer(t *testing.T, id string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, model.Identity(id), time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		id, err := identity.ContextResolver{}.CurrentCaller(c.Request().Context())
		if err != nil {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, string(id))
	}, JWTAuth(secret))

	t.Run("Should resolve the token subject onto the request context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", bearer(t, "alice"))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", rec.Body.String())
	})
	t.Run("Should reject requests without a bearer token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("Should reject forged tokens", func(t *testing.T) {
		forged, _ := utils.NewAccessToken("not-the-secret", "alice", time.Hour)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+forged.Token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRedisCache(t *testing.T) {
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "test:cache",
		MaxBodyBytes: 1 << 20,
	}

	setup := func(t *testing.T) (*echo.Echo, *atomic.Int32) {
		rdb := newRedis(t)
		var calls atomic.Int32
		e := echo.New()
		e.GET("/items", func(c echo.Context) error {
			n := calls.Add(1)
			return c.JSON(http.StatusOK, echo.Map{"call": n})
		}, NewRedisCache(cfg, rdb))
		e.POST("/items", func(c echo.Context) error {
			return c.NoContent(http.StatusCreated)
		}, InvalidateOnWrite(cfg, rdb))
		e.POST("/fail", func(c echo.Context) error {
			return c.NoContent(http.StatusForbidden)
		}, InvalidateOnWrite(cfg, rdb))
		return e, &calls
	}
	do := func(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	t.Run("Should serve the second read from cache", func(t *testing.T) {
		e, calls := setup(t)
		first := do(e, http.MethodGet, "/items")
		second := do(e, http.MethodGet, "/items")
		assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
		assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, int32(1), calls.Load())
	})
	t.Run("Should drop cached reads after a successful write", func(t *testing.T) {
		e, calls := setup(t)
		do(e, http.MethodGet, "/items")
		do(e, http.MethodPost, "/items")
		third := do(e, http.MethodGet, "/items")
		assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
		assert.Equal(t, int32(2), calls.Load())
	})
	t.Run("Should keep cached reads after a rejected write", func(t *testing.T) {
		e, calls := setup(t)
		do(e, http.MethodGet, "/items")
		do(e, http.MethodPost, "/fail")
		again := do(e, http.MethodGet, "/items")
		assert.Equal(t, "HIT", again.Header().Get("X-Cache"))
		assert.Equal(t, int32(1), calls.Load())
	})
	t.Run("Should pass through when disabled", func(t *testing.T) {
		mw := NewRedisCache(config.CacheConfig{}, nil)
		e := echo.New()
		e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "x") }, mw)
		rec := do(e, http.MethodGet, "/x")
		assert.Empty(t, rec.Header().Get("X-Cache"))
	})
}

func TestTokenBucket(t *testing.T) {
	t.Run("Should reject requests over capacity", func(t *testing.T) {
		rdb := newRedis(t)
		cfg := config.RateLimitConfig{
			Enabled:        true,
			Capacity:       2,
			RefillTokens:   1,
			RefillInterval: time.Hour,
			TTL:            time.Hour,
			KeyStrategy:    "user_route",
			Prefix:         "test:rl",
		}
		e := echo.New()
		e.POST("/things", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
			JWTAuth(secret), NewTokenBucket(cfg, rdb))

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/things", nil)
			req.Header.Set("Authorization", bearer(t, "alice"))
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

		req := httptest.NewRequest(http.MethodPost, "/things", nil)
		req.Header.Set("Authorization", bearer(t, "bob"))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code, "buckets are per identity")
	})
}
