package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinebook/internal/config"
	"github.com/iliyamo/cinebook/internal/utils"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func do(e *echo.Echo, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokenBucketBlocksAfterCapacity(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "test:rl",
	}
	e := echo.New()
	e.POST("/book", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, newRedis(t)))

	assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/book", nil).Code)
	rec := do(e, http.MethodPost, "/book", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do(e, http.MethodPost, "/book", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retry, 0)
}

func TestTokenBucketPassThrough(t *testing.T) {
	e := echo.New()
	e.POST("/book", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/book", nil).Code)
	}
}

func TestRedisCacheHitAndMiss(t *testing.T) {
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		Prefix:       "test:cache",
		MaxBodyBytes: 1 << 20,
	}
	calls := 0
	e := echo.New()
	e.GET("/theatres/:location", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"location": c.Param("location")})
	}, NewRedisCache(cfg, newRedis(t)))

	first := do(e, http.MethodGet, "/theatres/Delhi", nil)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := do(e, http.MethodGet, "/theatres/Delhi", nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get(echo.HeaderContentType), "application/json")

	other := do(e, http.MethodGet, "/theatres/Mumbai", nil)
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Contains(t, other.Body.String(), "Mumbai")
	assert.Equal(t, 2, calls)
}

func TestRedisCacheSkipsErrors(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}, Prefix: "test:cache"}
	calls := 0
	e := echo.New()
	e.GET("/x", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "boom"})
	}, NewRedisCache(cfg, newRedis(t)))

	do(e, http.MethodGet, "/x", nil)
	do(e, http.MethodGet, "/x", nil)
	assert.Equal(t, 2, calls)
}

func TestPayloadCodec(t *testing.T) {
	t.Parallel()
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(201, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, 201, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestJWTAuthAndRole(t *testing.T) {
	const secret = "s3cret"
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(CtxSubject).(string))
	}, JWTAuth(secret), RequireRole(utils.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/admin", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/admin",
		http.Header{"Authorization": {"Bearer garbage"}}).Code)

	wrongKey, err := utils.NewAccessToken("other", "ops", utils.RoleAdmin, 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/admin",
		http.Header{"Authorization": {"Bearer " + wrongKey.Token}}).Code)

	customer, err := utils.NewAccessToken(secret, "ops", "CUSTOMER", 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/admin",
		http.Header{"Authorization": {"Bearer " + customer.Token}}).Code)

	admin, err := utils.NewAccessToken(secret, "ops", utils.RoleAdmin, 5)
	require.NoError(t, err)
	rec := do(e, http.MethodGet, "/admin", http.Header{"Authorization": {"Bearer " + admin.Token}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops", rec.Body.String())
}
