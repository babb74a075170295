package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doGet(t *testing.T, h http.Handler, remoteAddr string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimitUnderLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 5, Window: time.Minute})(okHandler())

	for i := range 5 {
		w := doGet(t, h, "192.168.1.1:12345", nil)
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimitOverLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 2, Window: time.Minute})(okHandler())

	for range 2 {
		w := doGet(t, h, "10.0.0.1:9999", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doGet(t, h, "10.0.0.1:9999", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var code int64
	var message string
	d := jx.DecodeBytes(w.Body.Bytes())
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "code":
			code, err = d.Int64()
		case "message":
			message, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(429), code)
	assert.Equal(t, "rate limit exceeded", message)
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())

	assert.Equal(t, http.StatusOK, doGet(t, h, "10.0.0.1:1234", nil).Code)
	assert.Equal(t, http.StatusOK, doGet(t, h, "10.0.0.2:1234", nil).Code)
	// Port changes must not reset the per-IP budget.
	assert.Equal(t, http.StatusTooManyRequests, doGet(t, h, "10.0.0.1:5678", nil).Code)
}

func TestRateLimitCustomKeyFunc(t *testing.T) {
	h := RateLimit(RateLimitConfig{
		Max:    1,
		Window: time.Minute,
		KeyFunc: func(r *http.Request) string {
			return r.Header.Get("X-API-Key")
		},
	})(okHandler())

	assert.Equal(t, http.StatusOK, doGet(t, h, "1.1.1.1:1", map[string]string{"X-API-Key": "key-a"}).Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(t, h, "2.2.2.2:2", map[string]string{"X-API-Key": "key-a"}).Code)
	assert.Equal(t, http.StatusOK, doGet(t, h, "1.1.1.1:1", map[string]string{"X-API-Key": "key-b"}).Code)
}

func TestRateLimitXForwardedFor(t *testing.T) {
	h := RateLimit(RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())

	xff := map[string]string{"X-Forwarded-For": "203.0.113.50, 70.41.3.18"}
	assert.Equal(t, http.StatusOK, doGet(t, h, "192.168.1.1:4444", xff).Code)
	// Same forwarded client behind a different proxy hop is still limited.
	assert.Equal(t, http.StatusTooManyRequests, doGet(t, h, "192.168.1.2:5555", xff).Code)
}

func TestLimiterEvict(t *testing.T) {
	l := newLimiter(RateLimitConfig{Max: 1, Window: time.Minute})

	now := time.Now()
	_, _, ok := l.allow("stale", now)
	require.True(t, ok)

	l.evict(now.Add(3 * time.Minute))
	assert.Empty(t, l.buckets)
}
