package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
)

func passing() CheckFunc {
	return func(context.Context) error { return nil }
}

func failing(msg string) CheckFunc {
	return func(context.Context) error { return errors.New(msg) }
}

func probe(endpoint func(http.ResponseWriter, *http.Request)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	endpoint(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestLiveAllPassing(t *testing.T) {
	s := New()
	s.AddLivenessCheck("one", time.Second, passing())
	s.AddLivenessCheck("two", time.Second, passing())

	w := probe(s.LiveEndpoint)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestLiveNoChecks(t *testing.T) {
	s := New()
	w := probe(s.LiveEndpoint)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLiveFailingCheck(t *testing.T) {
	s := New()
	s.AddLivenessCheck("goroutines", time.Second, failing("too many"))

	w := probe(s.LiveEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)
	assert.Contains(t, w.Body.String(), `"goroutines":"too many"`)
}

func TestReadyRequiresFlag(t *testing.T) {
	s := New()
	s.AddReadinessCheck("catalog", time.Second, passing())

	w := probe(s.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "_readiness")

	s.SetReady(true)
	w = probe(s.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadyDraining(t *testing.T) {
	s := New()
	s.SetReady(true)
	assert.Equal(t, http.StatusOK, probe(s.ReadyEndpoint).Code)

	s.SetReady(false)
	assert.Equal(t, http.StatusServiceUnavailable, probe(s.ReadyEndpoint).Code)
}

func TestReadyOneOfManyFailing(t *testing.T) {
	s := New()
	s.AddReadinessCheck("catalog", time.Second, passing())
	s.AddReadinessCheck("feed", time.Second, failing("stale"))
	s.SetReady(true)

	w := probe(s.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"feed":"stale"`)
	assert.NotContains(t, w.Body.String(), `"catalog"`)
}

func TestIsReady(t *testing.T) {
	s := New()
	s.AddReadinessCheck("catalog", time.Second, passing())

	assert.False(t, s.IsReady())
	s.SetReady(true)
	assert.True(t, s.IsReady())

	s.AddReadinessCheck("feed", time.Second, failing("down"))
	assert.False(t, s.IsReady())
}

func TestCheckTimeout(t *testing.T) {
	s := New()
	s.AddLivenessCheck("slow", 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	w := probe(s.LiveEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(100000)(context.Background()))

	err := GoroutineCountCheck(0)(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds threshold")
}
