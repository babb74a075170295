//go:build integration

// Package integration exercises the assembled catalog server: routes,
// middleware chain, and health probes together, over real HTTP.
package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/app"
	"github.com/xenking/storefront/pkg/health"
)

// Response types mirror the wire format rather than importing domain types,
// so these tests break when the contract does.

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type productResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type testServer struct {
	*httptest.Server
	health *health.Service
}

// newTestServer boots the full server handler on the embedded catalog.
func newTestServer(t *testing.T, mutate func(*app.Config)) *testServer {
	t.Helper()

	cfg := &app.Config{}
	cfg.Catalog.CacheMaxAge = 300
	cfg.RateLimit.Max = 1000
	cfg.RateLimit.Window = time.Minute
	cfg.CORS.Origins = []string{"*"}
	if mutate != nil {
		mutate(cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	lg := zap.NewNop()
	repo := app.LoadCatalog(ctx, lg, "")

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.SetReady(true)

	srv := httptest.NewServer(app.NewServerHandler(ctx, lg, cfg, repo, healthSvc))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, health: healthSvc}
}

func (s *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := s.Client().Get(s.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode body %q: %v", data, err)
	}
}
