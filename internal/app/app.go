// Package app wires configuration, the catalog, and the HTTP server.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/storefront/data"
	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/handler"
	"github.com/xenking/storefront/pkg/health"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

// LoadCatalog resolves the configured catalog source. An empty source means
// the catalog embedded in the binary; anything else is an http(s) URL or a
// file path handled by the loader.
func LoadCatalog(ctx context.Context, lg *zap.Logger, source string) *catalog.Memory {
	if source == "" {
		products, err := catalog.Parse(data.Products)
		if err != nil {
			// The embedded catalog is validated by tests; a parse failure
			// here means a broken build, not bad input.
			lg.Error("parsing embedded catalog", zap.Error(err))
			return catalog.NewMemory(nil)
		}
		lg.Info("using embedded catalog", zap.Int("products", len(products)))
		return catalog.NewMemory(products)
	}
	return catalog.Load(ctx, lg, source)
}

// NewServerHandler assembles the catalog server routes and middleware chain.
// ctx bounds the rate limiter's cleanup goroutine.
func NewServerHandler(ctx context.Context, lg *zap.Logger, cfg *Config, repo *catalog.Memory, healthSvc *health.Service) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	handler.NewCatalog(repo, cfg.Catalog.CacheMaxAge).Register(mux)

	return httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.LogRequests(),
	)
}

// Run creates all dependencies, starts the catalog server, and handles
// graceful shutdown. It is the single wiring point for the server binary.
func Run(ctx context.Context, lg *zap.Logger, _ *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	repo := LoadCatalog(ctx, lg, cfg.Catalog.Source)

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddReadinessCheck("catalog", time.Second, func(context.Context) error {
		if repo.Len() == 0 {
			return errors.New("catalog is empty")
		}
		return nil
	})
	healthSvc.SetReady(true)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           NewServerHandler(ctx, lg, cfg, repo, healthSvc),
	}

	// Graceful shutdown: flip readiness, wait out the delay, then drain.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
