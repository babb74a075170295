// Package health serves Kubernetes-style liveness and readiness probes.
//
// Checks are evaluated at probe time under a per-check timeout. That keeps
// the package free of background goroutines, which is a good fit for services
// whose checks are cheap in-process inspections.
package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
)

// CheckFunc reports the health of one component: nil means healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Service evaluates liveness and readiness checks and serves probe endpoints.
// The zero readiness state is "not ready"; call SetReady(true) once startup
// completes and SetReady(false) when draining.
type Service struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []check
	readiness []check
}

// New returns a Service in the not-ready state with no checks.
func New() *Service {
	return &Service{}
}

// AddLivenessCheck registers a check for the /livez probe.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check for the /readyz probe.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, check{name: name, timeout: timeout, fn: fn})
}

// SetReady flips the manual readiness flag.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports whether the service is marked ready and every readiness
// check passes.
func (s *Service) IsReady() bool {
	if !s.ready.Load() {
		return false
	}
	s.mu.RLock()
	checks := s.readiness
	s.mu.RUnlock()
	return len(evaluate(context.Background(), checks)) == 0
}

// LiveEndpoint serves /livez: 200 when all liveness checks pass, 503 with
// per-check failure messages otherwise.
func (s *Service) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	checks := s.liveness
	s.mu.RUnlock()

	writeStatus(w, evaluate(r.Context(), checks))
}

// ReadyEndpoint serves /readyz: 200 when the service is marked ready and all
// readiness checks pass, 503 with details otherwise.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	checks := s.readiness
	s.mu.RUnlock()

	failures := evaluate(r.Context(), checks)
	if !s.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}
	writeStatus(w, failures)
}

// evaluate runs every check under its timeout and collects failures by name.
func evaluate(ctx context.Context, checks []check) map[string]string {
	failures := make(map[string]string)
	for _, c := range checks {
		cctx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.fn(cctx)
		cancel()
		if err != nil {
			failures[c.name] = err.Error()
		}
	}
	return failures
}

func writeStatus(w http.ResponseWriter, failures map[string]string) {
	status := http.StatusOK

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("status")
	if len(failures) == 0 {
		e.Str("ok")
	} else {
		status = http.StatusServiceUnavailable
		e.Str("unhealthy")
		e.FieldStart("checks")
		e.ObjStart()
		for name, msg := range failures {
			e.FieldStart(name)
			e.Str(msg)
		}
		e.ObjEnd()
	}
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
