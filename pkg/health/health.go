// Package health provides liveness and readiness probes. Checks run
// periodically in the background; thresholds require several consecutive
// failures before a check flips unhealthy, so a single slow probe does not
// flap the endpoint.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one component; nil means healthy.
type CheckFunc func(ctx context.Context) error

const (
	failureThreshold = 3
	successThreshold = 1
)

// check holds one probe and its state. The counters are touched only by the
// single loop goroutine; healthy and lastErr are read by HTTP handlers and
// use atomics.
type check struct {
	name    string
	timeout time.Duration
	probe   CheckFunc

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	fails int
	oks   int
}

func (c *check) run(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	err := c.probe(probeCtx)
	cancel()
	c.lastErr.Store(&err)

	if err != nil {
		c.oks = 0
		c.fails++
		if c.fails >= failureThreshold {
			c.healthy.Store(false)
		}
		return
	}
	c.fails = 0
	c.oks++
	if c.oks >= successThreshold {
		c.healthy.Store(true)
	}
}

func (c *check) failure() string {
	if c.healthy.Load() {
		return ""
	}
	if p := c.lastErr.Load(); p != nil && *p != nil {
		return (*p).Error()
	}
	return "check is unhealthy"
}

// Service manages liveness and readiness checks. It starts not-ready; call
// SetReady(true) once initialization completes, and SetReady(false) to
// drain during shutdown.
type Service struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []*check
	readiness []*check
	cancel    context.CancelFunc
}

// New creates an empty health service.
func New() *Service {
	return &Service{}
}

func newCheck(name string, timeout time.Duration, probe CheckFunc) *check {
	c := &check{name: name, timeout: timeout, probe: probe}
	c.healthy.Store(true)
	return c
}

// AddLivenessCheck registers a probe for /livez.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, probe CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, newCheck(name, timeout, probe))
}

// AddReadinessCheck registers a probe for /readyz.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, probe CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, newCheck(name, timeout, probe))
}

// Start runs every registered check in its own goroutine at the given
// interval until Stop is called or ctx is cancelled.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	checks := append(append([]*check(nil), s.liveness...), s.readiness...)
	s.mu.Unlock()

	for _, c := range checks {
		go func(c *check) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			c.run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.run(ctx)
				}
			}
		}(c)
	}
}

// Stop cancels the background check goroutines. Safe to call repeatedly.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// SetReady sets the manual readiness gate.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports whether the manual gate is open and all readiness checks
// pass.
func (s *Service) IsReady() bool {
	if !s.ready.Load() {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.readiness {
		if !c.healthy.Load() {
			return false
		}
	}
	return true
}

type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves /livez: 200 while all liveness checks pass, else 503
// with the failing checks.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	checks := append([]*check(nil), s.liveness...)
	s.mu.RUnlock()
	writeProbe(w, failures(checks))
}

// ReadyEndpoint serves /readyz: 200 while the service is marked ready and
// all readiness checks pass, else 503 with details.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	checks := append([]*check(nil), s.readiness...)
	s.mu.RUnlock()

	fails := failures(checks)
	if !s.ready.Load() {
		fails["_readiness"] = "service is not ready"
	}
	writeProbe(w, fails)
}

func failures(checks []*check) map[string]string {
	fails := make(map[string]string)
	for _, c := range checks {
		if msg := c.failure(); msg != "" {
			fails[c.name] = msg
		}
	}
	return fails
}

func writeProbe(w http.ResponseWriter, fails map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := probeResponse{Status: "ok"}
	status := http.StatusOK
	if len(fails) > 0 {
		resp = probeResponse{Status: "unhealthy", Checks: fails}
		status = http.StatusServiceUnavailable
	}

	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
