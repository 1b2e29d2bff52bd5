package biz

import (
	"context"
	"sync"
	"time"

	pkglog "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
)

// CircuitState is the state of a single service circuit.
type CircuitState string

const (
	// CircuitClosed lets every call through.
	CircuitClosed CircuitState = "CLOSED"
	// CircuitOpen rejects calls until the reset timeout elapses.
	CircuitOpen CircuitState = "OPEN"
	// CircuitHalfOpen lets calls through to probe for recovery.
	CircuitHalfOpen CircuitState = "HALF_OPEN"
)

// Known external services guarded by the registry.
const (
	ServiceGemini   = "gemini"
	ServiceStripe   = "stripe"
	ServiceClerk    = "clerk"
	ServiceUnsplash = "unsplash"
)

// CircuitConfig controls when a circuit opens and closes.
type CircuitConfig struct {
	// FailureThreshold is the number of failures in CLOSED that opens the circuit.
	FailureThreshold int
	// ResetTimeout is how long an OPEN circuit blocks before probing.
	ResetTimeout time.Duration
	// SuccessThreshold is the number of successes in HALF_OPEN that closes the circuit.
	SuccessThreshold int
}

// DefaultCircuitConfig returns the process-wide fallback configuration.
func DefaultCircuitConfig() CircuitConfig {
	return CircuitConfig{
		FailureThreshold: 5,
		ResetTimeout:     30 * time.Second,
		SuccessThreshold: 2,
	}
}

// merge returns c with every positive field of override applied.
func (c CircuitConfig) merge(override CircuitConfig) CircuitConfig {
	if override.FailureThreshold > 0 {
		c.FailureThreshold = override.FailureThreshold
	}
	if override.ResetTimeout > 0 {
		c.ResetTimeout = override.ResetTimeout
	}
	if override.SuccessThreshold > 0 {
		c.SuccessThreshold = override.SuccessThreshold
	}
	return c
}

// CircuitStatus is a point-in-time snapshot of a circuit.
type CircuitStatus struct {
	Service         string       `json:"service"`
	State           CircuitState `json:"state"`
	FailureCount    int          `json:"failure_count"`
	SuccessCount    int          `json:"success_count"`
	LastFailureTime *time.Time   `json:"last_failure_time,omitempty"`
	LastSuccessTime *time.Time   `json:"last_success_time,omitempty"`
	OpenedAt        *time.Time   `json:"opened_at,omitempty"`
}

// StateChangeListener is notified after a circuit changes state. It is called
// outside the circuit lock, so it may read the registry.
type StateChangeListener interface {
	OnStateChange(service string, from, to CircuitState, status CircuitStatus)
}

// circuit holds the mutable state of one service. Each circuit has its own
// lock so unrelated services never contend.
type circuit struct {
	mu           sync.Mutex
	state        CircuitState
	failureCount int
	successCount int
	lastFailure  time.Time
	lastSuccess  time.Time
	openedAt     time.Time
}

func (c *circuit) snapshot(service string) CircuitStatus {
	return CircuitStatus{
		Service:         service,
		State:           c.state,
		FailureCount:    c.failureCount,
		SuccessCount:    c.successCount,
		LastFailureTime: timePtr(c.lastFailure),
		LastSuccessTime: timePtr(c.lastSuccess),
		OpenedAt:        timePtr(c.openedAt),
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// transition describes a state change to report once locks are released.
type transition struct {
	from, to CircuitState
	status   CircuitStatus
}

// CircuitBreakerRegistry tracks one circuit per service name. Circuits are
// created lazily on first reference and live until Reset.
type CircuitBreakerRegistry struct {
	mu       sync.RWMutex
	circuits map[string]*circuit
	configs  map[string]CircuitConfig
	defaults CircuitConfig

	listeners []StateChangeListener
	now       func() time.Time
	logger    *pkglog.LogHelper
}

// RegistryOption configures a CircuitBreakerRegistry.
type RegistryOption func(*CircuitBreakerRegistry)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *CircuitBreakerRegistry) {
		r.now = now
	}
}

// WithDefaultConfig replaces the fallback configuration. Zero fields keep
// the built-in defaults.
func WithDefaultConfig(cfg CircuitConfig) RegistryOption {
	return func(r *CircuitBreakerRegistry) {
		r.defaults = DefaultCircuitConfig().merge(cfg)
	}
}

// WithStateChangeListener registers a listener for state transitions.
func WithStateChangeListener(l StateChangeListener) RegistryOption {
	return func(r *CircuitBreakerRegistry) {
		if l != nil {
			r.listeners = append(r.listeners, l)
		}
	}
}

// WithLogger sets the logger used for transition logs.
func WithLogger(logger log.Logger) RegistryOption {
	return func(r *CircuitBreakerRegistry) {
		r.logger = pkglog.NewLogHelper(logger)
	}
}

// NewCircuitBreakerRegistry creates an empty registry.
func NewCircuitBreakerRegistry(opts ...RegistryOption) *CircuitBreakerRegistry {
	r := &CircuitBreakerRegistry{
		circuits: make(map[string]*circuit),
		configs:  make(map[string]CircuitConfig),
		defaults: DefaultCircuitConfig(),
		now:      time.Now,
		logger:   pkglog.NewLogHelper(log.DefaultLogger),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Configure merges partial over the default configuration and stores the
// result for service. Calling it again replaces the previous override.
func (r *CircuitBreakerRegistry) Configure(service string, partial CircuitConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[service] = r.defaults.merge(partial)
}

// Config returns the effective configuration for service.
func (r *CircuitBreakerRegistry) Config(service string) CircuitConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cfg, ok := r.configs[service]; ok {
		return cfg
	}
	return r.defaults
}

func (r *CircuitBreakerRegistry) getOrCreate(service string) *circuit {
	r.mu.RLock()
	c, ok := r.circuits[service]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok = r.circuits[service]; ok {
		return c
	}
	c = &circuit{state: CircuitClosed}
	r.circuits[service] = c
	return c
}

// IsOpen reports whether calls to service must be rejected right now.
//
// It is not a pure query: an OPEN circuit whose reset timeout has elapsed is
// moved to HALF_OPEN here, and the call that observed it is let through.
func (r *CircuitBreakerRegistry) IsOpen(service string) bool {
	cfg := r.Config(service)
	c := r.getOrCreate(service)

	c.mu.Lock()
	if c.state != CircuitOpen {
		c.mu.Unlock()
		return false
	}
	if r.now().Sub(c.openedAt) < cfg.ResetTimeout {
		c.mu.Unlock()
		return true
	}

	c.state = CircuitHalfOpen
	c.successCount = 0
	t := &transition{from: CircuitOpen, to: CircuitHalfOpen, status: c.snapshot(service)}
	c.mu.Unlock()

	r.notify(service, t)
	return false
}

// RecordSuccess records a successful call to service.
func (r *CircuitBreakerRegistry) RecordSuccess(service string) {
	cfg := r.Config(service)
	c := r.getOrCreate(service)

	c.mu.Lock()
	c.lastSuccess = r.now()

	var t *transition
	switch c.state {
	case CircuitClosed:
		c.failureCount = 0
	case CircuitHalfOpen:
		c.successCount++
		if c.successCount >= cfg.SuccessThreshold {
			c.state = CircuitClosed
			c.failureCount = 0
			c.successCount = 0
			c.openedAt = time.Time{}
			t = &transition{from: CircuitHalfOpen, to: CircuitClosed, status: c.snapshot(service)}
		}
	}
	c.mu.Unlock()

	r.notify(service, t)
}

// RecordFailure records a failed call to service.
func (r *CircuitBreakerRegistry) RecordFailure(service string) {
	cfg := r.Config(service)
	c := r.getOrCreate(service)

	c.mu.Lock()
	now := r.now()
	c.lastFailure = now
	c.failureCount++

	var t *transition
	switch c.state {
	case CircuitClosed:
		if c.failureCount >= cfg.FailureThreshold {
			c.state = CircuitOpen
			c.openedAt = now
			t = &transition{from: CircuitClosed, to: CircuitOpen, status: c.snapshot(service)}
		}
	case CircuitHalfOpen:
		c.state = CircuitOpen
		c.openedAt = now
		c.successCount = 0
		t = &transition{from: CircuitHalfOpen, to: CircuitOpen, status: c.snapshot(service)}
	}
	c.mu.Unlock()

	r.notify(service, t)
}

// GetStatus returns a snapshot for service without changing any state. An
// unseen service reports CLOSED and is not created.
func (r *CircuitBreakerRegistry) GetStatus(service string) CircuitStatus {
	r.mu.RLock()
	c, ok := r.circuits[service]
	r.mu.RUnlock()
	if !ok {
		return CircuitStatus{Service: service, State: CircuitClosed}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(service)
}

// GetAllStatuses returns snapshots for every circuit created so far.
func (r *CircuitBreakerRegistry) GetAllStatuses() map[string]CircuitStatus {
	r.mu.RLock()
	circuits := make(map[string]*circuit, len(r.circuits))
	for name, c := range r.circuits {
		circuits[name] = c
	}
	r.mu.RUnlock()

	out := make(map[string]CircuitStatus, len(circuits))
	for name, c := range circuits {
		c.mu.Lock()
		out[name] = c.snapshot(name)
		c.mu.Unlock()
	}
	return out
}

// Reset drops all state for service. The next reference recreates it CLOSED.
// Configuration overrides are kept.
func (r *CircuitBreakerRegistry) Reset(service string) {
	r.mu.Lock()
	delete(r.circuits, service)
	r.mu.Unlock()

	r.logger.Circuit("circuit reset", "service", service)
}

// Execute is the untyped form of WithCircuitBreaker.
func (r *CircuitBreakerRegistry) Execute(ctx context.Context, service string, op func(context.Context) (any, error), fallback func(context.Context) (any, error)) (any, error) {
	return WithCircuitBreaker(ctx, r, service, op, fallback)
}

func (r *CircuitBreakerRegistry) notify(service string, t *transition) {
	if t == nil {
		return
	}

	r.logger.Circuit("circuit state changed",
		"service", service,
		"from", string(t.from),
		"to", string(t.to),
		"failure_count", t.status.FailureCount)

	for _, l := range r.listeners {
		l.OnStateChange(service, t.from, t.to, t.status)
	}
}

// WithCircuitBreaker runs op unless the circuit for service is open.
//
// When the circuit is open, fallback is returned if given, otherwise a
// *ServiceUnavailableError. Errors from op are recorded as failures and
// returned unchanged. The breaker never retries.
func WithCircuitBreaker[T any](ctx context.Context, r *CircuitBreakerRegistry, service string, op func(context.Context) (T, error), fallback func(context.Context) (T, error)) (T, error) {
	var zero T

	if r.IsOpen(service) {
		if fallback != nil {
			return fallback(ctx)
		}
		return zero, &ServiceUnavailableError{Service: service}
	}

	result, err := op(ctx)
	if err != nil {
		r.RecordFailure(service)
		return zero, err
	}

	r.RecordSuccess(service)
	return result, nil
}
