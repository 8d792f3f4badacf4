// Package health aggregates liveness checks for the session core's backing
// stores. It is transport-agnostic: callers embed the report in whatever
// surface they expose.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/authcore/pkg/database"
)

// Checker is a function that checks the health of a dependency.
type Checker func(ctx context.Context) error

// Status represents the health status of a component.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// CheckResult is the result of a single check.
type CheckResult struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report is the aggregate result across all registered checks.
type Report struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Registry holds named health checkers.
type Registry struct {
	mu       sync.RWMutex
	timeout  time.Duration
	checkers map[string]Checker
}

// NewRegistry creates a registry with a 5 second per-run timeout.
func NewRegistry() *Registry {
	return &Registry{
		timeout:  5 * time.Second,
		checkers: make(map[string]Checker),
	}
}

// Register adds a named health checker.
func (r *Registry) Register(name string, checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Check runs every registered checker and aggregates the results. The report
// is down if any single check is down.
func (r *Registry) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.mu.RLock()
	checkers := make(map[string]Checker, len(r.checkers))
	for k, v := range r.checkers {
		checkers[k] = v
	}
	r.mu.RUnlock()

	checks := make(map[string]CheckResult, len(checkers))
	overall := StatusUp

	for name, checker := range checkers {
		if err := checker(ctx); err != nil {
			checks[name] = CheckResult{Status: StatusDown, Error: err.Error()}
			overall = StatusDown
		} else {
			checks[name] = CheckResult{Status: StatusUp}
		}
	}

	return Report{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}
}

// PostgresChecker pings the credential store's connection pool.
func PostgresChecker(pool database.DBTX) Checker {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}

// RedisChecker pings the revocation ledger's Redis client.
func RedisChecker(client *redis.Client) Checker {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
