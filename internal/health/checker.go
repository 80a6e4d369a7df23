// Package health reports whether the service's dependencies are reachable,
// over HTTP for load balancers and over the standard gRPC health protocol.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// CheckFunc returns nil when its dependency is usable.
type CheckFunc func(ctx context.Context) error

type namedCheck struct {
	name string
	fn   CheckFunc
}

// DetailFunc returns diagnostic data, such as pool statistics, included in
// the report without affecting its status.
type DetailFunc func(ctx context.Context) interface{}

type Checker struct {
	mu      sync.RWMutex
	checks  []namedCheck
	details map[string]DetailFunc
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	return &Checker{timeout: timeout}
}

func (c *Checker) Add(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, namedCheck{name: name, fn: fn})
}

func (c *Checker) AddDetail(name string, fn DetailFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.details == nil {
		c.details = make(map[string]DetailFunc)
	}
	c.details[name] = fn
}

type Report struct {
	Status  string                 `json:"status"`
	Checks  map[string]string      `json:"checks"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (r Report) Healthy() bool {
	return r.Status == "ok"
}

// Run executes every check concurrently, each bounded by the checker timeout.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := append([]namedCheck(nil), c.checks...)
	details := make(map[string]DetailFunc, len(c.details))
	for name, fn := range c.details {
		details[name] = fn
	}
	c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results := make([]string, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(i int, check namedCheck) {
			defer wg.Done()
			if err := check.fn(ctx); err != nil {
				results[i] = err.Error()
				return
			}
			results[i] = "ok"
		}(i, check)
	}
	wg.Wait()

	report := Report{Status: "ok", Checks: make(map[string]string, len(checks))}
	for i, check := range checks {
		report.Checks[check.name] = results[i]
		if results[i] != "ok" {
			report.Status = "unavailable"
		}
	}
	if len(details) > 0 {
		report.Details = make(map[string]interface{}, len(details))
		for name, fn := range details {
			report.Details[name] = fn(ctx)
		}
	}
	return report
}

// ServeHTTP answers 200 when every check passes and 503 otherwise.
func (c *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := c.Run(r.Context())

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(report)
}
