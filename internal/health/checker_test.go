package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecker_AllHealthy(t *testing.T) {
	c := NewChecker(time.Second)
	c.Add("postgres", func(context.Context) error { return nil })
	c.Add("redis", func(context.Context) error { return nil })

	report := c.Run(context.Background())
	assert.True(t, report.Healthy())
	assert.Equal(t, map[string]string{"postgres": "ok", "redis": "ok"}, report.Checks)
}

func TestChecker_OneFailing(t *testing.T) {
	c := NewChecker(time.Second)
	c.Add("postgres", func(context.Context) error { return errors.New("connection refused") })
	c.Add("redis", func(context.Context) error { return nil })

	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var report Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, "unavailable", report.Status)
	assert.Equal(t, "connection refused", report.Checks["postgres"])
	assert.Equal(t, "ok", report.Checks["redis"])
}

func TestChecker_Timeout(t *testing.T) {
	c := NewChecker(10 * time.Millisecond)
	c.Add("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	report := c.Run(context.Background())
	assert.False(t, report.Healthy())
	assert.Equal(t, context.DeadlineExceeded.Error(), report.Checks["slow"])
}

func TestChecker_DetailsDoNotAffectStatus(t *testing.T) {
	c := NewChecker(time.Second)
	c.Add("postgres", func(context.Context) error { return nil })
	c.AddDetail("postgres_pool", func(context.Context) interface{} { return map[string]int{"total_conns": 4} })

	report := c.Run(context.Background())

	assert.True(t, report.Healthy())
	assert.Equal(t, map[string]int{"total_conns": 4}, report.Details["postgres_pool"])
}
