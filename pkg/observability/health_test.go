package observability

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckerAggregation(t *testing.T) {
	hc := &HealthChecker{checks: make(map[string]*HealthCheck)}

	hc.RegisterCheck(&HealthCheck{
		Name:      "ledger",
		CheckFunc: func(context.Context) error { return nil },
		Critical:  true,
	})
	hc.RegisterCheck(&HealthCheck{
		Name:      "llm",
		CheckFunc: func(context.Context) error { return errors.New("offline") },
	})

	resp := hc.Check(context.Background())
	assert.Equal(t, HealthStatusDegraded, resp.Status)
	assert.Equal(t, HealthStatusHealthy, resp.Checks["ledger"].Status)
	assert.Equal(t, HealthStatusDegraded, resp.Checks["llm"].Status)
	assert.Equal(t, "offline", resp.Checks["llm"].Message)
}

func TestHealthCheckerCriticalFailure(t *testing.T) {
	hc := &HealthChecker{checks: make(map[string]*HealthCheck)}
	hc.RegisterCheck(&HealthCheck{
		Name:      "store",
		CheckFunc: func(context.Context) error { return errors.New("corrupt") },
		Critical:  true,
	})

	resp := hc.Check(context.Background())
	assert.Equal(t, HealthStatusUnhealthy, resp.Status)
}

func TestHealthCheckerTimeout(t *testing.T) {
	hc := &HealthChecker{checks: make(map[string]*HealthCheck)}
	hc.RegisterCheck(&HealthCheck{
		Name:    "slow",
		Timeout: 10 * time.Millisecond,
		CheckFunc: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	})

	resp := hc.Check(context.Background())
	assert.Equal(t, HealthStatusDegraded, resp.Status)
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest("GET", "/health/live", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}
