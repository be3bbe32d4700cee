package internal

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLivenessOKByDefault(t *testing.T) {
	hc := NewHealthChecker(0)

	rec := httptest.NewRecorder()
	hc.LivenessHandler(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alive"`)
}

func TestLivenessDeadWhenExplicitlyMarkedNotAlive(t *testing.T) {
	hc := NewHealthChecker(0)
	hc.SetAlive(false)

	rec := httptest.NewRecorder()
	hc.LivenessHandler(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, 503, rec.Code)
}

func TestLivenessDegradesWhenHeartbeatGoesStale(t *testing.T) {
	hc := NewHealthChecker(10 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	rec := httptest.NewRecorder()
	hc.LivenessHandler(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, 503, rec.Code)
	assert.Contains(t, rec.Body.String(), "stale_for")
}

func TestHeartbeatResetsStaleness(t *testing.T) {
	hc := NewHealthChecker(50 * time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	hc.Heartbeat()
	time.Sleep(30 * time.Millisecond)

	rec := httptest.NewRecorder()
	hc.LivenessHandler(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, 200, rec.Code)
}

func TestReadinessReflectsSetReady(t *testing.T) {
	hc := NewHealthChecker(0)

	rec := httptest.NewRecorder()
	hc.ReadinessHandler(rec, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, 503, rec.Code)

	hc.SetReady(true)
	rec = httptest.NewRecorder()
	hc.ReadinessHandler(rec, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, 200, rec.Code)
}
