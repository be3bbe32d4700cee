package internal

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// MARK: NewHealthChecker
// Creates a new health checker with liveness set to true by default. This
// reports liveness of the proxy process itself, not of either upstream.
// staleAfter is how long the process may go without a Heartbeat call
// before LivenessHandler starts reporting it dead; zero disables the
// staleness check entirely (liveness then tracks only SetAlive).
func NewHealthChecker(staleAfter time.Duration) *HealthChecker {
	hc := &HealthChecker{alive: 1, staleAfter: staleAfter}
	hc.Heartbeat()
	return hc
}

// MARK: SetReady
func (hc *HealthChecker) SetReady(ready bool) {
	value := int64(0)
	if ready {
		value = 1
	}
	atomic.StoreInt64(&hc.ready, value)
}

// MARK: SetAlive
func (hc *HealthChecker) SetAlive(alive bool) {
	value := int64(0)
	if alive {
		value = 1
	}
	atomic.StoreInt64(&hc.alive, value)
}

// MARK: Heartbeat
// Records that some liveness-bearing subsystem (the health supervisor's
// probe loop) is still making progress. Called once per tick by
// supervisor.Supervisor so a stalled probe loop shows up as a liveness
// failure even though the proxy's own listener is still up.
func (hc *HealthChecker) Heartbeat() {
	atomic.StoreInt64(&hc.lastHeartbeat, time.Now().UnixNano())
}

func (hc *HealthChecker) staleness() (time.Duration, bool) {
	if hc.staleAfter <= 0 {
		return 0, false
	}
	last := time.Unix(0, atomic.LoadInt64(&hc.lastHeartbeat))
	age := time.Since(last)
	return age, age > hc.staleAfter
}

// MARK: LivenessHandler
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{Timestamp: time.Now()}

	age, stale := hc.staleness()
	if atomic.LoadInt64(&hc.alive) == 1 && !stale {
		status.Status = "alive"
		w.WriteHeader(http.StatusOK)
	} else {
		status.Status = "dead"
		if stale {
			status.StaleFor = age.String()
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// MARK: ReadinessHandler
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{Timestamp: time.Now()}

	if atomic.LoadInt64(&hc.ready) == 1 {
		status.Status = "ready"
		w.WriteHeader(http.StatusOK)
	} else {
		status.Status = "not ready"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
