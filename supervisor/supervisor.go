// Package supervisor implements the health supervisor: a single
// cooperative loop that probes the primary on a fixed interval, feeds
// results into the shared state cell, and hands any resulting transition
// to the incident notifier.
package supervisor

import (
	"context"
	"time"

	"github.com/kagehq/failover/internal"
	"github.com/kagehq/failover/metrics"
	"github.com/kagehq/failover/state"
	"github.com/kagehq/failover/upstream"
)

// Notifier is the subset of notifier.Notifier the supervisor depends on.
type Notifier interface {
	Notify(tr state.Transition)
}

// Heartbeater is the subset of internal.HealthChecker the supervisor
// depends on. Optional: a nil Heartbeater simply means liveness never
// degrades on a stalled probe loop.
type Heartbeater interface {
	Heartbeat()
}

// Supervisor owns the probe loop. It never runs two probes concurrently
// with itself; a new probe only starts once the previous one has
// completed and the next ticker wakeup has arrived.
type Supervisor struct {
	logger        *internal.Logger
	client        *upstream.Client
	cell          *state.Cell
	notifier      Notifier
	metrics       *metrics.Metrics
	heartbeat     Heartbeater
	primaryURL    string
	checkInterval time.Duration
}

// New constructs a Supervisor. checkInterval is the period of a ticker,
// so it is measured between wakeups rather than probe completions;
// probes run on the loop goroutine itself, so a slow probe delays the
// next one instead of overlapping it. heartbeat may be nil.
func New(logger *internal.Logger, client *upstream.Client, cell *state.Cell, notifier Notifier, m *metrics.Metrics, heartbeat Heartbeater, primaryURL string, checkInterval time.Duration) *Supervisor {
	return &Supervisor{
		logger:        logger,
		client:        client,
		cell:          cell,
		notifier:      notifier,
		metrics:       m,
		heartbeat:     heartbeat,
		primaryURL:    primaryURL,
		checkInterval: checkInterval,
	}
}

// Run probes immediately on startup, then every checkInterval, until ctx
// is cancelled.
func (s *Supervisor) Run(ctx context.Context) {
	s.tick(ctx)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Health supervisor stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Supervisor) tick(ctx context.Context) {
	if s.heartbeat != nil {
		s.heartbeat.Heartbeat()
	}

	err := s.client.Probe(ctx, s.primaryURL)
	now := time.Now()

	var transition *state.Transition
	if err != nil {
		s.observeProbe(false)
		s.logger.Warn("Primary probe failed", "primary", s.primaryURL, "error", err.Error())
		transition = s.cell.RecordProbeFailure(now, err.Error())
	} else {
		s.observeProbe(true)
		transition = s.cell.RecordProbeSuccess(now)
	}

	if transition == nil {
		return
	}

	s.observeTransition(*transition)

	switch transition.Kind {
	case state.Failover:
		s.logger.Error("Failover: switching to backup",
			"primary", s.primaryURL,
			"fail_count", transition.FailCount,
			"last_error", transition.LastProbeError)
	case state.Recovery:
		s.logger.Info("Recovery: switching back to primary",
			"primary", s.primaryURL,
			"downtime_seconds", transition.DowntimeSeconds)
	}

	if s.notifier != nil {
		s.notifier.Notify(*transition)
	}
}

func (s *Supervisor) observeProbe(ok bool) {
	if s.metrics == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	s.metrics.Probes.WithLabelValues(result).Inc()
}

func (s *Supervisor) observeTransition(tr state.Transition) {
	if s.metrics == nil {
		return
	}
	s.metrics.Transitions.WithLabelValues(string(tr.Kind)).Inc()
	if tr.Kind == state.Failover {
		s.metrics.OnBackup.Set(1)
	} else {
		s.metrics.OnBackup.Set(0)
	}
}
