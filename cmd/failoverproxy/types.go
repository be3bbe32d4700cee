package main

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/kagehq/failover/config"
	"github.com/kagehq/failover/internal"
	"github.com/kagehq/failover/metrics"
	"github.com/kagehq/failover/notifier"
	"github.com/kagehq/failover/proxy"
	"github.com/kagehq/failover/state"
	"github.com/kagehq/failover/supervisor"
	"github.com/kagehq/failover/upstream"
)

type Application struct {
	configPath  string
	config      *config.Config
	logger      *internal.Logger
	healthCheck *internal.HealthChecker

	cell        *state.Cell
	client      *upstream.Client
	notifier    *notifier.Notifier
	supervisor  *supervisor.Supervisor
	metrics     *metrics.Metrics
	proxyServer *proxy.Server

	mgmtServer *http.Server

	primaryURL *url.URL
	backupURL  *url.URL

	context   context.Context
	cancel    context.CancelFunc
	waitGroup sync.WaitGroup

	// fatal is set once by fail() when a server dies after startup
	// (e.g. its accept loop fails), so run() can force a nonzero exit
	// even though shutdown otherwise looks graceful.
	fatal atomic.Bool
}
