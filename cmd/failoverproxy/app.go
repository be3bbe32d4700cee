package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kagehq/failover/config"
	"github.com/kagehq/failover/internal"
	"github.com/kagehq/failover/metrics"
	"github.com/kagehq/failover/notifier"
	"github.com/kagehq/failover/proxy"
	"github.com/kagehq/failover/state"
	"github.com/kagehq/failover/supervisor"
	"github.com/kagehq/failover/upstream"
	"github.com/kagehq/failover/version"
)

// probeTimeoutCeiling caps how long a single health probe may run,
// regardless of how large check_interval is configured.
const probeTimeoutCeiling = 2 * time.Second

// MARK: newApplication
// Loads configuration, applies flag overrides, and constructs every
// component of the proxy without starting any of them.
func newApplication(configPath string, flags *config.Flags) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	flags.Apply(cfg)
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	primaryURL, err := url.Parse(cfg.PrimaryURL)
	if err != nil {
		return nil, fmt.Errorf("parsing primary URL: %w", err)
	}
	backupURL, err := url.Parse(cfg.BackupURL)
	if err != nil {
		return nil, fmt.Errorf("parsing backup URL: %w", err)
	}

	logger := internal.NewLogger(cfg.JSONLogs)
	// A probe loop that hasn't heartbeated in 5 check intervals is
	// considered stalled, not merely slow.
	healthCheck := internal.NewHealthChecker(5 * cfg.CheckInterval)

	cell := state.New(cfg.FailThreshold, cfg.RecoverThreshold)
	client := upstream.New(minDuration(cfg.CheckInterval, probeTimeoutCeiling))
	m := metrics.New(prometheus.NewRegistry())

	notif := notifier.New(logger, cfg.WebhookURL, cfg.WebhookFormat, cfg.PrimaryURL, cfg.BackupURL)
	sup := supervisor.New(logger, client, cell, notif, m, healthCheck, cfg.PrimaryURL, cfg.CheckInterval)
	proxyServer := proxy.NewServer(logger, cell, client, primaryURL, backupURL, cfg.MaxBodyBytes, m)

	return &Application{
		configPath:  configPath,
		config:      cfg,
		logger:      logger,
		healthCheck: healthCheck,
		cell:        cell,
		client:      client,
		notifier:    notif,
		supervisor:  sup,
		metrics:     m,
		proxyServer: proxyServer,
		primaryURL:  primaryURL,
		backupURL:   backupURL,
	}, nil
}

// MARK: start
// Starts the health supervisor, the proxy server, and the management
// server, and marks the process ready once the proxy is listening.
func (app *Application) start(ctx context.Context) error {
	app.logger.Info("Starting failover proxy",
		"version", version.AsString(),
		"primary", app.config.PrimaryURL,
		"backup", app.config.BackupURL)

	app.waitGroup.Add(1)
	go func() {
		defer app.waitGroup.Done()
		app.supervisor.Run(ctx)
	}()

	app.proxyServer.OnFatal(app.fail)
	if err := app.proxyServer.Start(ctx, app.config.ListenAddr); err != nil {
		return fmt.Errorf("starting proxy server: %w", err)
	}

	app.waitGroup.Add(1)
	go func() {
		defer app.waitGroup.Done()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := app.proxyServer.Stop(shutdownCtx); err != nil {
			app.logger.Error("Proxy server shutdown failed", "error", err)
		}
		app.notifier.Stop()
	}()

	app.healthCheck.SetReady(true)

	return app.startManagementServer()
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

// fail records a fatal, post-startup server error and tears the
// application down. Only the first call has any effect; subsequent
// calls (e.g. both servers dying at once) are no-ops beyond logging.
func (app *Application) fail(err error) {
	if app.fatal.CompareAndSwap(false, true) {
		app.logger.Error("Fatal server error, shutting down", "error", err)
		app.cancel()
	}
}
