package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/kagehq/failover/config"
)

// MARK: handleSignals
// Sets up signal handlers for graceful shutdown and config reload.
func (app *Application) handleSignals(flags *config.Flags) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	app.waitGroup.Add(1)
	go func() {
		defer app.waitGroup.Done()

		for {
			select {
			case sig := <-sigChan:
				switch sig {
				case syscall.SIGHUP:
					app.handleReload(flags)
				case syscall.SIGINT, syscall.SIGTERM:
					app.logger.Info("Received shutdown signal", "signal", sig)
					app.cancel()
					return
				}
			case <-app.context.Done():
				return
			}
		}
	}()
}

// MARK: handleReload
// Reloads the webhook URL, webhook format, and threshold configuration
// from disk. The listen address and upstream URLs are fixed for the
// life of the process; changing them requires a restart.
func (app *Application) handleReload(flags *config.Flags) {
	app.logger.Info("Received SIGHUP, reloading configuration")

	newCfg, err := config.Load(app.configPath)
	if err != nil {
		app.logger.Error("Failed to reload config", "error", err)
		return
	}
	flags.Apply(newCfg)
	if err := newCfg.Finalize(); err != nil {
		app.logger.Error("Failed to reload config", "error", err)
		return
	}

	app.config.WebhookURL = newCfg.WebhookURL
	app.config.WebhookFormat = newCfg.WebhookFormat
	app.config.FailThreshold = newCfg.FailThreshold
	app.config.RecoverThreshold = newCfg.RecoverThreshold

	app.notifier.SetWebhook(newCfg.WebhookURL, newCfg.WebhookFormat)
	app.cell.SetThresholds(newCfg.FailThreshold, newCfg.RecoverThreshold)

	app.logger.Info("Configuration reloaded successfully")
}
