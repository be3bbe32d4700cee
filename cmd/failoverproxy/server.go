package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// MARK: startManagementServer
// Starts the process-level liveness/readiness endpoints on a separate
// listener from the proxy's own traffic port. The listener is bound
// synchronously so a bind failure is returned to the caller instead of
// only being logged from a goroutine.
func (app *Application) startManagementServer() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", app.healthCheck.LivenessHandler)
	mux.HandleFunc("/readyz", app.healthCheck.ReadinessHandler)

	app.mgmtServer = &http.Server{
		Addr:         app.config.ManagementAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", app.config.ManagementAddr)
	if err != nil {
		return fmt.Errorf("binding management server: %w", err)
	}

	app.waitGroup.Add(1)
	go func() {
		defer app.waitGroup.Done()
		app.logger.Info("Starting management server", "addr", app.config.ManagementAddr)

		if err := app.mgmtServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("Management server failed", "error", err)
			app.fail(err)
		}
	}()

	app.waitGroup.Add(1)
	go func() {
		defer app.waitGroup.Done()
		<-app.context.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := app.mgmtServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("Management server shutdown failed", "error", err)
		}
	}()

	return nil
}
