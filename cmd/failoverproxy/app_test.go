package main

import (
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagehq/failover/config"
)

func writeConfigFile(t *testing.T, primary, backup string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "primary: " + primary + "\nbackup: " + backup + "\ncheck_interval: 20ms\nfail_threshold: 2\nrecover_threshold: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestNewApplicationWiresComponents(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer primary.Close()
	backup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backup.Close()

	path := writeConfigFile(t, primary.URL, backup.URL)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)

	app, err := newApplication(path, flags)
	require.NoError(t, err)

	assert.NotNil(t, app.cell)
	assert.NotNil(t, app.client)
	assert.NotNil(t, app.notifier)
	assert.NotNil(t, app.supervisor)
	assert.NotNil(t, app.metrics)
	assert.NotNil(t, app.proxyServer)
	assert.Equal(t, primary.URL, app.primaryURL.String())
}

func TestApplicationStartAndShutdown(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer primary.Close()
	backup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backup.Close()

	path := writeConfigFile(t, primary.URL, backup.URL)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-listen", "127.0.0.1:0", "-management-addr", "127.0.0.1:0"}))

	app, err := newApplication(path, flags)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	app.context = ctx
	app.cancel = cancel

	require.NoError(t, app.start(ctx))
	assert.True(t, app.proxyServer.IsReady())

	cancel()

	done := make(chan struct{})
	go func() {
		app.waitGroup.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("application did not shut down in time")
	}
}
