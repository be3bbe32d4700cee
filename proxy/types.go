package proxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync"

	"github.com/kagehq/failover/internal"
	"github.com/kagehq/failover/metrics"
	"github.com/kagehq/failover/state"
	"github.com/kagehq/failover/upstream"
)

// Server is the request proxier and admin-endpoint host: one listening
// socket, a shared state-cell read, and a per-request forward to
// whichever upstream is currently selected.
type Server struct {
	logger *internal.Logger
	cell   *state.Cell
	client *upstream.Client

	primaryURL *url.URL
	backupURL  *url.URL

	maxBodyBytes int64

	reverseProxy *httputil.ReverseProxy
	metrics      *metrics.Metrics

	httpServer *http.Server
	running    bool
	mu         sync.RWMutex

	// onFatal, if set, is invoked once with the error from an accept
	// loop that dies after a successful bind (a Serve failure other
	// than a graceful Shutdown/Close). A bind failure itself is
	// reported synchronously by Start's return value instead.
	onFatal func(error)
}

// responseWriter captures the status code written to the client so
// request logging can report it.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}
