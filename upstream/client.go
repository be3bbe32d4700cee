// Package upstream provides the shared, connection-pooled HTTP client
// used both to probe the primary and to forward proxied requests.
package upstream

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Client wraps one pooled *http.Transport shared by probes and forwarded
// requests.
type Client struct {
	probeTimeout time.Duration
	httpClient   *http.Client
	transport    *http.Transport
}

// New builds a Client whose probe requests time out after probeTimeout.
// probeTimeout should stay well under the supervisor's check interval so a
// slow probe doesn't overrun its own polling cadence.
func New(probeTimeout time.Duration) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       60 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		probeTimeout: probeTimeout,
		transport:    transport,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   probeTimeout,
		},
	}
}

// Transport returns the shared pooled transport, for use by
// httputil.ReverseProxy in the request proxier.
func (c *Client) Transport() http.RoundTripper {
	return c.transport
}

// Probe issues a GET to targetURL and reports success iff the transport
// completes and the response status is in [200, 400). It probes the base
// URL directly rather than a dedicated health-check path, since the
// upstream isn't assumed to expose one.
func (c *Client) Probe(ctx context.Context, targetURL string) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return fmt.Errorf("building probe request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe transport error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("probe returned HTTP %d", resp.StatusCode)
	}
	return nil
}
