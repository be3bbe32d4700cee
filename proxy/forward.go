package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
)

type targetCtxKeyType struct{}

var targetCtxKey = targetCtxKeyType{}

// withTarget attaches the upstream base URL selected for this request to
// its context, so the shared ReverseProxy's Rewrite hook can pick it up
// without re-reading the state cell.
func withTarget(r *http.Request, target *url.URL) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), targetCtxKey, target))
}

func targetFromContext(r *http.Request) *url.URL {
	target, _ := r.Context().Value(targetCtxKey).(*url.URL)
	return target
}

// errBodyTooLarge is returned by the body-capping reader once a request
// body exceeds the configured maximum.
var errBodyTooLarge = errors.New("request body exceeds max_body_bytes")

// cappedBody wraps a request body so that reading more than limit bytes
// fails with errBodyTooLarge instead of silently truncating. This
// catches oversized chunked/unknown-length bodies that a Content-Length
// check alone would miss.
//
// remaining is seeded to the cap itself, not cap+1: each Read asks the
// underlying reader for at most remaining+1 bytes so that a body sized
// exactly cap+1 still trips the limit even when the final chunk arrives
// together with io.EOF in the same Read call (as net/http's chunked
// reader does whenever the terminating 0-chunk is already buffered).
type cappedBody struct {
	io.ReadCloser
	remaining int64
}

func (c *cappedBody) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		return 0, errBodyTooLarge
	}
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.ReadCloser.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n, errBodyTooLarge
	}
	return n, err
}

// newReverseProxy builds the single long-lived ReverseProxy shared by all
// requests. The upstream target varies per request via the context value
// set by withTarget, so the proxy itself carries no per-request state.
func (s *Server) newReverseProxy() *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Transport: s.client.Transport(),
		Rewrite: func(pr *httputil.ProxyRequest) {
			target := targetFromContext(pr.In)
			composed := composeTargetURL(target, pr.In.URL)
			pr.Out.URL = composed
			pr.Out.Host = composed.Host

			stripHopByHopHeaders(pr.Out.Header)
			// ReverseProxy clears X-Forwarded-For on the outbound request
			// before Rewrite runs, so carry the inbound chain over first.
			for _, prior := range pr.In.Header.Values("X-Forwarded-For") {
				appendForwardedFor(pr.Out.Header, prior)
			}
			appendForwardedFor(pr.Out.Header, clientIP(pr.In))
			pr.Out.Header.Set("X-Forwarded-Proto", requestScheme(pr.In))

			if pr.In.ContentLength < 0 && pr.Out.Body != nil {
				pr.Out.Body = &cappedBody{ReadCloser: pr.Out.Body, remaining: s.maxBodyBytes}
			}
		},
		ModifyResponse: func(resp *http.Response) error {
			stripHopByHopHeaders(resp.Header)
			return nil
		},
		ErrorHandler: s.handleProxyError,
	}
}

// handleProxyError is invoked only for failures before any response
// bytes reach the client (RoundTrip failure); mid-response failures are
// truncated by ReverseProxy itself without calling this handler.
func (s *Server) handleProxyError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBodyTooLarge) {
		s.logger.Warn("Request body exceeded cap", "path", r.URL.Path, "remote", clientIP(r))
		http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
		return
	}

	s.logger.Warn("Upstream forwarding failed",
		"path", r.URL.Path,
		"method", r.Method,
		"remote", clientIP(r),
		"error", err.Error())
	w.Header().Set("Content-Type", "text/plain")
	http.Error(w, fmt.Sprintf("Bad Gateway: %v", err), http.StatusBadGateway)
}
