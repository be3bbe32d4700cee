package proxy

import (
	"net/http"
	"strings"
)

// hopByHopHeaders is the RFC-defined set of headers meaningful only for a
// single transport hop. These plus anything named in an inbound
// Connection header are stripped before forwarding.
var hopByHopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Transfer-Encoding",
	"TE",
	"Trailer",
	"Upgrade",
}

// stripHopByHopHeaders removes the fixed hop-by-hop set and any header
// named in the request's own Connection field, in place.
func stripHopByHopHeaders(h http.Header) {
	if conn := h.Get("Connection"); conn != "" {
		for _, name := range strings.Split(conn, ",") {
			h.Del(strings.TrimSpace(name))
		}
	}
	for _, name := range hopByHopHeaders {
		h.Del(name)
	}
}

// appendForwardedFor appends addr to the X-Forwarded-For header, creating
// it if absent.
func appendForwardedFor(h http.Header, addr string) {
	if existing := h.Get("X-Forwarded-For"); existing != "" {
		h.Set("X-Forwarded-For", existing+", "+addr)
	} else {
		h.Set("X-Forwarded-For", addr)
	}
}

// clientIP extracts the client's bare address (no port) from a request's
// RemoteAddr.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

// requestScheme reports the scheme under which the proxy itself accepted
// the request (never the upstream's scheme).
func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
