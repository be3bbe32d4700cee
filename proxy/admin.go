package proxy

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/kagehq/failover/internal"
)

const adminPathPrefix = "/__failover/"

const defaultLogsLimit = 100

// StateResponse is the JSON body of GET /__failover/state. Field names
// are stable; new fields may be added.
type StateResponse struct {
	OnBackup             bool    `json:"on_backup"`
	SinceUnix            int64   `json:"since_unix"`
	Primary              string  `json:"primary"`
	Backup               string  `json:"backup"`
	ConsecutiveFailures  int     `json:"consecutive_failures"`
	ConsecutiveSuccesses int     `json:"consecutive_successes"`
	LastError            *string `json:"last_error"`
}

// handleAdmin serves the reserved /__failover/ paths and reports whether
// the request path fell under the reserved prefix at all, so the caller
// knows whether to fall through to proxying.
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) bool {
	switch r.URL.Path {
	case adminPathPrefix + "health":
		s.handleHealth(w, r)
		return true
	case adminPathPrefix + "state":
		s.handleState(w, r)
		return true
	case adminPathPrefix + "logs":
		s.handleLogs(w, r)
		return true
	}

	if strings.HasPrefix(r.URL.Path, adminPathPrefix) {
		http.NotFound(w, r)
		return true
	}

	return false
}

// handleHealth reports liveness of the proxy process, not of either
// upstream.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleState reports an internally-consistent snapshot of the state
// cell as JSON.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.cell.Snapshot()

	resp := StateResponse{
		OnBackup:             snap.OnBackup,
		SinceUnix:            snap.TransitionUnix,
		Primary:              s.primaryURL.String(),
		Backup:               s.backupURL.String(),
		ConsecutiveFailures:  snap.ConsecutiveFailures,
		ConsecutiveSuccesses: snap.ConsecutiveSuccesses,
	}
	if snap.LastProbeError != "" {
		resp.LastError = &snap.LastProbeError
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// LogsResponse is the JSON body of GET /__failover/logs.
type LogsResponse struct {
	Logs   []internal.LogEntry `json:"logs"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// handleLogs returns a page of the proxy's own recently emitted log
// entries, optionally filtered by level via ?level= and paginated via
// ?limit=&offset=.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	limit := parseIntParam(r, "limit", defaultLogsLimit)
	offset := parseIntParam(r, "offset", 0)

	all := s.logger.GetLogs(level)
	total := len(all)

	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	resp := LogsResponse{
		Logs:   all[start:end],
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func parseIntParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
