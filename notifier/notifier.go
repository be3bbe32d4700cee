// Package notifier posts incident notifications to an external webhook
// without ever slowing the health supervisor down. Delivery happens on
// a single background worker fed by a bounded channel.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/kagehq/failover/config"
	"github.com/kagehq/failover/internal"
	"github.com/kagehq/failover/state"
)

const eventQueueSize = 32

// Notifier consumes transition events and posts them to a webhook URL.
// Constructed with an empty webhookURL, it drops every event silently.
type Notifier struct {
	logger *internal.Logger
	client *http.Client

	mu         sync.RWMutex
	webhookURL string
	format     config.WebhookFormat

	primaryURL string
	backupURL  string
	events     chan event
	done       chan struct{}
}

type event struct {
	transition state.Transition
}

// New constructs a Notifier and starts its single delivery worker. Call
// Stop to exit the worker on shutdown; events still queued are dropped.
func New(logger *internal.Logger, webhookURL string, format config.WebhookFormat, primaryURL, backupURL string) *Notifier {
	n := &Notifier{
		logger:     logger,
		client:     &http.Client{Timeout: 5 * time.Second},
		webhookURL: webhookURL,
		format:     format,
		primaryURL: primaryURL,
		backupURL:  backupURL,
		events:     make(chan event, eventQueueSize),
		done:       make(chan struct{}),
	}
	go n.run()
	return n
}

// Notify submits a transition event for delivery without blocking the
// caller (the health supervisor). If the queue is full the event is
// dropped and logged rather than blocking the supervisor's probe loop.
func (n *Notifier) Notify(tr state.Transition) {
	n.mu.RLock()
	disabled := n.webhookURL == ""
	n.mu.RUnlock()
	if disabled {
		return
	}

	select {
	case n.events <- event{transition: tr}:
	default:
		n.logger.Warn("Notifier queue full, dropping event", "kind", string(tr.Kind))
	}
}

// SetWebhook updates the destination URL and payload format used by
// future deliveries. Safe to call while the worker is running.
func (n *Notifier) SetWebhook(webhookURL string, format config.WebhookFormat) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.webhookURL = webhookURL
	n.format = format
}

// Stop drains no further events and exits the delivery worker.
func (n *Notifier) Stop() {
	close(n.done)
}

func (n *Notifier) run() {
	for {
		select {
		case <-n.done:
			return
		case ev := <-n.events:
			n.deliver(ev.transition)
		}
	}
}

func (n *Notifier) deliver(tr state.Transition) {
	n.mu.RLock()
	webhookURL := n.webhookURL
	n.mu.RUnlock()

	payload := n.buildPayload(tr)

	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Warn("Failed to encode webhook payload", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Warn("Failed to build webhook request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("Webhook delivery failed", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("Webhook responded with non-2xx status", "status", resp.StatusCode)
	}
}
