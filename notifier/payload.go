package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/kagehq/failover/config"
	"github.com/kagehq/failover/state"
)

// slackPayload is the {"text": ...} shape Slack incoming webhooks expect.
type slackPayload struct {
	Text string `json:"text"`
}

// discordPayload is the {"content": ...} shape Discord webhooks expect.
type discordPayload struct {
	Content string `json:"content"`
}

// buildPayload formats tr into a human-readable incident report,
// selecting the field wrapper (text/content) by format.
func (n *Notifier) buildPayload(tr state.Transition) interface{} {
	body := n.incidentText(tr)

	n.mu.RLock()
	format := n.format
	n.mu.RUnlock()

	if format == config.WebhookFormatDiscord {
		return discordPayload{Content: body}
	}
	return slackPayload{Text: body}
}

func (n *Notifier) incidentText(tr state.Transition) string {
	ts := time.Unix(tr.TimestampUnix, 0).UTC().Format(time.RFC3339)

	var b strings.Builder
	switch tr.Kind {
	case state.Failover:
		b.WriteString("🚨 FAILOVER\n")
		fmt.Fprintf(&b, "Event: FAILOVER\n")
		fmt.Fprintf(&b, "Timestamp: %s\n", ts)
		fmt.Fprintf(&b, "Primary: %s\n", n.primaryURL)
		fmt.Fprintf(&b, "Backup: %s\n", n.backupURL)
		fmt.Fprintf(&b, "Details: %d consecutive failures, last error: %s\n", tr.FailCount, tr.LastProbeError)
	case state.Recovery:
		b.WriteString("✅ RECOVERY\n")
		fmt.Fprintf(&b, "Event: RECOVERY\n")
		fmt.Fprintf(&b, "Timestamp: %s\n", ts)
		fmt.Fprintf(&b, "Primary: %s\n", n.primaryURL)
		fmt.Fprintf(&b, "Backup: %s\n", n.backupURL)
		fmt.Fprintf(&b, "Duration: %d seconds\n", tr.DowntimeSeconds)
		fmt.Fprintf(&b, "Details: primary recovered after %d seconds on backup\n", tr.DowntimeSeconds)
	}
	return b.String()
}
