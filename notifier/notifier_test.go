package notifier

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagehq/failover/config"
	"github.com/kagehq/failover/internal"
	"github.com/kagehq/failover/state"
)

func TestNotifierPostsSlackPayload(t *testing.T) {
	var mu sync.Mutex
	var body []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		body, _ = jsonBody(r)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(internal.NewLogger(false), srv.URL, config.WebhookFormatSlack, "http://p", "http://b")
	defer n.Stop()

	n.Notify(state.Transition{Kind: state.Failover, TimestampUnix: 100, FailCount: 3, LastProbeError: "boom"})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return body != nil
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	text, ok := payload["text"].(string)
	require.True(t, ok)
	assert.Contains(t, text, "FAILOVER")
}

func TestNotifierDisabledDropsEvents(t *testing.T) {
	n := New(internal.NewLogger(false), "", config.WebhookFormatSlack, "http://p", "http://b")
	defer n.Stop()
	n.Notify(state.Transition{Kind: state.Failover})
	// No webhook configured: nothing to assert beyond "does not panic or block".
}

func TestNotifierRecoveryContainsDuration(t *testing.T) {
	var mu sync.Mutex
	var body []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		body, _ = jsonBody(r)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(internal.NewLogger(false), srv.URL, config.WebhookFormatDiscord, "http://p", "http://b")
	defer n.Stop()

	n.Notify(state.Transition{Kind: state.Recovery, TimestampUnix: 200, DowntimeSeconds: 42})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return body != nil
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	content, ok := payload["content"].(string)
	require.True(t, ok)
	assert.Contains(t, content, "RECOVERY")
	assert.Contains(t, content, "Duration: 42 seconds")
}

func TestSetWebhookEnablesPreviouslyDisabledNotifier(t *testing.T) {
	var mu sync.Mutex
	var body []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		body, _ = jsonBody(r)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(internal.NewLogger(false), "", config.WebhookFormatSlack, "http://p", "http://b")
	defer n.Stop()

	n.Notify(state.Transition{Kind: state.Failover})
	n.SetWebhook(srv.URL, config.WebhookFormatDiscord)
	n.Notify(state.Transition{Kind: state.Failover, TimestampUnix: 300})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return body != nil
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	_, ok := payload["content"].(string)
	assert.True(t, ok)
}

func jsonBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}
