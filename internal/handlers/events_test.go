package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudhv/boardsync/internal/events"
	"github.com/anirudhv/boardsync/internal/repotest"
	"github.com/anirudhv/boardsync/internal/services"
)

// openStream connects to the event stream with the token in the query, the
// way a browser EventSource has to, and feeds raw SSE lines to a channel.
func openStream(t *testing.T, f *apiFixture, query string) (<-chan string, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	url := f.server.URL + "/api/events?token=" + f.token + query

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 64)
	go func() {
		defer resp.Body.Close()
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	t.Cleanup(cancel)
	return lines, cancel
}

func waitForLine(t *testing.T, lines <-chan string, want string) string {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatalf("stream closed while waiting for %q", want)
			}
			if strings.HasPrefix(line, want) {
				return line
			}
		case <-deadline:
			t.Fatalf("timed out waiting for line %q", want)
		}
	}
}

// waitForListener blocks until the stream handler has registered its bus
// listener; the connected comment is flushed before registration.
func waitForListener(t *testing.T, f *apiFixture, count int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.bus.ListenerCount(events.EventSync) == count {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("bus never reached %d listeners", count)
}

func TestStream_ConnectsAndHeartbeats(t *testing.T) {
	f := newAPIFixture(t)

	lines, _ := openStream(t, f, "")
	waitForLine(t, lines, ": connected")

	// The fixture heartbeat is 50ms; two beats prove the ticker is live.
	waitForLine(t, lines, ": heartbeat")
	waitForLine(t, lines, ": heartbeat")
}

func TestStream_DeliversEventsFromOtherSessions(t *testing.T) {
	f := newAPIFixture(t)

	lines, _ := openStream(t, f, "")
	waitForLine(t, lines, ": connected")
	waitForListener(t, f, 1)

	entityID := uuid.New().String()
	f.handler.Publisher.Publish(f.userID, "other-session", "task", entityID, "updated")

	waitForLine(t, lines, "event: sync")
	data := waitForLine(t, lines, "data: ")

	var ev events.SyncEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(data, "data: ")), &ev))
	assert.Equal(t, f.userID, ev.UserID)
	assert.Equal(t, "other-session", ev.SessionID)
	assert.Equal(t, "task", ev.EntityType)
	assert.Equal(t, entityID, ev.EntityID)
	assert.Equal(t, "updated", ev.Action)
}

func TestStream_SuppressesOwnSessionEcho(t *testing.T) {
	f := newAPIFixture(t)

	lines, _ := openStream(t, f, "")
	waitForLine(t, lines, ": connected")
	waitForListener(t, f, 1)

	// First an event from the stream's own session, then a broadcast.
	// Dispatch is in order, so receiving only the broadcast proves the
	// echo was filtered, not just delayed.
	f.handler.Publisher.Publish(f.userID, f.sessionID, "task", "suppressed", "updated")
	f.handler.Publisher.Publish(f.userID, "", "notification", "broadcast", "created")

	data := waitForLine(t, lines, "data: ")

	var ev events.SyncEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(data, "data: ")), &ev))
	assert.Equal(t, "broadcast", ev.EntityID)
}

func TestStream_ExplicitSessionIDOverridesDefault(t *testing.T) {
	f := newAPIFixture(t)

	lines, _ := openStream(t, f, "&sessionId=tab-2")
	waitForLine(t, lines, ": connected")
	waitForListener(t, f, 1)

	// Events from the excluded tab are dropped; events from the
	// authenticated session now come through.
	f.handler.Publisher.Publish(f.userID, "tab-2", "task", "suppressed", "updated")
	f.handler.Publisher.Publish(f.userID, f.sessionID, "task", "delivered", "updated")

	data := waitForLine(t, lines, "data: ")

	var ev events.SyncEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(data, "data: ")), &ev))
	assert.Equal(t, "delivered", ev.EntityID)
}

func TestStream_IgnoresOtherUsersEvents(t *testing.T) {
	f := newAPIFixture(t)

	lines, _ := openStream(t, f, "")
	waitForLine(t, lines, ": connected")
	waitForListener(t, f, 1)

	f.handler.Publisher.Publish(uuid.New(), "", "task", "foreign", "created")
	f.handler.Publisher.Publish(f.userID, "", "task", "mine", "created")

	data := waitForLine(t, lines, "data: ")

	var ev events.SyncEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(data, "data: ")), &ev))
	assert.Equal(t, "mine", ev.EntityID)
}

func TestStream_DisconnectTearsDownListenerAndPresence(t *testing.T) {
	f := newAPIFixture(t)

	lines, cancel := openStream(t, f, "")
	waitForLine(t, lines, ": connected")
	waitForListener(t, f, 1)

	// Presence is set when the stream opens and refreshed on heartbeat.
	waitForLine(t, lines, ": heartbeat")
	_, err := f.presence.GetPresence(context.Background(), f.sessionID)
	require.NoError(t, err)

	cancel()
	waitForListener(t, f, 0)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := f.presence.GetPresence(context.Background(), f.sessionID); err != nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("presence was not cleared on disconnect")
}

// brokenStreamWriter accepts a fixed number of writes, then fails every
// later one, standing in for a peer that went away without the request
// context noticing.
type brokenStreamWriter struct {
	mu     sync.Mutex
	header http.Header
	allow  int
	writes int
}

func newBrokenStreamWriter(allow int) *brokenStreamWriter {
	return &brokenStreamWriter{header: make(http.Header), allow: allow}
}

func (w *brokenStreamWriter) Header() http.Header { return w.header }
func (w *brokenStreamWriter) WriteHeader(int)     {}
func (w *brokenStreamWriter) Flush()              {}

func (w *brokenStreamWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes++
	if w.writes > w.allow {
		return 0, errors.New("write: broken pipe")
	}
	return len(p), nil
}

func (w *brokenStreamWriter) writeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

func TestStream_FailedWriteTearsDownOnce(t *testing.T) {
	bus := events.NewBus()
	presence := repotest.NewPresenceRepo()
	// A one-hour heartbeat keeps the ticker quiet so the failing write is
	// the event delivery, not a heartbeat.
	handler := NewStreamHandler(bus, presence, time.Hour)

	claims := &services.TokenClaims{UserID: uuid.New(), SessionID: "tab-1"}
	ctx := context.WithValue(context.Background(), claimsKey, claims)
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)

	// Only the connected comment gets through.
	w := newBrokenStreamWriter(1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(w, req)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && bus.ListenerCount(events.EventSync) == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 1, bus.ListenerCount(events.EventSync))

	bus.Emit(events.EventSync, events.SyncEvent{
		UserID:     claims.UserID,
		SessionID:  "other",
		EntityType: "task",
		EntityID:   "t-1",
		Action:     "updated",
	})

	// The context never cancels, so returning proves the failed write
	// alone drove the teardown.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after the failed write")
	}

	assert.Equal(t, 0, bus.ListenerCount(events.EventSync))
	_, err := presence.GetPresence(context.Background(), "tab-1")
	assert.Error(t, err, "presence should be cleared on teardown")

	// Nothing else may be written once torn down.
	written := w.writeCount()
	bus.Emit(events.EventSync, events.SyncEvent{
		UserID:     claims.UserID,
		SessionID:  "other",
		EntityType: "task",
		EntityID:   "t-2",
		Action:     "updated",
	})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, written, w.writeCount())
}

func TestStream_SecondConnectionGetsItsOwnListener(t *testing.T) {
	f := newAPIFixture(t)

	first, _ := openStream(t, f, "")
	waitForLine(t, first, ": connected")
	waitForListener(t, f, 1)

	second, cancelSecond := openStream(t, f, "&sessionId=tab-2")
	waitForLine(t, second, ": connected")
	waitForListener(t, f, 2)

	cancelSecond()
	waitForListener(t, f, 1)
}
