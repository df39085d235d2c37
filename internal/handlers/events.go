package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anirudhv/boardsync/internal/events"
	"github.com/anirudhv/boardsync/internal/logging"
	"github.com/anirudhv/boardsync/internal/models"
	"github.com/anirudhv/boardsync/internal/repositories"
)

// streamBuffer is the per-connection event buffer. A slow consumer drops
// events rather than blocking the emitter.
const streamBuffer = 32

// StreamHandler serves GET /api/events: one long-lived SSE response per
// connection, fed by the process-wide bus.
type StreamHandler struct {
	bus       *events.Bus
	presence  repositories.PresenceRepository
	heartbeat time.Duration
}

func NewStreamHandler(bus *events.Bus, presence repositories.PresenceRepository, heartbeat time.Duration) *StreamHandler {
	return &StreamHandler{
		bus:       bus,
		presence:  presence,
		heartbeat: heartbeat,
	}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// The client names the session to exclude from echo; it defaults to
	// the authenticated session.
	excludeSessionID := r.URL.Query().Get("sessionId")
	if excludeSessionID == "" {
		excludeSessionID = claims.SessionID
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	userID := claims.UserID
	matched := make(chan events.SyncEvent, streamBuffer)

	off := h.bus.On(events.EventSync, func(ev events.SyncEvent) {
		// Per-user scoping plus echo suppression. A sweep-originated
		// event carries an empty session id and reaches everyone.
		if ev.UserID != userID {
			return
		}
		if ev.SessionID != "" && ev.SessionID == excludeSessionID {
			return
		}
		select {
		case matched <- ev:
		default:
		}
	})

	ticker := time.NewTicker(h.heartbeat)

	// Both the abort path and the failed-write path converge here; it
	// must run exactly once.
	var once sync.Once
	teardown := func() {
		once.Do(func() {
			off()
			ticker.Stop()
			h.markOffline(claims.SessionID)
		})
	}
	defer teardown()

	h.markOnline(userID, claims.SessionID)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-matched:
			if err := writeSyncEvent(w, flusher, ev); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
			h.markOnline(userID, claims.SessionID)
		}
	}
}

func writeSyncEvent(w http.ResponseWriter, flusher http.Flusher, ev events.SyncEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "event: sync\ndata: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func (h *StreamHandler) markOnline(userID uuid.UUID, sessionID string) {
	if h.presence == nil {
		return
	}
	presence := &models.Presence{
		UserID:    userID,
		SessionID: sessionID,
		Status:    string(models.StatusOnline),
		LastSeen:  time.Now(),
	}
	// Best-effort. The TTL spans two heartbeats so one missed refresh
	// does not flap the session offline.
	if err := h.presence.SetPresence(context.Background(), presence, 2*h.heartbeat+time.Second); err != nil {
		logging.Log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to set presence")
	}
}

func (h *StreamHandler) markOffline(sessionID string) {
	if h.presence == nil {
		return
	}
	// Fresh context: teardown runs after the request context is gone.
	if err := h.presence.DeletePresence(context.Background(), sessionID); err != nil {
		logging.Log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to delete presence")
	}
}
