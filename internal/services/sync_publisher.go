package services

import (
	"github.com/google/uuid"

	"github.com/anirudhv/boardsync/internal/events"
)

// SyncPublisher fans a change notification out to the owner's other open
// sessions. Fire-and-forget: publishing never fails the mutation that
// triggered it.
type SyncPublisher struct {
	bus *events.Bus
}

func NewSyncPublisher(bus *events.Bus) *SyncPublisher {
	return &SyncPublisher{bus: bus}
}

// Publish emits a sync event. sessionID is the originating session so the
// stream endpoint can suppress the echo; it may be empty for server-initiated
// changes (background sweeps), which then reach every open session.
func (p *SyncPublisher) Publish(userID uuid.UUID, sessionID, entityType, entityID, action string) {
	p.bus.Emit(events.EventSync, events.SyncEvent{
		UserID:     userID,
		SessionID:  sessionID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
	})
}
