package models

import (
	"time"

	"github.com/google/uuid"
)

// Presence records that a session currently holds an open event stream.
// Stored in Redis with a TTL refreshed by the stream's heartbeat.
type Presence struct {
	UserID    uuid.UUID `json:"user_id"`
	SessionID string    `json:"session_id"`
	Status    string    `json:"status"`
	LastSeen  time.Time `json:"last_seen"`
}

type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusOffline PresenceStatus = "offline"
)
