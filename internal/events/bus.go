// Package events carries transient change notifications between mutation
// paths and open event streams. Nothing here is persisted: an event with no
// registered listener at emission time is dropped.
package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/anirudhv/boardsync/internal/logging"
)

// EventSync is the single event name used for data-change fan-out.
const EventSync = "sync"

// SyncEvent notifies a user's other open sessions that an entity changed.
// SessionID is the originating session, used for echo suppression.
type SyncEvent struct {
	UserID     uuid.UUID `json:"userId"`
	SessionID  string    `json:"sessionId"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Action     string    `json:"action"`
}

type Listener func(SyncEvent)

type registration struct {
	id int64
	fn Listener
}

// Bus is a process-wide publish/subscribe registry keyed by event name.
// Listeners for a name run synchronously in registration order. One bus is
// created at startup and lives for the process lifetime.
type Bus struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[string][]registration
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]registration)}
}

// On registers a listener for the named event and returns a deregistration
// func. Calling it more than once is a no-op.
func (b *Bus) On(name string, fn Listener) (off func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], registration{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.off(name, id)
		})
	}
}

func (b *Bus) off(name string, id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.subs[name]
	for i, reg := range regs {
		if reg.id == id {
			b.subs[name] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Emit invokes every listener currently registered for name, in registration
// order. A panicking listener must not prevent later listeners from running;
// delivery is fire-and-forget with no acknowledgment.
func (b *Bus) Emit(name string, event SyncEvent) {
	b.mu.RLock()
	regs := make([]registration, len(b.subs[name]))
	copy(regs, b.subs[name])
	b.mu.RUnlock()

	for _, reg := range regs {
		invoke(reg.fn, event)
	}
}

// ListenerCount reports how many listeners are registered for name.
func (b *Bus) ListenerCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}

func invoke(fn Listener, event SyncEvent) {
	defer func() {
		if r := recover(); r != nil {
			logging.Log.Error().Interface("panic", r).Str("entity", event.EntityType).Msg("sync listener panicked")
		}
	}()
	fn(event)
}
