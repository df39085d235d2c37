package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitInRegistrationOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	bus.On(EventSync, func(SyncEvent) { order = append(order, 1) })
	bus.On(EventSync, func(SyncEvent) { order = append(order, 2) })
	bus.On(EventSync, func(SyncEvent) { order = append(order, 3) })

	bus.Emit(EventSync, SyncEvent{UserID: uuid.New()})

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestBus_PanickingListenerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	var reached bool
	bus.On(EventSync, func(SyncEvent) { panic("listener blew up") })
	bus.On(EventSync, func(SyncEvent) { reached = true })

	// Must not panic, and the second listener still runs.
	require.NotPanics(t, func() {
		bus.Emit(EventSync, SyncEvent{})
	})
	assert.True(t, reached)
}

func TestBus_OffRemovesListener(t *testing.T) {
	bus := NewBus()

	var calls int
	off := bus.On(EventSync, func(SyncEvent) { calls++ })

	bus.Emit(EventSync, SyncEvent{})
	off()
	bus.Emit(EventSync, SyncEvent{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.ListenerCount(EventSync))
}

func TestBus_OffIsIdempotent(t *testing.T) {
	bus := NewBus()

	off1 := bus.On(EventSync, func(SyncEvent) {})
	off2 := bus.On(EventSync, func(SyncEvent) {})

	// Deregistering twice must not remove someone else's listener.
	off1()
	off1()
	assert.Equal(t, 1, bus.ListenerCount(EventSync))

	off2()
	assert.Equal(t, 0, bus.ListenerCount(EventSync))
}

func TestBus_EmitWithNoListeners(t *testing.T) {
	bus := NewBus()

	// Fire-and-forget: nothing registered, nothing happens.
	require.NotPanics(t, func() {
		bus.Emit(EventSync, SyncEvent{UserID: uuid.New(), Action: "created"})
	})
}

func TestBus_EventNamesAreIndependent(t *testing.T) {
	bus := NewBus()

	var syncCalls, otherCalls int
	bus.On(EventSync, func(SyncEvent) { syncCalls++ })
	bus.On("other", func(SyncEvent) { otherCalls++ })

	bus.Emit(EventSync, SyncEvent{})

	assert.Equal(t, 1, syncCalls)
	assert.Equal(t, 0, otherCalls)
}

func TestBus_ListenerRegisteredDuringEmitNotInvoked(t *testing.T) {
	bus := NewBus()

	var lateCalls int
	bus.On(EventSync, func(SyncEvent) {
		bus.On(EventSync, func(SyncEvent) { lateCalls++ })
	})

	bus.Emit(EventSync, SyncEvent{})

	// The snapshot taken at emit time excludes listeners added mid-dispatch.
	assert.Equal(t, 0, lateCalls)
	assert.Equal(t, 2, bus.ListenerCount(EventSync))
}
