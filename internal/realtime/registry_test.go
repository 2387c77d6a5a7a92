package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLastSocketWins(t *testing.T) {
	reg := NewRegistry()

	first := NewClient(nil, 1, "alice")
	second := NewClient(nil, 1, "alice")

	reg.Register(first)
	reg.Register(second)

	current, ok := reg.Lookup(1)
	require.True(t, ok)
	assert.Same(t, second, current)
	assert.Equal(t, 1, reg.Count())

	// The evicted client is shut down and can no longer accept frames.
	assert.False(t, first.enqueue([]byte("late")))
	assert.True(t, second.enqueue([]byte("ok")))
}

func TestUnregisterIgnoresStaleClient(t *testing.T) {
	reg := NewRegistry()

	first := NewClient(nil, 1, "alice")
	second := NewClient(nil, 1, "alice")

	reg.Register(first)
	reg.Register(second)

	// The evicted connection's teardown must not remove its successor.
	reg.Unregister(first)
	assert.True(t, reg.IsOnline(1))

	reg.Unregister(second)
	assert.False(t, reg.IsOnline(1))

	// Repeated unregister is a no-op.
	reg.Unregister(second)
	assert.Equal(t, 0, reg.Count())
}

func TestRegistryTracksMultipleUsers(t *testing.T) {
	reg := NewRegistry()

	alice := NewClient(nil, 1, "alice")
	bob := NewClient(nil, 2, "bob")
	reg.Register(alice)
	reg.Register(bob)

	assert.Equal(t, 2, reg.Count())
	assert.True(t, reg.IsOnline(1))
	assert.True(t, reg.IsOnline(2))
	assert.False(t, reg.IsOnline(3))
	assert.Len(t, reg.Snapshot(), 2)
}
