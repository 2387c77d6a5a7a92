package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return &ev
	default:
		t.Fatal("no event in client buffer")
		return nil
	}
}

func TestSendToUserDeliversEnvelope(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	alice := NewClient(nil, 1, "alice")
	reg.Register(alice)

	d.SendToUser(1, EventNewNotification, map[string]string{"hello": "world"})

	ev := receiveEvent(t, alice)
	assert.Equal(t, EventNewNotification, ev.Event)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestSendToUserOfflineIsNoop(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	// Must not panic or error; absence is a normal condition.
	d.SendToUser(42, EventNewMessage, nil)
	assert.Equal(t, 0, reg.Count())
}

func TestBroadcastReachesAllClients(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	alice := NewClient(nil, 1, "alice")
	bob := NewClient(nil, 2, "bob")
	reg.Register(alice)
	reg.Register(bob)

	d.Broadcast(EventLikedPost, LikedPayload{ItemID: "abc", Likes: []uint{2}})

	for _, c := range []*Client{alice, bob} {
		ev := receiveEvent(t, c)
		assert.Equal(t, EventLikedPost, ev.Event)
	}
}

func TestFailedDeliveryPrunesClient(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	alice := NewClient(nil, 1, "alice")
	bob := NewClient(nil, 2, "bob")
	reg.Register(alice)
	reg.Register(bob)

	// Fill alice's buffer; no pump is draining it.
	for i := 0; i < sendBufferSize; i++ {
		require.True(t, alice.enqueue([]byte("x")))
	}

	d.Broadcast(EventPostDeleted, DeletedPayload{ItemID: "abc"})

	// The stuck client is evicted; the healthy one still got the frame.
	assert.False(t, reg.IsOnline(1))
	assert.True(t, reg.IsOnline(2))
	ev := receiveEvent(t, bob)
	assert.Equal(t, EventPostDeleted, ev.Event)
}
