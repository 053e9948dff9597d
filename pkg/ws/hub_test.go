package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// registerTestClient attaches a hub-only client, no real connection.
func registerTestClient(t *testing.T, hub *Hub, userID uint, buffer int) *Client {
	t.Helper()
	client := &Client{
		hub:    hub,
		send:   make(chan *Event, buffer),
		userID: userID,
	}
	hub.register <- client
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return hub.clients[client]
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	go hub.Run()

	first := registerTestClient(t, hub, 1, 4)
	second := registerTestClient(t, hub, 2, 4)

	hub.Broadcast(&Event{Type: "message", Data: "hello"})

	for _, client := range []*Client{first, second} {
		select {
		case event := <-client.send:
			assert.Equal(t, "message", event.Type)
		case <-time.After(time.Second):
			t.Fatalf("client %d did not receive the event", client.userID)
		}
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	go hub.Run()

	client := registerTestClient(t, hub, 1, 4)
	hub.unregister <- client

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 5*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open)
}

func TestHubEvictsSlowClients(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	go hub.Run()

	// A zero-capacity buffer makes the first delivery fail.
	slow := registerTestClient(t, hub, 1, 0)
	healthy := registerTestClient(t, hub, 2, 4)

	hub.Broadcast(&Event{Type: "message", Data: "one"})

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	hub.mu.RLock()
	stillThere := hub.clients[healthy]
	evicted := hub.clients[slow]
	hub.mu.RUnlock()
	assert.True(t, stillThere)
	assert.False(t, evicted)
}
