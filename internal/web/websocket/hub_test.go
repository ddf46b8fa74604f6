package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewHub(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(ctx)

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.broadcast)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubClientRegistration(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(ctx)

	go hub.Run()
	defer hub.Shutdown()

	client := &Client{
		ID:   "test-client",
		send: make(chan []byte, 256),
	}

	hub.register <- client
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())

	hub.unregister <- client
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubBroadcast(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(ctx)

	go hub.Run()
	defer hub.Shutdown()

	client1 := &Client{ID: "client1", send: make(chan []byte, 256)}
	client2 := &Client{ID: "client2", send: make(chan []byte, 256)}

	hub.register <- client1
	hub.register <- client2
	time.Sleep(50 * time.Millisecond)

	event := &DiagnosticsEvent{
		Type:  "compile_result",
		JobID: "job-1",
		Path:  "source.mdsl",
		Diagnostics: []IssueView{
			{Severity: "error", Rule: "missing_primary_key", Message: "unit has no primary key", Line: 3, Column: 1},
		},
	}
	hub.Broadcast(event)
	time.Sleep(50 * time.Millisecond)

	assert.Greater(t, len(client1.send), 0, "client1 should receive the event")
	assert.Greater(t, len(client2.send), 0, "client2 should receive the event")
}

func TestHubShutdown(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(ctx)

	go hub.Run()

	client := &Client{ID: "test-client", send: make(chan []byte, 256), conn: nil}
	hub.register <- client
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Shutdown()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubCleanupStaleConnections(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(ctx)

	go hub.Run()
	defer hub.Shutdown()

	client := &Client{
		ID:            "stale-client",
		send:          make(chan []byte, 256),
		lastHeartbeat: time.Now().Add(-2 * time.Minute),
	}

	hub.register <- client
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())

	hub.cleanupStaleConnections()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubConcurrentBroadcast(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(ctx)

	go hub.Run()
	defer hub.Shutdown()

	clients := make([]*Client, 10)
	for i := 0; i < 10; i++ {
		clients[i] = &Client{ID: string(rune('A' + i)), send: make(chan []byte, 256)}
		hub.register <- clients[i]
	}
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 100; i++ {
		go func(n int) {
			hub.Broadcast(&DiagnosticsEvent{Type: "compile_result", JobID: string(rune('a' + n%26))})
		}(i)
	}
	time.Sleep(100 * time.Millisecond)

	for _, client := range clients {
		assert.Greater(t, len(client.send), 0, "each client should receive events")
	}
}
