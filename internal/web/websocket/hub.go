// Package websocket streams compile diagnostics to subscribed clients
// over a single broadcast topic: there is no per-room routing or
// generic message dispatch, because /ws/diagnostics has exactly one
// thing to say.
package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub maintains the set of connected diagnostics clients and fans out
// compile events to all of them.
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *DiagnosticsEvent

	// authHandler validates a connecting client's bearer token, if set.
	authHandler AuthHandler

	shutdown chan struct{}
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// IssueView is the wire shape of a single compiler diagnostic, mirroring
// diag.Issue without requiring clients to understand Severity's int
// encoding.
type IssueView struct {
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// DiagnosticsEvent is the payload broadcast to every connected client
// each time a compile job finishes.
type DiagnosticsEvent struct {
	Type        string      `json:"type"`
	JobID       string      `json:"job_id"`
	Path        string      `json:"path"`
	UserID      string      `json:"user_id,omitempty"`
	Diagnostics []IssueView `json:"diagnostics"`
	Error       string      `json:"error,omitempty"`
}

// AuthHandler authenticates a WebSocket connection from its bearer token.
type AuthHandler func(ctx context.Context, token string) (userID string, err error)

// NewHub creates a new Hub instance.
func NewHub(ctx context.Context) *Hub {
	hubCtx, cancel := context.WithCancel(ctx)

	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *DiagnosticsEvent, 1024),
		shutdown:   make(chan struct{}),
		ctx:        hubCtx,
		cancel:     cancel,
	}
}

// SetAuthHandler sets the authentication handler used to validate new
// connections.
func (h *Hub) SetAuthHandler(handler AuthHandler) {
	h.authHandler = handler
}

// Run starts the hub's main event loop.
func (h *Hub) Run() {
	h.wg.Add(1)
	defer h.wg.Done()

	cleanupTicker := time.NewTicker(30 * time.Second)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			h.cleanup()
			return

		case <-h.shutdown:
			h.cleanup()
			return

		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			log.Printf("diagnostics client registered: %s (total: %d)", client.ID, h.ClientCount())

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closed.Store(true)
				close(client.send)
			}
			h.clientsMu.Unlock()
			log.Printf("diagnostics client unregistered: %s (total: %d)", client.ID, h.ClientCount())

		case event := <-h.broadcast:
			h.broadcastToAll(event)

		case <-cleanupTicker.C:
			h.cleanupStaleConnections()
		}
	}
}

// broadcastToAll sends an event to all connected clients.
func (h *Hub) broadcastToAll(event *DiagnosticsEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("error marshaling diagnostics event: %v", err)
		return
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			log.Printf("skipping client %s: send channel full", client.ID)
		}
	}
}

// Broadcast sends a diagnostics event to all connected clients.
func (h *Hub) Broadcast(event *DiagnosticsEvent) {
	select {
	case h.broadcast <- event:
	case <-h.ctx.Done():
		log.Printf("hub context done, cannot broadcast")
	default:
		log.Printf("broadcast channel full, event dropped for job %s", event.JobID)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// GetClients returns all connected clients.
func (h *Hub) GetClients() []*Client {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

// cleanup closes all client connections and resets hub state.
func (h *Hub) cleanup() {
	log.Printf("hub shutting down, disconnecting %d clients", h.ClientCount())

	h.clientsMu.Lock()
	for client := range h.clients {
		client.closed.Store(true)
		if client.conn != nil {
			client.conn.Close()
		}
	}
	h.clients = make(map[*Client]bool)
	h.clientsMu.Unlock()
}

// cleanupStaleConnections removes clients that haven't pinged recently.
func (h *Hub) cleanupStaleConnections() {
	h.clientsMu.RLock()
	staleClients := make([]*Client, 0)

	for client := range h.clients {
		if time.Since(client.GetLastHeartbeat()) > 90*time.Second {
			staleClients = append(staleClients, client)
		}
	}
	h.clientsMu.RUnlock()

	for _, client := range staleClients {
		log.Printf("removing stale client: %s", client.ID)
		h.unregister <- client
	}
}

// Shutdown gracefully shuts down the hub.
func (h *Hub) Shutdown() {
	log.Printf("hub shutdown initiated")
	h.cancel()
	close(h.shutdown)
	h.wg.Wait()
	log.Printf("hub shutdown complete")
}
