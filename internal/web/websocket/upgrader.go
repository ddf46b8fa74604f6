package websocket

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Config holds diagnostics WebSocket configuration.
type Config struct {
	ReadBufferSize  int
	WriteBufferSize int

	CheckOrigin func(r *http.Request) bool

	// TokenExtractor pulls a bearer token off the upgrade request, for
	// AuthHandler to validate.
	TokenExtractor func(r *http.Request) string

	EnableCompression bool
}

// DefaultConfig returns default WebSocket configuration.
func DefaultConfig() *Config {
	return &Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
		TokenExtractor: func(r *http.Request) string {
			if token := r.URL.Query().Get("token"); token != "" {
				return token
			}
			return r.Header.Get("Authorization")
		},
		EnableCompression: false,
	}
}

// Upgrader upgrades HTTP connections to diagnostics WebSocket clients.
type Upgrader struct {
	config   *Config
	upgrader *websocket.Upgrader
	hub      *Hub
}

// NewUpgrader creates a new Upgrader.
func NewUpgrader(config *Config, hub *Hub) *Upgrader {
	if config == nil {
		config = DefaultConfig()
	}

	return &Upgrader{
		config: config,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:    config.ReadBufferSize,
			WriteBufferSize:   config.WriteBufferSize,
			CheckOrigin:       config.CheckOrigin,
			EnableCompression: config.EnableCompression,
		},
		hub: hub,
	}
}

// ServeHTTP upgrades the request, authenticates the caller if the hub
// has an AuthHandler configured, and starts the client's pumps.
func (u *Upgrader) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := u.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	clientID := uuid.New().String()
	client := NewClient(clientID, conn, u.hub)

	if u.hub.authHandler != nil {
		token := u.config.TokenExtractor(r)
		if token == "" {
			log.Printf("websocket connection %s rejected: no token", clientID)
			conn.Close()
			return
		}
		userID, err := u.hub.authHandler(r.Context(), token)
		if err != nil {
			log.Printf("authentication failed for client %s: %v", clientID, err)
			conn.Close()
			return
		}
		client.UserID = userID
	}

	u.hub.register <- client

	go client.WritePump()
	go client.ReadPump()

	log.Printf("diagnostics websocket connection established: %s", clientID)
}

// Handler returns an http.HandlerFunc for the WebSocket upgrade.
func (u *Upgrader) Handler() http.HandlerFunc {
	return u.ServeHTTP
}

// Server wraps a Hub and Upgrader for the /ws/diagnostics endpoint.
type Server struct {
	Hub      *Hub
	Upgrader *Upgrader
	Config   *Config
}

// NewServer creates a new diagnostics WebSocket server.
func NewServer(ctx context.Context, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	hub := NewHub(ctx)
	upgrader := NewUpgrader(config, hub)

	return &Server{
		Hub:      hub,
		Upgrader: upgrader,
		Config:   config,
	}
}

// Start runs the hub's broadcast loop in the background.
func (s *Server) Start() {
	go s.Hub.Run()
}

// Shutdown gracefully shuts down the hub and disconnects all clients.
func (s *Server) Shutdown() {
	s.Hub.Shutdown()
}

// Handler returns the HTTP handler for the WebSocket upgrade.
func (s *Server) Handler() http.HandlerFunc {
	return s.Upgrader.Handler()
}
