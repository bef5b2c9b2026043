package transport

import (
	"context"
	"log"
	"sync"

	"asteroids-server/internal/game"
	"asteroids-server/internal/protocol"
	"asteroids-server/internal/room"
)

const (
	DefaultMaxConnsPerIP = 5
	DefaultMaxTotalConns = 1000
)

// Room is the game host clients talk to.
type Room interface {
	Attach(conn room.Conn)
	Login(ctx context.Context, conn room.Conn, name string, color game.Color) (protocol.WelcomeMsg, error)
	Input(conn room.Conn, in game.Input)
	Disconnect(conn room.Conn)
}

// Hub tracks connected clients and hands them to the room.
type Hub struct {
	room       Room
	mu         sync.RWMutex
	clients    map[*Client]bool
	unregister chan *Client
	done       chan struct{} // closed when Run returns
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu        sync.Mutex
	ipConns       map[string]int
	totalConns    int
	maxConnsPerIP int
	maxTotalConns int
}

// NewHub creates a hub. Non-positive limits fall back to the defaults.
func NewHub(r Room, maxPerIP, maxTotal int) *Hub {
	if maxPerIP <= 0 {
		maxPerIP = DefaultMaxConnsPerIP
	}
	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotalConns
	}
	return &Hub{
		room:          r,
		clients:       make(map[*Client]bool),
		unregister:    make(chan *Client, 64),
		done:          make(chan struct{}),
		ipConns:       make(map[string]int),
		maxConnsPerIP: maxPerIP,
		maxTotalConns: maxTotal,
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= h.maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= h.maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Register adds a client and attaches it to the room. It must be called
// before the client's pumps start so the room sees the attach before any
// disconnect.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	h.room.Attach(client)
}

// Unregister hands a departing client to Run. After Run has returned it
// does nothing.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Run processes unregister events until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
			return

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
			log.Printf("client %s left (%d connected)", client.remoteAddr, h.ClientCount())
			h.room.Disconnect(client)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
