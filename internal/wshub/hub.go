package wshub

import (
	"context"
	"sync"

	"github.com/coder/websocket"
)

// Client represents a single WebSocket connection in the hub.
type Client struct {
	ID       string
	Username string
	RoomCode string
	Conn     *websocket.Conn
	Send     chan []byte
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub tracks live connections and their room association, and fans
// events out to the members of a room. Room association fields on a
// Client are only touched under the hub's lock.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // connection id -> client
	rooms   map[string]map[string]*Client // room code -> connection id -> client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// Unregister removes the client and closes its Send channel.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	if c.RoomCode != "" {
		h.dropFromRoom(c.RoomCode, connID)
	}
	close(c.Send)
	delete(h.clients, connID)
}

// SetRoom associates the connection with a room and username, replacing
// any previous association.
func (h *Hub) SetRoom(connID, roomCode, username string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	if c.RoomCode != "" {
		h.dropFromRoom(c.RoomCode, connID)
	}
	c.RoomCode, c.Username = roomCode, username
	members, ok := h.rooms[roomCode]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[roomCode] = members
	}
	members[connID] = c
}

// ClearRoom drops the connection's room association, if any.
func (h *Hub) ClearRoom(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[connID]
	if !ok || c.RoomCode == "" {
		return
	}
	h.dropFromRoom(c.RoomCode, connID)
	c.RoomCode, c.Username = "", ""
}

// Session returns the room and username the connection is associated
// with, or empty strings.
func (h *Hub) Session(connID string) (roomCode, username string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[connID]
	if !ok {
		return "", ""
	}
	return c.RoomCode, c.Username
}

// SendTo delivers data to a single connection. Non-blocking: drops if
// the client's channel is full.
func (h *Hub) SendTo(connID string, data []byte) {
	if data == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	select {
	case c.Send <- data:
	default:
		// Drop message if channel full
	}
}

// Broadcast sends data to every connection in the room. Non-blocking per
// client: a slow or dead connection never stalls the others.
func (h *Hub) Broadcast(roomCode string, data []byte) {
	if data == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[roomCode] {
		select {
		case c.Send <- data:
		default:
			// Drop message if channel full
		}
	}
}

// EvictRoom clears the room association of every member, used on room
// destruction. The connections themselves stay registered.
func (h *Hub) EvictRoom(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.rooms[roomCode] {
		c.RoomCode, c.Username = "", ""
	}
	delete(h.rooms, roomCode)
}

// dropFromRoom removes a connection from the room index. Caller holds mu.
func (h *Hub) dropFromRoom(roomCode, connID string) {
	members, ok := h.rooms[roomCode]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, roomCode)
	}
}
