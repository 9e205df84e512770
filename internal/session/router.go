package session

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"disposechat/internal/chat"
	"disposechat/internal/db"
	"disposechat/internal/events"
	"disposechat/internal/metrics"
)

// Conns is the capability the router needs from the connection
// registry: session association plus addressed delivery. *wshub.Hub
// satisfies it; tests can too, though they normally use the real hub.
type Conns interface {
	SetRoom(connID, roomCode, username string)
	ClearRoom(connID string)
	Session(connID string) (roomCode, username string)
	SendTo(connID string, data []byte)
	Broadcast(roomCode string, data []byte)
	EvictRoom(roomCode string)
}

// Router translates inbound client events into room operations and room
// state changes into addressed broadcasts. It holds no room state of its
// own: the store owns rooms, the hub owns connections.
type Router struct {
	Store *chat.Store
	Conns Conns

	DB        *db.DB               // nil if no database configured
	MsgBuffer chan db.MessageEvent // nil if no database configured
}

func NewRouter(store *chat.Store, conns Conns) *Router {
	return &Router{Store: store, Conns: conns}
}

// HandleEvent dispatches one raw inbound frame from a connection.
// Malformed frames are logged and dropped; they never take down the
// connection or the room.
func (r *Router) HandleEvent(connID string, raw []byte) {
	var ev events.ClientEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		log.Printf("[Router] Bad frame from %s: %v\n", connID, err)
		return
	}

	switch ev.Type {
	case events.TypeCreateRoom:
		var p events.CreateRoomPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			r.Conns.SendTo(connID, events.Error("Malformed payload"))
			return
		}
		r.createRoom(connID, p.Username)
	case events.TypeJoinRoom:
		var p events.JoinRoomPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			r.Conns.SendTo(connID, events.Error("Malformed payload"))
			return
		}
		r.joinRoom(connID, p.RoomID, p.Username)
	case events.TypeMessage:
		var p events.MessagePayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return
		}
		r.sendMessage(connID, p.Message)
	case events.TypeLeaveRoom:
		r.leaveRoom(connID)
	default:
		log.Printf("[Router] Unknown event type %q from %s\n", ev.Type, connID)
	}
}

// HandleDisconnect treats an ungraceful connection drop exactly like an
// explicit leave, so rooms never hold phantom members.
func (r *Router) HandleDisconnect(connID string) {
	roomCode, username := r.Conns.Session(connID)
	if roomCode == "" {
		return
	}
	r.removeMember(roomCode, username)
}

// ExpireRoom is the countdown path of room destruction: broadcast the
// destruction notice, evict every member session, remove the room. The
// room's one-shot flag arbitrates against a concurrent empty-leave
// teardown, so exactly one destruction ever executes.
func (r *Router) ExpireRoom(roomCode string) {
	room := r.Store.Get(roomCode)
	if room == nil {
		return
	}
	if !room.BeginDestroy() {
		return
	}
	r.Conns.Broadcast(roomCode, events.RoomDestroyed())
	r.Conns.EvictRoom(roomCode)
	r.Store.Delete(roomCode)
	metrics.ActiveRooms.Dec()
	metrics.RoomsExpired.Inc()
	r.recordDestroyed(room, "expired")
	log.Printf("[Router] Room %s expired\n", roomCode)
}

func (r *Router) createRoom(connID, username string) {
	username = strings.TrimSpace(username)
	if username == "" {
		r.Conns.SendTo(connID, events.Error("Username is required"))
		return
	}

	room, err := r.Store.Create(username, r.ExpireRoom)
	if err != nil {
		log.Printf("[Router] Create room: %v\n", err)
		r.Conns.SendTo(connID, events.Error("Failed to create room"))
		return
	}

	r.Conns.SetRoom(connID, room.Code, username)
	r.Conns.SendTo(connID, events.RoomCreated(room.Code))
	metrics.RoomsCreated.Inc()
	metrics.ActiveRooms.Inc()

	if r.DB != nil {
		if err := r.DB.RecordRoomCreated(room.Code, room.CreatedAt); err != nil {
			log.Printf("[DB] RecordRoomCreated error: %v\n", err)
		}
	}
	log.Printf("[Router] Room %s created by %s\n", room.Code, username)
}

func (r *Router) joinRoom(connID, roomCode, username string) {
	username = strings.TrimSpace(username)
	if username == "" || roomCode == "" {
		r.Conns.SendTo(connID, events.Error("Username and room code are required"))
		return
	}

	room := r.Store.Get(roomCode)
	if room == nil {
		r.Conns.SendTo(connID, events.Error("Invalid room code"))
		return
	}
	members, err := room.Join(username)
	if err != nil {
		// Lost a race with destruction; same answer as a stale code.
		r.Conns.SendTo(connID, events.Error("Invalid room code"))
		return
	}

	r.Conns.SetRoom(connID, room.Code, username)
	r.Conns.SendTo(connID, events.MessageHistory(room.History()))
	r.Conns.Broadcast(room.Code, events.UserJoined(username, members))
}

func (r *Router) sendMessage(connID, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	roomCode, username := r.Conns.Session(connID)
	if roomCode == "" {
		return
	}
	room := r.Store.Get(roomCode)
	if room == nil {
		return
	}
	msg, ok := room.Append(username, body)
	if !ok {
		return
	}

	// Broadcast includes the sender: clients render their own messages
	// from the echo.
	r.Conns.Broadcast(roomCode, events.NewMessage(msg))
	metrics.MessagesSent.Inc()

	if r.MsgBuffer != nil {
		select {
		case r.MsgBuffer <- db.MessageEvent{
			RoomCode: roomCode,
			Username: username,
			SentAt:   time.UnixMilli(msg.Timestamp),
		}:
		default:
			log.Println("[DB] Message buffer full, dropping event")
		}
	}
}

func (r *Router) leaveRoom(connID string) {
	roomCode, username := r.Conns.Session(connID)
	if roomCode == "" {
		return
	}
	r.Conns.ClearRoom(connID)
	r.removeMember(roomCode, username)
}

func (r *Router) removeMember(roomCode, username string) {
	room := r.Store.Get(roomCode)
	if room == nil {
		return
	}
	remaining, won := room.Leave(username)
	if won {
		// Last member out: destroy now instead of waiting for expiry.
		// Nobody is left to receive a destruction notice.
		r.Store.Delete(roomCode)
		metrics.ActiveRooms.Dec()
		metrics.RoomsEmptied.Inc()
		r.recordDestroyed(room, "emptied")
		log.Printf("[Router] Room %s emptied and destroyed\n", roomCode)
		return
	}
	if remaining == nil {
		// Room already destroyed; nothing to announce.
		return
	}
	r.Conns.Broadcast(roomCode, events.UserLeft(username, remaining))
}

func (r *Router) recordDestroyed(room *chat.Room, reason string) {
	if r.DB == nil {
		return
	}
	peak, msgs := room.Stats()
	if err := r.DB.RecordRoomDestroyed(room.Code, reason, peak, msgs); err != nil {
		log.Printf("[DB] RecordRoomDestroyed error: %v\n", err)
	}
}
