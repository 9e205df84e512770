package chat

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrRoomDestroyed = errors.New("room destroyed")

// Room is one ephemeral chat room: an ordered, duplicate-free member
// list, a bounded message history, and a one-shot destroyed flag that
// arbitrates between the two teardown paths (expiry countdown and
// last-member-leaves).
//
// All member/history state is guarded by the room's own mutex, so
// traffic in one room never contends with another.
type Room struct {
	Code      string
	CreatedAt time.Time

	mu          sync.Mutex
	members     []string // insertion order
	history     []Message
	limit       int
	peakMembers int
	msgTotal    int

	destroyed atomic.Bool
}

// NewRoom creates a room with creator as its only member. historyLimit
// caps how many recent messages the room retains.
func NewRoom(code, creator string, historyLimit int) *Room {
	return &Room{
		Code:        code,
		CreatedAt:   time.Now(),
		members:     []string{creator},
		limit:       historyLimit,
		peakMembers: 1,
	}
}

// Join adds username to the member list and returns a snapshot of the
// list after the join. Re-joining with a name already present is a
// no-op. Fails with ErrRoomDestroyed once the room has been torn down.
func (r *Room) Join(username string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed.Load() {
		return nil, ErrRoomDestroyed
	}
	if !r.contains(username) {
		r.members = append(r.members, username)
		if len(r.members) > r.peakMembers {
			r.peakMembers = len(r.members)
		}
	}
	return r.memberSnapshot(), nil
}

// Leave removes username from the member list. If that empties the room,
// Leave claims the one-shot destroyed flag and reports won=true: the
// caller owns teardown (timer cancellation, store removal). Otherwise it
// returns the remaining members. A nil snapshot with won=false means the
// room was already destroyed and the leave is a no-op.
func (r *Room) Leave(username string) (remaining []string, won bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed.Load() {
		return nil, false
	}
	for i, m := range r.members {
		if m == username {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	if len(r.members) == 0 {
		// CompareAndSwap, not Store: a concurrent expiry may have
		// claimed the flag between our Load and here.
		return nil, r.destroyed.CompareAndSwap(false, true)
	}
	return r.memberSnapshot(), false
}

// Append records a message in the bounded history, evicting the oldest
// entry past the cap. Returns ok=false if the room is destroyed; the
// message is dropped, never queued.
func (r *Room) Append(username, body string) (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed.Load() {
		return Message{}, false
	}
	msg := newMessage(username, body)
	r.history = append(r.history, msg)
	if len(r.history) > r.limit {
		r.history = r.history[1:]
	}
	r.msgTotal++
	return msg, true
}

// History returns a copy of the bounded message history, oldest first.
func (r *Room) History() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.history))
	copy(out, r.history)
	return out
}

// Members returns a snapshot of the member list in join order.
func (r *Room) Members() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.memberSnapshot()
}

// BeginDestroy claims the one-shot destroyed flag. Exactly one caller
// ever wins, regardless of how expiry and empty-leave interleave; the
// winner performs teardown.
func (r *Room) BeginDestroy() bool {
	return r.destroyed.CompareAndSwap(false, true)
}

func (r *Room) Destroyed() bool {
	return r.destroyed.Load()
}

// Stats reports the peak member count and total messages ever appended,
// for the analytics record written at destruction.
func (r *Room) Stats() (peakMembers, messageCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.peakMembers, r.msgTotal
}

func (r *Room) contains(username string) bool {
	for _, m := range r.members {
		if m == username {
			return true
		}
	}
	return false
}

func (r *Room) memberSnapshot() []string {
	out := make([]string, len(r.members))
	copy(out, r.members)
	return out
}
