package chat

import (
	"fmt"
	"sync"
	"time"

	"disposechat/internal/expiry"
)

// Store is the in-memory registry of active rooms. The store's mutex
// guards only the registry map; each room synchronizes its own state.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*Room

	sched        expiry.Scheduler
	ttl          time.Duration
	historyLimit int
}

func NewStore(sched expiry.Scheduler, ttl time.Duration, historyLimit int) *Store {
	return &Store{
		rooms:        make(map[string]*Room),
		sched:        sched,
		ttl:          ttl,
		historyLimit: historyLimit,
	}
}

// Create registers a new room with creator as its only member and arms
// the expiry countdown. onExpire receives the room code when the
// countdown fires. The countdown is fixed from creation; activity never
// resets it.
func (s *Store) Create(creator string, onExpire func(code string)) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for i := 0; i < 10; i++ {
		code, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating room code: %w", err)
		}
		if _, exists := s.rooms[code]; exists {
			continue
		}

		room := NewRoom(code, creator, s.historyLimit)
		s.rooms[code] = room
		s.sched.Schedule(code, s.ttl, func() { onExpire(code) })
		return room, nil
	}
	return nil, fmt.Errorf("failed to generate unique room code after 10 attempts")
}

// Get returns the room for code, or nil. Absence is a normal outcome:
// the room may have expired or emptied out concurrently.
func (s *Store) Get(code string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[code]
}

// Delete removes the room and disarms its countdown. Deleting an absent
// room is a no-op.
func (s *Store) Delete(code string) {
	s.mu.Lock()
	delete(s.rooms, code)
	s.mu.Unlock()
	s.sched.Cancel(code)
}

func (s *Store) List() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		list = append(list, r)
	}
	return list
}
