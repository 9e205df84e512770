package expiry

import (
	"sync"
	"time"
)

// Scheduler arms at most one countdown per key. Schedule on an armed key
// replaces the previous countdown. Cancel on an absent or already-fired
// key is a no-op. A callback racing a concurrent Cancel may still run;
// callers resolve that with their own one-shot guard.
type Scheduler interface {
	Schedule(key string, d time.Duration, fn func())
	Cancel(key string)
}

// TimerScheduler is the wall-clock Scheduler used in production. Tests
// substitute a manual implementation to avoid real delays.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[string]*time.Timer)}
}

func (s *TimerScheduler) Schedule(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		// Only clean up our own entry; the key may have been re-armed.
		if s.timers[key] == t {
			delete(s.timers, key)
		}
		s.mu.Unlock()
		fn()
	})
	s.timers[key] = t
}

func (s *TimerScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}
