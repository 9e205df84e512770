package chat

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestNewRoom(t *testing.T) {
	r := NewRoom("123456", "alice", 100)
	if r.Code != "123456" {
		t.Errorf("Code = %q, want %q", r.Code, "123456")
	}
	members := r.Members()
	if len(members) != 1 || members[0] != "alice" {
		t.Errorf("Members() = %v, want [alice]", members)
	}
	if len(r.History()) != 0 {
		t.Error("new room should have empty history")
	}
	if r.Destroyed() {
		t.Error("new room should not be destroyed")
	}
}

func TestRoom_Join(t *testing.T) {
	r := NewRoom("123456", "alice", 100)

	members, err := r.Join("bob")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alice", "bob"}
	if len(members) != 2 || members[0] != want[0] || members[1] != want[1] {
		t.Errorf("Join() members = %v, want %v", members, want)
	}
}

func TestRoom_JoinIdempotent(t *testing.T) {
	r := NewRoom("123456", "alice", 100)

	r.Join("bob")
	members, err := r.Join("bob")
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 {
		t.Errorf("re-joining with same name duplicated member: %v", members)
	}
}

func TestRoom_JoinAfterDestroy(t *testing.T) {
	r := NewRoom("123456", "alice", 100)
	if !r.BeginDestroy() {
		t.Fatal("BeginDestroy() should win on a live room")
	}

	_, err := r.Join("bob")
	if !errors.Is(err, ErrRoomDestroyed) {
		t.Errorf("Join() after destroy: err = %v, want ErrRoomDestroyed", err)
	}
}

func TestRoom_LeaveSurvivors(t *testing.T) {
	r := NewRoom("123456", "alice", 100)
	r.Join("bob")

	remaining, won := r.Leave("bob")
	if won {
		t.Error("leave with survivors should not claim destruction")
	}
	if len(remaining) != 1 || remaining[0] != "alice" {
		t.Errorf("remaining = %v, want [alice]", remaining)
	}
	if r.Destroyed() {
		t.Error("room should survive while members remain")
	}
}

func TestRoom_LeaveLastMemberDestroys(t *testing.T) {
	r := NewRoom("123456", "alice", 100)

	_, won := r.Leave("alice")
	if !won {
		t.Fatal("last leave should win destruction")
	}
	if !r.Destroyed() {
		t.Error("room should be destroyed after last member leaves")
	}

	// Teardown already claimed; nothing further may act on the room.
	if _, ok := r.Append("alice", "too late"); ok {
		t.Error("Append() should be dropped on a destroyed room")
	}
	if _, won := r.Leave("alice"); won {
		t.Error("second leave must not claim destruction again")
	}
}

func TestRoom_LeaveUnknownMember(t *testing.T) {
	r := NewRoom("123456", "alice", 100)

	remaining, won := r.Leave("mallory")
	if won {
		t.Error("leaving an unknown name should not destroy the room")
	}
	if len(remaining) != 1 || remaining[0] != "alice" {
		t.Errorf("remaining = %v, want [alice]", remaining)
	}
}

func TestRoom_Append(t *testing.T) {
	r := NewRoom("123456", "alice", 100)

	msg, ok := r.Append("alice", "hi")
	if !ok {
		t.Fatal("Append() on a live room should succeed")
	}
	if msg.Username != "alice" || msg.Body != "hi" {
		t.Errorf("message = %+v", msg)
	}
	if msg.Timestamp == 0 {
		t.Error("message timestamp should be set")
	}

	history := r.History()
	if len(history) != 1 || history[0].Body != "hi" {
		t.Errorf("history = %v", history)
	}
}

func TestRoom_HistoryBound(t *testing.T) {
	r := NewRoom("123456", "alice", 100)

	for i := 0; i < 101; i++ {
		r.Append("alice", fmt.Sprintf("msg-%d", i))
	}

	history := r.History()
	if len(history) != 100 {
		t.Fatalf("history length = %d, want 100", len(history))
	}
	if history[0].Body != "msg-1" {
		t.Errorf("oldest message = %q, want msg-1 (msg-0 evicted)", history[0].Body)
	}
	if history[99].Body != "msg-100" {
		t.Errorf("newest message = %q, want msg-100", history[99].Body)
	}
}

func TestRoom_HistoryOrder(t *testing.T) {
	r := NewRoom("123456", "alice", 10)

	for i := 0; i < 10; i++ {
		r.Append("alice", fmt.Sprintf("msg-%d", i))
	}

	history := r.History()
	var last int64
	for i, m := range history {
		if m.Body != fmt.Sprintf("msg-%d", i) {
			t.Errorf("history[%d] = %q, out of order", i, m.Body)
		}
		if m.Timestamp < last {
			t.Errorf("timestamp decreased at history[%d]", i)
		}
		last = m.Timestamp
	}
}

func TestRoom_BeginDestroyOnce(t *testing.T) {
	r := NewRoom("123456", "alice", 100)

	var wg sync.WaitGroup
	wins := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.BeginDestroy() {
				wins <- true
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Errorf("BeginDestroy() won by %d callers, want exactly 1", count)
	}
}

func TestRoom_ConcurrentJoins(t *testing.T) {
	r := NewRoom("123456", "creator", 100)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Join(fmt.Sprintf("user-%d", n))
		}(i)
	}
	wg.Wait()

	members := r.Members()
	if len(members) != 51 {
		t.Errorf("members = %d, want 51", len(members))
	}
	seen := make(map[string]bool)
	for _, m := range members {
		if seen[m] {
			t.Errorf("duplicate member %q", m)
		}
		seen[m] = true
	}
}

func TestRoom_Stats(t *testing.T) {
	r := NewRoom("123456", "alice", 100)
	r.Join("bob")
	r.Join("carol")
	r.Leave("carol")
	r.Append("alice", "one")
	r.Append("bob", "two")

	peak, msgs := r.Stats()
	if peak != 3 {
		t.Errorf("peak members = %d, want 3", peak)
	}
	if msgs != 2 {
		t.Errorf("message count = %d, want 2", msgs)
	}
}
