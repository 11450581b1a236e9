package loop

import (
	"testing"
	"time"
)

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub(nil)
	a := hub.Register("a")
	b := hub.Register("b")
	if a.ID == b.ID {
		t.Fatal("handles share an id")
	}
	if hub.Len() != 2 {
		t.Fatalf("sessions = %d, want 2", hub.Len())
	}

	hub.Unregister(a.ID)
	hub.Unregister(a.ID)
	if hub.Len() != 1 {
		t.Fatalf("sessions = %d, want 1", hub.Len())
	}
	if _, ok := <-a.EventsCh; ok {
		t.Fatal("events channel still open after unregister")
	}
}

func TestHubShutdownWaitsForSessions(t *testing.T) {
	hub := NewHub(nil)
	h := hub.Register("player")
	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventHostShutdown {
			hub.Unregister(h.ID)
		}
	}()

	start := time.Now()
	hub.Shutdown(2 * time.Second)
	if hub.Len() != 0 {
		t.Fatal("session still registered")
	}
	if time.Since(start) > time.Second {
		t.Fatal("shutdown waited for the full timeout")
	}
}

func TestHubShutdownTimesOut(t *testing.T) {
	hub := NewHub(nil)
	hub.Register("stuck")

	start := time.Now()
	hub.Shutdown(50 * time.Millisecond)
	if time.Since(start) < 50*time.Millisecond {
		t.Fatal("shutdown returned before the timeout")
	}
	if hub.Len() != 1 {
		t.Fatal("stuck session was dropped")
	}
}
