package ws

import (
	"errors"
	"sync"
	"testing"
)

// fakeConn records events written to it and can be switched to fail sends.
type fakeConn struct {
	mu     sync.Mutex
	events []Event
	fail   bool
	closed bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("connection reset")
	}
	c.events = append(c.events, v.(Event))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func TestHubBroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	a := &fakeConn{}
	b := &fakeConn{}
	hub.Register(a)
	hub.Register(b)

	hub.RouteCreated()
	hub.RouteUpdated()
	hub.RouteDeleted()

	for _, c := range []*fakeConn{a, b} {
		events := c.received()
		if len(events) != 3 {
			t.Fatalf("expected 3 events, got %d", len(events))
		}
		if events[0].Type != "route_created" ||
			events[1].Type != "route_updated" ||
			events[2].Type != "route_deleted" {
			t.Fatalf("unexpected event sequence: %+v", events)
		}
		for _, ev := range events {
			if ev.Message == "" {
				t.Fatalf("event %q has empty message", ev.Type)
			}
		}
	}
}

func TestHubDropsFailingConnectionDuringBroadcast(t *testing.T) {
	hub := NewHub()
	healthy := &fakeConn{}
	broken := &fakeConn{fail: true}
	hub.Register(healthy)
	hub.Register(broken)

	hub.RouteCreated()

	if got := len(healthy.received()); got != 1 {
		t.Fatalf("healthy connection got %d events, want 1", got)
	}
	if !broken.closed {
		t.Fatal("failing connection must be closed")
	}
	if hub.Subscribers() != 1 {
		t.Fatalf("subscribers = %d, want 1", hub.Subscribers())
	}

	// The dropped connection stays out of later broadcasts.
	hub.RouteDeleted()
	if got := len(healthy.received()); got != 2 {
		t.Fatalf("healthy connection got %d events, want 2", got)
	}
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := &fakeConn{}
	hub.Register(c)
	hub.Unregister(c)
	hub.Unregister(c)

	hub.RouteCreated()
	if got := len(c.received()); got != 0 {
		t.Fatalf("unregistered connection got %d events", got)
	}
}

func TestHubConcurrentRegisterAndBroadcast(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := &fakeConn{}
			hub.Register(c)
			hub.Unregister(c)
		}()
		go func() {
			defer wg.Done()
			hub.RouteUpdated()
		}()
	}
	wg.Wait()

	if hub.Subscribers() != 0 {
		t.Fatalf("subscribers = %d, want 0", hub.Subscribers())
	}
}
