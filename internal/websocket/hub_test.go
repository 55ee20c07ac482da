package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   nil,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, 1)
	c2 := mockClient(hub, 2)

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}
	if !hub.UserConnected(1) {
		t.Error("user 1 should be connected")
	}

	hub.Unregister(c1)

	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}
	if hub.UserConnected(1) {
		t.Error("user 1 should be disconnected")
	}

	hub.Unregister(c2)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub, 1)
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestSendToUsers(t *testing.T) {
	hub := NewHub(slog.Default())

	alice := mockClient(hub, 1)
	alicePhone := mockClient(hub, 1)
	bob := mockClient(hub, 2)
	hub.Register(alice)
	hub.Register(alicePhone)
	hub.Register(bob)

	msg := NewMessage("object", "acquired", 1, map[string]any{"object_id": float64(7)})
	hub.SendToUsers([]int64{1}, msg)

	// Both of alice's connections receive it
	for _, c := range []*Client{alice, alicePhone} {
		select {
		case data := <-c.send:
			var got Message
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "object_acquired" {
				t.Errorf("expected type object_acquired, got %s", got.Type)
			}
			if got.UserID != 1 {
				t.Errorf("expected user_id 1, got %d", got.UserID)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}

	// Bob gets nothing
	select {
	case <-bob.send:
		t.Error("bob should not receive the message")
	default:
	}

	// Sending to a disconnected user is a no-op
	hub.SendToUsers([]int64{99}, msg)
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, 1)
	c2 := mockClient(hub, 2)
	hub.Register(c1)
	hub.Register(c2)

	msg := NewMessage("space", "updated", 1, map[string]any{"season_id": float64(1)})
	hub.Broadcast(msg)

	// Check both clients received the message
	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got Message
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "space_updated" {
				t.Errorf("expected type space_updated, got %s", got.Type)
			}
			if got.Entity != "space" {
				t.Errorf("expected entity space, got %s", got.Entity)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}

	hub.Unregister(c1)
	hub.Unregister(c2)
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic
	msg := NewMessage("friend", "followed", 1, nil)
	hub.Broadcast(msg)
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub, 1)
	hub.Register(c)

	// Fill the send buffer
	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast(NewMessage("test", "fill", int64(i), nil))
	}

	// This should drop the message, not panic or block
	hub.Broadcast(NewMessage("test", "dropped", 999, nil))

	// Drain to verify buffer was full
	count := 0
	for {
		select {
		case <-c.send:
			count++
		default:
			goto done
		}
	}
done:
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}

	hub.Unregister(c)
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("object", "acquired", 5, nil)
	if msg.Type != "object_acquired" {
		t.Errorf("expected type object_acquired, got %s", msg.Type)
	}
	if msg.Entity != "object" {
		t.Errorf("expected entity object, got %s", msg.Entity)
	}
	if msg.Action != "acquired" {
		t.Errorf("expected action acquired, got %s", msg.Action)
	}
	if msg.UserID != 5 {
		t.Errorf("expected user_id 5, got %d", msg.UserID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	// Spawn goroutines that register, broadcast, and unregister concurrently
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			c := mockClient(hub, id)
			hub.Register(c)
			hub.Broadcast(NewMessage("test", "concurrent", 0, nil))
			hub.SendToUsers([]int64{id}, NewMessage("test", "direct", id, nil))
			// Drain any messages
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}(int64(i % 5))
	}

	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}
