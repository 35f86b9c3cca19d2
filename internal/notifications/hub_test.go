package notifications

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	defer unsubscribe()

	hub.Publish(userID, Event{Type: EventLedgerUpdated})

	select {
	case event := <-ch:
		if event.Type != EventLedgerUpdated {
			t.Fatalf("expected event type %s, got %s", EventLedgerUpdated, event.Type)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event to be delivered")
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}
}

func TestHubIsolatesUsers(t *testing.T) {
	hub := NewHub()
	alice := uuid.New()
	bob := uuid.New()

	aliceCh, unsubAlice := hub.Subscribe(alice)
	defer unsubAlice()
	bobCh, unsubBob := hub.Subscribe(bob)
	defer unsubBob()

	hub.Publish(alice, Event{Type: EventLedgerUpdated})

	select {
	case <-aliceCh:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected alice to receive the event")
	}

	select {
	case <-bobCh:
		t.Fatal("expected bob to receive nothing")
	default:
	}
}
