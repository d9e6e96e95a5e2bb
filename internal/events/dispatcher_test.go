package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcher_PublishInvokesSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var order []string
	d.Subscribe(EventSessionChanged, func(_ context.Context, e Event) error {
		order = append(order, "first:"+e.Payload.(string))
		return nil
	})
	d.Subscribe(EventSessionChanged, func(_ context.Context, e Event) error {
		order = append(order, "second:"+e.Payload.(string))
		return nil
	})
	d.Subscribe(EventLocaleChanged, func(context.Context, Event) error {
		t.Error("handler for another event type was called")
		return nil
	})

	if err := d.Publish(context.Background(), NewEvent(EventSessionChanged, "x")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(order) != 2 || order[0] != "first:x" || order[1] != "second:x" {
		t.Errorf("order = %v", order)
	}
}

func TestDispatcher_PublishContinuesAfterError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	called := false
	d.Subscribe(EventTicketStoreChanged, func(context.Context, Event) error { return boom })
	d.Subscribe(EventTicketStoreChanged, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventTicketStoreChanged, nil))
	if !errors.Is(err, boom) {
		t.Errorf("Publish error = %v, want boom", err)
	}
	if !called {
		t.Error("second handler was skipped")
	}
}

func TestNewEvent(t *testing.T) {
	a := NewEvent(EventLocaleChanged, "en")
	b := NewEvent(EventLocaleChanged, "en")
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("event ids should be unique: %q %q", a.ID, b.ID)
	}
	if a.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}
