package events

import (
	"testing"
	"time"
)

func TestBusFIFOPerSubscriber(t *testing.T) {
	b := NewBus(8)
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < 3; i++ {
		b.Publish(Event{Kind: KindItemAdded, Payload: i})
	}
	for want := 0; want < 3; want++ {
		select {
		case ev := <-ch:
			if ev.Payload.(int) != want {
				t.Fatalf("got payload %v, want %d", ev.Payload, want)
			}
		default:
			t.Fatalf("missing event %d", want)
		}
	}
}

func TestBusUnsubscribe(t *testing.T) {
	b := NewBus(8)
	ch, cancel := b.Subscribe()
	cancel()
	cancel() // idempotent

	b.Publish(Event{Kind: KindSessionStatus})
	if _, open := <-ch; open {
		t.Error("channel should be closed after cancel")
	}
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	b := NewBus(1)
	ch, cancel := b.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		b.Publish(Event{Payload: 1})
		b.Publish(Event{Payload: 2}) // buffer full, must not block
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	ev := <-ch
	if ev.Payload.(int) != 1 {
		t.Errorf("kept event = %v, want 1", ev.Payload)
	}
}

func TestBusClose(t *testing.T) {
	b := NewBus(4)
	ch, _ := b.Subscribe()
	b.Close()
	b.Close() // idempotent

	if _, open := <-ch; open {
		t.Error("subscriber channel should close with the bus")
	}

	// subscribing after close yields a closed channel
	ch2, cancel := b.Subscribe()
	defer cancel()
	if _, open := <-ch2; open {
		t.Error("Subscribe after Close should return a closed channel")
	}
}
