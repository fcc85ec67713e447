package events

import (
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan SessionStateChangedEvent, 1)

	unsub := bus.Subscribe(func(e SessionStateChangedEvent) {
		received <- e
	})
	defer unsub()

	ev := SessionStateChangedEvent{
		Previous:  "idle",
		Current:   "starting",
		Timestamp: "2025-01-27T10:30:00Z",
	}
	bus.Publish(ev)

	got := <-received
	if got.Current != ev.Current {
		t.Errorf("Expected current state %s, got %s", ev.Current, got.Current)
	}
}

func TestBus_MultipleSubscribers(_ *testing.T) {
	bus := New()
	received1 := make(chan EngineInitializedEvent, 1)
	received2 := make(chan EngineInitializedEvent, 1)

	unsub1 := bus.Subscribe(func(e EngineInitializedEvent) {
		received1 <- e
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(e EngineInitializedEvent) {
		received2 <- e
	})
	defer unsub2()

	bus.Publish(EngineInitializedEvent{Version: "v31.0.2"})

	<-received1
	<-received2
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan VideoResetEvent, 1)

	unsub := bus.Subscribe(func(e VideoResetEvent) {
		received <- e
	})

	bus.Publish(VideoResetEvent{Size: "640x360"})
	<-received

	unsub()

	bus.Publish(VideoResetEvent{Size: "1280x720"})
	select {
	case <-received:
		t.Error("received event after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBus_UnknownHandlerIsNoop(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(int) {})
	if unsub == nil {
		t.Fatal("Subscribe should always return an unsubscribe func")
	}
	unsub()
}
