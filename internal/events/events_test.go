package events

import (
	"testing"
	"time"
)

func TestNewBus(t *testing.T) {
	bus := NewBus()
	if bus == nil {
		t.Fatal("NewBus() returned nil")
	}
	if bus.GameEnded == nil || bus.Hits == nil || bus.Rewards == nil {
		t.Fatal("bus channels must be allocated")
	}
}

func TestBus_PublishReceive(t *testing.T) {
	bus := NewBus()
	bus.PublishGameEnded(GameEndedEvent{SessionID: "s1", Result: "win", Score: 40})

	select {
	case received := <-bus.GameEnded:
		if received.SessionID != "s1" || received.Result != "win" {
			t.Errorf("received %+v, want session s1 win", received)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_PublishDropsWhenFull(t *testing.T) {
	bus := NewBus()
	n := cap(bus.Rewards)

	done := make(chan struct{})
	go func() {
		for i := 0; i < n+10; i++ {
			bus.PublishReward(RewardEvent{SessionID: "s"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("PublishReward blocked on a full channel")
	}
	if len(bus.Rewards) != n {
		t.Errorf("buffered = %d, want %d", len(bus.Rewards), n)
	}
}

func TestBus_NilIsNoop(t *testing.T) {
	var bus *Bus
	bus.PublishHit(HitEvent{})
	bus.PublishGameEnded(GameEndedEvent{})
	bus.PublishReward(RewardEvent{})
}
