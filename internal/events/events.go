package events

import (
	"log"
	"time"
)

// GameEndedEvent describes a finished session.
type GameEndedEvent struct {
	SessionID   string
	Machine     string
	Player      string
	Result      string
	Score       int
	MaxScore    int
	Performance float64
	StartedAt   time.Time
	EndedAt     time.Time
}

type HitEvent struct {
	SessionID string
	Machine   string
	Player    string
	TargetID  string
	Slot      int
	Points    int
	Friendly  bool
	HitAt     time.Time
}

type RewardEvent struct {
	SessionID string
	Machine   string
	Player    string
	Items     []string
	Remaining int
	At        time.Time
}

// Bus carries session facts from the game loop to slower consumers. Publishing
// never blocks: when a consumer falls behind the event is dropped.
type Bus struct {
	GameEnded chan GameEndedEvent
	Hits      chan HitEvent
	Rewards   chan RewardEvent
}

func NewBus() *Bus {
	return &Bus{
		GameEnded: make(chan GameEndedEvent, 64),
		Hits:      make(chan HitEvent, 1024),
		Rewards:   make(chan RewardEvent, 64),
	}
}

func (b *Bus) PublishGameEnded(ev GameEndedEvent) {
	if b == nil {
		return
	}
	select {
	case b.GameEnded <- ev:
	default:
		log.Printf("[Events] Dropped game-ended event for session %s\n", ev.SessionID)
	}
}

func (b *Bus) PublishHit(ev HitEvent) {
	if b == nil {
		return
	}
	select {
	case b.Hits <- ev:
	default:
		log.Printf("[Events] Dropped hit event for session %s\n", ev.SessionID)
	}
}

func (b *Bus) PublishReward(ev RewardEvent) {
	if b == nil {
		return
	}
	select {
	case b.Rewards <- ev:
	default:
		log.Printf("[Events] Dropped reward event for session %s\n", ev.SessionID)
	}
}
