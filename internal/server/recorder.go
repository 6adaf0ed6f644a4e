package server

import (
	"context"
	"log"
	"time"

	"whackarcade/internal/db"
	"whackarcade/internal/events"
)

const hitBatchSize = 50

// recordEvents persists finished sessions, hits and rewards off the game loop.
// Hits are batched; a session end flushes its pending hits first. Events
// already queued when ctx ends are still written.
func recordEvents(ctx context.Context, database *db.DB, bus *events.Bus) {
	w := &eventWriter{db: database, batch: make([]db.HitRecord, 0, hitBatchSize)}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case ev := <-bus.Hits:
					w.hit(ev)
				case ev := <-bus.GameEnded:
					w.gameEnded(ev)
				case ev := <-bus.Rewards:
					w.reward(ev)
				default:
					w.flush()
					return
				}
			}
		case ev := <-bus.Hits:
			w.hit(ev)
		case ev := <-bus.GameEnded:
			w.gameEnded(ev)
		case ev := <-bus.Rewards:
			w.reward(ev)
		case <-ticker.C:
			w.flush()
		}
	}
}

type eventWriter struct {
	db    *db.DB
	batch []db.HitRecord
}

func (w *eventWriter) flush() {
	if len(w.batch) == 0 {
		return
	}
	if err := w.db.BatchRecordHits(w.batch); err != nil {
		log.Printf("[DB] BatchRecordHits error: %v\n", err)
	}
	w.batch = w.batch[:0]
}

func (w *eventWriter) hit(ev events.HitEvent) {
	w.batch = append(w.batch, db.HitRecord{
		SessionID:   ev.SessionID,
		MachineCode: ev.Machine,
		PlayerID:    ev.Player,
		TargetID:    ev.TargetID,
		Slot:        ev.Slot,
		Points:      ev.Points,
		Friendly:    ev.Friendly,
		HitAt:       ev.HitAt,
	})
	if len(w.batch) >= hitBatchSize {
		w.flush()
	}
}

func (w *eventWriter) gameEnded(ev events.GameEndedEvent) {
	w.flush()
	err := w.db.RecordSession(db.SessionRecord{
		ID:          ev.SessionID,
		MachineCode: ev.Machine,
		PlayerID:    ev.Player,
		Result:      ev.Result,
		Score:       ev.Score,
		MaxScore:    ev.MaxScore,
		Performance: ev.Performance,
		StartedAt:   ev.StartedAt,
		EndedAt:     ev.EndedAt,
	})
	if err != nil {
		log.Printf("[DB] RecordSession error: %v\n", err)
	}
}

func (w *eventWriter) reward(ev events.RewardEvent) {
	err := w.db.RecordReward(db.RewardRecord{
		SessionID:   ev.SessionID,
		MachineCode: ev.Machine,
		PlayerID:    ev.Player,
		Items:       ev.Items,
		Remaining:   ev.Remaining,
		DispensedAt: ev.At,
	})
	if err != nil {
		log.Printf("[DB] RecordReward error: %v\n", err)
	}
}
