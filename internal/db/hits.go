package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type HitRecord struct {
	SessionID   string
	MachineCode string
	PlayerID    string
	TargetID    string
	Slot        int
	Points      int
	Friendly    bool
	HitAt       time.Time
}

const insertHit = `
	INSERT INTO hits (id, session_id, machine_code, player_id, target_id, slot, points, friendly, hit_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (d *DB) RecordHit(h HitRecord) error {
	_, err := d.Exec(insertHit, uuid.NewString(), h.SessionID, h.MachineCode, nullString(h.PlayerID),
		h.TargetID, h.Slot, h.Points, h.Friendly, h.HitAt.UTC())
	if err != nil {
		return fmt.Errorf("recording hit: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordHits(hits []HitRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(d.rebind(insertHit))
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, h := range hits {
		if _, err := stmt.Exec(uuid.NewString(), h.SessionID, h.MachineCode, nullString(h.PlayerID),
			h.TargetID, h.Slot, h.Points, h.Friendly, h.HitAt.UTC()); err != nil {
			return fmt.Errorf("recording hit in batch: %w", err)
		}
	}

	return tx.Commit()
}

func (d *DB) CountHits(sessionID string) (int, error) {
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM hits WHERE session_id = $1`, sessionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting hits: %w", err)
	}
	return n, nil
}
