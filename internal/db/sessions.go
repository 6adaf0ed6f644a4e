package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SessionRecord is a finished game.
type SessionRecord struct {
	ID          string
	MachineCode string
	PlayerID    string
	Result      string
	Score       int
	MaxScore    int
	Performance float64
	StartedAt   time.Time
	EndedAt     time.Time
}

func (d *DB) RecordSession(s SessionRecord) error {
	_, err := d.Exec(`
		INSERT INTO sessions (id, machine_code, player_id, result, score, max_score, performance, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ID, s.MachineCode, nullString(s.PlayerID), s.Result, s.Score, s.MaxScore, s.Performance, s.StartedAt.UTC(), s.EndedAt.UTC())
	if err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

func (d *DB) GetSession(id string) (*SessionRecord, error) {
	var s SessionRecord
	var player sql.NullString
	err := d.QueryRow(`
		SELECT id, machine_code, player_id, result, score, max_score, performance, started_at, ended_at
		FROM sessions WHERE id = $1
	`, id).Scan(&s.ID, &s.MachineCode, &player, &s.Result, &s.Score, &s.MaxScore, &s.Performance, &s.StartedAt, &s.EndedAt)
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	s.PlayerID = player.String
	return &s, nil
}
