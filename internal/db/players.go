package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

type PlayerRecord struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}

// UpsertPlayer registers a player or renames an existing one. The original
// created_at is kept on conflict.
func (d *DB) UpsertPlayer(id, name, color string) error {
	now := time.Now().UTC()
	if _, err := d.Exec(`
		INSERT INTO players (id, name, color, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, color = excluded.color
	`, id, name, color, now); err != nil {
		return fmt.Errorf("upserting player %s: %w", id, err)
	}
	return nil
}

func (d *DB) GetPlayer(id string) (*PlayerRecord, error) {
	p := &PlayerRecord{}
	row := d.QueryRow(`SELECT id, name, color, created_at FROM players WHERE id = $1`, id)
	switch err := row.Scan(&p.ID, &p.Name, &p.Color, &p.CreatedAt); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("getting player %s: %w", id, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("getting player %s: %w", id, err)
	}
	return p, nil
}
