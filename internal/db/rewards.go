package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RewardRecord struct {
	SessionID   string
	MachineCode string
	PlayerID    string
	Items       []string
	Remaining   int
	DispensedAt time.Time
}

func (d *DB) RecordReward(r RewardRecord) error {
	_, err := d.Exec(`
		INSERT INTO rewards (id, session_id, machine_code, player_id, items, remaining, dispensed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.NewString(), r.SessionID, r.MachineCode, nullString(r.PlayerID),
		strings.Join(r.Items, ","), r.Remaining, r.DispensedAt.UTC())
	if err != nil {
		return fmt.Errorf("recording reward: %w", err)
	}
	return nil
}

func (d *DB) GetRewards(machineCode string) ([]RewardRecord, error) {
	rows, err := d.Query(`
		SELECT session_id, machine_code, player_id, items, remaining, dispensed_at
		FROM rewards WHERE machine_code = $1 ORDER BY dispensed_at
	`, machineCode)
	if err != nil {
		return nil, fmt.Errorf("getting rewards: %w", err)
	}
	defer rows.Close()

	var out []RewardRecord
	for rows.Next() {
		var r RewardRecord
		var player sql.NullString
		var items string
		if err := rows.Scan(&r.SessionID, &r.MachineCode, &player, &items, &r.Remaining, &r.DispensedAt); err != nil {
			return nil, err
		}
		r.PlayerID = player.String
		if items != "" {
			r.Items = strings.Split(items, ",")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
