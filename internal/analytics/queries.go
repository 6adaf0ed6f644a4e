package analytics

import (
	"fmt"

	"whackarcade/internal/db"
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

func (q *Queries) GetPlayerStats(playerID string) (*PlayerStats, error) {
	stats := &PlayerStats{
		PlayerID: playerID,
	}

	player, err := q.DB.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	stats.PlayerName = player.Name
	stats.PlayerColor = player.Color

	err = q.DB.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(score), 0),
			COALESCE(MAX(score), 0),
			COALESCE(AVG(performance), 0),
			COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0)
		FROM sessions
		WHERE player_id = $1
	`, playerID).Scan(&stats.GamesPlayed, &stats.TotalScore, &stats.BestScore, &stats.AvgPerformance, &stats.WinCount)
	if err != nil {
		return nil, fmt.Errorf("getting session stats: %w", err)
	}

	err = q.DB.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN friendly THEN 1 ELSE 0 END), 0)
		FROM hits
		WHERE player_id = $1
	`, playerID).Scan(&stats.Hits, &stats.FriendlyHits)
	if err != nil {
		return nil, fmt.Errorf("getting hit stats: %w", err)
	}

	// Most recent consecutive wins
	rows, err := q.DB.Query(`
		SELECT result FROM sessions WHERE player_id = $1 ORDER BY ended_at DESC
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("getting win streak: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var result string
		if err := rows.Scan(&result); err != nil {
			return nil, err
		}
		if result != "win" {
			break
		}
		stats.WinStreak++
	}

	return stats, rows.Err()
}

func (q *Queries) GetMachineStats(code string) (*MachineStats, error) {
	stats := &MachineStats{MachineCode: code}

	err := q.DB.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN result = 'fail' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN result = 'forfeit' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(score), 0),
			COALESCE(MAX(score), 0)
		FROM sessions
		WHERE machine_code = $1
	`, code).Scan(&stats.Sessions, &stats.Wins, &stats.Fails, &stats.Forfeits, &stats.AvgScore, &stats.BestScore)
	if err != nil {
		return nil, fmt.Errorf("getting machine sessions: %w", err)
	}
	if stats.Sessions > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.Sessions)
	}

	err = q.DB.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN friendly THEN 1 ELSE 0 END), 0)
		FROM hits
		WHERE machine_code = $1
	`, code).Scan(&stats.Hits, &stats.FriendlyHits)
	if err != nil {
		return nil, fmt.Errorf("getting machine hits: %w", err)
	}

	err = q.DB.QueryRow(`SELECT COUNT(*) FROM rewards WHERE machine_code = $1`, code).Scan(&stats.Rewards)
	if err != nil {
		return nil, fmt.Errorf("getting machine rewards: %w", err)
	}

	return stats, nil
}

func (q *Queries) GetLeaderboard(category string, limit int) ([]LeaderboardEntry, error) {
	var query string
	switch category {
	case "score":
		query = `
			SELECT p.id, p.name, p.color, MAX(s.score) as value
			FROM players p
			JOIN sessions s ON s.player_id = p.id
			GROUP BY p.id, p.name, p.color
			ORDER BY value DESC, p.name ASC
			LIMIT $1`
	case "wins":
		query = `
			SELECT p.id, p.name, p.color, SUM(CASE WHEN s.result = 'win' THEN 1 ELSE 0 END) as value
			FROM players p
			JOIN sessions s ON s.player_id = p.id
			GROUP BY p.id, p.name, p.color
			ORDER BY value DESC, p.name ASC
			LIMIT $1`
	case "hits":
		query = `
			SELECT p.id, p.name, p.color, SUM(CASE WHEN h.friendly THEN 0 ELSE 1 END) as value
			FROM players p
			JOIN hits h ON h.player_id = p.id
			GROUP BY p.id, p.name, p.color
			ORDER BY value DESC, p.name ASC
			LIMIT $1`
	default:
		return nil, fmt.Errorf("unknown leaderboard category: %s", category)
	}

	rows, err := q.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]LeaderboardEntry, 0, limit)
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.PlayerName, &e.PlayerColor, &e.Value); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
