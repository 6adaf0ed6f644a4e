package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"whackarcade/internal/db"
)

func testQueries(t *testing.T) *Queries {
	t.Helper()
	database, err := db.Connect(":memory:")
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewQueries(database)
}

func addSession(t *testing.T, q *Queries, machine, player, result string, score int, ended time.Time) string {
	t.Helper()
	id := uuid.NewString()
	err := q.DB.RecordSession(db.SessionRecord{
		ID:          id,
		MachineCode: machine,
		PlayerID:    player,
		Result:      result,
		Score:       score,
		MaxScore:    100,
		Performance: float64(score) / 100,
		StartedAt:   ended.Add(-90 * time.Second),
		EndedAt:     ended,
	})
	if err != nil {
		t.Fatalf("RecordSession() error: %v", err)
	}
	return id
}

func TestGetMachineStats(t *testing.T) {
	q := testQueries(t)
	now := time.Now()

	s1 := addSession(t, q, "ABCD", "p1", "win", 80, now)
	addSession(t, q, "ABCD", "", "fail", 20, now.Add(time.Minute))
	addSession(t, q, "ABCD", "p2", "forfeit", 0, now.Add(2*time.Minute))
	addSession(t, q, "WXYZ", "p1", "win", 90, now)

	err := q.DB.BatchRecordHits([]db.HitRecord{
		{SessionID: s1, MachineCode: "ABCD", PlayerID: "p1", TargetID: "mole", Points: 10, HitAt: now},
		{SessionID: s1, MachineCode: "ABCD", PlayerID: "p1", TargetID: "bunny", Points: -15, Friendly: true, HitAt: now},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := q.DB.RecordReward(db.RewardRecord{SessionID: s1, MachineCode: "ABCD", Items: []string{"ticket"}, DispensedAt: now}); err != nil {
		t.Fatal(err)
	}

	stats, err := q.GetMachineStats("ABCD")
	if err != nil {
		t.Fatalf("GetMachineStats() error: %v", err)
	}
	if stats.Sessions != 3 || stats.Wins != 1 || stats.Fails != 1 || stats.Forfeits != 1 {
		t.Errorf("stats = %+v, want 3 sessions split win/fail/forfeit", stats)
	}
	if stats.BestScore != 80 {
		t.Errorf("BestScore = %d, want 80", stats.BestScore)
	}
	if stats.AvgScore < 33.3 || stats.AvgScore > 33.4 {
		t.Errorf("AvgScore = %v, want ~33.33", stats.AvgScore)
	}
	if stats.Hits != 2 || stats.FriendlyHits != 1 {
		t.Errorf("hits = %d friendly = %d, want 2 and 1", stats.Hits, stats.FriendlyHits)
	}
	if stats.Rewards != 1 {
		t.Errorf("Rewards = %d, want 1", stats.Rewards)
	}
}

func TestGetMachineStats_Empty(t *testing.T) {
	q := testQueries(t)
	stats, err := q.GetMachineStats("NONE")
	if err != nil {
		t.Fatalf("GetMachineStats() error: %v", err)
	}
	if stats.Sessions != 0 || stats.WinRate != 0 {
		t.Errorf("stats = %+v, want zeros", stats)
	}
}

func TestGetPlayerStats(t *testing.T) {
	q := testQueries(t)
	if err := q.DB.UpsertPlayer("p1", "Alice", "#112233"); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	addSession(t, q, "ABCD", "p1", "fail", 30, now)
	addSession(t, q, "ABCD", "p1", "win", 70, now.Add(time.Minute))
	addSession(t, q, "ABCD", "p1", "win", 75, now.Add(2*time.Minute))

	stats, err := q.GetPlayerStats("p1")
	if err != nil {
		t.Fatalf("GetPlayerStats() error: %v", err)
	}
	if stats.PlayerName != "Alice" || stats.GamesPlayed != 3 {
		t.Errorf("stats = %+v, want Alice with 3 games", stats)
	}
	if stats.BestScore != 75 || stats.TotalScore != 175 || stats.WinCount != 2 {
		t.Errorf("stats = %+v, want best 75 total 175 wins 2", stats)
	}
	if stats.WinStreak != 2 {
		t.Errorf("WinStreak = %d, want 2", stats.WinStreak)
	}

	if _, err := q.GetPlayerStats("nobody"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("GetPlayerStats(unknown) error = %v, want db.ErrNotFound", err)
	}
}

func TestGetLeaderboard(t *testing.T) {
	q := testQueries(t)
	q.DB.UpsertPlayer("p1", "Alice", "#111111")
	q.DB.UpsertPlayer("p2", "Bob", "#222222")
	now := time.Now()
	addSession(t, q, "ABCD", "p1", "win", 70, now)
	addSession(t, q, "ABCD", "p2", "win", 95, now)
	addSession(t, q, "ABCD", "p2", "fail", 10, now)
	addSession(t, q, "ABCD", "", "win", 100, now)

	entries, err := q.GetLeaderboard("score", 10)
	if err != nil {
		t.Fatalf("GetLeaderboard() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v, want 2 registered players", entries)
	}
	if entries[0].PlayerName != "Bob" || entries[0].Value != 95 || entries[0].Rank != 1 {
		t.Errorf("first = %+v, want Bob with 95", entries[0])
	}

	wins, err := q.GetLeaderboard("wins", 1)
	if err != nil {
		t.Fatalf("GetLeaderboard(wins) error: %v", err)
	}
	if len(wins) != 1 || wins[0].Value != 1 {
		t.Errorf("wins = %+v, want a single entry with 1 win", wins)
	}

	if _, err := q.GetLeaderboard("speed", 10); err == nil {
		t.Error("unknown category should fail")
	}
}
