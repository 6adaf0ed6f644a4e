package arcade

import (
	"math/rand/v2"
	"testing"
)

type fixedRandom struct {
	ints   []int
	floats []float64
}

func (f *fixedRandom) IntN(n int) int {
	if len(f.ints) == 0 {
		return 0
	}
	v := f.ints[0]
	f.ints = f.ints[1:]
	return v % n
}

func (f *fixedRandom) Float64() float64 {
	if len(f.floats) == 0 {
		return 0
	}
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

type spawned struct {
	id string
	at Location
}

type recordingSpawner struct {
	spawns []spawned
}

func (s *recordingSpawner) Spawn(id string, at Location) {
	s.spawns = append(s.spawns, spawned{id, at})
}

type staticTable []string

func (t staticTable) Spawns(Random) []string { return t }

func TestResultFor(t *testing.T) {
	if got := ResultFor(0.65, 0.65); got != Win {
		t.Errorf("ResultFor(0.65, 0.65) = %v, want win", got)
	}
	if got := ResultFor(0.9, 0.65); got != Win {
		t.Errorf("ResultFor(0.9, 0.65) = %v, want win", got)
	}
	if got := ResultFor(0.64, 0.65); got != Fail {
		t.Errorf("ResultFor(0.64, 0.65) = %v, want fail", got)
	}
	if got := ResultFor(-1, 0.65); got != Fail {
		t.Errorf("ResultFor(-1, 0.65) = %v, want fail", got)
	}
}

func TestResult_String(t *testing.T) {
	want := map[Result]string{Win: "win", Draw: "draw", Forfeit: "forfeit", Fail: "fail"}
	for r, s := range want {
		if r.String() != s {
			t.Errorf("Result(%d).String() = %q, want %q", int(r), r.String(), s)
		}
	}
}

func TestNewRewards_AmountInRange(t *testing.T) {
	cfg := RewardConfig{MinAmount: 2, MaxAmount: 5}
	rng := rand.New(rand.NewPCG(1, 2))
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		r := NewRewards(cfg, rng)
		if r.Remaining < 2 || r.Remaining > 5 {
			t.Fatalf("Remaining = %d, want 2..5", r.Remaining)
		}
		seen[r.Remaining] = true
	}
	for n := 2; n <= 5; n++ {
		if !seen[n] {
			t.Errorf("amount %d never drawn in 500 tries", n)
		}
	}
}

func TestNewRewards_FixedAmount(t *testing.T) {
	r := NewRewards(RewardConfig{MinAmount: 3, MaxAmount: 3}, &fixedRandom{ints: []int{7}})
	if r.Remaining != 3 {
		t.Errorf("Remaining = %d, want 3", r.Remaining)
	}
}

func TestRewards_Dispense(t *testing.T) {
	r := &Rewards{Table: staticTable{"ticket", "ticket", "plush"}, Remaining: 2}
	sp := &recordingSpawner{}
	at := Location{Zone: "pier", X: 4, Y: -2}

	got := r.Dispense(nil, sp, at)
	if len(got) != 3 {
		t.Fatalf("Dispense returned %v, want 3 ids", got)
	}
	if len(sp.spawns) != 3 {
		t.Fatalf("spawner called %d times, want 3", len(sp.spawns))
	}
	for _, s := range sp.spawns {
		if s.at != at {
			t.Errorf("spawn at %+v, want %+v", s.at, at)
		}
	}
	if r.Remaining != 1 {
		t.Errorf("Remaining = %d, want 1", r.Remaining)
	}
}

func TestRewards_DispenseExhausted(t *testing.T) {
	r := &Rewards{Table: staticTable{"ticket"}, Remaining: 1}
	sp := &recordingSpawner{}

	r.Dispense(nil, sp, Location{})
	if got := r.Dispense(nil, sp, Location{}); got != nil {
		t.Errorf("Dispense on empty stock = %v, want nil", got)
	}
	if len(sp.spawns) != 1 {
		t.Errorf("spawner called %d times, want 1", len(sp.spawns))
	}
	if r.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", r.Remaining)
	}
}

func TestRewards_DispenseZeroStock(t *testing.T) {
	r := &Rewards{Table: staticTable{"ticket"}, Remaining: 0}
	sp := &recordingSpawner{}
	if got := r.Dispense(nil, sp, Location{}); got != nil {
		t.Errorf("Dispense = %v, want nil", got)
	}
	if r.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", r.Remaining)
	}
}

func TestWeightedTable_Spawns(t *testing.T) {
	table := WeightedTable{
		Rolls: 2,
		Entries: []RewardEntry{
			{ID: "ticket", Weight: 3, Min: 2, Max: 4},
			{ID: "plush", Weight: 1},
		},
	}
	// first roll lands on ticket with 2+1 copies, second on plush
	rng := &fixedRandom{floats: []float64{0.1, 0.9}, ints: []int{1}}
	got := table.Spawns(rng)
	want := []string{"ticket", "ticket", "ticket", "plush"}
	if len(got) != len(want) {
		t.Fatalf("Spawns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Spawns[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWeightedTable_SkipsZeroWeight(t *testing.T) {
	table := WeightedTable{Entries: []RewardEntry{
		{ID: "never", Weight: 0},
		{ID: "always", Weight: 1},
	}}
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 100; i++ {
		got := table.Spawns(rng)
		if len(got) != 1 || got[0] != "always" {
			t.Fatalf("Spawns = %v, want [always]", got)
		}
	}
}

func TestWeightedTable_Empty(t *testing.T) {
	if got := (WeightedTable{}).Spawns(&fixedRandom{}); got != nil {
		t.Errorf("empty table Spawns = %v, want nil", got)
	}
}

func TestRewardConfig_Validate(t *testing.T) {
	table := WeightedTable{Entries: []RewardEntry{{ID: "ticket", Weight: 1}}}

	if err := (RewardConfig{MinAmount: 1, MaxAmount: 3, Table: table}).Validate(); err != nil {
		t.Errorf("valid config: %v", err)
	}
	if err := (RewardConfig{}).Validate(); err != nil {
		t.Errorf("no rewards config: %v", err)
	}
	if err := (RewardConfig{MinAmount: 4, MaxAmount: 3, Table: table}).Validate(); err == nil {
		t.Error("inverted range should fail")
	}
	if err := (RewardConfig{MaxAmount: 2}).Validate(); err == nil {
		t.Error("stock without table should fail")
	}
	bad := WeightedTable{Entries: []RewardEntry{{ID: "x", Weight: 1, Min: 3, Max: 1}}}
	if err := (RewardConfig{MaxAmount: 2, Table: bad}).Validate(); err == nil {
		t.Error("entry with max < min should fail")
	}
}
