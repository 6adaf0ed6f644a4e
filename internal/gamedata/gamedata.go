package gamedata

import (
	"time"

	"whackarcade/internal/targets"
)

// Random is the random source a game draws from. *math/rand/v2.Rand
// satisfies it.
type Random interface {
	IntN(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// Snapshot is the state shown to players.
type Snapshot struct {
	Score         int                        `json:"score"`
	TimeLeft      int                        `json:"timeLeft"`
	ActiveTargets map[int]targets.Definition `json:"activeTargets"`
	EndGame       bool                       `json:"endGame"`
}

// Game is one whack-a-mole session. It runs on its own clock, advanced by
// Tick, and is not safe for concurrent use.
type Game struct {
	cfg     *Config
	catalog *targets.Catalog
	rng     Random

	now           time.Duration
	endTime       time.Duration
	score         int
	totalPossible int
	difficulty    float64
	ended         bool
	prevSeconds   int
	dirty         bool

	params    Params
	nextSpawn time.Duration
	slots     *SlotPool
	active    map[int]activeTarget
}

func NewGame(cfg *Config, rng Random) *Game {
	g := &Game{
		cfg:        cfg,
		catalog:    targets.NewCatalog(cfg.Targets),
		rng:        rng,
		endTime:    cfg.GameDuration,
		difficulty: cfg.StartingDifficulty,
		slots:      NewSlotPool(cfg.TargetCount, rng),
		active:     make(map[int]activeTarget),
	}
	g.prevSeconds = g.TimeLeftSeconds()
	g.params = ParamsAt(cfg, g.difficulty)

	// The first wave waits one full spawn interval.
	g.nextSpawn = g.now + g.params.Frequency
	return g
}

// Tick advances the game by dt. It returns false once the game has ended or
// its time is up; in the latter case no snapshot is queued because the caller
// ends the game next.
func (g *Game) Tick(dt time.Duration) bool {
	if g.ended {
		return false
	}
	g.now += dt

	changed := false
	if secs := g.TimeLeftSeconds(); secs != g.prevSeconds {
		g.prevSeconds = secs
		changed = true
	}

	if g.now > g.endTime {
		return false
	}

	g.difficulty += g.cfg.DifficultyRate * dt.Seconds()
	if g.updateTargets() {
		changed = true
	}
	if changed {
		g.dirty = true
	}
	return true
}

// Hit whacks the target in slot. Empty slots and ended games are ignored.
// Friendly targets can be hit; their score is the penalty.
func (g *Game) Hit(slot int) (targets.Definition, bool) {
	if g.ended {
		return targets.Definition{}, false
	}
	t, ok := g.active[slot]
	if !ok {
		return targets.Definition{}, false
	}

	g.score += t.def.Score
	g.removeTarget(slot)
	g.dirty = true
	return t.def, true
}

// End clears the board and stops the game. Calling it again does nothing new.
func (g *Game) End() {
	for slot := range g.active {
		g.removeTarget(slot)
	}
	g.ended = true
	g.dirty = false
}

// Performance is the share of the achievable score the player earned.
func (g *Game) Performance() float64 {
	return float64(g.score) / float64(max(g.totalPossible, 1))
}

// TakeSnapshot returns a snapshot if the state changed since the last call.
func (g *Game) TakeSnapshot() (Snapshot, bool) {
	if !g.dirty {
		return Snapshot{}, false
	}
	g.dirty = false
	return g.Snapshot(false), true
}

func (g *Game) Snapshot(endGame bool) Snapshot {
	return Snapshot{
		Score:         g.score,
		TimeLeft:      g.TimeLeftSeconds(),
		ActiveTargets: g.ActiveTargets(),
		EndGame:       endGame,
	}
}

func (g *Game) ActiveTargets() map[int]targets.Definition {
	out := make(map[int]targets.Definition, len(g.active))
	for slot, t := range g.active {
		out[slot] = t.def
	}
	return out
}

func (g *Game) TimeLeft() time.Duration {
	return max(g.endTime-g.now, 0)
}

func (g *Game) TimeLeftSeconds() int {
	return int(g.TimeLeft().Seconds())
}

func (g *Game) Score() int { return g.score }
func (g *Game) TotalPossibleScore() int { return g.totalPossible }
func (g *Game) Difficulty() float64 { return g.difficulty }
func (g *Game) Ended() bool { return g.ended }
func (g *Game) Now() time.Duration { return g.now }
func (g *Game) NextSpawn() time.Duration { return g.nextSpawn }
func (g *Game) Params() Params { return g.params }
func (g *Game) FreeSlots() []int { return g.slots.Slots() }
