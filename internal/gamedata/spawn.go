package gamedata

import (
	"time"

	"whackarcade/internal/targets"
)

type activeTarget struct {
	def    targets.Definition
	expiry time.Duration
}

// updateTargets spawns a wave when one is due and then expires stale targets.
// Spawning first means a slot freed by an expiry is not refilled in the same
// tick. It reports whether anything changed.
func (g *Game) updateTargets() bool {
	g.params = ParamsAt(g.cfg, g.difficulty)
	changed := false

	if g.now >= g.nextSpawn {
		g.spawnWave()
		changed = true
	}

	for slot, t := range g.active {
		if g.now > t.expiry {
			g.removeTarget(slot)
			changed = true
		}
	}
	return changed
}

func (g *Game) spawnWave() {
	for range g.waveSize() {
		g.spawnTarget()
	}
	g.nextSpawn = g.now + g.params.Frequency
}

// waveSize draws from [1, MaxWaveSize). The upper bound is exclusive, so the
// maximum is only reached when it is 1.
func (g *Game) waveSize() int {
	if g.params.MaxWaveSize <= 1 {
		return 1
	}
	return 1 + g.rng.IntN(g.params.MaxWaveSize-1)
}

func (g *Game) spawnTarget() {
	def, ok := g.catalog.Pick(g.rng, g.nextIsFriendly())
	if !ok {
		return
	}
	slot, ok := g.slots.Acquire()
	if !ok {
		return
	}

	// Penalty targets never count towards the achievable score.
	if def.Score > 0 {
		g.totalPossible += def.Score
	}
	g.active[slot] = activeTarget{def: def, expiry: g.now + g.params.Duration}
}

func (g *Game) nextIsFriendly() bool {
	chance := g.params.FriendChance
	return chance > 0 &&
		g.catalog.HasFriendly() &&
		(chance == 1 || g.rng.Float64() <= chance)
}

func (g *Game) removeTarget(slot int) {
	if _, ok := g.active[slot]; !ok {
		return
	}
	delete(g.active, slot)
	g.slots.Release(slot)
}
