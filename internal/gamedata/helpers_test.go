package gamedata

import "whackarcade/internal/targets"

// fakeRandom gives tests full control over the draws a game makes.
type fakeRandom struct {
	intn     func(n int) int
	float    float64
	shuffles int
}

func (r *fakeRandom) IntN(n int) int {
	if r.intn != nil {
		return r.intn(n)
	}
	return 0
}

func (r *fakeRandom) Float64() float64 {
	return r.float
}

func (r *fakeRandom) Shuffle(n int, swap func(i, j int)) {
	r.shuffles++
}

var (
	mole  = targets.Definition{ID: "mole", Sprite: "mole.png", Score: 10}
	bunny = targets.Definition{ID: "bunny", Sprite: "bunny.png", Score: -5, Friendly: true}
)

func testConfig(defs ...targets.Definition) *Config {
	cfg := DefaultConfig()
	if len(defs) == 0 {
		defs = []targets.Definition{mole}
	}
	cfg.Targets = defs
	return &cfg
}
