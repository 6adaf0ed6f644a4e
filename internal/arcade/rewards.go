package arcade

import (
	"fmt"
	"log"
)

// Random is the random source the reward code draws from.
type Random interface {
	IntN(n int) int
	Float64() float64
}

// Location is where a machine stands; rewards appear there.
type Location struct {
	Zone string  `yaml:"zone" json:"zone"`
	X    float64 `yaml:"x" json:"x"`
	Y    float64 `yaml:"y" json:"y"`
}

// RewardTable decides what a single payout consists of.
type RewardTable interface {
	Spawns(rng Random) []string
}

// Spawner materializes a reward in the world.
type Spawner interface {
	Spawn(id string, at Location)
}

type RewardConfig struct {
	MinAmount int           `yaml:"minAmount"`
	MaxAmount int           `yaml:"maxAmount"`
	Table     WeightedTable `yaml:"table"`
}

func (c RewardConfig) Validate() error {
	if c.MinAmount < 0 || c.MaxAmount < c.MinAmount {
		return fmt.Errorf("reward amount range must satisfy 0 <= min <= max, got [%d, %d]", c.MinAmount, c.MaxAmount)
	}
	if c.MaxAmount > 0 {
		if err := c.Table.Validate(); err != nil {
			return fmt.Errorf("invalid reward table: %w", err)
		}
	}
	return nil
}

// Rewards is the prize stock of one machine.
type Rewards struct {
	Table     RewardTable
	Remaining int
}

// NewRewards stocks a machine with a uniformly drawn number of payouts in
// [MinAmount, MaxAmount].
func NewRewards(cfg RewardConfig, rng Random) *Rewards {
	hi := max(cfg.MaxAmount, cfg.MinAmount)
	return &Rewards{
		Table:     cfg.Table,
		Remaining: cfg.MinAmount + rng.IntN(hi-cfg.MinAmount+1),
	}
}

// Dispense pays out one reward at the given location. Once the stock is
// empty it does nothing and returns nil.
func (r *Rewards) Dispense(rng Random, spawner Spawner, at Location) []string {
	if r.Remaining <= 0 || r.Table == nil {
		return nil
	}

	spawns := r.Table.Spawns(rng)
	for _, id := range spawns {
		spawner.Spawn(id, at)
	}
	r.Remaining--
	log.Printf("[Rewards] Dispensed %v, %d left\n", spawns, r.Remaining)
	return spawns
}
