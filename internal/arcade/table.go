package arcade

import "fmt"

type RewardEntry struct {
	ID     string  `yaml:"id"`
	Weight float64 `yaml:"weight"`
	Min    int     `yaml:"min"`
	Max    int     `yaml:"max"`
}

// WeightedTable rolls Rolls times, each roll picking one entry by weight and
// spawning between Min and Max copies of it (one when both are zero).
type WeightedTable struct {
	Rolls   int           `yaml:"rolls"`
	Entries []RewardEntry `yaml:"entries"`
}

func (t WeightedTable) Spawns(rng Random) []string {
	total := 0.0
	for _, e := range t.Entries {
		total += max(e.Weight, 0)
	}
	if total <= 0 {
		return nil
	}

	var out []string
	for range max(t.Rolls, 1) {
		e := t.pick(rng.Float64() * total)
		n := 1
		if e.Max > 0 || e.Min > 0 {
			lo := max(e.Min, 0)
			n = lo + rng.IntN(max(e.Max, lo)-lo+1)
		}
		for range n {
			out = append(out, e.ID)
		}
	}
	return out
}

func (t WeightedTable) pick(x float64) RewardEntry {
	var last RewardEntry
	for _, e := range t.Entries {
		if e.Weight <= 0 {
			continue
		}
		last = e
		if x < e.Weight {
			return e
		}
		x -= e.Weight
	}
	return last
}

func (t WeightedTable) Validate() error {
	if len(t.Entries) == 0 {
		return fmt.Errorf("table has no entries")
	}
	total := 0.0
	for i, e := range t.Entries {
		if e.ID == "" {
			return fmt.Errorf("entry %d: id is required", i)
		}
		if e.Weight < 0 {
			return fmt.Errorf("entry %q: weight must be >= 0", e.ID)
		}
		if e.Max < e.Min {
			return fmt.Errorf("entry %q: max %d < min %d", e.ID, e.Max, e.Min)
		}
		total += e.Weight
	}
	if total <= 0 {
		return fmt.Errorf("table weights sum to zero")
	}
	return nil
}
