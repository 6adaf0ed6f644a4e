package targets

import "fmt"

// Picker is the slice of a random source the catalog needs.
type Picker interface {
	IntN(n int) int
}

// Catalog holds the target definitions of a machine, partitioned once into
// friendly and enemy pools.
type Catalog struct {
	friendly []Definition
	enemies  []Definition
}

// NewCatalog copies defs into the two pools.
func NewCatalog(defs []Definition) *Catalog {
	c := &Catalog{}
	for _, d := range defs {
		if d.Friendly {
			c.friendly = append(c.friendly, d)
		} else {
			c.enemies = append(c.enemies, d)
		}
	}
	return c
}

func (c *Catalog) HasFriendly() bool {
	return len(c.friendly) > 0
}

// Pick returns a uniformly chosen definition from the friendly or enemy pool.
// It reports false when the requested pool is empty.
func (c *Catalog) Pick(rng Picker, friendly bool) (Definition, bool) {
	pool := c.enemies
	if friendly {
		pool = c.friendly
	}
	if len(pool) == 0 {
		return Definition{}, false
	}
	return pool[rng.IntN(len(pool))], true
}

// Validate checks that every definition has an id and a sprite and that ids
// are unique.
func Validate(defs []Definition) error {
	if len(defs) == 0 {
		return fmt.Errorf("target catalog is empty")
	}
	seen := make(map[string]bool, len(defs))
	for i, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("target %d: id is required", i)
		}
		if d.Sprite == "" {
			return fmt.Errorf("target %q: sprite is required", d.ID)
		}
		if seen[d.ID] {
			return fmt.Errorf("target %q: duplicate id", d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}
