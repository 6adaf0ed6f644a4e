package gamedata

// SlotPool tracks the slots that have no target in them.
type SlotPool struct {
	free []int
	rng  Random
}

func NewSlotPool(n int, rng Random) *SlotPool {
	free := make([]int, n)
	for i := range free {
		free[i] = i
	}
	return &SlotPool{free: free, rng: rng}
}

// Acquire pops the first free slot.
func (p *SlotPool) Acquire() (int, bool) {
	if len(p.free) == 0 {
		return -1, false
	}
	slot := p.free[0]
	p.free = p.free[1:]
	return slot, true
}

// Release puts a slot back and reshuffles the whole free set, so a freed slot
// does not come back in a predictable position.
func (p *SlotPool) Release(slot int) {
	p.free = append(p.free, slot)
	p.rng.Shuffle(len(p.free), func(i, j int) {
		p.free[i], p.free[j] = p.free[j], p.free[i]
	})
}

func (p *SlotPool) Len() int {
	return len(p.free)
}

func (p *SlotPool) Slots() []int {
	return append([]int(nil), p.free...)
}
