package gamedata

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestSlotPool_AcquireFIFO(t *testing.T) {
	p := NewSlotPool(3, &fakeRandom{})

	for want := 0; want < 3; want++ {
		got, ok := p.Acquire()
		if !ok || got != want {
			t.Errorf("Acquire() = %d, %v; want %d, true", got, ok, want)
		}
	}
	if _, ok := p.Acquire(); ok {
		t.Error("Acquire() on empty pool should report false")
	}
}

func TestSlotPool_ReleaseShuffles(t *testing.T) {
	rng := &fakeRandom{}
	p := NewSlotPool(2, rng)
	slot, _ := p.Acquire()

	p.Release(slot)

	if rng.shuffles != 1 {
		t.Errorf("shuffles = %d, want 1", rng.shuffles)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}

func TestSlotPool_ReleaseKeepsEverySlot(t *testing.T) {
	p := NewSlotPool(6, rand.New(rand.NewPCG(7, 7)))
	var taken []int
	for i := 0; i < 4; i++ {
		s, _ := p.Acquire()
		taken = append(taken, s)
	}
	for _, s := range taken {
		p.Release(s)
	}

	got := p.Slots()
	slices.Sort(got)
	if !slices.Equal(got, []int{0, 1, 2, 3, 4, 5}) {
		t.Errorf("Slots() = %v, want all six slots", got)
	}
}
