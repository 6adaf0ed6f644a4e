package machines

import (
	"strings"
	"sync"
	"testing"

	"whackarcade/internal/arcade"
)

func TestStore_Create(t *testing.T) {
	s := NewStore()
	cfg := DefaultConfig()
	m, err := s.Create(&cfg, &arcade.Rewards{Remaining: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Code) != CodeLength {
		t.Errorf("code %q, want length %d", m.Code, CodeLength)
	}
	if !m.Powered {
		t.Error("new machines start powered")
	}
	if m.Hub == nil || m.Broadcaster == nil {
		t.Error("machine needs a hub and a broadcaster")
	}
	if m.Game != nil {
		t.Error("new machines have no game")
	}
	if m.Rewards.Remaining != 2 {
		t.Errorf("Remaining = %d, want 2", m.Rewards.Remaining)
	}
}

func TestStore_GetIsCaseInsensitive(t *testing.T) {
	s := NewStore()
	cfg := DefaultConfig()
	m, _ := s.Create(&cfg, nil)

	if s.Get(strings.ToLower(m.Code)) != m {
		t.Error("Get should accept lower-case codes")
	}
	if s.Get("ZZZZZ") != nil {
		t.Error("Get should return nil for unknown code")
	}
}

func TestStore_DeleteAndList(t *testing.T) {
	s := NewStore()
	cfg := DefaultConfig()
	a, _ := s.Create(&cfg, nil)
	b, _ := s.Create(&cfg, nil)

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("List() = %d machines, want 2", len(list))
	}
	if list[0].Code > list[1].Code {
		t.Error("List() should be sorted by code")
	}

	s.Delete(a.Code)
	if s.Get(a.Code) != nil {
		t.Error("deleted machine still present")
	}
	if s.Count() != 1 || s.Get(b.Code) != b {
		t.Error("other machine should remain")
	}
}

func TestStore_ConcurrentCreate(t *testing.T) {
	s := NewStore()
	cfg := DefaultConfig()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Create(&cfg, nil); err != nil {
				t.Errorf("Create() error: %v", err)
			}
		}()
	}
	wg.Wait()

	if s.Count() != 50 {
		t.Errorf("Count() = %d, want 50", s.Count())
	}
}
