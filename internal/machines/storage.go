package machines

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"whackarcade/internal/arcade"
	"whackarcade/internal/broadcast"
	"whackarcade/internal/wshub"
)

type Store struct {
	mu       sync.Mutex
	machines map[string]*Machine
}

func NewStore() *Store {
	return &Store{
		machines: make(map[string]*Machine),
	}
}

// Create registers a powered machine under a fresh code.
func (s *Store) Create(cfg *MachineConfig, rewards *arcade.Rewards) (*Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating machine code: %w", err)
		}
		if _, exists := s.machines[code]; exists {
			continue
		}

		m := &Machine{
			Code:        code,
			Config:      cfg,
			Hub:         wshub.NewHub(),
			Broadcaster: broadcast.NewBroadcaster(),
			CreatedAt:   time.Now(),
			Powered:     true,
			Rewards:     rewards,
		}
		s.machines[code] = m
		return m, nil
	}
	return nil, fmt.Errorf("failed to generate unique machine code after 10 attempts")
}

func (s *Store) Get(code string) *Machine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machines[strings.ToUpper(code)]
}

func (s *Store) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.machines, strings.ToUpper(code))
}

// List returns the machines ordered by code.
func (s *Store) List() []*Machine {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Machine, 0, len(s.machines))
	for _, m := range s.machines {
		list = append(list, m)
	}
	slices.SortFunc(list, func(a, b *Machine) int {
		return strings.Compare(a.Code, b.Code)
	})
	return list
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.machines)
}
