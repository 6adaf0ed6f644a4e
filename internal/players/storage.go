package players

import (
	"sync"

	"whackarcade/internal/utility"
)

type Store struct {
	mu      sync.Mutex
	players map[string]*Player
}

func NewStore() *Store {
	return &Store{
		players: make(map[string]*Player),
	}
}

// Add registers a player with a random color and returns a copy of it.
func (s *Store) Add(id string, name string) Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	player := &Player{ID: id, Name: name, Color: utility.RandomColorHex()}
	s.players[id] = player
	return *player
}

// Get returns a copy so callers on other goroutines never race with RecordGame.
func (s *Store) Get(id string) (Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

func (s *Store) GetList() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	playerList := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		playerList = append(playerList, *p)
	}
	return playerList
}

// RecordGame counts a finished game for the player and keeps their best score.
func (s *Store) RecordGame(id string, score int) (Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	if p.GamesPlayed == 0 || score > p.BestScore {
		p.BestScore = score
	}
	p.GamesPlayed++
	return *p, true
}

func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return false
	}
	delete(s.players, id)
	return true
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}
