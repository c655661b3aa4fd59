package services

import (
	"sort"
	"sync"

	"github.com/sophialabs/vhttp/internal/domain/scenario"
)

// ScenarioStore holds compiled scenarios by name. The first scenario added
// under a name is kept until Reset.
type ScenarioStore struct {
	mu      sync.RWMutex
	entries map[string]*scenario.Compiled
}

// NewScenarioStore creates an empty store.
func NewScenarioStore() *ScenarioStore {
	return &ScenarioStore{
		entries: make(map[string]*scenario.Compiled),
	}
}

// Add stores c unless its name is already present. It reports whether c was stored.
func (s *ScenarioStore) Add(c *scenario.Compiled) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[c.Name]; ok {
		return false
	}
	s.entries[c.Name] = c
	return true
}

// Has reports whether a scenario named name is stored.
func (s *ScenarioStore) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[name]
	return ok
}

// Lookup returns the compiled scenario for name.
func (s *ScenarioStore) Lookup(name string) (*scenario.Compiled, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.entries[name]
	return c, ok
}

// Keys returns all scenario names, sorted.
func (s *ScenarioStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored scenarios.
func (s *ScenarioStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Reset removes every scenario.
func (s *ScenarioStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*scenario.Compiled)
}
