package exposed

import "sync"

// stateStore holds runtime property values keyed by name. Last write wins;
// there is no history and no cross-operation locking.
type stateStore struct {
	mu     sync.RWMutex
	values map[string]any
}

func newStateStore() *stateStore {
	return &stateStore{values: make(map[string]any)}
}

// Get returns the stored value, nil when never set.
func (s *stateStore) Get(name string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[name]
}

// Set stores a value, replacing any previous one.
func (s *stateStore) Set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}

// Delete removes a stored value.
func (s *stateStore) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, name)
}
