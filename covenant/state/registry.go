package state

import (
	"sync"
)

// Registry is the arena of contract-state records, one per contract address.
// Records are created lazily on first reference and live for the process
// lifetime; an optional Store rehydrates them across restarts.
type Registry struct {
	mu     sync.Mutex
	states map[string]*ContractState
	store  *Store // optional
}

// NewRegistry creates a state registry. store may be nil for a purely
// in-memory registry.
func NewRegistry(store *Store) *Registry {
	return &Registry{
		states: make(map[string]*ContractState),
		store:  store,
	}
}

// StateFor returns the state record for a contract address, creating it on
// first reference. When a store is attached, a persisted snapshot takes
// precedence over a fresh record.
func (r *Registry) StateFor(address string) (*ContractState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.states[address]; ok {
		return s, nil
	}

	if r.store != nil {
		s, err := r.store.Load(address)
		if err != nil {
			return nil, err
		}
		if s != nil {
			r.states[address] = s
			return s, nil
		}
	}

	s := New(address)
	r.states[address] = s
	return s, nil
}

// Persist snapshots the record for address when a store is attached.
// Callers must hold the record lock.
func (r *Registry) Persist(s *ContractState) error {
	if r.store == nil {
		return nil
	}
	return r.store.Persist(s)
}

// Size returns the number of live state records.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
