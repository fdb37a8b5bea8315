// Package store persists Ajo protocol accounts: one GlobalRegistry and
// one Group per name. Loads return independent copies, so an aborted
// operation never leaks partial mutations into persisted state.
package store

import (
	"sync"

	"github.com/ajoprotocol/libajo-go/ajo"
)

// Store persists protocol accounts keyed by group name.
type Store interface {
	// InitRegistry creates the registry. Fails with ErrAlreadyInitialized
	// if one exists.
	InitRegistry(r *ajo.GlobalRegistry) error

	// Registry loads the registry, failing with ErrNotInitialized if
	// InitRegistry has not run.
	Registry() (*ajo.GlobalRegistry, error)

	// PutRegistry overwrites the registry state.
	PutRegistry(r *ajo.GlobalRegistry) error

	// CreateGroup persists a new group, failing with ErrGroupExists if
	// the name is taken.
	CreateGroup(g *ajo.Group) error

	// Group loads a group by name, failing with ErrGroupNotFound.
	Group(name string) (*ajo.Group, error)

	// PutGroup overwrites an existing group, failing with
	// ErrGroupNotFound if it was never created.
	PutGroup(g *ajo.Group) error
}

// MemStore is an in-memory Store for tests and ephemeral deployments.
// Accounts are kept in their serialized form, so every load goes through
// the same codec as durable storage.
type MemStore struct {
	mu       sync.RWMutex
	registry []byte
	groups   map[string][]byte
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{groups: make(map[string][]byte)}
}

// InitRegistry creates the registry account.
func (s *MemStore) InitRegistry(r *ajo.GlobalRegistry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry != nil {
		return ErrAlreadyInitialized
	}
	s.registry = ajo.SerializeRegistry(r)
	return nil
}

// Registry loads the registry account.
func (s *MemStore) Registry() (*ajo.GlobalRegistry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.registry == nil {
		return nil, ErrNotInitialized
	}
	return ajo.DeserializeRegistry(s.registry)
}

// PutRegistry overwrites the registry account.
func (s *MemStore) PutRegistry(r *ajo.GlobalRegistry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry == nil {
		return ErrNotInitialized
	}
	s.registry = ajo.SerializeRegistry(r)
	return nil
}

// CreateGroup persists a new group.
func (s *MemStore) CreateGroup(g *ajo.Group) error {
	data, err := ajo.SerializeGroup(g)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.groups[g.Name]; exists {
		return ErrGroupExists
	}
	s.groups[g.Name] = data
	return nil
}

// Group loads a group by name.
func (s *MemStore) Group(name string) (*ajo.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.groups[name]
	if !ok {
		return nil, ErrGroupNotFound
	}
	return ajo.DeserializeGroup(data)
}

// PutGroup overwrites an existing group.
func (s *MemStore) PutGroup(g *ajo.Group) error {
	data, err := ajo.SerializeGroup(g)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.groups[g.Name]; !exists {
		return ErrGroupNotFound
	}
	s.groups[g.Name] = data
	return nil
}
