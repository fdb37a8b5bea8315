package store

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/ajoprotocol/libajo-go/ajo"
)

var (
	bucketGroups   = []byte("groups")
	bucketRegistry = []byte("registry")
)

var registryKey = []byte("registry")

// BoltStore persists protocol accounts in a bbolt database. Each account
// is stored in its binary format under its group name; the registry sits
// alone in its own bucket.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketGroups, bucketRegistry} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// InitRegistry creates the registry account.
func (s *BoltStore) InitRegistry(r *ajo.GlobalRegistry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRegistry)
		if b.Get(registryKey) != nil {
			return ErrAlreadyInitialized
		}
		return b.Put(registryKey, ajo.SerializeRegistry(r))
	})
}

// Registry loads the registry account.
func (s *BoltStore) Registry() (*ajo.GlobalRegistry, error) {
	var r *ajo.GlobalRegistry
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRegistry).Get(registryKey)
		if data == nil {
			return ErrNotInitialized
		}
		var err error
		r, err = ajo.DeserializeRegistry(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// PutRegistry overwrites the registry account.
func (s *BoltStore) PutRegistry(r *ajo.GlobalRegistry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRegistry)
		if b.Get(registryKey) == nil {
			return ErrNotInitialized
		}
		return b.Put(registryKey, ajo.SerializeRegistry(r))
	})
}

// CreateGroup persists a new group under its name.
func (s *BoltStore) CreateGroup(g *ajo.Group) error {
	data, err := ajo.SerializeGroup(g)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketGroups)
		if b.Get([]byte(g.Name)) != nil {
			return ErrGroupExists
		}
		return b.Put([]byte(g.Name), data)
	})
}

// Group loads a group by name.
func (s *BoltStore) Group(name string) (*ajo.Group, error) {
	var g *ajo.Group
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketGroups).Get([]byte(name))
		if data == nil {
			return ErrGroupNotFound
		}
		var err error
		g, err = ajo.DeserializeGroup(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// PutGroup overwrites an existing group.
func (s *BoltStore) PutGroup(g *ajo.Group) error {
	data, err := ajo.SerializeGroup(g)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketGroups)
		if b.Get([]byte(g.Name)) == nil {
			return ErrGroupNotFound
		}
		return b.Put([]byte(g.Name), data)
	})
}
