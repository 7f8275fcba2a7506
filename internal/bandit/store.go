package bandit

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// ArmStats accumulates outcomes for one discount arm of one supplier.
type ArmStats struct {
	Tries         int     `json:"tries"`
	TotalReceived float64 `json:"total_received"`
	Successes     int     `json:"successes"`
}

// Store persists per-supplier arm statistics. Reads after a write within a
// process must reflect the write.
type Store interface {
	// LoadArms returns the arm statistics for a supplier, or an empty map
	// if the supplier has never been seen.
	LoadArms(supplierID string) (map[string]ArmStats, error)

	// SaveArms replaces the arm statistics for a supplier.
	SaveArms(supplierID string, arms map[string]ArmStats) error

	// Suppliers lists every supplier with recorded statistics.
	Suppliers() ([]string, error)

	// Close releases the backing resources.
	Close() error
}

// MemoryStore keeps arm statistics in memory. Useful for tests and for
// callers that do not need durability.
type MemoryStore struct {
	mu   sync.RWMutex
	arms map[string]map[string]ArmStats
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{arms: make(map[string]map[string]ArmStats)}
}

func (s *MemoryStore) LoadArms(supplierID string) (map[string]ArmStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]ArmStats, len(s.arms[supplierID]))
	for k, v := range s.arms[supplierID] {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) SaveArms(supplierID string, arms map[string]ArmStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[string]ArmStats, len(arms))
	for k, v := range arms {
		cp[k] = v
	}
	s.arms[supplierID] = cp
	return nil
}

func (s *MemoryStore) Suppliers() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.arms))
	for id := range s.arms {
		out = append(out, id)
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

const badgerArmPrefix = "bandit/arms/"

// BadgerStore persists arm statistics in a BadgerDB at the given path.
// New supplier ids need no migration: each supplier is one keyed record.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) the store at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open bandit store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) LoadArms(supplierID string) (map[string]ArmStats, error) {
	arms := make(map[string]ArmStats)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerArmPrefix + supplierID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &arms)
		})
	})
	if err == badger.ErrKeyNotFound {
		return arms, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load arms for %s: %w", supplierID, err)
	}
	return arms, nil
}

func (s *BadgerStore) SaveArms(supplierID string, arms map[string]ArmStats) error {
	data, err := json.Marshal(arms)
	if err != nil {
		return fmt.Errorf("marshal arms for %s: %w", supplierID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerArmPrefix+supplierID), data)
	})
}

func (s *BadgerStore) Suppliers() ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(badgerArmPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, badgerArmPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return ids, nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }
