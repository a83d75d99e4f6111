package store

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/feral-file/ray-indexer/internal/adapter"
	"github.com/feral-file/ray-indexer/internal/store/schema"
)

// memoryState is shared by a memory store and the transactional views created from it
type memoryState struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	entities map[schema.EntityKind]map[string][]byte
	kv       map[string]string
}

type memoryStore struct {
	state *memoryState
	json  adapter.JSON
	inTx  bool
}

// NewMemoryStore creates an in-process store. Entities are held encoded so that
// callers never share memory with stored values.
func NewMemoryStore(jsonAdapter adapter.JSON) Store {
	return &memoryStore{
		state: &memoryState{
			entities: make(map[schema.EntityKind]map[string][]byte),
			kv:       make(map[string]string),
		},
		json: jsonAdapter,
	}
}

// Load retrieves an entity by id
func (s *memoryStore) Load(_ context.Context, id string, dest schema.Entity) (bool, error) {
	s.state.mu.RLock()
	data, ok := s.state.entities[dest.Kind()][id]
	s.state.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if err := s.json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s %s: %w", dest.Kind(), id, err)
	}

	return true, nil
}

// Save upserts an entity by id
func (s *memoryStore) Save(_ context.Context, entity schema.Entity) error {
	if entity.EntityID() == "" {
		return fmt.Errorf("failed to save %s: empty id", entity.Kind())
	}

	data, err := s.json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", entity.Kind(), entity.EntityID(), err)
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	kind := entity.Kind()
	if s.state.entities[kind] == nil {
		s.state.entities[kind] = make(map[string][]byte)
	}
	s.state.entities[kind][entity.EntityID()] = data

	return nil
}

// Count returns the number of stored entities of a kind
func (s *memoryStore) Count(_ context.Context, kind schema.EntityKind) (int64, error) {
	if _, err := schema.NewEntity(kind); err != nil {
		return 0, err
	}

	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	return int64(len(s.state.entities[kind])), nil
}

// WithTx serializes transactions and restores a snapshot when fn fails.
// Nested calls join the outer transaction.
func (s *memoryStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.state.txMu.Lock()
	defer s.state.txMu.Unlock()

	entities, kv := s.snapshot()

	tx := &memoryStore{state: s.state, json: s.json, inTx: true}
	err := fn(tx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.restore(entities, kv)
		return err
	}

	return nil
}

func (s *memoryStore) snapshot() (map[schema.EntityKind]map[string][]byte, map[string]string) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	entities := make(map[schema.EntityKind]map[string][]byte, len(s.state.entities))
	for kind, rows := range s.state.entities {
		entities[kind] = maps.Clone(rows)
	}

	return entities, maps.Clone(s.state.kv)
}

func (s *memoryStore) restore(entities map[schema.EntityKind]map[string][]byte, kv map[string]string) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	s.state.entities = entities
	s.state.kv = kv
}

// SetKeyValue sets a key-value pair
func (s *memoryStore) SetKeyValue(_ context.Context, key string, value string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	s.state.kv[key] = value
	return nil
}

// GetKeyValue retrieves a value by key
func (s *memoryStore) GetKeyValue(_ context.Context, key string) (string, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	return s.state.kv[key], nil
}
