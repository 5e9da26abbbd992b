// Package memory provides an in-memory store.Store used by tests and local
// development. It mirrors the durable implementation's conditional-write
// semantics exactly; tests that pass against it must not depend on anything
// the DynamoDB store would reject.
package memory

import (
	"context"
	"fmt"
	"sync"

	"expense-tracker/internal/store"
)

// Store is an in-memory implementation of store.Store. It is safe for
// concurrent use; items are copied on the way in and out.
type Store struct {
	mu    sync.RWMutex
	items map[store.Key]store.Item
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{items: make(map[store.Key]store.Item)}
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, item store.Item, cond store.Condition) error {
	key, ok := store.ItemKey(item)
	if !ok {
		return fmt.Errorf("Put: item is missing PK/SK attributes")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.items[key]
	if cond == store.ConditionNotExists && exists {
		return fmt.Errorf("Put %s: item already exists: %w", key.PK, store.ErrConflict)
	}
	if cond == store.ConditionExists && !exists {
		return fmt.Errorf("Put %s: item does not exist: %w", key.PK, store.ErrConflict)
	}

	s.items[key] = cloneItem(item)
	return nil
}

// Get implements store.Store. It returns nil when the key holds no item.
func (s *Store) Get(ctx context.Context, key store.Key) (store.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[key]
	if !exists {
		return nil, nil
	}
	return cloneItem(item), nil
}

// Scan implements store.Store.
func (s *Store) Scan(ctx context.Context, pred store.Predicate) ([]store.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []store.Item
	for _, item := range s.items {
		if pred.Matches(item) {
			matched = append(matched, cloneItem(item))
		}
	}
	return matched, nil
}

// Query implements store.Store. The index name is ignored: items already
// carry their index attributes, so the predicate evaluates over the full
// item set exactly as the index projection would.
func (s *Store) Query(ctx context.Context, indexName string, pred store.Predicate) ([]store.Item, error) {
	return s.Scan(ctx, pred)
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, key store.Key, assigns []store.Assignment, cond store.Condition) (store.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[key]
	if cond == store.ConditionExists && !exists {
		return nil, fmt.Errorf("Update %s: item does not exist: %w", key.PK, store.ErrConflict)
	}
	if cond == store.ConditionNotExists && exists {
		return nil, fmt.Errorf("Update %s: item already exists: %w", key.PK, store.ErrConflict)
	}
	if !exists {
		item = store.Item{"PK": key.PK, "SK": key.SK}
	} else {
		item = cloneItem(item)
	}

	for _, assign := range assigns {
		item[assign.Attr] = cloneValue(assign.Value)
	}
	s.items[key] = item

	return cloneItem(item), nil
}

// Delete implements store.Store. Deleting an absent key without a
// condition is a no-op.
func (s *Store) Delete(ctx context.Context, key store.Key, cond store.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; !exists {
		if cond == store.ConditionExists {
			return fmt.Errorf("Delete %s: item does not exist: %w", key.PK, store.ErrConflict)
		}
		return nil
	}
	if cond == store.ConditionNotExists {
		return fmt.Errorf("Delete %s: item already exists: %w", key.PK, store.ErrConflict)
	}
	delete(s.items, key)
	return nil
}

// Len returns the number of stored items. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func cloneItem(item store.Item) store.Item {
	clone := make(store.Item, len(item))
	for attr, value := range item {
		clone[attr] = cloneValue(value)
	}
	return clone
}

func cloneValue(value interface{}) interface{} {
	if list, ok := value.([]string); ok {
		return append([]string(nil), list...)
	}
	return value
}

var _ store.Store = (*Store)(nil)
