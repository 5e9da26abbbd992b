// Package store defines the keyed item storage capability the rest of the
// application is built on: a single table of items addressed by a
// (partition key, sort key) pair, with conditional writes and one secondary
// index per access pattern. Two implementations exist — a DynamoDB-backed
// one and an in-memory one used by tests — and both must agree on
// conditional-write semantics.
package store

import (
	"context"
	"errors"
)

// Item is one stored record: PK, SK, an EntityType tag and entity
// attributes. Attribute values are strings, bools or string slices.
type Item map[string]interface{}

// Key addresses a single item.
type Key struct {
	PK string
	SK string
}

// Condition guards a write against the current state of the key.
type Condition int

const (
	// ConditionNone applies the write unconditionally.
	ConditionNone Condition = iota
	// ConditionNotExists fails with ErrConflict if the key already holds an
	// item (first-write-wins creation).
	ConditionNotExists
	// ConditionExists fails with ErrConflict if the key holds no item
	// (update/delete guard).
	ConditionExists
)

// Assignment sets one attribute to a new value in an Update call.
type Assignment struct {
	Attr  string
	Value interface{}
}

// ErrConflict reports a conditional write that lost: the guarded
// precondition did not hold. It is recoverable by the caller and distinct
// from not-found (a nil result) and from infrastructure failures (any other
// error).
var ErrConflict = errors.New("conditional check failed")

// Index names served by Query.
const (
	// OwnerIndex keys accounts by GSI1PK/GSI1SK for listing by owner.
	OwnerIndex = "GSI1"
	// ReferenceIndex keys expenses by their statement reference.
	ReferenceIndex = "ReferenceIndex"
)

// Store is the keyed item storage capability.
type Store interface {
	// Put writes a full item under its PK/SK attributes.
	Put(ctx context.Context, item Item, cond Condition) error

	// Get returns the item at key, or nil when absent.
	Get(ctx context.Context, key Key) (Item, error)

	// Scan returns every item matching the predicate.
	Scan(ctx context.Context, pred Predicate) ([]Item, error)

	// Query returns items matching the predicate through the named
	// secondary index. The index is a read-only projection of the same
	// item set; it is never written independently of Put/Update.
	Query(ctx context.Context, indexName string, pred Predicate) ([]Item, error)

	// Update applies the assignments to the item at key and returns the new
	// item image.
	Update(ctx context.Context, key Key, assigns []Assignment, cond Condition) (Item, error)

	// Delete removes the item at key.
	Delete(ctx context.Context, key Key, cond Condition) error
}

// ItemKey extracts the primary key from an item's PK/SK attributes.
func ItemKey(item Item) (Key, bool) {
	pk, okPK := item["PK"].(string)
	sk, okSK := item["SK"].(string)
	if !okPK || !okSK || pk == "" || sk == "" {
		return Key{}, false
	}
	return Key{PK: pk, SK: sk}, true
}
