// Package kvstore is a small record store: named collections of JSON values keyed by
// string, plus a per-collection sequence counter.
package kvstore

import (
	"context"
	"errors"
	"sort"
	"strconv"
)

// ErrNotFound is returned by Get when the key does not exist
var ErrNotFound = errors.New("kvstore: record not found")

// IterateFunc receives each record's key and raw JSON value. Returning an error stops
// the iteration and is passed back to the caller.
type IterateFunc func(key string, value []byte) error

// Store is implemented by every backend
type Store interface {
	// Get decodes the record into dest
	Get(ctx context.Context, collection, key string, dest interface{}) error
	// Set JSON-encodes value and upserts it
	Set(ctx context.Context, collection, key string, value interface{}) error
	// Iterate visits every record of a collection in key order
	Iterate(ctx context.Context, collection string, fn IterateFunc) error
	// NextSequence atomically increments and returns the collection counter (first value 1)
	NextSequence(ctx context.Context, collection string) (int64, error)
	Close() error
}

// sortKeys orders keys numerically when both are integers, lexically otherwise
func sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		return keyLess(keys[i], keys[j])
	})
}

func keyLess(a, b string) bool {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return ai < bi
	}
	if errA == nil {
		return true
	}
	if errB == nil {
		return false
	}
	return a < b
}
