package gorevalidate

import (
	"context"
	"sync"
)

// InvalidationRegistry tracks store keys an external caller has flagged as
// no-longer-trustworthy. A mark is transient: the first read that consumes
// it sees the key as having no validator, and the mark is gone for every
// later read. Marks made concurrently with reads are never silently lost;
// a racing read either observes the mark or leaves it for the next one.
type InvalidationRegistry struct {
	mu      sync.Mutex
	pending map[StoreKey]struct{}
}

func NewInvalidationRegistry() *InvalidationRegistry {
	return &InvalidationRegistry{
		pending: make(map[StoreKey]struct{}),
	}
}

// MarkForInvalidation adds the given keys to the pending set.
func (r *InvalidationRegistry) MarkForInvalidation(keys ...StoreKey) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		r.pending[k] = struct{}{}
	}
}

// MarkKeysByPart resolves a partial-URI invalidation request: every stored
// key containing part is marked. The store scan is lazy, so large backing
// stores are never pulled into memory at once.
func (r *InvalidationRegistry) MarkKeysByPart(ctx context.Context, store Store, part string, ignoreCase bool) error {
	for key, err := range store.KeysByPart(ctx, part, ignoreCase) {
		if err != nil {
			return err
		}
		r.MarkForInvalidation(key)
	}
	return nil
}

// Consume reports whether k was marked, removing the mark if so.
func (r *InvalidationRegistry) Consume(k StoreKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pending[k]; ok {
		delete(r.pending, k)
		return true
	}
	return false
}

// KeysMarkedForInvalidation returns a snapshot of the pending set.
func (r *InvalidationRegistry) KeysMarkedForInvalidation() []StoreKey {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]StoreKey, 0, len(r.pending))
	for k := range r.pending {
		keys = append(keys, k)
	}
	return keys
}
