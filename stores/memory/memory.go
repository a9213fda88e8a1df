// Package memory provides the default in-process validator store.
package memory

import (
	"context"
	"iter"
	"sync"

	gorevalidate "github.com/validstore/go-revalidate"
)

// Store is a concurrent in-memory validator store. It is the default
// backing and carries no persistence; every record lives for the life of
// the process.
type Store struct {
	values map[gorevalidate.StoreKey]*gorevalidate.ValidatorValue

	lock sync.RWMutex
}

func New() *Store {
	return &Store{
		values: make(map[gorevalidate.StoreKey]*gorevalidate.ValidatorValue),
	}
}

func (s *Store) Get(_ context.Context, key gorevalidate.StoreKey) (*gorevalidate.ValidatorValue, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	val, found := s.values[key]
	if !found {
		return nil, gorevalidate.ErrNotFound
	}

	return val, nil
}

func (s *Store) Set(_ context.Context, key gorevalidate.StoreKey, value *gorevalidate.ValidatorValue) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.values[key] = value

	return nil
}

func (s *Store) Delete(_ context.Context, key gorevalidate.StoreKey) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.values, key)

	return nil
}

// KeysByPart yields the stored keys containing part. Each range takes a
// snapshot of the key set under the read lock and filters lazily, so a
// concurrent Set neither blocks nor corrupts an in-progress scan; the
// sequence restarts from a fresh snapshot every time it is ranged.
func (s *Store) KeysByPart(ctx context.Context, part string, ignoreCase bool) iter.Seq2[gorevalidate.StoreKey, error] {
	return func(yield func(gorevalidate.StoreKey, error) bool) {
		s.lock.RLock()
		keys := make([]gorevalidate.StoreKey, 0, len(s.values))
		for k := range s.values {
			keys = append(keys, k)
		}
		s.lock.RUnlock()

		for _, k := range keys {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !k.Contains(part, ignoreCase) {
				continue
			}
			if !yield(k, nil) {
				return
			}
		}
	}
}
