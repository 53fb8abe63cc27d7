package catalog

import (
	"context"
	"slices"
	"sync"
)

// Store is a collection of documents of type T.
//
// T must marshal to a JSON object; its JSON field names are what queries
// refer to. Types stored in MongoDB carry matching bson tags.
type Store[T any] interface {
	Insert(ctx context.Context, docs ...T) error
	Find(ctx context.Context, q Query) ([]T, error)
	Delete(ctx context.Context, q Query) (int, error)
	All(ctx context.Context) ([]T, error)
	Close(ctx context.Context) error
}

// MemoryStore keeps documents in memory, in insertion order.
type MemoryStore[T any] struct {
	mu   sync.RWMutex
	docs []T
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{}
}

// Insert appends docs.
func (s *MemoryStore[T]) Insert(ctx context.Context, docs ...T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, docs...)
	return nil
}

// Find returns the documents matching q in insertion order.
func (s *MemoryStore[T]) Find(ctx context.Context, q Query) ([]T, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []T{}
	for _, d := range s.docs {
		ok, err := matches(q, d)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// Delete removes the documents matching q and returns how many were removed.
func (s *MemoryStore[T]) Delete(ctx context.Context, q Query) (int, error) {
	if err := q.validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	hit := make([]bool, len(s.docs))
	for i, d := range s.docs {
		ok, err := matches(q, d)
		if err != nil {
			return 0, err
		}
		hit[i] = ok
	}

	kept := s.docs[:0]
	removed := 0
	for i, d := range s.docs {
		if hit[i] {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	clear(s.docs[len(kept):])
	s.docs = kept
	return removed, nil
}

// All returns a copy of every document.
func (s *MemoryStore[T]) All(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.docs), nil
}

// Close does nothing.
func (s *MemoryStore[T]) Close(ctx context.Context) error { return nil }

func matches(q Query, d any) (bool, error) {
	doc, err := toDoc(d)
	if err != nil {
		return false, err
	}
	return q.Match(doc), nil
}

var _ Store[struct{}] = (*MemoryStore[struct{}])(nil)
