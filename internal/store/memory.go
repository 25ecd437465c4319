package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Store backed by a map. Documents are held as
// marshaled JSON so callers never share memory with the store — a retrieved
// document can be mutated freely without touching the stored copy.
type Memory[T any] struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{docs: make(map[string][]byte)}
}

func (m *Memory[T]) Put(ctx context.Context, id string, doc T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", id, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = b
	return nil
}

func (m *Memory[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var doc T
	if err := ctx.Err(); err != nil {
		return doc, false, err
	}
	m.mu.RLock()
	b, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return doc, false, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, false, fmt.Errorf("unmarshal document %s: %w", id, err)
	}
	return doc, true, nil
}

func (m *Memory[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *Memory[T]) Scan(ctx context.Context, pred func(T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	snapshot := make([][]byte, 0, len(m.docs))
	for _, b := range m.docs {
		snapshot = append(snapshot, b)
	}
	m.mu.RUnlock()

	out := make([]T, 0, len(snapshot))
	for _, b := range snapshot {
		var doc T
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal during scan: %w", err)
		}
		if pred == nil || pred(doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}
