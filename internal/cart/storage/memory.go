// Package storage provides the durable key-value slots behind cart
// snapshots. Every implementation treats a missing or unreadable payload as
// absence, never as an error: the cart must always be able to start empty.
package storage

import (
	"context"
	"sync"

	"github.com/aurelhart/storefront-backend/internal/cart"
)

// MemoryStore keeps snapshots in process memory. Used by tests and
// single-instance development setups.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]cart.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: map[string]cart.Snapshot{}}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (*cart.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[key]
	if !ok {
		return nil, nil
	}
	copied := copySnapshot(snap)
	return &copied, nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, snap cart.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[key] = copySnapshot(snap)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, key)
	return nil
}

func copySnapshot(snap cart.Snapshot) cart.Snapshot {
	items := make([]cart.LineItem, len(snap.Items))
	copy(items, snap.Items)
	return cart.Snapshot{Version: snap.Version, Items: items}
}
