package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/serroba/community-web/internal/community"
)

// MemoryStore is an in-memory implementation of community.Repository.
type MemoryStore struct {
	mu          sync.RWMutex
	communities map[community.Name]community.Community
}

// NewMemoryStore creates a new in-memory community store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		communities: make(map[community.Name]community.Community),
	}
}

func (m *MemoryStore) Save(_ context.Context, c *community.Community) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.communities[c.Name]; ok {
		return community.ErrAlreadyExists
	}

	m.communities[c.Name] = *c

	return nil
}

func (m *MemoryStore) GetByName(_ context.Context, name community.Name) (*community.Community, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.communities[name]
	if !ok {
		return nil, community.ErrNotFound
	}

	return &c, nil
}

func (m *MemoryStore) List(_ context.Context) ([]*community.Community, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*community.Community, 0, len(m.communities))

	for _, c := range m.communities {
		out = append(out, &c)
	}

	slices.SortFunc(out, func(a, b *community.Community) int {
		return strings.Compare(string(a.Name), string(b.Name))
	})

	return out, nil
}

// Compile-time check.
var _ community.Repository = (*MemoryStore)(nil)
