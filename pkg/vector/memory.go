package vector

import (
	"context"
	"sort"
	"sync"
)

type memoryEntry struct {
	id  string
	vec []float32
}

// MemoryStore is an in-memory Store. Entries keep insertion order so that
// search ties resolve the same way across runs. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []memoryEntry
	index   map[string]int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[string]int)}
}

// Upsert stores a normalized copy of vec under id. Overwriting an existing id
// keeps its original position in the insertion order.
func (s *MemoryStore) Upsert(ctx context.Context, id string, vec []float32) error {
	normalized := Normalize(vec)

	s.mu.Lock()
	defer s.mu.Unlock()
	if pos, ok := s.index[id]; ok {
		s.entries[pos].vec = normalized
		return nil
	}
	s.index[id] = len(s.entries)
	s.entries = append(s.entries, memoryEntry{id: id, vec: normalized})
	return nil
}

// Search scores every stored vector against query by cosine similarity and
// returns the top k, best first.
func (s *MemoryStore) Search(ctx context.Context, query []float32, k int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 || len(s.entries) == 0 {
		return nil, nil
	}

	normalized := Normalize(query)
	results := make([]SearchResult, 0, len(s.entries))
	for _, e := range s.entries {
		results = append(results, SearchResult{ID: e.id, Score: DotProduct(normalized, e.vec)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Len returns the number of stored vectors.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
