package access

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory append-only repository for tests.

type MemoryRepo struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Append(ctx context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *MemoryRepo) ListByProfile(ctx context.Context, profileID string) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0)
	for _, e := range r.entries {
		if e.ProfileID == profileID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Entries returns a copy of everything appended, in insertion order.
func (r *MemoryRepo) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
