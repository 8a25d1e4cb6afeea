package provenance

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory append-only repository for tests.

type MemoryRepo struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Append(ctx context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *MemoryRepo) ListByProfile(ctx context.Context, profileID string) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, 0)
	for _, rec := range r.records {
		if rec.ProfileID == profileID {
			out = append(out, rec)
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

// Records returns a copy of everything appended, in insertion order.
func (r *MemoryRepo) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}
