package profile

import (
	"context"
	"sync"

	"vendor-platform/internal/audit"
	"vendor-platform/internal/provenance"
)

// MemoryRepo is an in-memory repository for tests. It composes the ledger
// memory repos so a create/update applies the profile row and its ledger
// rows under one lock, modeling the all-or-nothing transaction the Postgres
// repository gets from the database.

type MemoryRepo struct {
	mu       sync.Mutex
	profiles map[string]Profile

	audits *audit.MemoryRepo
	provs  *provenance.MemoryRepo
}

func NewMemoryRepo(audits *audit.MemoryRepo, provs *provenance.MemoryRepo) *MemoryRepo {
	return &MemoryRepo{
		profiles: make(map[string]Profile),
		audits:   audits,
		provs:    provs,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, p Profile, audits []audit.Entry, provs []provenance.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate before applying anything so a failure leaves no partial state.
	for _, existing := range r.profiles {
		if existing.TaxID == p.TaxID {
			return ErrDuplicateTaxID
		}
	}

	r.profiles[p.ID] = p
	return r.appendLedgers(ctx, audits, provs)
}

func (r *MemoryRepo) Update(ctx context.Context, p Profile, audits []audit.Entry, provs []provenance.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.ID]; !ok {
		return ErrNotFound
	}

	r.profiles[p.ID] = p
	return r.appendLedgers(ctx, audits, provs)
}

func (r *MemoryRepo) appendLedgers(ctx context.Context, audits []audit.Entry, provs []provenance.Record) error {
	for _, e := range audits {
		if err := r.audits.Append(ctx, e); err != nil {
			return err
		}
	}
	for _, rec := range provs {
		if err := r.provs.Append(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	return p, ok, nil
}

func (r *MemoryRepo) GetByUserID(ctx context.Context, userID string) (Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if userID == "" {
		return Profile{}, false, nil
	}
	for _, p := range r.profiles {
		if p.UserID == userID {
			return p, true, nil
		}
	}
	return Profile{}, false, nil
}

func (r *MemoryRepo) GetByTaxID(ctx context.Context, taxID string) (Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.TaxID == taxID {
			return p, true, nil
		}
	}
	return Profile{}, false, nil
}

// Count reports how many profiles exist; used by uniqueness tests.
func (r *MemoryRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.profiles)
}
