package reporting

import (
	"context"
	"errors"
	"time"

	"vendor-platform/internal/access"
	"vendor-platform/internal/audit"
	"vendor-platform/internal/provenance"

	"github.com/dustin/go-humanize"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Service aggregates the three ledgers into read-side views for the API
// layer. It owns no data: everything is computed from the ledgers at read
// time, with an optional Redis cache in front of the provenance reduction.
type Service struct {
	audits *audit.Service
	access *access.Service
	provs  *provenance.Service
	cache  *Cache
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(audits *audit.Service, accessSvc *access.Service, provs *provenance.Service, cache *Cache) *Service {
	return &Service{
		audits: audits,
		access: accessSvc,
		provs:  provs,
		cache:  cache,
		clock:  time.Now,
	}
}

// AuditHistory returns the full audit trail, newest first.
func (s *Service) AuditHistory(ctx context.Context, profileID string) ([]AuditView, error) {
	if profileID == "" {
		return nil, ErrInvalidRequest
	}
	entries, err := s.audits.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	out := make([]AuditView, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditView{Entry: e, RelativeTime: relative(e.Timestamp, now)})
	}
	return out, nil
}

// AccessHistory returns the full access trail, newest first.
func (s *Service) AccessHistory(ctx context.Context, profileID string) ([]AccessView, error) {
	if profileID == "" {
		return nil, ErrInvalidRequest
	}
	entries, err := s.access.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	out := make([]AccessView, 0, len(entries))
	for _, e := range entries {
		out = append(out, AccessView{Entry: e, RelativeTime: relative(e.Timestamp, now)})
	}
	return out, nil
}

// CurrentProvenance returns the latest attribution per field. The underlying
// reduction is cached per profile; mutations invalidate via Invalidate.
func (s *Service) CurrentProvenance(ctx context.Context, profileID string) ([]ProvenanceView, error) {
	if profileID == "" {
		return nil, ErrInvalidRequest
	}

	rows, ok := s.cache.getCurrent(ctx, profileID)
	if !ok {
		var err error
		rows, err = s.provs.Current(ctx, profileID)
		if err != nil {
			return nil, err
		}
		// Best-effort: a cache write failure must not fail the read.
		s.cache.setCurrent(ctx, profileID, rows)
	}

	now := s.clock()
	out := make([]ProvenanceView, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProvenanceView{Record: r, RelativeTime: relative(r.Timestamp, now)})
	}
	return out, nil
}

// Invalidate drops cached views for a profile after a mutation.
func (s *Service) Invalidate(ctx context.Context, profileID string) {
	s.cache.invalidate(ctx, profileID)
}

func relative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
