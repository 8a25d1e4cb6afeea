package reporting

import (
	"context"
	"testing"
	"time"

	"vendor-platform/internal/access"
	"vendor-platform/internal/audit"
	"vendor-platform/internal/provenance"
)

func newFacade(t *testing.T) (*Service, *audit.MemoryRepo, *access.MemoryRepo, *provenance.MemoryRepo) {
	t.Helper()
	audits := audit.NewMemoryRepo()
	accessRepo := access.NewMemoryRepo()
	provs := provenance.NewMemoryRepo()

	svc := NewService(
		audit.NewService(audits),
		access.NewService(accessRepo),
		provenance.NewService(provs),
		nil, // no cache in unit tests; nil Cache is a permanent miss
	)
	return svc, audits, accessRepo, provs
}

func TestAuditHistory_RelativeRendering(t *testing.T) {
	svc, audits, _, _ := newFacade(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return now }

	err := audits.Append(context.Background(), audit.Entry{
		ID:        "a1",
		ProfileID: "p1",
		Action:    "claimed vendor profile",
		Timestamp: now.Add(-72 * time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	views, err := svc.AuditHistory(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if views[0].RelativeTime != "3 days ago" {
		t.Fatalf("expected relative rendering, got %q", views[0].RelativeTime)
	}
	// The machine timestamp is carried alongside, not replaced.
	if !views[0].Timestamp.Equal(now.Add(-72 * time.Hour)) {
		t.Fatalf("machine timestamp missing: %+v", views[0])
	}
}

func TestAccessHistory_PassesThroughNewestFirst(t *testing.T) {
	svc, _, accessRepo, _ := newFacade(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := accessRepo.Append(context.Background(), access.Entry{
			ID:         string(rune('a' + i)),
			ProfileID:  "p1",
			AccessorID: "u2",
			Action:     access.ActionViewedProfile,
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	views, err := svc.AccessHistory(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}
	if views[0].ID != "c" || views[2].ID != "a" {
		t.Fatalf("expected newest-first order, got %+v", views)
	}
}

func TestCurrentProvenance_ReducesPerField(t *testing.T) {
	svc, _, _, provs := newFacade(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rows := []provenance.Record{
		{ID: "r1", ProfileID: "p1", FieldName: "email", Source: "Manual Entry", Timestamp: base},
		{ID: "r2", ProfileID: "p1", FieldName: "email", Source: "Manual Update", Timestamp: base.Add(time.Hour)},
		{ID: "r3", ProfileID: "p1", FieldName: "phone", Source: "Manual Entry", Timestamp: base},
	}
	for _, r := range rows {
		if err := provs.Append(context.Background(), r); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	views, err := svc.CurrentProvenance(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected one view per field, got %d", len(views))
	}
	if views[0].FieldName != "email" || views[0].Source != "Manual Update" {
		t.Fatalf("expected latest email attribution, got %+v", views[0])
	}
}

func TestFacade_RejectsEmptyProfileID(t *testing.T) {
	svc, _, _, _ := newFacade(t)

	if _, err := svc.AuditHistory(context.Background(), ""); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := svc.AccessHistory(context.Background(), ""); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := svc.CurrentProvenance(context.Background(), ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestInvalidate_NilCacheIsSafe(t *testing.T) {
	svc, _, _, _ := newFacade(t)
	svc.Invalidate(context.Background(), "p1")
}
