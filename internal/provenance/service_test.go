package provenance

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestService_RecordValidatesInputs(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	cases := [][4]string{
		{"", "email", "Manual Entry", "Vendor Submitted"},
		{"p1", "", "Manual Entry", "Vendor Submitted"},
		{"p1", "email", "", "Vendor Submitted"},
		{"p1", "email", "Manual Entry", ""},
	}
	for _, c := range cases {
		if err := svc.Record(context.Background(), c[0], c[1], c[2], c[3]); !errors.Is(err, ErrInvalidRecord) {
			t.Fatalf("inputs %v: expected ErrInvalidRecord, got %v", c, err)
		}
	}
}

func TestService_RecordStampsEachEvent(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.Record(context.Background(), "p1", "email", "Manual Entry", "Vendor Submitted"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	recs := repo.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].ID == "" || recs[0].Timestamp.IsZero() {
		t.Fatalf("expected id and timestamp assigned")
	}
}

func TestLatest_PicksMaxTimestampPerField(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []Record{
		{ID: "r1", ProfileID: "p1", FieldName: "email", Source: "Manual Entry", Timestamp: base},
		{ID: "r2", ProfileID: "p1", FieldName: "email", Source: "Company Registry", Timestamp: base.Add(time.Hour)},
		{ID: "r3", ProfileID: "p1", FieldName: "email", Source: "Manual Update", Timestamp: base.Add(2 * time.Hour)},
		{ID: "r4", ProfileID: "p1", FieldName: "phone", Source: "Manual Entry", Timestamp: base},
	}

	out := Latest(rows)
	if len(out) != 2 {
		t.Fatalf("expected one record per field, got %d", len(out))
	}
	// Output is sorted by field name.
	if out[0].FieldName != "email" || out[0].ID != "r3" {
		t.Fatalf("expected latest email record r3, got %+v", out[0])
	}
	if out[1].FieldName != "phone" || out[1].ID != "r4" {
		t.Fatalf("expected phone record r4, got %+v", out[1])
	}
}

func TestLatest_TimestampTieBrokenByID(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []Record{
		{ID: "b", FieldName: "email", Timestamp: ts},
		{ID: "a", FieldName: "email", Timestamp: ts},
		{ID: "c", FieldName: "email", Timestamp: ts},
	}

	out := Latest(rows)
	if len(out) != 1 || out[0].ID != "c" {
		t.Fatalf("expected deterministic winner c, got %+v", out)
	}
}

func TestService_CurrentUsesRepoRows(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, src := range []string{"Manual Entry", "Company Registry", "Manual Update"} {
		rec := Record{
			ID:        string(rune('a' + i)),
			ProfileID: "p1",
			FieldName: "email",
			Source:    src,
			Method:    "Vendor Submitted",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Append(context.Background(), rec); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	out, err := svc.Current(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 1 || out[0].Source != "Manual Update" {
		t.Fatalf("expected latest email provenance, got %+v", out)
	}
}
