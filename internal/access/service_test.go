package access

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestService_AppendValidatesInputs(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	cases := []Entry{
		{AccessorID: "u2", Action: ActionViewedProfile},
		{ProfileID: "p1", Action: ActionViewedProfile},
		{ProfileID: "p1", AccessorID: "u2"},
	}
	for _, e := range cases {
		if err := svc.Append(context.Background(), e); !errors.Is(err, ErrInvalidEntry) {
			t.Fatalf("entry %+v: expected ErrInvalidEntry, got %v", e, err)
		}
	}
}

func TestService_AppendStampsEntries(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	err := svc.Append(context.Background(), Entry{
		ProfileID:    "p1",
		AccessorID:   "u2",
		AccessorName: "Pat Buyer",
		AccessorOrg:  "Globex Procurement",
		Action:       ActionViewedProfile,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	entries := repo.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID == "" || entries[0].Timestamp.IsZero() {
		t.Fatalf("expected id and timestamp assigned")
	}
	if entries[0].AccessorOrg != "Globex Procurement" {
		t.Fatalf("expected accessor org captured")
	}
}

func TestService_ListByProfileNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	for i, action := range []string{ActionViewedProfile, ActionDownloadedData, ActionViewedProfile} {
		err := svc.Append(context.Background(), Entry{
			ProfileID:  "p1",
			AccessorID: "u2",
			Action:     action,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	entries, err := svc.ListByProfile(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if !entries[0].Timestamp.After(entries[2].Timestamp) {
		t.Fatalf("expected newest-first ordering")
	}
	if entries[1].Action != ActionDownloadedData {
		t.Fatalf("unexpected order: %+v", entries)
	}
}
