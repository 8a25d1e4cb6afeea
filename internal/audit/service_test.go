package audit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestService_AppendRequiresProfileAndAction(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if err := svc.Append(context.Background(), Entry{Action: "updated phone"}); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
	if err := svc.Append(context.Background(), Entry{ProfileID: "p1"}); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestService_AppendForcesImmutable(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	err := svc.Append(context.Background(), Entry{
		ProfileID: "p1",
		Action:    "claimed vendor profile",
		ActorID:   "u1",
		ActorName: "Dana Vendor",
		Immutable: false,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	entries := repo.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].Immutable {
		t.Fatalf("expected immutable flag forced true")
	}
	if entries[0].ID == "" || entries[0].Timestamp.IsZero() {
		t.Fatalf("expected id and timestamp assigned")
	}
}

func TestService_ListByProfileNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, action := range []string{"first", "second", "third"} {
		err := svc.Append(context.Background(), Entry{
			ProfileID: "p1",
			Action:    action,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}
	// A different profile must not leak in.
	if err := svc.Append(context.Background(), Entry{ProfileID: "p2", Action: "other"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	entries, err := svc.ListByProfile(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"third", "second", "first"} {
		if entries[i].Action != want {
			t.Fatalf("position %d: got %q want %q", i, entries[i].Action, want)
		}
	}
}

func TestRepositoryExposesNoMutationSurface(t *testing.T) {
	// Compile-time statement of the append-only contract: Repository has
	// exactly Append and ListByProfile.
	var _ Repository = NewMemoryRepo()
}
