package access

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for access entries. Append-only.

type Repository interface {
	Append(ctx context.Context, e Entry) error
	ListByProfile(ctx context.Context, profileID string) ([]Entry, error)
}

var ErrInvalidEntry = errors.New("access: invalid entry")

type Service struct {
	repo Repository
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// Append records one access event.
func (s *Service) Append(ctx context.Context, e Entry) error {
	if s.repo == nil {
		return errors.New("access: repository not configured")
	}
	if e.ProfileID == "" || e.AccessorID == "" || e.Action == "" {
		return ErrInvalidEntry
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// ListByProfile returns all access events for a profile, newest first.
func (s *Service) ListByProfile(ctx context.Context, profileID string) ([]Entry, error) {
	if profileID == "" {
		return nil, ErrInvalidEntry
	}
	return s.repo.ListByProfile(ctx, profileID)
}
