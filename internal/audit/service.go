package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit entries.
//
// It MUST be append-only. No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Entry) error
	ListByProfile(ctx context.Context, profileID string) ([]Entry, error)
}

var ErrInvalidEntry = errors.New("audit: invalid entry")

// Service owns id/timestamp assignment and the immutability invariant for
// entries appended outside a profile-store transaction.
type Service struct {
	repo Repository
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// Append persists one entry. The Immutable flag is forced true regardless of
// caller input.
func (s *Service) Append(ctx context.Context, e Entry) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.ProfileID == "" || e.Action == "" {
		return ErrInvalidEntry
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.clock().UTC()
	}
	e.Immutable = true

	return s.repo.Append(ctx, e)
}

// ListByProfile returns all entries for a profile, newest first.
func (s *Service) ListByProfile(ctx context.Context, profileID string) ([]Entry, error) {
	if profileID == "" {
		return nil, ErrInvalidEntry
	}
	return s.repo.ListByProfile(ctx, profileID)
}
