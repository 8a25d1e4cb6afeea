package provenance

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for provenance records.
// Append-only; existing records are never updated.

type Repository interface {
	Append(ctx context.Context, r Record) error
	ListByProfile(ctx context.Context, profileID string) ([]Record, error)
}

var ErrInvalidRecord = errors.New("provenance: invalid record")

type Service struct {
	repo Repository
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// Record appends one attribution event, timestamped by the ledger.
func (s *Service) Record(ctx context.Context, profileID, fieldName, source, method string) error {
	if s.repo == nil {
		return errors.New("provenance: repository not configured")
	}
	if profileID == "" || fieldName == "" || source == "" || method == "" {
		return ErrInvalidRecord
	}
	return s.repo.Append(ctx, Record{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		FieldName: fieldName,
		Source:    source,
		Method:    method,
		Timestamp: s.clock().UTC(),
	})
}

// ListByProfile returns every attribution event for a profile, newest first.
func (s *Service) ListByProfile(ctx context.Context, profileID string) ([]Record, error) {
	if profileID == "" {
		return nil, ErrInvalidRecord
	}
	return s.repo.ListByProfile(ctx, profileID)
}

// Current returns one record per distinct field name: the latest attribution
// for that field, ordered by field name.
func (s *Service) Current(ctx context.Context, profileID string) ([]Record, error) {
	rows, err := s.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return Latest(rows), nil
}

// Latest reduces attribution events to the current provenance per field:
// group by field name, pick max timestamp, break timestamp ties by id so the
// result is deterministic. Kept as an explicit in-memory reduction rather
// than a window-function query so it works over any Repository.
func Latest(rows []Record) []Record {
	byField := make(map[string]Record, len(rows))
	for _, r := range rows {
		cur, ok := byField[r.FieldName]
		if !ok || newer(r, cur) {
			byField[r.FieldName] = r
		}
	}

	out := make([]Record, 0, len(byField))
	for _, r := range byField {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FieldName < out[j].FieldName })
	return out
}

func newer(a, b Record) bool {
	if a.Timestamp.Equal(b.Timestamp) {
		return a.ID > b.ID
	}
	return a.Timestamp.After(b.Timestamp)
}
