package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vendor-platform/internal/audit"
	"vendor-platform/internal/fieldcrypt"
	"vendor-platform/internal/provenance"

	"github.com/google/uuid"
)

// Service owns vendor-profile mutations and the invariants around them:
//
// - Every create/update writes its audit entries and provenance rows in the
//   same transaction as the profile row; partial states never commit.
// - Banking fields are encrypted before they reach the repository and
//   decrypted before a profile is returned to application code.
// - Updates that change nothing write nothing: no row touch, no ledger rows.
//
// The service performs no authorization; ownership checks belong to the
// caller.

var (
	ErrNotFound       = errors.New("profile: not found")
	ErrDuplicateTaxID = errors.New("profile: tax id already in use")
	ErrInvalidInput   = errors.New("profile: invalid input")
	ErrAlreadyClaimed = errors.New("profile: already claimed")
	ErrInvalidActor   = errors.New("profile: invalid actor")
)

// Repository is the persistence contract. Create and Update MUST apply the
// profile row and all ledger rows atomically.
type Repository interface {
	Create(ctx context.Context, p Profile, audits []audit.Entry, provs []provenance.Record) error
	Update(ctx context.Context, p Profile, audits []audit.Entry, provs []provenance.Record) error
	GetByID(ctx context.Context, id string) (Profile, bool, error)
	GetByUserID(ctx context.Context, userID string) (Profile, bool, error)
	GetByTaxID(ctx context.Context, taxID string) (Profile, bool, error)
}

type Service struct {
	repo  Repository
	codec *fieldcrypt.Codec
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository, codec *fieldcrypt.Codec) *Service {
	return &Service{repo: repo, codec: codec, clock: time.Now}
}

const (
	actionClaimed  = "claimed vendor profile"
	actionImported = "imported vendor profile"
)

// provenanceTag is the (source, method) attribution attached to provenance
// rows for a given actor and mutation kind.
type provenanceTag struct {
	source string
	method string
}

func tagFor(actor Actor, isCreate bool) provenanceTag {
	if !actor.IsHuman() {
		return provenanceTag{source: actor.SourceName(), method: "Government Registry Import"}
	}
	if isCreate {
		return provenanceTag{source: "Manual Entry", method: "Vendor Submitted"}
	}
	return provenanceTag{source: "Manual Update", method: "Vendor Modified"}
}

// Create persists a new profile plus one audit entry and one provenance row
// per populated data field, all in one transaction. The returned profile has
// banking fields in plaintext.
func (s *Service) Create(ctx context.Context, in CreateInput, actor Actor) (Profile, error) {
	if in.CompanyName == "" || in.TaxID == "" {
		return Profile{}, fmt.Errorf("%w: company name and tax id are required", ErrInvalidInput)
	}
	if !actor.IsHuman() && actor.SourceName() == "" {
		return Profile{}, ErrInvalidActor
	}

	now := s.clock().UTC()
	p := Profile{
		ID:                    uuid.NewString(),
		CompanyName:           in.CompanyName,
		TaxID:                 in.TaxID,
		BusinessNumber:        in.BusinessNumber,
		TaxRegistrationNumber: in.TaxRegistrationNumber,
		Address:               in.Address,
		City:                  in.City,
		Region:                in.Region,
		PostalCode:            in.PostalCode,
		CountryCode:           in.CountryCode,
		Phone:                 in.Phone,
		Email:                 in.Email,
		Website:               in.Website,
		LegalStructure:        in.LegalStructure,
		IndustryCode:          in.IndustryCode,
		IndustryDescription:   in.IndustryDescription,
		BankName:              in.BankName,
		AccountNumber:         in.AccountNumber,
		RoutingNumber:         in.RoutingNumber,
		VerificationStatus:    StatusUnverified,
		DataSource:            in.DataSource,
		Active:                true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if p.DataSource == "" {
		if actor.IsHuman() {
			p.DataSource = SourceManual
		} else {
			p.DataSource = SourceBulkImport
		}
	}
	if actor.IsHuman() {
		p.UserID = actor.id
	}

	action := actionImported
	if actor.IsHuman() {
		action = actionClaimed
	}
	actorID, actorName := actor.AuditIdentity()
	audits := []audit.Entry{{
		ID:        uuid.NewString(),
		ProfileID: p.ID,
		Action:    action,
		ActorID:   actorID,
		ActorName: actorName,
		Timestamp: now,
		Immutable: true,
	}}

	tag := tagFor(actor, true)
	var provs []provenance.Record
	for _, spec := range profileFields {
		if !spec.tracked || spec.get(&p) == "" {
			continue
		}
		provs = append(provs, provenance.Record{
			ID:        uuid.NewString(),
			ProfileID: p.ID,
			FieldName: spec.name,
			Source:    tag.source,
			Method:    tag.method,
			Timestamp: now,
		})
	}

	stored, err := s.encryptBanking(p)
	if err != nil {
		return Profile{}, err
	}
	if err := s.repo.Create(ctx, stored, audits, provs); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Update applies a partial patch. Each field whose value actually changes
// produces one audit entry and (for data fields) one provenance row; fields
// patched to their current value produce nothing. A patch with zero
// effective changes is a complete no-op.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, actor Actor) (Profile, error) {
	if in.VerificationStatus != nil && !in.VerificationStatus.Valid() {
		return Profile{}, fmt.Errorf("%w: unknown verification status %q", ErrInvalidInput, *in.VerificationStatus)
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	now := s.clock().UTC()
	updated := current
	actorID, actorName := actor.AuditIdentity()
	tag := tagFor(actor, false)

	var audits []audit.Entry
	var provs []provenance.Record

	for _, spec := range profileFields {
		newVal, present := spec.patch(in)
		if !present {
			continue
		}
		oldVal := spec.get(&current)
		if newVal == oldVal {
			continue
		}
		spec.set(&updated, newVal)

		auditOld, auditNew := oldVal, newVal
		if spec.sensitive {
			auditOld, auditNew = maskValue(oldVal), maskValue(newVal)
		}
		audits = append(audits, audit.Entry{
			ID:           uuid.NewString(),
			ProfileID:    id,
			Action:       "updated " + spec.name,
			ActorID:      actorID,
			ActorName:    actorName,
			FieldChanged: spec.name,
			OldValue:     auditOld,
			NewValue:     auditNew,
			Timestamp:    now,
			Immutable:    true,
		})
		if spec.tracked {
			provs = append(provs, provenance.Record{
				ID:        uuid.NewString(),
				ProfileID: id,
				FieldName: spec.name,
				Source:    tag.source,
				Method:    tag.method,
				Timestamp: now,
			})
		}
	}

	if len(audits) == 0 {
		return current, nil
	}

	updated.UpdatedAt = now
	stored, err := s.encryptBanking(updated)
	if err != nil {
		return Profile{}, err
	}
	if err := s.repo.Update(ctx, stored, audits, provs); err != nil {
		return Profile{}, err
	}
	return updated, nil
}

// Claim assigns an owning principal to an unclaimed profile.
func (s *Service) Claim(ctx context.Context, id string, actor Actor) (Profile, error) {
	if !actor.IsHuman() {
		return Profile{}, ErrInvalidActor
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if current.UserID != "" {
		return Profile{}, ErrAlreadyClaimed
	}

	now := s.clock().UTC()
	updated := current
	updated.UserID = actor.id
	updated.UpdatedAt = now

	audits := []audit.Entry{{
		ID:        uuid.NewString(),
		ProfileID: id,
		Action:    actionClaimed,
		ActorID:   actor.id,
		ActorName: actor.name,
		Timestamp: now,
		Immutable: true,
	}}

	stored, err := s.encryptBanking(updated)
	if err != nil {
		return Profile{}, err
	}
	if err := s.repo.Update(ctx, stored, audits, nil); err != nil {
		return Profile{}, err
	}
	return updated, nil
}

// Deactivate soft-deletes a profile. Already-inactive profiles are a no-op.
func (s *Service) Deactivate(ctx context.Context, id string, actor Actor) (Profile, error) {
	inactive := false
	return s.Update(ctx, id, UpdateInput{Active: &inactive}, actor)
}

// GetByID returns the profile with banking fields decrypted. A missing
// profile is (Profile{}, false, nil), not an error.
func (s *Service) GetByID(ctx context.Context, id string) (Profile, bool, error) {
	return s.get(func() (Profile, bool, error) { return s.repo.GetByID(ctx, id) })
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Profile, bool, error) {
	return s.get(func() (Profile, bool, error) { return s.repo.GetByUserID(ctx, userID) })
}

func (s *Service) GetByTaxID(ctx context.Context, taxID string) (Profile, bool, error) {
	return s.get(func() (Profile, bool, error) { return s.repo.GetByTaxID(ctx, taxID) })
}

func (s *Service) get(fetch func() (Profile, bool, error)) (Profile, bool, error) {
	stored, ok, err := fetch()
	if err != nil || !ok {
		return Profile{}, ok, err
	}
	p, err := s.decryptBanking(stored)
	if err != nil {
		return Profile{}, false, err
	}
	return p, true, nil
}

// load fetches and decrypts, mapping absence to ErrNotFound (mutation paths
// treat a missing profile as a hard failure, unlike the getters).
func (s *Service) load(ctx context.Context, id string) (Profile, error) {
	p, ok, err := s.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) encryptBanking(p Profile) (Profile, error) {
	var err error
	if p.AccountNumber, err = s.codec.Encrypt(p.AccountNumber); err != nil {
		return Profile{}, err
	}
	if p.RoutingNumber, err = s.codec.Encrypt(p.RoutingNumber); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) decryptBanking(p Profile) (Profile, error) {
	var err error
	if p.AccountNumber, err = s.codec.Decrypt(p.AccountNumber); err != nil {
		return Profile{}, err
	}
	if p.RoutingNumber, err = s.codec.Decrypt(p.RoutingNumber); err != nil {
		return Profile{}, err
	}
	return p, nil
}
