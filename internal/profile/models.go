package profile

import "time"

// Profile is one verified vendor record shared across consumers.
//
// Invariants:
// - TaxID is unique across all profiles.
// - AccountNumber and RoutingNumber are encrypted at rest; the service layer
//   decrypts them on the way out and application code never sees ciphertext.
// - Profiles are never hard-deleted; Active=false marks retirement so ledger
//   rows keep a valid parent.
//
// UserID is the owning principal and is empty for unclaimed profiles
// (bulk-imported rows have no owner until claimed).

type Profile struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id,omitempty" db:"user_id"`

	CompanyName           string `json:"company_name" db:"company_name"`
	TaxID                 string `json:"tax_id" db:"tax_id"`
	BusinessNumber        string `json:"business_number,omitempty" db:"business_number"`
	TaxRegistrationNumber string `json:"tax_registration_number,omitempty" db:"tax_registration_number"`

	Address     string `json:"address,omitempty" db:"address"`
	City        string `json:"city,omitempty" db:"city"`
	Region      string `json:"region,omitempty" db:"region"`
	PostalCode  string `json:"postal_code,omitempty" db:"postal_code"`
	CountryCode string `json:"country_code,omitempty" db:"country_code"`

	Phone   string `json:"phone,omitempty" db:"phone"`
	Email   string `json:"email,omitempty" db:"email"`
	Website string `json:"website,omitempty" db:"website"`

	LegalStructure      string `json:"legal_structure,omitempty" db:"legal_structure"`
	IndustryCode        string `json:"industry_code,omitempty" db:"industry_code"`
	IndustryDescription string `json:"industry_description,omitempty" db:"industry_description"`

	BankName      string `json:"bank_name,omitempty" db:"bank_name"`
	AccountNumber string `json:"account_number,omitempty" db:"account_number"`
	RoutingNumber string `json:"routing_number,omitempty" db:"routing_number"`

	VerificationStatus VerificationStatus `json:"verification_status" db:"verification_status"`
	DataSource         DataSource         `json:"data_source" db:"data_source"`
	Active             bool               `json:"active" db:"active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type VerificationStatus string

const (
	StatusUnverified VerificationStatus = "unverified"
	StatusPending    VerificationStatus = "pending"
	StatusVerified   VerificationStatus = "verified"
)

// Valid reports membership in the enumeration. The store enforces no
// transition rules; status lifecycle is owned by the external verification
// workflow.
func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusUnverified, StatusPending, StatusVerified:
		return true
	default:
		return false
	}
}

type DataSource string

const (
	SourceManual             DataSource = "manual"
	SourceGovernmentRegistry DataSource = "government-registry"
	SourceBulkImport         DataSource = "bulk-import"
)

// Actor is a tagged variant: either a human principal or an unattended
// system importer. No sentinel actor-id strings exist; system actors carry
// only their source name.
type Actor struct {
	human  bool
	id     string
	name   string
	source string
}

func HumanActor(id, name string) Actor {
	return Actor{human: true, id: id, name: name}
}

func SystemActor(source string) Actor {
	return Actor{source: source}
}

func (a Actor) IsHuman() bool { return a.human }

// AuditIdentity returns the (actor id, display name) pair recorded on audit
// entries. System actors have no id; their source name doubles as the
// display name.
func (a Actor) AuditIdentity() (id, name string) {
	if a.human {
		return a.id, a.name
	}
	return "", a.source
}

// SourceName is the registry name for system actors, empty for humans.
func (a Actor) SourceName() string { return a.source }
