package profile

import "strconv"

// CreateInput carries the caller-supplied values for a new profile.
// DataSource is optional; when empty it defaults from the actor kind.
type CreateInput struct {
	CompanyName           string `json:"company_name"`
	TaxID                 string `json:"tax_id"`
	BusinessNumber        string `json:"business_number,omitempty"`
	TaxRegistrationNumber string `json:"tax_registration_number,omitempty"`

	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	Region      string `json:"region,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	CountryCode string `json:"country_code,omitempty"`

	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`

	LegalStructure      string `json:"legal_structure,omitempty"`
	IndustryCode        string `json:"industry_code,omitempty"`
	IndustryDescription string `json:"industry_description,omitempty"`

	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`

	DataSource DataSource `json:"data_source,omitempty"`
}

// UpdateInput is a partial patch: nil pointers mean "leave unchanged".
type UpdateInput struct {
	CompanyName           *string `json:"company_name,omitempty"`
	BusinessNumber        *string `json:"business_number,omitempty"`
	TaxRegistrationNumber *string `json:"tax_registration_number,omitempty"`

	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	Region      *string `json:"region,omitempty"`
	PostalCode  *string `json:"postal_code,omitempty"`
	CountryCode *string `json:"country_code,omitempty"`

	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Website *string `json:"website,omitempty"`

	LegalStructure      *string `json:"legal_structure,omitempty"`
	IndustryCode        *string `json:"industry_code,omitempty"`
	IndustryDescription *string `json:"industry_description,omitempty"`

	BankName      *string `json:"bank_name,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
	RoutingNumber *string `json:"routing_number,omitempty"`

	VerificationStatus *VerificationStatus `json:"verification_status,omitempty"`
	Active             *bool               `json:"active,omitempty"`
}

// fieldSpec describes one mutable profile field: its public name (used in
// audit actions, fieldChanged and provenance rows), accessors, and whether
// it is encrypted at rest / tracked by the provenance ledger.
type fieldSpec struct {
	name      string
	sensitive bool // encrypted at rest, masked in audit values
	tracked   bool // participates in provenance (data fields, not status)
	get       func(p *Profile) string
	set       func(p *Profile, v string)
	patch     func(in UpdateInput) (string, bool)
}

func strField(name string, tracked bool, get func(p *Profile) *string, patch func(in UpdateInput) *string) fieldSpec {
	return fieldSpec{
		name:    name,
		tracked: tracked,
		get:     func(p *Profile) string { return *get(p) },
		set:     func(p *Profile, v string) { *get(p) = v },
		patch: func(in UpdateInput) (string, bool) {
			if v := patch(in); v != nil {
				return *v, true
			}
			return "", false
		},
	}
}

var profileFields = buildFieldSpecs()

func buildFieldSpecs() []fieldSpec {
	specs := []fieldSpec{
		strField("companyName", true, func(p *Profile) *string { return &p.CompanyName }, func(in UpdateInput) *string { return in.CompanyName }),
		strField("businessNumber", true, func(p *Profile) *string { return &p.BusinessNumber }, func(in UpdateInput) *string { return in.BusinessNumber }),
		strField("taxRegistrationNumber", true, func(p *Profile) *string { return &p.TaxRegistrationNumber }, func(in UpdateInput) *string { return in.TaxRegistrationNumber }),
		strField("address", true, func(p *Profile) *string { return &p.Address }, func(in UpdateInput) *string { return in.Address }),
		strField("city", true, func(p *Profile) *string { return &p.City }, func(in UpdateInput) *string { return in.City }),
		strField("region", true, func(p *Profile) *string { return &p.Region }, func(in UpdateInput) *string { return in.Region }),
		strField("postalCode", true, func(p *Profile) *string { return &p.PostalCode }, func(in UpdateInput) *string { return in.PostalCode }),
		strField("countryCode", true, func(p *Profile) *string { return &p.CountryCode }, func(in UpdateInput) *string { return in.CountryCode }),
		strField("phone", true, func(p *Profile) *string { return &p.Phone }, func(in UpdateInput) *string { return in.Phone }),
		strField("email", true, func(p *Profile) *string { return &p.Email }, func(in UpdateInput) *string { return in.Email }),
		strField("website", true, func(p *Profile) *string { return &p.Website }, func(in UpdateInput) *string { return in.Website }),
		strField("legalStructure", true, func(p *Profile) *string { return &p.LegalStructure }, func(in UpdateInput) *string { return in.LegalStructure }),
		strField("industryCode", true, func(p *Profile) *string { return &p.IndustryCode }, func(in UpdateInput) *string { return in.IndustryCode }),
		strField("industryDescription", true, func(p *Profile) *string { return &p.IndustryDescription }, func(in UpdateInput) *string { return in.IndustryDescription }),
		strField("bankName", true, func(p *Profile) *string { return &p.BankName }, func(in UpdateInput) *string { return in.BankName }),
	}

	account := strField("accountNumber", true, func(p *Profile) *string { return &p.AccountNumber }, func(in UpdateInput) *string { return in.AccountNumber })
	account.sensitive = true
	routing := strField("routingNumber", true, func(p *Profile) *string { return &p.RoutingNumber }, func(in UpdateInput) *string { return in.RoutingNumber })
	routing.sensitive = true
	specs = append(specs, account, routing)

	// Status fields: audited but not provenance-tracked; their lifecycle is
	// owned by workflows, not data sources.
	specs = append(specs,
		fieldSpec{
			name: "verificationStatus",
			get:  func(p *Profile) string { return string(p.VerificationStatus) },
			set:  func(p *Profile, v string) { p.VerificationStatus = VerificationStatus(v) },
			patch: func(in UpdateInput) (string, bool) {
				if in.VerificationStatus != nil {
					return string(*in.VerificationStatus), true
				}
				return "", false
			},
		},
		fieldSpec{
			name: "active",
			get:  func(p *Profile) string { return strconv.FormatBool(p.Active) },
			set:  func(p *Profile, v string) { p.Active = v == "true" },
			patch: func(in UpdateInput) (string, bool) {
				if in.Active != nil {
					return strconv.FormatBool(*in.Active), true
				}
				return "", false
			},
		},
	)
	return specs
}

// maskValue renders a sensitive value for audit storage without leaking it:
// encrypted fields must never be persisted in plaintext, ledger included.
func maskValue(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "****"
	}
	return "****" + v[len(v)-4:]
}
