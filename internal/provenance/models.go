package provenance

import "time"

// Record is one attribution event: where a field's value came from at a
// point in time. Multiple records may exist per (profile, field); the
// current provenance for a field is the record with the latest timestamp.
//
// Records are append-only and independent of the audit trail: audit answers
// "who changed what", provenance answers "where did this value come from".

type Record struct {
	ID        string `json:"id" db:"id"`
	ProfileID string `json:"profile_id" db:"profile_id"`

	// FieldName matches the JSON name of the profile field, e.g. "email".
	FieldName string `json:"field_name" db:"field_name"`

	// Source names the origin of the value, e.g. "Manual Entry" or a
	// registry name.
	Source string `json:"source" db:"source"`

	// Method names how the value was verified, e.g. "Vendor Submitted" or
	// "Government Registry Import".
	Method string `json:"method" db:"method"`

	Timestamp time.Time `json:"timestamp" db:"created_at"`
}
