package audit

import "time"

// Entry is one immutable fact about a past profile mutation.
//
// Invariants:
// - Entries are never updated or deleted; no such methods exist anywhere
//   in this package.
// - Immutable is forced true at every write edge regardless of caller input.
// - ProfileID is required; every entry belongs to exactly one profile.
//
// Storage (Postgres): table audit_logs, INSERT-only, FK to vendor_profiles
// with ON DELETE CASCADE.

type Entry struct {
	ID        string `json:"id" db:"id"`
	ProfileID string `json:"profile_id" db:"profile_id"`

	// Action is a short human-readable description, e.g.
	// "claimed vendor profile" or "updated companyName".
	Action string `json:"action" db:"action"`

	// ActorID is empty for system actors (bulk importers); ActorName then
	// carries the source name.
	ActorID   string `json:"actor_id,omitempty" db:"actor_id"`
	ActorName string `json:"actor_name,omitempty" db:"actor_name"`

	// FieldChanged and the stringified old/new values are set only for
	// field-level update entries.
	FieldChanged string `json:"field_changed,omitempty" db:"field_changed"`
	OldValue     string `json:"old_value,omitempty" db:"old_value"`
	NewValue     string `json:"new_value,omitempty" db:"new_value"`

	Timestamp time.Time `json:"timestamp" db:"created_at"`
	Immutable bool      `json:"immutable" db:"immutable"`
}
