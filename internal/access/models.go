package access

import "time"

// Entry records that someone viewed or downloaded a profile. It powers
// transparency reporting for the profile's owner.
//
// Append-only: access history cannot be scrubbed. No update or delete
// operations exist in this package.

type Entry struct {
	ID        string `json:"id" db:"id"`
	ProfileID string `json:"profile_id" db:"profile_id"`

	AccessorID   string `json:"accessor_id" db:"accessor_id"`
	AccessorName string `json:"accessor_name" db:"accessor_name"`
	// AccessorOrg is the organization the accessor acted for.
	AccessorOrg string `json:"accessor_org,omitempty" db:"accessor_org"`

	// Action is e.g. "Viewed Profile" or "Downloaded Data".
	Action string `json:"action" db:"action"`

	Timestamp time.Time `json:"timestamp" db:"created_at"`
}

const (
	ActionViewedProfile  = "Viewed Profile"
	ActionDownloadedData = "Downloaded Data"
)
