package reporting

import (
	"vendor-platform/internal/access"
	"vendor-platform/internal/audit"
	"vendor-platform/internal/provenance"
)

// Views pair ledger rows with a human-relative rendering ("3 days ago")
// computed at read time. The relative string is presentation-only and is
// never stored.

type AuditView struct {
	audit.Entry
	RelativeTime string `json:"relative_time"`
}

type AccessView struct {
	access.Entry
	RelativeTime string `json:"relative_time"`
}

type ProvenanceView struct {
	provenance.Record
	RelativeTime string `json:"relative_time"`
}
