package audit

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Export serializes a profile's audit trail for downstream compliance
// tooling. CSV escaping follows RFC 4180 (encoding/csv), which is a
// correctness requirement for the parsers consuming these files.

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var (
	ErrInvalidFormat    = errors.New("audit: invalid export format")
	ErrInvalidDateRange = errors.New("audit: invalid export date range")
)

// ExportOptions filters and shapes an export. StartDate/EndDate are
// inclusive calendar dates in YYYY-MM-DD form; empty means unbounded.
type ExportOptions struct {
	Format    Format
	StartDate string
	EndDate   string
}

// ProfileSummary identifies the exported profile in the JSON envelope and
// the download filename.
type ProfileSummary struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	TaxID       string `json:"tax_id"`
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type exportEnvelope struct {
	ExportedAt  time.Time      `json:"exported_at"`
	Profile     ProfileSummary `json:"profile"`
	StartDate   string         `json:"start_date,omitempty"`
	EndDate     string         `json:"end_date,omitempty"`
	RecordCount int            `json:"record_count"`
	Records     []Entry        `json:"records"`
}

const exportDateLayout = "2006-01-02"

// Export renders the profile's audit entries (newest first) as JSON or CSV.
func (s *Service) Export(ctx context.Context, p ProfileSummary, opts ExportOptions) (ExportResult, error) {
	if p.ID == "" {
		return ExportResult{}, ErrInvalidEntry
	}
	if opts.Format != FormatJSON && opts.Format != FormatCSV {
		return ExportResult{}, ErrInvalidFormat
	}

	start, end, err := parseRange(opts.StartDate, opts.EndDate)
	if err != nil {
		return ExportResult{}, err
	}

	entries, err := s.repo.ListByProfile(ctx, p.ID)
	if err != nil {
		return ExportResult{}, err
	}
	entries = filterRange(entries, start, end)

	now := s.clock().UTC()
	filename := fmt.Sprintf("audit-logs-%s-%s.%s",
		sanitizeFilename(p.CompanyName), now.Format(exportDateLayout), opts.Format)

	switch opts.Format {
	case FormatCSV:
		data, err := renderCSV(entries)
		if err != nil {
			return ExportResult{}, err
		}
		return ExportResult{Filename: filename, ContentType: "text/csv", Data: data}, nil
	default:
		env := exportEnvelope{
			ExportedAt:  now,
			Profile:     p,
			StartDate:   opts.StartDate,
			EndDate:     opts.EndDate,
			RecordCount: len(entries),
			Records:     entries,
		}
		data, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return ExportResult{}, err
		}
		return ExportResult{Filename: filename, ContentType: "application/json", Data: data}, nil
	}
}

func parseRange(startDate, endDate string) (start, end time.Time, err error) {
	if startDate != "" {
		start, err = time.Parse(exportDateLayout, startDate)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
	}
	if endDate != "" {
		end, err = time.Parse(exportDateLayout, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDateRange
		}
		// Inclusive end: cover the whole calendar day.
		end = end.AddDate(0, 0, 1)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return start, end, nil
}

func filterRange(entries []Entry, start, end time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !start.IsZero() && e.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && !e.Timestamp.Before(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

var csvHeader = []string{
	"timestamp", "action", "actor_id", "actor_name", "field_changed", "old_value", "new_value",
}

func renderCSV(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		rec := []string{
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Action,
			e.ActorID,
			e.ActorName,
			e.FieldChanged,
			e.OldValue,
			e.NewValue,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sanitizeFilename reduces a company name to a safe filename fragment.
func sanitizeFilename(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "profile"
	}
	return out
}
