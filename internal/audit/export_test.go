package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func exportFixture(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	svc := NewService(repo)
	svc.clock = fixedClock(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	return svc, repo
}

func TestExport_CSVEscaping(t *testing.T) {
	svc, _ := exportFixture(t)

	err := svc.Append(context.Background(), Entry{
		ProfileID:    "p1",
		Action:       "updated companyName",
		FieldChanged: "companyName",
		OldValue:     "Acme Corp",
		NewValue:     `Acme, Inc. "Best"`,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	res, err := svc.Export(context.Background(), ProfileSummary{ID: "p1", CompanyName: "Acme Corp"}, ExportOptions{Format: FormatCSV})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(string(res.Data), `"Acme, Inc. ""Best"""`) {
		t.Fatalf("csv quoting incorrect:\n%s", res.Data)
	}
	if res.ContentType != "text/csv" {
		t.Fatalf("unexpected content type %q", res.ContentType)
	}
}

func TestExport_FilenameConvention(t *testing.T) {
	svc, _ := exportFixture(t)

	res, err := svc.Export(context.Background(), ProfileSummary{ID: "p1", CompanyName: `Acme, Inc. "Best"`}, ExportOptions{Format: FormatCSV})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Filename != "audit-logs-acme-inc-best-2025-06-15.csv" {
		t.Fatalf("unexpected filename %q", res.Filename)
	}
}

func TestExport_JSONEnvelope(t *testing.T) {
	svc, _ := exportFixture(t)

	for _, action := range []string{"claimed vendor profile", "updated phone"} {
		if err := svc.Append(context.Background(), Entry{ProfileID: "p1", Action: action}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	res, err := svc.Export(context.Background(), ProfileSummary{ID: "p1", CompanyName: "Acme Corp", TaxID: "111111111"}, ExportOptions{Format: FormatJSON})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var env exportEnvelope
	if err := json.Unmarshal(res.Data, &env); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if env.RecordCount != 2 || len(env.Records) != 2 {
		t.Fatalf("expected 2 records, got count=%d len=%d", env.RecordCount, len(env.Records))
	}
	if env.Profile.TaxID != "111111111" {
		t.Fatalf("envelope missing profile summary")
	}
	if env.ExportedAt.IsZero() {
		t.Fatalf("envelope missing export timestamp")
	}
}

func TestExport_DateRangeInclusive(t *testing.T) {
	svc, _ := exportFixture(t)

	days := []time.Time{
		time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2025, 6, 2, 0, 0, 1, 0, time.UTC),
		time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
	}
	for i, ts := range days {
		if err := svc.Append(context.Background(), Entry{ProfileID: "p1", Action: "a", Timestamp: ts, ID: string(rune('a' + i))}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	res, err := svc.Export(context.Background(), ProfileSummary{ID: "p1", CompanyName: "Acme"}, ExportOptions{
		Format:    FormatJSON,
		StartDate: "2025-06-02",
		EndDate:   "2025-06-03",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	var env exportEnvelope
	if err := json.Unmarshal(res.Data, &env); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if env.RecordCount != 2 {
		t.Fatalf("expected 2 records inside inclusive range, got %d", env.RecordCount)
	}
}

func TestExport_InvalidInputs(t *testing.T) {
	svc, _ := exportFixture(t)
	p := ProfileSummary{ID: "p1", CompanyName: "Acme"}

	if _, err := svc.Export(context.Background(), p, ExportOptions{Format: "xml"}); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if _, err := svc.Export(context.Background(), p, ExportOptions{Format: FormatJSON, StartDate: "junk"}); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if _, err := svc.Export(context.Background(), p, ExportOptions{Format: FormatJSON, StartDate: "2025-06-10", EndDate: "2025-06-01"}); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange for inverted range, got %v", err)
	}
}
