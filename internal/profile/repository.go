package profile

import (
	"context"
	"database/sql"
	"errors"

	"vendor-platform/internal/audit"
	"vendor-platform/internal/provenance"
	"vendor-platform/pkg/utils"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepo persists profiles in the vendor_profiles table. Mutations run
// inside a transaction together with their audit and provenance inserts, so
// a failure anywhere rolls back everything.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const pgUniqueViolation = "23505"

func (r *PostgresRepo) Create(ctx context.Context, p Profile, audits []audit.Entry, provs []provenance.Record) error {
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		if err := insertProfile(ctx, tx, p); err != nil {
			return err
		}
		return appendLedgers(ctx, tx, audits, provs)
	})
	return mapUniqueViolation(err)
}

func (r *PostgresRepo) Update(ctx context.Context, p Profile, audits []audit.Entry, provs []provenance.Record) error {
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		if err := updateProfile(ctx, tx, p); err != nil {
			return err
		}
		return appendLedgers(ctx, tx, audits, provs)
	})
}

func appendLedgers(ctx context.Context, tx *sql.Tx, audits []audit.Entry, provs []provenance.Record) error {
	for _, e := range audits {
		if err := audit.InsertTx(ctx, tx, e); err != nil {
			return err
		}
	}
	for _, rec := range provs {
		if err := provenance.InsertTx(ctx, tx, rec); err != nil {
			return err
		}
	}
	return nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateTaxID
	}
	return err
}

const profileColumns = `
id, user_id, company_name, tax_id, business_number, tax_registration_number,
address, city, region, postal_code, country_code,
phone, email, website,
legal_structure, industry_code, industry_description,
bank_name, account_number, routing_number,
verification_status, data_source, active, created_at, updated_at
`

func insertProfile(ctx context.Context, tx *sql.Tx, p Profile) error {
	const q = `
INSERT INTO vendor_profiles (` + profileColumns + `) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25
)
`
	_, err := tx.ExecContext(ctx, q,
		p.ID,
		nullable(p.UserID),
		p.CompanyName,
		p.TaxID,
		p.BusinessNumber,
		p.TaxRegistrationNumber,
		p.Address,
		p.City,
		p.Region,
		p.PostalCode,
		p.CountryCode,
		p.Phone,
		p.Email,
		p.Website,
		p.LegalStructure,
		p.IndustryCode,
		p.IndustryDescription,
		p.BankName,
		p.AccountNumber,
		p.RoutingNumber,
		string(p.VerificationStatus),
		string(p.DataSource),
		p.Active,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func updateProfile(ctx context.Context, tx *sql.Tx, p Profile) error {
	const q = `
UPDATE vendor_profiles SET
  user_id = $2,
  company_name = $3,
  business_number = $4,
  tax_registration_number = $5,
  address = $6,
  city = $7,
  region = $8,
  postal_code = $9,
  country_code = $10,
  phone = $11,
  email = $12,
  website = $13,
  legal_structure = $14,
  industry_code = $15,
  industry_description = $16,
  bank_name = $17,
  account_number = $18,
  routing_number = $19,
  verification_status = $20,
  active = $21,
  updated_at = $22
WHERE id = $1
`
	res, err := tx.ExecContext(ctx, q,
		p.ID,
		nullable(p.UserID),
		p.CompanyName,
		p.BusinessNumber,
		p.TaxRegistrationNumber,
		p.Address,
		p.City,
		p.Region,
		p.PostalCode,
		p.CountryCode,
		p.Phone,
		p.Email,
		p.Website,
		p.LegalStructure,
		p.IndustryCode,
		p.IndustryDescription,
		p.BankName,
		p.AccountNumber,
		p.RoutingNumber,
		string(p.VerificationStatus),
		p.Active,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Profile, bool, error) {
	const q = `SELECT ` + profileColumns + ` FROM vendor_profiles WHERE id = $1`
	return r.queryOne(ctx, q, id)
}

func (r *PostgresRepo) GetByUserID(ctx context.Context, userID string) (Profile, bool, error) {
	const q = `SELECT ` + profileColumns + ` FROM vendor_profiles WHERE user_id = $1`
	return r.queryOne(ctx, q, userID)
}

func (r *PostgresRepo) GetByTaxID(ctx context.Context, taxID string) (Profile, bool, error) {
	const q = `SELECT ` + profileColumns + ` FROM vendor_profiles WHERE tax_id = $1`
	return r.queryOne(ctx, q, taxID)
}

func (r *PostgresRepo) queryOne(ctx context.Context, q string, arg any) (Profile, bool, error) {
	var p Profile
	var userID sql.NullString
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&p.ID,
		&userID,
		&p.CompanyName,
		&p.TaxID,
		&p.BusinessNumber,
		&p.TaxRegistrationNumber,
		&p.Address,
		&p.City,
		&p.Region,
		&p.PostalCode,
		&p.CountryCode,
		&p.Phone,
		&p.Email,
		&p.Website,
		&p.LegalStructure,
		&p.IndustryCode,
		&p.IndustryDescription,
		&p.BankName,
		&p.AccountNumber,
		&p.RoutingNumber,
		&p.VerificationStatus,
		&p.DataSource,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, false, nil
		}
		return Profile{}, false, err
	}
	p.UserID = userID.String
	return p, true, nil
}

// nullable maps empty strings to NULL for the optional owner column.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
