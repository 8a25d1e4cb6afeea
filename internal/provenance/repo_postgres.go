package provenance

import (
	"context"
	"database/sql"
)

// PostgresRepo persists provenance records in the data_provenance table.
// INSERT-only by design.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const insertRecordSQL = `
INSERT INTO data_provenance (
  id, profile_id, field_name, source, method, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6
)
`

func insertRecord(ctx context.Context, q execer, r Record) error {
	_, err := q.ExecContext(ctx, insertRecordSQL,
		r.ID,
		r.ProfileID,
		r.FieldName,
		r.Source,
		r.Method,
		r.Timestamp,
	)
	return err
}

// InsertTx appends a record inside a caller-owned transaction. The profile
// store uses this so a mutation and its provenance rows commit atomically.
func InsertTx(ctx context.Context, tx *sql.Tx, r Record) error {
	return insertRecord(ctx, tx, r)
}

func (r *PostgresRepo) Append(ctx context.Context, rec Record) error {
	return insertRecord(ctx, r.db, rec)
}

func (r *PostgresRepo) ListByProfile(ctx context.Context, profileID string) ([]Record, error) {
	const q = `
SELECT id, profile_id, field_name, source, method, created_at
FROM data_provenance
WHERE profile_id = $1
ORDER BY created_at DESC, id DESC
`
	rows, err := r.db.QueryContext(ctx, q, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.ProfileID,
			&rec.FieldName,
			&rec.Source,
			&rec.Method,
			&rec.Timestamp,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
