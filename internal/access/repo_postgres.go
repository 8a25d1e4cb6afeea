package access

import (
	"context"
	"database/sql"
)

// PostgresRepo persists access entries in the access_logs table.
// INSERT-only by design.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Entry) error {
	const q = `
INSERT INTO access_logs (
  id, profile_id, accessor_id, accessor_name, accessor_org, action, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.ProfileID,
		e.AccessorID,
		e.AccessorName,
		e.AccessorOrg,
		e.Action,
		e.Timestamp,
	)
	return err
}

func (r *PostgresRepo) ListByProfile(ctx context.Context, profileID string) ([]Entry, error) {
	const q = `
SELECT id, profile_id, accessor_id, accessor_name, accessor_org, action, created_at
FROM access_logs
WHERE profile_id = $1
ORDER BY created_at DESC, id DESC
`
	rows, err := r.db.QueryContext(ctx, q, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.ProfileID,
			&e.AccessorID,
			&e.AccessorName,
			&e.AccessorOrg,
			&e.Action,
			&e.Timestamp,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
