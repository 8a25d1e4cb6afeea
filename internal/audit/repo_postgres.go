package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo persists audit entries in the audit_logs table.
//
// The table is INSERT-only; nothing in this package issues UPDATE or DELETE.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const insertEntrySQL = `
INSERT INTO audit_logs (
  id, profile_id, action, actor_id, actor_name, field_changed, old_value, new_value, created_at, immutable
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
)
`

func insertEntry(ctx context.Context, q execer, e Entry) error {
	e.Immutable = true
	_, err := q.ExecContext(ctx, insertEntrySQL,
		e.ID,
		e.ProfileID,
		e.Action,
		e.ActorID,
		e.ActorName,
		e.FieldChanged,
		e.OldValue,
		e.NewValue,
		e.Timestamp,
		e.Immutable,
	)
	return err
}

// InsertTx appends an entry inside a caller-owned transaction. The profile
// store uses this so a mutation and its audit rows commit atomically.
func InsertTx(ctx context.Context, tx *sql.Tx, e Entry) error {
	return insertEntry(ctx, tx, e)
}

func (r *PostgresRepo) Append(ctx context.Context, e Entry) error {
	return insertEntry(ctx, r.db, e)
}

func (r *PostgresRepo) ListByProfile(ctx context.Context, profileID string) ([]Entry, error) {
	const q = `
SELECT id, profile_id, action, actor_id, actor_name, field_changed, old_value, new_value, created_at, immutable
FROM audit_logs
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
			&e.Action,
			&e.ActorID,
			&e.ActorName,
			&e.FieldChanged,
			&e.OldValue,
			&e.NewValue,
			&e.Timestamp,
			&e.Immutable,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
