package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazmer/lekarna/internal/model"
)

// AppendAudit appends one entry to the audit log. A failure is reported as
// ErrLedgerWrite and must not be swallowed by callers: the log is the only
// historical record of mutating actions.
func AppendAudit(ctx context.Context, db *sql.DB, e model.AuditEntry) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO audit_log (entity_type, entity_id, action, details, performed_by)
		 VALUES (?, ?, ?, ?, ?)`,
		e.EntityType, e.EntityID, e.Action, e.Details, e.PerformedBy,
	)
	if err != nil {
		return fmt.Errorf("appending audit entry: %v: %w", err, model.ErrLedgerWrite)
	}
	return nil
}

// ListAuditByActor returns all entries recorded for an actor, oldest first.
func ListAuditByActor(ctx context.Context, db *sql.DB, actor string) ([]model.AuditEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, entity_type, entity_id, action, details, performed_by, timestamp
		 FROM audit_log WHERE performed_by = ? ORDER BY id`, actor,
	)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// ListAuditByEntity returns all entries recorded for an entity, oldest first.
func ListAuditByEntity(ctx context.Context, db *sql.DB, entityType, entityID string) ([]model.AuditEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, entity_type, entity_id, action, details, performed_by, timestamp
		 FROM audit_log WHERE entity_type = ? AND entity_id = ? ORDER BY id`,
		entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

func scanAuditEntries(rows *sql.Rows) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var details sql.NullString
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &details, &e.PerformedBy, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Details = details.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
