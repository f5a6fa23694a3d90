// backend/database/deletion_store.go
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ktnaka/anpi/backend/models"
)

// AuditAndDeleteByIDs appends one deletions entry per given row and then
// removes those rows from the ledger, all in a single transaction: a crash
// between the two steps never leaves a deleted row without its audit
// entry. Returns the number of ledger rows actually removed, which may be
// less than len(rows) if some vanished since selection.
func AuditAndDeleteByIDs(rows []models.CheckinRecord, deletedAt, deletedBy, reason string) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database connection is not initialized")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for deletion: %w", err)
	}
	defer tx.Rollback()

	if err := insertAuditEntries(tx, rows, deletedAt, deletedBy, reason); err != nil {
		return 0, err
	}

	ids := make([]int64, len(rows))
	for i, rec := range rows {
		ids[i] = rec.ID
	}
	placeholders, args := idPlaceholders(ids)
	result, err := tx.Exec("DELETE FROM checkins WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete checkins by ids: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted row count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit deletion transaction: %w", err)
	}

	log.Printf("Deleted %d checkins (%d audited).\n", affected, len(rows))
	return affected, nil
}

// AuditAndDeleteAll audits every given row and wipes the checkins table up
// to the highest selected id, in one transaction. The caller is expected to
// have selected the full ledger as rows; check-ins that arrive after that
// selection carry higher ids and survive, since they have no audit entry.
func AuditAndDeleteAll(rows []models.CheckinRecord, deletedAt, deletedBy, reason string) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database connection is not initialized")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for full deletion: %w", err)
	}
	defer tx.Rollback()

	if err := insertAuditEntries(tx, rows, deletedAt, deletedBy, reason); err != nil {
		return 0, err
	}

	var maxID int64
	for _, rec := range rows {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}
	result, err := tx.Exec("DELETE FROM checkins WHERE id <= ?", maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete all checkins: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted row count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit full deletion transaction: %w", err)
	}

	log.Printf("Deleted all %d checkins (%d audited).\n", affected, len(rows))
	return affected, nil
}

// insertAuditEntries writes one deletions row per ledger row, each
// carrying the full JSON snapshot of the record being removed.
func insertAuditEntries(tx *sql.Tx, rows []models.CheckinRecord, deletedAt, deletedBy, reason string) error {
	stmt, err := tx.Prepare(`
		INSERT INTO deletions (deleted_at, deleted_by, reason, deleted_row_json)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare deletion audit insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range rows {
		snapshot, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot for checkin %d: %w", rec.ID, err)
		}
		if _, err := stmt.Exec(deletedAt, deletedBy, reason, string(snapshot)); err != nil {
			return fmt.Errorf("failed to insert audit entry for checkin %d: %w", rec.ID, err)
		}
	}
	return nil
}

// LoadDeletionLog retrieves audit entries, newest first. limit <= 0
// returns everything.
func LoadDeletionLog(limit int) ([]models.DeletionAuditEntry, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	query := `
		SELECT id, deleted_at, deleted_by, reason, deleted_row_json
		FROM deletions
		ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deletion log: %w", err)
	}
	defer rows.Close()

	var entries []models.DeletionAuditEntry
	for rows.Next() {
		var entry models.DeletionAuditEntry
		var reason sql.NullString
		err := rows.Scan(&entry.ID, &entry.DeletedAt, &entry.DeletedBy, &reason, &entry.DeletedRowJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deletion log row: %w", err)
		}
		entry.Reason = reason.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deletion log rows: %w", err)
	}
	return entries, nil
}
