// backend/models/deletion.go
package models

// DeletionAuditEntry is an append-only record of a destroyed CheckinRecord.
// Nothing in this codebase updates or deletes rows from the deletions
// table; entries are written once, inside the same transaction that
// removes the ledger row they describe.
type DeletionAuditEntry struct {
	ID        int64  `db:"id" json:"id"`
	DeletedAt string `db:"deleted_at" json:"deleted_at"`
	DeletedBy string `db:"deleted_by" json:"deleted_by"`
	Reason    string `db:"reason" json:"reason"`

	// DeletedRowJSON is the full serialized CheckinRecord as it stood at
	// the moment of deletion.
	DeletedRowJSON string `db:"deleted_row_json" json:"deleted_row_json"`
}
