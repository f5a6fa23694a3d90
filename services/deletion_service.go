// backend/services/deletion_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ktnaka/anpi/backend/config"
	"github.com/ktnaka/anpi/backend/database"
	"github.com/ktnaka/anpi/backend/models"
)

// Confirmation tokens the administrator must type verbatim. The full wipe
// deliberately requires a longer token than partial deletes.
const (
	ConfirmDelete    = "DELETE"
	ConfirmDeleteAll = "DELETE ALL"
)

var (
	// ErrConfirmationMismatch aborts a deletion with zero side effects:
	// no backup, no audit entry, no delete.
	ErrConfirmationMismatch = errors.New("confirmation text does not match")
	// ErrEmptySelection means the requested deletion matched no rows.
	ErrEmptySelection = errors.New("no rows selected for deletion")
)

// DeletionResult reports a completed deletion.
type DeletionResult struct {
	Removed    int64
	BackupPath string
}

// DeleteByIDs removes an explicit id set from the ledger: confirmation
// gate, then backup snapshot, then audit entries and row removal in one
// transaction. Unknown ids are silently dropped from the selection.
func DeleteByIDs(ids []int64, actor, reason, confirm string) (*DeletionResult, error) {
	if confirm != ConfirmDelete {
		return nil, ErrConfirmationMismatch
	}
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	rows, err := database.GetCheckinsByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to select checkins for deletion: %w", err)
	}
	return executeDeletion(rows, BackupTagManual, actor, reason, false)
}

// DeleteBefore removes every row whose timestamp is strictly older than
// midnight of the given "YYYY-MM-DD" date in the app timezone.
func DeleteBefore(before, actor, reason, confirm string) (*DeletionResult, error) {
	if confirm != ConfirmDelete {
		return nil, ErrConfirmationMismatch
	}

	cutoffDay, err := time.ParseInLocation("2006-01-02", before, appLocation)
	if err != nil {
		return nil, fmt.Errorf("invalid cutoff date %q: %w", before, err)
	}
	cutoff := cutoffDay.Format(time.RFC3339)

	rows, err := database.LoadHistory("", 0, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to select checkins before %s: %w", before, err)
	}
	return executeDeletion(rows, BackupTagCutoff, actor, reason, false)
}

// DeleteAll wipes the entire ledger. The reason is fixed so the audit
// trail always identifies full wipes.
func DeleteAll(actor, confirm string) (*DeletionResult, error) {
	if confirm != ConfirmDeleteAll {
		return nil, ErrConfirmationMismatch
	}

	rows, err := database.LoadHistory("", 0, "")
	if err != nil {
		return nil, fmt.Errorf("failed to select checkins for full deletion: %w", err)
	}
	return executeDeletion(rows, BackupTagFull, actor, BackupTagFull, true)
}

// executeDeletion runs the backup -> audit -> delete sequence shared by
// all three modes. The backup must exist on disk before any row is
// touched; audit insert and ledger delete then commit together.
func executeDeletion(rows []models.CheckinRecord, tag, actor, reason string, all bool) (*DeletionResult, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySelection
	}
	if actor == "" {
		actor = config.AppConfig.Admin.User
	}

	backupPath, err := WriteBackup(rows, tag, config.AppConfig.Backup.Dir)
	if err != nil {
		return nil, fmt.Errorf("backup failed, deletion aborted: %w", err)
	}

	deletedAt := NowISO()
	var removed int64
	if all {
		removed, err = database.AuditAndDeleteAll(rows, deletedAt, actor, reason)
	} else {
		removed, err = database.AuditAndDeleteByIDs(rows, deletedAt, actor, reason)
	}
	if err != nil {
		return nil, fmt.Errorf("deletion failed after backup %s: %w", backupPath, err)
	}

	log.Printf("Service: Deletion (%s) removed %d rows, backup at %s.\n", tag, removed, backupPath)
	return &DeletionResult{Removed: removed, BackupPath: backupPath}, nil
}

// DeletionLog exposes the audit trail, newest first.
func DeletionLog(limit int) ([]models.DeletionAuditEntry, error) {
	entries, err := database.LoadDeletionLog(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load deletion log: %w", err)
	}
	return entries, nil
}
