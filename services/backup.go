// backend/services/backup.go
package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"

	"github.com/ktnaka/anpi/backend/models"
)

// Backup tags distinguish the deletion mode a snapshot belongs to.
const (
	BackupTagManual = "manual_delete"
	BackupTagCutoff = "cutoff_delete"
	BackupTagFull   = "full_delete"
)

// utf8BOM makes the CSV open cleanly in Excel, which the admins use to
// review backups and exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteBackup serializes the given rows to a new, uniquely named CSV in
// the backup directory and returns its path. Files are created with
// O_EXCL and a per-second timestamp plus a numeric suffix on collision,
// so an existing backup is never overwritten. Deletions must not proceed
// when this fails.
func WriteBackup(rows []models.CheckinRecord, tag, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("failed to encode backup CSV: %w", err)
	}

	stamp := NowStamp()
	for attempt := 0; attempt < 100; attempt++ {
		name := fmt.Sprintf("backup_%s_%s.csv", tag, stamp)
		if attempt > 0 {
			name = fmt.Sprintf("backup_%s_%s_%d.csv", tag, stamp, attempt)
		}
		path := filepath.Join(dir, name)

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create backup file %s: %w", path, err)
		}

		_, err = file.Write(utf8BOM)
		if err == nil {
			_, err = file.Write(data)
		}
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			// A half-written file must not count as a backup.
			os.Remove(path)
			return "", fmt.Errorf("failed to write backup file %s: %w", path, err)
		}

		log.Printf("Service: Wrote backup of %d rows to %s.\n", len(rows), path)
		return path, nil
	}
	return "", fmt.Errorf("could not find a free backup file name for tag %s", tag)
}
