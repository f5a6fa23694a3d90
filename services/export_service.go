// backend/services/export_service.go
package services

import (
	"fmt"
	"log"

	"github.com/jszwec/csvutil"

	"github.com/ktnaka/anpi/backend/database"
	"github.com/ktnaka/anpi/backend/models"
)

// ExportHistoryCSV serializes the complete ledger (no limit, id DESC) to
// CSV and returns the bytes together with a timestamped download name.
func ExportHistoryCSV() ([]byte, string, error) {
	records, err := database.LoadHistory("", 0, "")
	if err != nil {
		return nil, "", fmt.Errorf("failed to load history for export: %w", err)
	}

	data, err := encodeHistoryCSV(records)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("checkins_export_%s.csv", NowStamp())
	log.Printf("Service: Exported %d checkins as %s.\n", len(records), filename)
	return data, filename, nil
}

func encodeHistoryCSV(records []models.CheckinRecord) ([]byte, error) {
	body, err := csvutil.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export CSV: %w", err)
	}
	return append(append([]byte{}, utf8BOM...), body...), nil
}
