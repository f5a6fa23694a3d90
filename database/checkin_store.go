// backend/database/checkin_store.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/ktnaka/anpi/backend/models"
)

// InsertCheckin persists a new check-in record and returns the assigned id.
func InsertCheckin(rec models.CheckinRecord) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database connection is not initialized")
	}

	result, err := DB.Exec(`
		INSERT INTO checkins (
			ts, nick, addr, school, tel, status,
			raw_params, sms_sent, user_agent
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.Ts, rec.Nick, rec.Addr, rec.School, rec.Tel, rec.Status,
		rec.RawParams, rec.SmsSent, rec.UserAgent,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert checkin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted checkin id: %w", err)
	}
	return id, nil
}

// LoadHistory retrieves check-in records ordered most recent first
// (id DESC). nickFilter is a case-insensitive substring match on nick,
// createdBefore restricts to ts < cutoff (ISO-8601 text, which with the
// fixed app timezone orders chronologically), and limit caps the result
// count. Zero values disable each filter.
func LoadHistory(nickFilter string, limit int, createdBefore string) ([]models.CheckinRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	query := `
		SELECT id, ts, nick, addr, school, tel, status,
		       raw_params, sms_sent, user_agent
		FROM checkins
		WHERE 1=1`
	var args []interface{}

	if nickFilter != "" {
		query += " AND nick LIKE ?"
		args = append(args, "%"+nickFilter+"%")
	}
	if createdBefore != "" {
		query += " AND ts < ?"
		args = append(args, createdBefore)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkin history: %w", err)
	}
	defer rows.Close()

	return scanCheckinRows(rows)
}

// GetCheckinsByIDs returns the matching rows, silently omitting unknown
// ids. An empty id set returns an empty slice without touching the DB.
func GetCheckinsByIDs(ids []int64) ([]models.CheckinRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders, args := idPlaceholders(ids)
	rows, err := DB.Query(`
		SELECT id, ts, nick, addr, school, tel, status,
		       raw_params, sms_sent, user_agent
		FROM checkins
		WHERE id IN (`+placeholders+`)
		ORDER BY id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkins by ids: %w", err)
	}
	defer rows.Close()

	return scanCheckinRows(rows)
}

// MarkSmsSent flags a record after the notification collaborator reports
// a successful send.
func MarkSmsSent(id int64) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	_, err := DB.Exec("UPDATE checkins SET sms_sent = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark sms_sent for checkin %d: %w", id, err)
	}
	return nil
}

func scanCheckinRows(rows *sql.Rows) ([]models.CheckinRecord, error) {
	var records []models.CheckinRecord
	for rows.Next() {
		var rec models.CheckinRecord
		var rawParams, userAgent sql.NullString
		err := rows.Scan(
			&rec.ID, &rec.Ts, &rec.Nick, &rec.Addr, &rec.School, &rec.Tel,
			&rec.Status, &rawParams, &rec.SmsSent, &userAgent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkin row: %w", err)
		}
		rec.RawParams = rawParams.String
		rec.UserAgent = userAgent.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkin rows: %w", err)
	}
	return records, nil
}

// idPlaceholders builds a "?,?,..." list and the matching args slice so
// id sets are always bound as parameters, never interpolated.
func idPlaceholders(ids []int64) (string, []interface{}) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return placeholders, args
}

// CountCheckins returns the current ledger size.
func CountCheckins() (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database connection is not initialized")
	}
	var count int64
	if err := DB.QueryRow("SELECT COUNT(*) FROM checkins").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count checkins: %w", err)
	}
	log.Printf("Ledger currently holds %d checkins.\n", count)
	return count, nil
}
