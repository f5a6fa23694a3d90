// backend/services/checkin_service.go
package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ktnaka/anpi/backend/database"
	"github.com/ktnaka/anpi/backend/models"
)

// bucketKey computes the dedup bucket for a candidate check-in: the
// current time truncated to the minute plus the identity's nickname and
// status. An empty nickname still yields a valid (if coarse) key.
func bucketKey(t time.Time, nick, status string) string {
	return t.Format("2006-01-02T15:04") + "|" + nick + "|" + status
}

// RegisterCheckin runs the ingestion path: normalize has already
// happened; this applies the per-session dedup gate and, if the gate
// passes, persists the record. A suppressed duplicate is a silent no-op:
// registered comes back false and err stays nil.
func RegisterCheckin(sess *Session, fields models.IdentityFields, rawParams map[string]string, userAgent string) (*models.CheckinRecord, bool, error) {
	now := nowLocal().Truncate(time.Second)

	key := bucketKey(now, fields.Nick, models.StatusSafe)
	if !sess.markSeen(key) {
		log.Printf("Service: Suppressed duplicate checkin for bucket %q in session %s.\n", key, sess.ID)
		return nil, false, nil
	}

	raw, err := json.Marshal(rawParams)
	if err != nil {
		sess.unmark(key)
		return nil, false, fmt.Errorf("failed to marshal raw params: %w", err)
	}

	rec := models.CheckinRecord{
		Ts:        now.Format(time.RFC3339),
		Nick:      fields.Nick,
		Addr:      fields.Addr,
		School:    fields.School,
		Tel:       fields.Tel,
		Status:    models.StatusSafe,
		RawParams: string(raw),
		UserAgent: userAgent,
	}

	id, err := database.InsertCheckin(rec)
	if err != nil {
		// Only a recorded check-in may occupy the bucket; a failed insert
		// must leave the retry path open.
		sess.unmark(key)
		return nil, false, fmt.Errorf("failed to register checkin: %w", err)
	}
	rec.ID = id

	log.Printf("Service: Registered checkin %d for nick %q.\n", id, fields.Nick)
	return &rec, true, nil
}

// RecentHistory returns the latest records, optionally filtered by a
// nickname substring.
func RecentHistory(nickFilter string, limit int) ([]models.CheckinRecord, error) {
	return History(nickFilter, limit, "")
}

// History is the admin review query: nickname substring filter, result
// cap, and an optional "YYYY-MM-DD" cutoff restricting to older rows
// (the preview for cutoff-based deletion).
func History(nickFilter string, limit int, before string) ([]models.CheckinRecord, error) {
	createdBefore := ""
	if before != "" {
		cutoffDay, err := time.ParseInLocation("2006-01-02", before, appLocation)
		if err != nil {
			return nil, fmt.Errorf("invalid 'before' date %q: %w", before, err)
		}
		createdBefore = cutoffDay.Format(time.RFC3339)
	}

	records, err := database.LoadHistory(nickFilter, limit, createdBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkin history: %w", err)
	}
	return records, nil
}
