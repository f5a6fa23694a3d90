package database

import (
	"database/sql"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktnaka/anpi/backend/models"
)

// These tests need a real MySQL instance. Point TEST_DATABASE_DSN at a
// throwaway database, e.g.
//
//	TEST_DATABASE_DSN="anpi:anpi@tcp(127.0.0.1:3306)/anpi_test?parseTime=true" go test ./database/
//
// Both tables are truncated between tests.
func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set; skipping store integration tests")
	}

	var err error
	DB, err = sql.Open("mysql", dsn)
	require.NoError(t, err)
	require.NoError(t, DB.Ping())
	require.NoError(t, InitSchema())

	_, err = DB.Exec("DELETE FROM checkins")
	require.NoError(t, err)
	_, err = DB.Exec("DELETE FROM deletions")
	require.NoError(t, err)

	t.Cleanup(func() {
		DB.Close()
		DB = nil
	})
}

func insertSample(t *testing.T, ts, nick string) int64 {
	t.Helper()
	id, err := InsertCheckin(models.CheckinRecord{
		Ts:        ts,
		Nick:      nick,
		School:    "Midori",
		Tel:       "090-0000",
		Status:    models.StatusSafe,
		RawParams: `{"nick":"` + nick + `"}`,
		UserAgent: "test-agent",
	})
	require.NoError(t, err)
	return id
}

func TestInsertAndLoadHistory(t *testing.T) {
	setupTestDB(t)

	id1 := insertSample(t, "2026-03-11T09:00:00+09:00", "Aya")
	id2 := insertSample(t, "2026-03-11T09:05:00+09:00", "Ken")
	assert.Greater(t, id2, id1, "ids must be monotonically assigned")

	records, err := LoadHistory("", 0, "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ken", records[0].Nick, "most recent first")
	assert.Equal(t, "Aya", records[1].Nick)
	assert.Equal(t, "Midori", records[1].School)
	assert.Equal(t, "090-0000", records[1].Tel)
	assert.Equal(t, models.StatusSafe, records[1].Status)
	assert.False(t, records[1].SmsSent)

	filtered, err := LoadHistory("Ay", 0, "")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, id1, filtered[0].ID)

	limited, err := LoadHistory("", 1, "")
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, id2, limited[0].ID)

	older, err := LoadHistory("", 0, "2026-03-11T09:05:00+09:00")
	require.NoError(t, err)
	require.Len(t, older, 1, "cutoff is strict less-than")
	assert.Equal(t, id1, older[0].ID)
}

func TestGetCheckinsByIDsOmitsUnknown(t *testing.T) {
	setupTestDB(t)

	id := insertSample(t, "2026-03-11T09:00:00+09:00", "Aya")

	rows, err := GetCheckinsByIDs([]int64{id, 9999})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0].ID)

	none, err := GetCheckinsByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAuditAndDeleteByIDs(t *testing.T) {
	setupTestDB(t)

	id1 := insertSample(t, "2026-03-11T09:00:00+09:00", "Aya")
	id2 := insertSample(t, "2026-03-11T09:05:00+09:00", "Ken")

	rows, err := GetCheckinsByIDs([]int64{id1})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	removed, err := AuditAndDeleteByIDs(rows, "2026-03-12T10:00:00+09:00", "admin", "duplicate entry")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	// The deleted row is gone, the other remains.
	remaining, err := GetCheckinsByIDs([]int64{id1, id2})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, id2, remaining[0].ID)

	// Exactly one audit entry, with a snapshot matching the deleted row.
	entries, err := LoadDeletionLog(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "admin", entries[0].DeletedBy)
	assert.Equal(t, "duplicate entry", entries[0].Reason)
	assert.Equal(t, "2026-03-12T10:00:00+09:00", entries[0].DeletedAt)

	var snapshot models.CheckinRecord
	require.NoError(t, json.Unmarshal([]byte(entries[0].DeletedRowJSON), &snapshot))
	assert.Equal(t, rows[0], snapshot)

	// Ids are never reused after deletion.
	id3 := insertSample(t, "2026-03-12T11:00:00+09:00", "Mio")
	assert.Greater(t, id3, id2)
}

func TestAuditAndDeleteByIDsIsIdempotent(t *testing.T) {
	setupTestDB(t)

	id := insertSample(t, "2026-03-11T09:00:00+09:00", "Aya")
	rows, err := GetCheckinsByIDs([]int64{id})
	require.NoError(t, err)

	removed, err := AuditAndDeleteByIDs(rows, "2026-03-12T10:00:00+09:00", "admin", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	// Deleting the same selection again removes nothing; the audit entry
	// for the vanished row still stands as a record of intent.
	removed, err = AuditAndDeleteByIDs(rows, "2026-03-12T10:01:00+09:00", "admin", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	// An empty selection is a no-op with no audit entries.
	removed, err = AuditAndDeleteByIDs(nil, "2026-03-12T10:02:00+09:00", "admin", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	entries, err := LoadDeletionLog(0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAuditAndDeleteAll(t *testing.T) {
	setupTestDB(t)

	insertSample(t, "2026-03-11T09:00:00+09:00", "Aya")
	insertSample(t, "2026-03-11T09:05:00+09:00", "Ken")

	rows, err := LoadHistory("", 0, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	removed, err := AuditAndDeleteAll(rows, "2026-03-12T10:00:00+09:00", "admin", "full_delete")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	count, err := CountCheckins()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	entries, err := LoadDeletionLog(0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, "full_delete", entry.Reason)
	}
}

func TestAuditAndDeleteAllSparesLaterCheckins(t *testing.T) {
	setupTestDB(t)

	insertSample(t, "2026-03-11T09:00:00+09:00", "Aya")
	insertSample(t, "2026-03-11T09:05:00+09:00", "Ken")

	rows, err := LoadHistory("", 0, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// A check-in arriving between selection and deletion has no audit
	// entry, so the wipe must leave it alone.
	lateID := insertSample(t, "2026-03-11T09:06:00+09:00", "Mio")

	removed, err := AuditAndDeleteAll(rows, "2026-03-12T10:00:00+09:00", "admin", "full_delete")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	survivors, err := GetCheckinsByIDs([]int64{lateID})
	require.NoError(t, err)
	require.Len(t, survivors, 1)
	assert.Equal(t, "Mio", survivors[0].Nick)

	entries, err := LoadDeletionLog(0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestMarkSmsSent(t *testing.T) {
	setupTestDB(t)

	id := insertSample(t, "2026-03-11T09:00:00+09:00", "Aya")
	require.NoError(t, MarkSmsSent(id))

	rows, err := GetCheckinsByIDs([]int64{id})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].SmsSent)
}
