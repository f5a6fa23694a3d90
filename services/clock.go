// backend/services/clock.go
package services

import (
	"log"
	"time"
)

// Every timestamp the system writes is taken in one fixed timezone so the
// stored ISO-8601 strings compare chronologically.
var appLocation = time.UTC

// Seam for tests.
var timeNow = time.Now

// InitClock resolves the configured IANA timezone. Called once from main
// before any ingestion or deletion runs.
func InitClock(timezone string) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Printf("WARN Service: Could not load timezone %q (%v), falling back to UTC.", timezone, err)
		loc = time.UTC
	}
	appLocation = loc
	log.Printf("Service: Clock initialized with timezone %s.\n", appLocation)
}

func nowLocal() time.Time {
	return timeNow().In(appLocation)
}

// NowISO returns the current instant as ISO-8601 with seconds precision
// in the app timezone, e.g. "2026-03-11T14:46:05+09:00".
func NowISO() string {
	return nowLocal().Truncate(time.Second).Format(time.RFC3339)
}

// NowStamp returns a compact timestamp used in file names,
// e.g. "20260311_144605".
func NowStamp() string {
	return nowLocal().Format("20060102_150405")
}
