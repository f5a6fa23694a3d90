// backend/models/checkin.go
package models

// StatusSafe is the status every record is created with. The column stays
// free text so future status values can be stored without a migration.
const StatusSafe = "safe"

// CheckinRecord represents one safety-status check-in event in the ledger.
// The csv tags drive both the backup snapshots and the admin export.
type CheckinRecord struct {
	ID int64 `db:"id" json:"id" csv:"id"`

	// Ts is an ISO-8601 instant with seconds precision in the configured
	// timezone, e.g. "2026-03-11T14:46:05+09:00". Stored as text so the
	// offset survives round trips; with a fixed app timezone the string
	// ordering matches the chronological ordering.
	Ts string `db:"ts" json:"ts" csv:"ts"`

	Nick   string `db:"nick" json:"nick" csv:"nick"`
	Addr   string `db:"addr" json:"addr" csv:"addr"`
	School string `db:"school" json:"school" csv:"school"`
	Tel    string `db:"tel" json:"tel" csv:"tel"`
	Status string `db:"status" json:"status" csv:"status"`

	// RawParams holds every incoming query parameter as a JSON object,
	// stored verbatim for traceability.
	RawParams string `db:"raw_params" json:"raw_params" csv:"raw_params"`

	// SmsSent is flipped by the notification collaborator after a
	// successful send, never by the ledger itself.
	SmsSent   bool   `db:"sms_sent" json:"sms_sent" csv:"sms_sent"`
	UserAgent string `db:"user_agent" json:"user_agent" csv:"user_agent"`
}

// IdentityFields is the canonical identity block produced by the
// parameter normalizer. All fields default to "" when no alias matched.
type IdentityFields struct {
	Nick   string `json:"nick"`
	Addr   string `json:"addr"`
	School string `json:"school"`
	Tel    string `json:"tel"`
}
