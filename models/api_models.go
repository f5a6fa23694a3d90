// backend/models/api_models.go
package models

// CheckinResponse is returned to the participant page after a QR scan.
type CheckinResponse struct {
	Identity   IdentityFields  `json:"identity"`
	Registered bool            `json:"registered"`
	RecordID   int64           `json:"record_id,omitempty"`
	History    []CheckinRecord `json:"history"`
}

// DeleteByIDsRequest is the JSON body for POST /api/admin/delete.
type DeleteByIDsRequest struct {
	IDs     []int64 `json:"ids"`
	Reason  string  `json:"reason"`
	Confirm string  `json:"confirm"` // must be exactly "DELETE"
}

// DeleteBeforeRequest is the JSON body for POST /api/admin/delete-before.
// Rows strictly older than midnight of the given "YYYY-MM-DD" date
// (app timezone) are selected.
type DeleteBeforeRequest struct {
	Before  string `json:"before"`
	Reason  string `json:"reason"`
	Confirm string `json:"confirm"` // must be exactly "DELETE"
}

// DeleteAllRequest is the JSON body for POST /api/admin/delete-all.
type DeleteAllRequest struct {
	Confirm string `json:"confirm"` // must be exactly "DELETE ALL"
}

// DeleteResponse reports the outcome of a completed deletion.
type DeleteResponse struct {
	Removed    int64  `json:"removed"`
	BackupPath string `json:"backup_path"`
}
