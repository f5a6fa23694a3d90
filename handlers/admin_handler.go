// backend/handlers/admin_handler.go
package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ktnaka/anpi/backend/config"
	"github.com/ktnaka/anpi/backend/models"
	"github.com/ktnaka/anpi/backend/services"
)

const adminPasswordHeader = "X-Admin-Password"

// RequireAdmin guards the admin routes with the shared secret. A missing
// configured secret is a fatal configuration error surfaced verbatim; a
// wrong secret is recoverable and just gets a 401.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		configured := config.AppConfig.Admin.Password
		if configured == "" {
			respondWithError(w, http.StatusInternalServerError, "Admin password is not configured (set ADMIN_PASSWORD)")
			return
		}
		supplied := r.Header.Get(adminPasswordHeader)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(configured)) != 1 {
			respondWithError(w, http.StatusUnauthorized, "Admin password does not match")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminHistoryHandler lists ledger rows for review.
// GET /api/admin/history?nick=&limit=&before=
func AdminHistoryHandler(w http.ResponseWriter, r *http.Request) {
	nickFilter := r.URL.Query().Get("nick")
	before := r.URL.Query().Get("before")

	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	records, err := services.History(nickFilter, limit, before)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load history: %v", err))
		return
	}
	if records == nil {
		records = []models.CheckinRecord{}
	}
	respondWithJSON(w, http.StatusOK, records)
}

// DeleteByIDsHandler removes an explicit selection of rows.
// POST /api/admin/delete  {"ids":[...],"reason":"...","confirm":"DELETE"}
func DeleteByIDsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteByIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	result, err := services.DeleteByIDs(req.IDs, config.AppConfig.Admin.User, req.Reason, req.Confirm)
	respondDeletion(w, result, err)
}

// DeleteBeforeHandler removes every row older than a cutoff date.
// POST /api/admin/delete-before  {"before":"YYYY-MM-DD","reason":"...","confirm":"DELETE"}
func DeleteBeforeHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteBeforeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.Before == "" {
		respondWithError(w, http.StatusBadRequest, "Missing 'before' date")
		return
	}

	result, err := services.DeleteBefore(req.Before, config.AppConfig.Admin.User, req.Reason, req.Confirm)
	respondDeletion(w, result, err)
}

// DeleteAllHandler wipes the whole ledger after backup and audit.
// POST /api/admin/delete-all  {"confirm":"DELETE ALL"}
func DeleteAllHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	result, err := services.DeleteAll(config.AppConfig.Admin.User, req.Confirm)
	respondDeletion(w, result, err)
}

func respondDeletion(w http.ResponseWriter, result *services.DeletionResult, err error) {
	switch {
	case errors.Is(err, services.ErrConfirmationMismatch):
		respondWithError(w, http.StatusBadRequest, "Confirmation text does not match; deletion aborted")
	case errors.Is(err, services.ErrEmptySelection):
		respondWithError(w, http.StatusBadRequest, "No rows selected for deletion")
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Deletion failed: %v", err))
	default:
		respondWithJSON(w, http.StatusOK, models.DeleteResponse{
			Removed:    result.Removed,
			BackupPath: result.BackupPath,
		})
	}
}

// DeletionLogHandler exposes the audit trail, newest first.
// GET /api/admin/deletions?limit=
func DeletionLogHandler(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	entries, err := services.DeletionLog(limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load deletion log: %v", err))
		return
	}
	if entries == nil {
		entries = []models.DeletionAuditEntry{}
	}
	respondWithJSON(w, http.StatusOK, entries)
}

// ExportHandler streams the full ledger as a CSV download.
// GET /api/admin/export
func ExportHandler(w http.ResponseWriter, r *http.Request) {
	data, filename, err := services.ExportHistoryCSV()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to export history: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
