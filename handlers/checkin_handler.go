// backend/handlers/checkin_handler.go
package handlers

import (
	"net/http"

	"github.com/ktnaka/anpi/backend/config"
	"github.com/ktnaka/anpi/backend/models"
	"github.com/ktnaka/anpi/backend/notify"
	"github.com/ktnaka/anpi/backend/services"
)

const sessionCookieName = "anpi_session"

// CheckinHandler is the landing endpoint for scanned QR links.
// GET /checkin?nick=...&addr=...&school=...&tel=...
// Opening the link records a "safe" status event for the carried
// identity; refreshing the page within the same minute is a no-op thanks
// to the session-scoped dedup gate.
func CheckinHandler(w http.ResponseWriter, r *http.Request) {
	rawParams := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			rawParams[key] = values[0]
		}
	}
	fields := services.NormalizeParams(rawParams)

	sess := resolveSession(w, r)

	resp := models.CheckinResponse{Identity: fields}

	// Matching the original flow: a bare page load without identity shows
	// the page but records nothing.
	if fields.Nick != "" {
		rec, registered, err := services.RegisterCheckin(sess, fields, rawParams, r.UserAgent())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to register checkin: "+err.Error())
			return
		}
		resp.Registered = registered
		if rec != nil {
			resp.RecordID = rec.ID
			// Notification is best effort and never blocks the response.
			go notify.SendSafeNotification(rec.ID, rec.Tel, rec.Nick)
		}
	}

	history, err := services.RecentHistory(fields.Nick, config.AppConfig.Checkin.HistoryLimit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load history: "+err.Error())
		return
	}
	if history == nil {
		history = []models.CheckinRecord{}
	}
	resp.History = history

	respondWithJSON(w, http.StatusOK, resp)
}

// resolveSession reads the session cookie, falling back to a freshly
// issued session (and cookie) when absent or expired.
func resolveSession(w http.ResponseWriter, r *http.Request) *services.Session {
	var sessionID string
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	sess := services.GetOrCreateSession(sessionID, config.AppConfig.Checkin.SessionTTL)
	if sess.ID != sessionID {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
		})
	}
	return sess
}
