// backend/handlers/qr_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/ktnaka/anpi/backend/config"
	"github.com/ktnaka/anpi/backend/qrcards"
	"github.com/ktnaka/anpi/backend/services"
)

// maxRosterUploadBytes caps roster uploads at 10 MiB.
const maxRosterUploadBytes = 10 << 20

// QRImageHandler returns a single QR code PNG for the identity carried in
// the query string.
// GET /api/qr/image?nick=...&addr=...&school=...&tel=...
func QRImageHandler(w http.ResponseWriter, r *http.Request) {
	rawParams := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			rawParams[key] = values[0]
		}
	}
	fields := services.NormalizeParams(rawParams)
	if fields.Nick == "" {
		respondWithError(w, http.StatusBadRequest, "Missing nickname parameter")
		return
	}

	confirmURL := qrcards.BuildConfirmURL(config.AppConfig.QR.ConfirmBaseURL, fields)
	png, err := qrcards.GenerateQRPNG(confirmURL)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate QR code: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// QRCardsHandler accepts a roster upload (multipart field "roster",
// .xlsx or .csv) and responds with a printable PDF of QR name cards.
// POST /api/qr/cards
func QRCardsHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxRosterUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart upload: "+err.Error())
		return
	}

	file, header, err := r.FormFile("roster")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing 'roster' file upload")
		return
	}
	defer file.Close()

	entries, err := qrcards.ParseRoster(file, header.Filename)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Could not parse roster: %v", err))
		return
	}
	if len(entries) == 0 {
		respondWithError(w, http.StatusBadRequest, "Roster contains no entries")
		return
	}

	cards, err := qrcards.BuildCards(entries, config.AppConfig.QR.ConfirmBaseURL)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to build QR cards: %v", err))
		return
	}
	pdf, err := qrcards.CreateCardPDF(cards)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to render card PDF: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="qr_cards.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
