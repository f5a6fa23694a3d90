// backend/qrcards/pdf.go
package qrcards

import (
	"bytes"
	"fmt"
	"log"

	"github.com/go-pdf/fpdf"
)

// Credit card sized pages, one card per participant.
const (
	cardWidthMM  = 85.6
	cardHeightMM = 54.0
	qrSizeMM     = 30.0
)

// Card pairs a roster entry with its rendered QR image.
type Card struct {
	Entry RosterEntry
	QRPNG []byte
}

// BuildCards generates a QR image per roster entry, encoding the
// personalized confirm URL.
func BuildCards(entries []RosterEntry, confirmBaseURL string) ([]Card, error) {
	cards := make([]Card, 0, len(entries))
	for _, entry := range entries {
		png, err := GenerateQRPNG(BuildConfirmURL(confirmBaseURL, entry.Identity()))
		if err != nil {
			return nil, fmt.Errorf("failed to build QR card for %q: %w", entry.Nick, err)
		}
		cards = append(cards, Card{Entry: entry, QRPNG: png})
	}
	return cards, nil
}

// CreateCardPDF lays the cards out as a PDF, one credit-card-size page
// per participant, and returns the document bytes.
func CreateCardPDF(cards []Card) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: cardWidthMM, Ht: cardHeightMM},
	})

	for i, card := range cards {
		pdf.AddPage()

		imageName := fmt.Sprintf("qr_%d", i)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(card.QRPNG))
		pdf.ImageOptions(imageName, 50, 10, qrSizeMM, qrSizeMM, false, opts, 0, "")

		pdf.SetFont("Helvetica", "B", 14)
		pdf.Text(5, 14, card.Entry.Nick)

		pdf.SetFont("Helvetica", "", 8)
		pdf.Text(5, 20, card.Entry.School)
		pdf.Text(5, 24, "TEL: "+card.Entry.Tel)

		pdf.SetFont("Helvetica", "", 7)
		pdf.Text(50, 47, "Scan to check in")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render card PDF: %w", err)
	}

	log.Printf("Rendered QR card PDF with %d pages.\n", len(cards))
	return buf.Bytes(), nil
}
