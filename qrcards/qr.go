// backend/qrcards/qr.go
package qrcards

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// GenerateQRPNG renders the given data (normally a confirm URL) as a PNG
// QR code.
func GenerateQRPNG(data string) ([]byte, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
