// backend/qrcards/url.go
package qrcards

import (
	"net/url"

	"github.com/ktnaka/anpi/backend/models"
)

// BuildConfirmURL builds the personalized check-in link that gets encoded
// into a QR code. Scanning the link opens the check-in page with the
// identity fields carried in the query string.
func BuildConfirmURL(baseURL string, fields models.IdentityFields) string {
	params := url.Values{}
	params.Set("nick", fields.Nick)
	params.Set("addr", fields.Addr)
	params.Set("school", fields.School)
	params.Set("tel", fields.Tel)
	return baseURL + "?" + params.Encode()
}
