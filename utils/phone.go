// backend/utils/phone.go
package utils

import "strings"

// NormalizePhoneNumber strips spaces and hyphens from a phone number so
// it can be handed to the SMS gateway, which expects bare digits (with an
// optional leading "+"). The ledger itself stores phone numbers verbatim;
// this is only applied on the way out.
func NormalizePhoneNumber(tel string) string {
	cleaned := strings.TrimSpace(tel)
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	return cleaned
}
