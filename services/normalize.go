// backend/services/normalize.go
package services

import "github.com/ktnaka/anpi/backend/models"

// identityAliases enumerates the accepted query parameter names for each
// canonical identity field, in priority order. The first alias present in
// the incoming parameters wins; later matches are ignored.
var identityAliases = []struct {
	field   string
	aliases []string
}{
	{"nick", []string{"nick", "n", "name"}},
	{"addr", []string{"addr", "a", "address"}},
	{"school", []string{"school", "s"}},
	{"tel", []string{"tel", "p", "phone"}},
}

// NormalizeParams maps an arbitrary set of incoming key-value parameters
// onto the canonical identity record. Fields with no matching alias come
// back as "". This is a structural mapping only; the values are free text
// and are not validated or sanitized here.
func NormalizeParams(params map[string]string) models.IdentityFields {
	var fields models.IdentityFields
	for _, entry := range identityAliases {
		var value string
		for _, alias := range entry.aliases {
			if v, ok := params[alias]; ok {
				value = v
				break
			}
		}
		switch entry.field {
		case "nick":
			fields.Nick = value
		case "addr":
			fields.Addr = value
		case "school":
			fields.School = value
		case "tel":
			fields.Tel = value
		}
	}
	return fields
}
