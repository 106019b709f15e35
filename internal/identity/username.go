package identity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CanonicalUsername is the uniqueness key of a username: trimmed, NFC
// normalised and case folded. The display form is stored separately.
func CanonicalUsername(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	return cases.Fold().String(name)
}
