package format

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// InvoiceReference builds a receipt reference from its creation time and
// record ID: FAC-YYYYMM-XXXXXXXX, where the suffix is the first eight
// characters of the ID without dashes, upper-cased. An empty ID gives
// the suffix XXXXXX.
func InvoiceReference(created time.Time, id string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	if suffix == "" {
		suffix = "XXXXXX"
	}
	return fmt.Sprintf("FAC-%04d%02d-%s", created.Year(), int(created.Month()), suffix)
}

// Surname makes s safe for use inside a file name. It keeps letters, digits,
// dashes and underscores, turns spaces into dashes and returns fallback when
// nothing is left.
func Surname(s, fallback string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r > 127 && unicode.IsLetter(r):
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
