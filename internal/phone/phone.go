// Package phone derives the privacy-preserving identifiers used to join
// subscriber rows with notification logs.
package phone

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Hash returns the lowercase hex MD5 digest of the raw phone string. The
// warehouse computes the same value with lower(to_hex(md5(to_utf8(phone)))),
// so the input must not be normalised first.
func Hash(raw string) string {
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ToE164 converts a national number with a leading trunk 0 into E.164 form
// using countryCode (digits only, e.g. "44"). Numbers already starting with
// "+" or "00" are normalised to "+" and returned unchanged otherwise.
func ToE164(raw, countryCode string) string {
	n := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(n, "+"):
		return n
	case strings.HasPrefix(n, "00"):
		return "+" + n[2:]
	case strings.HasPrefix(n, "0"):
		return "+" + countryCode + n[1:]
	default:
		return "+" + countryCode + n
	}
}
