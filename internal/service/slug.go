package service

import (
	"crypto/rand"
	"strings"

	"github.com/mr-tron/base58"
)

// slugify lowercases s and reduces it to hyphen-separated alphanumeric runs.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// slugSuffix returns a short random base58 tag used to disambiguate generated
// slugs, e.g. the personal organization created at registration.
func slugSuffix() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return strings.ToLower(base58.Encode(b))
}

// personalSlug builds the slug for a user's personal organization:
// "<name>-organization-<suffix>".
func personalSlug(name string) string {
	base := slugify(name)
	if base == "" {
		base = "personal"
	}
	return base + "-organization-" + slugSuffix()
}
