package device

import "strings"

// narrowPlaceholder substitutes any character that does not fit a single
// byte when a descriptor string is narrowed.
const narrowPlaceholder = '?'

// narrow converts s to a single-byte-per-character representation.
// Code points above U+00FF and invalid encodings become the placeholder;
// everything else passes through unchanged. The result is never
// truncated and narrowing never fails.
func narrow(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		// Invalid encodings surface as U+FFFD and fall out here too.
		if r > 0xff {
			b.WriteByte(narrowPlaceholder)
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
