package publicsuffix

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// normalizeDomain applies the query-side canonicalisation: it trims leading
// and trailing dots, lowercases ASCII letters and, when useIDNA is set,
// converts any remaining unicode to its ASCII (Punycode) form. The ok result
// is false when nothing usable remains.
//
// Interior empty labels ("google..com") are left in place; rejecting them is
// the job of the lookup entry points.
func normalizeDomain(domain string, useIDNA bool) (string, bool) {
	domain = strings.Trim(domain, ".")
	if domain == "" {
		return "", false
	}

	domain = lowerASCII(domain)

	if useIDNA && !isASCII(domain) {
		// Best effort: a name the IDNA tables cannot encode is kept as-is
		// and simply won't match any encoded rule.
		if ascii, err := idna.ToASCII(domain); err == nil {
			domain = ascii
		}
	}

	return domain, true
}

// lowerASCII lowercases the bytes 'A' to 'Z' and leaves everything else,
// including multi-byte runes, untouched. It only allocates when domain
// actually contains an upper case letter.
func lowerASCII(domain string) string {
	var upper = false
	for i := 0; i < len(domain); i++ {
		if c := domain[i]; 'A' <= c && c <= 'Z' {
			upper = true
			break
		}
	}
	if !upper {
		return domain
	}

	var b = []byte(domain)
	for i := 0; i < len(b); i++ {
		if 'A' <= b[i] && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}

	return string(b)
}

// isASCII reports whether domain is free of multi-byte runes.
func isASCII(domain string) bool {
	for i := 0; i < len(domain); i++ {
		if domain[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}
