//go:build gofuzz

package publicsuffix

import (
	"fmt"
	"sync"

	wpsl "github.com/weppos/publicsuffix-go/publicsuffix"
)

// Both lists are built from the same embedded snapshot, so any disagreement
// found while fuzzing is a matching bug rather than data drift.
var (
	fuzzOnce      sync.Once
	fuzzLocal     *List
	fuzzReference *wpsl.List
)

func fuzzInit() {
	var err error

	fuzzLocal, err = NewListFromString(embeddedList, nil)
	if err != nil {
		panic(err)
	}

	fuzzReference, err = wpsl.NewListFromString(embeddedList, &wpsl.ParserOption{PrivateDomains: true})
	if err != nil {
		panic(err)
	}
}

func Fuzz(in []byte) int {
	fuzzOnce.Do(fuzzInit)

	var domain, ok = normalizeDomain(string(in), true)
	if !ok || !validNormalized(domain) || !isASCII(domain) {
		return -1
	}

	var suffix, _ = fuzzLocal.PublicSuffixNormalized(domain, nil)
	var sld, _ = fuzzLocal.RegistrableDomainNormalized(domain, nil)

	var dn, err = wpsl.ParseFromListWithOptions(fuzzReference, domain, nil)
	if err != nil {
		// The reference reports names that are themselves a suffix as an
		// error; here such names come back unchanged.
		if suffix != domain || sld != domain {
			panic(fmt.Sprintf("suffix-only mismatch for %q: suffix %q, sld %q; reference: %v",
				domain, suffix, sld, err))
		}

		return 0
	}

	if suffix != dn.TLD {
		panic(fmt.Sprintf("suffix mismatch for %q: got %q, want %q", domain, suffix, dn.TLD))
	}

	if want := dn.SLD + "." + dn.TLD; sld != want {
		panic(fmt.Sprintf("sld mismatch for %q: got %q, want %q", domain, sld, want))
	}

	return 1
}
