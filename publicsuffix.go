// Package publicsuffix determines the public suffix and the registrable
// domain of a host name using the rules found at:
//
//	https://publicsuffix.org/
//
// Lookups run against an immutable List compiled from a rule source. The
// package ships with an embedded snapshot of the list which may be out of
// date - callers should use Update to attempt to fetch a new version from the
// official GitHub repository. Alternate data sources (such as a network
// share, etc) can be used by implementing the ListRetriever interface.
//
// A list can be serialised using Write, and loaded using Read - this allows
// the caller to write the updated list to disk at shutdown and resume using
// it immediately on the next start.
//
// All exported functions are concurrency safe and the process-wide default
// list is swapped atomically during updates to avoid blocking queries.
package publicsuffix

import (
	"fmt"
	"io"
	"strings"
)

// LookupOptions selects the matching behaviour of a single query.
type LookupOptions struct {
	// Wildcard honours wildcard rules. When false, "*.foo" rules are ignored
	// as if absent, leaving only exact and exception rules.
	Wildcard bool

	// Strict disables the implicit "*" rule, so a domain matched by no
	// explicit rule yields no result instead of falling back to its last
	// label.
	Strict bool
}

// DefaultLookupOptions are the options used when a nil *LookupOptions is
// given: wildcard rules are honoured and unlisted TLDs fall back to the
// implicit "*" rule, as prescribed by publicsuffix.org.
var DefaultLookupOptions = &LookupOptions{Wildcard: true, Strict: false}

// Match describes the rule that decided a lookup.
type Match struct {
	// Labels is the number of labels in the public suffix, counted from the
	// right of the queried domain.
	Labels int

	// Exception is true when an exception rule cut a wildcard short.
	Exception bool

	// ICANN is true when the deciding rule sits in the ICANN section of the
	// list. It is false for rules from the private domains section and for
	// the implicit "*" rule.
	ICANN bool
}

// List is a compiled public suffix list. It is immutable once built and safe
// for concurrent use without locking.
type List struct {
	trie    *trie
	rules   []Rule
	idna    bool
	release string
}

// NewList parses a public suffix list from r and compiles it. A nil opts is
// equivalent to DefaultParseOptions.
func NewList(r io.Reader, opts *ParseOptions) (*List, error) {
	var rules, err = Parse(r, opts)
	if err != nil {
		return nil, err
	}

	return NewListFromRules(rules, opts), nil
}

// NewListFromString is NewList for an in-memory rule source.
func NewListFromString(src string, opts *ParseOptions) (*List, error) {
	return NewList(strings.NewReader(src), opts)
}

// NewListFromRules compiles a list from already parsed rules. The opts only
// carry the IDNA flag, which decides whether queries against the list are
// ASCII-encoded before matching; it should be the same value the rules were
// parsed with.
func NewListFromRules(rules []Rule, opts *ParseOptions) *List {
	if opts == nil {
		opts = DefaultParseOptions
	}

	return &List{
		trie:  newTrie(rules),
		rules: append([]Rule(nil), rules...),
		idna:  opts.IDNA,
	}
}

// Release returns the release tag of the source the list was built from, if
// one was recorded.
func (l *List) Release() string {
	return l.release
}

// Size returns the number of rules in the list.
func (l *List) Size() int {
	return len(l.rules)
}

// Lookup normalises domain and returns the Match of the longest applicable
// rule. The second result is false when the domain yields no suffix at all:
// it could not be normalised, or no explicit rule matched and the implicit
// "*" rule was disabled through opts.Strict.
//
// A nil opts is equivalent to DefaultLookupOptions.
func (l *List) Lookup(domain string, opts *LookupOptions) (Match, bool) {
	var norm, ok = normalizeDomain(domain, l.idna)
	if !ok {
		return Match{}, false
	}

	return l.LookupNormalized(norm, opts)
}

// LookupNormalized is Lookup without the normalisation pass, for callers that
// already hold a lower case, ASCII-encoded domain free of leading and
// trailing dots. Domains that violate that contract yield no match.
func (l *List) LookupNormalized(domain string, opts *LookupOptions) (Match, bool) {
	if opts == nil {
		opts = DefaultLookupOptions
	}

	if !validNormalized(domain) {
		return Match{}, false
	}

	var m, ok = l.trie.lookup(domain, opts.Wildcard)
	if !ok || m.Labels == 0 {
		// An exception rule directly below the root selects an empty suffix;
		// treat it like no match so the fallback stays well-defined.
		if opts.Strict {
			return Match{}, false
		}

		return Match{Labels: 1}, true
	}

	return m, true
}

// PublicSuffix returns the public suffix of domain: the part of the name
// under which registrations happen, such as "com" or "co.uk". The second
// result is false when the domain yields no suffix; see Lookup.
//
// The suffix is returned in normalised form. Whether the deciding rule is
// ICANN-managed or private is reported by Lookup.
func (l *List) PublicSuffix(domain string, opts *LookupOptions) (string, bool) {
	var norm, ok = normalizeDomain(domain, l.idna)
	if !ok {
		return "", false
	}

	return l.PublicSuffixNormalized(norm, opts)
}

// PublicSuffixNormalized is PublicSuffix without the normalisation pass.
func (l *List) PublicSuffixNormalized(domain string, opts *LookupOptions) (string, bool) {
	var m, ok = l.LookupNormalized(domain, opts)
	if !ok {
		return "", false
	}

	return domain[suffixIndex(domain, m.Labels):], true
}

// TopLevelDomain returns the effective top level domain of domain. It is the
// same derivation as PublicSuffix under a different name, kept so that code
// written against other public suffix libraries reads naturally.
func (l *List) TopLevelDomain(domain string, opts *LookupOptions) (string, bool) {
	return l.PublicSuffix(domain, opts)
}

// RegistrableDomain returns the shortest name that a registrant can hold
// under the matched suffix: the suffix plus one label. When the domain is
// itself a public suffix it is returned unchanged, so the result is usable
// as a grouping key for any input that yields a match.
func (l *List) RegistrableDomain(domain string, opts *LookupOptions) (string, bool) {
	var norm, ok = normalizeDomain(domain, l.idna)
	if !ok {
		return "", false
	}

	return l.RegistrableDomainNormalized(norm, opts)
}

// RegistrableDomainNormalized is RegistrableDomain without the normalisation
// pass.
func (l *List) RegistrableDomainNormalized(domain string, opts *LookupOptions) (string, bool) {
	var m, ok = l.LookupNormalized(domain, opts)
	if !ok {
		return "", false
	}

	var i = suffixIndex(domain, m.Labels)
	if i == 0 {
		return domain, true
	}

	if dot := strings.LastIndexByte(domain[:i-1], '.'); dot != -1 {
		return domain[dot+1:], true
	}

	return domain, true
}

// EffectiveTLDPlusOne returns the effective top level domain plus one more
// label. For example, the eTLD+1 for "foo.bar.golang.org" is "golang.org".
// Unlike RegistrableDomain it reports an error when domain is itself a
// public suffix, matching the behaviour of golang.org/x/net/publicsuffix.
func (l *List) EffectiveTLDPlusOne(domain string) (string, error) {
	var norm, ok = normalizeDomain(domain, l.idna)
	if !ok {
		return "", fmt.Errorf("publicsuffix: cannot parse domain %q", domain)
	}

	suffix, ok := l.PublicSuffixNormalized(norm, nil)
	if !ok || len(norm) <= len(suffix) {
		return "", fmt.Errorf("publicsuffix: cannot derive eTLD+1 for domain %q", domain)
	}

	var i = len(norm) - len(suffix) - 1
	if norm[i] != '.' {
		return "", fmt.Errorf("publicsuffix: invalid public suffix %q for domain %q", suffix, norm)
	}

	return norm[1+strings.LastIndex(norm[:i], "."):], nil
}

// HasPublicSuffix returns true if domain is covered by an explicit rule of
// the list. The implicit "*" rule does not count.
func (l *List) HasPublicSuffix(domain string) bool {
	var _, ok = l.Lookup(domain, &LookupOptions{Wildcard: true, Strict: true})

	return ok
}

// validNormalized reports whether domain satisfies the *Normalized input
// contract as far as label shape goes: non-empty, with no empty labels.
func validNormalized(domain string) bool {
	if domain == "" || domain[0] == '.' || domain[len(domain)-1] == '.' {
		return false
	}

	return !strings.Contains(domain, "..")
}

// suffixIndex returns the byte offset at which the labels-long suffix of
// domain starts.
func suffixIndex(domain string, labels int) int {
	if labels <= 0 {
		return len(domain)
	}

	var end = len(domain)
	for ; labels > 0; labels-- {
		var dot = strings.LastIndexByte(domain[:end], '.')
		if dot == -1 {
			return 0
		}
		end = dot
	}

	return end + 1
}
