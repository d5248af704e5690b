package publicsuffix

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// RuleType discriminates the three kinds of entry found in the public suffix
// list.
type RuleType uint8

const (
	// NormalType rules match their labels exactly.
	NormalType RuleType = iota

	// WildcardType rules match any single label directly below their stored
	// labels.
	WildcardType

	// ExceptionType rules cancel a wildcard rule covering the same name; the
	// suffix they select excludes their own leftmost label.
	ExceptionType
)

// Rule is a single parsed entry of the public suffix list.
//
// Labels holds the domain labels in their written order, so Labels[0] is the
// leftmost label and Labels[len-1] the TLD. The leading "*." of a wildcard
// rule and the leading "!" of an exception rule are recorded in Type, not in
// Labels.
type Rule struct {
	Labels []string
	Type   RuleType
	ICANN  bool
}

// String returns the rule in its public suffix list source form.
func (r Rule) String() string {
	var name = strings.Join(r.Labels, ".")

	switch r.Type {
	case WildcardType:
		return "*." + name
	case ExceptionType:
		return "!" + name
	default:
		return name
	}
}

// ParseOptions controls how Parse canonicalises rule names.
type ParseOptions struct {
	// IDNA converts rule names to their ASCII (Punycode) form, so that the
	// unicode entries of the official list and ASCII-encoded query domains
	// agree on a single canonical spelling. When false, unicode names are
	// kept as written and match queries byte for byte.
	IDNA bool
}

// DefaultParseOptions are the options used when a nil *ParseOptions is given.
var DefaultParseOptions = &ParseOptions{IDNA: true}

// ParseError reports that the rule source could not be read. Individual
// malformed lines never cause it - they are skipped.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("publicsuffix: reading list source: %s", e.Err.Error())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// icannBegin marks the beginning of ICANN domains in the public suffix list
// source file.
const icannBegin = "BEGIN ICANN DOMAINS"

// icannEnd marks the ending of ICANN domains in the public suffix list
// source file.
const icannEnd = "END ICANN DOMAINS"

// validSuffixRE is used to check that the entries in the public suffix
// list are in canonical form (after Punycode encoding). Specifically,
// capital letters are not allowed.
var validSuffixRE = regexp.MustCompile(`^[a-z0-9_\!\*\-\.]+$`)

// validSuffixName checks that a rule name is in canonical form. ASCII names
// must match validSuffixRE. Names may still hold unicode labels when the
// parser is not IDNA-encoding; those must be valid UTF-8, and any ASCII
// bytes in them are held to the same canonical set.
func validSuffixName(name string) bool {
	if isASCII(name) {
		return validSuffixRE.MatchString(name)
	}

	if !utf8.ValidString(name) {
		return false
	}

	for i := 0; i < len(name); i++ {
		var c = name[i]
		if c >= utf8.RuneSelf {
			continue
		}
		if !('a' <= c && c <= 'z' || '0' <= c && c <= '9' ||
			c == '.' || c == '-' || c == '_' || c == '!' || c == '*') {
			return false
		}
	}

	return true
}

// Parse reads one rule per line from r, in the format published at
// https://publicsuffix.org/list/. Empty lines and comment lines are ignored,
// as are the surrounding ICANN section markers, which only set the ICANN flag
// of the rules they enclose. Lines that do not form a well-formed rule are
// skipped.
//
// A nil opts is equivalent to DefaultParseOptions.
func Parse(r io.Reader, opts *ParseOptions) ([]Rule, error) {
	if opts == nil {
		opts = DefaultParseOptions
	}

	var rules []Rule
	var icann = false
	var scanner = bufio.NewScanner(r)

	for scanner.Scan() {
		var line = strings.TrimSpace(scanner.Text())

		if strings.Contains(line, icannBegin) {
			icann = true
			continue
		}

		if strings.Contains(line, icannEnd) {
			icann = false
			continue
		}

		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		// Everything after the name is a comment per the list format.
		if i := strings.IndexByte(line, ' '); i != -1 {
			line = line[:i]
		}

		var rule, ok = parseRule(line, opts.IDNA)
		if !ok {
			continue
		}

		rule.ICANN = icann
		rules = append(rules, rule)
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Err: err}
	}

	return rules, nil
}

// parseRule classifies and splits a single non-comment line. Lines with
// empty labels, stray markers or characters outside the canonical set report
// ok as false.
func parseRule(line string, useIDNA bool) (Rule, bool) {
	var rule Rule

	switch {
	case strings.HasPrefix(line, "!"):
		rule.Type = ExceptionType
		line = line[1:]
	case strings.HasPrefix(line, "*."):
		rule.Type = WildcardType
		line = line[2:]
	default:
		rule.Type = NormalType
	}

	line = lowerASCII(line)

	if useIDNA && !isASCII(line) {
		var ascii, err = idna.ToASCII(line)
		if err != nil {
			return Rule{}, false
		}
		line = ascii
	}

	if line == "" || !validSuffixName(line) {
		return Rule{}, false
	}

	var labels = strings.Split(line, ".")
	for _, label := range labels {
		if label == "" || strings.ContainsAny(label, "*!") {
			return Rule{}, false
		}
	}

	rule.Labels = labels

	return rule, true
}
