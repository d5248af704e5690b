package publicsuffix

import "strings"

// node is one label position in the suffix trie. The tree is keyed right to
// left, so the children of the root are TLDs and each level below holds the
// next label towards the host name.
//
// A wildcard rule "*.foo" is stored as a flag on the "foo" node, not as a
// literal "*" child.
type node struct {
	children map[string]*node

	// terminal marks the end of a normal rule.
	terminal bool

	// exception marks the end of an exception rule. The suffix selected by
	// such a rule is the path to this node minus its own label.
	exception bool

	// wildcard reports that a wildcard rule exists one level below this node.
	wildcard bool

	icann         bool
	wildcardICANN bool
}

// trie is the compiled rule set.
type trie struct {
	root *node
}

func newTrie(rules []Rule) *trie {
	var t = &trie{root: &node{}}

	for _, rule := range rules {
		t.insert(rule)
	}

	return t
}

func (t *trie) insert(rule Rule) {
	if len(rule.Labels) == 0 {
		return
	}

	var n = t.root
	for i := len(rule.Labels) - 1; i >= 0; i-- {
		var label = rule.Labels[i]

		var child = n.children[label]
		if child == nil {
			if n.children == nil {
				n.children = make(map[string]*node)
			}
			child = &node{}
			n.children[label] = child
		}

		n = child
	}

	switch rule.Type {
	case WildcardType:
		n.wildcard = true
		n.wildcardICANN = rule.ICANN
	case ExceptionType:
		n.exception = true
		n.icann = rule.ICANN
	default:
		n.terminal = true
		n.icann = rule.ICANN
	}
}

// lookup walks domain right to left and returns the longest explicit rule
// match. domain must be normalized: lookup performs no case folding and must
// not see empty labels.
//
// The walk keeps the deepest terminal seen so far and, when the wildcard
// flag is set, treats a wildcard as matching whatever label comes next -
// unless that label is the start of an exception rule, which cancels the
// wildcard for its own name. Descending into an exception node ends the walk
// immediately: no longer rule can apply below it.
func (t *trie) lookup(domain string, wildcard bool) (Match, bool) {
	var n = t.root
	var matched int
	var icann bool
	var labels int

	var end = len(domain)
	for end > 0 {
		var start = strings.LastIndexByte(domain[:end], '.') + 1
		var label = domain[start:end]
		labels++

		var child = n.children[label]

		if wildcard && n.wildcard && (child == nil || !child.exception) {
			matched, icann = labels, n.wildcardICANN
		}

		if child == nil {
			break
		}

		n = child

		if n.exception {
			return Match{Labels: labels - 1, Exception: true, ICANN: n.icann}, true
		}

		if n.terminal && labels > matched {
			matched, icann = labels, n.icann
		}

		end = start - 1
	}

	if matched == 0 {
		return Match{}, false
	}

	return Match{Labels: matched, ICANN: icann}, true
}
