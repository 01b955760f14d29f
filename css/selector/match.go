package selector

import (
	"strings"

	"golang.org/x/text/language"
)

// Position locates an element among its element siblings.
// All indices are 1-based.
type Position struct {
	Index, Count         int // among all siblings
	TypeIndex, TypeCount int // among siblings with the same local name
}

// Tree is the document view required to match selectors.
// Elements are addressed by index, and negative indices stand for
// "no element". Implementations must be safe for concurrent reads.
type Tree interface {
	// Parent returns the parent element, or -1 for the root.
	Parent(n int) int
	// PrevElement returns the previous element sibling, or -1.
	PrevElement(n int) int
	// LocalName returns the lower cased tag name.
	LocalName(n int) string
	ID(n int) string
	HasClass(n int, class string) bool
	Attr(n int, name string) (string, bool)
	// Position is precomputed when the tree is built, so that
	// structural pseudo-classes never walk the siblings.
	Position(n int) Position
	// IsEmpty is true when the element has no element children
	// and no text.
	IsEmpty(n int) bool
	// Lang returns the language of the element, inherited from
	// its ancestors, or "" if unknown.
	Lang(n int) string
}

type combinator byte

const (
	descendant     combinator = ' '
	child          combinator = '>'
	nextSibling    combinator = '+'
	subsequentSibl combinator = '~'
)

// Selector is a compiled complex selector, such as "div > p.note::before".
// It is immutable and safe for concurrent use.
type Selector struct {
	compounds   []compound   // left to right
	combinators []combinator // combinators[i] joins compounds[i] and compounds[i+1]

	specificity   Specificity
	pseudoElement string
}

// SelectorGroup is a selector list.
type SelectorGroup []Selector

// Specificity is computed once, at parse time.
func (s Selector) Specificity() Specificity { return s.specificity }

// PseudoElement returns the pseudo-element targeted by the selector,
// or an empty string.
func (s Selector) PseudoElement() string { return s.pseudoElement }

// Match returns true if the element [n] matches the selector,
// ignoring any pseudo-element.
func (s Selector) Match(t Tree, n int) bool {
	return s.matchAt(t, n, len(s.compounds)-1)
}

func (s Selector) matchAt(t Tree, n int, i int) bool {
	if !s.compounds[i].match(t, n) {
		return false
	}
	if i == 0 {
		return true
	}
	switch s.combinators[i-1] {
	case descendant:
		for p := t.Parent(n); p >= 0; p = t.Parent(p) {
			if s.matchAt(t, p, i-1) {
				return true
			}
		}
	case child:
		p := t.Parent(n)
		return p >= 0 && s.matchAt(t, p, i-1)
	case nextSibling:
		p := t.PrevElement(n)
		return p >= 0 && s.matchAt(t, p, i-1)
	case subsequentSibl:
		for p := t.PrevElement(n); p >= 0; p = t.PrevElement(p) {
			if s.matchAt(t, p, i-1) {
				return true
			}
		}
	}
	return false
}

// Match returns true if one of the selectors matches.
func (g SelectorGroup) Match(t Tree, n int) bool {
	for _, sel := range g {
		if sel.Match(t, n) {
			return true
		}
	}
	return false
}

// MatchWithSpecificity return `true` if `n` matches `g`.
// In this case, the greatest specificity (among the sub-selectors matching `n`)
// is returned.
func (g SelectorGroup) MatchWithSpecificity(t Tree, n int) (bool, Specificity) {
	var (
		maxSpec Specificity
		found   bool
	)
	for _, sel := range g {
		if sel.Match(t, n) {
			found = true
			if maxSpec.Less(sel.specificity) {
				maxSpec = sel.specificity
			}
		}
	}
	return found, maxSpec
}

// KeyKind is the kind of the most selective feature of
// the rightmost compound selector.
type KeyKind uint8

const (
	KeyUniversal KeyKind = iota
	KeyType
	KeyClass
	KeyID
)

// Key returns the most selective feature of the rightmost compound,
// preferring id, then class, then type. Any element matching the
// selector has this feature.
func (s Selector) Key() (KeyKind, string) {
	last := s.compounds[len(s.compounds)-1]
	var class string
	for _, sel := range last.simples {
		switch sel := sel.(type) {
		case idSelector:
			return KeyID, string(sel)
		case classSelector:
			if class == "" {
				class = string(sel)
			}
		}
	}
	if class != "" {
		return KeyClass, class
	}
	if last.tag != "" {
		return KeyType, last.tag
	}
	return KeyUniversal, ""
}

// compound is a sequence of simple selectors not separated by a combinator.
type compound struct {
	tag           string // empty for universal
	simples       []simple
	pseudoElement string
}

func (c compound) match(t Tree, n int) bool {
	if c.tag != "" && t.LocalName(n) != c.tag {
		return false
	}
	for _, s := range c.simples {
		if !s.match(t, n) {
			return false
		}
	}
	return true
}

func (c compound) specificity() Specificity {
	var out Specificity
	if c.tag != "" {
		out[2]++
	}
	if c.pseudoElement != "" {
		out[2]++
	}
	for _, s := range c.simples {
		out = out.Add(s.specificity())
	}
	return out
}

// simple is a simple selector, other than a type selector.
type simple interface {
	match(t Tree, n int) bool
	specificity() Specificity
}

type idSelector string

func (s idSelector) match(t Tree, n int) bool { return t.ID(n) == string(s) }
func (idSelector) specificity() Specificity   { return Specificity{1, 0, 0} }

type classSelector string

func (s classSelector) match(t Tree, n int) bool { return t.HasClass(n, string(s)) }
func (classSelector) specificity() Specificity   { return Specificity{0, 1, 0} }

type attrOp byte

const (
	opExists    attrOp = 0
	opEqual     attrOp = '='
	opIncludes  attrOp = '~'
	opDashMatch attrOp = '|'
	opPrefix    attrOp = '^'
	opSuffix    attrOp = '$'
	opSubstring attrOp = '*'
)

type attrSelector struct {
	key, value  string // value is lower cased when insensitive
	op          attrOp
	insensitive bool
}

func (attrSelector) specificity() Specificity { return Specificity{0, 1, 0} }

func (s attrSelector) match(t Tree, n int) bool {
	val, ok := t.Attr(n, s.key)
	if !ok {
		return false
	}
	if s.insensitive {
		val = strings.ToLower(val)
	}
	switch s.op {
	case opExists:
		return true
	case opEqual:
		return val == s.value
	case opIncludes:
		for _, word := range strings.Fields(val) {
			if word == s.value {
				return true
			}
		}
		return false
	case opDashMatch:
		return val == s.value || strings.HasPrefix(val, s.value+"-")
	case opPrefix:
		return s.value != "" && strings.HasPrefix(val, s.value)
	case opSuffix:
		return s.value != "" && strings.HasSuffix(val, s.value)
	case opSubstring:
		return s.value != "" && strings.Contains(val, s.value)
	}
	return false
}

type pseudoClass string

func (pseudoClass) specificity() Specificity { return Specificity{0, 1, 0} }

func (s pseudoClass) match(t Tree, n int) bool {
	switch s {
	case "root":
		return t.Parent(n) < 0
	case "empty":
		return t.IsEmpty(n)
	case "first-child":
		return t.Position(n).Index == 1
	case "last-child":
		pos := t.Position(n)
		return pos.Index == pos.Count
	case "only-child":
		return t.Position(n).Count == 1
	case "first-of-type":
		return t.Position(n).TypeIndex == 1
	case "last-of-type":
		pos := t.Position(n)
		return pos.TypeIndex == pos.TypeCount
	case "only-of-type":
		return t.Position(n).TypeCount == 1
	case "link", "any-link":
		switch t.LocalName(n) {
		case "a", "area", "link":
			_, ok := t.Attr(n, "href")
			return ok
		}
		return false
	case "checked":
		switch t.LocalName(n) {
		case "input":
			_, ok := t.Attr(n, "checked")
			return ok
		case "option":
			_, ok := t.Attr(n, "selected")
			return ok
		}
		return false
	case "disabled", "enabled":
		switch t.LocalName(n) {
		case "button", "input", "select", "textarea", "optgroup", "option", "fieldset":
			_, disabled := t.Attr(n, "disabled")
			return disabled == (s == "disabled")
		}
		return false
	}
	return false
}

// neverMatch is a dynamic pseudo-class, such as :hover.
type neverMatch string

func (neverMatch) specificity() Specificity { return Specificity{0, 1, 0} }
func (neverMatch) match(Tree, int) bool     { return false }

type nthSelector struct {
	a, b         int
	last, ofType bool
}

func (nthSelector) specificity() Specificity { return Specificity{0, 1, 0} }

func (s nthSelector) match(t Tree, n int) bool {
	pos := t.Position(n)
	var index int
	switch {
	case s.ofType && s.last:
		index = pos.TypeCount - pos.TypeIndex + 1
	case s.ofType:
		index = pos.TypeIndex
	case s.last:
		index = pos.Count - pos.Index + 1
	default:
		index = pos.Index
	}
	return nthMatches(s.a, s.b, index)
}

type notSelector struct{ group SelectorGroup }

func (s notSelector) match(t Tree, n int) bool { return !s.group.Match(t, n) }
func (s notSelector) specificity() Specificity { return maxSpecificity(s.group) }

type isSelector struct{ group SelectorGroup }

func (s isSelector) match(t Tree, n int) bool { return s.group.Match(t, n) }
func (s isSelector) specificity() Specificity { return maxSpecificity(s.group) }

type whereSelector struct{ group SelectorGroup }

func (s whereSelector) match(t Tree, n int) bool { return s.group.Match(t, n) }
func (whereSelector) specificity() Specificity   { return Specificity{} }

// langSelector implements :lang(), comparing canonical BCP 47 tags
// by prefix on subtag boundaries.
type langSelector struct{ lang string }

func newLangSelector(lang string) langSelector {
	return langSelector{lang: canonicalLang(lang)}
}

func canonicalLang(lang string) string {
	if tag, err := language.Parse(lang); err == nil {
		lang = tag.String()
	}
	return strings.ToLower(lang)
}

func (langSelector) specificity() Specificity { return Specificity{0, 1, 0} }

func (s langSelector) match(t Tree, n int) bool {
	lang := t.Lang(n)
	if lang == "" {
		return false
	}
	lang = canonicalLang(lang)
	return lang == s.lang || strings.HasPrefix(lang, s.lang+"-")
}
