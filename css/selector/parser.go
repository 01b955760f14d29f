// Package selector implements CSS selectors: a parser producing
// compiled selectors with precomputed specificity, and a matcher
// working on any indexed document implementing [Tree].
package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benoitkugler/webstyle/utils"
)

// SyntaxError is returned for malformed or unsupported selectors.
type SyntaxError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid selector %q at position %d: %s", e.Input, e.Pos, e.Msg)
}

// supported pseudo-elements; the first four also accept the
// legacy single colon syntax
var pseudoElements = utils.NewSet("before", "after", "first-line", "first-letter", "marker")

// a parser for CSS selectors
type parser struct {
	s string // the source text
	i int    // the current position
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Input: p.s, Pos: p.i, Msg: fmt.Sprintf(format, args...)}
}

// ParseGroup parses a selector list, such as "a, p.foo > em".
func ParseGroup(sel string) (SelectorGroup, error) {
	p := parser{s: sel}
	group, err := p.parseSelectorGroup()
	if err != nil {
		return nil, err
	}
	if p.i < len(p.s) {
		return nil, p.errorf("unexpected trailing %q", p.s[p.i:])
	}
	return group, nil
}

// Parse parses a single complex selector.
func Parse(sel string) (Selector, error) {
	p := parser{s: sel}
	p.skipWhitespace()
	out, err := p.parseSelector()
	if err != nil {
		return Selector{}, err
	}
	p.skipWhitespace()
	if p.i < len(p.s) {
		return Selector{}, p.errorf("unexpected trailing %q", p.s[p.i:])
	}
	return out, nil
}

// MustCompile is like [ParseGroup] but panics on error.
func MustCompile(sel string) SelectorGroup {
	group, err := ParseGroup(sel)
	if err != nil {
		panic(err)
	}
	return group
}

func (p *parser) parseSelectorGroup() (SelectorGroup, error) {
	var group SelectorGroup
	for {
		p.skipWhitespace()
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		group = append(group, sel)
		p.skipWhitespace()
		if p.i < len(p.s) && p.s[p.i] == ',' {
			p.i++
			continue
		}
		return group, nil
	}
}

// skipWhitespace consumes whitespace and comments, and reports
// whether any were found.
func (p *parser) skipWhitespace() bool {
	start := p.i
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case ' ', '\t', '\r', '\n', '\f':
			p.i++
			continue
		case '/':
			if strings.HasPrefix(p.s[p.i:], "/*") {
				end := strings.Index(p.s[p.i+2:], "*/")
				if end != -1 {
					p.i += end + 4
					continue
				}
			}
		}
		break
	}
	return p.i > start
}

// parseSelector parses a complex selector, stopping before ',' or ')'.
func (p *parser) parseSelector() (Selector, error) {
	first, err := p.parseCompound()
	if err != nil {
		return Selector{}, err
	}
	out := Selector{compounds: []compound{first}}
	for {
		hadSpace := p.skipWhitespace()
		if p.i >= len(p.s) {
			break
		}
		var comb combinator
		switch c := p.s[p.i]; c {
		case ',', ')':
			comb = 0
		case '>', '+', '~':
			comb = combinator(c)
			p.i++
			p.skipWhitespace()
		default:
			if !hadSpace {
				return Selector{}, p.errorf("unexpected character %q", c)
			}
			comb = descendant
		}
		if comb == 0 {
			break
		}
		if out.compounds[len(out.compounds)-1].pseudoElement != "" {
			return Selector{}, p.errorf("a pseudo-element must end the selector")
		}
		next, err := p.parseCompound()
		if err != nil {
			return Selector{}, err
		}
		out.compounds = append(out.compounds, next)
		out.combinators = append(out.combinators, comb)
	}

	for _, c := range out.compounds {
		out.specificity = out.specificity.Add(c.specificity())
	}
	out.pseudoElement = out.compounds[len(out.compounds)-1].pseudoElement
	return out, nil
}

func (p *parser) parseCompound() (compound, error) {
	var out compound
	if p.i >= len(p.s) {
		return out, p.errorf("expected selector, found EOF instead")
	}
	universal := false
	switch c := p.s[p.i]; {
	case c == '*':
		universal = true
		p.i++
	case nameStart(c) || c == '-' || c == '\\':
		tag, err := p.parseIdentifier()
		if err != nil {
			return out, err
		}
		out.tag = utils.AsciiLower(tag)
	}

loop:
	for p.i < len(p.s) {
		var (
			sel simple
			err error
		)
		switch p.s[p.i] {
		case '#':
			p.i++
			var id string
			id, err = p.parseName()
			sel = idSelector(id)
		case '.':
			p.i++
			var class string
			class, err = p.parseIdentifier()
			sel = classSelector(class)
		case '[':
			sel, err = p.parseAttributeSelector()
		case ':':
			var pseudoElement string
			sel, pseudoElement, err = p.parsePseudo()
			if err == nil && pseudoElement != "" {
				out.pseudoElement = pseudoElement
				break loop
			}
		default:
			break loop
		}
		if err != nil {
			return out, err
		}
		out.simples = append(out.simples, sel)
	}
	if out.tag == "" && !universal && len(out.simples) == 0 && out.pseudoElement == "" {
		return out, p.errorf("expected selector")
	}
	return out, nil
}

func (p *parser) parseAttributeSelector() (simple, error) {
	p.i++ // '['
	p.skipWhitespace()
	key, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	out := attrSelector{key: utils.AsciiLower(key)}
	p.skipWhitespace()
	if p.i >= len(p.s) {
		return nil, p.errorf("unexpected EOF in attribute selector")
	}
	if p.s[p.i] == ']' {
		p.i++
		out.op = opExists
		return out, nil
	}

	if p.i+2 <= len(p.s) && p.s[p.i+1] == '=' && strings.IndexByte("~|^$*", p.s[p.i]) != -1 {
		out.op = attrOp(p.s[p.i])
		p.i += 2
	} else if p.s[p.i] == '=' {
		out.op = opEqual
		p.i++
	} else {
		return nil, p.errorf("expected attribute operator, found %q", p.s[p.i])
	}

	p.skipWhitespace()
	if p.i >= len(p.s) {
		return nil, p.errorf("unexpected EOF in attribute selector")
	}
	if c := p.s[p.i]; c == '"' || c == '\'' {
		out.value, err = p.parseString()
	} else {
		out.value, err = p.parseIdentifier()
	}
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.i < len(p.s) && (p.s[p.i] == 'i' || p.s[p.i] == 'I') {
		out.insensitive = true
		p.i++
		p.skipWhitespace()
	} else if p.i < len(p.s) && (p.s[p.i] == 's' || p.s[p.i] == 'S') {
		p.i++
		p.skipWhitespace()
	}
	if p.i >= len(p.s) || p.s[p.i] != ']' {
		return nil, p.errorf("expected ']' to close the attribute selector")
	}
	p.i++
	if out.insensitive {
		out.value = strings.ToLower(out.value)
	}
	return out, nil
}

// parsePseudo parses a pseudo-class, or a pseudo-element.
// Exactly one of the return values is non empty on success.
func (p *parser) parsePseudo() (simple, string, error) {
	p.i++ // ':'
	doubleColon := p.i < len(p.s) && p.s[p.i] == ':'
	if doubleColon {
		p.i++
	}
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, "", err
	}
	name = utils.AsciiLower(name)

	if doubleColon {
		if !pseudoElements.Has(name) {
			return nil, "", p.errorf("unsupported pseudo-element %q", name)
		}
		return nil, name, nil
	}

	switch name {
	case "before", "after", "first-line", "first-letter":
		return nil, name, nil
	case "root", "empty", "first-child", "last-child", "only-child",
		"first-of-type", "last-of-type", "only-of-type",
		"link", "any-link", "checked", "disabled", "enabled":
		return pseudoClass(name), "", nil
	case "hover", "active", "focus", "focus-within", "focus-visible", "visited", "target":
		// dynamic states never apply to a static document
		return neverMatch(name), "", nil
	}

	if p.i >= len(p.s) || p.s[p.i] != '(' {
		return nil, "", p.errorf("unsupported pseudo-class %q", name)
	}
	p.i++ // '('
	switch name {
	case "not", "is", "where", "matches":
		p.skipWhitespace()
		group, err := p.parseSelectorGroup()
		if err != nil {
			return nil, "", err
		}
		for _, sel := range group {
			if sel.pseudoElement != "" {
				return nil, "", p.errorf("pseudo-elements are not allowed in :%s()", name)
			}
		}
		if err := p.consumeClosingParenthesis(); err != nil {
			return nil, "", err
		}
		switch name {
		case "not":
			return notSelector{group}, "", nil
		case "where":
			return whereSelector{group}, "", nil
		default:
			return isSelector{group}, "", nil
		}
	case "nth-child", "nth-last-child", "nth-of-type", "nth-last-of-type":
		end := strings.IndexByte(p.s[p.i:], ')')
		if end == -1 {
			return nil, "", p.errorf("expected ')' to close :%s()", name)
		}
		a, b, err := ParseNth(p.s[p.i : p.i+end])
		if err != nil {
			return nil, "", p.errorf("in :%s(): %s", name, err.(*SyntaxError).Msg)
		}
		p.i += end + 1
		return nthSelector{
			a: a, b: b,
			last:   strings.HasPrefix(name, "nth-last"),
			ofType: strings.HasSuffix(name, "of-type"),
		}, "", nil
	case "lang":
		p.skipWhitespace()
		var lang string
		if p.i < len(p.s) && (p.s[p.i] == '"' || p.s[p.i] == '\'') {
			lang, err = p.parseString()
		} else {
			lang, err = p.parseIdentifier()
		}
		if err != nil {
			return nil, "", err
		}
		if err := p.consumeClosingParenthesis(); err != nil {
			return nil, "", err
		}
		return newLangSelector(lang), "", nil
	}
	return nil, "", p.errorf("unsupported pseudo-class %q", name)
}

func (p *parser) consumeClosingParenthesis() error {
	p.skipWhitespace()
	if p.i >= len(p.s) || p.s[p.i] != ')' {
		return p.errorf("expected ')'")
	}
	p.i++
	return nil
}

// parseEscape parses a backslash escape.
func (p *parser) parseEscape() (string, error) {
	if len(p.s) < p.i+2 || p.s[p.i] != '\\' {
		return "", p.errorf("invalid escape sequence")
	}

	start := p.i + 1
	c := p.s[start]
	switch {
	case c == '\r' || c == '\n' || c == '\f':
		return "", p.errorf("escaped line ending outside string")
	case hexDigit(c):
		// unicode escape (hex)
		var i int
		for i = start; i < start+6 && i < len(p.s) && hexDigit(p.s[i]); i++ {
		}
		v, _ := strconv.ParseUint(p.s[start:i], 16, 32)
		if len(p.s) > i {
			switch p.s[i] {
			case '\r':
				i++
				if len(p.s) > i && p.s[i] == '\n' {
					i++
				}
			case ' ', '\t', '\n', '\f':
				i++
			}
		}
		p.i = i
		return string(rune(v)), nil
	}

	// Return the literal character after the backslash.
	p.i += 2
	return p.s[start : start+1], nil
}

func hexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// nameStart returns whether c can be the first character of an identifier
// (not counting an initial hyphen, or an escape sequence).
func nameStart(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_' || c > 127
}

// nameChar returns whether c can be a character within an identifier
// (not counting an escape sequence).
func nameChar(c byte) bool {
	return nameStart(c) || c == '-' || '0' <= c && c <= '9'
}

// parseIdentifier parses an identifier.
func (p *parser) parseIdentifier() (string, error) {
	startingDash := false
	if len(p.s) > p.i && p.s[p.i] == '-' {
		startingDash = true
		p.i++
	}

	if len(p.s) <= p.i {
		return "", p.errorf("expected identifier, found EOF instead")
	}

	if c := p.s[p.i]; !(nameStart(c) || c == '\\' || (startingDash && c == '-')) {
		return "", p.errorf("expected identifier, found %c instead", c)
	}

	result, err := p.parseName()
	if startingDash && err == nil {
		result = "-" + result
	}
	return result, err
}

// parseName parses a name (which is like an identifier, but doesn't have
// extra restrictions on the first character).
func (p *parser) parseName() (string, error) {
	var b strings.Builder
	for p.i < len(p.s) {
		c := p.s[p.i]
		if nameChar(c) {
			start := p.i
			for p.i < len(p.s) && nameChar(p.s[p.i]) {
				p.i++
			}
			b.WriteString(p.s[start:p.i])
		} else if c == '\\' {
			val, err := p.parseEscape()
			if err != nil {
				return "", err
			}
			b.WriteString(val)
		} else {
			break
		}
	}
	if b.Len() == 0 {
		return "", p.errorf("expected name")
	}
	return b.String(), nil
}

// parseString parses a single- or double-quoted string.
func (p *parser) parseString() (string, error) {
	if len(p.s) < p.i+2 {
		return "", p.errorf("expected string, found EOF instead")
	}
	quote := p.s[p.i]
	p.i++
	var b strings.Builder
	for p.i < len(p.s) {
		switch c := p.s[p.i]; c {
		case '\\':
			if len(p.s) > p.i+1 && p.s[p.i+1] == '\n' {
				p.i += 2
				continue
			}
			val, err := p.parseEscape()
			if err != nil {
				return "", err
			}
			b.WriteString(val)
		case quote:
			p.i++
			return b.String(), nil
		case '\r', '\n', '\f':
			return "", p.errorf("unexpected end of line in string")
		default:
			b.WriteByte(c)
			p.i++
		}
	}
	return "", p.errorf("EOF in string")
}
