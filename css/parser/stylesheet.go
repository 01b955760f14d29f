// Package parser turns CSS text into rules and typed values.
//
// The text is first split into rules and declarations following the
// error recovery of CSS Syntax Level 3: a malformed rule or declaration
// only drops itself, and blocks left open are closed by the end of
// input. Each declaration is then handed to douceur, and its value is
// tokenized with the gorilla scanner and converted to [values.Token].
package parser

import (
	"strings"

	douceur "github.com/aymerick/douceur/parser"
	"github.com/benoitkugler/webstyle/css/values"
	"github.com/benoitkugler/webstyle/utils"
	"github.com/gorilla/css/scanner"
	"github.com/pkg/errors"
)

// Declaration is one `name: value` pair, with its value tokenized.
type Declaration struct {
	Name      string // lower case
	Raw       string // the value as written
	Value     []values.Token
	Important bool
	// Err is set when the declaration or its value could not be
	// parsed; [Value] is then empty.
	Err error
}

// Rule is a qualified rule, flattened out of its enclosing @media blocks.
type Rule struct {
	Prelude      string
	Declarations []Declaration
	// Media holds the media type lists of the enclosing
	// @media blocks, outermost first. The rule applies when
	// every list matches.
	Media [][]string
}

// IgnoredRule is an at-rule which does not contribute to the cascade.
type IgnoredRule struct {
	Name    string // with its leading '@'
	Prelude string
	Reason  string
}

// Stylesheet is the flat, ordered content of a style sheet.
type Stylesheet struct {
	Rules   []Rule
	Ignored []IgnoredRule
}

// ParseStylesheet parses a whole style sheet.
//
// Parsing never fails as a whole: a qualified rule whose prelude is
// garbage (for instance starting with a stray '}') is kept with that
// prelude, to be rejected by the selector parser, and a qualified rule
// without block at the end of input is dropped.
func ParseStylesheet(text string) *Stylesheet {
	var out Stylesheet
	out.appendRules(parseComponents(text), nil)
	return &out
}

func (out *Stylesheet) appendRules(list []component, media [][]string) {
	for i := 0; i < len(list); {
		c := list[i]
		if c.isIgnorable() {
			i++
			continue
		}
		if !c.block && c.tok.Type == scanner.TokenAtKeyword {
			i = out.appendAtRule(list, i, media)
			continue
		}

		// qualified rule: the prelude runs up to the first {} block
		start := i
		for i < len(list) && !list[i].isBlock("{") {
			i++
		}
		if i == len(list) {
			break
		}
		out.Rules = append(out.Rules, Rule{
			Prelude:      serialize(list[start:i], false),
			Declarations: parseDeclarationList(list[i].content),
			Media:        media,
		})
		i++
	}
}

// appendAtRule handles the at-rule starting at list[start], and returns
// the index following it.
func (out *Stylesheet) appendAtRule(list []component, start int, media [][]string) int {
	name := "@" + utils.AsciiLower(strings.TrimPrefix(list[start].tok.Value, "@"))
	i := start + 1
	for i < len(list) && !list[i].isChar(";") && !list[i].isBlock("{") {
		i++
	}
	prelude := serialize(list[start+1:i], false)
	var block *component
	if i < len(list) && list[i].block {
		block = &list[i]
	}

	ignore := func(reason string) {
		out.Ignored = append(out.Ignored, IgnoredRule{Name: name, Prelude: prelude, Reason: reason})
	}
	switch name {
	case "@media":
		types, err := ParseMediaQuery(prelude)
		if err != nil {
			ignore(err.Error())
			break
		}
		if block == nil {
			ignore("missing block")
			break
		}
		nested := append(append([][]string(nil), media...), types)
		out.appendRules(block.content, nested)
	case "@import":
		ignore("external style sheets are not fetched")
	default:
		ignore("unsupported at-rule")
	}
	return i + 1
}

// ParseDeclarations parses the content of a declaration block,
// such as a style attribute. Invalid declarations are returned
// with a non nil [Declaration.Err].
func ParseDeclarations(text string) []Declaration {
	return parseDeclarationList(parseComponents(text))
}

func parseDeclarationList(list []component) []Declaration {
	var out []Declaration
	for i := 0; i < len(list); {
		c := list[i]
		if c.isIgnorable() || c.isChar(";") {
			i++
			continue
		}
		start := i
		for i < len(list) && !list[i].isChar(";") {
			i++
		}
		if !c.block && c.tok.Type == scanner.TokenAtKeyword {
			// nested at-rules are not supported; a block
			// ends them as well as a ';'
			for j := start; j < i; j++ {
				if list[j].isBlock("{") {
					i = j + 1
					break
				}
			}
			continue
		}
		out = append(out, parseDeclaration(list[start:i]))
	}
	return out
}

func parseDeclaration(list []component) Declaration {
	text := serialize(list, true)
	if list[0].block || list[0].tok.Type != scanner.TokenIdent {
		return Declaration{Raw: strings.TrimSpace(text), Err: errors.Errorf("expected a property name, got %q", list[0].tok.Value)}
	}
	name := utils.AsciiLower(list[0].tok.Value)

	decls, err := douceur.ParseDeclarations(text + ";")
	if err == nil && len(decls) != 1 {
		err = errors.New("expected exactly one declaration")
	}
	if err != nil {
		return Declaration{Name: name, Raw: strings.TrimSpace(text), Err: errors.Wrap(err, "parsing declaration")}
	}

	d := decls[0]
	raw := strings.TrimSpace(d.Value)
	decl := Declaration{
		Name:      utils.AsciiLower(strings.TrimSpace(d.Property)),
		Raw:       raw,
		Important: d.Important,
	}
	decl.Value, decl.Err = ParseValue(raw)
	return decl
}

// component is a preserved token, or a {}, () or [] block or a function
// with its content.
type component struct {
	tok     *scanner.Token // the token, or the opening token of a block
	content []component
	block   bool
}

var closingChars = map[string]string{"{": "}", "(": ")", "[": "]"}

func (c component) isChar(s string) bool {
	return !c.block && c.tok.Type == scanner.TokenChar && c.tok.Value == s
}

func (c component) isBlock(open string) bool { return c.block && c.tok.Value == open }

func (c component) isIgnorable() bool {
	if c.block {
		return false
	}
	switch c.tok.Type {
	case scanner.TokenS, scanner.TokenComment, scanner.TokenCDO, scanner.TokenCDC, scanner.TokenBOM:
		return true
	}
	return false
}

func (c component) closing() string {
	if c.tok.Type == scanner.TokenFunction {
		return ")"
	}
	return closingChars[c.tok.Value]
}

func parseComponents(text string) []component {
	sc := scanner.New(text)
	return consumeComponents(sc, "")
}

// consumeComponents reads tokens up to [closing], which is consumed,
// or up to the end of input. A closing character which does not match
// the innermost open block is a plain token.
// The scanner stops on an unclosed string or comment, which then ends
// the input.
func consumeComponents(sc *scanner.Scanner, closing string) []component {
	var out []component
	for {
		tok := sc.Next()
		switch tok.Type {
		case scanner.TokenEOF, scanner.TokenError:
			return out
		case scanner.TokenFunction:
			out = append(out, component{tok: tok, block: true, content: consumeComponents(sc, ")")})
			continue
		case scanner.TokenChar:
			if closing != "" && tok.Value == closing {
				return out
			}
			if c, ok := closingChars[tok.Value]; ok {
				out = append(out, component{tok: tok, block: true, content: consumeComponents(sc, c)})
				continue
			}
		}
		out = append(out, component{tok: tok})
	}
}

// serialize writes back the text of [list], closing the blocks
// left open. Comments are dropped unless [withComments] is true.
func serialize(list []component, withComments bool) string {
	var b strings.Builder
	writeComponents(&b, list, withComments)
	return strings.TrimSpace(b.String())
}

func writeComponents(b *strings.Builder, list []component, withComments bool) {
	for _, c := range list {
		if !withComments && !c.block && c.tok.Type == scanner.TokenComment {
			continue
		}
		b.WriteString(c.tok.Value)
		if c.block {
			writeComponents(b, c.content, withComments)
			b.WriteString(c.closing())
		}
	}
}

// ParseMediaQuery parses a comma separated list of media types.
// An empty prelude means "all". Media features are not supported.
func ParseMediaQuery(prelude string) ([]string, error) {
	prelude = strings.TrimSpace(prelude)
	if prelude == "" {
		return []string{"all"}, nil
	}
	var media []string
	for _, part := range strings.Split(prelude, ",") {
		part = utils.AsciiLower(strings.TrimSpace(part))
		if part == "" || strings.ContainsAny(part, " \t\n():") {
			return nil, errors.Errorf("expected a media type, got %q", part)
		}
		media = append(media, part)
	}
	return media, nil
}

// EvaluateMediaQuery returns true if one of the types of [queryList]
// matches [deviceMediaType].
func EvaluateMediaQuery(queryList []string, deviceMediaType string) bool {
	for _, query := range queryList {
		if query == "all" || query == deviceMediaType {
			return true
		}
	}
	return false
}
