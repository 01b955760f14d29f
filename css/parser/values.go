package parser

import (
	"strconv"
	"strings"

	"github.com/benoitkugler/webstyle/css/values"
	"github.com/benoitkugler/webstyle/utils"
	"github.com/gorilla/css/scanner"
	"github.com/pkg/errors"
)

// Slash is the '/' delimiter, as found in the font shorthand.
const Slash = values.Keyword("/")

// ParseValue tokenizes a declaration value.
//
// Space separated components are returned in order. When the value
// contains top level commas, a single comma separated [values.List]
// is returned, each item being either one token or a space separated
// [values.List].
// Identifiers are lower cased, and 'unset' is returned as [values.Unset].
func ParseValue(text string) ([]values.Token, error) {
	p := valueParser{sc: scanner.New(text)}
	groups, err := p.parseGroups(false)
	if err != nil {
		return nil, err
	}
	if len(groups) == 1 {
		if len(groups[0]) == 0 {
			return nil, errors.New("empty value")
		}
		return groups[0], nil
	}
	return []values.Token{commaList(groups)}, nil
}

func commaList(groups [][]values.Token) values.List {
	items := make([]values.Token, len(groups))
	for i, g := range groups {
		if len(g) == 1 {
			items[i] = g[0]
		} else {
			items[i] = values.List{Items: g}
		}
	}
	return values.List{Items: items, Comma: true}
}

type valueParser struct {
	sc *scanner.Scanner
	// pending sign, set by a '+' or '-' delimiter
	sign string
}

func (p *valueParser) next() *scanner.Token {
	for {
		tok := p.sc.Next()
		if tok.Type != scanner.TokenComment {
			return tok
		}
	}
}

// parseGroups reads tokens until EOF, or until the closing parenthesis
// when [inFunction] is true, splitting on commas.
func (p *valueParser) parseGroups(inFunction bool) ([][]values.Token, error) {
	var (
		groups  [][]values.Token
		current []values.Token
	)
	for {
		tok := p.next()
		if tok.Type != scanner.TokenS && tok.Type != scanner.TokenNumber &&
			tok.Type != scanner.TokenDimension && tok.Type != scanner.TokenPercentage &&
			p.sign != "" {
			return nil, errors.Errorf("unexpected sign %q at %d:%d", p.sign, tok.Line, tok.Column)
		}
		switch tok.Type {
		case scanner.TokenEOF:
			if inFunction {
				return nil, errors.New("unclosed function")
			}
			if len(current) == 0 && len(groups) > 0 {
				return nil, errors.New("trailing comma")
			}
			return append(groups, current), nil
		case scanner.TokenError:
			return nil, errors.Errorf("invalid token %q at %d:%d", tok.Value, tok.Line, tok.Column)
		case scanner.TokenS:
			if p.sign != "" {
				return nil, errors.Errorf("unexpected sign %q at %d:%d", p.sign, tok.Line, tok.Column)
			}
		case scanner.TokenChar:
			switch tok.Value {
			case ",":
				if len(current) == 0 {
					return nil, errors.Errorf("unexpected comma at %d:%d", tok.Line, tok.Column)
				}
				groups = append(groups, current)
				current = nil
			case ")":
				if !inFunction {
					return nil, errors.Errorf("unexpected ')' at %d:%d", tok.Line, tok.Column)
				}
				if len(current) == 0 && len(groups) > 0 {
					return nil, errors.New("trailing comma in function")
				}
				if len(current) == 0 {
					return nil, nil
				}
				return append(groups, current), nil
			case "+", "-":
				p.sign = tok.Value
			case "/":
				current = append(current, Slash)
			default:
				return nil, errors.Errorf("unexpected character %q at %d:%d", tok.Value, tok.Line, tok.Column)
			}
		default:
			token, err := p.convert(tok)
			if err != nil {
				return nil, err
			}
			current = append(current, token)
		}
	}
}

func (p *valueParser) convert(tok *scanner.Token) (values.Token, error) {
	switch tok.Type {
	case scanner.TokenIdent:
		name := utils.AsciiLower(tok.Value)
		if name == "unset" {
			return values.Unset{}, nil
		}
		return values.Keyword(name), nil
	case scanner.TokenNumber, scanner.TokenDimension, scanner.TokenPercentage:
		sign := p.sign
		p.sign = ""
		return parseNumeric(sign, tok)
	case scanner.TokenString:
		return values.String(unescape(utils.Unquote(tok.Value))), nil
	case scanner.TokenHash:
		c, ok := values.ParseHexColor(tok.Value[1:])
		if !ok {
			return nil, errors.Errorf("invalid hexadecimal color %q", tok.Value)
		}
		return c, nil
	case scanner.TokenURI:
		return parseURI(tok.Value), nil
	case scanner.TokenFunction:
		name := strings.TrimSuffix(tok.Value, "(")
		groups, err := p.parseGroups(true)
		if err != nil {
			return nil, errors.Wrapf(err, "in %s()", name)
		}
		args := make([]values.Token, len(groups))
		for i, g := range groups {
			if len(g) == 1 {
				args[i] = g[0]
			} else {
				args[i] = values.List{Items: g}
			}
		}
		return values.NewFunction(name, args...), nil
	default:
		return nil, errors.Errorf("unexpected %s %q at %d:%d", tok.Type, tok.Value, tok.Line, tok.Column)
	}
}

func parseNumeric(sign string, tok *scanner.Token) (values.Token, error) {
	text := tok.Value
	if sign == "" && (strings.HasPrefix(text, "-") || strings.HasPrefix(text, "+")) {
		sign, text = text[:1], text[1:]
	}
	end := 0
	for end < len(text) && (text[end] == '.' || ('0' <= text[end] && text[end] <= '9')) {
		end++
	}
	v, err := strconv.ParseFloat(text[:end], 64)
	if err != nil {
		return nil, errors.Errorf("invalid number %q", tok.Value)
	}
	if sign == "-" {
		v = -v
	}
	switch tok.Type {
	case scanner.TokenPercentage:
		return values.NewPercentage(v)
	case scanner.TokenDimension:
		unitName := utils.AsciiLower(text[end:])
		unit, ok := values.ParseUnit(unitName)
		if !ok {
			return nil, errors.Errorf("unknown unit %q", unitName)
		}
		return values.NewLength(v, unit)
	default:
		n, err := values.NewNumber(v)
		if err != nil {
			return nil, err
		}
		n.IsInt = !strings.Contains(text, ".")
		return n, nil
	}
}

// parseURI handles the url(...) token, quoted or not.
func parseURI(s string) values.Function {
	inner := strings.TrimSpace(s[strings.IndexByte(s, '(')+1 : len(s)-1])
	return values.NewFunction("url", values.String(unescape(utils.Unquote(inner))))
}

// unescape resolves the simple backslash escapes of a string literal.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		// hexadecimal escape: up to 6 digits and an optional space
		j := i + 1
		for j < len(s) && j < i+7 && isHex(s[j]) {
			j++
		}
		if j > i+1 {
			r, _ := strconv.ParseUint(s[i+1:j], 16, 32)
			b.WriteRune(rune(r))
			if j < len(s) && s[j] == ' ' {
				j++
			}
			i = j - 1
			continue
		}
		if s[i+1] != '\n' {
			b.WriteByte(s[i+1])
		}
		i++
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
