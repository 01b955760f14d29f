// Package validation checks declared values against the grammar of
// each supported property, and expands shorthand properties into
// their longhands.
package validation

import (
	"strings"

	"github.com/benoitkugler/webstyle/css/parser"
	pr "github.com/benoitkugler/webstyle/css/properties"
	"github.com/benoitkugler/webstyle/css/values"
	"github.com/benoitkugler/webstyle/logger"
	"github.com/benoitkugler/webstyle/utils"
	"github.com/pkg/errors"
)

var (
	ErrInvalidValue    = errors.New("invalid or unsupported values for a known CSS property")
	ErrUnknownProperty = errors.New("unknown property")
)

type Token = values.Token

// Declaration is a validated longhand declaration.
// Value is either a valid specified value for the property, or one of
// the CSS-wide keywords: 'inherit', 'initial' (as [values.Keyword])
// and [values.Unset].
type Declaration struct {
	Name      pr.KnownProp
	Value     Token
	Important bool
}

// IgnoredDeclaration is a declaration rejected during validation.
type IgnoredDeclaration struct {
	Name, Value string
	Reason      error
}

// validator checks [tokens] and returns the normalized specified value.
type validator func(tokens []Token) (Token, error)

// IsCSSWide returns true for 'inherit', 'initial' and 'unset'.
func IsCSSWide(t Token) bool {
	switch t := t.(type) {
	case values.Unset:
		return true
	case values.Keyword:
		return t == "inherit" || t == "initial"
	}
	return false
}

func cssWide(tokens []Token) (Token, bool) {
	if len(tokens) == 1 && IsCSSWide(tokens[0]) {
		return tokens[0], true
	}
	return nil, false
}

// Validate checks the value of one longhand property.
func Validate(prop pr.KnownProp, tokens []Token) (Token, error) {
	if len(tokens) == 0 {
		return nil, errors.Wrap(ErrInvalidValue, "no value")
	}
	if v, ok := cssWide(tokens); ok {
		return v, nil
	}
	fn := validators[prop]
	if fn == nil {
		return nil, errors.Errorf("property %s not supported yet", prop)
	}
	return fn(tokens)
}

// Longhand is one item of a shorthand expansion.
type Longhand struct {
	Name  pr.KnownProp
	Value Token
}

// Expand validates the declaration [name]: [tokens], expanding it
// when [name] is a shorthand. An invalid shorthand is rejected as a
// whole: no longhand is returned.
func Expand(name string, tokens []Token) ([]Longhand, error) {
	if len(tokens) == 0 {
		return nil, errors.Wrap(ErrInvalidValue, "no value")
	}
	if exp, ok := expanders[name]; ok {
		return exp(name, tokens)
	}
	prop, ok := pr.PropFromName(name)
	if !ok {
		return nil, ErrUnknownProperty
	}
	v, err := Validate(prop, tokens)
	if err != nil {
		return nil, err
	}
	return []Longhand{{Name: prop, Value: v}}, nil
}

// IsShorthand returns true if [name] is a supported shorthand.
func IsShorthand(name string) bool {
	_, ok := expanders[name]
	return ok
}

// PreprocessDeclarations filter unsupported properties or parsing errors,
// and expand shorthand properties.
//
// Log a warning for every ignored declaration, which are also returned.
func PreprocessDeclarations(declarations []parser.Declaration) (out []Declaration, ignored []IgnoredDeclaration) {
	for _, declaration := range declarations {
		validationError := func(reason error) {
			logger.WarningLogger.Warnf("Ignored `%s:%s` , %s.", declaration.Name, declaration.Raw, reason)
			ignored = append(ignored, IgnoredDeclaration{Name: declaration.Name, Value: declaration.Raw, Reason: reason})
		}

		if declaration.Err != nil {
			validationError(declaration.Err)
			continue
		}

		name := declaration.Name
		if strings.HasPrefix(name, "-") {
			validationError(errors.New("prefixed properties are ignored"))
			continue
		}

		result, err := Expand(name, declaration.Value)
		if err != nil {
			validationError(err)
			continue
		}
		for _, lh := range result {
			out = append(out, Declaration{Name: lh.Name, Value: lh.Value, Important: declaration.Important})
		}
	}
	return out, ignored
}

// If `tokens` is a 1-element list of [values.Keyword], return its name.
// Otherwise return empty string.
func getSingleKeyword(tokens []Token) string {
	kw, _ := values.SingleKeyword(tokens)
	return kw
}

func getKeyword(token Token) string {
	kw, _ := values.KeywordOf(token)
	return kw
}

// getLength returns [token] if it is a length, or a percentage when
// [percentage] is true. A unitless zero is accepted as 0px.
// Sign constraints are checked during computation.
func getLength(token Token, percentage bool) (Token, bool) {
	switch token := token.(type) {
	case values.Length:
		return token, true
	case values.Percentage:
		return token, percentage
	case values.Number:
		if token.Value == 0 {
			return values.Px(0), true
		}
	}
	return nil, false
}

func isInteger(token Token) (int, bool) {
	n, ok := token.(values.Number)
	if !ok || !n.IsInt {
		return 0, false
	}
	return int(n.Value), true
}

// keyword returns a validator accepting one of [allowed].
func keyword(allowed ...string) validator {
	set := utils.NewSet(allowed...)
	return func(tokens []Token) (Token, error) {
		if kw := getSingleKeyword(tokens); set.Has(kw) {
			return values.Keyword(kw), nil
		}
		return nil, ErrInvalidValue
	}
}

// single wraps a validator of one token.
func single(fn func(Token) (Token, bool)) validator {
	return func(tokens []Token) (Token, error) {
		if len(tokens) != 1 {
			return nil, ErrInvalidValue
		}
		if v, ok := fn(tokens[0]); ok {
			return v, nil
		}
		return nil, ErrInvalidValue
	}
}

// lengthOr accepts a length, a percentage when [percentage] is true,
// or one of [keywords].
func lengthOr(percentage bool, keywords ...string) validator {
	set := utils.NewSet(keywords...)
	return single(func(token Token) (Token, bool) {
		if l, ok := getLength(token, percentage); ok {
			return l, true
		}
		if kw := getKeyword(token); set.Has(kw) {
			return values.Keyword(kw), true
		}
		return nil, false
	})
}

// parseColor accepts named and hexadecimal colors, 'currentcolor'
// and the rgb(a)/hsl(a) functions. Function calls are evaluated
// during computation.
func parseColor(token Token) (Token, bool) {
	switch token := token.(type) {
	case values.Color:
		return token, true
	case values.Keyword:
		if token == "currentcolor" {
			return token, true
		}
		if c, ok := values.ParseColorKeyword(string(token)); ok {
			return c, true
		}
	case values.Function:
		if !values.IsColorFunction(token.Name) || (len(token.Args) != 3 && len(token.Args) != 4) {
			return nil, false
		}
		for _, arg := range token.Args {
			switch arg.(type) {
			case values.Number, values.Percentage:
			default:
				return nil, false
			}
		}
		return token, true
	}
	return nil, false
}

func isURL(token Token) bool {
	fn, ok := token.(values.Function)
	return ok && fn.Name == "url" && len(fn.Args) == 1 && fn.Args[0].Kind() == values.StringK
}

// image accepts 'none', url() and gradient functions.
func image(token Token) (Token, bool) {
	if getKeyword(token) == "none" || isURL(token) {
		return token, true
	}
	if fn, ok := token.(values.Function); ok && strings.HasSuffix(fn.Name, "-gradient") {
		return fn, true
	}
	return nil, false
}

var (
	borderStyles = []string{"none", "hidden", "dotted", "dashed", "solid", "double", "groove", "ridge", "inset", "outset"}
	listStyles   = []string{
		"disc", "circle", "square", "decimal", "decimal-leading-zero",
		"lower-roman", "upper-roman", "lower-greek", "lower-latin", "upper-latin",
		"lower-alpha", "upper-alpha", "armenian", "georgian", "none",
	}
	lineDecorations  = utils.NewSet("underline", "overline", "line-through", "blink")
	genericFamilies  = utils.NewSet("serif", "sans-serif", "cursive", "fantasy", "monospace", "system-ui")
	fontSizeKeywords = utils.NewSet(pr.FontSizeKeywordsOrder...)
)

var validators [pr.NbProperties]validator

func init() {
	borderWidth := lengthOr(false, "thin", "medium", "thick")
	borderStyle := keyword(borderStyles...)
	color := single(parseColor)
	position := lengthOr(true, "auto")
	for i := 0; i < 4; i++ {
		validators[pr.MarginSides[i]] = lengthOr(true, "auto")
		validators[pr.PaddingSides[i]] = lengthOr(true)
		validators[pr.BorderWidthSides[i]] = borderWidth
		validators[pr.BorderStyleSides[i]] = borderStyle
		validators[pr.BorderColorSides[i]] = color
	}

	validators[pr.PColor] = color
	validators[pr.PDisplay] = keyword("inline", "block", "list-item", "inline-block", "table", "inline-table",
		"table-row-group", "table-header-group", "table-footer-group", "table-row",
		"table-column-group", "table-column", "table-cell", "table-caption",
		"flex", "inline-flex", "grid", "inline-grid", "flow-root", "contents", "none")
	validators[pr.PPosition] = keyword("static", "relative", "absolute", "fixed", "sticky")
	validators[pr.PFloat] = keyword("left", "right", "none")
	validators[pr.PClear] = keyword("left", "right", "both", "none")
	validators[pr.PVisibility] = keyword("visible", "hidden", "collapse")
	validators[pr.PZIndex] = zIndex
	validators[pr.PTop] = position
	validators[pr.PRight] = position
	validators[pr.PBottom] = position
	validators[pr.PLeft] = position
	validators[pr.PWidth] = lengthOr(true, "auto")
	validators[pr.PHeight] = lengthOr(true, "auto")
	validators[pr.PMinWidth] = lengthOr(true, "auto")
	validators[pr.PMinHeight] = lengthOr(true, "auto")
	validators[pr.PMaxWidth] = lengthOr(true, "none")
	validators[pr.PMaxHeight] = lengthOr(true, "none")
	validators[pr.PDirection] = keyword("ltr", "rtl")
	validators[pr.PCaptionSide] = keyword("top", "bottom")
	validators[pr.PEmptyCells] = keyword("show", "hide")
	validators[pr.PTableLayout] = keyword("auto", "fixed")
	validators[pr.PBorderCollapse] = keyword("separate", "collapse")
	validators[pr.POverflow] = keyword("visible", "hidden", "scroll", "auto", "clip")
	validators[pr.PContent] = content

	validators[pr.POutlineWidth] = borderWidth
	validators[pr.POutlineStyle] = keyword("auto", "none", "dotted", "dashed", "solid", "double", "groove", "ridge", "inset", "outset")
	validators[pr.POutlineColor] = color
	validators[pr.PBoxSizing] = keyword("content-box", "border-box")

	validators[pr.PBackgroundColor] = color
	validators[pr.PBackgroundImage] = single(image)
	validators[pr.PBackgroundRepeat] = backgroundRepeat
	validators[pr.PBackgroundAttachment] = keyword("scroll", "fixed", "local")
	validators[pr.PBackgroundPosition] = backgroundPosition

	validators[pr.PFontFamily] = fontFamily
	validators[pr.PFontSize] = fontSize
	validators[pr.PFontStyle] = keyword("normal", "italic", "oblique")
	validators[pr.PFontVariant] = keyword("normal", "small-caps")
	validators[pr.PFontWeight] = fontWeight
	validators[pr.PLineHeight] = lineHeight

	validators[pr.PLetterSpacing] = lengthOr(false, "normal")
	validators[pr.PWordSpacing] = lengthOr(false, "normal")
	validators[pr.PTextAlign] = keyword("left", "right", "center", "justify", "start", "end")
	validators[pr.PTextIndent] = lengthOr(true)
	validators[pr.PTextTransform] = keyword("none", "capitalize", "uppercase", "lowercase", "full-width")
	validators[pr.PWhiteSpace] = keyword("normal", "pre", "nowrap", "pre-wrap", "pre-line", "break-spaces")

	validators[pr.PTextDecorationLine] = textDecorationLine
	validators[pr.PTextDecorationStyle] = keyword("solid", "double", "dotted", "dashed", "wavy")
	validators[pr.PTextDecorationColor] = color

	validators[pr.PVerticalAlign] = lengthOr(true, "baseline", "sub", "super", "text-top", "text-bottom", "middle", "top", "bottom")

	validators[pr.PListStyleType] = listStyleType
	validators[pr.PListStylePosition] = keyword("inside", "outside")
	validators[pr.PListStyleImage] = single(func(t Token) (Token, bool) {
		if getKeyword(t) == "none" || isURL(t) {
			return t, true
		}
		return nil, false
	})

	validators[pr.POpacity] = single(func(t Token) (Token, bool) {
		if n, ok := t.(values.Number); ok {
			return n, true
		}
		if p, ok := t.(values.Percentage); ok {
			return values.Number{Value: p.Value / 100}, true
		}
		return nil, false
	})
	validators[pr.POrphans] = positiveInteger
	validators[pr.PWidows] = positiveInteger
}

// Validation for the “z-index“ property.
func zIndex(tokens []Token) (Token, error) {
	if len(tokens) != 1 {
		return nil, ErrInvalidValue
	}
	if getKeyword(tokens[0]) == "auto" {
		return tokens[0], nil
	}
	if _, ok := isInteger(tokens[0]); ok {
		return tokens[0], nil
	}
	return nil, ErrInvalidValue
}

func positiveInteger(tokens []Token) (Token, error) {
	if len(tokens) == 1 {
		if v, ok := isInteger(tokens[0]); ok && v >= 1 {
			return tokens[0], nil
		}
	}
	return nil, ErrInvalidValue
}

// Validation for the “content“ property: 'normal', 'none' or a list
// of strings, url(), attr(), counter() and quotes.
func content(tokens []Token) (Token, error) {
	if kw := getSingleKeyword(tokens); kw == "normal" || kw == "none" {
		return values.Keyword(kw), nil
	}
	for _, token := range tokens {
		switch token := token.(type) {
		case values.String:
		case values.Function:
			switch token.Name {
			case "url", "attr", "counter", "counters":
			default:
				return nil, ErrInvalidValue
			}
		case values.Keyword:
			switch token {
			case "open-quote", "close-quote", "no-open-quote", "no-close-quote":
			default:
				return nil, ErrInvalidValue
			}
		default:
			return nil, ErrInvalidValue
		}
	}
	if len(tokens) == 1 {
		return tokens[0], nil
	}
	return values.List{Items: tokens}, nil
}

// Validation for the “background-repeat“ property (one layer).
func backgroundRepeat(tokens []Token) (Token, error) {
	switch len(tokens) {
	case 1:
		switch kw := getKeyword(tokens[0]); kw {
		case "repeat", "repeat-x", "repeat-y", "no-repeat", "space", "round":
			return values.Keyword(kw), nil
		}
	case 2:
		for _, t := range tokens {
			switch getKeyword(t) {
			case "repeat", "no-repeat", "space", "round":
			default:
				return nil, ErrInvalidValue
			}
		}
		return values.List{Items: tokens}, nil
	}
	return nil, ErrInvalidValue
}

var backgroundPositionsPercentages = map[string]values.Percentage{
	"top":    {Value: 0},
	"left":   {Value: 0},
	"center": {Value: 50},
	"bottom": {Value: 100},
	"right":  {Value: 100},
}

// Validation for the “background-position“ property, normalized
// to a [horizontal, vertical] pair.
func backgroundPosition(tokens []Token) (Token, error) {
	pos, ok := parse2dPosition(tokens)
	if !ok {
		return nil, ErrInvalidValue
	}
	return values.List{Items: pos[:]}, nil
}

func parse2dPosition(tokens []Token) ([2]Token, bool) {
	toPosition := func(t Token) (Token, string, bool) {
		if l, ok := getLength(t, true); ok {
			return l, "", true
		}
		kw := getKeyword(t)
		if p, ok := backgroundPositionsPercentages[kw]; ok {
			return p, kw, true
		}
		return nil, "", false
	}
	switch len(tokens) {
	case 1:
		v, kw, ok := toPosition(tokens[0])
		if !ok {
			return [2]Token{}, false
		}
		if kw == "top" || kw == "bottom" {
			return [2]Token{backgroundPositionsPercentages["center"], v}, true
		}
		return [2]Token{v, backgroundPositionsPercentages["center"]}, true
	case 2:
		v1, kw1, ok1 := toPosition(tokens[0])
		v2, kw2, ok2 := toPosition(tokens[1])
		if !ok1 || !ok2 {
			return [2]Token{}, false
		}
		vertical1 := kw1 == "top" || kw1 == "bottom"
		horizontal2 := kw2 == "left" || kw2 == "right"
		if vertical1 || horizontal2 {
			// keywords may be swapped, but not lengths
			if (kw1 == "" || kw2 == "") || (vertical1 && (kw2 == "top" || kw2 == "bottom")) ||
				(horizontal2 && (kw1 == "left" || kw1 == "right")) {
				return [2]Token{}, false
			}
			return [2]Token{v2, v1}, true
		}
		return [2]Token{v1, v2}, true
	}
	return [2]Token{}, false
}

// Validation for the “font-family“ property: a comma separated list
// of strings, generic families or space separated identifiers.
func fontFamily(tokens []Token) (Token, error) {
	var items []Token
	if len(tokens) == 1 {
		if list, ok := tokens[0].(values.List); ok && list.Comma {
			items = list.Items
		}
	}
	if items == nil {
		items = []Token{values.List{Items: tokens}}
		if len(tokens) == 1 {
			items = tokens
		}
	}
	families := make([]Token, len(items))
	for i, item := range items {
		family, ok := parseFamily(item)
		if !ok {
			return nil, ErrInvalidValue
		}
		families[i] = family
	}
	return values.List{Items: families, Comma: true}, nil
}

func parseFamily(item Token) (Token, bool) {
	switch item := item.(type) {
	case values.String:
		return item, true
	case values.Keyword:
		if genericFamilies.Has(string(item)) {
			return item, true
		}
		return values.String(item), true
	case values.List:
		words := make([]string, len(item.Items))
		for i, word := range item.Items {
			kw, ok := word.(values.Keyword)
			if !ok {
				return nil, false
			}
			words[i] = string(kw)
		}
		return values.String(strings.Join(words, " ")), true
	}
	return nil, false
}

// Validation for the “font-size“ property.
func fontSize(tokens []Token) (Token, error) {
	if len(tokens) != 1 {
		return nil, ErrInvalidValue
	}
	if l, ok := getLength(tokens[0], true); ok {
		return l, nil
	}
	kw := getKeyword(tokens[0])
	if fontSizeKeywords.Has(kw) || kw == "smaller" || kw == "larger" {
		return values.Keyword(kw), nil
	}
	return nil, ErrInvalidValue
}

// Validation for the “font-weight“ property.
func fontWeight(tokens []Token) (Token, error) {
	if len(tokens) != 1 {
		return nil, ErrInvalidValue
	}
	switch kw := getKeyword(tokens[0]); kw {
	case "normal", "bold", "bolder", "lighter":
		return values.Keyword(kw), nil
	}
	if n, ok := tokens[0].(values.Number); ok && n.Value >= 1 && n.Value <= 1000 {
		return n, nil
	}
	return nil, ErrInvalidValue
}

// Validation for the “line-height“ property.
func lineHeight(tokens []Token) (Token, error) {
	if len(tokens) != 1 {
		return nil, ErrInvalidValue
	}
	switch token := tokens[0].(type) {
	case values.Keyword:
		if token == "normal" {
			return token, nil
		}
	case values.Number:
		return token, nil
	case values.Length, values.Percentage:
		return token, nil
	}
	return nil, ErrInvalidValue
}

// Validation for the “text-decoration-line“ property.
func textDecorationLine(tokens []Token) (Token, error) {
	if getSingleKeyword(tokens) == "none" {
		return values.Keyword("none"), nil
	}
	seen := utils.NewSet()
	for _, token := range tokens {
		kw := getKeyword(token)
		if !lineDecorations.Has(kw) || seen.Has(kw) {
			return nil, ErrInvalidValue
		}
		seen.Add(kw)
	}
	if len(tokens) == 1 {
		return tokens[0], nil
	}
	return values.List{Items: tokens}, nil
}

// Validation for the “list-style-type“ property.
func listStyleType(tokens []Token) (Token, error) {
	if len(tokens) != 1 {
		return nil, ErrInvalidValue
	}
	if s, ok := tokens[0].(values.String); ok {
		return s, nil
	}
	if kw := getKeyword(tokens[0]); utils.IsIn(listStyles, kw) {
		return values.Keyword(kw), nil
	}
	return nil, ErrInvalidValue
}
