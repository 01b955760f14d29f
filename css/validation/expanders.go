package validation

import (
	"strings"

	"github.com/benoitkugler/webstyle/css/parser"
	pr "github.com/benoitkugler/webstyle/css/properties"
	"github.com/benoitkugler/webstyle/css/values"
	"github.com/benoitkugler/webstyle/utils"
	"github.com/pkg/errors"
)

type expander func(name string, tokens []Token) ([]Longhand, error)

// slot is one longhand of a shorthand grammar, with the value
// used when the shorthand omits it.
type slot struct {
	prop pr.KnownProp
	def  Token
}

// slotTokens is the raw value found for the slot [index]
type slotTokens struct {
	index  int
	tokens []Token
}

type beforeGeneric = func(name string, slots []slot, tokens []Token) ([]slotTokens, error)

var expanders map[string]expander

func init() {
	var (
		medium       = values.Keyword("medium")
		none         = values.Keyword("none")
		normal       = values.Keyword("normal")
		currentColor = values.Keyword("currentcolor")
	)
	borderSide := func(side int) []slot {
		return []slot{
			{pr.BorderWidthSides[side], medium},
			{pr.BorderStyleSides[side], none},
			{pr.BorderColorSides[side], currentColor},
		}
	}

	expanders = map[string]expander{
		"margin":       expandFourSides(pr.MarginSides),
		"padding":      expandFourSides(pr.PaddingSides),
		"border-width": expandFourSides(pr.BorderWidthSides),
		"border-style": expandFourSides(pr.BorderStyleSides),
		"border-color": expandFourSides(pr.BorderColorSides),

		"border-top":    genericExpander(borderSide(0)...)(_expandAnyOrder),
		"border-right":  genericExpander(borderSide(1)...)(_expandAnyOrder),
		"border-bottom": genericExpander(borderSide(2)...)(_expandAnyOrder),
		"border-left":   genericExpander(borderSide(3)...)(_expandAnyOrder),
		"outline": genericExpander(
			slot{pr.POutlineWidth, medium},
			slot{pr.POutlineStyle, none},
			slot{pr.POutlineColor, currentColor},
		)(_expandAnyOrder),
		"border": expandBorder(borderSide),

		"list-style": genericExpander(
			slot{pr.PListStyleType, values.Keyword("disc")},
			slot{pr.PListStylePosition, values.Keyword("outside")},
			slot{pr.PListStyleImage, none},
		)(_expandListStyle),
		"text-decoration": genericExpander(
			slot{pr.PTextDecorationLine, none},
			slot{pr.PTextDecorationStyle, values.Keyword("solid")},
			slot{pr.PTextDecorationColor, currentColor},
		)(_expandTextDecoration),
		"background": genericExpander(
			slot{pr.PBackgroundColor, values.Color{}},
			slot{pr.PBackgroundImage, none},
			slot{pr.PBackgroundRepeat, values.Keyword("repeat")},
			slot{pr.PBackgroundAttachment, values.Keyword("scroll")},
			slot{pr.PBackgroundPosition, values.List{Items: []Token{values.Percentage{}, values.Percentage{}}}},
		)(_expandBackground),
		"font": genericExpander(
			slot{pr.PFontStyle, normal},
			slot{pr.PFontVariant, normal},
			slot{pr.PFontWeight, normal},
			slot{pr.PFontSize, medium},
			slot{pr.PLineHeight, normal},
			slot{pr.PFontFamily, nil}, // mandatory
		)(_expandFont),
	}
}

// ShorthandLonghands returns the longhands set by the shorthand [name],
// or nil if it is not a supported shorthand.
func ShorthandLonghands(name string) []pr.KnownProp {
	if _, ok := expanders[name]; !ok {
		return nil
	}
	out, _ := expanders[name](name, []Token{values.Keyword("initial")})
	props := make([]pr.KnownProp, len(out))
	for i, lh := range out {
		props[i] = lh.Name
	}
	return props
}

func hasCSSWide(tokens []Token) bool {
	for _, token := range tokens {
		if IsCSSWide(token) {
			return true
		}
	}
	return false
}

// Decorator helping expanders to handle CSS-wide keywords.
// Wrap an expander so that it does not have to handle the 'inherit',
// 'initial' and 'unset' cases, and can just return slot values.
// Each slot value is validated against its longhand; missing slots
// get their default value.
func genericExpander(slots ...slot) func(beforeGeneric) expander {
	return func(wrapped beforeGeneric) expander {
		return func(name string, tokens []Token) ([]Longhand, error) {
			out := make([]Longhand, len(slots))
			if kw, ok := cssWide(tokens); ok {
				for i, s := range slots {
					out[i] = Longhand{Name: s.prop, Value: kw}
				}
				return out, nil
			}
			if hasCSSWide(tokens) {
				return nil, ErrInvalidValue
			}

			result, err := wrapped(name, slots, tokens)
			if err != nil {
				return nil, err
			}

			set := make([]bool, len(slots))
			for _, st := range result {
				s := slots[st.index]
				if set[st.index] {
					return nil, errors.Errorf("got multiple %s values in a %s shorthand",
						strings.TrimPrefix(s.prop.String(), name+"-"), name)
				}
				set[st.index] = true
				v, err := Validate(s.prop, st.tokens)
				if err != nil {
					return nil, errors.Wrapf(err, "validating %s", s.prop)
				}
				out[st.index] = Longhand{Name: s.prop, Value: v}
			}
			for i, s := range slots {
				if set[i] {
					continue
				}
				if s.def == nil {
					return nil, errors.Errorf("missing %s value in a %s shorthand", s.prop, name)
				}
				out[i] = Longhand{Name: s.prop, Value: s.def}
			}
			return out, nil
		}
	}
}

// Expand properties setting a token for the four sides of a box,
// given in [top, right, bottom, left] order.
func expandFourSides(sides [4]pr.KnownProp) expander {
	return func(name string, tokens []Token) ([]Longhand, error) {
		var out [4]Longhand
		if kw, ok := cssWide(tokens); ok {
			for i, side := range sides {
				out[i] = Longhand{Name: side, Value: kw}
			}
			return out[:], nil
		}
		if hasCSSWide(tokens) {
			return nil, ErrInvalidValue
		}

		// Make sure we have 4 tokens
		switch len(tokens) {
		case 1:
			tokens = []Token{tokens[0], tokens[0], tokens[0], tokens[0]}
		case 2:
			tokens = []Token{tokens[0], tokens[1], tokens[0], tokens[1]} // (bottom, left) defaults to (top, right)
		case 3:
			tokens = []Token{tokens[0], tokens[1], tokens[2], tokens[1]} // left defaults to right
		case 4:
		default:
			return nil, errors.Errorf("expected 1 to 4 token components got %d", len(tokens))
		}

		for i, side := range sides {
			v, err := Validate(side, tokens[i:i+1])
			if err != nil {
				return nil, errors.Wrapf(err, "validating %s", side)
			}
			out[i] = Longhand{Name: side, Value: v}
		}
		return out[:], nil
	}
}

// Expand the “border“ shorthand: the same value is used for the
// four border sides.
func expandBorder(borderSide func(int) []slot) expander {
	var sides [4]expander
	for i := range sides {
		sides[i] = genericExpander(borderSide(i)...)(_expandAnyOrder)
	}
	return func(name string, tokens []Token) ([]Longhand, error) {
		var out []Longhand
		for _, side := range sides {
			lhs, err := side(name, tokens)
			if err != nil {
				return nil, err
			}
			out = append(out, lhs...)
		}
		return out, nil
	}
}

// accepts returns true if [tokens] is a valid value for [prop].
func accepts(prop pr.KnownProp, tokens []Token) bool {
	_, err := validators[prop](tokens)
	return err == nil
}

// Each token is assigned to the first slot accepting it, as for the
// “border-*“ and “outline“ shorthands.
func _expandAnyOrder(_ string, slots []slot, tokens []Token) ([]slotTokens, error) {
	out := make([]slotTokens, 0, len(tokens))
	for _, token := range tokens {
		found := false
		for i, s := range slots {
			if accepts(s.prop, []Token{token}) {
				out = append(out, slotTokens{index: i, tokens: []Token{token}})
				found = true
				break
			}
		}
		if !found {
			return nil, ErrInvalidValue
		}
	}
	return out, nil
}

// Expand the “list-style“ shorthand.
// Slots are type, position, image. 'none' may apply to the type
// or to the image.
func _expandListStyle(_ string, _ []slot, tokens []Token) ([]slotTokens, error) {
	var (
		out            []slotTokens
		typeSpecified  bool
		imageSpecified bool
		noneCount      int
	)
	for _, token := range tokens {
		switch {
		case getKeyword(token) == "none":
			// Can be either -style or -image, see at the end which is not
			// otherwise specified.
			noneCount++
		case accepts(pr.PListStylePosition, []Token{token}):
			out = append(out, slotTokens{1, []Token{token}})
		case accepts(pr.PListStyleImage, []Token{token}):
			out = append(out, slotTokens{2, []Token{token}})
			imageSpecified = true
		case accepts(pr.PListStyleType, []Token{token}):
			out = append(out, slotTokens{0, []Token{token}})
			typeSpecified = true
		default:
			return nil, ErrInvalidValue
		}
	}

	none := []Token{values.Keyword("none")}
	switch {
	case noneCount == 0:
	case noneCount == 1 && typeSpecified && imageSpecified:
		return nil, ErrInvalidValue
	case noneCount == 1:
		if !typeSpecified {
			out = append(out, slotTokens{0, none})
		}
		if !imageSpecified {
			out = append(out, slotTokens{2, none})
		}
	case noneCount == 2 && !typeSpecified && !imageSpecified:
		out = append(out, slotTokens{0, none}, slotTokens{2, none})
	default:
		return nil, ErrInvalidValue
	}
	return out, nil
}

// Expand the “text-decoration“ shorthand.
// Slots are line, style, color.
func _expandTextDecoration(_ string, _ []slot, tokens []Token) ([]slotTokens, error) {
	var (
		out   []slotTokens
		lines []Token
	)
	for _, token := range tokens {
		kw := getKeyword(token)
		switch {
		case kw == "none" || lineDecorations.Has(kw):
			lines = append(lines, token)
		case accepts(pr.PTextDecorationStyle, []Token{token}):
			out = append(out, slotTokens{1, []Token{token}})
		case accepts(pr.PTextDecorationColor, []Token{token}):
			out = append(out, slotTokens{2, []Token{token}})
		default:
			return nil, ErrInvalidValue
		}
	}
	if len(lines) != 0 {
		out = append(out, slotTokens{0, lines})
	}
	return out, nil
}

// Expand the “background“ shorthand, for one layer.
// Slots are color, image, repeat, attachment, position. The repeat and
// position values may span two tokens.
func _expandBackground(_ string, slots []slot, tokens []Token) ([]slotTokens, error) {
	if len(tokens) == 1 {
		if list, ok := tokens[0].(values.List); ok && list.Comma {
			return nil, errors.New("multiple background layers are not supported")
		}
	}
	var out []slotTokens
	for len(tokens) != 0 {
		found := false
	search:
		for i, s := range slots {
			for n := 2; n >= 1; n-- {
				if n > len(tokens) {
					continue
				}
				if accepts(s.prop, tokens[:n]) {
					out = append(out, slotTokens{i, tokens[:n]})
					tokens = tokens[n:]
					found = true
					break search
				}
			}
		}
		if !found {
			return nil, ErrInvalidValue
		}
	}
	return out, nil
}

var systemFonts = []string{"caption", "icon", "menu", "message-box", "small-caption", "status-bar"}

// splitFamilies separates the tokens of a font shorthand in the
// tokens before the first comma and the following font families.
func splitFamilies(tokens []Token) (head []Token, families []Token) {
	if len(tokens) != 1 {
		return tokens, nil
	}
	list, ok := tokens[0].(values.List)
	if !ok || !list.Comma {
		return tokens, nil
	}
	if first, ok := list.Items[0].(values.List); ok && !first.Comma {
		head = first.Items
	} else {
		head = list.Items[:1]
	}
	return head, list.Items[1:]
}

// Expand the “font“ shorthand.
// Slots are style, variant, weight, size, line-height, family.
func _expandFont(_ string, _ []slot, tokens []Token) ([]slotTokens, error) {
	if kw := getSingleKeyword(tokens); utils.IsIn(systemFonts, kw) {
		return nil, errors.New("system fonts are not supported")
	}
	tokens, families := splitFamilies(tokens)

	var out []slotTokens
	// Values for font-style, font-variant and font-weight can come
	// in any order and are all optional.
	i := 0
loop:
	for ; i < 3 && i < len(tokens); i++ {
		token := []Token{tokens[i]}
		switch {
		case getKeyword(tokens[i]) == "normal":
			// Unspecified values are 'normal' anyway.
		case accepts(pr.PFontStyle, token):
			out = append(out, slotTokens{0, token})
		case accepts(pr.PFontVariant, token):
			out = append(out, slotTokens{1, token})
		case accepts(pr.PFontWeight, token):
			out = append(out, slotTokens{2, token})
		default:
			break loop
		}
	}

	// Then font-size is mandatory
	if i >= len(tokens) || !accepts(pr.PFontSize, tokens[i:i+1]) {
		return nil, errors.New("font-size is mandatory for short font attribute")
	}
	out = append(out, slotTokens{3, tokens[i : i+1]})
	tokens = tokens[i+1:]

	// Then line-height is optional, but font-family is not so the list
	// must not be empty yet
	if len(tokens) != 0 && tokens[0] == parser.Slash {
		if len(tokens) < 2 {
			return nil, ErrInvalidValue
		}
		out = append(out, slotTokens{4, tokens[1:2]})
		tokens = tokens[2:]
	}

	if len(tokens) == 0 {
		return nil, errors.New("font-family is mandatory for short font attribute")
	}
	family := tokens
	if len(families) != 0 {
		first := tokens[0]
		if len(tokens) > 1 {
			first = values.List{Items: tokens}
		}
		family = []Token{values.List{Items: append([]Token{first}, families...), Comma: true}}
	}
	out = append(out, slotTokens{5, family})
	return out, nil
}
