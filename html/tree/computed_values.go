package tree

// Convert *specified* property values (the result of the cascade and
// inheritance) into *computed* values (that are inherited).

import (
	"strings"

	"github.com/benoitkugler/webstyle/css/validation"
	"github.com/benoitkugler/webstyle/css/values"
	"github.com/benoitkugler/webstyle/logger"
	"github.com/pkg/errors"

	pr "github.com/benoitkugler/webstyle/css/properties"
	"github.com/benoitkugler/webstyle/utils"
)

type Fl = utils.Fl

var (
	// http://www.w3.org/TR/CSS21/fonts.html#propdef-font-weight
	// extended to any weight in [1, 1000] with the thresholds of
	// https://www.w3.org/TR/css-fonts-4/#relative-weights
	fontWeightRelative = struct {
		bolder, lighter func(Fl) Fl
	}{
		bolder: func(w Fl) Fl {
			switch {
			case w < 350:
				return 400
			case w < 550:
				return 700
			case w < 900:
				return 900
			}
			return w
		},
		lighter: func(w Fl) Fl {
			switch {
			case w < 100:
				return w
			case w < 550:
				return 100
			case w < 750:
				return 400
			}
			return 700
		},
	}

	// Maps property names to functions returning the computed values
	computerFunctions = map[pr.KnownProp]computerFunc{}

	// to avoid declaration cycle
	tmp = map[pr.KnownProp]computerFunc{
		pr.PTop:           length,
		pr.PRight:         length,
		pr.PLeft:          length,
		pr.PBottom:        length,
		pr.PMarginTop:     length,
		pr.PMarginRight:   length,
		pr.PMarginBottom:  length,
		pr.PMarginLeft:    length,
		pr.PHeight:        length,
		pr.PWidth:         length,
		pr.PMinWidth:      length,
		pr.PMinHeight:     length,
		pr.PMaxWidth:      length,
		pr.PMaxHeight:     length,
		pr.PPaddingTop:    length,
		pr.PPaddingRight:  length,
		pr.PPaddingBottom: length,
		pr.PPaddingLeft:   length,
		pr.PTextIndent:    length,

		pr.PLetterSpacing:      pixelLength,
		pr.PBackgroundPosition: backgroundPosition,
		pr.PBorderTopWidth:     borderWidth,
		pr.PBorderRightWidth:   borderWidth,
		pr.PBorderLeftWidth:    borderWidth,
		pr.PBorderBottomWidth:  borderWidth,
		pr.POutlineWidth:       borderWidth,

		pr.PColor:               color,
		pr.PBorderTopColor:      color,
		pr.PBorderRightColor:    color,
		pr.PBorderBottomColor:   color,
		pr.PBorderLeftColor:     color,
		pr.POutlineColor:        color,
		pr.PTextDecorationColor: color,
		pr.PBackgroundColor:     color,

		pr.PContent:       content,
		pr.PDisplay:       display,
		pr.PFloat:         floating,
		pr.PFontSize:      fontSize,
		pr.PFontWeight:    fontWeight,
		pr.PLineHeight:    lineHeight,
		pr.POpacity:       opacity,
		pr.PVerticalAlign: verticalAlign,
		pr.PWordSpacing:   wordSpacing,
	}

	errNegative = errors.New("negative values are not allowed")
)

func init() {
	if pr.BorderWidthKeywords["medium"] != 3 {
		panic("border-top-width and medium should be the same !")
	}
	for k, v := range tmp {
		computerFunctions[k] = v
	}
}

// computerFunc returns the computed value of [value], specified for the property [p].
// An error means that the value is not valid in the context of the element.
type computerFunc = func(c *computer, p pr.KnownProp, value values.Token) (values.Token, error)

// ContainingBlock is the rectangle percentages of box properties refer to.
// A negative Height means that the height depends on the content.
type ContainingBlock struct {
	Width, Height Fl
}

// HeightKnown returns true if percentages of heights may be resolved.
func (cb ContainingBlock) HeightKnown() bool { return cb.Height >= 0 }

// computer provides on demand computation of the properties of one
// element (or pseudo-element), resolving the dependencies between
// properties of the same element (font-size before em units,
// border style before border width, etc.).
// It is only used while styling the element, and is then frozen
// into a read-only [ComputedStyle].
type computer struct {
	cascaded cascadedStyle
	parent   *ComputedStyle // nil for the root element
	opts     *Options

	doc    *Document
	node   int
	pseudo string

	cb           ContainingBlock
	rootFontSize Fl

	computed [pr.NbProperties]values.Token
	pending  [pr.NbProperties]bool // cycle detection

	warnings []InvalidValueWarning
}

func (c *computer) isRootElement() bool { return c.parent == nil }

// cascadeValue returns the specified value of [p], resolving the
// CSS-wide keywords. [inherited] is true when the value is
// taken from the parent, and is then already computed.
func (c *computer) cascadeValue(p pr.KnownProp) (value values.Token, inherited bool) {
	const (
		initial = iota + 1
		inherit
	)
	var keyword int
	if casc, in := c.cascaded[p]; in {
		value = casc.value
		switch {
		case value.Kind() == values.UnsetK:
			keyword = initial
			if p.IsInherited() {
				keyword = inherit
			}
		case values.IsKeyword(value, "inherit"):
			keyword = inherit
		case values.IsKeyword(value, "initial"):
			keyword = initial
		}
	} else if p.IsInherited() {
		keyword = inherit
	} else {
		keyword = initial
	}

	if keyword == inherit && c.isRootElement() {
		// On the root element, "inherit" from initial values
		keyword = initial
	}

	switch keyword {
	case initial:
		return p.Initial(), false
	case inherit:
		return c.parent.Get(p), true
	}
	return value, false
}

// get returns the computed value of [p], computing it if needed.
func (c *computer) get(p pr.KnownProp) values.Token {
	if v := c.computed[p]; v != nil {
		return v
	}
	if c.pending[p] {
		panic("cycle in the computation of " + p.String())
	}
	c.pending[p] = true
	defer func() { c.pending[p] = false }()

	value, inherited := c.cascadeValue(p)
	if inherited {
		// values in parent style are already computed
		c.computed[p] = value
		return value
	}

	out, err := c.compute(p, value)
	if err != nil {
		c.warn(p, value, err)
		out, err = c.compute(p, p.Initial())
		if err != nil { // initial values are always valid
			panic(err)
		}
	}
	c.computed[p] = out
	return out
}

func (c *computer) compute(p pr.KnownProp, value values.Token) (values.Token, error) {
	if pr.Table[p].NonNegative && isNegative(value) {
		return nil, errNegative
	}
	fn := computerFunctions[p]
	if fn == nil {
		return value, nil
	}
	return fn(c, p, value)
}

func (c *computer) warn(p pr.KnownProp, value values.Token, reason error) {
	w := InvalidValueWarning{Node: c.node, Pseudo: c.pseudo, Property: p, Value: value, Reason: reason}
	label := "<anonymous>"
	if c.doc != nil {
		label = c.doc.Label(c.node)
	}
	logger.WarningLogger.Warnf("Ignored %s on %s, falling back to the initial value: %s", value.Canonical(), label, w.Error())
	c.warnings = append(c.warnings, w)
}

func isNegative(value values.Token) bool {
	switch v := value.(type) {
	case values.Length:
		return v.Value < 0
	case values.Percentage:
		return v.Value < 0
	case values.Number:
		return v.Value < 0
	}
	return false
}

// fontSize returns the computed font size of the element, in pixels.
func (c *computer) fontSize() Fl { return values.MustLength(c.get(pr.PFontSize)).Value }

func (c *computer) parentFontSize() Fl {
	if c.parent == nil {
		return c.opts.FontSize
	}
	return c.parent.FontSize()
}

// lineHeight returns the computed line height, in pixels.
// 'normal' is approximated as 1.2 times the font size.
func (c *computer) lineHeight() Fl {
	switch v := c.get(pr.PLineHeight).(type) {
	case values.Length:
		return v.Value
	case values.Number:
		return v.Value * c.fontSize()
	}
	return 1.2 * c.fontSize()
}

// toPixels converts a length to pixels, using [fontSize] for
// font relative units.
// ex and ch units are approximated as half an em, since the metrics
// of the fonts are not available.
func (c *computer) toPixels(value values.Length, fontSize Fl) values.Length {
	unit := value.Unit
	if unit == values.UnitPx {
		return value
	}
	if value.Value == 0 {
		return values.Px(0)
	}
	if unit.IsAbsolute() {
		return values.Px(value.Value * values.LengthsToPixels[unit])
	}
	var result Fl
	switch unit {
	case values.UnitEm:
		result = value.Value * fontSize
	case values.UnitEx, values.UnitCh:
		result = value.Value * fontSize * 0.5
	case values.UnitRem:
		result = value.Value * c.rootFontSize
	case values.UnitVw:
		result = value.Value * c.opts.ViewportWidth / 100
	case values.UnitVh:
		result = value.Value * c.opts.ViewportHeight / 100
	case values.UnitVmin:
		result = value.Value * utils.MinF(c.opts.ViewportWidth, c.opts.ViewportHeight) / 100
	case values.UnitVmax:
		result = value.Value * utils.MaxF(c.opts.ViewportWidth, c.opts.ViewportHeight) / 100
	}
	return values.Px(result)
}

// percentage resolves [value] against the base of the property [p].
// Percentages of a property without base are kept.
func (c *computer) percentage(p pr.KnownProp, value values.Percentage) values.Token {
	var base Fl
	switch pr.Table[p].Percent {
	case pr.PercentCBWidth:
		base = c.cb.Width
	case pr.PercentCBHeight:
		if !c.cb.HeightKnown() {
			return autoHeight(p)
		}
		base = c.cb.Height
	case pr.PercentParentFontSize:
		base = c.parentFontSize()
	case pr.PercentFontSize:
		base = c.fontSize()
	case pr.PercentLineHeight:
		base = c.lineHeight()
	default:
		return value
	}
	return values.Px(value.Value * base / 100)
}

// autoHeight is the computed value of a percentage height when
// the height of the containing block depends on its content.
func autoHeight(p pr.KnownProp) values.Token {
	switch p {
	case pr.PMinHeight:
		return values.Px(0)
	case pr.PMaxHeight:
		return values.Keyword("none")
	default:
		return values.Keyword("auto")
	}
}

// Compute a length or percentage [value]. Keywords (auto, none, normal)
// are returned unchanged.
func length(c *computer, p pr.KnownProp, value values.Token) (values.Token, error) {
	switch v := value.(type) {
	case values.Length:
		return c.toPixels(v, c.fontSize()), nil
	case values.Percentage:
		return c.percentage(p, v), nil
	}
	return value, nil
}

func pixelLength(c *computer, _ pr.KnownProp, value values.Token) (values.Token, error) {
	if l, ok := value.(values.Length); ok {
		return c.toPixels(l, c.fontSize()), nil
	}
	return value, nil
}

// Compute the “background-position“ property: lengths are converted,
// percentages depend on the positioning area and are kept.
func backgroundPosition(c *computer, p pr.KnownProp, value values.Token) (values.Token, error) {
	list, err := values.AsList(value)
	if err != nil {
		return nil, err
	}
	out := values.List{Items: make([]values.Token, len(list.Items))}
	for i, item := range list.Items {
		out.Items[i], _ = pixelLength(c, p, item)
	}
	return out, nil
}

// Compute the “border-*-width“ properties.
func borderWidth(c *computer, p pr.KnownProp, value values.Token) (values.Token, error) {
	style, _ := values.KeywordOf(c.get(p.BorderStyleFor()))
	if style == "none" || style == "hidden" {
		return values.Px(0), nil
	}
	if kw, ok := values.KeywordOf(value); ok {
		if bw, in := pr.BorderWidthKeywords[kw]; in {
			return values.Px(bw), nil
		}
		return nil, errors.Errorf("unexpected border width %s", kw)
	}
	l, err := values.AsLength(value)
	if err != nil {
		return nil, err
	}
	return c.toPixels(l, c.fontSize()), nil
}

// Compute the color properties: 'currentcolor' is resolved and
// color functions are evaluated.
func color(c *computer, p pr.KnownProp, value values.Token) (values.Token, error) {
	switch v := value.(type) {
	case values.Color:
		return v, nil
	case values.Function:
		return values.EvalColorFunction(v)
	case values.Keyword:
		if v != "currentcolor" {
			return nil, errors.Errorf("unexpected color keyword %s", v)
		}
		if p == pr.PColor {
			// 'color: currentcolor' is the same as 'color: inherit'
			if c.parent == nil {
				return p.Initial(), nil
			}
			return c.parent.Get(pr.PColor), nil
		}
		return c.get(pr.PColor), nil
	}
	return nil, errors.Errorf("unexpected color %s", value.Canonical())
}

// Compute the “content“ property.
func content(c *computer, _ pr.KnownProp, value values.Token) (values.Token, error) {
	switch kw, _ := values.KeywordOf(value); kw {
	case "normal":
		if c.pseudo == "before" || c.pseudo == "after" {
			return values.Keyword("none"), nil
		}
		return value, nil
	case "none":
		return value, nil
	}
	list, isList := value.(values.List)
	if !isList {
		list = values.List{Items: []values.Token{value}}
	}
	out := values.List{Items: make([]values.Token, len(list.Items))}
	for i, item := range list.Items {
		v, err := c.contentItem(item)
		if err != nil {
			return nil, err
		}
		out.Items[i] = v
	}
	if !isList {
		return out.Items[0], nil
	}
	return out, nil
}

// contentItem evaluates attr() functions. Other values need layout
// context, their computed value cannot be better than their
// specified value yet.
func (c *computer) contentItem(item values.Token) (values.Token, error) {
	fn, ok := item.(values.Function)
	if !ok || fn.Name != "attr" {
		return item, nil
	}
	if len(fn.Args) != 1 {
		return nil, errors.Errorf("invalid attr() arguments: %s", fn.Canonical())
	}
	name, ok := values.KeywordOf(fn.Args[0])
	if !ok {
		return nil, errors.Errorf("invalid attr() argument: %s", fn.Args[0].Canonical())
	}
	if c.doc == nil {
		return values.String(""), nil
	}
	attr, _ := c.doc.Attr(c.node, name)
	return values.String(attr), nil
}

// Compute the “display“ property.
// See http://www.w3.org/TR/CSS21/visuren.html#dis-pos-flo
func display(c *computer, _ pr.KnownProp, value values.Token) (values.Token, error) {
	kw, err := values.AsKeyword(value)
	if err != nil {
		return nil, err
	}
	position := c.get(pr.PPosition)
	float := c.get(pr.PFloat)
	if values.IsKeyword(position, "absolute") || values.IsKeyword(position, "fixed") ||
		!values.IsKeyword(float, "none") || (c.isRootElement() && c.pseudo == "") {
		switch {
		case kw == "inline-table":
			return values.Keyword("table"), nil
		case kw == "inline-flex":
			return values.Keyword("flex"), nil
		case kw == "inline-grid":
			return values.Keyword("grid"), nil
		case kw == "inline" || kw == "inline-block" || strings.HasPrefix(string(kw), "table-"):
			return values.Keyword("block"), nil
		}
	}
	return kw, nil
}

// Compute the “float“ property.
// See http://www.w3.org/TR/CSS21/visuren.html#dis-pos-flo
func floating(c *computer, _ pr.KnownProp, value values.Token) (values.Token, error) {
	position := c.get(pr.PPosition)
	if values.IsKeyword(position, "absolute") || values.IsKeyword(position, "fixed") {
		return values.Keyword("none"), nil
	}
	return value, nil
}

// Compute the “font-size“ property.
func fontSize(c *computer, _ pr.KnownProp, value values.Token) (values.Token, error) {
	scale := c.opts.FontSize / pr.MediumFontSize
	if kw, ok := values.KeywordOf(value); ok {
		if fs, in := pr.FontSizeKeywords[kw]; in {
			return values.Px(fs * scale), nil
		}
	}

	parentFontSize := c.parentFontSize()
	switch v := value.(type) {
	case values.Keyword:
		if v == "larger" {
			for _, k := range pr.FontSizeKeywordsOrder {
				if kv := pr.FontSizeKeywords[k] * scale; kv > parentFontSize {
					return values.Px(kv), nil
				}
			}
			return values.Px(parentFontSize * 1.2), nil
		} else if v == "smaller" {
			for i := len(pr.FontSizeKeywordsOrder) - 1; i >= 0; i -= 1 {
				if kv := pr.FontSizeKeywords[pr.FontSizeKeywordsOrder[i]] * scale; kv < parentFontSize {
					return values.Px(kv), nil
				}
			}
			return values.Px(parentFontSize * 0.8), nil
		}
	case values.Percentage:
		return values.Px(v.Value * parentFontSize / 100), nil
	case values.Length:
		// em units refer to the font size of the parent
		return c.toPixels(v, parentFontSize), nil
	}
	return nil, errors.Errorf("unexpected font size %s", value.Canonical())
}

// Compute the “font-weight“ property.
func fontWeight(c *computer, _ pr.KnownProp, value values.Token) (values.Token, error) {
	var out Fl
	switch v := value.(type) {
	case values.Number:
		return v, nil
	case values.Keyword:
		parentValue := Fl(400)
		if c.parent != nil {
			if n, ok := c.parent.Get(pr.PFontWeight).(values.Number); ok {
				parentValue = n.Value
			}
		}
		switch v {
		case "normal":
			out = 400
		case "bold":
			out = 700
		case "bolder":
			out = fontWeightRelative.bolder(parentValue)
		case "lighter":
			out = fontWeightRelative.lighter(parentValue)
		default:
			return nil, errors.Errorf("unexpected font weight %s", v)
		}
	default:
		return nil, errors.Errorf("unexpected font weight %s", value.Canonical())
	}
	return values.NewNumber(out)
}

// Compute the “line-height“ property.
func lineHeight(c *computer, p pr.KnownProp, value values.Token) (values.Token, error) {
	switch v := value.(type) {
	case values.Number:
		return v, nil
	case values.Percentage:
		return c.percentage(p, v), nil
	case values.Length:
		return c.toPixels(v, c.fontSize()), nil
	}
	return value, nil // normal
}

func opacity(_ *computer, _ pr.KnownProp, value values.Token) (values.Token, error) {
	v, err := values.AsNumber(value)
	if err != nil {
		return nil, err
	}
	return values.NewNumber(utils.Clamp(v.Value, 0, 1))
}

// Compute the “vertical-align“ property.
func verticalAlign(c *computer, p pr.KnownProp, value values.Token) (values.Token, error) {
	switch v := value.(type) {
	case values.Keyword:
		// Use +/- half an em for super and sub, same as Pango.
		// (See the SUPERSUBRISE constant in pango-markup.c)
		switch v {
		case "super":
			return values.Px(c.fontSize() * 0.5), nil
		case "sub":
			return values.Px(c.fontSize() * -0.5), nil
		}
		return v, nil
	case values.Percentage:
		return c.percentage(p, v), nil
	case values.Length:
		return c.toPixels(v, c.fontSize()), nil
	}
	return nil, errors.Errorf("unexpected vertical alignment %s", value.Canonical())
}

// Compute the “word-spacing“ property.
func wordSpacing(c *computer, p pr.KnownProp, value values.Token) (values.Token, error) {
	if values.IsKeyword(value, "normal") {
		return values.Px(0), nil
	}
	return pixelLength(c, p, value)
}

// ComputeValue returns the computed value of [raw], specified for [prop]
// on a child of [parent] (nil for the root element), whose containing
// block is [cb]. The other properties of the element take their
// initial or inherited value.
// When [raw] is not valid for [prop] in this context, the initial value
// is computed instead and the returned warning is not nil.
// A space separated [values.List] is checked as a sequence of tokens.
func ComputeValue(prop pr.KnownProp, raw values.Token, parent *ComputedStyle, cb ContainingBlock, opts Options) (values.Token, *InvalidValueWarning) {
	opts = opts.withDefaults()
	c := newComputer(nil, None, "", cascadedStyle{}, parent, cb, &opts)
	if raw == nil {
		raw = values.List{}
	}
	tokens := []values.Token{raw}
	if l, ok := raw.(values.List); ok && !l.Comma {
		tokens = l.Items
	}
	specified, err := validation.Validate(prop, tokens)
	if err != nil {
		c.warn(prop, raw, err)
		specified = values.Keyword("initial")
	}
	c.cascaded[prop] = weightedValue{value: specified}
	out := c.get(prop)
	if len(c.warnings) != 0 {
		return out, &c.warnings[0]
	}
	return out, nil
}

func newComputer(doc *Document, node int, pseudo string, cascaded cascadedStyle,
	parent *ComputedStyle, cb ContainingBlock, opts *Options,
) *computer {
	c := &computer{
		cascaded: cascaded,
		parent:   parent,
		opts:     opts,
		doc:      doc,
		node:     node,
		pseudo:   pseudo,
		cb:       cb,
	}
	if parent != nil {
		c.rootFontSize = parent.rootFontSize
	} else {
		// When specified on the font-size property of the root element, the
		// rem units refer to the property’s initial value.
		c.rootFontSize = opts.FontSize
	}
	return c
}
