// Package properties lists the longhand CSS properties supported by the
// cascade, with their initial value, inheritance and percentage base.
package properties

import (
	"github.com/benoitkugler/webstyle/css/values"
	"github.com/benoitkugler/webstyle/utils"
)

type Fl = utils.Fl

// KnownProp efficiently encode a known CSS property
type KnownProp uint8

const (
	_ KnownProp = iota

	// CSS 2.1: https://www.w3.org/TR/CSS21/propidx.html
	PColor
	PDisplay
	PPosition
	PFloat
	PClear
	PVisibility
	PZIndex
	PTop
	PRight
	PBottom
	PLeft
	PWidth
	PHeight
	PMinWidth
	PMinHeight
	PMaxWidth
	PMaxHeight
	PDirection
	PCaptionSide
	PEmptyCells
	PTableLayout
	PBorderCollapse
	POverflow
	PContent

	// the following properties are grouped by side,
	// in the [top, right, bottom, left] order
	PMarginTop
	PMarginRight
	PMarginBottom
	PMarginLeft
	PPaddingTop
	PPaddingRight
	PPaddingBottom
	PPaddingLeft
	PBorderTopWidth
	PBorderRightWidth
	PBorderBottomWidth
	PBorderLeftWidth
	PBorderTopStyle
	PBorderRightStyle
	PBorderBottomStyle
	PBorderLeftStyle
	PBorderTopColor
	PBorderRightColor
	PBorderBottomColor
	PBorderLeftColor

	// User Interface 3: https://www.w3.org/TR/css-ui-3/
	POutlineWidth
	POutlineStyle
	POutlineColor
	PBoxSizing

	// Backgrounds and Borders 3: https://www.w3.org/TR/css-backgrounds-3/
	// in the order expected by the background shorthand
	PBackgroundColor
	PBackgroundImage
	PBackgroundRepeat
	PBackgroundAttachment
	PBackgroundPosition

	// Fonts 3: https://www.w3.org/TR/css-fonts-3/
	PFontFamily
	PFontSize
	PFontStyle
	PFontVariant
	PFontWeight
	PLineHeight

	// Text 3: https://www.w3.org/TR/css-text-3/
	PLetterSpacing
	PWordSpacing
	PTextAlign
	PTextIndent
	PTextTransform
	PWhiteSpace

	// Text Decoration 3: https://www.w3.org/TR/css-text-decor-3/
	PTextDecorationLine
	PTextDecorationStyle
	PTextDecorationColor

	PVerticalAlign

	// Lists 3: https://www.w3.org/TR/css-lists-3/
	PListStyleType
	PListStylePosition
	PListStyleImage

	// Color 3: https://www.w3.org/TR/css-color-3/
	POpacity

	// Fragmentation 3: https://www.w3.org/TR/css-break-3/
	POrphans
	PWidows

	NbProperties
)

// PercentBase is the reference used to resolve a percentage
// specified for a property.
type PercentBase uint8

const (
	// PercentNone is used for properties which do not accept
	// percentages, or which keep them as computed value.
	PercentNone PercentBase = iota
	// PercentCBWidth is the width of the containing block.
	PercentCBWidth
	// PercentCBHeight is the height of the containing block.
	PercentCBHeight
	// PercentParentFontSize is the computed font size of the parent.
	PercentParentFontSize
	// PercentFontSize is the computed font size of the element itself.
	PercentFontSize
	// PercentLineHeight is the computed line height of the element.
	PercentLineHeight
)

// Property describes a longhand property.
type Property struct {
	Name      string
	Inherited bool
	// Initial is the specified initial value; it still goes through
	// value computation (for instance 'medium' border widths).
	Initial values.Token
	Percent PercentBase
	// NonNegative properties reject negative lengths, percentages
	// and numbers at computation time.
	NonNegative bool
}

var (
	auto         = values.Keyword("auto")
	none         = values.Keyword("none")
	normal       = values.Keyword("normal")
	medium       = values.Keyword("medium")
	currentColor = values.Keyword("currentcolor")
	zeroPixels   = values.Px(0)
)

// Table stores the definition of each known property.
var Table = [NbProperties]Property{
	PColor:          {Name: "color", Inherited: true, Initial: values.Color{A: 1}}, // chosen by the user agent
	PDisplay:        {Name: "display", Initial: values.Keyword("inline")},
	PPosition:       {Name: "position", Initial: values.Keyword("static")},
	PFloat:          {Name: "float", Initial: none},
	PClear:          {Name: "clear", Initial: none},
	PVisibility:     {Name: "visibility", Inherited: true, Initial: values.Keyword("visible")},
	PZIndex:         {Name: "z-index", Initial: auto},
	PTop:            {Name: "top", Initial: auto, Percent: PercentCBHeight},
	PRight:          {Name: "right", Initial: auto, Percent: PercentCBWidth},
	PBottom:         {Name: "bottom", Initial: auto, Percent: PercentCBHeight},
	PLeft:           {Name: "left", Initial: auto, Percent: PercentCBWidth},
	PWidth:          {Name: "width", Initial: auto, Percent: PercentCBWidth, NonNegative: true},
	PHeight:         {Name: "height", Initial: auto, Percent: PercentCBHeight, NonNegative: true},
	PMinWidth:       {Name: "min-width", Initial: zeroPixels, Percent: PercentCBWidth, NonNegative: true},
	PMinHeight:      {Name: "min-height", Initial: zeroPixels, Percent: PercentCBHeight, NonNegative: true},
	PMaxWidth:       {Name: "max-width", Initial: none, Percent: PercentCBWidth, NonNegative: true},
	PMaxHeight:      {Name: "max-height", Initial: none, Percent: PercentCBHeight, NonNegative: true},
	PDirection:      {Name: "direction", Inherited: true, Initial: values.Keyword("ltr")},
	PCaptionSide:    {Name: "caption-side", Inherited: true, Initial: values.Keyword("top")},
	PEmptyCells:     {Name: "empty-cells", Inherited: true, Initial: values.Keyword("show")},
	PTableLayout:    {Name: "table-layout", Initial: auto},
	PBorderCollapse: {Name: "border-collapse", Inherited: true, Initial: values.Keyword("separate")},
	POverflow:       {Name: "overflow", Initial: values.Keyword("visible")},
	PContent:        {Name: "content", Initial: normal},

	// margins (and paddings) percentages always refer to the width
	PMarginTop:    {Name: "margin-top", Initial: zeroPixels, Percent: PercentCBWidth},
	PMarginRight:  {Name: "margin-right", Initial: zeroPixels, Percent: PercentCBWidth},
	PMarginBottom: {Name: "margin-bottom", Initial: zeroPixels, Percent: PercentCBWidth},
	PMarginLeft:   {Name: "margin-left", Initial: zeroPixels, Percent: PercentCBWidth},

	PPaddingTop:    {Name: "padding-top", Initial: zeroPixels, Percent: PercentCBWidth, NonNegative: true},
	PPaddingRight:  {Name: "padding-right", Initial: zeroPixels, Percent: PercentCBWidth, NonNegative: true},
	PPaddingBottom: {Name: "padding-bottom", Initial: zeroPixels, Percent: PercentCBWidth, NonNegative: true},
	PPaddingLeft:   {Name: "padding-left", Initial: zeroPixels, Percent: PercentCBWidth, NonNegative: true},

	PBorderTopWidth:    {Name: "border-top-width", Initial: medium, NonNegative: true},
	PBorderRightWidth:  {Name: "border-right-width", Initial: medium, NonNegative: true},
	PBorderBottomWidth: {Name: "border-bottom-width", Initial: medium, NonNegative: true},
	PBorderLeftWidth:   {Name: "border-left-width", Initial: medium, NonNegative: true},
	PBorderTopStyle:    {Name: "border-top-style", Initial: none},
	PBorderRightStyle:  {Name: "border-right-style", Initial: none},
	PBorderBottomStyle: {Name: "border-bottom-style", Initial: none},
	PBorderLeftStyle:   {Name: "border-left-style", Initial: none},
	PBorderTopColor:    {Name: "border-top-color", Initial: currentColor},
	PBorderRightColor:  {Name: "border-right-color", Initial: currentColor},
	PBorderBottomColor: {Name: "border-bottom-color", Initial: currentColor},
	PBorderLeftColor:   {Name: "border-left-color", Initial: currentColor},

	POutlineWidth: {Name: "outline-width", Initial: medium, NonNegative: true},
	POutlineStyle: {Name: "outline-style", Initial: none},
	POutlineColor: {Name: "outline-color", Initial: currentColor}, // invert is not supported
	PBoxSizing:    {Name: "box-sizing", Initial: values.Keyword("content-box")},

	PBackgroundColor:      {Name: "background-color", Initial: values.Color{}},
	PBackgroundImage:      {Name: "background-image", Initial: none},
	PBackgroundRepeat:     {Name: "background-repeat", Initial: values.Keyword("repeat")},
	PBackgroundAttachment: {Name: "background-attachment", Initial: values.Keyword("scroll")},
	// percentages depend on the background positioning area, and are kept
	PBackgroundPosition: {Name: "background-position", Initial: values.List{Items: []values.Token{
		values.Percentage{}, values.Percentage{},
	}}},

	PFontFamily:  {Name: "font-family", Inherited: true, Initial: values.List{Items: []values.Token{values.Keyword("serif")}, Comma: true}}, // depends on user agent
	PFontSize:    {Name: "font-size", Inherited: true, Initial: medium, Percent: PercentParentFontSize, NonNegative: true},
	PFontStyle:   {Name: "font-style", Inherited: true, Initial: normal},
	PFontVariant: {Name: "font-variant", Inherited: true, Initial: normal},
	PFontWeight:  {Name: "font-weight", Inherited: true, Initial: normal},
	PLineHeight:  {Name: "line-height", Inherited: true, Initial: normal, Percent: PercentFontSize, NonNegative: true},

	PLetterSpacing: {Name: "letter-spacing", Inherited: true, Initial: normal},
	PWordSpacing:   {Name: "word-spacing", Inherited: true, Initial: normal},
	PTextAlign:     {Name: "text-align", Inherited: true, Initial: values.Keyword("start")},
	PTextIndent:    {Name: "text-indent", Inherited: true, Initial: zeroPixels, Percent: PercentCBWidth},
	PTextTransform: {Name: "text-transform", Inherited: true, Initial: none},
	PWhiteSpace:    {Name: "white-space", Inherited: true, Initial: normal},

	PTextDecorationLine:  {Name: "text-decoration-line", Initial: none},
	PTextDecorationStyle: {Name: "text-decoration-style", Initial: values.Keyword("solid")},
	PTextDecorationColor: {Name: "text-decoration-color", Initial: currentColor},

	PVerticalAlign: {Name: "vertical-align", Initial: values.Keyword("baseline"), Percent: PercentLineHeight},

	PListStyleType:     {Name: "list-style-type", Inherited: true, Initial: values.Keyword("disc")},
	PListStylePosition: {Name: "list-style-position", Inherited: true, Initial: values.Keyword("outside")},
	PListStyleImage:    {Name: "list-style-image", Inherited: true, Initial: none},

	POpacity: {Name: "opacity", Initial: values.Number{Value: 1, IsInt: true}},

	POrphans: {Name: "orphans", Inherited: true, Initial: values.Number{Value: 2, IsInt: true}, NonNegative: true},
	PWidows:  {Name: "widows", Inherited: true, Initial: values.Number{Value: 2, IsInt: true}, NonNegative: true},
}

var propsFromNames = map[string]KnownProp{}

func init() {
	for p := KnownProp(1); p < NbProperties; p++ {
		propsFromNames[Table[p].Name] = p
	}
}

// PropFromName returns the longhand property named [name],
// or false for shorthands and unknown properties.
func PropFromName(name string) (KnownProp, bool) {
	p, ok := propsFromNames[name]
	return p, ok
}

func (p KnownProp) String() string {
	if p == 0 || p >= NbProperties {
		return "<invalid property>"
	}
	return Table[p].Name
}

// IsInherited returns true for inherited properties.
func (p KnownProp) IsInherited() bool { return Table[p].Inherited }

// Initial returns the specified initial value of the property.
func (p KnownProp) Initial() values.Token { return Table[p].Initial }

// All returns every known property, in a stable order.
func All() []KnownProp {
	out := make([]KnownProp, 0, NbProperties-1)
	for p := KnownProp(1); p < NbProperties; p++ {
		out = append(out, p)
	}
	return out
}
