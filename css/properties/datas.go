package properties

var (
	// Value in pixels of font-size for <absolute-size> keywords: 12pt (16px) for
	// medium, and scaling factors given in CSS3 for others:
	// http://www.w3.org/TR/css3-fonts/#font-size-prop
	FontSizeKeywords = map[string]Fl{ // medium is 16px, others are a ratio of medium
		"xx-small": MediumFontSize * 3 / 5,
		"x-small":  MediumFontSize * 3 / 4,
		"small":    MediumFontSize * 8 / 9,
		"medium":   MediumFontSize * 1 / 1,
		"large":    MediumFontSize * 6 / 5,
		"x-large":  MediumFontSize * 3 / 2,
		"xx-large": MediumFontSize * 2 / 1,
	}
	FontSizeKeywordsOrder = []string{"xx-small", "x-small", "small", "medium", "large", "x-large", "xx-large"}

	// Sides of the box model properties, in the [top, right, bottom, left] order.
	MarginSides      = [4]KnownProp{PMarginTop, PMarginRight, PMarginBottom, PMarginLeft}
	PaddingSides     = [4]KnownProp{PPaddingTop, PPaddingRight, PPaddingBottom, PPaddingLeft}
	BorderWidthSides = [4]KnownProp{PBorderTopWidth, PBorderRightWidth, PBorderBottomWidth, PBorderLeftWidth}
	BorderStyleSides = [4]KnownProp{PBorderTopStyle, PBorderRightStyle, PBorderBottomStyle, PBorderLeftStyle}
	BorderColorSides = [4]KnownProp{PBorderTopColor, PBorderRightColor, PBorderBottomColor, PBorderLeftColor}

	// BorderWidthKeywords are the computed widths of the border keywords.
	BorderWidthKeywords = map[string]Fl{
		"thin":   1,
		"medium": 3,
		"thick":  5,
	}
)

// MediumFontSize is the font size of the 'medium' keyword, in pixels.
const MediumFontSize Fl = 16

// IsBorderWidth returns true for the border (and outline) width properties.
func (p KnownProp) IsBorderWidth() bool {
	return PBorderTopWidth <= p && p <= PBorderLeftWidth || p == POutlineWidth
}

// BorderStyleFor returns the style property matching the width
// property [p], which must satisfy [IsBorderWidth].
func (p KnownProp) BorderStyleFor() KnownProp {
	if p == POutlineWidth {
		return POutlineStyle
	}
	return p - PBorderTopWidth + PBorderTopStyle
}

// IsColorReference returns true for the properties whose
// initial value is 'currentcolor'.
func (p KnownProp) IsColorReference() bool {
	switch p {
	case PBorderTopColor, PBorderRightColor, PBorderBottomColor, PBorderLeftColor,
		POutlineColor, PTextDecorationColor:
		return true
	}
	return false
}
