package validation

import (
	"testing"

	pr "github.com/benoitkugler/webstyle/css/properties"
	"github.com/benoitkugler/webstyle/css/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test the 4-value properties.
func TestExpandFourSides(t *testing.T) {
	assertValidDict(t, "margin: inherit", map[string]string{
		"margin-top":    "inherit",
		"margin-right":  "inherit",
		"margin-bottom": "inherit",
		"margin-left":   "inherit",
	})
	assertValidDict(t, "margin: 1em", map[string]string{
		"margin-top":    "1em",
		"margin-right":  "1em",
		"margin-bottom": "1em",
		"margin-left":   "1em",
	})
	assertValidDict(t, "margin: 1px 2px", map[string]string{
		"margin-top":    "1px",
		"margin-right":  "2px",
		"margin-bottom": "1px",
		"margin-left":   "2px",
	})
	assertValidDict(t, "margin: -1em auto 20%", map[string]string{
		"margin-top":    "-1em",
		"margin-right":  "auto",
		"margin-bottom": "20%",
		"margin-left":   "auto",
	})
	assertValidDict(t, "padding: 1em 0 2em 5px", map[string]string{
		"padding-top":    "1em",
		"padding-right":  "0px",
		"padding-bottom": "2em",
		"padding-left":   "5px",
	})
	assertValidDict(t, "border-style: solid none", map[string]string{
		"border-top-style":    "solid",
		"border-right-style":  "none",
		"border-bottom-style": "solid",
		"border-left-style":   "none",
	})
	assertValidDict(t, "border-color: red", map[string]string{
		"border-top-color":    "rgb(255, 0, 0)",
		"border-right-color":  "rgb(255, 0, 0)",
		"border-bottom-color": "rgb(255, 0, 0)",
		"border-left-color":   "rgb(255, 0, 0)",
	})

	assertInvalid(t, "padding: 1px 2px 3px 4px 5px", "expected 1 to 4 token components got 5")
	assertInvalid(t, "margin: rgb(0, 0, 0)", "invalid")
	assertInvalid(t, "padding: auto", "invalid")
	assertInvalid(t, "border-width: 12%", "invalid")
	assertInvalid(t, "margin: 1px inherit", "invalid")
	// one invalid side drops the whole declaration
	assertInvalid(t, "padding: 1px 2px auto", "validating padding-bottom")
}

// Test the “border“ property.
func TestExpandBorders(t *testing.T) {
	assertValidDict(t, "border-top: 3px dotted red", map[string]string{
		"border-top-width": "3px",
		"border-top-style": "dotted",
		"border-top-color": "rgb(255, 0, 0)",
	})
	assertValidDict(t, "border-top: 3px dotted", map[string]string{
		"border-top-width": "3px",
		"border-top-style": "dotted",
		"border-top-color": "currentcolor",
	})
	assertValidDict(t, "border-left: red thick", map[string]string{
		"border-left-width": "thick",
		"border-left-style": "none",
		"border-left-color": "rgb(255, 0, 0)",
	})
	assertValidDict(t, "border-bottom: solid", map[string]string{
		"border-bottom-width": "medium",
		"border-bottom-style": "solid",
		"border-bottom-color": "currentcolor",
	})
	assertValidDict(t, "outline: auto 2px", map[string]string{
		"outline-width": "2px",
		"outline-style": "auto",
		"outline-color": "currentcolor",
	})

	got := expandToDict(t, "border: 6px dashed lime", "")
	assert.Len(t, got, 12)
	for _, side := range []string{"top", "right", "bottom", "left"} {
		assert.Equal(t, "6px", got["border-"+side+"-width"])
		assert.Equal(t, "dashed", got["border-"+side+"-style"])
		assert.Equal(t, "rgb(0, 255, 0)", got["border-"+side+"-color"])
	}

	assertInvalid(t, "border: 6px dashed left", "invalid")
	assertInvalid(t, "border-top: 1px 2px", "got multiple width values in a border-top shorthand")
	assertInvalid(t, "border-top: 1px solid red inherit", "invalid")
}

// Test the “list-style“ property.
func TestExpandListStyle(t *testing.T) {
	assertValidDict(t, "list-style: inherit", map[string]string{
		"list-style-type":     "inherit",
		"list-style-position": "inherit",
		"list-style-image":    "inherit",
	})
	assertValidDict(t, "list-style: url(foo.png)", map[string]string{
		"list-style-type":     "disc",
		"list-style-position": "outside",
		"list-style-image":    `url("foo.png")`,
	})
	assertValidDict(t, "list-style: square inside", map[string]string{
		"list-style-type":     "square",
		"list-style-position": "inside",
		"list-style-image":    "none",
	})
	assertValidDict(t, "list-style: none", map[string]string{
		"list-style-type":     "none",
		"list-style-position": "outside",
		"list-style-image":    "none",
	})
	assertValidDict(t, "list-style: none square", map[string]string{
		"list-style-type":     "square",
		"list-style-position": "outside",
		"list-style-image":    "none",
	})
	assertValidDict(t, "list-style: none url(foo.png)", map[string]string{
		"list-style-type":     "none",
		"list-style-position": "outside",
		"list-style-image":    `url("foo.png")`,
	})
	assertValidDict(t, "list-style: none none", map[string]string{
		"list-style-type":     "none",
		"list-style-position": "outside",
		"list-style-image":    "none",
	})

	assertInvalid(t, "list-style: none inside none none", "invalid")
	assertInvalid(t, "list-style: none square url(foo.png)", "invalid")
	assertInvalid(t, "list-style: red", "invalid")
	assertInvalid(t, "list-style: circle disc", "got multiple type values in a list-style shorthand")
}

// Test the “font“ property.
func TestExpandFont(t *testing.T) {
	assertValidDict(t, "font: 12px My Fancy Font, serif", map[string]string{
		"font-style":   "normal",
		"font-variant": "normal",
		"font-weight":  "normal",
		"font-size":    "12px",
		"line-height":  "normal",
		"font-family":  `"my fancy font", serif`,
	})
	assertValidDict(t, `font: small/1.2 "Some Font", serif`, map[string]string{
		"font-style":   "normal",
		"font-variant": "normal",
		"font-weight":  "normal",
		"font-size":    "small",
		"line-height":  "1.2",
		"font-family":  `"Some Font", serif`,
	})
	assertValidDict(t, "font: small-caps italic 700 large serif", map[string]string{
		"font-style":   "italic",
		"font-variant": "small-caps",
		"font-weight":  "700",
		"font-size":    "large",
		"line-height":  "normal",
		"font-family":  "serif",
	})
	assertValidDict(t, "font: normal bold 80%/2em monospace", map[string]string{
		"font-style":   "normal",
		"font-variant": "normal",
		"font-weight":  "bold",
		"font-size":    "80%",
		"line-height":  "2em",
		"font-family":  "monospace",
	})

	assertInvalid(t, "font: menu", "system fonts are not supported")
	assertInvalid(t, "font: 12deg My Fancy Font, serif", "Ignored")
	assertInvalid(t, "font: 12px", "font-family is mandatory")
	assertInvalid(t, "font: bold italic serif", "font-size is mandatory")
	assertInvalid(t, "font: 12px/foo serif", "invalid")
	assertInvalid(t, "font: 12px/", "invalid")
	assertInvalid(t, "font: bold bolder 12px serif", "got multiple weight values in a font shorthand")
}

// Test the “text-decoration“ property.
func TestExpandTextDecoration(t *testing.T) {
	assertValidDict(t, "text-decoration: underline", map[string]string{
		"text-decoration-line":  "underline",
		"text-decoration-style": "solid",
		"text-decoration-color": "currentcolor",
	})
	assertValidDict(t, "text-decoration: overline blink line-through", map[string]string{
		"text-decoration-line":  "overline blink line-through",
		"text-decoration-style": "solid",
		"text-decoration-color": "currentcolor",
	})
	assertValidDict(t, "text-decoration: red wavy underline", map[string]string{
		"text-decoration-line":  "underline",
		"text-decoration-style": "wavy",
		"text-decoration-color": "rgb(255, 0, 0)",
	})
	assertValidDict(t, "text-decoration: none", map[string]string{
		"text-decoration-line":  "none",
		"text-decoration-style": "solid",
		"text-decoration-color": "currentcolor",
	})

	assertInvalid(t, "text-decoration: underline none", "invalid")
	assertInvalid(t, "text-decoration: 12px", "invalid")
	assertInvalid(t, "text-decoration: solid dotted", "got multiple style values")
}

// Test the “background“ property.
func TestExpandBackground(t *testing.T) {
	assertValidDict(t, "background: red", map[string]string{
		"background-color":      "rgb(255, 0, 0)",
		"background-image":      "none",
		"background-repeat":     "repeat",
		"background-attachment": "scroll",
		"background-position":   "0% 0%",
	})
	assertValidDict(t, "background: url(bar) #f00 repeat-y center top fixed", map[string]string{
		"background-color":      "rgb(255, 0, 0)",
		"background-image":      `url("bar")`,
		"background-repeat":     "repeat-y",
		"background-attachment": "fixed",
		"background-position":   "50% 0%",
	})
	assertValidDict(t, "background: no-repeat repeat 3px", map[string]string{
		"background-color":      "rgba(0, 0, 0, 0)",
		"background-image":      "none",
		"background-repeat":     "no-repeat repeat",
		"background-attachment": "scroll",
		"background-position":   "3px 50%",
	})

	assertInvalid(t, "background: 10px lipsum", "invalid")
	assertInvalid(t, "background: red blue", "got multiple color values in a background shorthand")
	assertInvalid(t, "background: url(a), url(b)", "multiple background layers are not supported")
}

func TestExpand(t *testing.T) {
	lhs, err := Expand("margin", []Token{values.Px(1), values.Px(2)})
	require.NoError(t, err)
	assert.Equal(t, []Longhand{
		{Name: pr.PMarginTop, Value: values.Px(1)},
		{Name: pr.PMarginRight, Value: values.Px(2)},
		{Name: pr.PMarginBottom, Value: values.Px(1)},
		{Name: pr.PMarginLeft, Value: values.Px(2)},
	}, lhs)

	lhs, err = Expand("color", []Token{values.Keyword("red")})
	require.NoError(t, err)
	assert.Equal(t, []Longhand{{Name: pr.PColor, Value: values.Color{R: 1, A: 1}}}, lhs)

	_, err = Expand("margin", []Token{values.Keyword("red")})
	assert.Error(t, err)

	_, err = Expand("nope", []Token{values.Keyword("red")})
	assert.ErrorIs(t, err, ErrUnknownProperty)

	assert.True(t, IsShorthand("border"))
	assert.False(t, IsShorthand("border-top-width"))
	assert.Equal(t, []pr.KnownProp{pr.PListStyleType, pr.PListStylePosition, pr.PListStyleImage}, ShorthandLonghands("list-style"))
	assert.Len(t, ShorthandLonghands("border"), 12)
	assert.Nil(t, ShorthandLonghands("color"))
}
