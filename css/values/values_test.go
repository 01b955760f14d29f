package values

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	for _, test := range []struct {
		token Token
		want  string
	}{
		{Keyword("auto"), "auto"},
		{Px(12.5), "12.5px"},
		{Length{Value: -0.0, Unit: UnitEm}, "0em"},
		{Percentage{50}, "50%"},
		{Number{Value: 1.5}, "1.5"},
		{Color{R: 1, A: 1}, "rgb(255, 0, 0)"},
		{Color{B: 1, A: 0.5}, "rgba(0, 0, 255, 0.5)"},
		{String(`a "b"`), `"a \"b\""`},
		{NewFunction("URL", String("a.png")), `url("a.png")`},
		{List{Items: []Token{String("Arial"), Keyword("serif")}, Comma: true}, `"Arial", serif`},
		{List{Items: []Token{Keyword("underline"), Keyword("overline")}}, "underline overline"},
		{Unset{}, "unset"},
	} {
		assert.Equal(t, test.want, test.token.Canonical())
	}
}

func TestAccessors(t *testing.T) {
	var tok Token = Px(3)

	l, err := AsLength(tok)
	require.NoError(t, err)
	assert.Equal(t, Fl(3), l.Value)

	_, err = AsKeyword(tok)
	var wv *WrongVariantError
	require.ErrorAs(t, err, &wv)
	assert.Equal(t, KeywordK, wv.Want)
	assert.Equal(t, LengthK, wv.Got)

	assert.Panics(t, func() { MustColor(tok) })
	assert.NotPanics(t, func() { MustLength(tok) })

	_, err = AsNumber(nil)
	assert.Error(t, err)
}

func TestKeywordHelpers(t *testing.T) {
	k, ok := SingleKeyword([]Token{Keyword("none")})
	assert.True(t, ok)
	assert.Equal(t, "none", k)

	_, ok = SingleKeyword([]Token{Keyword("a"), Keyword("b")})
	assert.False(t, ok)

	assert.True(t, IsKeyword(NewKeyword("AUTO"), "auto"))
	assert.Equal(t, "1px auto", AsCSS([]Token{Px(1), Keyword("auto")}))
}

func TestConstructors(t *testing.T) {
	_, err := NewLength(math.NaN(), UnitPx)
	assert.ErrorIs(t, err, ErrNotFinite)

	_, err = NewPercentage(math.Inf(1))
	assert.Error(t, err)

	n, err := NewNumber(4)
	require.NoError(t, err)
	assert.True(t, n.IsInt)

	c, err := NewColor(2, -1, 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, Color{R: 1, G: 0, B: 0.5, A: 1}, c)
}

func TestEqual(t *testing.T) {
	a := NewFunction("rgb", Number{Value: 1}, Number{Value: 2}, Number{Value: 3})
	b := NewFunction("rgb", Number{Value: 1}, Number{Value: 2}, Number{Value: 3})
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, Keyword("rgb")))
	assert.True(t, Equal(Px(1), Px(1)))
	assert.False(t, Equal(Px(1), Length{Value: 1, Unit: UnitEm}))
}

func TestColors(t *testing.T) {
	c, ok := ParseColorKeyword("Red")
	require.True(t, ok)
	assert.Equal(t, "rgb(255, 0, 0)", c.Canonical())

	c, ok = ParseColorKeyword("transparent")
	require.True(t, ok)
	assert.Equal(t, Fl(0), c.A)

	_, ok = ParseColorKeyword("currentcolor")
	assert.False(t, ok)

	for hex, want := range map[string]string{
		"f00":      "rgb(255, 0, 0)",
		"00ff00":   "rgb(0, 255, 0)",
		"0000ff80": "rgba(0, 0, 255, 0.502)",
		"fff0":     "rgba(255, 255, 255, 0)",
	} {
		c, ok := ParseHexColor(hex)
		require.True(t, ok, hex)
		assert.Equal(t, want, c.Canonical(), hex)
	}
	_, ok = ParseHexColor("ggg")
	assert.False(t, ok)
	_, ok = ParseHexColor("12345")
	assert.False(t, ok)
}

func TestColorFunctions(t *testing.T) {
	c, err := EvalColorFunction(NewFunction("rgb", Number{Value: 300}, Number{Value: 0}, Number{Value: -20}))
	require.NoError(t, err)
	assert.Equal(t, "rgb(255, 0, 0)", c.Canonical())

	c, err = EvalColorFunction(NewFunction("rgba", Percentage{100}, Percentage{50}, Percentage{0}, Number{Value: 0.25}))
	require.NoError(t, err)
	assert.Equal(t, "rgba(255, 128, 0, 0.25)", c.Canonical())

	c, err = EvalColorFunction(NewFunction("hsl", Number{Value: 120}, Percentage{100}, Percentage{50}))
	require.NoError(t, err)
	assert.Equal(t, "rgb(0, 255, 0)", c.Canonical())

	_, err = EvalColorFunction(NewFunction("rgb", Number{Value: 1}, Percentage{2}, Number{Value: 3}))
	assert.Error(t, err)

	_, err = EvalColorFunction(NewFunction("rgb", Number{Value: 1}))
	assert.Error(t, err)
}
