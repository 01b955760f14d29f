package parser

import (
	"testing"

	"github.com/benoitkugler/webstyle/css/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	for _, test := range []struct {
		input string
		want  string
	}{
		{"red", "red"},
		{"1px 2px", "1px 2px"},
		{"50%", "50%"},
		{"-5px", "-5px"},
		{"1.5", "1.5"},
		{"0", "0"},
		{"12PX", "12px"},
		{"#f00", "rgb(255, 0, 0)"},
		{`"Times New Roman", serif`, `"Times New Roman", serif`},
		{"Times New Roman, serif", "times new roman, serif"},
		{"rgb(255, 0, 0)", "rgb(255, 0, 0)"},
		{"rgba(0, 0, 0, 0.5)", "rgba(0, 0, 0, 0.5)"},
		{"url(image.png)", `url("image.png")`},
		{`url("image.png")`, `url("image.png")`},
		{"12px/1.5 serif", "12px / 1.5 serif"},
		{"UNSET", "unset"},
	} {
		tokens, err := ParseValue(test.input)
		require.NoError(t, err, test.input)
		assert.Equal(t, test.want, values.AsCSS(tokens), test.input)
	}
}

func TestParseValueKinds(t *testing.T) {
	tokens, err := ParseValue("1px 2em 3 50% auto")
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	assert.Equal(t, values.Length{Value: 1, Unit: values.UnitPx}, tokens[0])
	assert.Equal(t, values.Length{Value: 2, Unit: values.UnitEm}, tokens[1])
	assert.Equal(t, values.Number{Value: 3, IsInt: true}, tokens[2])
	assert.Equal(t, values.Percentage{Value: 50}, tokens[3])
	assert.Equal(t, values.Keyword("auto"), tokens[4])

	tokens, err = ParseValue("unset")
	require.NoError(t, err)
	assert.Equal(t, []values.Token{values.Unset{}}, tokens)

	tokens, err = ParseValue("a, b c")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	list := values.MustList(tokens[0])
	assert.True(t, list.Comma)
	assert.Len(t, list.Items, 2)
}

func TestParseValueErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"   ",
		"12foo",
		"#ggg",
		"a,",
		", a",
		"rgb(1, 2",
		"a )",
	} {
		_, err := ParseValue(input)
		assert.Error(t, err, input)
	}
}

func TestParseStylesheet(t *testing.T) {
	sheet := ParseStylesheet(`
		p { color: red; margin: 1px 2px }
		.foo, #bar > a { color: blue !important }
		@import url(other.css);
		@media print { p { color: green } }
		@media screen, print { em { font-style: italic } }
		@font-face { font-family: x }
	`)
	require.Len(t, sheet.Rules, 4)

	assert.Equal(t, "p", sheet.Rules[0].Prelude)
	require.Len(t, sheet.Rules[0].Declarations, 2)
	d := sheet.Rules[0].Declarations[1]
	assert.Equal(t, "margin", d.Name)
	assert.Equal(t, "1px 2px", values.AsCSS(d.Value))
	assert.False(t, d.Important)
	assert.Nil(t, sheet.Rules[0].Media)

	assert.Equal(t, ".foo, #bar > a", sheet.Rules[1].Prelude)
	assert.True(t, sheet.Rules[1].Declarations[0].Important)
	assert.Equal(t, "blue", values.AsCSS(sheet.Rules[1].Declarations[0].Value))

	assert.Equal(t, [][]string{{"print"}}, sheet.Rules[2].Media)
	assert.Equal(t, [][]string{{"screen", "print"}}, sheet.Rules[3].Media)

	require.Len(t, sheet.Ignored, 2)
	assert.Equal(t, "@import", sheet.Ignored[0].Name)
	assert.Equal(t, "@font-face", sheet.Ignored[1].Name)
}

func TestParseDeclarations(t *testing.T) {
	decls := ParseDeclarations("color: red; WIDTH: 10px; height: 12foo")
	require.Len(t, decls, 3)
	assert.Equal(t, "width", decls[1].Name)
	assert.NoError(t, decls[1].Err)
	assert.Error(t, decls[2].Err)
	assert.Equal(t, "12foo", decls[2].Raw)

	// the last declaration needs no ';'
	decls = ParseDeclarations("color: green")
	require.Len(t, decls, 1)
	assert.NoError(t, decls[0].Err)
	assert.Equal(t, "green", values.AsCSS(decls[0].Value))

	decls = ParseDeclarations(" ; ;color: red !important;; margin : 0 ;")
	require.Len(t, decls, 2)
	assert.True(t, decls[0].Important)
	assert.Equal(t, "margin", decls[1].Name)
	assert.Equal(t, "0", decls[1].Raw)

	decls = ParseDeclarations(`content: "a;b"; width 2px; 12: 3; color: /* comment */ blue`)
	require.Len(t, decls, 4)
	assert.Equal(t, `"a;b"`, decls[0].Raw)
	assert.NoError(t, decls[0].Err)
	assert.Equal(t, "width", decls[1].Name)
	assert.Error(t, decls[1].Err)
	assert.Error(t, decls[2].Err)
	assert.Equal(t, "blue", values.AsCSS(decls[3].Value))

	assert.Empty(t, ParseDeclarations(""))
	assert.Empty(t, ParseDeclarations("@page { color: red }"))
}

func TestStylesheetRecovery(t *testing.T) {
	preludes := func(sheet *Stylesheet) (out []string) {
		for _, rule := range sheet.Rules {
			out = append(out, rule.Prelude)
		}
		return out
	}

	// empty declarations
	sheet := ParseStylesheet("p { color: red; ; width: 1px;; } div { color: blue }")
	assert.Equal(t, []string{"p", "div"}, preludes(sheet))
	require.Len(t, sheet.Rules[0].Declarations, 2)
	assert.Equal(t, "width", sheet.Rules[0].Declarations[1].Name)

	// a stray '}' invalidates the following prelude only
	sheet = ParseStylesheet("p { color: red } } div { color: blue } em { color: green }")
	assert.Equal(t, []string{"p", "} div", "em"}, preludes(sheet))

	// a broken declaration does not hide its neighbours
	sheet = ParseStylesheet("p { color: red; : blue; width: {1px}; height: 2px }")
	require.Len(t, sheet.Rules, 1)
	decls := sheet.Rules[0].Declarations
	require.Len(t, decls, 4)
	assert.Error(t, decls[1].Err)
	assert.Error(t, decls[2].Err)
	assert.Equal(t, "height", decls[3].Name)
	assert.NoError(t, decls[3].Err)

	// blocks are closed by the end of input
	sheet = ParseStylesheet("em { color: blue } @media print { p { color: red; margin: 1px")
	require.Len(t, sheet.Rules, 2)
	assert.Equal(t, [][]string{{"print"}}, sheet.Rules[1].Media)
	assert.Len(t, sheet.Rules[1].Declarations, 2)

	// ')' or ']' do not close a {} block
	sheet = ParseStylesheet("p { color: red ) } div { width: 1px }")
	assert.Equal(t, []string{"p", "div"}, preludes(sheet))
	assert.Error(t, sheet.Rules[0].Declarations[0].Err)

	// '}' does not close a function
	sheet = ParseStylesheet("p { color: rgb(1, 2 } div { width: 1px }")
	assert.Equal(t, []string{"p"}, preludes(sheet))

	// a prelude without block is dropped
	sheet = ParseStylesheet("p { color: red } div")
	assert.Equal(t, []string{"p"}, preludes(sheet))

	// unclosed comments end the input
	sheet = ParseStylesheet("p { color: red } /* div { color: blue }")
	assert.Equal(t, []string{"p"}, preludes(sheet))

	sheet = ParseStylesheet("<!-- p/* c */.a { color: red } -->")
	assert.Equal(t, []string{"p.a"}, preludes(sheet))

	sheet = ParseStylesheet("@media print; @charset \"utf-8\"; p { color: red }")
	assert.Equal(t, []string{"p"}, preludes(sheet))
	require.Len(t, sheet.Ignored, 2)
	assert.Equal(t, "missing block", sheet.Ignored[0].Reason)
	assert.Equal(t, "@charset", sheet.Ignored[1].Name)
}

func TestMediaQuery(t *testing.T) {
	media, err := ParseMediaQuery("")
	require.NoError(t, err)
	assert.Equal(t, []string{"all"}, media)

	media, err = ParseMediaQuery("Screen , print")
	require.NoError(t, err)
	assert.Equal(t, []string{"screen", "print"}, media)

	_, err = ParseMediaQuery("screen and (min-width: 100px)")
	assert.Error(t, err)

	assert.True(t, EvaluateMediaQuery([]string{"all"}, "print"))
	assert.True(t, EvaluateMediaQuery([]string{"print", "screen"}, "screen"))
	assert.False(t, EvaluateMediaQuery([]string{"print"}, "screen"))
}
