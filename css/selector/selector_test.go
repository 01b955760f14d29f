package selector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTree is a minimal indexed document.
type testTree struct {
	nodes []testNode
}

type testNode struct {
	name     string
	parent   int
	attrs    map[string]string
	children []int
	text     bool
}

// add appends an element; attributes are given as "key=value" pairs.
func (t *testTree) add(parent int, name string, attrs ...string) int {
	n := testNode{name: name, parent: parent, attrs: map[string]string{}}
	for _, a := range attrs {
		k, v, _ := strings.Cut(a, "=")
		n.attrs[k] = v
	}
	t.nodes = append(t.nodes, n)
	id := len(t.nodes) - 1
	if parent >= 0 {
		t.nodes[parent].children = append(t.nodes[parent].children, id)
	}
	return id
}

func (t *testTree) Parent(n int) int       { return t.nodes[n].parent }
func (t *testTree) LocalName(n int) string { return t.nodes[n].name }
func (t *testTree) ID(n int) string        { return t.nodes[n].attrs["id"] }

func (t *testTree) HasClass(n int, class string) bool {
	for _, c := range strings.Fields(t.nodes[n].attrs["class"]) {
		if c == class {
			return true
		}
	}
	return false
}

func (t *testTree) Attr(n int, name string) (string, bool) {
	v, ok := t.nodes[n].attrs[name]
	return v, ok
}

func (t *testTree) siblings(n int) []int {
	p := t.nodes[n].parent
	if p < 0 {
		return []int{n}
	}
	return t.nodes[p].children
}

func (t *testTree) PrevElement(n int) int {
	sibs := t.siblings(n)
	for i, s := range sibs {
		if s == n && i > 0 {
			return sibs[i-1]
		}
	}
	return -1
}

func (t *testTree) Position(n int) Position {
	var pos Position
	for _, s := range t.siblings(n) {
		pos.Count++
		sameType := t.nodes[s].name == t.nodes[n].name
		if sameType {
			pos.TypeCount++
		}
		if s == n {
			pos.Index = pos.Count
			pos.TypeIndex = pos.TypeCount
		}
	}
	return pos
}

func (t *testTree) IsEmpty(n int) bool {
	return len(t.nodes[n].children) == 0 && !t.nodes[n].text
}

func (t *testTree) Lang(n int) string {
	for ; n >= 0; n = t.nodes[n].parent {
		if l, ok := t.nodes[n].attrs["lang"]; ok {
			return l
		}
	}
	return ""
}

// <html lang=en-US>
//
//	<body>
//	  <div id=main class="box wide">
//	    <p class=note>  <p>  <a href=x>  <p lang=fr>
//	  </div>
//	  <ul> <li> <li class=x> <li> </ul>
//	</body>
func sampleTree() (*testTree, map[string]int) {
	t := &testTree{}
	ids := map[string]int{}
	ids["html"] = t.add(-1, "html", "lang=en-US")
	ids["body"] = t.add(ids["html"], "body")
	ids["div"] = t.add(ids["body"], "div", "id=main", "class=box wide")
	ids["p1"] = t.add(ids["div"], "p", "class=note")
	t.nodes[ids["p1"]].text = true
	ids["p2"] = t.add(ids["div"], "p")
	ids["a"] = t.add(ids["div"], "a", "href=x", "title=Hello World")
	ids["p3"] = t.add(ids["div"], "p", "lang=fr")
	ids["ul"] = t.add(ids["body"], "ul")
	ids["li1"] = t.add(ids["ul"], "li")
	ids["li2"] = t.add(ids["ul"], "li", "class=x")
	ids["li3"] = t.add(ids["ul"], "li")
	return t, ids
}

func matching(t *testing.T, tree *testTree, sel string) []int {
	group, err := ParseGroup(sel)
	require.NoError(t, err, sel)
	var out []int
	for n := range tree.nodes {
		if group.Match(tree, n) {
			out = append(out, n)
		}
	}
	return out
}

func TestMatch(t *testing.T) {
	tree, ids := sampleTree()
	for _, test := range []struct {
		sel  string
		want []string
	}{
		{"p", []string{"p1", "p2", "p3"}},
		{"*", []string{"html", "body", "div", "p1", "p2", "a", "p3", "ul", "li1", "li2", "li3"}},
		{"#main", []string{"div"}},
		{".wide.box", []string{"div"}},
		{"div p", []string{"p1", "p2", "p3"}},
		{"body > p", nil},
		{"div > p.note", []string{"p1"}},
		{"p + p", []string{"p2"}},
		{"p ~ p", []string{"p2", "p3"}},
		{"p + a", []string{"a"}},
		{"html li", []string{"li1", "li2", "li3"}},
		{"[href]", []string{"a"}},
		{"[class~=wide]", []string{"div"}},
		{"[lang|=en]", []string{"html"}},
		{"[title^=Hello]", []string{"a"}},
		{"[title$=World]", []string{"a"}},
		{"[title*='o W']", []string{"a"}},
		{"[title='hello world' i]", []string{"a"}},
		{"[title='hello world']", nil},
		{":root", []string{"html"}},
		{"p:empty", []string{"p2", "p3"}},
		{"li:first-child", []string{"li1"}},
		{"li:last-child", []string{"li3"}},
		{"div > :last-child", []string{"p3"}},
		{"p:first-of-type", []string{"p1"}},
		{"p:last-of-type", []string{"p3"}},
		{"a:only-of-type", []string{"a"}},
		{"ul:only-child", nil},
		{"li:nth-child(2)", []string{"li2"}},
		{"li:nth-child(odd)", []string{"li1", "li3"}},
		{"li:nth-last-child(1)", []string{"li3"}},
		{"p:nth-of-type(2n)", []string{"p2"}},
		{"p:nth-last-of-type(-n+2)", []string{"p2", "p3"}},
		{"li:not(.x)", []string{"li1", "li3"}},
		{":is(a, ul)", []string{"a", "ul"}},
		{":where(#main) p.note", []string{"p1"}},
		{"a:link", []string{"a"}},
		{"a:hover", nil},
		{"p:lang(fr)", []string{"p3"}},
		{"li:lang(en)", []string{"li1", "li2", "li3"}},
		{"ul, #main", []string{"div", "ul"}},
		{"p::before", []string{"p1", "p2", "p3"}},
	} {
		var want []int
		for _, name := range test.want {
			want = append(want, ids[name])
		}
		assert.Equal(t, want, matching(t, tree, test.sel), test.sel)
	}
}

func TestSpecificity(t *testing.T) {
	for _, test := range []struct {
		sel  string
		want Specificity
	}{
		{"*", Specificity{0, 0, 0}},
		{"p", Specificity{0, 0, 1}},
		{".foo", Specificity{0, 1, 0}},
		{"#a", Specificity{1, 0, 0}},
		{"div p.note", Specificity{0, 1, 2}},
		{"#a > .b[href]:first-child", Specificity{1, 3, 0}},
		{"p::before", Specificity{0, 0, 2}},
		{"p:before", Specificity{0, 0, 2}},
		{":not(#a, .b)", Specificity{1, 0, 0}},
		{":is(p, .b)", Specificity{0, 1, 0}},
		{":where(#a) p", Specificity{0, 0, 1}},
		{"li:nth-child(2n+1)", Specificity{0, 1, 1}},
	} {
		sel, err := Parse(test.sel)
		require.NoError(t, err, test.sel)
		assert.Equal(t, test.want, sel.Specificity(), test.sel)
	}
}

func TestSpecificityOrder(t *testing.T) {
	assert.True(t, Specificity{0, 0, 1}.Less(Specificity{0, 1, 0}))
	assert.True(t, Specificity{0, 9, 9}.Less(Specificity{1, 0, 0}))
	assert.False(t, Specificity{0, 1, 0}.Less(Specificity{0, 1, 0}))
	assert.Equal(t, Specificity{255, 1, 0}, Specificity{200, 1, 0}.Add(Specificity{100, 0, 0}))
}

func TestMatchWithSpecificity(t *testing.T) {
	tree, ids := sampleTree()
	group := MustCompile("p, .note, #main p")
	ok, spec := group.MatchWithSpecificity(tree, ids["p1"])
	assert.True(t, ok)
	assert.Equal(t, Specificity{1, 0, 1}, spec)

	ok, _ = group.MatchWithSpecificity(tree, ids["li1"])
	assert.False(t, ok)
}

func TestPseudoElement(t *testing.T) {
	sel, err := Parse("div > p::after")
	require.NoError(t, err)
	assert.Equal(t, "after", sel.PseudoElement())

	sel, err = Parse("p:first-line")
	require.NoError(t, err)
	assert.Equal(t, "first-line", sel.PseudoElement())

	sel, err = Parse("li::marker")
	require.NoError(t, err)
	assert.Equal(t, "marker", sel.PseudoElement())

	sel, err = Parse("p")
	require.NoError(t, err)
	assert.Equal(t, "", sel.PseudoElement())
}

func TestKey(t *testing.T) {
	for _, test := range []struct {
		sel   string
		kind  KeyKind
		value string
	}{
		{"div p#x.y", KeyID, "x"},
		{"#x p.y.z", KeyClass, "y"},
		{"div > P", KeyType, "p"},
		{".x *", KeyUniversal, ""},
		{"[href]", KeyUniversal, ""},
		{"a::before", KeyType, "a"},
	} {
		sel, err := Parse(test.sel)
		require.NoError(t, err, test.sel)
		kind, value := sel.Key()
		assert.Equal(t, test.kind, kind, test.sel)
		assert.Equal(t, test.value, value, test.sel)
	}
}

func TestSyntaxErrors(t *testing.T) {
	for _, sel := range []string{
		"",
		"p >",
		"> p",
		"p,",
		"p..x",
		"#",
		"[href",
		"[href=]",
		"p::foo",
		"p:unknown",
		"p::before span",
		"p::before.x",
		":not(p",
		":nth-child(x)",
		":not(::before)",
		"p!",
		"a | b",
	} {
		_, err := ParseGroup(sel)
		var se *SyntaxError
		assert.ErrorAs(t, err, &se, sel)
	}
}

func TestParseNth(t *testing.T) {
	for _, test := range []struct {
		input string
		a, b  int
	}{
		{"odd", 2, 1},
		{"even", 2, 0},
		{"3", 0, 3},
		{"-2", 0, -2},
		{"n", 1, 0},
		{"-n+3", -1, 3},
		{"+n", 1, 0},
		{"2n+1", 2, 1},
		{" 2n - 1 ", 2, -1},
		{"10N", 10, 0},
	} {
		a, b, err := ParseNth(test.input)
		require.NoError(t, err, test.input)
		assert.Equal(t, [2]int{test.a, test.b}, [2]int{a, b}, test.input)
	}

	for _, input := range []string{"", "2n+", "n2", "abc", "2 n"} {
		_, _, err := ParseNth(input)
		assert.Error(t, err, input)
	}
}

func BenchmarkMatch(b *testing.B) {
	tree, _ := sampleTree()
	group := MustCompile("div > p:nth-child(2n+1), ul li:not(.x), #main a[href]")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for n := range tree.nodes {
			group.Match(tree, n)
		}
	}
}
