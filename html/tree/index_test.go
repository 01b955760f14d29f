package tree

import (
	"context"
	"testing"

	pr "github.com/benoitkugler/webstyle/css/properties"
	tu "github.com/benoitkugler/webstyle/utils/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidatesAreSuperset(t *testing.T) {
	doc := parseDoc(t, generateDocument(3, 3)+`<p id="x" class="a a b">text`)
	set := StyleSheetSet{
		UserAgent: []CSS{Html5UAStylesheet},
		Author:    []CSS{mustCSS(t, generatedCSS+"#x, .a, p.b > *, :not(.a) { color: red } [id] { margin: 0 }")},
	}
	index := NewRuleIndex(set, "screen")

	for n := 0; n < doc.Len(); n++ {
		var fromCandidates, fromScan []int
		candidates := index.CandidatesFor(doc, n)
		assert.IsIncreasing(t, append([]int{-1}, candidates...))
		for _, i := range candidates {
			if index.Rule(i).Selector.Match(doc, n) {
				fromCandidates = append(fromCandidates, i)
			}
		}
		for i := 0; i < index.Len(); i++ {
			if index.Rule(i).Selector.Match(doc, n) {
				fromScan = append(fromScan, i)
			}
		}
		assert.Equal(t, fromScan, fromCandidates, doc.Label(n))
	}
}

func TestRuleOrder(t *testing.T) {
	set := StyleSheetSet{
		UserAgent: []CSS{mustCSS(t, "p { color: red }")},
		User:      []CSS{mustCSS(t, "p, div { margin: 1px 2px }")},
		Author:    []CSS{mustCSS(t, "p { color: blue; width: 2px }"), mustCSS(t, "div { color: blue }")},
	}
	index := NewRuleIndex(set, "screen")
	require.Equal(t, 5, index.Len())

	assert.Equal(t, UserAgent, index.Rule(0).Origin)
	assert.Equal(t, 0, index.Rule(0).Order)
	// both selectors of the list share the declarations
	assert.Equal(t, index.Rule(1).Order, index.Rule(2).Order)
	assert.Len(t, index.Rule(1).Declarations, 4)
	assert.Equal(t, 1, index.Rule(1).Order)
	assert.Equal(t, 5, index.Rule(3).Order)
	assert.Equal(t, 7, index.Rule(4).Order)
	assert.Equal(t, Author, index.Rule(4).Origin)
	assert.True(t, index.Report().IsEmpty())
}

func TestRuleIndexReport(t *testing.T) {
	logs := tu.CaptureLogs(t)
	set := StyleSheetSet{Author: []CSS{mustCSS(t, `
		@font-face { font-family: x }
		p:hover, p:bogus { color: red }
		p::unknown { color: red }
		p { color: blue; -webkit-thing: 1; margin: auto auto auto auto auto }
	`)}}
	index := NewRuleIndex(set, "print")

	require.Equal(t, 1, index.Len())
	report := index.Report()
	require.Len(t, report.DroppedRules, 2)
	assert.Contains(t, report.DroppedRules[0].Selector, "p:bogus")
	assert.Equal(t, "p::unknown", report.DroppedRules[1].Selector)
	assert.Equal(t, "test.css", report.DroppedRules[0].Sheet)
	require.Len(t, report.IgnoredAtRules, 1)
	assert.Equal(t, "@font-face", report.IgnoredAtRules[0].Name)
	require.Len(t, report.IgnoredDeclarations, 2)
	assert.Equal(t, "-webkit-thing", report.IgnoredDeclarations[0].Name)
	assert.Equal(t, "margin", report.IgnoredDeclarations[1].Name)
	assert.Len(t, logs.Logs(), 5)
}

func TestSharedIndex(t *testing.T) {
	index := NewRuleIndex(StyleSheetSet{Author: []CSS{mustCSS(t, "p { color: blue; unknown: 1 }")}}, "screen")
	for _, html := range []string{`<p style="foo: 1">a`, `<p>b<p style="bar: 2">c`} {
		doc := parseDoc(t, html)
		styles, err := StyleWithIndex(context.Background(), doc, index, Options{})
		require.NoError(t, err)
		assertProp(t, styles.Get(find(t, doc, "p"), ""), pr.PColor, "rgb(0, 0, 255)")
		assert.Len(t, styles.Report().IgnoredDeclarations, 2)
	}
	assert.Len(t, index.Report().IgnoredDeclarations, 1)
}
