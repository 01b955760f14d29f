package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"
)

func TestDocumentArena(t *testing.T) {
	doc := parseDoc(t, `<html lang="fr"><head><style media="print">p {}</style>
		<link rel="stylesheet" href="style.css"></head>
		<body><div id="main" class="a b"><p>text</p><p></p><span lang="en">x</span></div></body></html>`)

	assert.Equal(t, atom.Html, doc.Atom(doc.Root()))
	assert.Equal(t, None, doc.Parent(doc.Root()))
	for n := 1; n < doc.Len(); n++ {
		assert.Less(t, doc.Parent(n), n) // tree order
		assert.Contains(t, doc.Children(doc.Parent(n)), n)
	}

	div := find(t, doc, "#main")
	assert.Equal(t, "div#main.a.b", doc.Label(div))
	assert.True(t, doc.HasClass(div, "b"))
	children := doc.Children(div)
	require.Len(t, children, 3)
	assert.False(t, doc.IsEmpty(children[0]))
	assert.True(t, doc.IsEmpty(children[1]))
	assert.Equal(t, children[0], doc.PrevElement(children[1]))
	assert.Equal(t, None, doc.PrevElement(children[0]))
	assert.Equal(t, "fr", doc.Lang(children[0]))
	assert.Equal(t, "en", doc.Lang(children[2]))

	styles := doc.StyleElements()
	require.Len(t, styles, 2)
	assert.Equal(t, "print", styles[0].Media)
	assert.Equal(t, "p {}", styles[0].Text)
	assert.Equal(t, "style.css", styles[1].Href)

	nodes, err := doc.Select("p, span")
	require.NoError(t, err)
	assert.Equal(t, []int{children[0], children[1], children[2]}, nodes)

	_, err = doc.Select("p:bogus")
	assert.Error(t, err)
}

func TestFindStylesheets(t *testing.T) {
	doc := parseDoc(t, `<style>p { color: red }</style><style media="print, screen">p { color: blue }</style>
		<style media="(min-width: 10px)">p { color: green }</style><link rel="stylesheet" href="a.css"><p>`)
	sheets := FindStylesheets(doc)
	require.Len(t, sheets, 2)
	assert.Nil(t, sheets[0].media)
	assert.Equal(t, []string{"print", "screen"}, sheets[1].media)
}
