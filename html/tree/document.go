package tree

import (
	"io"
	"strings"

	"github.com/benoitkugler/webstyle/css/selector"
	"github.com/benoitkugler/webstyle/utils"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// None is the index used for a missing element.
const None = -1

// element is one node of the arena. Only elements are stored:
// text content is reduced to the [empty] flag.
type element struct {
	parent   int
	prev     int // previous element sibling
	children []int

	tag     string
	atom    atom.Atom
	id      string
	classes []string
	attrs   []html.Attribute
	lang    string // inherited

	pos   selector.Position
	empty bool
}

// StyleElement is the content of a <style> element, or the reference
// of a <link rel="stylesheet"> element.
type StyleElement struct {
	Node  int
	Text  string
	Media string // as written, empty for all media
	Href  string // only for <link> elements
}

// Document is an HTML document stored as an arena of elements,
// addressed by index. The root element has index 0, and elements are
// stored in tree order, so that a parent always comes before its children.
//
// A Document is read only once built, and implements [selector.Tree].
type Document struct {
	elements []element
	styles   []StyleElement
}

var _ selector.Tree = (*Document)(nil)

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.ParseWithOptions(r, html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, errors.Wrap(err, "invalid html input")
	}
	// html.Parse wraps the <html> tag
	var top *html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			top = c
			break
		}
	}
	if top == nil {
		return nil, errors.New("invalid html input: no root element")
	}
	var doc Document
	doc.add(top, None, "")
	return &doc, nil
}

// ParseString is a convenience wrapper around [Parse].
func ParseString(content string) (*Document, error) {
	return Parse(strings.NewReader(content))
}

// add stores [n] and its descendants, returning the index of [n].
func (d *Document) add(n *html.Node, parent int, parentLang string) int {
	index := len(d.elements)
	d.elements = append(d.elements, element{
		parent: parent,
		prev:   None,
		tag:    utils.AsciiLower(n.Data),
		atom:   n.DataAtom,
		attrs:  n.Attr,
		lang:   parentLang,
		empty:  true,
	})
	el := &d.elements[index]
	for _, attr := range n.Attr {
		switch {
		case attr.Namespace == "" && attr.Key == "id":
			el.id = attr.Val
		case attr.Namespace == "" && attr.Key == "class":
			el.classes = strings.Fields(attr.Val)
		case attr.Key == "lang" || attr.Key == "xml:lang":
			el.lang = strings.TrimSpace(attr.Val)
		}
	}
	d.collectStyle(index, n)

	lang := el.lang
	var children []int
	empty := true
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			children = append(children, d.add(c, index, lang))
			empty = false
		case html.TextNode:
			if c.Data != "" {
				empty = false
			}
		}
	}
	// [el] may have been invalidated by the recursive calls
	el = &d.elements[index]
	el.children = children
	el.empty = empty
	d.setPositions(children)
	return index
}

// setPositions precomputes the structural data of siblings.
func (d *Document) setPositions(siblings []int) {
	typeCounts := map[string]int{}
	for i, child := range siblings {
		el := &d.elements[child]
		if i > 0 {
			el.prev = siblings[i-1]
		}
		typeCounts[el.tag]++
		el.pos.Index = i + 1
		el.pos.Count = len(siblings)
		el.pos.TypeIndex = typeCounts[el.tag]
	}
	for _, child := range siblings {
		el := &d.elements[child]
		el.pos.TypeCount = typeCounts[el.tag]
	}
}

func (d *Document) collectStyle(index int, n *html.Node) {
	switch n.DataAtom {
	case atom.Style:
		mimeType, _ := getAttr(n.Attr, "type")
		if !isCSSMimeType(mimeType) {
			return
		}
		media, _ := getAttr(n.Attr, "media")
		// Content is text that is directly in the <style> element, not its
		// descendants
		var content strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				content.WriteString(c.Data)
			}
		}
		d.styles = append(d.styles, StyleElement{Node: index, Text: content.String(), Media: media})
	case atom.Link:
		rel, _ := getAttr(n.Attr, "rel")
		href, _ := getAttr(n.Attr, "href")
		if href == "" || !hasLinkType(rel, "stylesheet") || hasLinkType(rel, "alternate") {
			return
		}
		media, _ := getAttr(n.Attr, "media")
		d.styles = append(d.styles, StyleElement{Node: index, Href: href, Media: media})
	}
}

// Only keep "type/subtype" from "type/subtype ; param1; param2".
func isCSSMimeType(mimeType string) bool {
	if mimeType == "" {
		return true
	}
	mimeType = strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	return utils.AsciiLower(mimeType) == "text/css"
}

func hasLinkType(rel, linkType string) bool {
	for _, token := range strings.Fields(rel) {
		if utils.AsciiLower(token) == linkType {
			return true
		}
	}
	return false
}

func getAttr(attrs []html.Attribute, name string) (string, bool) {
	for _, attr := range attrs {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// Len returns the number of elements.
func (d *Document) Len() int { return len(d.elements) }

// Root returns the index of the root element.
func (d *Document) Root() int { return 0 }

// Children returns the element children of [n], in document order.
func (d *Document) Children(n int) []int { return d.elements[n].children }

// Atom returns the tag of [n], or 0 for unknown elements.
func (d *Document) Atom(n int) atom.Atom { return d.elements[n].atom }

// StyleElements returns the <style> and <link> elements defining
// style sheets, in document order.
func (d *Document) StyleElements() []StyleElement { return d.styles }

// StyleAttribute returns the content of the style attribute of [n].
func (d *Document) StyleAttribute(n int) string {
	s, _ := d.Attr(n, "style")
	return s
}

// Label returns a short description of [n], like div#main.note
func (d *Document) Label(n int) string {
	el := d.elements[n]
	var b strings.Builder
	b.WriteString(el.tag)
	if el.id != "" {
		b.WriteString("#" + el.id)
	}
	for _, class := range el.classes {
		b.WriteString("." + class)
	}
	return b.String()
}

// Select returns the elements matching the selector list [sel],
// in document order.
func (d *Document) Select(sel string) ([]int, error) {
	group, err := selector.ParseGroup(sel)
	if err != nil {
		return nil, err
	}
	var out []int
	for n := range d.elements {
		if group.Match(d, n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// selector.Tree implementation

func (d *Document) Parent(n int) int                 { return d.elements[n].parent }
func (d *Document) PrevElement(n int) int            { return d.elements[n].prev }
func (d *Document) LocalName(n int) string           { return d.elements[n].tag }
func (d *Document) ID(n int) string                  { return d.elements[n].id }
func (d *Document) IsEmpty(n int) bool               { return d.elements[n].empty }
func (d *Document) Lang(n int) string                { return d.elements[n].lang }
func (d *Document) Position(n int) selector.Position { return d.elements[n].pos }

func (d *Document) HasClass(n int, class string) bool {
	return utils.IsIn(d.elements[n].classes, class)
}

func (d *Document) Attr(n int, name string) (string, bool) {
	return getAttr(d.elements[n].attrs, name)
}
