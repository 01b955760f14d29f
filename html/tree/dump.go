package tree

import (
	"fmt"
	"strings"

	pr "github.com/benoitkugler/webstyle/css/properties"
	tp "github.com/xlab/treeprint"
)

// Dump returns a tree representation of the document, where
// each element is followed by the computed values of [props]
// (all the properties if empty), and by its styled pseudo-elements.
func (s *Styles) Dump(props ...pr.KnownProp) string {
	if len(props) == 0 {
		props = pr.All()
	}
	p := tp.New()
	if s.doc.Len() != 0 {
		s.dumpNode(p, s.doc.Root(), props)
	}
	return p.String()
}

func (s *Styles) dumpNode(p tp.Tree, n int, props []pr.KnownProp) {
	branch := p.AddBranch(s.doc.Label(n) + " " + formatStyle(s.styles[n], props))
	for _, pseudo := range PseudoElements[1:] {
		if style := s.Get(n, pseudo); style != nil {
			branch.AddNode("::" + pseudo + " " + formatStyle(style, props))
		}
	}
	for _, child := range s.doc.Children(n) {
		s.dumpNode(branch, child, props)
	}
}

func formatStyle(style *ComputedStyle, props []pr.KnownProp) string {
	chunks := make([]string, len(props))
	for i, p := range props {
		chunks[i] = fmt.Sprintf("%s: %s", p, style.Get(p).Canonical())
	}
	return "{" + strings.Join(chunks, "; ") + "}"
}
