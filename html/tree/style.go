// This module takes care of steps 3 and 4 of “CSS 2.1 processing model”:
// Retrieve stylesheets associated with a document and annotate every Element
// with a value for every CSS property.
//
// http://www.w3.org/TR/CSS21/intro.html#processing-model
//
// The `StyleDocument` function does everything, but it is itsef
// based on other functions in this module.
package tree

import (
	"context"
	"fmt"
	"math"

	"github.com/benoitkugler/webstyle/css/parser"
	pr "github.com/benoitkugler/webstyle/css/properties"
	"github.com/benoitkugler/webstyle/css/selector"
	"github.com/benoitkugler/webstyle/css/validation"
	"github.com/benoitkugler/webstyle/css/values"
	"github.com/benoitkugler/webstyle/logger"
	"github.com/benoitkugler/webstyle/utils"
	"golang.org/x/sync/errgroup"
)

// PseudoElements lists the supported pseudo-elements, in the order
// used for reports. The empty string stands for the element itself.
var PseudoElements = [...]string{"", "before", "after", "first-line", "first-letter", "marker"}

// Options are the parameters of a styling pass.
type Options struct {
	// ViewportWidth and ViewportHeight define the initial
	// containing block, in pixels.
	ViewportWidth, ViewportHeight Fl
	// FontSize is the computed value of 'medium', in pixels.
	// The other absolute size keywords are scaled accordingly.
	FontSize Fl
	// Workers is the maximum number of goroutines used to style
	// independent subtrees. 0 or 1 means sequential styling.
	Workers int
	// PresentationalHints enables the mapping of some HTML
	// attributes (align, bgcolor, width...) to CSS declarations.
	PresentationalHints bool
	// MediaType is the device media type used to evaluate @media rules.
	MediaType string
}

// DefaultOptions returns the options of a 800x600 screen.
func DefaultOptions() Options {
	return Options{
		ViewportWidth:  800,
		ViewportHeight: 600,
		FontSize:       pr.MediumFontSize,
		MediaType:      "screen",
	}
}

// withDefaults fills the zero fields with the default options.
func (opts Options) withDefaults() Options {
	def := DefaultOptions()
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = def.ViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = def.ViewportHeight
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	if opts.MediaType == "" {
		opts.MediaType = def.MediaType
	}
	return opts
}

// Return the precedence for a declaration.
// Precedence values have no meaning unless compared to each other.
func declarationPrecedence(origin Origin, importance bool) uint8 {
	// See http://www.w3.org/TR/CSS21/cascade.html#cascading-order
	switch {
	case origin == UserAgent:
		return 1
	case origin == User && !importance:
		return 2
	case origin == Author && !importance:
		return 3
	case origin == Author: // && importance
		return 4
	default: // user && importance
		return 5
	}
}

type weight struct {
	precedence uint8
	// inline is true for declarations of the style attribute,
	// which win over any selector of the same precedence.
	inline      bool
	specificity selector.Specificity
	// order is unique in one styling pass
	order int
}

// Less return `true` if w < other
func (w weight) Less(other weight) bool {
	if w.precedence != other.precedence {
		return w.precedence < other.precedence
	}
	if w.inline != other.inline {
		return other.inline
	}
	if w.specificity != other.specificity {
		return w.specificity.Less(other.specificity)
	}
	return w.order < other.order
}

type weightedValue struct {
	value  values.Token
	weight weight
}

type cascadedStyle map[pr.KnownProp]weightedValue

func (cs cascadedStyle) add(decl validation.Declaration, we weight) {
	if old, in := cs[decl.Name]; !in || old.weight.Less(we) {
		cs[decl.Name] = weightedValue{weight: we, value: decl.Value}
	}
}

// Styles stores the computed styles of a document,
// and the problems found while computing them.
// It is read only once returned by [StyleDocument].
type Styles struct {
	doc     *Document
	styles  []*ComputedStyle
	pseudos []map[string]*ComputedStyle

	report Report
}

// Get returns the computed style of [node], or of one of its pseudo-elements.
// It returns nil for a pseudo-element without declarations.
func (s *Styles) Get(node int, pseudo string) *ComputedStyle {
	if pseudo == "" {
		return s.styles[node]
	}
	return s.pseudos[node][pseudo]
}

// Document returns the styled document.
func (s *Styles) Document() *Document { return s.doc }

// Report returns the dropped rules, ignored declarations and
// invalid values found while building the rules and styling the document.
func (s *Styles) Report() Report { return s.report }

// StyleDocument builds the rule index of [set] and computes the style
// of every element of [doc].
//
// The pass always completes unless [ctx] is cancelled, in which case
// the context error is returned. Data problems are not errors: they
// are logged and collected in [Styles.Report].
func StyleDocument(ctx context.Context, doc *Document, set StyleSheetSet, opts Options) (*Styles, error) {
	opts = opts.withDefaults()
	index := NewRuleIndex(set, opts.MediaType)
	return StyleWithIndex(ctx, doc, index, opts)
}

// StyleWithIndex computes the style of every element of [doc],
// using an already built rule index, which may be shared by
// several documents.
func StyleWithIndex(ctx context.Context, doc *Document, index *RuleIndex, opts Options) (*Styles, error) {
	opts = opts.withDefaults()
	logger.ProgressLogger.Infof("Step 3 - Applying CSS - %d element(s), %d rule(s)", doc.Len(), index.Len())

	st := styler{
		doc:      doc,
		index:    index,
		opts:     &opts,
		styles:   make([]*ComputedStyle, doc.Len()),
		pseudos:  make([]map[string]*ComputedStyle, doc.Len()),
		warnings: make([][]InvalidValueWarning, doc.Len()),
		ignored:  make([][]IgnoredDeclaration, doc.Len()),
	}

	if doc.Len() != 0 {
		root := ContainingBlock{Width: opts.ViewportWidth, Height: opts.ViewportHeight}
		if opts.Workers > 1 {
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(opts.Workers)
			g.Go(func() error { return st.styleSubtree(gctx, g, doc.Root(), nil, root) })
			if err := g.Wait(); err != nil {
				return nil, err
			}
		} else if err := st.styleSubtree(ctx, nil, doc.Root(), nil, root); err != nil {
			return nil, err
		}
	}

	out := &Styles{doc: doc, styles: st.styles, pseudos: st.pseudos, report: index.Report()}
	// the index may be shared: do not append to its slices
	out.report.IgnoredDeclarations = append([]IgnoredDeclaration(nil), out.report.IgnoredDeclarations...)
	// gather the problems in tree order
	for n := range st.styles {
		out.report.IgnoredDeclarations = append(out.report.IgnoredDeclarations, st.ignored[n]...)
		out.report.Warnings = append(out.report.Warnings, st.warnings[n]...)
	}
	logger.ProgressLogger.Infof("Styling done: %d invalid value(s)", len(out.report.Warnings))
	return out, nil
}

// styler holds the state of one styling pass.
// Each per-node slot is written by exactly one goroutine.
type styler struct {
	doc   *Document
	index *RuleIndex
	opts  *Options

	styles   []*ComputedStyle
	pseudos  []map[string]*ComputedStyle
	warnings [][]InvalidValueWarning
	ignored  [][]IgnoredDeclaration
}

// styleSubtree styles [n], then its children, forking a goroutine per
// child when [g] is not nil and a worker is available.
// Cancellation is checked before each node.
func (st *styler) styleSubtree(ctx context.Context, g *errgroup.Group, n int, parent *ComputedStyle, cb ContainingBlock) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	style := st.styleNode(n, parent, cb)
	childCB := style.ChildContainingBlock()
	for _, child := range st.doc.Children(n) {
		child := child
		if g != nil && g.TryGo(func() error { return st.styleSubtree(ctx, g, child, style, childCB) }) {
			continue
		}
		if err := st.styleSubtree(ctx, g, child, style, childCB); err != nil {
			return err
		}
	}
	return nil
}

// styleNode cascades and computes the style of [n] and of its
// pseudo-elements.
func (st *styler) styleNode(n int, parent *ComputedStyle, cb ContainingBlock) *ComputedStyle {
	cascaded := st.cascade(n)

	c := newComputer(st.doc, n, "", cascaded[""], parent, cb, st.opts)
	style := c.freeze()
	st.styles[n] = style
	warnings := c.warnings

	for _, pseudo := range PseudoElements[1:] {
		pseudoCascaded, ok := cascaded[pseudo]
		if !ok {
			continue
		}
		// The style of marker is deleted when display is different from
		// list-item.
		if pseudo == "marker" && !values.IsKeyword(style.Get(pr.PDisplay), "list-item") {
			continue
		}
		// The pseudo-element inherits from the element.
		pc := newComputer(st.doc, n, pseudo, pseudoCascaded, style, style.ChildContainingBlock(), st.opts)
		if st.pseudos[n] == nil {
			st.pseudos[n] = make(map[string]*ComputedStyle)
		}
		st.pseudos[n][pseudo] = pc.freeze()
		warnings = append(warnings, pc.warnings...)
	}
	st.warnings[n] = warnings
	return style
}

// cascade returns the cascaded declarations of the element [n]
// and of its pseudo-elements (keyed by name).
func (st *styler) cascade(n int) map[string]cascadedStyle {
	out := map[string]cascadedStyle{"": {}}

	if st.opts.PresentationalHints {
		if hints := presentationalHints(st.doc, n); hints != "" {
			decls := st.parseAttribute(n, hints, "presentational hints")
			for i, decl := range decls {
				// before any author sheet
				we := weight{precedence: declarationPrecedence(Author, false), order: math.MinInt32 + i}
				out[""].add(decl, we)
			}
		}
	}

	for _, ruleIndex := range st.index.CandidatesFor(st.doc, n) {
		rule := st.index.Rule(ruleIndex)
		if !rule.Selector.Match(st.doc, n) {
			continue
		}
		pseudo := rule.Selector.PseudoElement()
		style, in := out[pseudo]
		if !in {
			style = cascadedStyle{}
			out[pseudo] = style
		}
		for i, decl := range rule.Declarations {
			we := weight{
				precedence:  declarationPrecedence(rule.Origin, decl.Important),
				specificity: rule.Selector.Specificity(),
				order:       rule.Order + i,
			}
			style.add(decl, we)
		}
	}

	if attr := st.doc.StyleAttribute(n); attr != "" {
		for i, decl := range st.parseAttribute(n, attr, "style attribute") {
			we := weight{precedence: declarationPrecedence(Author, decl.Important), inline: true, order: i}
			out[""].add(decl, we)
		}
	}
	return out
}

// parseAttribute parses and validates the declarations found in an
// attribute of [n], recording the ignored ones.
func (st *styler) parseAttribute(n int, content, source string) []validation.Declaration {
	out, ignored := validation.PreprocessDeclarations(parser.ParseDeclarations(content))
	for _, ig := range ignored {
		st.ignored[n] = append(st.ignored[n], IgnoredDeclaration{Sheet: source, Node: n, IgnoredDeclaration: ig})
	}
	return out
}

// ComputedStyle stores the computed value of every known property
// of an element or pseudo-element. It is read only, and may be
// shared between goroutines.
type ComputedStyle struct {
	values [pr.NbProperties]values.Token

	pseudo       string
	rootFontSize Fl
	cb           ContainingBlock
	childCB      ContainingBlock
}

// freeze computes every property and returns the resulting style.
func (c *computer) freeze() *ComputedStyle {
	// specified values needed by the other ones come first
	for _, p := range [...]pr.KnownProp{pr.PFontSize, pr.PColor, pr.PPosition, pr.PFloat, pr.PDisplay} {
		c.get(p)
	}
	out := &ComputedStyle{pseudo: c.pseudo, cb: c.cb}
	for _, p := range pr.All() {
		out.values[p] = c.get(p)
	}
	out.rootFontSize = c.rootFontSize
	if c.isRootElement() && c.pseudo == "" {
		out.rootFontSize = out.FontSize()
	}
	out.childCB = out.contentBox()
	return out
}

// Get returns the computed value of [p]. It is never
// a CSS-wide keyword.
func (cs *ComputedStyle) Get(p pr.KnownProp) values.Token { return cs.values[p] }

// Pixels returns the value of [p] if it is a length, in pixels.
func (cs *ComputedStyle) Pixels(p pr.KnownProp) (Fl, bool) {
	l, ok := cs.values[p].(values.Length)
	return l.Value, ok
}

// FontSize returns the computed font size, in pixels.
func (cs *ComputedStyle) FontSize() Fl {
	return values.MustLength(cs.values[pr.PFontSize]).Value
}

// Pseudo returns the pseudo-element of the style, or an empty string.
func (cs *ComputedStyle) Pseudo() string { return cs.pseudo }

// ContainingBlock returns the containing block used to resolve
// percentages of the element.
func (cs *ComputedStyle) ContainingBlock() ContainingBlock { return cs.cb }

// ChildContainingBlock returns the containing block of the children of
// the element.
func (cs *ComputedStyle) ChildContainingBlock() ContainingBlock { return cs.childCB }

// contentBox approximates the content box of the element, without layout.
// The width is the computed width when it is a length, or the width
// of the containing block minus the horizontal margins, borders and
// paddings. The height is only known when the computed height is a length.
func (cs *ComputedStyle) contentBox() ContainingBlock {
	var hFrame, vFrame Fl // borders and paddings
	for _, sides := range [...][4]pr.KnownProp{pr.BorderWidthSides, pr.PaddingSides} {
		top, _ := cs.Pixels(sides[0])
		right, _ := cs.Pixels(sides[1])
		bottom, _ := cs.Pixels(sides[2])
		left, _ := cs.Pixels(sides[3])
		hFrame += left + right
		vFrame += top + bottom
	}
	borderBox := values.IsKeyword(cs.values[pr.PBoxSizing], "border-box")

	var out ContainingBlock
	if width, ok := cs.Pixels(pr.PWidth); ok {
		out.Width = width
		if borderBox {
			out.Width -= hFrame
		}
	} else {
		marginLeft, _ := cs.Pixels(pr.PMarginLeft) // auto margins are 0
		marginRight, _ := cs.Pixels(pr.PMarginRight)
		out.Width = cs.cb.Width - marginLeft - marginRight - hFrame
	}
	out.Width = utils.MaxF(0, out.Width)

	out.Height = -1
	if height, ok := cs.Pixels(pr.PHeight); ok {
		out.Height = height
		if borderBox {
			out.Height = utils.MaxF(0, height-vFrame)
		}
	}
	return out
}

func (cs *ComputedStyle) String() string {
	return fmt.Sprintf("ComputedStyle(%s, font-size: %s)", cs.values[pr.PDisplay].Canonical(), cs.values[pr.PFontSize].Canonical())
}
