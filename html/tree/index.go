package tree

import (
	"sort"

	"github.com/benoitkugler/webstyle/css/parser"
	"github.com/benoitkugler/webstyle/css/selector"
	"github.com/benoitkugler/webstyle/css/validation"
	"github.com/benoitkugler/webstyle/logger"
)

// StyleRule is one complex selector with the declarations of its rule.
// A rule with a selector list gives one StyleRule per selector,
// sharing the same declarations.
type StyleRule struct {
	Selector     selector.Selector
	Declarations []validation.Declaration
	Origin       Origin
	// Order is the source order of the first declaration, unique
	// across the whole style sheet set. The i-th declaration has
	// order Order+i.
	Order int
}

// RuleIndex stores the rules of a style sheet set, bucketed by the most
// selective feature of their rightmost compound selector.
// It is read only once built, and may be shared between goroutines.
type RuleIndex struct {
	rules []StyleRule

	byID      map[string][]int
	byClass   map[string][]int
	byType    map[string][]int
	universal []int

	report Report
}

// NewRuleIndex parses the rules of [set] applying to [mediaType].
// Invalid selectors and declarations are dropped, logged and
// recorded in the returned report.
func NewRuleIndex(set StyleSheetSet, mediaType string) *RuleIndex {
	logger.ProgressLogger.Infof("Building rule index - media %s", mediaType)
	index := &RuleIndex{
		byID:    map[string][]int{},
		byClass: map[string][]int{},
		byType:  map[string][]int{},
	}
	order := 0
	for origin, sheets := range set.byOrigin() {
		for _, sheet := range sheets {
			index.addSheet(sheet, Origin(origin), mediaType, &order)
		}
	}
	logger.ProgressLogger.Infof("Rule index built: %d selector(s), %d dropped rule(s)", len(index.rules), len(index.report.DroppedRules))
	return index
}

func (ri *RuleIndex) addSheet(sheet CSS, origin Origin, mediaType string, order *int) {
	if sheet.IsNone() {
		return
	}
	if sheet.media != nil && !parser.EvaluateMediaQuery(sheet.media, mediaType) {
		return
	}
	for _, ignored := range sheet.sheet.Ignored {
		logger.WarningLogger.Warnf("%s rule '%s' was ignored in %s: %s", ignored.Name, ignored.Prelude, sheet.Name, ignored.Reason)
		ri.report.IgnoredAtRules = append(ri.report.IgnoredAtRules, IgnoredAtRule{Sheet: sheet.Name, IgnoredRule: ignored})
	}

rules:
	for _, rule := range sheet.sheet.Rules {
		for _, media := range rule.Media {
			if !parser.EvaluateMediaQuery(media, mediaType) {
				continue rules
			}
		}

		group, err := selector.ParseGroup(rule.Prelude)
		if err != nil {
			logger.WarningLogger.Warnf("Invalid or unsupported selector '%s', %s", rule.Prelude, err)
			ri.report.DroppedRules = append(ri.report.DroppedRules, DroppedRule{
				Sheet: sheet.Name, Origin: origin, Selector: rule.Prelude, Err: err,
			})
			continue
		}

		declarations, ignored := validation.PreprocessDeclarations(rule.Declarations)
		for _, ig := range ignored {
			ri.report.IgnoredDeclarations = append(ri.report.IgnoredDeclarations, IgnoredDeclaration{
				Sheet: sheet.Name, Node: None, IgnoredDeclaration: ig,
			})
		}
		if len(declarations) == 0 {
			continue
		}

		for _, sel := range group {
			ri.add(StyleRule{Selector: sel, Declarations: declarations, Origin: origin, Order: *order})
		}
		*order += len(declarations)
	}
}

func (ri *RuleIndex) add(rule StyleRule) {
	i := len(ri.rules)
	ri.rules = append(ri.rules, rule)
	switch kind, key := rule.Selector.Key(); kind {
	case selector.KeyID:
		ri.byID[key] = append(ri.byID[key], i)
	case selector.KeyClass:
		ri.byClass[key] = append(ri.byClass[key], i)
	case selector.KeyType:
		ri.byType[key] = append(ri.byType[key], i)
	default:
		ri.universal = append(ri.universal, i)
	}
}

// Len returns the number of indexed rules.
func (ri *RuleIndex) Len() int { return len(ri.rules) }

// Rule returns the rule with index [i], as returned by [CandidatesFor].
func (ri *RuleIndex) Rule(i int) *StyleRule { return &ri.rules[i] }

// Report returns the problems found while building the index.
func (ri *RuleIndex) Report() Report { return ri.report }

// CandidatesFor returns, in source order, the indices of the rules
// which may match the element [n]. It is a superset of the matching
// rules: callers must still check the selectors.
func (ri *RuleIndex) CandidatesFor(doc *Document, n int) []int {
	out := append([]int(nil), ri.universal...)
	if id := doc.ID(n); id != "" {
		out = append(out, ri.byID[id]...)
	}
	for _, class := range doc.elements[n].classes {
		out = append(out, ri.byClass[class]...)
	}
	out = append(out, ri.byType[doc.LocalName(n)]...)

	sort.Ints(out)
	// remove duplicates, coming from repeated class names
	unique := out[:0]
	for _, v := range out {
		if len(unique) == 0 || v != unique[len(unique)-1] {
			unique = append(unique, v)
		}
	}
	return unique
}
