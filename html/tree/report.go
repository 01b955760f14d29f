package tree

import (
	"fmt"

	"github.com/benoitkugler/webstyle/css/parser"
	pr "github.com/benoitkugler/webstyle/css/properties"
	"github.com/benoitkugler/webstyle/css/validation"
	"github.com/benoitkugler/webstyle/css/values"
)

// DroppedRule is a rule whose selector could not be compiled.
type DroppedRule struct {
	Sheet    string
	Origin   Origin
	Selector string
	Err      error // a *selector.SyntaxError
}

// IgnoredDeclaration is a declaration rejected when building the
// rules: unknown property, or value not matching the property grammar.
type IgnoredDeclaration struct {
	Sheet string
	// Node is the element of a style attribute or presentational
	// hint, or [None] for a style sheet declaration.
	Node int
	validation.IgnoredDeclaration
}

// IgnoredAtRule is an at-rule skipped when building the rules.
type IgnoredAtRule struct {
	Sheet string
	parser.IgnoredRule
}

// InvalidValueWarning is emitted when a declared value is not valid
// for its property once the context of the element is known
// (for instance a negative width). The property then takes its
// initial value.
type InvalidValueWarning struct {
	Node     int
	Pseudo   string
	Property pr.KnownProp
	Value    values.Token
	Reason   error
}

func (w InvalidValueWarning) Error() string {
	return fmt.Sprintf("invalid value %s for %s: %s", w.Value.Canonical(), w.Property, w.Reason)
}

// Report lists the problems found while building the rules and
// styling a document. The order of each list is deterministic:
// source order for the build items, tree order for the warnings.
type Report struct {
	DroppedRules        []DroppedRule
	IgnoredDeclarations []IgnoredDeclaration
	IgnoredAtRules      []IgnoredAtRule
	Warnings            []InvalidValueWarning
}

// IsEmpty returns true if no problem were found.
func (r Report) IsEmpty() bool {
	return len(r.DroppedRules) == 0 && len(r.IgnoredDeclarations) == 0 &&
		len(r.IgnoredAtRules) == 0 && len(r.Warnings) == 0
}
