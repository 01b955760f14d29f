// Package values defines the typed representation of a CSS value,
// as consumed by the cascade and produced by value computation.
//
// A [Token] is one of a closed set of variants; values are immutable
// and may be freely shared between goroutines.
package values

import (
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/webstyle/utils"
	"github.com/pkg/errors"
)

type Fl = utils.Fl

// Kind is the tag of a [Token] variant.
type Kind uint8

const (
	_ Kind = iota
	KeywordK
	LengthK
	PercentageK
	NumberK
	ColorK
	StringK
	FunctionK
	ListK
	UnsetK
)

func (k Kind) String() string {
	switch k {
	case KeywordK:
		return "keyword"
	case LengthK:
		return "length"
	case PercentageK:
		return "percentage"
	case NumberK:
		return "number"
	case ColorK:
		return "color"
	case StringK:
		return "string"
	case FunctionK:
		return "function"
	case ListK:
		return "list"
	case UnsetK:
		return "unset"
	default:
		return "<nil>"
	}
}

// Token is a single CSS value.
type Token interface {
	Kind() Kind
	// Canonical returns a stable textual form, used for debugging
	// and testing (it is not meant to be parsed back).
	Canonical() string
	isToken()
}

// Keyword is an identifier, always stored lower case.
type Keyword string

// Length is a dimension with a length unit.
type Length struct {
	Value Fl
	Unit  Unit
}

// Percentage stores the value before the '%' sign.
type Percentage struct {
	Value Fl
}

// Number is a unitless number.
type Number struct {
	Value Fl
	// IsInt is true when the number was written without
	// fractional part or exponent.
	IsInt bool
}

// Color is a RGBA color, with components in [0, 1].
type Color struct {
	R, G, B, A Fl
}

// String is a quoted string literal, stored unquoted.
type String string

// Function is a function call, such as rgb(0, 0, 0) or url("a.png").
type Function struct {
	Name string // lower case
	Args []Token
}

// List is an ordered sequence of values, such as a font family list
// or several text decoration lines.
type List struct {
	Items []Token
	// Comma is true for comma separated lists.
	Comma bool
}

// Unset is the 'unset' CSS-wide keyword.
type Unset struct{}

func (Keyword) Kind() Kind    { return KeywordK }
func (Length) Kind() Kind     { return LengthK }
func (Percentage) Kind() Kind { return PercentageK }
func (Number) Kind() Kind     { return NumberK }
func (Color) Kind() Kind      { return ColorK }
func (String) Kind() Kind     { return StringK }
func (Function) Kind() Kind   { return FunctionK }
func (List) Kind() Kind       { return ListK }
func (Unset) Kind() Kind      { return UnsetK }

func (Keyword) isToken()    {}
func (Length) isToken()     {}
func (Percentage) isToken() {}
func (Number) isToken()     {}
func (Color) isToken()      {}
func (String) isToken()     {}
func (Function) isToken()   {}
func (List) isToken()       {}
func (Unset) isToken()      {}

func (k Keyword) Canonical() string    { return string(k) }
func (l Length) Canonical() string     { return FormatNumber(l.Value) + l.Unit.String() }
func (p Percentage) Canonical() string { return FormatNumber(p.Value) + "%" }
func (n Number) Canonical() string     { return FormatNumber(n.Value) }
func (Unset) Canonical() string        { return "unset" }

func (s String) Canonical() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range string(s) {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\A `)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (c Color) Canonical() string {
	r, g, b := channel(c.R), channel(c.G), channel(c.B)
	if c.A >= 1 {
		return "rgb(" + r + ", " + g + ", " + b + ")"
	}
	return "rgba(" + r + ", " + g + ", " + b + ", " + FormatNumber(utils.RoundPrec(c.A, 3)) + ")"
}

func channel(v Fl) string {
	return strconv.Itoa(int(math.Round(utils.Clamp(v, 0, 1) * 255)))
}

func (f Function) Canonical() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.Canonical()
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

func (l List) Canonical() string {
	sep := " "
	if l.Comma {
		sep = ", "
	}
	items := make([]string, len(l.Items))
	for i, a := range l.Items {
		items[i] = a.Canonical()
	}
	return strings.Join(items, sep)
}

// FormatNumber returns the shortest representation of [f],
// rounded to 6 digits.
func FormatNumber(f Fl) string {
	f = utils.Round(f)
	if f == 0 {
		f = 0 // avoid -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ErrNotFinite is returned by the constructors for NaN or infinite fields.
var ErrNotFinite = errors.New("numeric value is not finite")

// NewKeyword returns the lower cased keyword.
func NewKeyword(name string) Keyword { return Keyword(utils.AsciiLower(name)) }

func NewLength(v Fl, unit Unit) (Length, error) {
	if !utils.IsFinite(v) {
		return Length{}, errors.Wrapf(ErrNotFinite, "length %v%s", v, unit)
	}
	if unit == 0 {
		return Length{}, errors.Errorf("missing unit for length %v", v)
	}
	return Length{Value: v, Unit: unit}, nil
}

// Px is a convenience constructor for pixel lengths.
func Px(v Fl) Length { return Length{Value: v, Unit: UnitPx} }

func NewPercentage(v Fl) (Percentage, error) {
	if !utils.IsFinite(v) {
		return Percentage{}, errors.Wrapf(ErrNotFinite, "percentage %v", v)
	}
	return Percentage{Value: v}, nil
}

func NewNumber(v Fl) (Number, error) {
	if !utils.IsFinite(v) {
		return Number{}, errors.Wrapf(ErrNotFinite, "number %v", v)
	}
	return Number{Value: v, IsInt: v == math.Trunc(v)}, nil
}

// NewColor clamps each component into [0, 1].
func NewColor(r, g, b, a Fl) (Color, error) {
	for _, v := range [4]Fl{r, g, b, a} {
		if !utils.IsFinite(v) {
			return Color{}, errors.Wrapf(ErrNotFinite, "color component %v", v)
		}
	}
	return Color{
		R: utils.Clamp(r, 0, 1), G: utils.Clamp(g, 0, 1),
		B: utils.Clamp(b, 0, 1), A: utils.Clamp(a, 0, 1),
	}, nil
}

// NewFunction lower cases the function name.
func NewFunction(name string, args ...Token) Function {
	return Function{Name: utils.AsciiLower(name), Args: args}
}
