package values

import (
	"fmt"
	"strings"
)

// WrongVariantError is returned (or panicked) when a [Token] is read
// with the accessor of another variant. It always indicates a bug in
// the caller, never a data problem.
type WrongVariantError struct {
	Want, Got Kind
}

func (e *WrongVariantError) Error() string {
	return fmt.Sprintf("wrong token variant: expected %s, got %s", e.Want, e.Got)
}

func kindOf(t Token) Kind {
	if t == nil {
		return 0
	}
	return t.Kind()
}

func as[T Token](t Token, want Kind) (T, error) {
	v, ok := t.(T)
	if !ok {
		var zero T
		return zero, &WrongVariantError{Want: want, Got: kindOf(t)}
	}
	return v, nil
}

func must[T Token](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func AsKeyword(t Token) (Keyword, error)       { return as[Keyword](t, KeywordK) }
func AsLength(t Token) (Length, error)         { return as[Length](t, LengthK) }
func AsPercentage(t Token) (Percentage, error) { return as[Percentage](t, PercentageK) }
func AsNumber(t Token) (Number, error)         { return as[Number](t, NumberK) }
func AsColor(t Token) (Color, error)           { return as[Color](t, ColorK) }
func AsString(t Token) (String, error)         { return as[String](t, StringK) }
func AsFunction(t Token) (Function, error)     { return as[Function](t, FunctionK) }
func AsList(t Token) (List, error)             { return as[List](t, ListK) }

// The Must accessors panic with a [*WrongVariantError] on mismatch.

func MustKeyword(t Token) Keyword       { return must(AsKeyword(t)) }
func MustLength(t Token) Length         { return must(AsLength(t)) }
func MustPercentage(t Token) Percentage { return must(AsPercentage(t)) }
func MustNumber(t Token) Number         { return must(AsNumber(t)) }
func MustColor(t Token) Color           { return must(AsColor(t)) }
func MustString(t Token) String         { return must(AsString(t)) }
func MustFunction(t Token) Function     { return must(AsFunction(t)) }
func MustList(t Token) List             { return must(AsList(t)) }

// IsKeyword returns true if [t] is the keyword [name].
func IsKeyword(t Token, name string) bool {
	k, ok := t.(Keyword)
	return ok && string(k) == name
}

// KeywordOf returns the name of [t] if it is a keyword.
func KeywordOf(t Token) (string, bool) {
	k, ok := t.(Keyword)
	return string(k), ok
}

// SingleKeyword returns the keyword name if [tokens] is a 1-element
// list holding a keyword.
func SingleKeyword(tokens []Token) (string, bool) {
	if len(tokens) != 1 {
		return "", false
	}
	return KeywordOf(tokens[0])
}

// PercentageOf returns the value of [t] if it is a percentage.
func PercentageOf(t Token) (Fl, bool) {
	p, ok := t.(Percentage)
	return p.Value, ok
}

// AsCSS returns the canonical form of [tokens], space separated.
func AsCSS(tokens []Token) string {
	chunks := make([]string, len(tokens))
	for i, t := range tokens {
		if t == nil {
			chunks[i] = "<nil>"
			continue
		}
		chunks[i] = t.Canonical()
	}
	return strings.Join(chunks, " ")
}

// Equal compares two tokens structurally.
func Equal(a, b Token) bool {
	if kindOf(a) != kindOf(b) {
		return false
	}
	switch a := a.(type) {
	case Function:
		b := b.(Function)
		return a.Name == b.Name && equalSlices(a.Args, b.Args)
	case List:
		b := b.(List)
		return a.Comma == b.Comma && equalSlices(a.Items, b.Items)
	default:
		return a == b
	}
}

func equalSlices(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
