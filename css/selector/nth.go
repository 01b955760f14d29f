package selector

import (
	"regexp"
	"strconv"
	"strings"
)

var nthRe = regexp.MustCompile(`^([+-]?[0-9]*)n(?:\s*([+-])\s*([0-9]+))?$`)

// ParseNth parses <An+B> (see <http://drafts.csswg.org/csswg/css-syntax-3/#anb>),
// as found in `:nth-child()` and related selector pseudo-classes.
func ParseNth(s string) (a, b int, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "even":
		return 2, 0, nil
	case "odd":
		return 2, 1, nil
	}
	if !strings.Contains(s, "n") {
		b, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, &SyntaxError{Input: s, Msg: "invalid An+B expression"}
		}
		return 0, b, nil
	}
	match := nthRe.FindStringSubmatch(s)
	if match == nil {
		return 0, 0, &SyntaxError{Input: s, Msg: "invalid An+B expression"}
	}
	switch match[1] {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		a, err = strconv.Atoi(match[1])
		if err != nil {
			return 0, 0, &SyntaxError{Input: s, Msg: "invalid An+B coefficient"}
		}
	}
	if match[3] != "" {
		b, _ = strconv.Atoi(match[3])
		if match[2] == "-" {
			b = -b
		}
	}
	return a, b, nil
}

// nthMatches returns true if [position] (1-based) is a*k + b
// for some k >= 0.
func nthMatches(a, b, position int) bool {
	if a == 0 {
		return position == b
	}
	diff := position - b
	return diff/a >= 0 && diff%a == 0
}
