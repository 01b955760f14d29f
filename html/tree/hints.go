package tree

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/benoitkugler/webstyle/logger"
	"github.com/benoitkugler/webstyle/utils"
	"golang.org/x/net/html/atom"
)

// Return True if all characters in S are digits and there is at least one character in S, False otherwise.
func isDigit(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// pixels adds the px unit to a bare integer attribute value
func pixels(s string) string {
	if isDigit(s) {
		return s + "px"
	}
	return s
}

var cssStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)

// cssString quotes [s] as a CSS string literal.
func cssString(s string) string { return `"` + cssStringEscaper.Replace(s) + `"` }

var fontSizes = [...]string{
	1: "x-small",
	2: "small",
	3: "medium",
	4: "large",
	5: "x-large",
	6: "xx-large",
	7: "48px", // 1.5 * xx-large
}

// presentationalHints returns the declarations mapped from the HTML
// attributes of [n], as the content of a style attribute.
// These declarations are cascaded with the author origin and a
// zero specificity, before any author sheet.
func presentationalHints(doc *Document, n int) string {
	var decls []string
	add := func(format string, args ...interface{}) {
		decls = append(decls, fmt.Sprintf(format, args...))
	}
	get := func(name string) string {
		v, _ := doc.Attr(n, name)
		return strings.TrimSpace(v)
	}
	space := func() {
		if hspace := get("hspace"); hspace != "" {
			add("margin-left:%s;margin-right:%s", pixels(hspace), pixels(hspace))
		}
		if vspace := get("vspace"); vspace != "" {
			add("margin-top:%s;margin-bottom:%s", pixels(vspace), pixels(vspace))
		}
	}
	dimensions := func(width, height bool) {
		if v := get("width"); width && v != "" {
			add("width:%s", pixels(v))
		}
		if v := get("height"); height && v != "" {
			add("height:%s", pixels(v))
		}
	}
	background := func() {
		if v := get("background"); v != "" {
			add("background-image:url(%s)", cssString(v))
		}
		if v := get("bgcolor"); v != "" {
			add("background-color:%s", v)
		}
	}

	switch doc.Atom(n) {
	case atom.Body:
		for _, pp := range [4][2]string{{"height", "top"}, {"height", "bottom"}, {"width", "left"}, {"width", "right"}} {
			part, position := pp[0], pp[1]
			for _, prop := range [2]string{"margin" + part, position + "margin"} {
				if s := get(prop); s != "" {
					add("margin-%s:%s", position, pixels(s))
					break
				}
			}
		}
		background()
		if v := get("text"); v != "" {
			add("color:%s", v)
		}
	case atom.Center:
		add("text-align:center")
	case atom.Div, atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		switch align := utils.AsciiLower(get("align")); align {
		case "middle":
			add("text-align:center")
		case "center", "left", "right", "justify":
			add("text-align:%s", align)
		}
	case atom.Font:
		if v := get("color"); v != "" {
			add("color:%s", v)
		}
		if v := get("face"); v != "" {
			add("font-family:%s", v)
		}
		if size := get("size"); size != "" {
			relativePlus := strings.HasPrefix(size, "+")
			relativeMinus := strings.HasPrefix(size, "-")
			if relativePlus || relativeMinus {
				size = strings.TrimSpace(size[1:])
			}
			sizeI, err := strconv.Atoi(size)
			if err != nil {
				logger.WarningLogger.Warnf("Invalid value for size: %s", size)
			} else {
				if relativePlus {
					sizeI += 3
				} else if relativeMinus {
					sizeI -= 3
				}
				sizeI = utils.MaxInt(1, utils.MinInt(7, sizeI))
				add("font-size:%s", fontSizes[sizeI])
			}
		}
	case atom.Table:
		space()
		dimensions(true, true)
		background()
		if v := get("bordercolor"); v != "" {
			add("border-color:%s", v)
		}
		if v := get("border"); v != "" {
			add("border-width:%s;border-style:outset", pixels(v))
		}
	case atom.Tr, atom.Td, atom.Th, atom.Thead, atom.Tbody, atom.Tfoot:
		if align := utils.AsciiLower(get("align")); align == "left" || align == "right" || align == "justify" || align == "center" {
			add("text-align:%s", align)
		}
		background()
		a := doc.Atom(n)
		dimensions(a == atom.Td || a == atom.Th, a != atom.Thead && a != atom.Tbody && a != atom.Tfoot)
		if a == atom.Td || a == atom.Th {
			if table := closestTable(doc, n); table != None {
				if cellpadding, _ := doc.Attr(table, "cellpadding"); strings.TrimSpace(cellpadding) != "" {
					add("padding:%s", pixels(strings.TrimSpace(cellpadding)))
				}
			}
		}
	case atom.Caption:
		if align := utils.AsciiLower(get("align")); align == "left" || align == "right" || align == "justify" {
			add("text-align:%s", align)
		}
	case atom.Col:
		dimensions(true, false)
	case atom.Hr:
		size := 0
		if s := get("size"); s != "" {
			var err error
			size, err = strconv.Atoi(s)
			if err != nil {
				logger.WarningLogger.Warnf("Invalid value for size: %s", s)
			}
		}
		_, hasColor := doc.Attr(n, "color")
		_, noShade := doc.Attr(n, "noshade")
		if hasColor || noShade {
			if size >= 1 {
				add("border-width:%dpx", size/2)
			}
		} else if size == 1 {
			add("border-bottom-width:0")
		} else if size > 1 {
			add("height:%dpx", size-2)
		}
		dimensions(true, false)
		if v := get("color"); v != "" {
			add("color:%s", v)
		}
	case atom.Iframe, atom.Embed, atom.Img, atom.Input, atom.Object:
		if doc.Atom(n) == atom.Input && utils.AsciiLower(get("type")) != "image" {
			break
		}
		if align := utils.AsciiLower(get("align")); align == "middle" || align == "center" {
			add("vertical-align:middle")
		}
		space()
		dimensions(true, true)
		if a := doc.Atom(n); a == atom.Img || a == atom.Object || a == atom.Input {
			if v := get("border"); v != "" {
				add("border-width:%s;border-style:solid", pixels(v))
			}
		}
	}
	return strings.Join(decls, ";")
}

// closestTable returns the nearest <table> ancestor of the cell [n]
func closestTable(doc *Document, n int) int {
	for p := doc.Parent(n); p != None; p = doc.Parent(p) {
		if doc.Atom(p) == atom.Table {
			return p
		}
	}
	return None
}
