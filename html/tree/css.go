package tree

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/benoitkugler/webstyle/css/parser"
	"github.com/benoitkugler/webstyle/logger"
)

// Origin is the source category of a style sheet.
type Origin uint8

const (
	UserAgent Origin = iota
	User
	Author
)

func (o Origin) String() string {
	switch o {
	case UserAgent:
		return "user agent"
	case User:
		return "user"
	case Author:
		return "author"
	}
	return fmt.Sprintf("<origin %d>", o)
}

// CSS represents a parsed CSS stylesheet.
type CSS struct {
	// Name identifies the sheet in reports.
	Name  string
	sheet *parser.Stylesheet
	// media restricts the whole sheet, as for <style media="print">
	media []string
}

// NewCSS parses [content]. [name] is only used to identify the sheet
// in logs and reports.
// Syntax errors only drop the rule or declaration they occur in.
func NewCSS(content, name string) CSS {
	logger.ProgressLogger.Infof("Parsing CSS - %s", name)
	return CSS{Name: name, sheet: parser.ParseStylesheet(content)}
}

// WithMedia returns a copy of the sheet restricted to the comma separated
// media types [media], as found in a media attribute.
func (c CSS) WithMedia(media string) (CSS, error) {
	list, err := parser.ParseMediaQuery(media)
	if err != nil {
		return c, err
	}
	c.media = list
	return c, nil
}

// IsNone returns true for the zero value.
func (c CSS) IsNone() bool { return c.sheet == nil }

var (
	//go:embed html5_ua.css
	html5UACSS string

	// Html5UAStylesheet is the user agent style sheet
	Html5UAStylesheet CSS
)

func init() {
	Html5UAStylesheet = NewCSS(html5UACSS, "html5_ua.css")
}

// StyleSheetSet groups the sheets of a styling pass by origin.
// Inside an origin, the order of the sheets is their source order.
type StyleSheetSet struct {
	UserAgent []CSS
	User      []CSS
	Author    []CSS
}

func (set StyleSheetSet) byOrigin() [3][]CSS {
	return [3][]CSS{UserAgent: set.UserAgent, User: set.User, Author: set.Author}
}

// NewStyleSheetSet returns a set made of the default user agent sheet,
// the given user sheets, and the author sheets embedded in [doc].
func NewStyleSheetSet(doc *Document, userSheets ...CSS) StyleSheetSet {
	return StyleSheetSet{
		UserAgent: []CSS{Html5UAStylesheet},
		User:      userSheets,
		Author:    FindStylesheets(doc),
	}
}

// FindStylesheets returns the sheets defined by <style> elements
// of [doc], in document order.
// External sheets referenced by <link> elements are not fetched.
func FindStylesheets(doc *Document) (out []CSS) {
	for _, st := range doc.StyleElements() {
		if st.Href != "" {
			logger.WarningLogger.Warnf("Stylesheet at %s ignored: external resources are not fetched", st.Href)
			continue
		}
		name := fmt.Sprintf("<style> #%d", st.Node)
		css := NewCSS(st.Text, name)
		if strings.TrimSpace(st.Media) != "" {
			var err error
			css, err = css.WithMedia(st.Media)
			if err != nil {
				logger.WarningLogger.Warnf("Invalid media type '%s', the whole %s was ignored", st.Media, name)
				continue
			}
		}
		out = append(out, css)
	}
	return out
}
