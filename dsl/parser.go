package dsl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Section headers and the terminal line of a layout description.
const (
	ColumnsHeader  = "columns:"
	RowsHeader     = "rows:"
	ElementsHeader = "elements:"
	End            = "end"
)

// Grammar shapes, used in error messages.
const (
	AxisShape = "<size|fill> [<size|fill> ...]"
	TextShape = "fill-text|unfill-text <font> left|center|right <left> <right> <top> <bottom> <text>"
	RectShape = "fill-rect|unfill-rect <left> <right> <top> <bottom>"
)

var (
	lineLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		// digits glued to anything else, e.g. "10fill", "1A" or "5x7"
		{Name: "Word", Pattern: `\d+[^ \t\r\d][^ \t\r]*`},
		{Name: "Int", Pattern: `\d+`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.-]*`},
		{Name: "Char", Pattern: `[^ \t\r\n]`},
	})

	axisParser = participle.MustBuild[AxisLine](
		participle.Lexer(lineLexer),
		participle.Elide("Whitespace"),
	)

	elementParser = participle.MustBuild[ElementLine](
		participle.Lexer(lineLexer),
		participle.Elide("Whitespace"),
	)
)

var fontName = regexp.MustCompile(`^(?:[A-Za-z_][A-Za-z0-9_.-]*|\d+|\d+[^ \t\r\d][^ \t\r]*)$`)

// ValidFontName reports whether name can be referenced from a text element:
// a single identifier or digit-led word such as "dot5" or "6x13".
func ValidFontName(name string) bool {
	return fontName.MatchString(name)
}

// AxisLine is one indented line of the columns or rows section.
type AxisLine struct {
	Tokens []*AxisToken `parser:"@@+"`
}

// AxisToken is either a fixed size or the fill keyword.
type AxisToken struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Fill bool           `parser:"  @'fill'"`
	Size int            `parser:"| @Int"`
}

// ElementLine is one indented line of the elements section.
type ElementLine struct {
	Text *TextElement `parser:"  @@"`
	Rect *RectElement `parser:"| @@"`
}

// TextElement draws or erases text inside a grid cell.
type TextElement struct {
	Op    string    `parser:"@( 'fill-text' | 'unfill-text' )"`
	Font  string    `parser:"@( Ident | Word | Int )"`
	Align string    `parser:"@( 'left' | 'center' | 'right' )"`
	Cell  Cell      `parser:"@@"`
	Body  *TextBody `parser:"@@"`
}

// RectElement fills or clears a grid cell.
type RectElement struct {
	Op   string `parser:"@( 'fill-rect' | 'unfill-rect' )"`
	Cell Cell   `parser:"@@"`
}

// Cell addresses a rectangle by grid boundary indices. Right and Bottom are
// exclusive boundaries.
type Cell struct {
	Left   int `parser:"@Int"`
	Right  int `parser:"@Int"`
	Top    int `parser:"@Int"`
	Bottom int `parser:"@Int"`
}

// TextBody marks where the free-form text starts. The text itself is taken
// verbatim from the line so inner spacing and escapes survive lexing.
type TextBody struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Words []string       `parser:"@( Ident | Word | Int | Char )+"`
}

// Fill reports whether the element sets dots (fill-*) rather than clearing
// them (unfill-*).
func (e *ElementLine) Fill() bool {
	switch {
	case e.Text != nil:
		return e.Text.Op == "fill-text"
	case e.Rect != nil:
		return e.Rect.Op == "fill-rect"
	}
	return false
}

// Kind returns "text", "rect" or "unknown".
func (e *ElementLine) Kind() string {
	switch {
	case e == nil:
		return "unknown"
	case e.Text != nil:
		return "text"
	case e.Rect != nil:
		return "rect"
	default:
		return "unknown"
	}
}

// ParseAxis parses the content of an axis line (indentation removed).
func ParseAxis(line string) (*AxisLine, error) {
	return axisParser.ParseString("", line)
}

// ParseElement parses the content of an element line (indentation removed).
// For text elements TextElement.Body.Words is replaced by the raw remainder
// of the line, right-trimmed, as a single entry; use Text to read it.
func ParseElement(line string) (*ElementLine, error) {
	el, err := elementParser.ParseString("", line)
	if err != nil {
		return nil, err
	}
	if el.Text != nil {
		off := el.Text.Body.Pos.Offset
		if off < 0 || off > len(line) {
			return nil, fmt.Errorf("text offset %d out of range", off)
		}
		el.Text.Body.Words = []string{strings.TrimRight(line[off:], " \t\r")}
	}
	return el, nil
}

// Text returns the raw, still escaped text of a text element.
func (t *TextElement) Text() string {
	if t == nil || t.Body == nil || len(t.Body.Words) == 0 {
		return ""
	}
	return t.Body.Words[0]
}

// IsIndented reports whether line starts with the indentation marker (a
// space or a tab).
func IsIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}
