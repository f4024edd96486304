// Package text measures and lays out strings of bitmap glyphs on a baseline.
package text

import (
	"fmt"
	"image"
	"iter"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/flipdot/bdf"
	"github.com/ByLCY/flipdot/raster"
)

// Align is the horizontal placement of text inside a cell.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlign accepts "left", "center" and "right".
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(s) {
	case "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, fmt.Errorf("unknown alignment %q (want left, center or right)", s)
}

// Normalize composes s (NFC) so that a decomposed character finds a
// precomposed glyph.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// Measure returns the pixel width of s: the advance of every character but
// the last, plus the last one's BBX width and x offset. Characters missing
// from the font contribute nothing.
func Measure(f *bdf.Font, s string) int {
	return measureRunes(f, []rune(s))
}

func measureRunes(f *bdf.Font, runes []rune) int {
	width := 0
	for i, r := range runes {
		g := f.Glyph(r)
		if g == nil {
			continue
		}
		if i == len(runes)-1 {
			width += g.Width + g.OffsetX
		} else {
			width += g.Advance
		}
	}
	return width
}

// MeasureTokens returns the width of the widest line of tokens, each line
// measured like Measure over its literal characters.
func MeasureTokens(f *bdf.Font, tokens []Token) int {
	widest := 0
	for _, line := range Lines(tokens) {
		runes := make([]rune, 0, len(line))
		for _, t := range line {
			if t.Kind == Literal {
				runes = append(runes, t.Char)
			}
		}
		if w := measureRunes(f, runes); w > widest {
			widest = w
		}
	}
	return widest
}

// AlignOffset returns how far text of textWidth is shifted inside a cell of
// cellWidth. Center rounds toward negative infinity, so odd space biases
// left and oversized text overhangs on both sides.
func AlignOffset(a Align, cellWidth, textWidth int) int {
	free := cellWidth - textWidth
	switch a {
	case AlignCenter:
		return floorDiv(free, 2)
	case AlignRight:
		return free
	default:
		return 0
	}
}

// FillWidth is the space each fill marker takes when textWidth pixels of
// text are justified across cellWidth. The remainder is not distributed.
func FillWidth(cellWidth, textWidth, markers int) int {
	if markers <= 0 {
		return 0
	}
	return floorDiv(cellWidth-textWidth, markers)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Engine lays out text with a given rasterizer. The zero value uses
// raster.Default.
type Engine struct {
	Rasterizer *raster.Rasterizer
}

// MeasureTokens is the package-level MeasureTokens; it lets an Engine act
// as a complete typesetter.
func (Engine) MeasureTokens(f *bdf.Font, tokens []Token) int {
	return MeasureTokens(f, tokens)
}

// Layout yields the dots lit by s drawn with the default engine.
func Layout(f *bdf.Font, s string, originX, originY, lineHeight, fillWidth int) iter.Seq[image.Point] {
	return Engine{}.Layout(f, s, originX, originY, lineHeight, fillWidth)
}

// Layout scans s and yields the dots it lights, starting with the pen at
// (originX, originY) on the baseline.
func (e Engine) Layout(f *bdf.Font, s string, originX, originY, lineHeight, fillWidth int) iter.Seq[image.Point] {
	return e.LayoutTokens(f, Scan(s), originX, originY, lineHeight, fillWidth)
}

// LayoutTokens is Layout over already scanned tokens. A line break moves
// the baseline lineHeight dots down and the pen back to originX; a fill
// marker advances the pen by fillWidth.
func (e Engine) LayoutTokens(f *bdf.Font, tokens []Token, originX, originY, lineHeight, fillWidth int) iter.Seq[image.Point] {
	rz := e.Rasterizer
	if rz == nil {
		rz = raster.Default
	}
	return func(yield func(image.Point) bool) {
		x, y := originX, originY
		for _, t := range tokens {
			switch t.Kind {
			case LineBreak:
				y += lineHeight
				x = originX
			case FillMarker:
				x += fillWidth
			case Literal:
				g := f.Glyph(t.Char)
				if g == nil {
					continue
				}
				if !rz.Each(g, x, y, yield) {
					return
				}
				x += g.Advance
			}
		}
	}
}
