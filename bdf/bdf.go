// Package bdf reads glyph metrics and bitmaps out of Glyph Bitmap
// Distribution Format (BDF) fonts.
//
// Only the records needed to draw text on a dot matrix are kept: the global
// SIZE record, the optional FONT and FONTBOUNDINGBOX records, and per glyph
// ENCODING, DWIDTH, BBX and BITMAP. Everything else is skipped.
package bdf

import (
	"bufio"
	"fmt"
	"io"
	"math/bits"
	"strconv"
	"strings"
)

// Glyph is a single character of a font. Rows holds one value per scan
// line, first stored row first, with the leftmost pixel in the most
// significant bit of the stored width.
type Glyph struct {
	Encoding rune
	Advance  int
	Width    int
	Height   int
	OffsetX  int
	OffsetY  int
	Rows     []uint64
	// RowBits is the stored width of a bitmap row in bits (hex digits * 4).
	RowBits int
}

// RowLen returns the effective bit length of row i: the position of its
// highest set bit, 0 for an empty row.
func (g *Glyph) RowLen(i int) int {
	return bits.Len64(g.Rows[i])
}

// SetBits returns the number of set bits over all rows.
func (g *Glyph) SetBits() int {
	n := 0
	for _, r := range g.Rows {
		n += bits.OnesCount64(r)
	}
	return n
}

// BoundingBox is the FONTBOUNDINGBOX record.
type BoundingBox struct {
	Width, Height    int
	OffsetX, OffsetY int
}

// Font is a parsed BDF font. It is not modified after parsing and can be
// shared freely.
type Font struct {
	Name        string
	SizePt      int
	BoundingBox *BoundingBox
	Glyphs      map[rune]*Glyph
}

// Glyph returns the glyph for r, or nil when the font has none.
func (f *Font) Glyph(r rune) *Glyph {
	if f == nil {
		return nil
	}
	return f.Glyphs[r]
}

// LineHeight is the distance between two baselines: the font bounding box
// height when present, otherwise the point size.
func (f *Font) LineHeight() int {
	if f.BoundingBox != nil && f.BoundingBox.Height > 0 {
		return f.BoundingBox.Height
	}
	return f.SizePt
}

// FormatError reports a malformed or incomplete font description.
type FormatError struct {
	Line int // 1-based; 0 when the problem concerns the whole file
	Msg  string
	Err  error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("bdf: ")
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FormatError) Unwrap() error { return e.Err }

// Decoder decodes BDF fonts. The zero value is ready to use.
type Decoder struct{}

// Decode implements the font decoding interface used by the loaders.
func (Decoder) Decode(r io.Reader) (*Font, error) {
	return Parse(r)
}

// ParseString parses a BDF font held in memory.
func ParseString(s string) (*Font, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a whole BDF font. On error no font is returned.
func Parse(r io.Reader) (*Font, error) {
	p := &parser{
		font: &Font{Glyphs: make(map[rune]*Glyph)},
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		if err := p.feed(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if p.glyph != nil {
		return nil, p.errorf(p.glyphLine, "STARTCHAR %s is not closed by ENDCHAR", p.glyphName)
	}
	if !p.haveSize {
		return nil, &FormatError{Msg: "missing SIZE record"}
	}
	return p.font, nil
}

// glyph fields seen so far
const (
	seenEncoding = 1 << iota
	seenDWidth
	seenBBX
	seenBitmap
	seenAll = seenEncoding | seenDWidth | seenBBX | seenBitmap
)

type parser struct {
	font     *Font
	line     int
	haveSize bool

	glyph     *Glyph
	glyphName string
	glyphLine int
	seen      int
	inBitmap  bool
}

func (p *parser) feed(line string) error {
	line = strings.TrimRight(line, " \t\r")
	if p.inBitmap {
		if line == "ENDCHAR" {
			return p.endGlyph()
		}
		return p.bitmapRow(line)
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	keyword, args := fields[0], fields[1:]

	if p.glyph == nil {
		switch keyword {
		case "SIZE":
			n, err := p.ints(args, 1)
			if err != nil {
				return err
			}
			p.font.SizePt = n[0]
			p.haveSize = true
		case "FONT":
			p.font.Name = strings.TrimSpace(strings.TrimPrefix(line, "FONT"))
		case "FONTBOUNDINGBOX":
			n, err := p.ints(args, 4)
			if err != nil {
				return err
			}
			p.font.BoundingBox = &BoundingBox{Width: n[0], Height: n[1], OffsetX: n[2], OffsetY: n[3]}
		case "STARTCHAR":
			p.glyph = &Glyph{}
			p.glyphName = strings.Join(args, " ")
			p.glyphLine = p.line
			p.seen = 0
		case "ENDCHAR":
			return p.errorf(p.line, "ENDCHAR without STARTCHAR")
		}
		return nil
	}

	switch keyword {
	case "ENCODING":
		n, err := p.ints(args, 1)
		if err != nil {
			return err
		}
		p.glyph.Encoding = rune(n[0])
		p.seen |= seenEncoding
	case "DWIDTH":
		n, err := p.ints(args, 1)
		if err != nil {
			return err
		}
		p.glyph.Advance = n[0]
		p.seen |= seenDWidth
	case "BBX":
		n, err := p.ints(args, 4)
		if err != nil {
			return err
		}
		p.glyph.Width, p.glyph.Height = n[0], n[1]
		p.glyph.OffsetX, p.glyph.OffsetY = n[2], n[3]
		p.seen |= seenBBX
	case "BITMAP":
		p.inBitmap = true
		p.seen |= seenBitmap
	case "STARTCHAR":
		return p.errorf(p.line, "STARTCHAR inside glyph %s", p.glyphName)
	case "ENDCHAR":
		return p.endGlyph()
	}
	return nil
}

func (p *parser) bitmapRow(line string) error {
	hex := strings.TrimSpace(line)
	if hex == "" {
		return nil
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return &FormatError{Line: p.line, Msg: fmt.Sprintf("glyph %s: invalid bitmap row %q", p.glyphName, hex), Err: err}
	}
	p.glyph.Rows = append(p.glyph.Rows, v)
	if w := len(hex) * 4; w > p.glyph.RowBits {
		p.glyph.RowBits = w
	}
	return nil
}

func (p *parser) endGlyph() error {
	if p.seen != seenAll {
		var missing []string
		for _, m := range []struct {
			bit  int
			name string
		}{
			{seenEncoding, "ENCODING"},
			{seenDWidth, "DWIDTH"},
			{seenBBX, "BBX"},
			{seenBitmap, "BITMAP"},
		} {
			if p.seen&m.bit == 0 {
				missing = append(missing, m.name)
			}
		}
		return p.errorf(p.glyphLine, "glyph %s is missing %s", p.glyphName, strings.Join(missing, ", "))
	}
	p.font.Glyphs[p.glyph.Encoding] = p.glyph
	p.glyph = nil
	p.inBitmap = false
	return nil
}

// ints parses the first n fields of a record as decimal integers.
func (p *parser) ints(args []string, n int) ([]int, error) {
	if len(args) < n {
		return nil, p.errorf(p.line, "expected %d numeric fields, got %d", n, len(args))
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, &FormatError{Line: p.line, Msg: fmt.Sprintf("invalid integer %q", args[i]), Err: err}
		}
		out[i] = v
	}
	return out, nil
}

func (p *parser) errorf(line int, format string, args ...any) error {
	return &FormatError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
