// Package framebuffer holds the pixel matrix of a flip-dot display and its
// text wire format.
//
// The origin is the top-left dot, x grows to the right and y grows down.
// Row 0 is the first line of the serialized form.
package framebuffer

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
)

const (
	// Lit is the character used for a set dot in the text form.
	Lit = 'X'
	// Clear is the character used for an unset dot in the text form.
	Clear = ' '
)

// FrameBuffer is a fixed-size grid of boolean dots.
type FrameBuffer struct {
	width  int
	height int
	pitch  int
	// buf stores the serialized form directly: each row is width dots followed by '\n'.
	buf []byte
}

// New returns an all-clear frame buffer of the given size.
func New(width, height int) *FrameBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	fb := &FrameBuffer{
		width:  width,
		height: height,
		pitch:  width + 1,
		buf:    make([]byte, (width+1)*height),
	}
	fb.Clear()
	return fb
}

func (fb *FrameBuffer) Width() int  { return fb.width }
func (fb *FrameBuffer) Height() int { return fb.height }

// Contains reports whether (x, y) is a dot of the frame.
func (fb *FrameBuffer) Contains(x, y int) bool {
	return x >= 0 && x < fb.width && y >= 0 && y < fb.height
}

// Set lights (on=true) or clears a dot. Coordinates outside the frame are
// ignored.
func (fb *FrameBuffer) Set(x, y int, on bool) {
	if !fb.Contains(x, y) {
		return
	}
	if on {
		fb.buf[x+fb.pitch*y] = Lit
	} else {
		fb.buf[x+fb.pitch*y] = Clear
	}
}

// Lit reports whether the dot at (x, y) is set. Outside the frame it is false.
func (fb *FrameBuffer) Lit(x, y int) bool {
	if !fb.Contains(x, y) {
		return false
	}
	return fb.buf[x+fb.pitch*y] == Lit
}

// FillRect sets or clears every dot in [left, right) x [top, bottom).
func (fb *FrameBuffer) FillRect(left, right, top, bottom int, on bool) {
	for x := left; x < right; x++ {
		for y := top; y < bottom; y++ {
			fb.Set(x, y, on)
		}
	}
}

// Clear resets every dot.
func (fb *FrameBuffer) Clear() {
	for y := 0; y < fb.height; y++ {
		row := fb.buf[y*fb.pitch : (y+1)*fb.pitch]
		for x := 0; x < fb.width; x++ {
			row[x] = Clear
		}
		row[fb.width] = '\n'
	}
}

// Count returns the number of lit dots.
func (fb *FrameBuffer) Count() int {
	n := 0
	for _, c := range fb.buf {
		if c == Lit {
			n++
		}
	}
	return n
}

// String returns the wire format: Height lines of Width characters,
// 'X' for lit and ' ' for clear, each terminated by '\n'.
func (fb *FrameBuffer) String() string {
	return string(fb.buf)
}

// Bytes returns a copy of the wire format.
func (fb *FrameBuffer) Bytes() []byte {
	out := make([]byte, len(fb.buf))
	copy(out, fb.buf)
	return out
}

// WriteTo writes the wire format to w.
func (fb *FrameBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(fb.buf)
	return int64(n), err
}

// Parse reads the wire format back into a frame buffer. Every line must
// have the same width and contain only 'X' and ' '.
func Parse(s string) (*FrameBuffer, error) {
	if s == "" {
		return New(0, 0), nil
	}
	if !strings.HasSuffix(s, "\n") {
		return nil, fmt.Errorf("framebuffer: missing trailing newline")
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	width := len(lines[0])
	fb := New(width, len(lines))
	for y, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("framebuffer: line %d has %d dots, want %d", y+1, len(line), width)
		}
		for x := 0; x < len(line); x++ {
			switch line[x] {
			case Lit:
				fb.Set(x, y, true)
			case Clear:
			default:
				return nil, fmt.Errorf("framebuffer: line %d: unexpected character %q", y+1, line[x])
			}
		}
	}
	return fb, nil
}

// Palette used by Image: index 0 is a clear dot, index 1 a lit one.
var Palette = color.Palette{color.Black, color.White}

// Image returns a paletted snapshot of the frame, one image pixel per dot.
func (fb *FrameBuffer) Image() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, fb.width, fb.height), Palette)
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			if fb.Lit(x, y) {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img
}
