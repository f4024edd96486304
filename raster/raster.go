// Package raster turns a glyph's bit-packed rows into the dots it lights.
//
// Coordinates follow the frame buffer: y grows down. The origin passed in is
// the pen position on the baseline, so the last stored row of a glyph with
// OffsetY 0 lands on originY and row 0 is the topmost scan line.
package raster

import (
	"image"
	"math/bits"

	"github.com/ByLCY/flipdot/bdf"
)

// Padding selects how wide a bitmap row is assumed to be.
type Padding int

const (
	// PadValue rounds each row's effective bit length up to a multiple of
	// 8. A row whose leading bits are zero pads narrower than its
	// neighbours and is drawn shifted left; fonts relying on this keep
	// rendering as they always have.
	PadValue Padding = iota
	// PadStored uses the stored row width (hex digits * 4) for every row.
	PadStored
)

// Rasterizer computes lit pixels for glyphs. The zero value uses PadValue.
type Rasterizer struct {
	Padding Padding
}

// Default is the rasterizer used by LitPixels.
var Default = &Rasterizer{Padding: PadValue}

// LitPixels returns the dots lit by g drawn at (originX, originY) with the
// default rasterizer.
func LitPixels(g *bdf.Glyph, originX, originY int) []image.Point {
	return Default.LitPixels(g, originX, originY)
}

// LitPixels returns the dots lit by g drawn at (originX, originY).
func (r *Rasterizer) LitPixels(g *bdf.Glyph, originX, originY int) []image.Point {
	if g == nil {
		return nil
	}
	var out []image.Point
	r.Each(g, originX, originY, func(p image.Point) bool {
		out = append(out, p)
		return true
	})
	return out
}

// Each calls yield for every dot lit by g, stopping early when yield
// returns false. It reports whether iteration ran to completion.
func (r *Rasterizer) Each(g *bdf.Glyph, originX, originY int, yield func(image.Point) bool) bool {
	n := len(g.Rows)
	for i, row := range g.Rows {
		drawY := originY - (n - 1 - i) - g.OffsetY
		padded := r.paddedWidth(g, row)
		for b := 0; b < padded; b++ {
			if row&(1<<uint(b)) == 0 {
				continue
			}
			drawX := padded - 1 - b + g.OffsetX
			if !yield(image.Point{X: originX + drawX, Y: drawY}) {
				return false
			}
		}
	}
	return true
}

func (r *Rasterizer) paddedWidth(g *bdf.Glyph, row uint64) int {
	if r != nil && r.Padding == PadStored && g.RowBits > 0 {
		return g.RowBits
	}
	return (bits.Len64(row) + 7) / 8 * 8
}
