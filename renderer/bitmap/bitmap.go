// Package bitmap renders a frame buffer as a 1-bit BMP image.
package bitmap

import (
	"bytes"
	"fmt"
	"image"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/ByLCY/flipdot/framebuffer"
	"github.com/ByLCY/flipdot/renderer"
)

// Renderer encodes each dot as a Scale x Scale block of pixels.
type Renderer struct {
	Scale int
}

var _ renderer.Renderer = Renderer{}

func (r Renderer) Render(fb *framebuffer.FrameBuffer) ([]byte, error) {
	if fb == nil {
		return nil, fmt.Errorf("bitmap: nil frame buffer")
	}
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, r.Image(fb)); err != nil {
		return nil, fmt.Errorf("bitmap: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Image returns the frame scaled by r.Scale with nearest-neighbour sampling.
func (r Renderer) Image(fb *framebuffer.FrameBuffer) image.Image {
	src := fb.Image()
	if r.Scale <= 1 {
		return src
	}
	dst := image.NewPaletted(image.Rect(0, 0, fb.Width()*r.Scale, fb.Height()*r.Scale), framebuffer.Palette)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
