package canvasrenderer

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"github.com/ByLCY/flipdot/framebuffer"
)

func TestRenderProducesPDF(t *testing.T) {
	fb := framebuffer.New(8, 4)
	fb.FillRect(0, 4, 0, 2, true)

	r := NewRenderer(Options{})
	data, err := r.Render(fb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", data[:min(len(data), 8)])
	}
}

func TestRenderRejectsNil(t *testing.T) {
	if _, err := NewRenderer(DefaultOptions()).Render(nil); err == nil {
		t.Fatalf("expected error for nil frame buffer")
	}
}

// 页面尺寸 = 点数 * 间距 + 两侧边距。
func TestSizeFollowsPitch(t *testing.T) {
	r := NewRenderer(Options{Pitch: 2, Margin: 1})
	w, h := r.Size(framebuffer.New(10, 3))
	if w != 22 || h != 8 {
		t.Fatalf("unexpected page size %.1fx%.1f", w, h)
	}
	cx, cy := r.center(0, 2)
	if cx != 2 || cy != 6 {
		t.Fatalf("unexpected dot centre (%.1f, %.1f)", cx, cy)
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		mm   float64
		unit Unit
	}{
		{"5", 5, UnitMM},
		{"2.5mm", 2.5, UnitMM},
		{"1cm", 10, UnitCM},
		{"0.5in", 12.7, UnitIN},
		{"72pt", 72 * PtToMm, UnitPT},
		{" 3 MM ", 3, UnitMM},
	}
	for _, c := range cases {
		l, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("ParseLength(%q): %v", c.in, err)
		}
		if l.Unit != c.unit || math.Abs(l.MM()-c.mm) > 1e-9 {
			t.Fatalf("ParseLength(%q) = %v (%.4fmm), want %.4fmm", c.in, l, l.MM(), c.mm)
		}
	}
	for _, bad := range []string{"", "mm", "abc", "-1mm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestLengthPT(t *testing.T) {
	l := Length{Value: 1, Unit: UnitIN}
	if math.Abs(l.PT()-72) > 0.01 {
		t.Fatalf("1in should be ~72pt, got %.4f", l.PT())
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.RGBA{
		"#fc0":      {0xff, 0xcc, 0x00, 0xff},
		"ffcc00":    {0xff, 0xcc, 0x00, 0xff},
		"#10203040": {0x10, 0x20, 0x30, 0xff},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseColor(%q) = %v, want %v", in, got, want)
		}
	}
	for _, bad := range []string{"#12", "#zzzzzz"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
