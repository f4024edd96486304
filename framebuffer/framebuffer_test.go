package framebuffer

import (
	"bytes"
	"strings"
	"testing"
)

func TestEmptyFrameSerialization(t *testing.T) {
	fb := New(5, 3)
	got := fb.String()
	want := "     \n     \n     \n"
	if got != want {
		t.Fatalf("unexpected serialization %q, want %q", got, want)
	}
	if len(got) != 18 {
		t.Fatalf("expected 18 characters, got %d", len(got))
	}
}

func TestSetAndClip(t *testing.T) {
	fb := New(4, 2)
	fb.Set(0, 0, true)
	fb.Set(3, 1, true)
	// outside the frame: silently ignored
	fb.Set(-1, 0, true)
	fb.Set(4, 0, true)
	fb.Set(0, 2, true)
	fb.Set(0, -5, true)

	if got, want := fb.String(), "X   \n   X\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if fb.Count() != 2 {
		t.Fatalf("expected 2 lit dots, got %d", fb.Count())
	}
	if fb.Lit(10, 10) {
		t.Fatalf("out of range dot must read as clear")
	}

	fb.Set(0, 0, false)
	if fb.Lit(0, 0) {
		t.Fatalf("dot (0,0) should be cleared")
	}
}

func TestFillRectHalfOpen(t *testing.T) {
	fb := New(5, 4)
	fb.FillRect(1, 4, 1, 3, true)
	want := "     \n XXX \n XXX \n     \n"
	if got := fb.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	fb.FillRect(2, 3, 0, 10, false)
	want = "     \n X X \n X X \n     \n"
	if got := fb.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	// a rectangle overlapping the border is clipped
	fb.FillRect(-3, 2, -3, 1, true)
	if !fb.Lit(0, 0) || !fb.Lit(1, 0) || fb.Lit(2, 0) {
		t.Fatalf("clipped rectangle drew wrong dots:\n%s", fb)
	}
}

func TestParseRoundTrip(t *testing.T) {
	src := "X X\n X \nXXX\n"
	fb, err := Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if fb.Width() != 3 || fb.Height() != 3 {
		t.Fatalf("unexpected size %dx%d", fb.Width(), fb.Height())
	}
	var buf bytes.Buffer
	if _, err := fb.WriteTo(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if buf.String() != src {
		t.Fatalf("round trip mismatch: %q", buf.String())
	}
}

func TestParseRejectsRaggedLines(t *testing.T) {
	cases := []string{
		"XX\nX\n",
		"XX\nXX",
		"X.\n",
	}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("expected error for %q", c)
		}
	}
}

func TestImageMatchesDots(t *testing.T) {
	fb := New(3, 2)
	fb.Set(2, 1, true)
	img := fb.Image()
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if img.ColorIndexAt(2, 1) != 1 || img.ColorIndexAt(0, 0) != 0 {
		t.Fatalf("image does not follow frame:\n%s", strings.ReplaceAll(fb.String(), " ", "."))
	}
}
