package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestFillRectCoversSquare(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillRect(Point{X: 4, Y: 4}, 2, ColorPlayer)

	for y := 3; y < 5; y++ {
		for x := 3; x < 5; x++ {
			if c.At(x, y) != ColorPlayer {
				t.Fatalf("pixel (%d, %d) = %d, want %d", x, y, c.At(x, y), ColorPlayer)
			}
		}
	}
	if c.At(5, 4) != ColorNone || c.At(2, 4) != ColorNone {
		t.Fatal("FillRect painted outside the square")
	}
}

func TestFillRectTinyStillPaints(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillRect(Point{X: 1.2, Y: 1.2}, 0.3, ColorPebble)
	if c.At(1, 1) != ColorPebble {
		t.Fatal("sub-pixel rect left no mark")
	}
}

func TestOutOfRangeIsIgnored(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Set(Point{X: -1, Y: 0}, ColorBot)
	c.Set(Point{X: 3, Y: 0}, ColorBot)
	c.DrawLine(Point{X: -5, Y: -5}, Point{X: 10, Y: 10}, ColorBorder)
	if c.At(-1, 0) != ColorNone {
		t.Fatal("At out of range should be empty")
	}
	if c.At(1, 1) != ColorBorder {
		t.Fatal("visible part of the line not drawn")
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Set(Point{X: 0, Y: 0}, ColorPlayer) // top only
	c.Set(Point{X: 1, Y: 1}, ColorBot)    // bottom only
	c.Set(Point{X: 2, Y: 0}, ColorHead)   // two colors
	c.Set(Point{X: 2, Y: 1}, ColorPebble)

	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"\033[1;1H\033[38;5;46m▀",
		"\033[1;2H\033[38;5;208m▄",
		"\033[1;3H\033[38;5;226m\033[48;5;75m▀",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q in %q", want, out)
		}
	}

	c.Clear()
	buf.Reset()
	if err := c.Render(&buf); err != nil || buf.Len() != 0 {
		t.Fatalf("empty canvas rendered %q (err %v)", buf.String(), err)
	}
}

func TestPolygonFill(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawPolygon([]Point{{X: 5, Y: 1}, {X: 8, Y: 4}, {X: 5, Y: 7}, {X: 2, Y: 4}}, ColorPebble, true)
	if c.At(5, 4) != ColorPebble {
		t.Fatal("diamond center not filled")
	}
	if c.At(0, 0) != ColorNone {
		t.Fatal("corner outside diamond painted")
	}
}

func TestResizeKeepsBufferSize(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Resize(8, 3)
	if c.Width() != 8 || c.Height() != 6 {
		t.Fatalf("size = %dx%d, want 8x6", c.Width(), c.Height())
	}
	c.Set(Point{X: 7, Y: 5}, ColorBot)
	if c.At(7, 5) != ColorBot {
		t.Fatal("pixel in resized area not stored")
	}
}

func TestChunkWriterOffsets(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf, 2, 1)
	cw.WriteAt(1, 1, "hi")
	if buf.Len() != 0 {
		t.Fatal("ChunkWriter wrote before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := buf.String(); got != "\033[2;3Hhi" {
		t.Fatalf("output = %q", got)
	}
}

func TestRenderAppliesOffset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetOffset(5, 3)
	c.Set(Point{X: 1, Y: 0}, ColorPlayer)

	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "\033[4;7H") {
		t.Fatalf("output = %q, want cursor at row 4 col 7", buf.String())
	}
}
