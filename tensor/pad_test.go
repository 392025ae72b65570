package tensor

import (
	"strings"
	"testing"
)

// TestPadToSize_EvenSplit pads (1,4,4) to (1,6,6): one pixel of padding on
// every side of both spatial dimensions.
func TestPadToSize_EvenSplit(t *testing.T) {
	src := New(1, 4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(float32(y*4+x+1), 0, y, x)
		}
	}

	out, err := PadToSize(src, 1, 6, 6)
	if err != nil {
		t.Fatalf("PadToSize failed: %v", err)
	}
	dims := out.Dims()
	if dims[0] != 1 || dims[1] != 6 || dims[2] != 6 {
		t.Fatalf("expected dims [1 6 6], got %v", dims)
	}

	// Content sits at offset (0, 1, 1).
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got, want := out.At(0, y+1, x+1), src.At(0, y, x); got != want {
				t.Fatalf("content at (%d,%d): got %v want %v", y, x, got, want)
			}
		}
	}

	// Borders are zero.
	for i := 0; i < 6; i++ {
		for _, v := range []float32{out.At(0, 0, i), out.At(0, 5, i), out.At(0, i, 0), out.At(0, i, 5)} {
			if v != 0 {
				t.Fatalf("expected zero border, got %v", v)
			}
		}
	}
}

// TestPadToSize_OddSplit pads a dimension by an odd amount: the low side
// gets the ceil half, the high side the floor half.
func TestPadToSize_OddSplit(t *testing.T) {
	src := New(3)
	src.Set(1, 0)
	src.Set(2, 1)
	src.Set(3, 2)

	out, err := PadToSize(src, 6)
	if err != nil {
		t.Fatalf("PadToSize failed: %v", err)
	}
	want := []float32{0, 0, 1, 2, 3, 0}
	for i, w := range want {
		if got := out.At(i); got != w {
			t.Fatalf("index %d: got %v want %v (full: %v)", i, got, w, out.Data())
		}
	}
}

// TestPadToSize_OddSplitPerDimension checks the split side independently
// for each spatial dimension of a (1,3,4) raster grown to (1,6,6): the
// odd height slack puts two rows above, one below; the even width slack
// splits one column each side.
func TestPadToSize_OddSplitPerDimension(t *testing.T) {
	src := New(1, 3, 4)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			src.Set(float32(y*4+x+1), 0, y, x)
		}
	}

	out, err := PadToSize(src, 1, 6, 6)
	if err != nil {
		t.Fatalf("PadToSize failed: %v", err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if got, want := out.At(0, y+2, x+1), src.At(0, y, x); got != want {
				t.Fatalf("content at (%d,%d): got %v want %v", y, x, got, want)
			}
		}
	}
	// Rows 0-1 and 5, and columns 0 and 5, are padding.
	for x := 0; x < 6; x++ {
		if out.At(0, 0, x) != 0 || out.At(0, 1, x) != 0 || out.At(0, 5, x) != 0 {
			t.Fatalf("expected zero padding rows, column %d", x)
		}
	}
	for y := 0; y < 6; y++ {
		if out.At(0, y, 0) != 0 || out.At(0, y, 5) != 0 {
			t.Fatalf("expected zero padding columns, row %d", y)
		}
	}
}

func TestPadToSize_SameSizeReturnsInput(t *testing.T) {
	src := New(1, 4, 4)
	out, err := PadToSize(src, 1, 4, 4)
	if err != nil {
		t.Fatalf("PadToSize failed: %v", err)
	}
	if out != src {
		t.Fatalf("expected the input tensor itself for a same-size target")
	}
}

func TestPadToSize_SmallerTargetFails(t *testing.T) {
	src := New(1, 4, 4)
	_, err := PadToSize(src, 1, 3, 4)
	if err == nil {
		t.Fatalf("expected error for smaller target, got nil")
	}
	if !strings.Contains(err.Error(), "can't pad") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestPadToSize_RankMismatchFails(t *testing.T) {
	if _, err := PadToSize(New(4, 4), 1, 6, 6); err == nil {
		t.Fatalf("expected error for rank mismatch, got nil")
	}
}
