package tensor

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	d, err := FromData([]float32{0, 0.5, 1}, 3)
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}
	n := Normalize(d, 0.5, 0.5)
	want := []float32{-1, 0, 1}
	for i, w := range want {
		if got := n.At(i); got != w {
			t.Fatalf("index %d: got %v want %v", i, got, w)
		}
	}
	// Input untouched.
	if d.At(0) != 0 {
		t.Fatalf("Normalize modified its input")
	}
}

func TestUnnormalizeInverts(t *testing.T) {
	d, err := FromData([]float32{0, 0.25, 0.5, 1}, 4)
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}
	back := Unnormalize(Normalize(d, 0.5, 0.5))
	for i := 0; i < d.Len(); i++ {
		if diff := math.Abs(float64(back.At(i) - d.At(i))); diff > 1e-6 {
			t.Fatalf("index %d: roundtrip drifted by %v", i, diff)
		}
	}
}

func TestMinMax(t *testing.T) {
	d, err := FromData([]float32{0.5, -2, 7, 0}, 2, 2)
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}
	min, max := MinMax(d)
	if min != -2 || max != 7 {
		t.Fatalf("expected min=-2 max=7, got min=%v max=%v", min, max)
	}
}
