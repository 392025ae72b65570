// Package tensor provides the small dense float32 tensors the tutorial
// helpers work with: contiguous row-major data plus shape metadata, with
// helpers to convert decoded images into channel-first (C, H, W) tensors
// and batches of them into gomlx tensors for training code.
package tensor

import (
	"fmt"
	"image"
	"image/color"
)

// Dense is a dense float32 tensor. The zero value is not usable; create
// one with New, FromData or FromImage.
type Dense struct {
	dims []int
	data []float32
}

// New creates a zero-filled tensor with the given dimensions.
func New(dims ...int) *Dense {
	n := 1
	for _, d := range dims {
		if d <= 0 {
			panic(fmt.Sprintf("tensor: non-positive dimension in %v", dims))
		}
		n *= d
	}
	return &Dense{
		dims: append([]int(nil), dims...),
		data: make([]float32, n),
	}
}

// FromData wraps a flat row-major buffer as a tensor. The buffer is not
// copied; it must have exactly the product of dims elements.
func FromData(data []float32, dims ...int) (*Dense, error) {
	n := 1
	for _, d := range dims {
		if d <= 0 {
			return nil, fmt.Errorf("non-positive dimension in %v", dims)
		}
		n *= d
	}
	if len(data) != n {
		return nil, fmt.Errorf("data length %d does not match dimensions %v (need %d)", len(data), dims, n)
	}
	return &Dense{dims: append([]int(nil), dims...), data: data}, nil
}

// FromImage converts an image into a single-channel (1, H, W) tensor with
// values in [0, 1]. Non-grayscale images are converted through the gray
// color model.
func FromImage(img image.Image) *Dense {
	bounds := img.Bounds()
	h, w := bounds.Dy(), bounds.Dx()
	t := New(1, h, w)
	pos := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			t.data[pos] = float32(g.Y) / 0xFFFF
			pos++
		}
	}
	return t
}

// ToImage renders a single-channel (1, H, W) or (H, W) tensor as an 8-bit
// grayscale image, clamping values to [0, 1].
func ToImage(t *Dense) (*image.Gray, error) {
	h, w, err := t.SpatialDims()
	if err != nil {
		return nil, err
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range t.data {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		img.Pix[i] = uint8(v*0xFF + 0.5)
	}
	return img, nil
}

// Dims returns a copy of the tensor dimensions.
func (t *Dense) Dims() []int {
	return append([]int(nil), t.dims...)
}

// Rank returns the number of dimensions.
func (t *Dense) Rank() int { return len(t.dims) }

// Len returns the total number of elements.
func (t *Dense) Len() int { return len(t.data) }

// Data returns the underlying flat row-major buffer.
func (t *Dense) Data() []float32 { return t.data }

// SpatialDims returns the height and width of a single-channel tensor,
// accepting shapes (1, H, W) and (H, W).
func (t *Dense) SpatialDims() (h, w int, err error) {
	switch {
	case len(t.dims) == 3 && t.dims[0] == 1:
		return t.dims[1], t.dims[2], nil
	case len(t.dims) == 2:
		return t.dims[0], t.dims[1], nil
	}
	return 0, 0, fmt.Errorf("tensor of size %v is not a single-channel raster", t.dims)
}

// offset computes the flat index for the given coordinates.
func (t *Dense) offset(idx []int) int {
	if len(idx) != len(t.dims) {
		panic(fmt.Sprintf("tensor: %d indices for tensor of size %v", len(idx), t.dims))
	}
	pos := 0
	for i, v := range idx {
		if v < 0 || v >= t.dims[i] {
			panic(fmt.Sprintf("tensor: index %v out of range for size %v", idx, t.dims))
		}
		pos = pos*t.dims[i] + v
	}
	return pos
}

// At returns the element at the given coordinates.
func (t *Dense) At(idx ...int) float32 { return t.data[t.offset(idx)] }

// Set stores v at the given coordinates.
func (t *Dense) Set(v float32, idx ...int) { t.data[t.offset(idx)] = v }

// Clone returns a deep copy of the tensor.
func (t *Dense) Clone() *Dense {
	out := New(t.dims...)
	copy(out.data, t.data)
	return out
}

// SameDims reports whether the two tensors have identical dimensions.
func SameDims(a, b *Dense) bool {
	if a.Rank() != b.Rank() {
		return false
	}
	for i, d := range a.dims {
		if b.dims[i] != d {
			return false
		}
	}
	return true
}
