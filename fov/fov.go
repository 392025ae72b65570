// Package fov computes the field of view (receptive field) of a symmetric
// encoder/decoder convolutional network: the spatial extent of input pixels
// that influence a single output pixel.
package fov

import "fmt"

// Network describes the geometry of a U-Net style encoder/decoder: Depth
// levels, two convolutions with KernelSize per level, and a downsampling by
// DownsampleFactor between levels.
type Network struct {
	Depth            int `json:"depth"`
	KernelSize       int `json:"kernel_size"`
	DownsampleFactor int `json:"downsample_factor"`
}

// Validate checks that the geometry describes a network Compute can handle.
func (n Network) Validate() error {
	if n.Depth < 1 {
		return fmt.Errorf("network depth must be at least 1, got %d", n.Depth)
	}
	if n.KernelSize < 1 {
		return fmt.Errorf("kernel size must be at least 1, got %d", n.KernelSize)
	}
	if n.DownsampleFactor < 1 {
		return fmt.Errorf("downsample factor must be at least 1, got %d", n.DownsampleFactor)
	}
	return nil
}

// FieldOfView returns the receptive field of the network.
func (n Network) FieldOfView() int {
	return Compute(n.Depth, n.KernelSize, n.DownsampleFactor)
}

// Compute returns the receptive field of a symmetric encoder/decoder with
// the given depth, convolution kernel size and per-level downsampling
// factor. Each convolution widens the field by (kernelSize-1) scaled by the
// accumulated downsampling; each downsampling multiplies the accumulated
// factor. Requires depth >= 1; the result is monotonically non-decreasing
// in both depth and kernel size.
func Compute(depth, kernelSize, downsampleFactor int) int {
	field := 1
	factor := 1

	// Encoder: two convolutions per level, then downsample.
	for level := 0; level < depth-1; level++ {
		field += 2 * (kernelSize - 1) * factor
		field *= downsampleFactor
		factor *= downsampleFactor
	}

	// Bottom level has just the two convolutions.
	field += 2 * (kernelSize - 1) * factor

	// Decoder: upsample back, then two convolutions per level.
	for level := depth - 2; level >= 0; level-- {
		factor /= downsampleFactor
		field += 2 * (kernelSize - 1) * factor
	}
	return field
}
