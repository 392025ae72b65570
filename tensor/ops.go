package tensor

// Normalize returns a new tensor with every element mapped through
// (x - mean) / stddev. With mean and stddev both 0.5 this takes [0, 1]
// pixel data to the [-1, 1] range the tutorial network expects.
func Normalize(t *Dense, mean, stddev float32) *Dense {
	out := New(t.dims...)
	for i, v := range t.data {
		out.data[i] = (v - mean) / stddev
	}
	return out
}

// Unnormalize maps [-1, 1] data back to [0, 1] for display.
func Unnormalize(t *Dense) *Dense {
	out := New(t.dims...)
	for i, v := range t.data {
		out.data[i] = (v + 1) / 2
	}
	return out
}

// MinMax returns the smallest and largest element.
func MinMax(t *Dense) (min, max float32) {
	min, max = t.data[0], t.data[0]
	for _, v := range t.data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
