package tensor

import "fmt"

// PadToSize zero-pads t symmetrically up to the target size. Along each
// dimension the slack is split between the two sides; when it is odd the
// low side gets the larger (ceil) half. When the target equals the source
// size the input tensor itself is returned. Any target dimension smaller
// than the source is an error.
func PadToSize(t *Dense, target ...int) (*Dense, error) {
	if len(target) != len(t.dims) {
		return nil, fmt.Errorf("can't pad tensor of size %v to tensor of size %v: rank mismatch", t.dims, target)
	}
	same := true
	for i, d := range t.dims {
		if target[i] < d {
			return nil, fmt.Errorf("can't pad tensor of size %v to tensor of size %v", t.dims, target)
		}
		if target[i] != d {
			same = false
		}
	}
	if same {
		return t, nil
	}

	// Low-side offset per dimension; the low side gets the ceil half of
	// an odd split, the high side the floor half.
	lo := make([]int, len(t.dims))
	for i, d := range t.dims {
		lo[i] = (target[i] - d + 1) / 2
	}

	out := New(target...)
	idx := make([]int, len(t.dims))
	dst := make([]int, len(t.dims))
	for pos := 0; pos < len(t.data); pos++ {
		for i := range idx {
			dst[i] = idx[i] + lo[i]
		}
		out.data[out.offset(dst)] = t.data[pos]

		// Advance the source coordinates, last dimension fastest.
		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < t.dims[i] {
				break
			}
			idx[i] = 0
		}
	}
	return out, nil
}
