package tensor

import (
	"fmt"
	"reflect"

	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"
)

// Batch stacks same-sized tensors into one gomlx tensor with a leading
// batch dimension. The element type T selects the gomlx dtype.
func Batch[T interface{ float32 | float64 }](ts []*Dense) (*tensors.Tensor, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("empty batch")
	}
	for i, t := range ts[1:] {
		if !SameDims(ts[0], t) {
			return nil, fmt.Errorf("inconsistent sizes in batch: element 0 is %v, element %d is %v",
				ts[0].dims, i+1, t.dims)
		}
	}

	var zero T
	dims := append([]int{len(ts)}, ts[0].dims...)
	out := tensors.FromShape(shapes.Make(dtypes.FromGoType(reflect.TypeOf(zero)), dims...))
	out.MutableFlatData(func(flatAny any) {
		flat := flatAny.([]T)
		pos := 0
		for _, t := range ts {
			for _, v := range t.data {
				flat[pos] = T(v)
				pos++
			}
		}
	})
	return out, nil
}

// ToGomlx converts a single tensor, keeping its dimensions.
func ToGomlx[T interface{ float32 | float64 }](t *Dense) *tensors.Tensor {
	var zero T
	out := tensors.FromShape(shapes.Make(dtypes.FromGoType(reflect.TypeOf(zero)), t.dims...))
	out.MutableFlatData(func(flatAny any) {
		flat := flatAny.([]T)
		for i, v := range t.data {
			flat[i] = T(v)
		}
	})
	return out
}
