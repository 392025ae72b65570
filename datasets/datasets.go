package datasets

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/dlmbl/unet/tensor"
)

// This package provides the dataset used by the nuclei-segmentation
// tutorial: cell microscopy images paired with nuclei ground-truth masks.
//
// Samples live on disk as one subdirectory per sample, each holding an
// `image.tif` and a `mask.tif`. Everything is decoded eagerly at
// construction time and kept in memory; the two in-memory sequences share
// length and index order, so the mask at index i always belongs to the
// image at index i. Ordering is directory enumeration order and nothing
// beyond that ties an image to its mask.
//
// Notes on gomlx tensors:
//   - Samples are held as decoded images and converted on access into small
//     dense float32 buffers with shape metadata (see the tensor package).
//     These are trivial to batch into gomlx tensors, which is exactly what
//     Yield does for the gomlx training loop.

// Dataset is the interface the dataset implementations in this package
// satisfy. The Name/Yield/Reset subset is gomlx's train.Dataset, so a
// Dataset plugs directly into gomlx training loops and batching utilities.
type Dataset interface {
	Len() int
	Sample(i int) (img, mask *tensor.Dense, err error)

	// To implement gomlx's train.Dataset interface.
	Name() string
	Yield() (any, []*tensors.Tensor, []*tensors.Tensor, error)
	Reset()
}
