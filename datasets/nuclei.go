package datasets

import (
	"image"
	"io"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/dlmbl/unet/tensor"
)

const (
	// ImageFileName and MaskFileName are the two files expected inside
	// every sample subdirectory.
	ImageFileName = "image.tif"
	MaskFileName  = "mask.tif"
)

// Input normalization: pixel values in [0, 1] are mapped to [-1, 1].
const (
	inputMean   = 0.5
	inputStdDev = 0.5
)

// NucleiDataset pairs cell microscopy images with nuclei masks. All
// samples are decoded into memory when the dataset is created; random
// transforms, if configured, are applied on access with the same seed for
// the image and its mask so their spatial alignment survives.
type NucleiDataset struct {
	// RootDir is the directory with one subdirectory per sample.
	RootDir string

	// BatchSize used by Yield.
	BatchSize int

	// Subdirectory names in enumeration order. loadedImgs and
	// loadedMasks are parallel to samples.
	samples     []string
	loadedImgs  []image.Image
	loadedMasks []image.Image

	// transform applies to both image and mask; imgTransform applies to
	// the image only (e.g. blur augmentation that must not corrupt the
	// ground truth).
	transform    Transform
	imgTransform Transform

	// rng draws the per-access seed shared by the paired transform.
	rng *rand.Rand

	// Yield order. shuffle==nil means sequential epochs.
	shuffle *rand.Rand
	order   []int
	cursor  int

	dtype dtypes.DType
}

var (
	_ train.Dataset = &NucleiDataset{}
	_ Dataset       = &NucleiDataset{}
)

// NewNucleiDataset enumerates the sample subdirectories under rootDir and
// loads every image/mask pair into memory.
//
//   - batchSize: examples per Yield call; <= 0 selects the default of 32.
//   - resizeWidth, resizeHeight: when both > 0, every sample is resized at
//     load time (Lanczos for images, nearest-neighbor for masks so labels
//     stay crisp). Zero keeps the native size.
//   - shuffle: if set (not nil), this *rand.Rand reshuffles the epoch order
//     on every Reset. Nil yields samples in enumeration order.
//   - dtype: element type of the tensors Yield produces, Float32 or
//     Float64.
//   - verbose: print a progress bar while loading.
func NewNucleiDataset(rootDir string, batchSize, resizeWidth, resizeHeight int,
	shuffle *rand.Rand, dtype dtypes.DType, verbose bool) (*NucleiDataset, error) {
	samples, err := listSampleDirs(rootDir)
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = 32
	}
	ds := &NucleiDataset{
		RootDir:   rootDir,
		BatchSize: batchSize,
		samples:   samples,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		shuffle:   shuffle,
		dtype:     dtype,
	}
	if err := ds.load(resizeWidth, resizeHeight, verbose); err != nil {
		return nil, err
	}
	ds.Reset()
	return ds, nil
}

// WithTransform sets the paired random transform applied to both the image
// and the mask on every Sample call. Returns the dataset to allow chained
// calls.
func (ds *NucleiDataset) WithTransform(t Transform) *NucleiDataset {
	ds.transform = t
	return ds
}

// WithImageTransform sets a random transform applied to the image only,
// after the paired transform.
func (ds *NucleiDataset) WithImageTransform(t Transform) *NucleiDataset {
	ds.imgTransform = t
	return ds
}

// WithSeed makes the per-access transform seeds deterministic.
func (ds *NucleiDataset) WithSeed(seed int64) *NucleiDataset {
	ds.rng = rand.New(rand.NewSource(seed))
	return ds
}

// load decodes all image/mask pairs with a small worker pool.
func (ds *NucleiDataset) load(resizeWidth, resizeHeight int, verbose bool) error {
	n := len(ds.samples)
	ds.loadedImgs = make([]image.Image, n)
	ds.loadedMasks = make([]image.Image, n)

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}

	var pBar *progressbar.ProgressBar
	if verbose {
		pBar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription("Loading samples"),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("samples"),
		)
	}

	jobs := make(chan int, n)
	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				img, err := readSampleImage(ds.RootDir, ds.samples[idx], ImageFileName)
				if err != nil {
					errCh <- err
					return
				}
				mask, err := readSampleImage(ds.RootDir, ds.samples[idx], MaskFileName)
				if err != nil {
					errCh <- err
					return
				}
				img = imaging.Grayscale(img)
				if resizeWidth > 0 && resizeHeight > 0 {
					img = imaging.Resize(img, resizeWidth, resizeHeight, imaging.Lanczos)
					mask = imaging.Resize(mask, resizeWidth, resizeHeight, imaging.NearestNeighbor)
				}
				ds.loadedImgs[idx] = img
				ds.loadedMasks[idx] = mask
				if pBar != nil {
					_ = pBar.Add(1)
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(errCh)
	if pBar != nil {
		_ = pBar.Close()
	}
	for err := range errCh {
		return err
	}
	return nil
}

// Len returns the total number of samples.
func (ds *NucleiDataset) Len() int { return len(ds.samples) }

// SampleName returns the subdirectory name of sample idx.
func (ds *NucleiDataset) SampleName(idx int) string { return ds.samples[idx] }

// Sample returns the image and mask at idx as channel-first tensors. The
// image is normalized to [-1, 1], the mask stays in [0, 1]. If a paired
// transform is configured, it runs on both with the same seed; the
// image-only transform, if any, runs after it.
func (ds *NucleiDataset) Sample(idx int) (img, mask *tensor.Dense, err error) {
	if idx < 0 || idx >= len(ds.samples) {
		return nil, nil, errors.Errorf("sample index %d out of range [0, %d)", idx, len(ds.samples))
	}
	imgSrc, maskSrc := ds.loadedImgs[idx], ds.loadedMasks[idx]
	if ds.transform != nil {
		// Same seed twice keeps image and mask spatially aligned.
		seed := ds.rng.Int63()
		imgSrc = ds.transform.Apply(rand.New(rand.NewSource(seed)), imgSrc)
		maskSrc = ds.transform.Apply(rand.New(rand.NewSource(seed)), maskSrc)
	}
	if ds.imgTransform != nil {
		imgSrc = ds.imgTransform.Apply(ds.rng, imgSrc)
	}
	img = tensor.Normalize(tensor.FromImage(imgSrc), inputMean, inputStdDev)
	mask = tensor.FromImage(maskSrc)
	return img, mask, nil
}

// Name implements train.Dataset.
func (ds *NucleiDataset) Name() string { return "NucleiDataset" }

// Yield implements train.Dataset. It returns one inputs tensor shaped
// [batch, 1, H, W] with the images and one labels tensor of the same shape
// with the masks. The final batch of an epoch may be short; after the
// epoch is exhausted Yield returns io.EOF until Reset is called.
func (ds *NucleiDataset) Yield() (spec any, inputs, labels []*tensors.Tensor, err error) {
	spec = ds
	if ds.cursor >= len(ds.order) {
		return nil, nil, nil, io.EOF
	}
	end := ds.cursor + ds.BatchSize
	if end > len(ds.order) {
		end = len(ds.order)
	}

	imgs := make([]*tensor.Dense, 0, end-ds.cursor)
	masks := make([]*tensor.Dense, 0, end-ds.cursor)
	for _, idx := range ds.order[ds.cursor:end] {
		img, mask, err := ds.Sample(idx)
		if err != nil {
			return nil, nil, nil, err
		}
		imgs = append(imgs, img)
		masks = append(masks, mask)
	}
	ds.cursor = end

	var inT, labT *tensors.Tensor
	switch ds.dtype {
	case dtypes.Float64:
		inT, err = tensor.Batch[float64](imgs)
		if err == nil {
			labT, err = tensor.Batch[float64](masks)
		}
	case dtypes.Float32, dtypes.InvalidDType:
		inT, err = tensor.Batch[float32](imgs)
		if err == nil {
			labT, err = tensor.Batch[float32](masks)
		}
	default:
		return nil, nil, nil, errors.Errorf("NucleiDataset with dtype=%q not supported", ds.dtype)
	}
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "batching samples")
	}
	return spec, []*tensors.Tensor{inT}, []*tensors.Tensor{labT}, nil
}

// Reset implements train.Dataset: it restarts the epoch, reshuffling the
// order when a shuffle generator was configured.
func (ds *NucleiDataset) Reset() {
	ds.cursor = 0
	if ds.order == nil {
		ds.order = make([]int, len(ds.samples))
		for i := range ds.order {
			ds.order[i] = i
		}
	}
	if ds.shuffle != nil {
		ds.shuffle.Shuffle(len(ds.order), func(i, j int) {
			ds.order[i], ds.order[j] = ds.order[j], ds.order[i]
		})
	}
}
