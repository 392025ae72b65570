// Command nucleiviz renders figures from a nuclei training dataset: a
// random (or chosen) image/mask pair, a padding demonstration, an input
// augmentation comparison, and the receptive field of a configurable
// encoder/decoder network overlaid on the sample.
//
// Usage:
//
//	nucleiviz -data nuclei_train_data -out output
//
// The network geometry and rendering tunables come from a JSON config
// file. When no --config path is given the embedded defaults below are
// used and written to <out>/config.json as a convenience; explicit CLI
// flags override the JSON values either way.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/blur"
	"github.com/gomlx/gopjrt/dtypes"

	"github.com/dlmbl/unet/datasets"
	"github.com/dlmbl/unet/fov"
	"github.com/dlmbl/unet/tensor"
	"github.com/dlmbl/unet/viz"
)

// defaultConfigJSON is the embedded configuration used when --config is
// not provided.
const defaultConfigJSON = `{
  "network": {
    "depth": 4,
    "kernel_size": 3,
    "downsample_factor": 2
  },
  "dataset": {
    "batch_size": 8,
    "resize_width": 0,
    "resize_height": 0
  },
  "render": {
    "blur_radius": 3.0,
    "pad_margin": 32
  }
}
`

type config struct {
	Network fov.Network `json:"network"`
	Dataset struct {
		BatchSize    int `json:"batch_size"`
		ResizeWidth  int `json:"resize_width"`
		ResizeHeight int `json:"resize_height"`
	} `json:"dataset"`
	Render struct {
		BlurRadius float64 `json:"blur_radius"`
		PadMargin  int     `json:"pad_margin"`
	} `json:"render"`
}

func loadConfig(path, outDir string) (*config, error) {
	raw := []byte(defaultConfigJSON)
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	cfg := &config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if path == "" {
		// Write the defaults next to the figures so they are easy to tweak.
		defaultPath := filepath.Join(outDir, "config.json")
		if err := os.WriteFile(defaultPath, raw, 0644); err != nil {
			log.Printf("could not write default config to %s: %v", defaultPath, err)
		}
	}
	return cfg, nil
}

func main() {
	var (
		dataDir    = flag.String("data", "nuclei_train_data", "directory with one subdirectory per sample")
		outDir     = flag.String("out", "output", "directory the figures are written to")
		configPath = flag.String("config", "", "JSON config file; empty uses embedded defaults")
		sampleIdx  = flag.Int("sample", -1, "sample index to render; -1 picks one at random")
		seed       = flag.Int64("seed", 10, "seed for the random sample choice and transforms")
		depth      = flag.Int("depth", 0, "network depth; overrides the config when > 0")
		kernel     = flag.Int("kernel", 0, "convolution kernel size; overrides the config when > 0")
		downsample = flag.Int("downsample", 0, "per-level downsample factor; overrides the config when > 0")
		verbose    = flag.Bool("verbose", false, "show a progress bar while loading samples")
	)
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output dir %s: %v", *outDir, err)
	}

	cfg, err := loadConfig(*configPath, *outDir)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *depth > 0 {
		cfg.Network.Depth = *depth
	}
	if *kernel > 0 {
		cfg.Network.KernelSize = *kernel
	}
	if *downsample > 0 {
		cfg.Network.DownsampleFactor = *downsample
	}
	if err := cfg.Network.Validate(); err != nil {
		log.Fatalf("invalid network geometry: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	ds, err := datasets.NewNucleiDataset(*dataDir, cfg.Dataset.BatchSize,
		cfg.Dataset.ResizeWidth, cfg.Dataset.ResizeHeight, nil, dtypes.Float32, *verbose)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	ds.WithSeed(*seed)
	log.Printf("loaded %d samples from %s", ds.Len(), *dataDir)

	idx := *sampleIdx
	if idx < 0 {
		idx = rng.Intn(ds.Len())
	}
	img, mask, err := ds.Sample(idx)
	if err != nil {
		log.Fatalf("failed to read sample %d: %v", idx, err)
	}
	log.Printf("rendering sample %d (%s), image size %v", idx, ds.SampleName(idx), img.Dims())

	samplePath := filepath.Join(*outDir, "sample.png")
	if err := viz.SaveSample(tensor.Unnormalize(img), mask, samplePath); err != nil {
		log.Fatalf("failed to render sample: %v", err)
	}
	log.Printf("wrote %s", samplePath)

	// Padding demonstration: grow the sample symmetrically by the
	// configured margin.
	dims := img.Dims()
	target := make([]int, len(dims))
	copy(target, dims)
	for i := 1; i < len(target); i++ {
		target[i] += cfg.Render.PadMargin
	}
	padded, err := tensor.PadToSize(tensor.Unnormalize(img), target...)
	if err != nil {
		log.Fatalf("failed to pad sample: %v", err)
	}
	paddedPath := filepath.Join(*outDir, "padded.png")
	if err := viz.SaveImage(padded, paddedPath); err != nil {
		log.Fatalf("failed to render padded sample: %v", err)
	}
	log.Printf("wrote %s", paddedPath)

	// Augmentation comparison: a Gaussian blur stands in for an arbitrary
	// module applied to the input.
	blurModule := func(t *tensor.Dense) (*tensor.Dense, error) {
		src, err := tensor.ToImage(t)
		if err != nil {
			return nil, err
		}
		return tensor.FromImage(blur.Gaussian(src, cfg.Render.BlurRadius)), nil
	}
	appliedPath := filepath.Join(*outDir, "applied.png")
	if err := viz.SaveApplied(blurModule, tensor.Unnormalize(img), appliedPath); err != nil {
		log.Fatalf("failed to render module comparison: %v", err)
	}
	log.Printf("wrote %s", appliedPath)

	fieldOfView := cfg.Network.FieldOfView()
	log.Printf("field of view for depth=%d kernel=%d downsample=%d: %d pixels",
		cfg.Network.Depth, cfg.Network.KernelSize, cfg.Network.DownsampleFactor, fieldOfView)
	fovPath := filepath.Join(*outDir, "receptive_field.png")
	if err := viz.SaveReceptiveField(tensor.Unnormalize(img), fieldOfView, fovPath); err != nil {
		log.Fatalf("failed to render receptive field: %v", err)
	}
	log.Printf("wrote %s", fovPath)
}
