package datasets

import (
	"image"
	"math/rand"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Transform is a randomized image transform. Implementations must be
// deterministic given the rng: applying the same transform twice with
// generators seeded identically must produce identical results, which is
// what keeps an image and its mask aligned under paired application.
type Transform interface {
	Apply(rng *rand.Rand, img image.Image) image.Image
}

// TransformFunc adapts a plain function to the Transform interface.
type TransformFunc func(rng *rand.Rand, img image.Image) image.Image

// Apply implements Transform.
func (f TransformFunc) Apply(rng *rand.Rand, img image.Image) image.Image {
	return f(rng, img)
}

// Compose applies transforms in order, threading the same rng through all
// of them.
type Compose []Transform

// Apply implements Transform.
func (c Compose) Apply(rng *rand.Rand, img image.Image) image.Image {
	for _, t := range c {
		img = t.Apply(rng, img)
	}
	return img
}

// RandomHorizontalFlip mirrors the image left-right with probability 1/2.
func RandomHorizontalFlip() Transform {
	return TransformFunc(func(rng *rand.Rand, img image.Image) image.Image {
		if rng.Intn(2) == 1 {
			return imaging.FlipH(img)
		}
		return img
	})
}

// RandomVerticalFlip mirrors the image top-bottom with probability 1/2.
func RandomVerticalFlip() Transform {
	return TransformFunc(func(rng *rand.Rand, img image.Image) image.Image {
		if rng.Intn(2) == 1 {
			return imaging.FlipV(img)
		}
		return img
	})
}

// RandomRotate90 rotates the image by a random multiple of 90 degrees.
func RandomRotate90() Transform {
	return TransformFunc(func(rng *rand.Rand, img image.Image) image.Image {
		for k := rng.Intn(4); k > 0; k-- {
			img = imaging.Rotate90(img)
		}
		return img
	})
}

// RandomCrop crops a random width x height window. Images smaller than the
// window are returned unchanged.
func RandomCrop(width, height int) Transform {
	return TransformFunc(func(rng *rand.Rand, img image.Image) image.Image {
		bounds := img.Bounds()
		if bounds.Dx() < width || bounds.Dy() < height {
			return img
		}
		x0 := bounds.Min.X + rng.Intn(bounds.Dx()-width+1)
		y0 := bounds.Min.Y + rng.Intn(bounds.Dy()-height+1)
		return imaging.Crop(img, image.Rect(x0, y0, x0+width, y0+height))
	})
}

// GaussianBlur blurs with a radius drawn uniformly from [0, maxRadius).
// Meant as an image-only augmentation: blurring the mask would corrupt the
// ground truth.
func GaussianBlur(maxRadius float64) Transform {
	return TransformFunc(func(rng *rand.Rand, img image.Image) image.Image {
		radius := rng.Float64() * maxRadius
		if radius == 0 {
			return img
		}
		return blur.Gaussian(img, radius)
	})
}
