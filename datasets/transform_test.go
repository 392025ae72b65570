package datasets

import (
	"image"
	"math/rand"
	"testing"
)

// checker builds a small asymmetric test image.
func checker(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = uint8((y*w + x) % 251)
		}
	}
	return img
}

// sameImage compares two images pixel by pixel through the gray model.
func sameImage(a, b image.Image) bool {
	if a.Bounds().Size() != b.Bounds().Size() {
		return false
	}
	da, db := a.Bounds(), b.Bounds()
	for y := 0; y < da.Dy(); y++ {
		for x := 0; x < da.Dx(); x++ {
			ra, ga, ba, _ := a.At(da.Min.X+x, da.Min.Y+y).RGBA()
			rb, gb, bb, _ := b.At(db.Min.X+x, db.Min.Y+y).RGBA()
			if ra != rb || ga != gb || ba != bb {
				return false
			}
		}
	}
	return true
}

// TestTransformsDeterministic verifies the contract paired application
// relies on: identical seeds give identical results.
func TestTransformsDeterministic(t *testing.T) {
	transforms := map[string]Transform{
		"hflip":    RandomHorizontalFlip(),
		"vflip":    RandomVerticalFlip(),
		"rotate90": RandomRotate90(),
		"crop":     RandomCrop(6, 6),
		"blur":     GaussianBlur(2),
		"compose":  Compose{RandomHorizontalFlip(), RandomRotate90(), RandomCrop(6, 6)},
	}
	src := checker(12, 12)
	for name, tr := range transforms {
		for seed := int64(0); seed < 10; seed++ {
			a := tr.Apply(rand.New(rand.NewSource(seed)), src)
			b := tr.Apply(rand.New(rand.NewSource(seed)), src)
			if !sameImage(a, b) {
				t.Fatalf("%s: results differ for seed %d", name, seed)
			}
		}
	}
}

func TestRandomCropSizeAndBounds(t *testing.T) {
	src := checker(16, 12)
	tr := RandomCrop(8, 8)
	for seed := int64(0); seed < 20; seed++ {
		out := tr.Apply(rand.New(rand.NewSource(seed)), src)
		if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 8 {
			t.Fatalf("seed %d: crop size %v", seed, out.Bounds().Size())
		}
	}

	// Too-small images pass through unchanged.
	small := checker(4, 4)
	out := tr.Apply(rand.New(rand.NewSource(1)), small)
	if out != image.Image(small) {
		t.Fatalf("expected small image to pass through unchanged")
	}
}

func TestRandomFlipsCoverBothOutcomes(t *testing.T) {
	src := checker(8, 8)
	tr := RandomHorizontalFlip()
	flipped, unflipped := false, false
	for seed := int64(0); seed < 32; seed++ {
		out := tr.Apply(rand.New(rand.NewSource(seed)), src)
		if sameImage(out, src) {
			unflipped = true
		} else {
			flipped = true
		}
	}
	if !flipped || !unflipped {
		t.Fatalf("expected both outcomes over 32 seeds: flipped=%v unflipped=%v", flipped, unflipped)
	}
}

func TestGaussianBlurPreservesSize(t *testing.T) {
	src := checker(10, 14)
	out := GaussianBlur(3).Apply(rand.New(rand.NewSource(2)), src)
	if out.Bounds().Size() != src.Bounds().Size() {
		t.Fatalf("blur changed size: %v vs %v", out.Bounds().Size(), src.Bounds().Size())
	}
}
