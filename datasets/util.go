package datasets

import (
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	// Register the decoders for the formats the tutorial data comes in.
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// listSampleDirs returns the names of the sample subdirectories under
// rootDir, in directory enumeration order (sorted by name).
func listSampleDirs(rootDir string) ([]string, error) {
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing samples under %q", rootDir)
	}
	samples := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			samples = append(samples, entry.Name())
		}
	}
	if len(samples) == 0 {
		return nil, errors.Errorf("no sample subdirectories under %q", rootDir)
	}
	return samples, nil
}

// readSampleImage decodes one file of a sample, e.g. its image.tif.
func readSampleImage(rootDir, sample, name string) (image.Image, error) {
	path := filepath.Join(rootDir, sample, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", path)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %q", path)
	}
	return img, nil
}
