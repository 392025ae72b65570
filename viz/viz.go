// Package viz renders dataset samples and diagnostics to image files with
// gonum/plot. It stands in for the notebook-side matplotlib helpers: every
// function writes a figure to disk instead of showing it.
package viz

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	// Register decoders so SaveImageFile can read the tutorial data.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"

	"github.com/dlmbl/unet/tensor"
)

const tileSize = 4 * vg.Inch

// Module is anything that maps one tensor to another, e.g. a network
// forward pass or a filtering step.
type Module func(*tensor.Dense) (*tensor.Dense, error)

// tensorGrid adapts a single-channel tensor to plotter.GridXYZ. Row 0 of
// the raster is drawn at the top, matching image coordinates.
type tensorGrid struct {
	t    *tensor.Dense
	h, w int
}

func newTensorGrid(t *tensor.Dense) (tensorGrid, error) {
	h, w, err := t.SpatialDims()
	if err != nil {
		return tensorGrid{}, err
	}
	return tensorGrid{t: t, h: h, w: w}, nil
}

func (g tensorGrid) Dims() (c, r int) { return g.w, g.h }
func (g tensorGrid) X(c int) float64  { return float64(c) }
func (g tensorGrid) Y(r int) float64  { return float64(r) }
func (g tensorGrid) Z(c, r int) float64 {
	row := g.h - 1 - r
	if g.t.Rank() == 3 {
		return float64(g.t.At(0, row, c))
	}
	return float64(g.t.At(row, c))
}

// heatPlot builds a single heatmap plot for one raster.
func heatPlot(t *tensor.Dense, title string) (*plot.Plot, error) {
	g, err := newTensorGrid(t)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.Add(plotter.NewHeatMap(g, moreland.Kindlmann().Palette(255)))
	return p, nil
}

// saveRow draws the plots side by side into a single PNG.
func saveRow(path string, ps ...*plot.Plot) error {
	img := vgimg.New(vg.Length(len(ps))*tileSize, tileSize)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1, Cols: len(ps),
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Millimeter, PadBottom: vg.Millimeter,
		PadLeft: vg.Millimeter, PadRight: vg.Millimeter,
	}
	canvases := plot.Align([][]*plot.Plot{ps}, tiles, dc)
	for i, p := range ps {
		p.Draw(canvases[0][i])
	}

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// SaveImage renders a single raster and writes it to path. The format is
// chosen by the file extension, as with plot.Plot.Save.
func SaveImage(t *tensor.Dense, path string) error {
	p, err := heatPlot(t, "")
	if err != nil {
		return err
	}
	return p.Save(tileSize, tileSize, path)
}

// SaveImageFile reads an image file (TIFF, PNG or JPEG) and renders it to
// outPath.
func SaveImageFile(imagePath, outPath string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", imagePath, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", imagePath, err)
	}
	return SaveImage(tensor.FromImage(img), outPath)
}

// SaveSample writes an image and its mask side by side.
func SaveSample(img, mask *tensor.Dense, path string) error {
	pImg, err := heatPlot(img, "Image")
	if err != nil {
		return err
	}
	pMask, err := heatPlot(mask, "Mask")
	if err != nil {
		return err
	}
	return saveRow(path, pImg, pMask)
}

// SaveComparison writes the input raster and a derived raster side by
// side, annotating each with its value range and size.
func SaveComparison(in, out *tensor.Dense, path string) error {
	pIn, err := heatPlot(in, "Input Image")
	if err != nil {
		return err
	}
	pOut, err := heatPlot(out, "Output")
	if err != nil {
		return err
	}
	inMin, inMax := tensor.MinMax(in)
	outMin, outMax := tensor.MinMax(out)
	pIn.X.Label.Text = fmt.Sprintf("min: %.2f, max: %.2f, size: %v", inMin, inMax, in.Dims())
	pOut.X.Label.Text = fmt.Sprintf("min: %.2f, max: %.2f, size: %v", outMin, outMax, out.Dims())
	return saveRow(path, pIn, pOut)
}

// SaveApplied runs the module on the input and writes the comparison.
func SaveApplied(f Module, in *tensor.Dense, path string) error {
	out, err := f(in)
	if err != nil {
		return fmt.Errorf("applying module: %w", err)
	}
	return SaveComparison(in, out, path)
}

// SaveReceptiveField renders the raster with a centered box of side
// fieldOfView, visualizing which input pixels influence the central output
// pixel.
func SaveReceptiveField(t *tensor.Dense, fieldOfView int, path string) error {
	p, err := heatPlot(t, "")
	if err != nil {
		return err
	}
	h, w, err := t.SpatialDims()
	if err != nil {
		return err
	}
	xmin := float64(w)/2 - float64(fieldOfView)/2
	xmax := float64(w)/2 + float64(fieldOfView)/2
	ymin := float64(h)/2 - float64(fieldOfView)/2
	ymax := float64(h)/2 + float64(fieldOfView)/2
	box, err := plotter.NewLine(plotter.XYs{
		{X: xmin, Y: ymin},
		{X: xmax, Y: ymin},
		{X: xmax, Y: ymax},
		{X: xmin, Y: ymax},
		{X: xmin, Y: ymin},
	})
	if err != nil {
		return fmt.Errorf("failed to build box outline: %w", err)
	}
	box.Color = color.RGBA{R: 0xff, A: 0xff}
	box.Width = vg.Points(3)
	p.Add(box)
	return p.Save(tileSize, tileSize, path)
}
