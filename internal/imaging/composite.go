package imaging

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/colony-counter/internal/colony"
)

// LabelSource is a label map: one integer label per pixel, 0 for background.
type LabelSource interface {
	Bounds() image.Rectangle
	LabelAt(x, y int) int
}

// CompositeMask isolates a set of regions in a color image.
//
// Parameters:
//   - img: The original color image. It is not modified.
//   - labels: The label map of img. Must have the same dimensions.
//   - positions: Descriptor table positions of the regions to keep. Position p
//     selects label p+1.
//
// Returns:
//   - *image.NRGBA: A new image with the same bounds as img where pixels of the
//     selected regions keep their original channel values and every other pixel
//     has all color channels zeroed. Masked pixels are opaque so the result
//     renders black outside the regions.
//   - error: A colony.ShapeMismatchError when the dimensions differ.
//
// Applying CompositeMask to its own output with the same positions returns an
// identical image.
func CompositeMask(img image.Image, labels LabelSource, positions []int) (*image.NRGBA, error) {
	if err := colony.CheckShape(labels.Bounds(), img.Bounds()); err != nil {
		return nil, err
	}

	keep := make(map[int]bool, len(positions))
	for _, p := range positions {
		keep[p+1] = true
	}

	// Clone normalizes any source model to NRGBA with bounds origin at (0,0).
	out := imaging.Clone(img)
	lb := labels.Bounds()
	w, h := lb.Dx(), lb.Dy()

	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			label := labels.LabelAt(lb.Min.X+x, lb.Min.Y+y)
			if label != 0 && keep[label] {
				continue
			}
			px := row[x*4 : x*4+4]
			px[0], px[1], px[2], px[3] = 0, 0, 0, 0xff
		}
	}

	// Keep the caller's coordinate space.
	out.Rect = out.Rect.Add(img.Bounds().Min)
	return out, nil
}
