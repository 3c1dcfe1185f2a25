package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/histogram"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Luminance weights (ITU-R BT.709) applied to normalized RGB channels.
const (
	lumaR = 0.2125
	lumaG = 0.7154
	lumaB = 0.0721
)

// GrayImage is a floating-point grayscale image with values in [0, 1].
//
// It is the intensity image of the pipeline: thresholding reads it, and region
// mean intensity is measured from it. Pix is row-major with stride Rect.Dx().
type GrayImage struct {
	Rect image.Rectangle
	Pix  []float64
}

// NewGrayImage allocates a zeroed GrayImage covering r.
func NewGrayImage(r image.Rectangle) *GrayImage {
	return &GrayImage{
		Rect: r,
		Pix:  make([]float64, r.Dx()*r.Dy()),
	}
}

// Bounds returns the image rectangle.
func (g *GrayImage) Bounds() image.Rectangle {
	return g.Rect
}

// At returns the intensity at (x, y), or 0 outside the image.
func (g *GrayImage) At(x, y int) float64 {
	if !(image.Point{X: x, Y: y}).In(g.Rect) {
		return 0
	}
	return g.Pix[g.offset(x, y)]
}

func (g *GrayImage) offset(x, y int) int {
	return (y-g.Rect.Min.Y)*g.Rect.Dx() + (x - g.Rect.Min.X)
}

// Quantize converts the image to 8-bit gray, rounding to the nearest level.
func (g *GrayImage) Quantize() *image.Gray {
	out := image.NewGray(g.Rect)
	for y := g.Rect.Min.Y; y < g.Rect.Max.Y; y++ {
		for x := g.Rect.Min.X; x < g.Rect.Max.X; x++ {
			out.SetGray(x, y, color.Gray{Y: quantize(g.At(x, y))})
		}
	}
	return out
}

func quantize(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Grayscale converts a color image to luminance in [0, 1].
//
// Each pixel is un-premultiplied and normalized through go-colorful, then
// weighted as Y = 0.2125·R + 0.7154·G + 0.0721·B. Fully transparent pixels
// become 0.
func Grayscale(img image.Image) *GrayImage {
	bounds := img.Bounds()
	gray := NewGrayImage(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			gray.Pix[gray.offset(x, y)] = lumaR*c.R + lumaG*c.G + lumaB*c.B
		}
	}
	return gray
}

// Binarize returns a foreground mask of the pixels brighter than threshold.
//
// Parameters:
//   - gray: The intensity image.
//   - threshold: Cut-off in (0, 1). A pixel is foreground when its intensity
//     is strictly greater than threshold.
//
// Returns:
//   - *image.Gray: 255 for foreground, 0 for background.
//   - error: Non-nil if threshold is outside (0, 1).
func Binarize(gray *GrayImage, threshold float64) (*image.Gray, error) {
	if math.IsNaN(threshold) || threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("threshold %v outside (0, 1)", threshold)
	}

	mask := image.NewGray(gray.Rect)
	for i, v := range gray.Pix {
		if v > threshold {
			mask.Pix[i] = 255
		}
	}
	return mask, nil
}

// OtsuThreshold picks the threshold in (0, 1) that maximizes the between-class
// variance of the 8-bit intensity histogram.
//
// A uniform image has no separating level; the result is then 0.5.
func OtsuThreshold(gray *GrayImage) float64 {
	// The quantized image is gray, so the red channel carries its levels.
	histo := histogram.NewRGBAHistogram(gray.Quantize()).R.Bins
	total := len(gray.Pix)

	var totalWeighted float64
	for level, n := range histo {
		totalWeighted += float64(level * n)
	}

	var (
		best         = -1
		bestVariance float64
		blkPixels    int
		blkWeighted  float64
	)
	for level, n := range histo[:255] {
		blkPixels += n
		blkWeighted += float64(level * n)

		wtePixels := total - blkPixels
		if blkPixels == 0 || wtePixels == 0 {
			continue
		}

		blkMean := blkWeighted / float64(blkPixels)
		wteMean := (totalWeighted - blkWeighted) / float64(wtePixels)
		d := blkMean - wteMean
		variance := float64(blkPixels) * float64(wtePixels) * d * d
		if variance > bestVariance {
			bestVariance = variance
			best = level
		}
	}

	if best < 0 {
		return 0.5
	}
	// Levels 0..254 map into (0, 1) once shifted half a step up.
	return (float64(best) + 0.5) / 255
}
