package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createInMemoryImage returns a solid-color RGBA image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage returns a 4-quadrant image: red top-left, green top-right,
// blue bottom-left, white bottom-right.
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.RGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255}
			default:
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// createTestImage writes a solid-color PNG into a test temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-image.png")
	writePNG(t, path, createInMemoryImage(width, height, c))
	return path
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
}

// fakeLabels is a minimal LabelSource backed by a row-major slice.
type fakeLabels struct {
	rect   image.Rectangle
	labels []int
}

func newFakeLabels(width, height int, labels ...int) *fakeLabels {
	return &fakeLabels{rect: image.Rect(0, 0, width, height), labels: labels}
}

func (f *fakeLabels) Bounds() image.Rectangle { return f.rect }

func (f *fakeLabels) LabelAt(x, y int) int {
	if !(image.Point{X: x, Y: y}).In(f.rect) {
		return 0
	}
	return f.labels[(y-f.rect.Min.Y)*f.rect.Dx()+(x-f.rect.Min.X)]
}
