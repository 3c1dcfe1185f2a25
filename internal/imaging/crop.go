package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/colony-counter/internal/colony"
)

// CropResult contains a cropped image encoded as base64 PNG.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts the rectangle (x1,y1)-(x2,y2) from img, optionally rescaled.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	bounds := img.Bounds()

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// CropRegion crops a region's bounding box grown by padding pixels on every
// side and clamped to the image.
func CropRegion(img image.Image, box colony.Bounds, padding int, scale float64) (*CropResult, error) {
	if padding < 0 {
		return nil, fmt.Errorf("padding %d must not be negative", padding)
	}
	r := image.Rect(box.X1-padding, box.Y1-padding, box.X2+padding, box.Y2+padding).Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("region box (%d,%d)-(%d,%d) outside image", box.X1, box.Y1, box.X2, box.Y2)
	}
	return Crop(img, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, scale)
}
