package report

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/colony-counter/internal/colony"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultPanelCell is the longest edge, in pixels, of each panel image.
const DefaultPanelCell = 400

// captionHeight is the caption strip above each panel image.
const captionHeight = 20

// panelSlots places the original and the class masks on the 2x2 grid.
var panelSlots = []struct {
	col, row int
	mode     colony.Mode
	original bool
}{
	{0, 0, 0, true},
	{1, 0, colony.ModeLowEccInRange, false},
	{0, 1, colony.ModeHighEcc, false},
	{1, 1, colony.ModeLowEccOutOfRange, false},
}

// RenderPanel composes a captioned 2x2 comparison panel: the original image,
// then the low-eccentricity, high-eccentricity and out-of-range masks.
//
// Parameters:
//   - original: The source color image.
//   - masks: Composited mask per mode. Missing modes leave an empty cell.
//   - results: Classification results used for the captions.
//   - cell: Longest edge of each image cell; values <= 0 select DefaultPanelCell.
//
// Returns:
//   - *image.NRGBA: The panel, black background, white captions.
func RenderPanel(original image.Image, masks map[colony.Mode]image.Image, results []colony.Result, cell int) *image.NRGBA {
	if cell <= 0 {
		cell = DefaultPanelCell
	}
	cellW, cellH := cellSize(original.Bounds(), cell)
	slotW, slotH := cellW, cellH+captionHeight

	panel := imaging.New(2*slotW, 2*slotH, color.Black)

	byMode := make(map[colony.Mode]colony.Result, len(results))
	for _, r := range results {
		byMode[r.Mode] = r
	}

	for _, s := range panelSlots {
		x0, y0 := s.col*slotW, s.row*slotH

		var (
			img     image.Image
			caption string
		)
		if s.original {
			img, caption = original, "Original image"
		} else {
			img = masks[s.mode]
			if r, ok := byMode[s.mode]; ok {
				caption = Caption(r)
			} else {
				caption = Caption(colony.Result{Mode: s.mode, Status: colony.StatusNoData})
			}
		}

		if img != nil {
			scaled := imaging.Resize(img, cellW, cellH, imaging.Linear)
			panel = imaging.Overlay(panel, scaled, image.Pt(x0, y0+captionHeight), 1.0)
		}

		strip := image.Rect(x0, y0, x0+slotW, y0+captionHeight)
		drawCaption(panel, strip, caption)
	}
	return panel
}

// cellSize scales bounds so its longest edge equals cell.
func cellSize(b image.Rectangle, cell int) (int, int) {
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return cell, cell
	}
	if w >= h {
		return cell, max(1, cell*h/w)
	}
	return max(1, cell*w/h), cell
}

// drawCaption writes text into strip, clipped to it.
func drawCaption(dst *image.NRGBA, strip image.Rectangle, text string) {
	sub, ok := dst.SubImage(strip).(*image.NRGBA)
	if !ok {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  sub,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(strip.Min.X+4, strip.Min.Y+(captionHeight+face.Ascent)/2),
	}
	d.DrawString(text)
}
