package measure

import (
	"fmt"
	"image"
)

// LabelMap stores one label per pixel: 0 for background, 1..Count for components.
type LabelMap struct {
	Rect   image.Rectangle
	Labels []int // row-major, stride Rect.Dx()
	Count  int
}

// NewLabelMap allocates an all-background LabelMap covering r.
func NewLabelMap(r image.Rectangle) *LabelMap {
	return &LabelMap{
		Rect:   r,
		Labels: make([]int, r.Dx()*r.Dy()),
	}
}

// Bounds returns the map rectangle.
func (m *LabelMap) Bounds() image.Rectangle {
	return m.Rect
}

// LabelAt returns the label at (x, y), or 0 outside the map.
func (m *LabelMap) LabelAt(x, y int) int {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return 0
	}
	return m.Labels[(y-m.Rect.Min.Y)*m.Rect.Dx()+(x-m.Rect.Min.X)]
}

// Validate checks that every label lies in 0..Count and every label 1..Count
// occurs at least once.
func (m *LabelMap) Validate() error {
	if len(m.Labels) != m.Rect.Dx()*m.Rect.Dy() {
		return fmt.Errorf("label map holds %d labels for %dx%d pixels", len(m.Labels), m.Rect.Dx(), m.Rect.Dy())
	}
	seen := make([]bool, m.Count+1)
	for _, l := range m.Labels {
		if l < 0 || l > m.Count {
			return fmt.Errorf("label %d outside 0..%d", l, m.Count)
		}
		seen[l] = true
	}
	for l := 1; l <= m.Count; l++ {
		if !seen[l] {
			return fmt.Errorf("label %d has no pixels", l)
		}
	}
	return nil
}

// Label finds the 8-connected components of the non-zero pixels of mask.
func Label(mask *image.Gray) *LabelMap {
	bounds := mask.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	m := NewLabelMap(bounds)

	foreground := func(x, y int) bool {
		return mask.Pix[y*mask.Stride+x] != 0
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if foreground(x, y) && m.Labels[y*width+x] == 0 {
				m.Count++
				floodFill(m, foreground, x, y, m.Count)
			}
		}
	}
	return m
}

// floodFill assigns label to the component containing (startX, startY).
//
// Uses an explicit stack rather than recursion so that large colonies cannot
// overflow the goroutine stack. Coordinates are relative to the map origin.
func floodFill(m *LabelMap, foreground func(x, y int) bool, startX, startY, label int) {
	width, height := m.Rect.Dx(), m.Rect.Dy()
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		idx := p.Y*width + p.X
		if m.Labels[idx] != 0 || !foreground(p.X, p.Y) {
			continue
		}
		m.Labels[idx] = label

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
}
