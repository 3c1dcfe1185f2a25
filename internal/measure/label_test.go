package measure

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maskFromRows builds a binary mask from rows of '#' (foreground) and '.'.
func maskFromRows(origin image.Point, rows ...string) *image.Gray {
	r := image.Rect(0, 0, len(rows[0]), len(rows)).Add(origin)
	mask := image.NewGray(r)
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	return mask
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		count int
	}{
		{"empty", []string{"....", "...."}, 0},
		{"single pixel", []string{"....", ".#.."}, 1},
		{"two separate blobs", []string{"##..", "##..", "...#"}, 1},
		{"gap of one column", []string{"#.#", "#.#"}, 2},
		{"full image", []string{"###", "###"}, 1},
		{"three in a row", []string{"#.#.#"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Label(maskFromRows(image.Point{}, tt.rows...))
			assert.Equal(t, tt.count, m.Count)
			assert.NoError(t, m.Validate())
		})
	}
}

func TestLabel_DiagonalNeighborsConnect(t *testing.T) {
	m := Label(maskFromRows(image.Point{},
		"#..",
		".#.",
		"..#",
	))
	assert.Equal(t, 1, m.Count)
}

func TestLabel_RasterOrder(t *testing.T) {
	m := Label(maskFromRows(image.Point{},
		"...#",
		"#...",
		"....",
		".##.",
	))
	require.Equal(t, 3, m.Count)
	assert.Equal(t, 1, m.LabelAt(3, 0))
	assert.Equal(t, 2, m.LabelAt(0, 1))
	assert.Equal(t, 3, m.LabelAt(1, 3))
	assert.Equal(t, 3, m.LabelAt(2, 3))
	assert.Equal(t, 0, m.LabelAt(0, 0))
}

func TestLabel_OffsetBounds(t *testing.T) {
	origin := image.Pt(5, 7)
	m := Label(maskFromRows(origin, "#.", ".."))
	assert.Equal(t, image.Rect(5, 7, 7, 9), m.Bounds())
	assert.Equal(t, 1, m.LabelAt(5, 7))
	assert.Equal(t, 0, m.LabelAt(0, 0))
}

func TestLabel_DoesNotModifyMask(t *testing.T) {
	mask := maskFromRows(image.Point{}, "#.#", "###")
	before := append([]uint8(nil), mask.Pix...)
	Label(mask)
	assert.Equal(t, before, mask.Pix)
}

func TestLabelMap_Validate(t *testing.T) {
	tests := []struct {
		name    string
		labels  []int
		count   int
		wantErr bool
	}{
		{"valid", []int{0, 1, 2, 2}, 2, false},
		{"all background", []int{0, 0, 0, 0}, 0, false},
		{"label above count", []int{0, 1, 3, 0}, 2, true},
		{"negative label", []int{-1, 1, 0, 0}, 1, true},
		{"missing label", []int{0, 1, 1, 0}, 2, true},
		{"wrong length", []int{0, 1}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &LabelMap{Rect: image.Rect(0, 0, 2, 2), Labels: tt.labels, Count: tt.count}
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
