package measure

import (
	"fmt"
	"math"

	"github.com/ironsheep/colony-counter/internal/colony"
	"github.com/ironsheep/colony-counter/internal/imaging"
	"gonum.org/v1/gonum/mat"
)

// accumulator gathers the per-label sums needed by Extract.
type accumulator struct {
	n                      int
	minX, minY, maxX, maxY int
	sumX, sumY, sumI       float64

	// second pass
	muRR, muCC, muRC float64
	spans            []rowSpan
}

// Extract measures every labeled component of labels into a DescriptorTable.
//
// Parameters:
//   - labels: A LabelMap with labels 1..Count, each present at least once.
//   - intensity: The intensity image the mask was derived from. Must have the
//     same dimensions as labels.
//
// Returns:
//   - colony.DescriptorTable: One Region per label in ascending label order.
//     Position p holds label p+1. Bounding boxes are in intensity coordinates.
//   - error: A colony.ShapeMismatchError when the dimensions differ, or an
//     error describing an inconsistent LabelMap.
//
// Extract does not modify its inputs.
func Extract(labels *LabelMap, intensity *imaging.GrayImage) (colony.DescriptorTable, error) {
	if err := colony.CheckShape(labels.Bounds(), intensity.Bounds()); err != nil {
		return nil, err
	}
	if err := labels.Validate(); err != nil {
		return nil, fmt.Errorf("invalid label map: %w", err)
	}

	width, height := labels.Rect.Dx(), labels.Rect.Dy()
	ib := intensity.Bounds()
	acc := make([]accumulator, labels.Count+1)
	for i := range acc {
		acc[i].minX, acc[i].minY = math.MaxInt, math.MaxInt
		acc[i].maxX, acc[i].maxY = -1, -1
	}

	// First pass: counts, bounding boxes, coordinate and intensity sums.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			l := labels.Labels[y*width+x]
			if l == 0 {
				continue
			}
			a := &acc[l]
			a.n++
			a.minX, a.maxX = min(a.minX, x), max(a.maxX, x)
			a.minY, a.maxY = min(a.minY, y), max(a.maxY, y)
			a.sumX += float64(x)
			a.sumY += float64(y)
			a.sumI += intensity.Pix[y*ib.Dx()+x]
		}
	}

	for l := 1; l <= labels.Count; l++ {
		acc[l].spans = make([]rowSpan, acc[l].maxY-acc[l].minY+1)
	}

	// Second pass: central moments and per-row extremes for the hull.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			l := labels.Labels[y*width+x]
			if l == 0 {
				continue
			}
			a := &acc[l]
			dx := float64(x) - a.sumX/float64(a.n)
			dy := float64(y) - a.sumY/float64(a.n)
			a.muCC += dx * dx
			a.muRR += dy * dy
			a.muRC += dx * dy

			s := &a.spans[y-a.minY]
			if !s.set {
				s.minX, s.maxX, s.set = x, x, true
			} else {
				s.minX, s.maxX = min(s.minX, x), max(s.maxX, x)
			}
		}
	}

	table := make(colony.DescriptorTable, labels.Count)
	for l := 1; l <= labels.Count; l++ {
		table[l-1] = describe(l, &acc[l], labels.Rect.Min.X, labels.Rect.Min.Y)
	}
	return table, nil
}

func describe(label int, a *accumulator, originX, originY int) colony.Region {
	n := float64(a.n)
	box := colony.Bounds{
		X1: a.minX + originX,
		Y1: a.minY + originY,
		X2: a.maxX + 1 + originX,
		Y2: a.maxY + 1 + originY,
	}
	bboxArea := box.Area()

	convex := convexArea(a.spans, a.minY)
	if convex < a.n {
		convex = a.n
	}

	// Inertia tensor [[a, b], [b, c]] in (column, row) order.
	ta := a.muCC / n
	tb := -a.muRC / n
	tc := a.muRR / n
	ecc := eccentricity(ta, tb, tc)

	return colony.Region{
		ID:            label,
		Area:          a.n,
		ConvexArea:    convex,
		BBoxArea:      bboxArea,
		Extent:        n / float64(bboxArea),
		MeanIntensity: a.sumI / n,
		Solidity:      n / float64(convex),
		Eccentricity:  ecc,
		Orientation:   orientation(ta, tb, tc),
		BBox:          box,
	}
}

// eccentricity returns sqrt(1 - λ2/λ1) for the eigenvalues λ1 ≥ λ2 of the
// symmetric tensor [[a, b], [b, c]].
func eccentricity(a, b, c float64) float64 {
	var l1, l2 float64

	var es mat.EigenSym
	if es.Factorize(mat.NewSymDense(2, []float64{a, b, b, c}), false) {
		vals := es.Values(nil)
		l2, l1 = vals[0], vals[1]
	} else {
		mid := (a + c) / 2
		r := math.Hypot((a-c)/2, b)
		l1, l2 = mid+r, mid-r
	}

	if l1 <= 0 {
		return 0
	}
	l2 = math.Max(l2, 0)
	return math.Min(math.Sqrt(1-l2/l1), 1)
}

// orientation returns the angle between the row axis and the major axis of the
// tensor [[a, b], [b, c]], in [-π/2, π/2].
func orientation(a, b, c float64) float64 {
	if a-c == 0 {
		if b < 0 {
			return -math.Pi / 4
		}
		return math.Pi / 4
	}
	return 0.5 * math.Atan2(-2*b, c-a)
}
