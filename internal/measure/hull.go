package measure

import (
	"math"
	"sort"
)

// hullPoint is a point on the doubled pixel grid: pixel (x, y) has its center
// at (2x, 2y) and its corners at (2x±1, 2y±1), keeping hull math in integers.
type hullPoint struct {
	X, Y int
}

func cross(o, a, b hullPoint) int {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// convexHull returns the hull of points in counter-clockwise order without
// collinear vertices (Andrew's monotone chain). points is reordered.
func convexHull(points []hullPoint) []hullPoint {
	if len(points) < 3 {
		return points
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].X != points[j].X {
			return points[i].X < points[j].X
		}
		return points[i].Y < points[j].Y
	})

	hull := make([]hullPoint, 0, 2*len(points))
	for _, p := range points {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(points) - 2; i >= 0; i-- {
		p := points[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// rowSpan is the leftmost and rightmost pixel column of a region in one row.
type rowSpan struct {
	minX, maxX int
	set        bool
}

// convexArea counts the pixels whose centers lie inside (or on) the convex hull
// of the region's pixel squares. spans[i] describes row firstRow+i.
func convexArea(spans []rowSpan, firstRow int) int {
	points := make([]hullPoint, 0, 4*len(spans))
	for i, s := range spans {
		if !s.set {
			continue
		}
		y := 2 * (firstRow + i)
		points = append(points,
			hullPoint{2*s.minX - 1, y - 1}, hullPoint{2*s.minX - 1, y + 1},
			hullPoint{2*s.maxX + 1, y - 1}, hullPoint{2*s.maxX + 1, y + 1},
		)
	}
	hull := convexHull(points)
	if len(hull) < 3 {
		return 0
	}

	area := 0
	for i := range spans {
		cy := 2 * (firstRow + i)
		lo, hi, ok := scanline(hull, cy)
		if !ok {
			continue
		}
		first := int(math.Ceil(lo/2 - 1e-9))
		last := int(math.Floor(hi/2 + 1e-9))
		if last >= first {
			area += last - first + 1
		}
	}
	return area
}

// scanline intersects the convex polygon with the horizontal line Y = y and
// returns the covered X interval.
func scanline(hull []hullPoint, y int) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := range hull {
		a, b := hull[i], hull[(i+1)%len(hull)]
		if (y < a.Y && y < b.Y) || (y > a.Y && y > b.Y) {
			continue
		}
		if a.Y == b.Y {
			lo = math.Min(lo, float64(min(a.X, b.X)))
			hi = math.Max(hi, float64(max(a.X, b.X)))
			continue
		}
		x := float64(a.X) + float64(y-a.Y)*float64(b.X-a.X)/float64(b.Y-a.Y)
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi, lo <= hi
}
