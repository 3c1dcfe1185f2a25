package colony

import "fmt"

// ReservedPosition is the table position excluded from every classification.
const ReservedPosition = 0

// Bounds is a region's bounding box in pixel coordinates.
//
// (X1, Y1) is the top-left corner (inclusive), (X2, Y2) the bottom-right
// corner (exclusive), so the box area is (X2-X1)*(Y2-Y1).
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Area returns the number of pixels covered by the box.
func (b Bounds) Area() int {
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Region holds the shape and intensity descriptors of one connected component.
type Region struct {
	// ID is the 1-based label of the component in the label map.
	ID int `json:"id"`

	// Area is the number of pixels in the component.
	Area int `json:"area"`

	// ConvexArea is the pixel area of the component's convex hull.
	ConvexArea int `json:"convex_area"`

	// BBoxArea is the pixel area of the bounding box.
	BBoxArea int `json:"bbox_area"`

	// Extent is Area / BBoxArea, in [0, 1].
	Extent float64 `json:"extent"`

	// MeanIntensity is the mean grayscale value over the component's pixels.
	MeanIntensity float64 `json:"mean_intensity"`

	// Solidity is Area / ConvexArea, in [0, 1].
	Solidity float64 `json:"solidity"`

	// Eccentricity of the moment-equivalent ellipse: 0 is a circle, 1 a line.
	Eccentricity float64 `json:"eccentricity"`

	// Orientation is the angle in radians between the row axis and the
	// ellipse major axis, counter-clockwise, in [-π/2, π/2].
	Orientation float64 `json:"orientation"`

	// BBox is the bounding box of the component.
	BBox Bounds `json:"bbox"`
}

// Field names a numeric Region descriptor.
type Field string

// Descriptor fields usable with ComputeStats.
const (
	FieldArea          Field = "area"
	FieldConvexArea    Field = "convex_area"
	FieldBBoxArea      Field = "bbox_area"
	FieldExtent        Field = "extent"
	FieldMeanIntensity Field = "mean_intensity"
	FieldSolidity      Field = "solidity"
	FieldEccentricity  Field = "eccentricity"
	FieldOrientation   Field = "orientation"
)

// Fields lists every descriptor field in table column order.
func Fields() []Field {
	return []Field{
		FieldArea,
		FieldConvexArea,
		FieldBBoxArea,
		FieldExtent,
		FieldMeanIntensity,
		FieldSolidity,
		FieldEccentricity,
		FieldOrientation,
	}
}

// Value returns the named descriptor as a float64.
// The second result is false for an unknown field.
func (r Region) Value(f Field) (float64, bool) {
	switch f {
	case FieldArea:
		return float64(r.Area), true
	case FieldConvexArea:
		return float64(r.ConvexArea), true
	case FieldBBoxArea:
		return float64(r.BBoxArea), true
	case FieldExtent:
		return r.Extent, true
	case FieldMeanIntensity:
		return r.MeanIntensity, true
	case FieldSolidity:
		return r.Solidity, true
	case FieldEccentricity:
		return r.Eccentricity, true
	case FieldOrientation:
		return r.Orientation, true
	}
	return 0, false
}

// DescriptorTable is the ordered list of regions measured from one image.
//
// Position p holds the region labeled p+1. The table is produced once per
// image and treated as read-only by everything downstream.
type DescriptorTable []Region

// Positions returns every position of the table except ReservedPosition.
func (t DescriptorTable) Positions() []int {
	if len(t) <= 1 {
		return nil
	}
	out := make([]int, 0, len(t)-1)
	for pos := range t {
		if pos == ReservedPosition {
			continue
		}
		out = append(out, pos)
	}
	return out
}

// Label returns the label-map value of the region at pos.
func (t DescriptorTable) Label(pos int) int {
	return pos + 1
}

func (t DescriptorTable) value(pos int, f Field) (float64, error) {
	if pos < 0 || pos >= len(t) {
		return 0, fmt.Errorf("position %d outside table of %d regions", pos, len(t))
	}
	v, ok := t[pos].Value(f)
	if !ok {
		return 0, fmt.Errorf("%w: unknown field %q", ErrInvalidConfig, f)
	}
	return v, nil
}
