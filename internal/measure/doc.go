// Package measure labels connected foreground components of a binary mask and
// measures each component into a colony.Region.
//
// Label assigns labels 1..N in raster order (the first foreground pixel met
// scanning rows top to bottom, left to right, starts label 1) using full
// 8-connectivity. Extract turns a LabelMap and its intensity image into a
// colony.DescriptorTable whose position p holds label p+1.
//
// # Descriptors
//
// Shape descriptors follow the usual moment-based definitions:
//   - Area: pixel count
//   - BBoxArea: bounding box pixel count; Extent = Area / BBoxArea
//   - ConvexArea: pixels whose centers fall inside the convex hull of the
//     component's pixel squares; Solidity = Area / ConvexArea
//   - Eccentricity: sqrt(1 - λ2/λ1) for the eigenvalues λ1 ≥ λ2 of the
//     normalized inertia tensor
//   - Orientation: angle between the row axis and the major axis, in radians
//   - MeanIntensity: mean of the intensity image over the component
package measure
