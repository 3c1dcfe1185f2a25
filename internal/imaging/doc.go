// Package imaging provides the raster operations around colony classification.
//
// This package loads and saves plate images, converts them to a floating-point
// intensity image, binarizes the intensity image into a foreground mask, and
// composites class masks that isolate selected regions of the original image.
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Intensity
//
// GrayImage holds luminance in [0, 1]. Binarize marks pixels strictly brighter
// than the threshold as foreground (255) and everything else as background (0).
// OtsuThreshold derives a threshold from the image histogram when no fixed
// threshold is configured.
//
// # Masks
//
// CompositeMask keeps the original pixels of the regions whose descriptor table
// positions are listed and zeroes every other pixel. Position p refers to label
// p+1 of the label map.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless, never mutates its inputs, and may run concurrently on the same
// source image.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Label maps whose dimensions differ from the image (colony.ErrShapeMismatch)
//   - Thresholds outside (0, 1)
//   - Crop regions outside the image bounds
//   - File I/O, decoding, and encoding failures
package imaging
