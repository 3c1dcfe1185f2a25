// Package pipeline runs the colony count for one plate image or a batch.
//
// A single image goes through load, grayscale, binarize, label, extract and
// classify (Analyze), then each classified mode is composited into a mask
// image and written to the output directory (Run). RunBatch runs independent
// images concurrently; source images are shared read-only through the cache
// and never mutated.
//
// # Artifacts
//
// Per image the output directory receives:
//   - low-ecc-regions.png, high-ecc-regions.png, low-ecc-oob-regions.png: one
//     mask per configured mode. A mode without data still gets an all-black
//     mask so every mode has an artifact.
//   - comparison.png: captioned 2x2 panel (when enabled)
//   - area-histogram.png: low-eccentricity area histogram (when enabled and
//     there are candidates)
//
// Cancellation is checked between stages; a stage in progress runs to
// completion.
package pipeline
