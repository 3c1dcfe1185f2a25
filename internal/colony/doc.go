// Package colony classifies the connected regions of a binarized plate image
// into colony categories using shape and size descriptors.
//
// The package is the decision core of the colony counter. It receives a
// DescriptorTable (one Region per labeled component, produced by the measure
// package), computes population statistics over candidate subsets of that
// table, and partitions table positions into named classes.
//
// # Classification Modes
//
// Three independent modes are supported, each producing its own Result:
//
//   - ModeLowEccInRange ("low-ecc"): round regions whose area lies inside the
//     band mean ± k·stddev of all round regions. These are clear singular colonies.
//   - ModeHighEcc ("high-ecc"): elongated regions (eccentricity ≥ threshold).
//     These are ambiguous or overlapping clusters.
//   - ModeLowEccOutOfRange ("low-ecc-oob"): round regions whose area lies outside
//     the band. These are size outliers and noise.
//
// Every table position other than the reserved position 0 lands in exactly one
// side of the eccentricity split, and the two band modes are complementary over
// the round candidates.
//
// # Table Positions
//
// Results refer to regions by their position in the DescriptorTable, not by
// label. Position p holds the region with label p+1. Position 0 is reserved and
// is never a member of any class, whatever its measurements.
//
// # Error Handling
//
// The package uses three error kinds, tested with errors.Is:
//   - ErrShapeMismatch: label map and intensity image dimensions differ
//   - ErrEmptyCandidateSet: a mode has no eligible candidates
//   - ErrInvalidConfig: threshold, multiplier, mode, or field out of domain
//
// Classify isolates ErrEmptyCandidateSet per mode: the affected Result carries
// StatusNoData instead of a zero count, and the remaining modes still run.
package colony
